package interp

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/matt-g-everett/keyframe/keyframe"
)

// Interpolator evaluates one Method against one keyframe store. Derived state
// (colour-space values, rotations, a fitted spline) is rebuilt whenever the
// store's version changes.
type Interpolator struct {
	method  Method
	store   *keyframe.Store
	version uint64
	stale   bool

	space  []keyframe.Vector
	quats  []mgl64.Quat
	chords []float64
	cumul  []float64
	total  float64
	spline *bspline
}

// New creates an Interpolator for store. Configuration problems such as a
// spline with too few keyframes are reported here rather than at query time.
func New(store *keyframe.Store, m Method) (*Interpolator, error) {
	switch m.Kind {
	case KindStep, KindLinear, KindBezier, KindSlerp:
	case KindSpline:
		if m.Degree < 1 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidDegree, m.Degree)
		}
	case KindColor:
		if !m.Space.valid() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownSpace, int(m.Space))
		}
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrUnknownMethod, int(m.Kind))
	}

	ip := new(Interpolator)
	ip.method = m
	ip.store = store
	if err := ip.setup(); err != nil {
		return nil, err
	}
	return ip, nil
}

// Method returns the algorithm this interpolator runs.
func (ip *Interpolator) Method() Method {
	return ip.method
}

// Store returns the keyframe store the interpolator reads.
func (ip *Interpolator) Store() *keyframe.Store {
	return ip.store
}

func (ip *Interpolator) refresh() error {
	if !ip.stale && ip.version == ip.store.Version() {
		return nil
	}
	return ip.setup()
}

func (ip *Interpolator) setup() error {
	if err := ip.build(); err != nil {
		ip.stale = true
		return err
	}
	ip.version = ip.store.Version()
	ip.stale = false
	return nil
}

func (ip *Interpolator) build() error {
	ip.space, ip.quats, ip.spline = nil, nil, nil
	ip.chords, ip.cumul, ip.total = nil, nil, 0

	n := ip.store.Len()
	arity := ip.store.Arity()

	switch ip.method.Kind {
	case KindColor:
		if n > 0 && arity != 3 && arity != 4 {
			return fmt.Errorf("%w: %s needs RGB or RGBA values, got %d components",
				ErrUnsupportedArity, ip.method, arity)
		}
		ip.space = make([]keyframe.Vector, n)
		for i := 0; i < n; i++ {
			v := ip.store.At(i).Value
			s := ip.method.Space.FromRGB(v[0], v[1], v[2])
			sv := v.Clone()
			copy(sv, s[:])
			ip.space[i] = sv
		}
	case KindSlerp:
		if n > 0 && arity != 3 {
			return fmt.Errorf("%w: slerp needs euler angles, got %d components",
				ErrUnsupportedArity, arity)
		}
		ip.quats = make([]mgl64.Quat, n)
		for i := 0; i < n; i++ {
			ip.quats[i] = eulerToQuat(ip.store.At(i).Value)
		}
	case KindSpline:
		if n < ip.method.Degree+1 {
			return fmt.Errorf("%w: minimum %d keyframes must be set to use a %d-degree spline, have %d",
				ErrInsufficientKeyframes, ip.method.Degree+1, ip.method.Degree, n)
		}
		return ip.setupSpline()
	}
	return nil
}

func (ip *Interpolator) setupSpline() error {
	n := ip.store.Len()
	values := make([][]float64, n)
	for i := 0; i < n; i++ {
		values[i] = ip.store.At(i).Value
	}

	ip.chords, ip.total = chordLengths(values)
	ip.cumul = make([]float64, n)
	for i := 1; i < n; i++ {
		ip.cumul[i] = ip.cumul[i-1] + ip.chords[i-1]
	}
	if ip.total == 0 {
		return nil
	}

	// Repeated consecutive values share a parameter, so only the first of
	// each run takes part in the fit.
	points := [][]float64{values[0]}
	params := []float64{0}
	for i := 1; i < n; i++ {
		if ip.chords[i-1] > 0 {
			points = append(points, values[i])
			params = append(params, ip.cumul[i]/ip.total)
		}
	}

	s, err := fitBSpline(points, params, ip.method.Degree)
	if err != nil {
		return err
	}
	ip.spline = s
	return nil
}

// fraction returns where t lies between t1 and t2, clamped to [0,1] and
// shaped by the method's easing function.
func (ip *Interpolator) fraction(t, t1, t2 float64) float64 {
	if t1 == t2 {
		return 0
	}
	f := (t - t1) / (t2 - t1)
	f = math.Max(0, math.Min(1, f))
	if ip.method.Ease != nil {
		f = ip.method.Ease(f)
	}
	return f
}

// Evaluate returns the interpolated value at t. The result is a new vector
// owned by the caller.
func (ip *Interpolator) Evaluate(t float64) (keyframe.Vector, error) {
	if err := ip.refresh(); err != nil {
		return nil, err
	}
	lower, upper, err := ip.store.Segment(t)
	if err != nil {
		return nil, err
	}

	lo := ip.store.At(lower)
	if lower == upper || ip.method.Kind == KindStep {
		return lo.Value.Clone(), nil
	}
	hi := ip.store.At(upper)
	f := ip.fraction(t, lo.Timestamp, hi.Timestamp)
	if f == 0 {
		return lo.Value.Clone(), nil
	}
	out := make(keyframe.Vector, len(lo.Value))

	switch ip.method.Kind {
	case KindLinear:
		return lo.Value.Lerp(hi.Value, f, out), nil

	case KindBezier:
		p0, p1 := lo.Value, lo.OutControl()
		p2, p3 := hi.InControl(), hi.Value
		u := 1 - f
		for i := range out {
			out[i] = u*u*u*p0[i] + 3*u*u*f*p1[i] + 3*u*f*f*p2[i] + f*f*f*p3[i]
		}
		return out, nil

	case KindColor:
		ip.space[lower].Lerp(ip.space[upper], f, out)
		r, g, b := ip.method.Space.ToRGB([3]float64{out[0], out[1], out[2]})
		out[0], out[1], out[2] = r, g, b
		return out, nil

	case KindSlerp:
		quatToEuler(slerpShortest(ip.quats[lower], ip.quats[upper], f), out)
		return out, nil

	case KindSpline:
		if ip.spline == nil {
			return lo.Value.Clone(), nil
		}
		u := (ip.cumul[lower] + f*ip.chords[lower]) / ip.total
		ip.spline.eval(u, out)
		return out, nil
	}
	return nil, fmt.Errorf("%w: kind %d", ErrUnknownMethod, int(ip.method.Kind))
}

// Sample is one end of the keyframe pair surrounding a query time, in the
// form a GPU-side evaluator consumes. Data is expressed in the method's
// colour space for colour methods, and CP is the Bézier control point
// facing into the segment.
type Sample struct {
	T    float64
	Data keyframe.Vector
	CP   keyframe.Vector
}

// Segment is the pair of keyframes bracketing a query time.
type Segment struct {
	Start, End Sample
}

// Segment returns the keyframe pair bracketing t.
func (ip *Interpolator) Segment(t float64) (Segment, error) {
	if err := ip.refresh(); err != nil {
		return Segment{}, err
	}
	lower, upper, err := ip.store.Segment(t)
	if err != nil {
		return Segment{}, err
	}

	lo, hi := ip.store.At(lower), ip.store.At(upper)
	seg := Segment{
		Start: Sample{T: lo.Timestamp, Data: lo.Value, CP: lo.OutControl()},
		End:   Sample{T: hi.Timestamp, Data: hi.Value, CP: hi.InControl()},
	}
	if ip.method.Kind == KindColor {
		seg.Start.Data = ip.space[lower]
		seg.End.Data = ip.space[upper]
	}
	return seg, nil
}
