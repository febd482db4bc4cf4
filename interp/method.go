// Package interp turns a keyframe store into a continuous function of time.
//
// Every algorithm is a variant of Method and is evaluated through a single
// Interpolator type. Interpolators never extrapolate: queries before the
// first keyframe return the first value and queries after the last keyframe
// return the last value.
package interp

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInsufficientKeyframes is returned when a spline is set up with
	// fewer than degree+1 keyframes.
	ErrInsufficientKeyframes = errors.New("insufficient keyframes")
	// ErrInvalidDegree is returned for spline degrees below 1.
	ErrInvalidDegree = errors.New("invalid spline degree")
	// ErrUnknownMethod is returned by ParseMethod for unrecognised names.
	ErrUnknownMethod = errors.New("unknown interpolation method")
	// ErrUnknownSpace is returned for colour spaces that have no transform.
	ErrUnknownSpace = errors.New("unknown colour space")
	// ErrUnsupportedArity is returned when a method cannot handle the
	// component count of the store's values.
	ErrUnsupportedArity = errors.New("unsupported value arity")
)

// Kind selects the interpolation algorithm.
type Kind int

const (
	KindStep Kind = iota
	KindLinear
	KindBezier
	KindSpline
	KindSlerp
	KindColor
)

// Method is the closed set of interpolation algorithms. Degree is only used
// by KindSpline and Space only by KindColor.
type Method struct {
	Kind   Kind
	Degree int
	Space  Space

	// Ease reshapes the segment fraction before blending. It must map 0 to 0
	// and 1 to 1. Step ignores it.
	Ease func(float64) float64
}

var (
	Step   = Method{Kind: KindStep}
	Linear = Method{Kind: KindLinear}
	Bezier = Method{Kind: KindBezier}
	Slerp  = Method{Kind: KindSlerp}

	CubicSpline = Spline(3)

	HSV = ColorSpace(SpaceHSV)
	LAB = ColorSpace(SpaceLAB)
	XYZ = ColorSpace(SpaceXYZ)
	HCL = ColorSpace(SpaceHCL)
)

// Spline returns a global spline method of the given degree.
func Spline(degree int) Method {
	return Method{Kind: KindSpline, Degree: degree}
}

// ColorSpace returns a method that blends RGB values linearly inside space.
func ColorSpace(space Space) Method {
	return Method{Kind: KindColor, Space: space}
}

// WithEase returns a copy of m that shapes segment fractions with fn.
func (m Method) WithEase(fn func(float64) float64) Method {
	m.Ease = fn
	return m
}

func (m Method) String() string {
	switch m.Kind {
	case KindStep:
		return "step"
	case KindLinear:
		return "linear"
	case KindBezier:
		return "bezier"
	case KindSpline:
		if m.Degree == 3 {
			return "cubic_spline"
		}
		return fmt.Sprintf("spline(%d)", m.Degree)
	case KindSlerp:
		return "slerp"
	case KindColor:
		return m.Space.String()
	}
	return fmt.Sprintf("kind(%d)", int(m.Kind))
}

// GPU method codes understood by per-vertex evaluators.
const (
	CodeStep   = 0
	CodeLinear = 1
	CodeBezier = 2
	CodeHSV    = 3
	CodeXYZ    = 4
)

// Code returns the integer a GPU-side evaluator uses to select the same
// formula. ok is false for methods that only exist on the CPU, including any
// eased method.
func (m Method) Code() (code int, ok bool) {
	if m.Ease != nil {
		return 0, false
	}
	switch m.Kind {
	case KindStep:
		return CodeStep, true
	case KindLinear:
		return CodeLinear, true
	case KindBezier:
		return CodeBezier, true
	case KindColor:
		switch m.Space {
		case SpaceHSV:
			return CodeHSV, true
		case SpaceXYZ:
			return CodeXYZ, true
		}
	}
	return 0, false
}

// ParseMethod maps a configuration name to a Method. degree is only
// consulted for "spline"; zero selects a cubic.
func ParseMethod(name string, degree int) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear":
		return Linear, nil
	case "step":
		return Step, nil
	case "bezier", "cubic_bezier":
		return Bezier, nil
	case "spline":
		if degree == 0 {
			degree = 3
		}
		if degree < 1 {
			return Method{}, fmt.Errorf("%w: %d", ErrInvalidDegree, degree)
		}
		return Spline(degree), nil
	case "cubic_spline":
		return CubicSpline, nil
	case "slerp", "rotation":
		return Slerp, nil
	}
	space, err := ParseSpace(name)
	if err != nil {
		return Method{}, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return ColorSpace(space), nil
}
