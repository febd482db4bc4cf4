package util

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fogleman/ease"
)

// ErrUnknownEase is returned for easing names that are not registered.
var ErrUnknownEase = errors.New("unknown ease")

var eases = map[string]func(float64) float64{
	"linear":        ease.Linear,
	"in_quad":       ease.InQuad,
	"out_quad":      ease.OutQuad,
	"in_out_quad":   ease.InOutQuad,
	"in_cubic":      ease.InCubic,
	"out_cubic":     ease.OutCubic,
	"in_out_cubic":  ease.InOutCubic,
	"in_sine":       ease.InSine,
	"out_sine":      ease.OutSine,
	"in_out_sine":   ease.InOutSine,
	"in_bounce":     ease.InBounce,
	"out_bounce":    ease.OutBounce,
	"in_out_bounce": ease.InOutBounce,
}

// Ease looks up an easing curve by name. Names are snake case, for example
// "in_out_quad". An empty name returns nil, meaning no easing.
func Ease(name string) (func(float64) float64, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, nil
	}
	fn, ok := eases[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEase, name)
	}
	return fn, nil
}

// EaseNames lists the registered easing curves in sorted order.
func EaseNames() []string {
	names := make([]string, 0, len(eases))
	for name := range eases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GenerateLut builds a symmetric ramp of the given length that rises from 0
// through fn to the middle and falls back the same way.
func GenerateLut(length int, fn func(float64) float64) []float64 {
	if fn == nil {
		fn = ease.InOutQuad
	}
	lut := make([]float64, length)
	if length < 2 {
		for i := range lut {
			lut[i] = 1
		}
		return lut
	}
	half := length / 2
	increment := 1.0 / float64(half)
	for i, j := 0, length-1; i < half; i, j = i+1, j-1 {
		value := fn(float64(i) * increment)
		lut[i] = value
		lut[j] = value
	}
	if length%2 == 1 {
		lut[half] = 1
	}
	return lut
}
