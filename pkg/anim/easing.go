package anim

import (
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/stackchart/pkg/errors"
)

// Easing maps linear progress t in [0, 1] to eased progress. Easings start
// at 0 and end at 1 but may overshoot in between.
type Easing func(t float64) float64

// Linear progresses at constant speed.
func Linear(t float64) float64 { return t }

// CubicOut decelerates towards the end.
func CubicOut(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// ExponentialOut decelerates sharply towards the end.
func ExponentialOut(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

// tpmt is 2^-10x rescaled so that tpmt(0) == 1 and tpmt(1) == 0.
func tpmt(x float64) float64 {
	return (math.Pow(2, -10*x) - 0.0009765625) * 1.0009775171065494
}

// ElasticOut returns an easing that overshoots its target and settles with
// a damped oscillation. Amplitudes below 1 are raised to 1; period is in
// units of the transition length.
func ElasticOut(amplitude, period float64) Easing {
	a := math.Max(1, amplitude)
	p := period / (2 * math.Pi)
	s := math.Asin(1/a) * p
	return func(t float64) float64 {
		if t >= 1 {
			return 1
		}
		return 1 - a*tpmt(t)*math.Sin((t+s)/p)
	}
}

// BounceOut bounces against the target a few times before resting.
func BounceOut(t float64) float64 {
	const (
		b1 = 4.0 / 11
		b2 = 6.0 / 11
		b3 = 8.0 / 11
		b4 = 3.0 / 4
		b5 = 9.0 / 11
		b6 = 10.0 / 11
		b7 = 15.0 / 16
		b8 = 21.0 / 22
		b9 = 63.0 / 64
		b0 = 1 / b1 / b1
	)
	switch {
	case t < b1:
		return b0 * t * t
	case t < b3:
		t -= b2
		return b0*t*t + b4
	case t < b6:
		t -= b5
		return b0*t*t + b7
	default:
		t -= b8
		return b0*t*t + b9
	}
}

// Elastic is the vertical-growth easing of stacked bars.
var Elastic = ElasticOut(1.5, 0.6)

var easings = map[string]Easing{
	"linear":          Linear,
	"cubic-out":       CubicOut,
	"exponential-out": ExponentialOut,
	"elastic-out":     Elastic,
	"bounce-out":      BounceOut,
}

// EasingNames returns the registered easing names in sorted order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for n := range easings {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// EasingByName looks up an easing. Names are case-insensitive.
func EasingByName(name string) (Easing, error) {
	if e, ok := easings[strings.ToLower(name)]; ok {
		return e, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidEasing, "unknown easing %q (must be one of: %s)", name, strings.Join(EasingNames(), ", "))
}
