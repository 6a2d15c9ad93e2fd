// Package curve synthesizes 24-hour risk curves from aggregated
// incident-time distributions.
package curve

import (
	"math"

	"github.com/hxxtsxxh/lumos.ai/internal/profile"
)

// Symmetric 5-tap smoothing kernel applied circularly, since hour 23
// wraps into hour 0.
var smoothKernel = [5]float64{0.1, 0.2, 0.4, 0.2, 0.1}

// Hourly builds the 24-element risk curve for a region, scaled around
// baseRisk (0-100, higher is riskier). Preference order for the volume
// shape is region profile, then the global distribution, then a
// synthetic circadian shape.
//
// Raw hourly distributions capture report volume, which peaks during
// staffed business hours. Per-capita risk does not, so the volume shape
// is blended with a circadian prior that peaks around 02:00-03:00.
func Hourly(snap *profile.Snapshot, regionCode string, baseRisk float64) []float64 {
	dist := hourlyDist(snap, regionCode)
	if dist == nil {
		return Synthetic()
	}

	normalized := maxNormalize(dist)
	smoothed := maxNormalize(circularSmooth(normalized))

	shape := make([]float64, 24)
	var shapeMax float64
	for h := 0; h < 24; h++ {
		circadian := 0.5 + 0.5*math.Cos(2*math.Pi*float64(h-3)/24)
		shape[h] = 0.4*smoothed[h] + 0.6*circadian
		if shape[h] > shapeMax {
			shapeMax = shape[h]
		}
	}
	if shapeMax > 0 {
		for h := range shape {
			shape[h] /= shapeMax
		}
	}

	danger := (100 - baseRisk) / 100
	out := make([]float64, 24)
	for h := range shape {
		out[h] = clamp(shape[h]*danger*85+5, 5, 95)
	}
	return out
}

func hourlyDist(snap *profile.Snapshot, regionCode string) []float64 {
	if snap == nil {
		return nil
	}
	if region, ok := snap.Region(regionCode); ok && len(region.HourlyDist) == 24 {
		return region.HourlyDist
	}
	global := snap.GlobalHourly()
	var sum float64
	for _, v := range global {
		sum += v
	}
	if len(global) == 24 && sum > 0 {
		return global
	}
	return nil
}

// Synthetic is the shape used when no aggregated data exists at all:
// a night peak near 22:00, a smaller afternoon bump, and a morning
// trough, mapped onto a 10-80 risk range.
func Synthetic() []float64 {
	out := make([]float64, 24)
	var max float64
	for h := 0; h < 24; h++ {
		night := gauss(float64(h), 22, 3) * 0.7
		afternoon := gauss(float64(h), 15, 4) * 0.3
		morning := gauss(float64(h), 6, 3) * 0.2
		v := clamp(night+afternoon-morning+0.3, 0.1, 1.0)
		out[h] = v
		if v > max {
			max = v
		}
	}
	for h := range out {
		out[h] = out[h] / max * 70 + 10
	}
	return out
}

func circularSmooth(dist []float64) []float64 {
	out := make([]float64, len(dist))
	n := len(dist)
	half := len(smoothKernel) / 2
	for i := range dist {
		var sum float64
		for k, w := range smoothKernel {
			sum += w * dist[(i+k-half+n)%n]
		}
		out[i] = sum
	}
	return out
}

func maxNormalize(dist []float64) []float64 {
	var max float64
	for _, v := range dist {
		if v > max {
			max = v
		}
	}
	out := make([]float64, len(dist))
	if max == 0 {
		copy(out, dist)
		return out
	}
	for i, v := range dist {
		out[i] = v / max
	}
	return out
}

func gauss(x, mu, sigma float64) float64 {
	d := (x - mu) / sigma
	return math.Exp(-0.5 * d * d)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
