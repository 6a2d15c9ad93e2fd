package scoring

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/hxxtsxxh/lumos.ai/internal/profile"
)

// BlendMode says how the final score was assembled.
type BlendMode int

const (
	// BlendModelAndFormula is the normal path: 0.6 model + 0.4 formula.
	BlendModelAndFormula BlendMode = iota
	// BlendFormulaOnly is used when the degenerate constant model meets
	// an unresolved agency profile. Blending a constant into a score
	// for an unknown place only flattens it.
	BlendFormulaOnly
)

func (m BlendMode) String() string {
	if m == BlendFormulaOnly {
		return "formula_only"
	}
	return "model+formula"
}

// Context carries everything one score needs. Agency and Region are the
// already-resolved profiles; callers that skip resolution leave them
// zero and the feature builder takes its explicit fallback path.
type Context struct {
	Lat float64
	Lng float64

	CrimeRatePer100k float64
	Population       int

	Hour      int
	Weekday   time.Weekday
	Month     time.Month
	IsWeekend bool

	Travelers       int
	Gender          string
	WeatherSeverity float64
	DurationMinutes int

	IsCollegeTown bool
	IsUrban       bool
	POIDensity    float64

	LiveEvents       int
	LiveIncidents    int
	MoonIllumination float64

	Agency profile.Match
	Region *profile.RegionProfile
}

// Result is one scored request.
type Result struct {
	Index    int       // 5..95, higher is safer
	Score    float64   // blended score in [0,1] before integer clamp
	Model    float64   // raw model prediction
	Formula  float64   // raw formula score
	Blend    BlendMode
	Features []float64
}

// Engine scores contexts against one model, memoizing predictions in a
// bounded LRU.
type Engine struct {
	model Model
	cache *predictionCache
}

func NewEngine(model Model) *Engine {
	if model == nil {
		model = ConstantModel{}
	}
	return &Engine{
		model: model,
		cache: newPredictionCache(cacheCapacity),
	}
}

// Score computes the safety index for one context.
func (e *Engine) Score(ctx *Context) Result {
	features := Features(ctx)

	key := newCacheKey(ctx, features[0])
	prediction := e.cache.getOrCompute(key, func() float64 {
		return e.model.Predict(features)
	})

	formula := FormulaScore(ctx)

	blend := BlendModelAndFormula
	score := 0.6*prediction + 0.4*formula
	if e.model.Degenerate() && ctx.Agency.Profile == nil {
		blend = BlendFormulaOnly
		score = formula
	}

	index := int(math.Round(clipRange(score*100, 5, 95)))

	zap.L().Debug("scored context",
		zap.Int("index", index),
		zap.Float64("model", prediction),
		zap.Float64("formula", formula),
		zap.String("blend", blend.String()),
		zap.String("agency_match", ctx.Agency.Source.String()),
	)

	return Result{
		Index:    index,
		Score:    score,
		Model:    prediction,
		Formula:  formula,
		Blend:    blend,
		Features: features,
	}
}

// CacheSize reports the number of memoized predictions.
func (e *Engine) CacheSize() int { return e.cache.len() }

// FormulaScore is the transparent multiplicative heuristic. Each factor
// is a bounded penalty or relief; the product is clipped to [0.05,0.95]
// so no single input can saturate the score.
func FormulaScore(ctx *Context) float64 {
	crime := clipRange(1/(1+math.Pow(ctx.CrimeRatePer100k/5000, 1.6)), 0.10, 0.95)

	// Trough at 03:00, peak in the afternoon.
	timeOfDay := 1.10 - 0.48*(0.5+0.5*math.Cos(2*math.Pi*float64((ctx.Hour-3+24)%24)/24))

	group := 1 + 0.08*math.Min(float64(ctx.Travelers-1), 3)

	penalty := genderPenalty(ctx.Gender)
	if ctx.Hour >= 18 || ctx.Hour < 6 {
		penalty *= 1.2
	}
	gender := 1 - penalty

	weather := 1 - 0.12*ctx.WeatherSeverity

	duration := 1 - 0.02*math.Min(float64(ctx.DurationMinutes)/60, 4)

	return clipRange(crime*timeOfDay*group*gender*weather*duration, 0.05, 0.95)
}

func genderPenalty(gender string) float64 {
	switch gender {
	case "female":
		return 0.10
	case "male":
		return 0.03
	case "mixed":
		return 0.02
	default:
		return 0.02
	}
}

func clipRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
