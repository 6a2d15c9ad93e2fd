package scoring

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// fallbackScore is the constant returned by the degenerate model when no
// trained regressor artifact is available.
const fallbackScore = 0.65

// Model is the opaque trained-regressor handle. Predict takes the fixed
// 25-feature vector and returns a safety score in [0,1].
type Model interface {
	Predict(features []float64) float64

	// Degenerate reports whether this is the constant fallback. The
	// blend policy switches to formula-only when a degenerate model
	// meets an unresolved profile.
	Degenerate() bool
}

// ConstantModel is the degenerate fallback used when the trained model
// is missing or unreadable.
type ConstantModel struct{}

func (ConstantModel) Predict([]float64) float64 { return fallbackScore }
func (ConstantModel) Degenerate() bool          { return true }

// LinearModel is a trained linear regressor loaded from a JSON weights
// artifact. The weight order is the feature-vector order.
type LinearModel struct {
	Bias    float64   `json:"bias"`
	Weights []float64 `json:"weights"`
}

func (m *LinearModel) Predict(features []float64) float64 {
	score := m.Bias
	for i, w := range m.Weights {
		if i >= len(features) {
			break
		}
		score += w * features[i]
	}
	return clip01(score)
}

func (*LinearModel) Degenerate() bool { return false }

// LoadModel reads a model weights artifact. Any failure degrades to the
// constant fallback — scoring never fails on a broken model, the blend
// just leans on the formula.
func LoadModel(path string) Model {
	raw, err := os.ReadFile(path)
	if err != nil {
		zap.L().Warn("model artifact unavailable, using constant fallback",
			zap.String("path", path),
			zap.Error(err),
		)
		return ConstantModel{}
	}

	var m LinearModel
	if err := json.Unmarshal(raw, &m); err != nil || len(m.Weights) == 0 {
		if err == nil {
			err = eris.New("scoring: model artifact has no weights")
		}
		zap.L().Warn("model artifact unreadable, using constant fallback",
			zap.String("path", path),
			zap.Error(err),
		)
		return ConstantModel{}
	}

	zap.L().Info("model loaded",
		zap.String("path", path),
		zap.Int("weights", len(m.Weights)),
	)
	return &m
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
