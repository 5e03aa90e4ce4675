/*
File: classifier.go
Version: 1.1.0
Description: Inference engine. Two variants behind one interface, selected at
             construction: a linear model loaded from a JSON weights file and
             an explicit Unavailable variant that routes callers to the
             rule-based fallback. Callers branch on Available(), never on nil.
*/

package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Classifier scores an assembled feature vector.
type Classifier interface {
	// Score returns a probability in [0,1]. Deterministic for identical
	// input. NaN and infinity in the input are not filtered here, the
	// calibration layer clamps.
	Score(vector []float64) (float64, error)

	// Available reports whether Score may be called usefully.
	Available() bool
}

type classifierWeights struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// LinearClassifier is a logistic model: sigmoid(w . x + b).
type LinearClassifier struct {
	weights []float64
	bias    float64
}

// UnavailableClassifier is the explicit no-model variant.
type UnavailableClassifier struct{}

func (UnavailableClassifier) Score([]float64) (float64, error) {
	return 0, fmt.Errorf("classifier unavailable")
}

func (UnavailableClassifier) Available() bool { return false }

// LoadClassifier builds the classifier from configuration. A missing or
// unreadable weights file degrades to the Unavailable variant, it never
// fails startup.
func LoadClassifier(cfg ClassifierConfig) Classifier {
	if cfg.WeightsPath == "" {
		LogInfo("[CLASSIFIER] No weights configured, using rule-based fallback")
		return UnavailableClassifier{}
	}

	data, err := os.ReadFile(cfg.WeightsPath)
	if err != nil {
		LogWarn("[CLASSIFIER] Failed to read weights from %s: %v, using rule-based fallback", cfg.WeightsPath, err)
		return UnavailableClassifier{}
	}

	clf, err := NewLinearClassifier(data)
	if err != nil {
		LogWarn("[CLASSIFIER] Failed to load weights from %s: %v, using rule-based fallback", cfg.WeightsPath, err)
		return UnavailableClassifier{}
	}

	LogInfo("[CLASSIFIER] Loaded linear model with %d weights from %s", len(clf.weights), cfg.WeightsPath)
	return clf
}

// NewLinearClassifier parses a JSON weights blob. The weight count must match
// the assembler's vector width.
func NewLinearClassifier(data []byte) (*LinearClassifier, error) {
	var w classifierWeights
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parsing weights: %w", err)
	}
	if len(w.Weights) != vectorWidth {
		return nil, fmt.Errorf("weight count %d does not match vector width %d", len(w.Weights), vectorWidth)
	}
	return &LinearClassifier{weights: w.Weights, bias: w.Bias}, nil
}

func (lc *LinearClassifier) Score(vector []float64) (float64, error) {
	if len(vector) != len(lc.weights) {
		return 0, fmt.Errorf("vector length %d does not match model width %d", len(vector), len(lc.weights))
	}

	sum := lc.bias
	for i, w := range lc.weights {
		sum += w * vector[i]
	}
	return 1 / (1 + math.Exp(-sum)), nil
}

func (lc *LinearClassifier) Available() bool { return true }
