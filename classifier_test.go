package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWeightsFile(t *testing.T, weights []float64, bias float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weights.json")
	data, err := json.Marshal(map[string]interface{}{"weights": weights, "bias": bias})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestUnavailableClassifier(t *testing.T) {
	clf := UnavailableClassifier{}
	assert.False(t, clf.Available())

	_, err := clf.Score(make([]float64, vectorWidth))
	assert.Error(t, err)
}

func TestLoadClassifierNoWeights(t *testing.T) {
	clf := LoadClassifier(ClassifierConfig{})
	assert.False(t, clf.Available())
}

func TestLoadClassifierMissingFile(t *testing.T) {
	clf := LoadClassifier(ClassifierConfig{WeightsPath: "/nonexistent/weights.json"})
	assert.False(t, clf.Available())
}

func TestLoadClassifierValidWeights(t *testing.T) {
	weights := make([]float64, vectorWidth)
	weights[0] = 0.02
	path := writeWeightsFile(t, weights, -1.0)

	clf := LoadClassifier(ClassifierConfig{WeightsPath: path})
	require.True(t, clf.Available())

	vec := make([]float64, vectorWidth)
	score, err := clf.Score(vec)
	require.NoError(t, err)
	// sigmoid(-1)
	assert.InDelta(t, 0.2689, score, 1e-3)
}

func TestLinearClassifierDeterministic(t *testing.T) {
	weights := make([]float64, vectorWidth)
	for i := range weights {
		weights[i] = 0.01
	}
	clf, err := NewLinearClassifier(mustWeightsJSON(t, weights, 0.5))
	require.NoError(t, err)

	vec := make([]float64, vectorWidth)
	for i := range vec {
		vec[i] = float64(i)
	}
	a, err := clf.Score(vec)
	require.NoError(t, err)
	b, err := clf.Score(vec)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a, 0.0)
	assert.LessOrEqual(t, a, 1.0)
}

func TestLinearClassifierWidthMismatch(t *testing.T) {
	_, err := NewLinearClassifier(mustWeightsJSON(t, make([]float64, 10), 0))
	assert.Error(t, err)

	clf, err := NewLinearClassifier(mustWeightsJSON(t, make([]float64, vectorWidth), 0))
	require.NoError(t, err)
	_, err = clf.Score(make([]float64, 10))
	assert.Error(t, err)
}

func mustWeightsJSON(t *testing.T, weights []float64, bias float64) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]interface{}{"weights": weights, "bias": bias})
	require.NoError(t, err)
	return data
}
