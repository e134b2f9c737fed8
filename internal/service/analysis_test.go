package service

import (
	"math/rand"
	"testing"

	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeShape(t *testing.T) {
	a := NewAnalyzer(rand.New(rand.NewSource(7)))
	f := &domain.StagedFile{ID: "f1", Name: "exercicios.pdf"}

	res := a.Analyze(f, domain.Grade8)

	assert.Equal(t, "f1", res.FileID)
	assert.GreaterOrEqual(t, len(res.Topics), 2)
	assert.LessOrEqual(t, len(res.Topics), 3)
	for _, topic := range res.Topics {
		assert.Contains(t, topicCatalog[domain.Grade8], topic)
	}
	assert.Contains(t, difficulties, res.Difficulty)
	assert.GreaterOrEqual(t, res.ExerciseCount, 5)
	assert.LessOrEqual(t, res.ExerciseCount, 20)
	assert.Contains(t, res.Summary, "exercicios.pdf")
	assert.NotEmpty(t, res.Suggestions)
}

func TestAnalyzeSeededIsDeterministic(t *testing.T) {
	f := &domain.StagedFile{ID: "f1", Name: "a.pdf"}

	first := NewAnalyzer(rand.New(rand.NewSource(42))).Analyze(f, domain.Grade9)
	second := NewAnalyzer(rand.New(rand.NewSource(42))).Analyze(f, domain.Grade9)

	assert.Equal(t, first, second)
}

func TestAnalyzeUnknownGradeUsesDefaultCatalog(t *testing.T) {
	a := NewAnalyzer(rand.New(rand.NewSource(3)))
	f := &domain.StagedFile{ID: "f1", Name: "a.pdf"}

	res := a.Analyze(f, "10º ano")
	require.NotEmpty(t, res.Topics)
	for _, topic := range res.Topics {
		assert.Contains(t, topicCatalog[domain.DefaultGrade], topic)
	}
}
