package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fabula-server/internal/model"
)

func TestGenerationRequest_Normalize(t *testing.T) {
	t.Run("zero values get defaults", func(t *testing.T) {
		req := model.GenerationRequest{}.Normalize()
		assert.Equal(t, model.DefaultTargetWordCount, req.TargetWordCount)
		assert.Equal(t, model.ModeSinglePass, req.Mode)
	})

	t.Run("word count is clamped", func(t *testing.T) {
		low := model.GenerationRequest{TargetWordCount: 100}.Normalize()
		assert.Equal(t, model.MinTargetWordCount, low.TargetWordCount)

		high := model.GenerationRequest{TargetWordCount: 100000}.Normalize()
		assert.Equal(t, model.MaxTargetWordCount, high.TargetWordCount)

		exact := model.GenerationRequest{TargetWordCount: 3200}.Normalize()
		assert.Equal(t, 3200, exact.TargetWordCount)
	})

	t.Run("explicit mode is preserved", func(t *testing.T) {
		req := model.GenerationRequest{Mode: model.ModeMultiPass}.Normalize()
		assert.Equal(t, model.ModeMultiPass, req.Mode)
	})
}

func TestComplexityLevel_Valid(t *testing.T) {
	assert.True(t, model.ComplexitySimple.Valid())
	assert.True(t, model.ComplexityLiterary.Valid())
	assert.False(t, model.ComplexityLevel("epic").Valid())
	assert.False(t, model.ComplexityLevel("").Valid())
}

func TestChapter_IsGenerated(t *testing.T) {
	empty := ""
	content := "text"

	assert.False(t, (&model.Chapter{}).IsGenerated())
	assert.False(t, (&model.Chapter{Content: &empty}).IsGenerated())
	assert.True(t, (&model.Chapter{Content: &content}).IsGenerated())
}
