package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-risk/domain"
)

func TestLogistic_Score(t *testing.T) {
	model, err := Read(FormatLogisticJSON, strings.NewReader(`{
		"version": "v1",
		"intercept": -1.0,
		"weights": {"TotalPastDue": 0.5, "HasRealEstate": -0.25}
	}`))
	require.NoError(t, err)

	vector := domain.FeatureVector{TotalPastDue: 4, HasRealEstate: 1}
	p, err := model.Score(context.Background(), vector)
	require.NoError(t, err)
	assert.InDelta(t, sigmoid(-1.0+2.0-0.25), float64(p), 1e-6)
	assert.Equal(t, "v1", model.Info().Version)
}

func TestLogistic_VersionDefaultsToDigest(t *testing.T) {
	model, err := Read(FormatLogisticJSON, strings.NewReader(`{"weights": {"age": 0.01}}`))
	require.NoError(t, err)
	assert.Len(t, model.Info().Version, 16)
}

func TestLogistic_RejectsUnknownFeature(t *testing.T) {
	_, err := Read(FormatLogisticJSON, strings.NewReader(`{"weights": {"LoanPurpose": 1}}`))
	assert.ErrorIs(t, err, ErrModelSchema)

	_, err = Read(FormatLogisticJSON, strings.NewReader(`{"intercept": 1}`))
	assert.ErrorIs(t, err, ErrModelSchema)
}

func TestStub(t *testing.T) {
	stub := NewStub(0.25)
	p, err := stub.Score(context.Background(), domain.FeatureVector{})
	require.NoError(t, err)
	assert.Equal(t, float32(0.25), p)

	stub.Err = errors.New("model offline")
	_, err = stub.Score(context.Background(), domain.FeatureVector{})
	assert.Error(t, err)
	assert.Equal(t, 2, stub.Calls())
}
