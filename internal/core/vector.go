package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/jo-hoe/eduboard/internal/backend/database"
	"github.com/jo-hoe/eduboard/internal/backend/stats"
)

const (
	ModeManual = "manual"
	ModeRandom = "random"
)

var ErrInvalidMode = errors.New("invalid vector mode")

// VectorExercise is a vector together with its z-score normalization.
type VectorExercise struct {
	Mode       string    `json:"mode"`
	Source     []float64 `json:"source"`
	Normalized []float64 `json:"normalized"`
}

// ResolveVector produces the vector for the normalization exercise. A nil
// exercise with a nil error means there is no vector yet (blank manual input).
// Malformed manual input returns a *stats.InputError.
func (service *CoreService) ResolveVector(mode, input string) (*VectorExercise, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeManual:
		if strings.TrimSpace(input) == "" {
			return nil, nil
		}
		values, err := stats.ParseVector(input)
		if err != nil {
			return nil, err
		}
		return NewVectorExercise(ModeManual, values), nil
	case ModeRandom:
		return NewVectorExercise(ModeRandom, service.RandomVector()), nil
	default:
		return nil, &stats.InputError{Input: mode, Err: ErrInvalidMode}
	}
}

// RandomVector draws a vector using the configured length and range.
func (service *CoreService) RandomVector() []float64 {
	var values []float64
	service.withRandom(func(r *rand.Rand) {
		values = stats.RandomVector(r, service.config.Vector.Length, service.config.Vector.Min, service.config.Vector.Max)
	})
	return values
}

func NewVectorExercise(mode string, source []float64) *VectorExercise {
	return &VectorExercise{
		Mode:       mode,
		Source:     source,
		Normalized: stats.Normalize(source),
	}
}

// SaveVector appends every element of values to the vector log, one sample each.
func (service *CoreService) SaveVector(ctx context.Context, values []float64) error {
	if len(values) == 0 {
		return &stats.InputError{Input: "empty vector", Err: stats.ErrInvalidVector}
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &stats.InputError{Input: "non-finite vector element", Token: strconv.FormatFloat(v, 'g', -1, 64), Err: stats.ErrInvalidVector}
		}
	}
	for i, v := range values {
		if err := service.databaseService.InsertVectorSample(ctx, v); err != nil {
			return fmt.Errorf("failed to store vector element %d: %w", i, err)
		}
	}
	slog.Info("vector stored", "length", len(values))
	return nil
}

func (service *CoreService) ListVectorSamples(ctx context.Context) ([]database.VectorSample, error) {
	samples, err := service.databaseService.ListVectorSamples(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list vector samples: %w", err)
	}
	return samples, nil
}
