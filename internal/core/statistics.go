package core

import (
	"math/rand/v2"

	"github.com/jo-hoe/eduboard/internal/backend/stats"
)

const (
	sequenceFrom    = 1
	sequenceTo      = 100
	matrixSize      = 5
	frequencySample = 1000
	frequencyMin    = 0
	frequencyMax    = 10
)

// Overview holds the three fixed statistics exercises.
type Overview struct {
	Sequence      []float64           `json:"sequence"`
	Summary       stats.Summary       `json:"summary"`
	Matrix        [][]float64         `json:"matrix"`
	MatrixSummary stats.MatrixSummary `json:"matrixSummary"`
	Frequencies   []stats.Frequency   `json:"frequencies"`
}

// Statistics regenerates every exercise; random parts differ between calls.
func (service *CoreService) Statistics() Overview {
	sequence := stats.Sequence(sequenceFrom, sequenceTo)
	overview := Overview{
		Sequence: sequence,
		Summary:  stats.Describe(sequence),
	}

	service.withRandom(func(r *rand.Rand) {
		matrix := stats.RandomMatrix(r, matrixSize)
		overview.Matrix = stats.Rows(matrix)
		overview.MatrixSummary = stats.SummarizeMatrix(matrix)
		overview.Frequencies = stats.FrequencyTable(stats.RandomIntegers(r, frequencySample, frequencyMin, frequencyMax))
	})
	return overview
}

// Frequencies draws a fresh sample for the frequency exercise.
func (service *CoreService) Frequencies() []stats.Frequency {
	var table []stats.Frequency
	service.withRandom(func(r *rand.Rand) {
		table = stats.FrequencyTable(stats.RandomIntegers(r, frequencySample, frequencyMin, frequencyMax))
	})
	return table
}
