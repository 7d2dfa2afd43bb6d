package stats

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

type MatrixSummary struct {
	Determinant float64 `json:"determinant"`
	Trace       float64 `json:"trace"`
}

// RandomMatrix fills an n×n matrix with standard-normal values.
func RandomMatrix(r *rand.Rand, n int) *mat.Dense {
	data := make([]float64, n*n)
	for i := range data {
		data[i] = r.NormFloat64()
	}
	return mat.NewDense(n, n, data)
}

func SummarizeMatrix(m mat.Matrix) MatrixSummary {
	return MatrixSummary{
		Determinant: mat.Det(m),
		Trace:       mat.Trace(m),
	}
}

// Rows copies the matrix into row slices for display and encoding.
func Rows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = make([]float64, c)
		for j := range rows[i] {
			rows[i][j] = m.At(i, j)
		}
	}
	return rows
}
