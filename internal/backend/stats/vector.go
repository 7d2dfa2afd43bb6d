package stats

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// ErrInvalidVector marks user input that cannot be read as a list of numbers.
var ErrInvalidVector = errors.New("invalid vector input")

// InputError is a validation failure the user can fix. It is reported back
// instead of aborting the request.
type InputError struct {
	Input string
	Token string
	Err   error
}

func (e *InputError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%v: %q is not a number", e.Err, e.Token)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Input)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// ParseVector reads a comma separated list of numbers such as "1, 2.5,3".
// Whitespace around each token is ignored; an empty, non-numeric or
// non-finite token (nan, inf) fails the whole input.
func ParseVector(input string) ([]float64, error) {
	tokens := strings.Split(input, ",")
	values := make([]float64, 0, len(tokens))
	for _, token := range tokens {
		trimmed := strings.TrimSpace(token)
		value, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, &InputError{Input: input, Token: trimmed, Err: ErrInvalidVector}
		}
		values = append(values, value)
	}
	return values, nil
}

// RandomVector draws n integers uniformly from the half-open range [lo, hi).
func RandomVector(r *rand.Rand, n, lo, hi int) []float64 {
	if n <= 0 || hi <= lo {
		return nil
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(lo + r.IntN(hi-lo))
	}
	return values
}
