package charts

import "errors"

var ErrUnknownChart = errors.New("unknown chart")
