package unit

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Number is the plain numeric axis.
type Number struct{}

var _ Unit[float64] = Number{}

func (r Number) Compare(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (r Number) Earlier(a, b float64) float64 { return earlier[float64](r, a, b) }
func (r Number) Later(a, b float64) float64   { return later[float64](r, a, b) }
func (r Number) Change(v, n float64) float64  { return v + n }
func (r Number) ToNumber(v float64) float64   { return v }
func (r Number) FromNumber(n float64) float64 { return n }

func (r Number) Parse(s string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid number %q", s)
	}
	if math.IsNaN(n) {
		return 0, errors.Errorf("invalid number %q: NaN has no order", s)
	}
	return n, nil
}

func (r Number) Format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
