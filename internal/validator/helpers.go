package validator

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/exp/constraints"
)

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

func MaxRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

func Between[T constraints.Integer | constraints.Float](value, lo, hi T) bool {
	return value >= lo && value <= hi
}

func Finite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

// IsDate reports whether value is a calendar date in the given layout.
func IsDate(value, layout string) bool {
	_, err := time.Parse(layout, value)
	return err == nil
}
