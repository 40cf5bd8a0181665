package utils

import (
	"fmt"
	"math"
)

// Round2 rounds to 2 decimal places, half away from zero. All billed
// amounts pass through here exactly once, at fee computation.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// Cents converts a 2-decimal amount to an integer number of cents so
// equality checks never hit float representation noise.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
