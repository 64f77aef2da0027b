// Package format renders amounts for people: grouped digits, two decimals and a
// caller-supplied currency symbol.
package format

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mamadbah2/fencequote/internal/domain/models"
)

var printer = message.NewPrinter(language.English)

// Currency formats c as "$1,234.50". Negative amounts lead with the sign.
func Currency(symbol string, c models.Cents) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%s%s.%02d", sign, symbol, printer.Sprintf("%d", int64(c)/100), int64(c)%100)
}

// Quantity formats a line quantity rounded to two decimals, dropping trailing zeros.
func Quantity(q float64) string {
	return twoPlaces(q)
}

// Percent formats a rate such as 7.25 as "7.25%".
func Percent(p float64) string {
	return twoPlaces(p) + "%"
}

func twoPlaces(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // no "-0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
