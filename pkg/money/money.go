// Package money provides the currency amount type used by job records and
// derived financials.
//
// Amounts are exact decimals backed by [decimal.Decimal]. Job records come
// from hand-edited JSON, so an [Amount] accepts both numbers and display
// strings such as "$5,000.00". A value that cannot be parsed does not fail
// the JSON decode; it is kept verbatim and reported when the amount is read
// through [Amount.Value], which lets the caller name the offending field.
//
// # Formatting
//
// [Format] renders a value for display with two decimals and thousands
// separators:
//
//	money.Format(decimal.RequireFromString("5155"))   // "$5,155.00"
//	money.Format(decimal.RequireFromString("-250"))   // "-$250.00"
package money

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Amount is a currency value read from a job record.
// The zero value is an unset amount that reads as zero.
type Amount struct {
	value   decimal.Decimal
	raw     string
	set     bool
	invalid bool
}

// ErrNotNumeric is returned by [Amount.Value] for values that could not be parsed.
type ErrNotNumeric struct {
	Raw string
}

func (e *ErrNotNumeric) Error() string {
	return fmt.Sprintf("%q is not a numeric amount", e.Raw)
}

// New wraps a decimal as a set amount.
func New(d decimal.Decimal) Amount {
	return Amount{value: d, set: true}
}

// FromFloat builds an amount from a float. Intended for tests and literals.
func FromFloat(f float64) Amount {
	return New(decimal.NewFromFloat(f))
}

// Parse reads a display or plain numeric string.
// Currency symbols, thousands separators and surrounding whitespace are ignored.
// An empty string yields an unset amount.
func Parse(s string) (Amount, error) {
	clean := normalize(s)
	if clean == "" {
		return Amount{}, nil
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return Amount{raw: s, set: true, invalid: true}, &ErrNotNumeric{Raw: s}
	}
	return Amount{value: d, raw: s, set: true}, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func normalize(s string) string {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if neg && s != "" {
		s = "-" + s
	}
	return s
}

// IsSet reports whether the amount was present in the input.
func (a Amount) IsSet() bool { return a.set }

// Raw returns the original input text, if any.
func (a Amount) Raw() string { return a.raw }

// Value returns the decimal value, or an [*ErrNotNumeric] when the input
// could not be parsed. Unset amounts read as zero.
func (a Amount) Value() (decimal.Decimal, error) {
	if a.invalid {
		return decimal.Zero, &ErrNotNumeric{Raw: a.raw}
	}
	return a.value, nil
}

// Or returns the amount's value, or def when the amount is unset or invalid.
func (a Amount) Or(def decimal.Decimal) decimal.Decimal {
	if !a.set || a.invalid {
		return def
	}
	return a.value
}

// String formats the amount for display. Invalid amounts echo their input.
func (a Amount) String() string {
	if a.invalid {
		return a.raw
	}
	return Format(a.value)
}

// UnmarshalJSON accepts numbers, numeric strings, display strings and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*a = Amount{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		s = str
	}
	parsed, _ := Parse(s)
	*a = parsed
	return nil
}

// MarshalJSON writes the value as a fixed two-decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.set {
		return []byte("null"), nil
	}
	if a.invalid {
		return json.Marshal(a.raw)
	}
	return json.Marshal(a.value.StringFixed(2))
}

// Format renders d as "$1,234.56", with a leading minus for negatives.
func Format(d decimal.Decimal) string {
	r := d.Round(2)
	whole, cents, _ := strings.Cut(r.Abs().StringFixed(2), ".")
	s := "$" + groupThousands(whole) + "." + cents
	if r.IsNegative() {
		return "-" + s
	}
	return s
}

// groupThousands inserts commas into a string of digits. The value is
// grouped as an integer when it fits, which covers every realistic amount.
func groupThousands(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return humanize.Comma(n)
	}
	var b strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// FormatPercent renders pct with the given number of decimals, e.g. "8.1%".
func FormatPercent(pct decimal.Decimal, places int32) string {
	return pct.StringFixed(places) + "%"
}

// Sum adds ds.
func Sum(ds ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, d := range ds {
		total = total.Add(d)
	}
	return total
}
