package money

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		set     bool
		wantErr bool
	}{
		{"plain", "5000", "5000", true, false},
		{"display", "$5,000.00", "5000", true, false},
		{"negative display", "-$250.00", "-250", true, false},
		{"accounting negative", "($250.00)", "-250", true, false},
		{"whitespace", "  12.5 ", "12.5", true, false},
		{"empty", "", "0", false, false},
		{"word", "TBD", "0", true, true},
		{"double dot", "1.2.3", "0", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if a.IsSet() != tt.set {
				t.Errorf("Parse(%q).IsSet() = %v, want %v", tt.input, a.IsSet(), tt.set)
			}
			if tt.wantErr {
				return
			}
			got, _ := a.Value()
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestAmountUnmarshalJSON(t *testing.T) {
	var rec struct {
		Number  Amount `json:"number"`
		Display Amount `json:"display"`
		Null    Amount `json:"null"`
		Missing Amount `json:"missing"`
		Bad     Amount `json:"bad"`
	}
	data := `{"number": 5000, "display": "$1,234.50", "null": null, "bad": "call for price"}`
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if v, _ := rec.Number.Value(); !v.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("number = %s, want 5000", v)
	}
	if v, _ := rec.Display.Value(); !v.Equal(decimal.RequireFromString("1234.5")) {
		t.Errorf("display = %s, want 1234.5", v)
	}
	if rec.Null.IsSet() || rec.Missing.IsSet() {
		t.Error("null and missing amounts should be unset")
	}

	_, err := rec.Bad.Value()
	var nn *ErrNotNumeric
	if !errors.As(err, &nn) {
		t.Fatalf("bad.Value() error = %v, want *ErrNotNumeric", err)
	}
	if nn.Raw != "call for price" {
		t.Errorf("Raw = %q, want %q", nn.Raw, "call for price")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5155", "$5,155.00"},
		{"0", "$0.00"},
		{"-250", "-$250.00"},
		{"1234567.891", "$1,234,567.89"},
		{"45", "$45.00"},
		{"0.005", "$0.01"},
		{"99999999999999.99", "$99,999,999,999,999.99"},
		{"123456789012345678901.5", "$123,456,789,012,345,678,901.50"},
		{"-1000000.10", "-$1,000,000.10"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Format(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("Format(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestOr(t *testing.T) {
	def := decimal.NewFromInt(250)
	if got := (Amount{}).Or(def); !got.Equal(def) {
		t.Errorf("unset.Or() = %s, want %s", got, def)
	}
	if got := FromFloat(100).Or(def); !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("set.Or() = %s, want 100", got)
	}
	bad, _ := Parse("n/a")
	if got := bad.Or(def); !got.Equal(def) {
		t.Errorf("invalid.Or() = %s, want %s", got, def)
	}
}
