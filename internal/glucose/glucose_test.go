package glucose

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"95", "95"},
		{" 101.5 ", "101.5"},
		{"110mg/dL", "110"},
		{"110 MG/DL", "110"},
		{"6.2 mmol/L", "112"},
		{"4mmol/l", "72"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.in, err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "0", "-12", "1001", "mmol/L", "12..5"} {
		t.Run(in, func(t *testing.T) {
			if _, err := Parse(in); !errors.Is(err, ErrInvalidReading) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidReading", in, err)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		value string
		want  Category
	}{
		{"40", Low},
		{"79.9", Low},
		{"80", Normal},
		{"100", Normal},
		{"119.99", Normal},
		{"120", High},
		{"300", High},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := Classify(decimal.RequireFromString(tt.value)); got != tt.want {
				t.Errorf("Classify(%s) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	r, err := Evaluate("70")
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if r.Category != Low || r.Message != Message(Low) || r.Message == "" {
		t.Errorf("Evaluate(70) = %+v", r)
	}

	r, err = Evaluate("100")
	if err != nil || r.Message != "Well done! Your test result is normal!" {
		t.Errorf("Evaluate(100) = %+v, %v", r, err)
	}

	if _, err := Evaluate("nope"); err == nil {
		t.Error("expected error")
	}
}

func TestUnitConversion(t *testing.T) {
	if got := ToMmol(decimal.NewFromInt(90)); !got.Equal(decimal.RequireFromString("5")) {
		t.Errorf("ToMmol(90) = %s", got)
	}
	if got := ToMmol(decimal.NewFromInt(100)); !got.Equal(decimal.RequireFromString("5.6")) {
		t.Errorf("ToMmol(100) = %s", got)
	}
	if got := FromMmol(decimal.RequireFromString("5.5")); !got.Equal(decimal.NewFromInt(99)) {
		t.Errorf("FromMmol(5.5) = %s", got)
	}
}
