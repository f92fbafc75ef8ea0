package model

import "testing"

func TestParseCents(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"standard amount", "99.00", 9900},
		{"with cents", "1234.56", 123456},
		{"no decimals", "100", 10000},
		{"single decimal", "99.9", 9990},
		{"zero", "0", 0},
		{"empty string", "", 0},
		{"invalid", "abc", 0},
		{"negative", "-5.50", -550},
		{"rounding", "10.005", 1001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCents(tt.input); got != tt.want {
				t.Errorf("ParseCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		currency string
		want     string
	}{
		{"whole amount", 9900, "TRY", "99.00 TRY"},
		{"with cents", 123456, "TRY", "1234.56 TRY"},
		{"single digit cents", 9905, "TRY", "99.05 TRY"},
		{"zero", 0, "TRY", "0.00 TRY"},
		{"negative", -550, "TRY", "-5.50 TRY"},
		{"no currency", 9900, "", "99.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMinorUnits(tt.amount, tt.currency); got != tt.want {
				t.Errorf("FormatMinorUnits(%d, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}
