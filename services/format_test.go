package services

import "testing"

func TestFormatCOP_Values(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "$0,00"},
		{"small integer", 5, "$5,00"},
		{"with decimals", 42.50, "$42,50"},
		{"hundreds", 999.99, "$999,99"},
		{"thousands", 1234.56, "$1.234,56"},
		{"ten thousands", 12345.00, "$12.345,00"},
		{"hundred thousands", 123456.78, "$123.456,78"},
		{"millions", 1234567.89, "$1.234.567,89"},
		{"tens of millions", 12345678.90, "$12.345.678,90"},
		{"negative small", -100.00, "-$100,00"},
		{"negative thousands", -250000.50, "-$250.000,50"},
		{"one peso", 1, "$1,00"},
		{"exact thousands boundary", 1000, "$1.000,00"},
		{"exact millions boundary", 1000000, "$1.000.000,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCOP(tt.input)
			if got != tt.expect {
				t.Errorf("FormatCOP(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestApplyThousandsGrouping(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"short stays whole", "999", "999"},
		{"four digits", "1000", "1.000"},
		{"six digits", "123456", "123.456"},
		{"seven digits", "1234567", "1.234.567"},
		{"ten digits", "1234567890", "1.234.567.890"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyThousandsGrouping(tt.input)
			if got != tt.expect {
				t.Errorf("applyThousandsGrouping(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}
