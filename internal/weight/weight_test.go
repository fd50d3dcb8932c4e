package weight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_OneKilogramEquivalents(t *testing.T) {
	inputs := []any{1000, int64(1000), 1000.0, "1kg", "1000g", "1000", " 1KG ", "1.0kg"}
	for _, in := range inputs {
		assert.Equal(t, 1000, Normalize(in), "input %#v", in)
	}
}

func TestNormalize_Strings(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"250g", 250},
		{"0.5kg", 500},
		{"1.5kg", 1500},
		{"2kg", 2000},
		{"750", 750},
		{"  500 g", 500},
		{"", 0},
		{"abc", 0},
		{"kg", 0},
		{"g", 0},
		// only the leading numeric prefix counts; junk after it is dropped
		{"1.5.2kg", 1500},
		{"250.7.9g", 251},
		{"300 approx", 300},
		{".kg", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestNormalize_Numbers(t *testing.T) {
	assert.Equal(t, 250, Normalize(249.6))
	assert.Equal(t, 249, Normalize(249.4))
	assert.Equal(t, 0, Normalize(nil))
	assert.Equal(t, 0, Normalize(struct{}{}))
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []any{250, "500g", "1kg", "2.5kg", "garbage", nil, 1234} {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %#v", in)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		grams int
		want  string
	}{
		{250, "250g"},
		{500, "500g"},
		{1000, "1kg"},
		{2000, "2kg"},
		{3000, "3kg"},
		{1500, "1500g"},
		{100, "100g"},
		{0, "0g"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.grams))
	}
}
