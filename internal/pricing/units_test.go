package pricing

import "testing"

func TestFactor(t *testing.T) {
	tests := []struct {
		from, to string
		want     float64
	}{
		{"g", "kg", 1000},
		{"kg", "g", 0.001},
		{"ml", "l", 1000},
		{"l", "ml", 0.001},
		{"piece", "piece", 1},
		{" KG ", "g", 0.001},
		{"kg", "kg", 1},
		{"box", "piece", 1},
		{"", "unit", 1},
		{"g", "l", 1},
	}
	for _, tt := range tests {
		if got := Factor(tt.from, tt.to); got != tt.want {
			t.Errorf("Factor(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestFactor_NeverZero(t *testing.T) {
	for pair := range unitFactors {
		if f := Factor(pair.from, pair.to); f <= 0 {
			t.Fatalf("Factor(%q, %q) = %v, want positive", pair.from, pair.to, f)
		}
	}
}

func TestConvertQuantity(t *testing.T) {
	if got := ConvertQuantity(500, "g", "kg"); got != 0.5 {
		t.Fatalf("ConvertQuantity(500 g -> kg) = %v, want 0.5", got)
	}
	if got := ConvertQuantity(2, "l", "ml"); got != 2000 {
		t.Fatalf("ConvertQuantity(2 l -> ml) = %v, want 2000", got)
	}
}
