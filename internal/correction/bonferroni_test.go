package correction

import (
	"errors"
	"testing"
)

func TestBonferroni(t *testing.T) {
	cases := []struct {
		name    string
		alpha   float64
		count   int
		want    float64
		wantErr bool
	}{
		{"single test keeps alpha", 0.05, 1, 0.05, false},
		{"ten tests", 0.05, 10, 0.005, false},
		{"alpha of one", 1.0, 4, 0.25, false},
		{"zero count", 0.05, 0, 0, true},
		{"negative count", 0.05, -3, 0, true},
		{"zero alpha", 0, 5, 0, true},
		{"negative alpha", -0.05, 5, 0, true},
		{"alpha above one", 1.5, 5, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Bonferroni(tc.alpha, tc.count)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidConfiguration) {
					t.Errorf("error %v should wrap ErrInvalidConfiguration", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Bonferroni(%g, %d) = %g, want %g", tc.alpha, tc.count, got, tc.want)
			}
		})
	}
}

func TestBonferroniMonotonic(t *testing.T) {
	prev := 1.0
	for count := 1; count <= 50; count++ {
		got, err := Bonferroni(0.05, count)
		if err != nil {
			t.Fatalf("unexpected error at count %d: %v", count, err)
		}
		if got >= prev {
			t.Fatalf("corrected alpha not strictly decreasing at count %d: %g >= %g", count, got, prev)
		}
		prev = got
	}
}
