//go:build !integration

package quantum

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"quantum-oracle-bot/internal/domain/model"
)

func TestDigitalRoot(t *testing.T) {
	t.Run("known values", func(t *testing.T) {
		cases := map[uint16]int{
			0:     1, // reduces to 0
			3:     3,
			9:     9,
			10:    1,
			9999:  9,
			12345: 6,
			65534: 5, // 23 -> 5
			65535: 1, // 65535 mod 65535 == 0
		}
		for raw, want := range cases {
			if got := DigitalRoot(raw); got != want {
				t.Errorf("DigitalRoot(%d) = %d, want %d", raw, got, want)
			}
		}
	})

	t.Run("always in [1,9] and stable under re-application", func(t *testing.T) {
		for r := 0; r <= math.MaxUint16; r++ {
			got := DigitalRoot(uint16(r))
			if got < 1 || got > 9 {
				t.Fatalf("DigitalRoot(%d) = %d out of range", r, got)
			}
			if again := DigitalRoot(uint16(got)); again != got {
				t.Fatalf("DigitalRoot(DigitalRoot(%d)) = %d, want %d", r, again, got)
			}
		}
	})
}

func TestScaledIndex(t *testing.T) {
	lengths := []int{1, 2, 3, 7, 10, 22, 100, 1000}

	t.Run("always in range", func(t *testing.T) {
		for _, l := range lengths {
			for r := 0; r <= math.MaxUint16; r++ {
				got := ScaledIndex(uint16(r), l)
				if got < 0 || got > l-1 {
					t.Fatalf("ScaledIndex(%d, %d) = %d out of range", r, l, got)
				}
			}
		}
	})

	t.Run("bounds", func(t *testing.T) {
		for _, l := range lengths {
			if got := ScaledIndex(0, l); got != 0 {
				t.Errorf("ScaledIndex(0, %d) = %d, want 0", l, got)
			}
			if got := ScaledIndex(math.MaxUint16, l); got != l-1 {
				t.Errorf("ScaledIndex(65535, %d) = %d, want clamp to %d", l, got, l-1)
			}
		}
	})

	t.Run("proportional, not modulo", func(t *testing.T) {
		if got := ScaledIndex(32767, 2); got != 0 {
			t.Errorf("ScaledIndex(32767, 2) = %d, want 0", got)
		}
		if got := ScaledIndex(32768, 2); got != 1 {
			t.Errorf("ScaledIndex(32768, 2) = %d, want 1", got)
		}
		// modulo would give 10 % 3 == 1
		if got := ScaledIndex(10, 3); got != 0 {
			t.Errorf("ScaledIndex(10, 3) = %d, want 0", got)
		}
	})

	t.Run("non-positive length", func(t *testing.T) {
		if got := ScaledIndex(1234, 0); got != 0 {
			t.Errorf("ScaledIndex(1234, 0) = %d, want 0", got)
		}
	})
}

func TestDelaySeconds(t *testing.T) {
	windows := []struct{ min, rng int }{{0, 4}, {3, 7}, {13, 7}}
	for _, w := range windows {
		for r := 0; r <= math.MaxUint16; r += 7 {
			got := DelaySeconds(uint16(r), w.min, w.rng)
			if got < w.min || got > w.min+w.rng-1 {
				t.Fatalf("DelaySeconds(%d, %d, %d) = %d out of [%d,%d]", r, w.min, w.rng, got, w.min, w.min+w.rng-1)
			}
		}
		if got := DelaySeconds(0, w.min, w.rng); got != w.min {
			t.Errorf("DelaySeconds(0, %d, %d) = %d, want %d", w.min, w.rng, got, w.min)
		}
		if got := DelaySeconds(math.MaxUint16, w.min, w.rng); got != w.min+w.rng-1 {
			t.Errorf("DelaySeconds(65535, %d, %d) = %d, want %d", w.min, w.rng, got, w.min+w.rng-1)
		}
	}
	if got := DelaySeconds(500, 5, 0); got != 5 {
		t.Errorf("zero range should return min, got %d", got)
	}
}

func TestDigits(t *testing.T) {
	if diff := cmp.Diff([5]int{5, 4, 3, 2, 1}, Digits(54321)); diff != "" {
		t.Errorf("Digits(54321) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([5]int{0, 0, 0, 0, 7}, Digits(7)); diff != "" {
		t.Errorf("Digits(7) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([5]int{6, 5, 5, 3, 5}, Digits(65535)); diff != "" {
		t.Errorf("Digits(65535) mismatch (-want +got):\n%s", diff)
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestEnergyWeights(t *testing.T) {
	t.Run("all zeros fold into class 9", func(t *testing.T) {
		m := EnergyWeights([5]int{0, 0, 0, 0, 0}, DefaultDecay)
		if !approx(m[9], 3.3616) {
			t.Errorf("class 9 weight = %v, want 3.3616", m[9])
		}
		for class := 1; class <= 8; class++ {
			if m[class] != 0 {
				t.Errorf("class %d weight = %v, want 0", class, m[class])
			}
		}
	})

	t.Run("54321 decays left to right", func(t *testing.T) {
		m := EnergyWeights(Digits(54321), DefaultDecay)
		want := map[int]float64{5: 1, 4: 0.8, 3: 0.64, 2: 0.512, 1: 0.4096}
		for class, w := range want {
			if !approx(m[class], w) {
				t.Errorf("class %d weight = %v, want %v", class, m[class], w)
			}
		}
		ranked := m.Ranked()
		order := make([]int, len(ranked))
		for i, e := range ranked {
			order[i] = e.Class
		}
		if diff := cmp.Diff([]int{5, 4, 3, 2, 1}, order); diff != "" {
			t.Errorf("rank order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("repeated digits accumulate", func(t *testing.T) {
		m := EnergyWeights([5]int{7, 1, 7, 1, 7}, DefaultDecay)
		if !approx(m[7], 1+0.64+0.4096) {
			t.Errorf("class 7 weight = %v", m[7])
		}
		if !approx(m[1], 0.8+0.512) {
			t.Errorf("class 1 weight = %v", m[1])
		}
	})

	t.Run("total bounded by the geometric series", func(t *testing.T) {
		bound := (1 - math.Pow(DefaultDecay, 5)) / (1 - DefaultDecay)
		for r := 0; r <= math.MaxUint16; r++ {
			m := EnergyWeights(Digits(uint16(r)), DefaultDecay)
			if m.Total() > bound+1e-9 {
				t.Fatalf("total %v for %d exceeds %v", m.Total(), r, bound)
			}
		}
	})
}

func TestDescribeEnergies(t *testing.T) {
	tests := []struct {
		name  string
		raw   uint16
		decay float64
		want  string
	}{
		{
			name:  "distinct digits",
			raw:   54321,
			decay: DefaultDecay,
			want:  "Dominant 5 (1), then 4 (0.8), followed by 3 (0.64), 2 (0.512), 1 (0.4096).",
		},
		{
			name:  "single class",
			raw:   0,
			decay: DefaultDecay,
			want:  "Dominant 9 (3.3616).",
		},
		{
			name:  "single class from a nonzero digit",
			raw:   9099,
			decay: DefaultDecay,
			want:  "Dominant 9 (3.3616).",
		},
		{
			name:  "two classes",
			raw:   11222,
			decay: DefaultDecay,
			want:  "Dominant 1 (1.8), then 2 (1.5616).",
		},
		{
			name:  "ties keep class order",
			raw:   12345,
			decay: 1,
			want:  "Dominant 1 (1), then 2 (1), followed by 3 (1), 4 (1), 5 (1).",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DescribeEnergies(EnergyWeights(Digits(tt.raw), tt.decay))
			if got != tt.want {
				t.Errorf("DescribeEnergies = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("no energies", func(t *testing.T) {
		if got := DescribeEnergies(model.EnergyMap{}); got != NoEnergies {
			t.Errorf("got %q, want %q", got, NoEnergies)
		}
	})
}
