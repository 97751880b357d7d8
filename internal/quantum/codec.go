// Package quantum holds the shared random-value buffer and the pure codec that
// turns raw 16-bit values into selection decisions.
package quantum

import (
	"math"
	"strconv"
	"strings"

	"quantum-oracle-bot/internal/domain/model"
)

// MaxRaw is the divisor used by every scaling formula. It is the largest
// uint16, so a raw value of MaxRaw lands exactly on the upper bound and must be clamped.
const MaxRaw = 65535

// DefaultDecay is the per-position weight decay of the numerology oracle.
const DefaultDecay = 0.8

// NoEnergies is rendered when an energy map carries no weight at all.
const NoEnergies = "No numerological energies are present."

// DigitalRoot reduces raw mod 65535 by repeated digit sums to a single digit.
// A reduction to 0 maps to 1, so the result is always in [1,9].
func DigitalRoot(raw uint16) int {
	n := int(raw) % MaxRaw
	for n > 9 {
		sum := 0
		for ; n > 0; n /= 10 {
			sum += n % 10
		}
		n = sum
	}
	if n == 0 {
		return 1
	}
	return n
}

// ScaledIndex maps raw proportionally onto [0, length-1] as floor(raw/65535*length).
// This is not modulo indexing; the two produce different distributions.
func ScaledIndex(raw uint16, length int) int {
	if length < 1 {
		return 0
	}
	idx := int(math.Floor(float64(raw) / MaxRaw * float64(length)))
	if idx >= length {
		idx = length - 1
	}
	return idx
}

// DelaySeconds maps raw onto [min, min+rng-1] as floor(raw/65535*rng)+min.
func DelaySeconds(raw uint16, min, rng int) int {
	if rng <= 0 {
		return min
	}
	return ScaledIndex(raw, rng) + min
}

// Digits renders raw as a zero-padded 5-digit decimal and splits it.
func Digits(raw uint16) [5]int {
	var out [5]int
	n := int(raw)
	for i := 4; i >= 0; i-- {
		out[i] = n % 10
		n /= 10
	}
	return out
}

// EnergyWeights gives digits[i] the weight decay^i, accumulating per class.
// Digit 0 counts towards class 9; the leftmost digit dominates.
func EnergyWeights(digits [5]int, decay float64) model.EnergyMap {
	var m model.EnergyMap
	for i, d := range digits {
		class := d % 10
		if class < 0 {
			class = -class
		}
		if class == 0 {
			class = 9
		}
		m[class] += math.Pow(decay, float64(i))
	}
	return m
}

// DescribeEnergies renders the ranked classes as
// "Dominant X (w), then Y (w), followed by Z (w), W (w)."
func DescribeEnergies(m model.EnergyMap) string {
	ranked := m.Ranked()
	if len(ranked) == 0 {
		return NoEnergies
	}
	var sb strings.Builder
	sb.WriteString("Dominant ")
	writeEnergy(&sb, ranked[0])
	if len(ranked) > 1 {
		sb.WriteString(", then ")
		writeEnergy(&sb, ranked[1])
	}
	for i := 2; i < len(ranked); i++ {
		if i == 2 {
			sb.WriteString(", followed by ")
		} else {
			sb.WriteString(", ")
		}
		writeEnergy(&sb, ranked[i])
	}
	sb.WriteString(".")
	return sb.String()
}

func writeEnergy(sb *strings.Builder, e model.Energy) {
	sb.WriteString(strconv.Itoa(e.Class))
	sb.WriteString(" (")
	sb.WriteString(FormatWeight(e.Weight))
	sb.WriteString(")")
}

// FormatWeight prints w with at most four decimals and no trailing zeros.
func FormatWeight(w float64) string {
	return strconv.FormatFloat(math.Round(w*1e4)/1e4, 'f', -1, 64)
}
