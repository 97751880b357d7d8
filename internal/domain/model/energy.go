package model

import "sort"

// EnergyMap holds the accumulated weight of each numerology class 1..9.
// Index 0 is unused; digit 0 is folded into class 9 before it gets here.
type EnergyMap [10]float64

// Energy is a single ranked class/weight pair.
type Energy struct {
	Class  int
	Weight float64
}

// Total returns the sum of all class weights.
func (m EnergyMap) Total() float64 {
	var sum float64
	for class := 1; class <= 9; class++ {
		sum += m[class]
	}
	return sum
}

// Ranked returns the non-zero classes ordered by weight descending.
// Equal weights keep ascending class order.
func (m EnergyMap) Ranked() []Energy {
	out := make([]Energy, 0, 9)
	for class := 1; class <= 9; class++ {
		if m[class] > 0 {
			out = append(out, Energy{Class: class, Weight: m[class]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}
