package model

import (
	"sort"
	"strconv"

	"quantum-oracle-bot/internal/domain"
)

// Dictionary maps a gematria category to its ordered candidate words.
// It is read-only after construction and safe for concurrent use.
type Dictionary struct {
	keys       []string
	categories map[string][]string
}

// NewDictionary copies the categories and fixes the key order, so the same raw
// value always selects the same category across restarts. Numeric keys (gematria
// values) come first in ascending numeric order, other keys follow sorted.
// Categories with no candidates are kept; selection skips them.
func NewDictionary(categories map[string][]string) (*Dictionary, error) {
	if len(categories) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	d := &Dictionary{
		keys:       make([]string, 0, len(categories)),
		categories: make(map[string][]string, len(categories)),
	}
	for k, words := range categories {
		d.keys = append(d.keys, k)
		d.categories[k] = append([]string(nil), words...)
	}
	sort.Slice(d.keys, func(i, j int) bool { return keyLess(d.keys[i], d.keys[j]) })
	return d, nil
}

func keyLess(a, b string) bool {
	na, aNum := numericKey(a)
	nb, bNum := numericKey(b)
	switch {
	case aNum && bNum:
		return na < nb
	case aNum != bNum:
		return aNum
	default:
		return a < b
	}
}

// numericKey accepts canonical non-negative integers only ("7", not "07").
func numericKey(k string) (uint64, bool) {
	if k == "" || (len(k) > 1 && k[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(k, 10, 64)
	return n, err == nil
}

// Keys returns the category keys in selection order.
func (d *Dictionary) Keys() []string { return d.keys }

// Len is the number of categories.
func (d *Dictionary) Len() int { return len(d.keys) }

// Candidates returns the words of the category at index i.
func (d *Dictionary) Candidates(i int) (string, []string) {
	if i < 0 || i >= len(d.keys) {
		return "", nil
	}
	k := d.keys[i]
	return k, d.categories[k]
}
