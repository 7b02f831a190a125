package model

import "sort"

// SymbolSet is an unordered set of ticker symbols. Symbols compare by exact string match.
type SymbolSet map[string]struct{}

// NewSymbolSet builds a set from the given symbols, dropping duplicates.
func NewSymbolSet(symbols ...string) SymbolSet {
	s := make(SymbolSet, len(symbols))
	for _, sym := range symbols {
		s[sym] = struct{}{}
	}
	return s
}

func (s SymbolSet) Add(symbol string) { s[symbol] = struct{}{} }

func (s SymbolSet) Has(symbol string) bool {
	_, ok := s[symbol]
	return ok
}

func (s SymbolSet) Len() int { return len(s) }

// Difference returns the symbols in s that are not in other.
func (s SymbolSet) Difference(other SymbolSet) SymbolSet {
	out := make(SymbolSet)
	for sym := range s {
		if !other.Has(sym) {
			out[sym] = struct{}{}
		}
	}
	return out
}

// Equal reports whether both sets hold exactly the same symbols.
func (s SymbolSet) Equal(other SymbolSet) bool {
	if len(s) != len(other) {
		return false
	}
	for sym := range s {
		if !other.Has(sym) {
			return false
		}
	}
	return true
}

// Sorted returns the members in lexical order, for stable file and message output.
func (s SymbolSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for sym := range s {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
