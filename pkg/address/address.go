// Package address normalizes the free-text street and suburb fields found
// in planning registers against reference dictionaries. Street names are
// corrected by suffix expansion and shrinking-window matching, exact before
// fuzzy; suburbs resolve fuzzily to a canonical name carrying state and
// postcode. A miss never raises: the unmatched input comes back unchanged
// and the caller decides whether the address is usable.
package address

import (
	"strings"
)

// Terrace-direction forms the registers abbreviate but the dictionaries
// spell out. Applied to the whole address before any splitting.
var substitutions = []struct{ from, to string }{
	{"TCE NTH", "TERRACE NORTH"},
	{"TCE STH", "TERRACE SOUTH"},
}

// Fuzzy thresholds. Street windows shrink from six tokens down to two,
// with tolerance 7-size so shorter windows get more slack. Suburbs use a
// flat distance.
const (
	maxStreetWindow     = 6
	minStreetWindow     = 2
	streetThresholdBase = 7
	suburbMaxDistance   = 2
)

// Formatter holds the reference dictionaries in lookup form. Candidate
// order follows dictionary file order, which fixes fuzzy tie-breaks.
type Formatter struct {
	suffixes    map[string]string
	streetOrder []string
	streets     map[string][]string
	suburbOrder []string
	suburbs     map[string]string
}

// NewFormatter builds a Formatter from parsed dictionaries.
func NewFormatter(d *Dictionaries) *Formatter {
	f := &Formatter{
		suffixes: make(map[string]string),
		streets:  make(map[string][]string),
		suburbs:  make(map[string]string),
	}
	for abbr, full := range d.Suffixes {
		f.suffixes[strings.ToUpper(abbr)] = strings.ToUpper(full)
	}
	for _, s := range d.Streets {
		name := strings.ToUpper(s.Name)
		if _, ok := f.streets[name]; !ok {
			f.streetOrder = append(f.streetOrder, name)
		}
		f.streets[name] = append(f.streets[name], s.Suburbs...)
	}
	for _, s := range d.Suburbs {
		name := strings.ToUpper(s.Name)
		if _, ok := f.suburbs[name]; !ok {
			f.suburbOrder = append(f.suburbOrder, name)
		}
		f.suburbs[name] = s.StatePostcode
	}
	return f
}

// FormatStreetName corrects one street line, house number and all. The
// trailing token is expanded when it is a known suffix abbreviation, then
// trailing windows of six down to two tokens are tried against the street
// dictionary, every window exactly before any window fuzzily. Leading
// tokens outside the matched window, typically the house number, are kept
// as they are. Unmatched input is returned unchanged.
func (f *Formatter) FormatStreetName(text string) string {
	text = strings.ToUpper(strings.TrimSpace(text))
	if text == "" {
		return text
	}
	tokens := strings.Fields(text)
	if full, ok := f.suffixes[tokens[len(tokens)-1]]; ok {
		tokens[len(tokens)-1] = full
	}

	for size := maxStreetWindow; size >= minStreetWindow; size-- {
		if size > len(tokens) {
			continue
		}
		window := strings.Join(tokens[len(tokens)-size:], " ")
		if _, ok := f.streets[window]; ok {
			return strings.Join(tokens, " ")
		}
	}

	for size := maxStreetWindow; size >= minStreetWindow; size-- {
		if size > len(tokens) {
			continue
		}
		window := strings.Join(tokens[len(tokens)-size:], " ")
		match, ok := closest(window, f.streetOrder, streetThresholdBase-size)
		if !ok {
			continue
		}
		kept := strings.Join(tokens[:len(tokens)-size], " ")
		if kept == "" {
			return match
		}
		return kept + " " + match
	}

	return text
}

// FormatAddress resolves a full "street part, suburb" line. The part after
// the last comma is fuzzy-matched against the suburb dictionary; on success
// the result is the formatted street part, the canonical suburb and its
// state and postcode. Input without a comma, or with an unresolvable
// suburb, comes back trimmed but otherwise untouched.
func (f *Formatter) FormatAddress(addr string) string {
	s := strings.TrimSpace(addr)
	for _, sub := range substitutions {
		s = strings.ReplaceAll(s, sub.from, sub.to)
	}

	i := strings.LastIndex(s, ",")
	if i < 0 {
		return s
	}
	streetPart := strings.TrimSpace(s[:i])
	suburbPart := strings.TrimSpace(s[i+1:])

	suburb, ok := closest(suburbPart, f.suburbOrder, suburbMaxDistance)
	if !ok {
		return s
	}
	return f.FormatStreetName(streetPart) + ", " + suburb + " " + f.suburbs[suburb]
}

// CandidateSuburbs returns the suburbs the street dictionary lists for a
// canonical street name, in file order.
func (f *Formatter) CandidateSuburbs(street string) []string {
	return f.streets[strings.ToUpper(strings.TrimSpace(street))]
}
