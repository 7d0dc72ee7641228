package address

import (
	"testing"
)

func testFormatter() *Formatter {
	return NewFormatter(&Dictionaries{
		Suffixes: map[string]string{
			"ST":  "STREET",
			"RD":  "ROAD",
			"TCE": "TERRACE",
		},
		Streets: []Street{
			{Name: "MAIN STREET", Suburbs: []string{"SOMETON"}},
			{Name: "BAY ROAD", Suburbs: []string{"COFFIN BAY"}},
			{Name: "JUBILEE TERRACE NORTH", Suburbs: []string{"SOMETON"}},
			{Name: "LAKE WANGARY ROAD", Suburbs: []string{"LAKE WANGARY"}},
		},
		Suburbs: []Suburb{
			{Name: "SOMETON", StatePostcode: "SA 5699"},
			{Name: "COFFIN BAY", StatePostcode: "SA 5607"},
			{Name: "MOUNT HOPE", StatePostcode: "SA 5607"},
			{Name: "MT HOPE", StatePostcode: "SA 5607"},
		},
	})
}

func TestFormatStreetName(t *testing.T) {
	f := testFormatter()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "suffix expansion with exact match",
			in:   "12 MAIN ST",
			want: "12 MAIN STREET",
		},
		{
			name: "already canonical",
			in:   "12 MAIN STREET",
			want: "12 MAIN STREET",
		},
		{
			name: "lowercase input",
			in:   "12 main st",
			want: "12 MAIN STREET",
		},
		{
			name: "transposed letters corrected fuzzily",
			in:   "12 MIAN STREET",
			want: "12 MAIN STREET",
		},
		{
			name: "fuzzy match without house number",
			in:   "BAYY ROAD",
			want: "BAY ROAD",
		},
		{
			name: "longer window wins before shorter",
			in:   "10 LAKE WANGARY ROAD",
			want: "10 LAKE WANGARY ROAD",
		},
		{
			name: "no match returns input unchanged",
			in:   "XYZZY QWERTY PLAZA",
			want: "XYZZY QWERTY PLAZA",
		},
		{
			name: "single token has no window",
			in:   "WHARF",
			want: "WHARF",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.FormatStreetName(tt.in); got != tt.want {
				t.Errorf("FormatStreetName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatAddress(t *testing.T) {
	f := testFormatter()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "suffix expanded and suburb resolved",
			in:   "12 MAIN ST, SOMETON",
			want: "12 MAIN STREET, SOMETON SA 5699",
		},
		{
			name: "misspelled suburb within distance two",
			in:   "12 MAIN ST, SOMETOWN",
			want: "12 MAIN STREET, SOMETON SA 5699",
		},
		{
			name: "terrace north substitution",
			in:   "5 JUBILEE TCE NTH, SOMETON",
			want: "5 JUBILEE TERRACE NORTH, SOMETON SA 5699",
		},
		{
			name: "mount spelling variant",
			in:   "12 MAIN ST, MT HOPE",
			want: "12 MAIN STREET, MT HOPE SA 5607",
		},
		{
			name: "no comma returns trimmed input",
			in:   "  VACANT LAND  ",
			want: "VACANT LAND",
		},
		{
			name: "unknown suburb returns input",
			in:   "12 MAIN ST, NOWHERESVILLE",
			want: "12 MAIN ST, NOWHERESVILLE",
		},
		{
			name: "street not in dictionary still resolves suburb",
			in:   "45 ESPLANADE WEST, COFFIN BAY",
			want: "45 ESPLANADE WEST, COFFIN BAY SA 5607",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.FormatAddress(tt.in); got != tt.want {
				t.Errorf("FormatAddress(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCandidateSuburbs(t *testing.T) {
	f := testFormatter()

	got := f.CandidateSuburbs(" bay road ")
	if len(got) != 1 || got[0] != "COFFIN BAY" {
		t.Errorf("CandidateSuburbs(bay road) = %v, want [COFFIN BAY]", got)
	}
	if got := f.CandidateSuburbs("UNKNOWN STREET"); len(got) != 0 {
		t.Errorf("CandidateSuburbs(unknown) = %v, want none", got)
	}
}
