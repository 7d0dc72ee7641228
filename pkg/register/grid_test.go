package register

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/content"
	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/geometry"
)

// gridPage builds a ruled register page: a heading row and two
// application rows inside a six column grid.
func gridPage() *content.Page {
	return &content.Page{
		Number: 1,
		HLines: []geometry.Rect{hline(100), hline(120), hline(140), hline(160)},
		VLines: []geometry.Rect{
			vline(50), vline(150), vline(250), vline(350),
			vline(450), vline(550), vline(650),
		},
		Elements: []content.Element{
			el(55, 105, 80, "Application Number"),
			el(155, 105, 80, "Date Received"),
			el(255, 105, 80, "Street Name"),
			el(355, 105, 50, "Suburb"),
			el(455, 105, 80, "Property Details"),
			el(555, 105, 90, "Development Description"),

			el(55, 125, 60, "538/2011/29"),
			el(155, 125, 50, "3/08/2011"),
			el(255, 125, 70, "14 Bay Road"),
			el(355, 125, 60, "Coffin Bay"),
			el(455, 125, 70, "Lot 2 Sec 15"),
			el(555, 125, 50, "Dwelling"),

			el(55, 145, 60, "539/2012/4"),
			el(155, 145, 50, "7/11/2012"),
			el(255, 145, 80, "Flinders Highway"),
			el(355, 145, 50, "Cummins"),
			el(455, 145, 70, "Lot 101"),
			el(555, 145, 60, "Implement shed"),
		},
	}
}

func TestGridRows(t *testing.T) {
	g := &gridSynthesizer{logger: zap.NewNop(), formatter: testFormatter()}

	got, err := g.Rows(gridPage())
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	want := []Update{
		{
			ApplicationNumber: "538/2011/29",
			Address:           "14 BAY ROAD, COFFIN BAY SA 5607",
			Description:       "Dwelling",
			DateReceived:      "2011-08-03",
			LegalDescription:  "Lot 2 Sec 15",
		},
		{
			ApplicationNumber: "539/2012/4",
			Address:           "FLINDERS HIGHWAY, CUMMINS SA 5631",
			Description:       "Implement shed",
			DateReceived:      "2012-11-07",
			LegalDescription:  "Lot 101",
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rows() = %+v, want %+v", got, want)
	}
}

func TestGridRowsSkipsBadRows(t *testing.T) {
	page := &content.Page{
		Number: 1,
		HLines: []geometry.Rect{hline(100), hline(120), hline(140), hline(160), hline(180)},
		VLines: []geometry.Rect{vline(50), vline(150), vline(250), vline(350)},
		Elements: []content.Element{
			el(55, 105, 80, "Application Number"),
			el(155, 105, 80, "Street Name"),
			el(255, 105, 50, "Suburb"),

			// well formed
			el(55, 125, 60, "540/2013/1"),
			el(155, 125, 50, "5 Bay Rd"),
			el(255, 125, 60, "Coffin Bay"),

			// not an application number
			el(55, 145, 60, "Continued"),
			el(155, 145, 50, "9 Bay Rd"),
			el(255, 145, 60, "Coffin Bay"),

			// no suburb
			el(55, 165, 60, "541/2013/2"),
			el(155, 165, 50, "11 Bay Rd"),
		},
	}

	g := &gridSynthesizer{logger: zap.NewNop(), formatter: testFormatter()}
	got, err := g.Rows(page)
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Rows() returned %d updates, want 1", len(got))
	}
	if got[0].ApplicationNumber != "540/2013/1" {
		t.Errorf("ApplicationNumber = %q, want %q", got[0].ApplicationNumber, "540/2013/1")
	}
	if got[0].Address != "5 BAY ROAD, COFFIN BAY SA 5607" {
		t.Errorf("Address = %q, want %q", got[0].Address, "5 BAY ROAD, COFFIN BAY SA 5607")
	}
}

func TestGridRowsRequiresRuledLines(t *testing.T) {
	tests := []struct {
		name string
		page *content.Page
	}{
		{"no lines", &content.Page{Elements: []content.Element{el(55, 105, 60, "text")}}},
		{"single horizontal line", &content.Page{
			HLines: []geometry.Rect{hline(100)},
			VLines: []geometry.Rect{vline(50), vline(150)},
		}},
		{"single vertical line", &content.Page{
			HLines: []geometry.Rect{hline(100), hline(120)},
			VLines: []geometry.Rect{vline(50)},
		}},
	}

	g := &gridSynthesizer{logger: zap.NewNop(), formatter: testFormatter()}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.Rows(tt.page); !errors.Is(err, ErrNoRows) {
				t.Errorf("Rows() error = %v, want ErrNoRows", err)
			}
		})
	}
}

func TestGridRowsMissingHeadings(t *testing.T) {
	page := &content.Page{
		Number: 1,
		HLines: []geometry.Rect{hline(100), hline(120), hline(140)},
		VLines: []geometry.Rect{vline(50), vline(150), vline(250), vline(350)},
		Elements: []content.Element{
			el(55, 105, 80, "Application Number"),
			el(155, 105, 80, "Street Name"),
			el(255, 105, 80, "Date Received"),

			el(55, 125, 60, "542/2013/7"),
			el(155, 125, 50, "5 Bay Rd"),
			el(255, 125, 50, "3/08/2013"),
		},
	}

	g := &gridSynthesizer{logger: zap.NewNop(), formatter: testFormatter()}
	_, err := g.Rows(page)
	if !errors.Is(err, ErrMissingHeadings) {
		t.Fatalf("Rows() error = %v, want ErrMissingHeadings", err)
	}
	if !strings.Contains(err.Error(), fieldSuburb) {
		t.Errorf("Rows() error = %q, want it to name the missing heading", err)
	}
}

func TestBuildCells(t *testing.T) {
	cells := buildCells(
		[]geometry.Rect{hline(120), hline(100)},
		[]geometry.Rect{vline(250), vline(50), vline(150)},
	)
	if len(cells) != 2 {
		t.Fatalf("buildCells() returned %d cells, want 2", len(cells))
	}
	want := geometry.Rect{X: 50, Y: 100, Width: 100, Height: 20}
	if cells[0].Rect != want {
		t.Errorf("cells[0].Rect = %+v, want %+v", cells[0].Rect, want)
	}
	want = geometry.Rect{X: 150, Y: 100, Width: 100, Height: 20}
	if cells[1].Rect != want {
		t.Errorf("cells[1].Rect = %+v, want %+v", cells[1].Rect, want)
	}
}

func TestAssignElements(t *testing.T) {
	cells := buildCells(
		[]geometry.Rect{hline(100), hline(120)},
		[]geometry.Rect{vline(50), vline(150), vline(250)},
	)
	assignElements(cells, []content.Element{
		// fully inside the first cell
		el(60, 105, 40, "owned"),
		// split exactly in half across the x=150 rule
		el(100, 105, 100, "split"),
	})

	if len(cells[0].elements) != 1 || cells[0].elements[0].Text != "owned" {
		t.Errorf("cells[0] owns %+v, want only the contained element", cells[0].elements)
	}
	if len(cells[1].elements) != 0 {
		t.Errorf("cells[1] owns %d elements, want 0", len(cells[1].elements))
	}
}

func TestNormalizeHeading(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaced", "Application Number", "applicationnumber"},
		{"wrapped", "Development\nDescription", "developmentdescription"},
		{"slashed", "Suburb/Town", "suburb/town"},
		{"extra whitespace", "  DA   Number ", "danumber"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeHeading(tt.input); got != tt.want {
				t.Errorf("normalizeHeading(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
