package register

import (
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func TestRecordSetMergesUpdates(t *testing.T) {
	base := Record{
		InfoURL:     "https://example.org/register",
		CommentURL:  "mailto:mail@example.org",
		DateScraped: "2013-09-15",
	}

	set := newRecordSet()
	set.apply(Update{
		ApplicationNumber: "538/2011/29",
		Address:           "14 BAY ROAD, COFFIN BAY SA 5607",
		Description:       "Dwelling",
	}, base)
	set.apply(Update{
		ApplicationNumber: "538/2011/29",
		Description:       "Dwelling and garage",
		DateReceived:      "2011-08-03",
	}, base)

	got := set.finalize(zap.NewNop())
	want := []Record{{
		ApplicationNumber: "538/2011/29",
		Address:           "14 BAY ROAD, COFFIN BAY SA 5607",
		Description:       "Dwelling and garage",
		InfoURL:           "https://example.org/register",
		CommentURL:        "mailto:mail@example.org",
		DateScraped:       "2013-09-15",
		DateReceived:      "2011-08-03",
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("finalize() = %+v, want %+v", got, want)
	}
}

func TestRecordSetKeepsInsertionOrder(t *testing.T) {
	set := newRecordSet()
	for _, appNo := range []string{"3/2012/4", "1/2012/9", "2/2012/1"} {
		set.apply(Update{ApplicationNumber: appNo, Address: "LOT 1, SOMEWHERE"}, Record{})
	}

	var order []string
	for _, rec := range set.finalize(zap.NewNop()) {
		order = append(order, rec.ApplicationNumber)
	}
	want := []string{"3/2012/4", "1/2012/9", "2/2012/1"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("finalize() order = %v, want %v", order, want)
	}
}

func TestRecordSetNeverClearsFields(t *testing.T) {
	set := newRecordSet()
	set.apply(Update{
		ApplicationNumber: "455/2013",
		Address:           "14 BAY ROAD, COFFIN BAY SA 5607",
		DateReceived:      "2013-08-05",
	}, Record{})
	set.apply(Update{ApplicationNumber: "455/2013"}, Record{})

	got := set.finalize(zap.NewNop())
	if len(got) != 1 {
		t.Fatalf("finalize() returned %d records, want 1", len(got))
	}
	if got[0].Address != "14 BAY ROAD, COFFIN BAY SA 5607" {
		t.Errorf("Address = %q, want it preserved", got[0].Address)
	}
	if got[0].DateReceived != "2013-08-05" {
		t.Errorf("DateReceived = %q, want it preserved", got[0].DateReceived)
	}
}

func TestRecordSetDropsWithoutAddress(t *testing.T) {
	set := newRecordSet()
	set.apply(Update{ApplicationNumber: "1/2013/5"}, Record{})
	set.apply(Update{ApplicationNumber: "2/2013/6", Address: "5 MAIN STREET, CUMMINS SA 5631"}, Record{})

	got := set.finalize(zap.NewNop())
	if len(got) != 1 {
		t.Fatalf("finalize() returned %d records, want 1", len(got))
	}
	if got[0].ApplicationNumber != "2/2013/6" {
		t.Errorf("ApplicationNumber = %q, want %q", got[0].ApplicationNumber, "2/2013/6")
	}
}

func TestRecordSetIgnoresEmptyApplicationNumber(t *testing.T) {
	set := newRecordSet()
	set.apply(Update{Address: "10 MAIN STREET, CUMMINS SA 5631"}, Record{})

	if got := set.finalize(zap.NewNop()); len(got) != 0 {
		t.Errorf("finalize() returned %d records, want 0", len(got))
	}
}

func TestMerge(t *testing.T) {
	first := []Record{
		{ApplicationNumber: "455/2013", Description: "Garage"},
		{ApplicationNumber: "456/2013", Description: "Dwelling"},
	}
	second := []Record{
		{ApplicationNumber: "456/2013", Description: "Dwelling and shed"},
		{ApplicationNumber: "457/2013", Description: "Verandah"},
	}

	got := Merge(first, second)
	want := []Record{
		{ApplicationNumber: "455/2013", Description: "Garage"},
		{ApplicationNumber: "456/2013", Description: "Dwelling and shed"},
		{ApplicationNumber: "457/2013", Description: "Verandah"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge() = %+v, want %+v", got, want)
	}
}
