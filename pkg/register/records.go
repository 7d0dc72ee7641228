package register

import (
	"go.uber.org/zap"
)

// Record is one development application. Field order matters to callers
// that persist positionally.
type Record struct {
	ApplicationNumber string
	Address           string
	Description       string
	InfoURL           string
	CommentURL        string
	DateScraped       string
	DateReceived      string
	LegalDescription  string
}

// Update is one row's worth of extracted fields. Empty fields mean the row
// did not define them, not that they should be cleared.
type Update struct {
	ApplicationNumber string
	Address           string
	Description       string
	DateReceived      string
	LegalDescription  string
}

// recordSet accumulates records keyed by application number across a whole
// document, preserving first-insertion order so output is reproducible. A
// continuation section later in the document may complete fields an earlier
// row left unset; non-empty fields never regress to empty.
type recordSet struct {
	order   []string
	records map[string]*Record
}

func newRecordSet() *recordSet {
	return &recordSet{records: make(map[string]*Record)}
}

// apply folds one row into the set. base supplies the fields shared by
// every record from this parse.
func (s *recordSet) apply(u Update, base Record) {
	if u.ApplicationNumber == "" {
		return
	}
	rec, ok := s.records[u.ApplicationNumber]
	if !ok {
		rec = &Record{
			ApplicationNumber: u.ApplicationNumber,
			InfoURL:           base.InfoURL,
			CommentURL:        base.CommentURL,
			DateScraped:       base.DateScraped,
		}
		s.records[u.ApplicationNumber] = rec
		s.order = append(s.order, u.ApplicationNumber)
	}
	rec.Address = mergeField(rec.Address, u.Address)
	rec.Description = mergeField(rec.Description, u.Description)
	rec.DateReceived = mergeField(rec.DateReceived, u.DateReceived)
	rec.LegalDescription = mergeField(rec.LegalDescription, u.LegalDescription)
}

// finalize returns the accumulated records in first-insertion order,
// dropping any without an address. The application number is logged so the
// drop can be traced back to its register entry.
func (s *recordSet) finalize(logger *zap.Logger) []Record {
	records := make([]Record, 0, len(s.order))
	for _, key := range s.order {
		rec := s.records[key]
		if rec.ApplicationNumber == "" || rec.Address == "" {
			logger.Warn("dropping application without address",
				zap.String("applicationNumber", rec.ApplicationNumber))
			continue
		}
		records = append(records, *rec)
	}
	return records
}

func mergeField(old, new string) string {
	if new != "" {
		return new
	}
	return old
}

// Merge combines the records of several documents, keyed by application
// number. First appearance fixes the order; a later record for the same
// application replaces the earlier one wholesale, matching the store's
// insert-or-replace semantics.
func Merge(batches ...[]Record) []Record {
	var merged []Record
	index := make(map[string]int)
	for _, batch := range batches {
		for _, rec := range batch {
			if i, ok := index[rec.ApplicationNumber]; ok {
				merged[i] = rec
				continue
			}
			index[rec.ApplicationNumber] = len(merged)
			merged = append(merged, rec)
		}
	}
	return merged
}
