package register

import (
	"strings"
	"time"
)

// Date layouts used by the two register generations. Ruled registers write
// 3/08/2011, columned ones 5-Aug-2011. Output is always ISO.
const (
	gridDateLayout   = "2/01/2006"
	columnDateLayout = "2-Jan-2006"
	isoDateLayout    = "2006-01-02"
)

// normalizeDate parses s with the given layout and renders it as an ISO
// date. Anything unparsable becomes the empty string rather than an error;
// a missing date never sinks its row.
func normalizeDate(s, layout string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return ""
	}
	return t.Format(isoDateLayout)
}
