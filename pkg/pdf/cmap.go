package pdf

import (
	"encoding/hex"
	"regexp"
	"strings"
	"unicode/utf16"
)

// toUnicodeCMap maps character codes to Unicode text, built from a font's
// ToUnicode stream. Registers produced by office tooling often embed subset
// fonts whose raw codes bear no relation to ASCII, so without this mapping
// the decoded runs are gibberish.
type toUnicodeCMap struct {
	direct map[uint16]string
	ranges []cmapRange
}

// cmapRange is one beginbfrange entry. Contiguous ranges map code low+i to
// rune start+i; array ranges carry one target string per code.
type cmapRange struct {
	low, high uint16
	start     uint16
	targets   []string
}

var (
	bfCharSection  = regexp.MustCompile(`beginbfchar\s*((?:<[0-9A-Fa-f]+>\s*<[0-9A-Fa-f]+>\s*)+)endbfchar`)
	bfCharPair     = regexp.MustCompile(`<([0-9A-Fa-f]+)>\s*<([0-9A-Fa-f]+)>`)
	bfRangeSection = regexp.MustCompile(`beginbfrange\s*((?:<[0-9A-Fa-f]+>\s*<[0-9A-Fa-f]+>\s*(?:<[0-9A-Fa-f]+>|\[[^\]]*\])\s*)+)endbfrange`)
	bfRangeEntry   = regexp.MustCompile(`<([0-9A-Fa-f]+)>\s*<([0-9A-Fa-f]+)>\s*(<[0-9A-Fa-f]+>|\[[^\]]*\])`)
	bfRangeTarget  = regexp.MustCompile(`<([0-9A-Fa-f]+)>`)
)

// parseToUnicode reads the bfchar and bfrange sections of a ToUnicode CMap
// stream. Malformed entries are skipped rather than failing the whole map.
// Returns nil when the stream holds no usable mappings.
func parseToUnicode(data []byte) *toUnicodeCMap {
	cm := &toUnicodeCMap{direct: make(map[uint16]string)}
	text := string(data)

	for _, section := range bfCharSection.FindAllStringSubmatch(text, -1) {
		for _, pair := range bfCharPair.FindAllStringSubmatch(section[1], -1) {
			code, ok := parseHexCode(pair[1])
			if !ok {
				continue
			}
			dst, err := hex.DecodeString(pair[2])
			if err != nil {
				continue
			}
			cm.direct[code] = utf16BEString(dst)
		}
	}

	for _, section := range bfRangeSection.FindAllStringSubmatch(text, -1) {
		for _, entry := range bfRangeEntry.FindAllStringSubmatch(section[1], -1) {
			low, okLow := parseHexCode(entry[1])
			high, okHigh := parseHexCode(entry[2])
			if !okLow || !okHigh || high < low {
				continue
			}
			r := cmapRange{low: low, high: high}
			if strings.HasPrefix(entry[3], "[") {
				for _, target := range bfRangeTarget.FindAllStringSubmatch(entry[3], -1) {
					dst, err := hex.DecodeString(target[1])
					if err != nil {
						r.targets = append(r.targets, "")
						continue
					}
					r.targets = append(r.targets, utf16BEString(dst))
				}
			} else {
				start, ok := parseHexCode(strings.Trim(entry[3], "<>"))
				if !ok {
					continue
				}
				r.start = start
			}
			cm.ranges = append(cm.ranges, r)
		}
	}

	if len(cm.direct) == 0 && len(cm.ranges) == 0 {
		return nil
	}
	return cm
}

// Lookup maps one character code to its Unicode text.
func (cm *toUnicodeCMap) Lookup(code uint16) (string, bool) {
	if s, ok := cm.direct[code]; ok {
		return s, true
	}
	for _, r := range cm.ranges {
		if code < r.low || code > r.high {
			continue
		}
		if len(r.targets) > 0 {
			i := int(code - r.low)
			if i < len(r.targets) && r.targets[i] != "" {
				return r.targets[i], true
			}
			return "", false
		}
		return string(rune(r.start + code - r.low)), true
	}
	return "", false
}

// parseHexCode reads a one or two byte hex character code.
func parseHexCode(s string) (uint16, bool) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) == 0 {
		return 0, false
	}
	if len(b) == 1 {
		return uint16(b[0]), true
	}
	return uint16(b[0])<<8 | uint16(b[1]), true
}

// utf16BEString converts a big-endian UTF-16 target to a Go string. A BOM
// prefix, common in ToUnicode targets, decodes to a zero-width rune that
// strings.Builder would keep, so it is stripped explicitly.
func utf16BEString(b []byte) string {
	if len(b) == 1 {
		return string(rune(b[0]))
	}
	var units []uint16
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
	}
	if len(units) > 0 && units[0] == 0xFEFF {
		units = units[1:]
	}
	return string(utf16.Decode(units))
}
