package address

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Reference file names expected under the data directory.
const (
	StreetNamesFile = "streetnames.txt"
	SuffixesFile    = "suffixes.txt"
	SuburbNamesFile = "suburbnames.txt"
)

// Dictionaries holds the three parsed reference files. Entry order follows
// file order; the Formatter depends on it for fuzzy tie-breaks.
type Dictionaries struct {
	Suffixes map[string]string
	Streets  []Street
	Suburbs  []Suburb
}

// Street is one street dictionary entry with the suburbs it occurs in.
type Street struct {
	Name    string
	Suburbs []string
}

// Suburb maps a suburb spelling to its state and postcode text.
type Suburb struct {
	Name          string
	StatePostcode string
}

// Load reads the three reference files from dir and builds a Formatter.
func Load(dir string) (*Formatter, error) {
	d, err := LoadDictionaries(dir)
	if err != nil {
		return nil, err
	}
	return NewFormatter(d), nil
}

// LoadDictionaries reads streetnames.txt, suffixes.txt and suburbnames.txt
// from dir. Suburbs spelled with a "MOUNT" or "MT" prefix gain the other
// spelling as an extra entry so either form resolves.
func LoadDictionaries(dir string) (*Dictionaries, error) {
	d := &Dictionaries{Suffixes: make(map[string]string)}

	err := readPairs(filepath.Join(dir, SuffixesFile), func(abbr, full string) {
		d.Suffixes[strings.ToUpper(abbr)] = strings.ToUpper(full)
	})
	if err != nil {
		return nil, fmt.Errorf("load suffixes: %w", err)
	}

	streetIndex := make(map[string]int)
	err = readPairs(filepath.Join(dir, StreetNamesFile), func(name, suburb string) {
		name = strings.ToUpper(name)
		suburb = strings.ToUpper(suburb)
		if i, ok := streetIndex[name]; ok {
			d.Streets[i].Suburbs = append(d.Streets[i].Suburbs, suburb)
			return
		}
		streetIndex[name] = len(d.Streets)
		d.Streets = append(d.Streets, Street{Name: name, Suburbs: []string{suburb}})
	})
	if err != nil {
		return nil, fmt.Errorf("load street names: %w", err)
	}

	seen := make(map[string]bool)
	add := func(name, statePostcode string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		d.Suburbs = append(d.Suburbs, Suburb{Name: name, StatePostcode: statePostcode})
	}
	err = readPairs(filepath.Join(dir, SuburbNamesFile), func(name, statePostcode string) {
		name = strings.ToUpper(name)
		statePostcode = strings.ToUpper(statePostcode)
		add(name, statePostcode)
		if rest, ok := strings.CutPrefix(name, "MOUNT "); ok {
			add("MT "+rest, statePostcode)
		} else if rest, ok := strings.CutPrefix(name, "MT "); ok {
			add("MOUNT "+rest, statePostcode)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("load suburb names: %w", err)
	}

	return d, nil
}

// readPairs streams "key,value" lines to fn. Blank lines and lines opening
// with # are ignored; lines without a comma are skipped.
func readPairs(path string, fn func(key, value string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ",")
		if !ok {
			continue
		}
		fn(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return scanner.Err()
}
