package geo

import (
	"io/ioutil"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

//LexiconEntry is a city known to the hint matcher
type LexiconEntry struct {
	Point
	Admin      string `json:"admin"`
	Population int64  `json:"population"`
	//CityToken is only set on airport codes. The code only counts when the
	//city token appears in the same hint.
	CityToken string `json:"cityToken,omitempty"`
}

//Lexicon is the on-disk form of the hint matcher's dictionaries
type Lexicon struct {
	Cities          map[string]LexiconEntry `json:"cities"`
	MultiwordCities map[string]LexiconEntry `json:"multiwordCities"`
	IATA            map[string]LexiconEntry `json:"iata"`
}

//HintMatcher geolocates router hostnames and free text by matching city
//names and airport codes against a lexicon
type HintMatcher struct {
	cities    map[string]LexiconEntry
	iata      map[string]LexiconEntry
	multiword []string
	multi     map[string]LexiconEntry
}

//NewHintMatcher indexes a lexicon. Keys are matched case-insensitively.
func NewHintMatcher(lex Lexicon) *HintMatcher {
	m := &HintMatcher{
		cities: make(map[string]LexiconEntry, len(lex.Cities)),
		iata:   make(map[string]LexiconEntry, len(lex.IATA)),
		multi:  make(map[string]LexiconEntry, len(lex.MultiwordCities)),
	}
	for name, entry := range lex.Cities {
		m.cities[strings.ToLower(name)] = entry
	}
	for code, entry := range lex.IATA {
		entry.CityToken = strings.ToLower(entry.CityToken)
		m.iata[strings.ToLower(code)] = entry
	}
	for name, entry := range lex.MultiwordCities {
		name = strings.ToLower(name)
		m.multi[name] = entry
		m.multiword = append(m.multiword, name)
	}
	// longer names first so "new york city" beats "york"
	sort.Slice(m.multiword, func(i, j int) bool {
		if len(m.multiword[i]) != len(m.multiword[j]) {
			return len(m.multiword[i]) > len(m.multiword[j])
		}
		return m.multiword[i] < m.multiword[j]
	})
	return m
}

//LoadLexicon reads a Lexicon JSON document and builds a HintMatcher
func LoadLexicon(path string) (*HintMatcher, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read hint lexicon %s", path)
	}
	var lex Lexicon
	if err := json.Unmarshal(raw, &lex); err != nil {
		return nil, errors.Wrapf(err, "could not decode hint lexicon %s", path)
	}
	return NewHintMatcher(lex), nil
}

//LocateHint returns the city the hint most likely refers to
func (m *HintMatcher) LocateHint(hint string) (Point, bool) {
	entry, ok := m.match(hint)
	if !ok {
		return Point{}, false
	}
	return entry.Point, true
}

func (m *HintMatcher) match(hint string) (LexiconEntry, bool) {
	hint = strings.ToLower(hint)

	for _, name := range m.multiword {
		if strings.Contains(hint, name) {
			return m.multi[name], true
		}
	}

	tokens := splitHint(hint)
	present := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		present[token] = true
	}

	var candidates []LexiconEntry
	for _, token := range tokens {
		if entry, ok := m.iata[token]; ok {
			if present[entry.CityToken] {
				candidates = append(candidates, entry)
			}
			if present["ixp"] {
				candidates = append(candidates, entry)
			}
		}
		if entry, ok := m.cities[token]; ok {
			candidates = append(candidates, entry)
		}
	}

	if len(candidates) == 0 {
		return LexiconEntry{}, false
	}

	// a city and the region named after it: prefer the more specific one
	if len(candidates) == 2 {
		if strings.EqualFold(candidates[0].City, candidates[1].Admin) {
			return candidates[1], true
		}
		if strings.EqualFold(candidates[1].City, candidates[0].Admin) {
			return candidates[0], true
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Population > candidates[j].Population
	})
	return candidates[0], true
}

//splitHint breaks a lower-cased hint into lookup tokens in order of first
//appearance. Hints shaped like "name (ASnnnn)" carry no location.
func splitHint(hint string) []string {
	hint = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, hint)

	var raw []string
	switch {
	case strings.Contains(hint, ",") && !strings.Contains(hint, "("):
		// dashes are either glue or separators, try both
		for _, variant := range []string{
			strings.Replace(hint, "-", "", -1),
			strings.Replace(hint, "-", ",", -1),
		} {
			for _, part := range strings.Split(variant, ",") {
				raw = append(raw, strings.Replace(part, " ", "", -1))
			}
		}
	case strings.Contains(hint, "(as"):
		return nil
	default:
		fields := strings.FieldsFunc(hint, func(r rune) bool {
			switch r {
			case '(', ')', ',', '，', '/', '-', '.', '_':
				return true
			}
			return unicode.IsSpace(r)
		})
		for _, field := range fields {
			if utf8.RuneCountInString(field) > 1 {
				raw = append(raw, field)
			}
		}
	}

	seen := make(map[string]bool, len(raw))
	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		tokens = append(tokens, token)
	}
	return tokens
}
