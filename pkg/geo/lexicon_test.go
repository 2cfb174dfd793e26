package geo

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLexicon() Lexicon {
	return Lexicon{
		Cities: map[string]LexiconEntry{
			"frankfurt": {Point: frankfurt, Admin: "Hesse", Population: 750000},
			"london":    {Point: london, Admin: "England", Population: 9000000},
			"paris":     {Point: paris, Admin: "Ile-de-France", Population: 2100000},
			"texas": {
				Point:      Point{Lat: 31.0, Lon: -100.0, CountryCode: "US", City: "Texas"},
				Admin:      "Texas",
				Population: 100,
			},
			"dallas": {
				Point:      Point{Lat: 32.78, Lon: -96.8, CountryCode: "US", City: "Dallas"},
				Admin:      "Texas",
				Population: 1300000,
			},
		},
		MultiwordCities: map[string]LexiconEntry{
			"new york": {Point: Point{Lat: 40.71, Lon: -74.0, CountryCode: "US", City: "New York"}, Population: 8000000},
		},
		IATA: map[string]LexiconEntry{
			"fra": {Point: frankfurt, CityToken: "frankfurt", Population: 750000},
			"lhr": {Point: london, CityToken: "london", Population: 9000000},
		},
	}
}

func TestSplitHint(t *testing.T) {
	testCases := []struct {
		hint     string
		expected []string
		msg      string
	}{
		{"ae-1.fra01.example.net", []string{"ae", "fra", "example", "net"}, "router name"},
		{"paris, france", []string{"paris", "france"}, "comma separated"},
		{"saint-denis, france", []string{"saintdenis", "france", "saint", "denis"}, "dash as glue and separator"},
		{"cloudflare (as13335)", nil, "as annotation carries no place"},
		{"x.y.lhr", []string{"lhr"}, "single letters dropped"},
	}

	for _, test := range testCases {
		assert.Equal(t, test.expected, splitHint(test.hint), test.msg)
	}
}

func TestHintMatcher(t *testing.T) {
	matcher := NewHintMatcher(testLexicon())

	testCases := []struct {
		hint     string
		expected string
		found    bool
		msg      string
	}{
		{"be2.frankfurt1.example.net", "Frankfurt", true, "plain city token"},
		{"ae-1.FRA01.example.net", "", false, "airport code alone is too ambiguous"},
		{"fra-frankfurt-core1", "Frankfurt", true, "airport code confirmed by its city"},
		{"lhr.ixp.example", "London", true, "airport code at an exchange"},
		{"core.new york.example", "New York", true, "multiword city"},
		{"dallas.texas.example", "Dallas", true, "city preferred over its own region"},
		{"paris-london-link", "London", true, "largest population wins"},
		{"transit (as1299)", "", false, "as annotation"},
		{"", "", false, "empty hint"},
	}

	for _, test := range testCases {
		p, ok := matcher.LocateHint(test.hint)
		assert.Equal(t, test.found, ok, test.msg)
		assert.Equal(t, test.expected, p.City, test.msg)
	}
}

func TestLoadLexicon(t *testing.T) {
	dir, err := ioutil.TempDir("", "lgprobe-lexicon")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "lexicon.json")
	doc := `{"cities": {"Amsterdam": {"lat": 52.37, "lon": 4.89, "countryCode": "NL", "city": "Amsterdam", "population": 800000}}}`
	require.NoError(t, ioutil.WriteFile(path, []byte(doc), 0644))

	matcher, err := LoadLexicon(path)
	require.NoError(t, err)

	p, ok := matcher.LocateHint("xe-0.amsterdam2.example.nl")
	require.True(t, ok)
	assert.Equal(t, "NL", p.CountryCode)
}
