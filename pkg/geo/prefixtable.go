package geo

import (
	"io/ioutil"
	"net/netip"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go4.org/netipx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//PrefixEntry is one row of the IP geolocation table
type PrefixEntry struct {
	Prefix string `json:"prefix"`
	Point
}

//PrefixTable is an in-memory longest-prefix-match IP geolocation database
type PrefixTable struct {
	entries  []prefixRow
	coverage *netipx.IPSet
}

type prefixRow struct {
	prefix netip.Prefix
	point  Point
}

//NewPrefixTable indexes the given entries. Malformed prefixes are an error.
func NewPrefixTable(entries []PrefixEntry) (*PrefixTable, error) {
	var builder netipx.IPSetBuilder
	rows := make([]prefixRow, 0, len(entries))
	for _, entry := range entries {
		prefix, err := netip.ParsePrefix(entry.Prefix)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid prefix %q in IP database", entry.Prefix)
		}
		prefix = prefix.Masked()
		builder.AddPrefix(prefix)
		rows = append(rows, prefixRow{prefix: prefix, point: entry.Point})
	}

	coverage, err := builder.IPSet()
	if err != nil {
		return nil, errors.Wrap(err, "could not build IP database coverage set")
	}

	// most specific prefixes first so the first hit is the longest match
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].prefix.Bits() > rows[j].prefix.Bits()
	})

	return &PrefixTable{entries: rows, coverage: coverage}, nil
}

//LoadPrefixTable reads a JSON array of PrefixEntry values from disk
func LoadPrefixTable(path string) (*PrefixTable, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read IP database %s", path)
	}
	var entries []PrefixEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrapf(err, "could not decode IP database %s", path)
	}
	return NewPrefixTable(entries)
}

//Len returns the number of prefixes in the table
func (t *PrefixTable) Len() int {
	return len(t.entries)
}

//LocateIP returns the location of the longest prefix containing ip
func (t *PrefixTable) LocateIP(ip string) (Point, bool) {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return Point{}, false
	}
	addr = addr.Unmap()
	if !t.coverage.Contains(addr) {
		return Point{}, false
	}
	for _, row := range t.entries {
		if row.prefix.Contains(addr) {
			return row.point, true
		}
	}
	return Point{}, false
}
