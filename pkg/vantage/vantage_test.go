package vantage

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/activecm/lgprobe/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	paris := geo.Point{Lat: 48.85, Lon: 2.35, CountryCode: "FR", City: "Paris"}
	registry := NewRegistry([]VantagePoint{
		{Index: 42, Location: &paris, IPAddr: "192.0.2.1", URL: "https://lg.example.fr"},
		{URL: "https://lg.example.net"},
	})

	require.Equal(t, 2, registry.Len())

	vp, ok := registry.Get(0)
	require.True(t, ok)
	assert.Equal(t, 0, vp.Index, "index is the registry position")

	paris.City = "Changed"
	loc, ok := registry.Location(0)
	require.True(t, ok)
	assert.Equal(t, "Paris", loc.City, "registry keeps its own copy")

	ip, ok := registry.SourceIP(0)
	assert.True(t, ok)
	assert.Equal(t, "192.0.2.1", ip)

	_, ok = registry.Location(1)
	assert.False(t, ok, "no declared location")
	_, ok = registry.SourceIP(1)
	assert.False(t, ok, "no declared address")

	_, ok = registry.Get(2)
	assert.False(t, ok)
	_, ok = registry.Get(-1)
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "lgprobe-vantage")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "vps.json")
	doc := `[
		{"url": "https://lg.one", "ipAddr": "192.0.2.1", "location": {"lat": 1.5, "lon": 2.5, "countryCode": "SG"}},
		{"url": "https://lg.two", "commandTemplate": "traceroute {host}"}
	]`
	require.NoError(t, ioutil.WriteFile(path, []byte(doc), 0644))

	registry, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, registry.Len())

	loc, ok := registry.Location(0)
	require.True(t, ok)
	assert.Equal(t, "SG", loc.CountryCode)

	vp, _ := registry.Get(1)
	assert.Equal(t, 1, vp.Index)
	assert.Equal(t, "traceroute {host}", vp.CommandTemplate)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
