package hostname

import (
	"testing"

	"github.com/activecm/lgprobe/pkg/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(dest string, hops ...trace.HopObservation) *trace.Log {
	log := trace.NewLog("example.com")
	log.DestIP = dest
	log.Successful = true
	for i := range hops {
		hop := hops[i]
		log.Hops[hop.IP] = &hop
	}
	return log
}

func TestAnalyze(t *testing.T) {
	logs := trace.Logs{
		1: named("151.101.1.80",
			trace.HopObservation{IP: "10.0.0.1", HopIndex: 1, Hostname: "gw.lan"},
			trace.HopObservation{IP: "62.115.12.1", HopIndex: 2, Hostname: "be1.fra.example"},
			trace.HopObservation{IP: "151.101.1.80", HopIndex: 3, Hostname: "edge-a.cdn.example"},
		),
		2: named("151.101.1.80",
			trace.HopObservation{IP: "62.115.12.1", HopIndex: 1, Hostname: "be1.fra.example"},
			trace.HopObservation{IP: "151.101.1.80", HopIndex: 2, Hostname: "edge-b.cdn.example"},
		),
		3: named("8.8.8.8",
			trace.HopObservation{IP: "8.8.8.8", HopIndex: 1},
		),
	}

	inventory, redirection := Analyze(logs)

	assert.NotContains(t, inventory, "10.0.0.1", "private addresses are skipped")
	assert.NotContains(t, inventory, "8.8.8.8", "no hostname reported")
	require.Contains(t, inventory, "62.115.12.1")
	assert.Equal(t, []int{1, 2}, inventory["62.115.12.1"]["be1.fra.example"].SortedItems())

	require.Contains(t, redirection, "151.101.1.80")
	assert.Equal(t, []string{"edge-a.cdn.example", "edge-b.cdn.example"}, redirection["151.101.1.80"].SortedItems())
	assert.NotContains(t, redirection, "8.8.8.8")
	assert.Equal(t, []string{"151.101.1.80"}, redirection.Redirected())

	entries := inventory.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "62.115.12.1", entries[0].IP)
	assert.Equal(t, []Sighting{{Hostname: "be1.fra.example", VantagePoints: []int{1, 2}}}, entries[0].Sightings)
	assert.Equal(t, "151.101.1.80", entries[1].IP)
	assert.Len(t, entries[1].Sightings, 2)

	redirects := redirection.Entries()
	require.Len(t, redirects, 1)
	assert.Equal(t, "151.101.1.80", redirects[0].DestIP)
}

func TestAnalyzeEmpty(t *testing.T) {
	inventory, redirection := Analyze(nil)
	assert.Empty(t, inventory)
	assert.Empty(t, redirection)
	assert.Empty(t, inventory.Entries())
	assert.Empty(t, redirection.Redirected())
}

func TestIPLess(t *testing.T) {
	testCases := []struct {
		a, b string
		less bool
	}{
		{"62.115.12.1", "151.101.1.80", true},
		{"151.101.1.80", "62.115.12.1", false},
		{"9.9.9.9", "10.0.0.1", true},
		{"10.0.0.1", "10.0.0.1", false},
		{"10.0.0.1", "2001:db8::1", true},
		{"2001:db8::2", "2001:db8::10", true},
		{"10.0.0.1", "unknown", true},
		{"unknown", "10.0.0.1", false},
		{"alpha", "beta", true},
	}

	for _, test := range testCases {
		assert.Equal(t, test.less, ipLess(test.a, test.b), "%s < %s", test.a, test.b)
	}
}
