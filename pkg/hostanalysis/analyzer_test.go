package hostanalysis

import (
	"testing"

	"github.com/activecm/lgprobe/pkg/geo"
	"github.com/activecm/lgprobe/pkg/locate"
	"github.com/activecm/lgprobe/pkg/replica"
	"github.com/activecm/lgprobe/pkg/trace"
	"github.com/activecm/lgprobe/pkg/vantage"
	"github.com/activecm/lgprobe/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	london    = geo.Point{Lat: 51.5074, Lon: -0.1278, CountryCode: "GB", City: "London"}
	frankfurt = geo.Point{Lat: 50.1109, Lon: 8.6821, CountryCode: "DE", City: "Frankfurt"}
	tokyo     = geo.Point{Lat: 35.6762, Lon: 139.6503, CountryCode: "JP", City: "Tokyo"}
	paris     = geo.Point{Lat: 48.8566, Lon: 2.3522, CountryCode: "FR", City: "Paris"}
)

func testCatalog() replica.Catalog {
	return replica.Catalog{
		"TestCDN": {london, frankfurt, tokyo, paris},
	}
}

func testRegistry() *vantage.Registry {
	at := func(p geo.Point) *geo.Point { return &p }
	return vantage.NewRegistry([]vantage.VantagePoint{
		{Location: at(london), IPAddr: "81.2.69.1", URL: "https://lg.lon-a.example.net"},
		{Location: at(london), IPAddr: "81.2.69.2", URL: "https://lg.lon-b.example.net"},
		{Location: at(tokyo), IPAddr: "202.32.0.1", URL: "https://lg.tyo-a.example.net"},
		{Location: at(tokyo), IPAddr: "202.32.0.2", URL: "https://lg.tyo-b.example.net"},
		{IPAddr: "202.32.0.3", URL: "https://lg.unknown.example.net"},
	})
}

func hop(ip string, index int, rtt float64) *trace.HopObservation {
	return &trace.HopObservation{IP: ip, HopIndex: index, RTTMs: rtt}
}

func testLog(dest string, successful bool, hops ...*trace.HopObservation) *trace.Log {
	l := trace.NewLog("example.com")
	l.DestIP = dest
	l.Successful = successful
	for _, h := range hops {
		l.Hops[h.IP] = h
	}
	return l
}

//testLogs has one anycast destination with a London site {0,1} and a Tokyo
//site {2,3,4}, plus an unsuccessful probe from 5
func testLogs() trace.Logs {
	named := hop("62.115.12.1", 1, 0.5)
	named.Hostname = "ae1.lon.example.net"
	dest := hop("1.1.1.1", 3, 1.5)
	dest.Hostname = "one.one.one.one"

	return trace.Logs{
		0: testLog("1.1.1.1", true, named, hop("195.66.224.1", 2, 1.0), dest),
		1: testLog("1.1.1.1", true, hop("62.115.12.5", 1, 0.7), hop("195.66.224.2", 2, 1.9), hop("1.1.1.1", 3, 2.5)),
		2: testLog("1.1.1.1", true, hop("61.200.80.1", 1, 0.4), hop("210.171.224.1", 2, 0.9), hop("1.1.1.1", 3, 1.2)),
		3: testLog("1.1.1.1", true, hop("61.200.80.5", 1, 0.6), hop("210.171.224.2", 2, 1.4), hop("1.1.1.1", 3, 2.0)),
		4: testLog("1.1.1.1", true, hop("61.200.80.9", 1, 0.6), hop("210.171.224.3", 2, 1.4), hop("1.1.1.1", 3, 2.0)),
		5: testLog("1.1.1.1", false, hop("61.200.80.13", 1, 0.6)),
	}
}

func testAnalyzer(t *testing.T) *Analyzer {
	res := resources.InitTestResources(t, nil)
	analyzer, err := NewAnalyzer(res, testRegistry(), testCatalog())
	require.NoError(t, err)
	return analyzer
}

func TestAnalyzeHost(t *testing.T) {
	analyzer := testAnalyzer(t)
	report := analyzer.AnalyzeHost("example.com", testLogs())

	assert.False(t, report.Skipped)
	assert.Equal(t, "TestCDN", report.Provider)
	assert.Equal(t, analyzer.RunID(), report.RunID)
	assert.Equal(t, 6, report.NumLogs)
	assert.Equal(t, 5, report.NumPurified, "the unsuccessful probe is purified away")

	candidates := report.AnycastCandidates["1.1.1.1"]
	require.Len(t, candidates, 2)
	assert.Equal(t, 1, candidates[0].SiteIndex)
	assert.Equal(t, []int{0, 1}, candidates[0].VPIndices)
	assert.Equal(t, []string{"195.66.224.0/30"}, candidates[0].Subnets)
	assert.Equal(t, []VPDetail{
		{VPIndex: 0, SourceIP: "81.2.69.1", URL: "https://lg.lon-a.example.net"},
		{VPIndex: 1, SourceIP: "81.2.69.2", URL: "https://lg.lon-b.example.net"},
	}, candidates[0].VPDetails)
	assert.Equal(t, []VPRTT{{VPIndex: 0, RTTMs: 1.5}, {VPIndex: 1, RTTMs: 2.5}}, candidates[0].VPRTTs)
	assert.Equal(t, 2, candidates[1].SiteIndex)
	assert.Equal(t, []int{2, 3, 4}, candidates[1].VPIndices)

	require.Len(t, report.SuccessfulSites, 2)
	testCases := []struct {
		site          LocatedSite
		location      geo.Point
		replicaIndex  int
		numCandidates int
	}{
		{report.SuccessfulSites[0], london, 0, 2},
		{report.SuccessfulSites[1], tokyo, 2, 2},
	}
	for _, test := range testCases {
		assert.Equal(t, test.location, test.site.Location, test.location.City)
		assert.Equal(t, test.replicaIndex, test.site.ReplicaIndex, test.location.City)
		assert.Equal(t, locate.TierVPCluster, test.site.Tier, test.location.City)
		assert.Equal(t, test.numCandidates, test.site.NumCandidates, test.location.City)
	}

	assert.Equal(t, 2, report.NumUniqueLocations)
	assert.Empty(t, report.FailedCandidates)
	assert.Equal(t, map[string][]string{
		"London_GB": {"195.66.224.0/30"},
		"Tokyo_JP":  {"210.171.224.0/30"},
	}, report.LocatedSitesSubnets)

	require.Len(t, report.Hostnames, 2)
	assert.Equal(t, "1.1.1.1", report.Hostnames[0].IP)
	assert.Equal(t, "62.115.12.1", report.Hostnames[1].IP)
	assert.Equal(t, []int{0}, report.Hostnames[1].Sightings[0].VantagePoints)
	require.Len(t, report.DstRedirection, 1)
	assert.Equal(t, []string{"one.one.one.one"}, report.DstRedirection[0].Hostnames)
}

func TestAnalyzeHostPerVP(t *testing.T) {
	report := testAnalyzer(t).AnalyzeHost("example.com", testLogs())

	require.Len(t, report.PerVPAnalysis, 4, "only vantage points with a location are summarized")
	assert.NotContains(t, report.PerVPAnalysis, 4)

	vp0 := report.PerVPAnalysis[0]
	require.NotNil(t, vp0.ReachedSite)
	assert.Equal(t, london, *vp0.ReachedSite)
	assert.Equal(t, "1.1.1.1", vp0.DestIP)
	assert.Equal(t, 1.5, vp0.RTTToDest)

	indices := func(replicas []NearbyReplica) []int {
		var out []int
		for _, r := range replicas {
			out = append(out, r.ReplicaIndex)
		}
		return out
	}
	assert.Equal(t, []int{0, 3, 1}, indices(vp0.Closest.Overall))
	assert.Equal(t, []int{0}, indices(vp0.Closest.Country))
	assert.Equal(t, []int{0, 3, 1}, indices(vp0.Closest.Continent))
	assert.InDelta(t, 0, vp0.Closest.Overall[0].Distance, 0.001)

	vp2 := report.PerVPAnalysis[2]
	require.NotNil(t, vp2.ReachedSite)
	assert.Equal(t, tokyo, *vp2.ReachedSite)
	assert.Equal(t, []int{2}, indices(vp2.Closest.Continent))
	assert.Equal(t, []int{2, 1, 0}, indices(vp2.Closest.Overall))
}

func TestAnalyzeHostFailures(t *testing.T) {
	analyzer := testAnalyzer(t)

	// 6 and 7 share an edge but have no registry entry, 8 is alone
	logs := trace.Logs{
		6: testLog("2.2.2.2", true, hop("80.81.192.1", 1, 5), hop("2.2.2.2", 2, 9)),
		7: testLog("2.2.2.2", true, hop("80.81.192.2", 1, 5), hop("2.2.2.2", 2, 9)),
		8: testLog("2.2.2.2", true, hop("80.81.193.1", 1, 5), hop("2.2.2.2", 2, 9)),
	}
	report := analyzer.AnalyzeHost("cdn.example.com", logs)

	assert.False(t, report.Skipped, "subdomains inherit the provider")
	require.Len(t, report.AnycastCandidates["2.2.2.2"], 2)
	assert.Empty(t, report.SuccessfulSites)
	assert.Equal(t, []FailedCandidate{{DestIP: "2.2.2.2", SiteIndex: 1}}, report.FailedCandidates,
		"single member sites are not geolocated")
	assert.Equal(t, 0, report.NumUniqueLocations)
	assert.Empty(t, report.PerVPAnalysis)
}

func TestAnalyzeHostSkipped(t *testing.T) {
	analyzer := testAnalyzer(t)

	report := analyzer.AnalyzeHost("unknown.org", testLogs())
	assert.True(t, report.Skipped)
	assert.Contains(t, report.SkipReason, ErrNoProvider.Error())
	assert.Equal(t, 6, report.NumLogs)
	assert.Empty(t, report.AnycastCandidates)

	analyzer.catalog = replica.Catalog{}
	report = analyzer.AnalyzeHost("example.com", testLogs())
	assert.True(t, report.Skipped)
	assert.Equal(t, "TestCDN", report.Provider)
	assert.Contains(t, report.SkipReason, ErrNoReplicaSites.Error())
}

func TestAnalyzeHostUnicast(t *testing.T) {
	logs := trace.Logs{
		0: testLog("9.9.9.9", true, hop("195.66.224.1", 1, 1), hop("9.9.9.9", 2, 2)),
		1: testLog("9.9.9.9", true, hop("195.66.224.2", 1, 1), hop("9.9.9.9", 2, 2)),
	}
	report := testAnalyzer(t).AnalyzeHost("example.com", logs)

	assert.Empty(t, report.AnycastCandidates)
	assert.Empty(t, report.SuccessfulSites)
	require.Len(t, report.PerVPAnalysis, 2)
	assert.Nil(t, report.PerVPAnalysis[0].ReachedSite)
}

func TestCandidates(t *testing.T) {
	report := newReport("run", "example.com")
	report.AnycastCandidates["9.9.9.9"] = []CandidateSite{{DestIP: "9.9.9.9", SiteIndex: 1}}
	report.AnycastCandidates["1.1.1.1"] = []CandidateSite{
		{DestIP: "1.1.1.1", SiteIndex: 1},
		{DestIP: "1.1.1.1", SiteIndex: 2},
	}

	var got []string
	for _, c := range report.Candidates() {
		got = append(got, c.DestIP)
	}
	assert.Equal(t, []string{"1.1.1.1", "1.1.1.1", "9.9.9.9"}, got)
}
