package locate

import (
	"math"
	"sort"

	"github.com/activecm/lgprobe/pkg/anycast"
	"github.com/activecm/lgprobe/pkg/geo"
	"github.com/activecm/lgprobe/pkg/trace"
	"github.com/activecm/lgprobe/util"
)

//MidHopSource names how a mid-hop was geolocated
type MidHopSource string

const (
	//SourceHostname means the hop's hostname matched the hint lexicon
	SourceHostname MidHopSource = "hostname"
	//SourceIP means the hop's address was found in the IP database
	SourceIP MidHopSource = "ip"
)

//MidHop is an intermediate hop whose location agrees with its RTT
type MidHop struct {
	IP       string
	RTTMs    float64
	RTTDiff  float64
	Location geo.Point
	Source   MidHopSource
}

//triangulate votes over the candidate replicas of every member. The most
//voted replica wins, the earliest voted on ties.
func (l *Locator) triangulate(site *anycast.Site, destIP string, members []member, replicas []geo.Point) (Result, bool) {
	counts := make(map[int]int)
	var order []int
	for _, m := range members {
		if !m.hasLoc {
			continue
		}
		midHops := l.VerifiedMidHops(m.trace, destIP, site, m.loc)
		for _, idx := range l.CandidateSites(replicas, m.loc, m.destRTT, midHops) {
			if counts[idx] == 0 {
				order = append(order, idx)
			}
			counts[idx]++
		}
	}

	if len(order) == 0 {
		return Result{}, false
	}

	best := order[0]
	for _, idx := range order[1:] {
		if counts[idx] > counts[best] {
			best = idx
		}
	}
	return Result{
		Location:      replicas[best],
		ReplicaIndex:  best,
		Tier:          TierTriangulation,
		NumCandidates: counts[best],
	}, true
}

//VerifiedMidHops walks the path from the destination back toward the
//vantage point and keeps the hops whose location is reachable within their
//RTT at EstSpeed. Hops inside the site's edge subnets are only located by
//hostname.
func (l *Locator) VerifiedMidHops(log *trace.Log, destIP string, site *anycast.Site, vpLoc geo.Point) []MidHop {
	if l.resolver == nil {
		return nil
	}
	dest, ok := log.Hop(destIP)
	if !ok {
		return nil
	}

	var verified []MidHop
	for _, hop := range log.HopsDescending() {
		if hop.IP == destIP {
			continue
		}

		var loc geo.Point
		var source MidHopSource
		found := false
		if hop.Hostname != "" {
			loc, found = l.resolver.GeolocateHint(hop.Hostname)
			source = SourceHostname
		}
		if !found && (site == nil || !site.ContainsIP(hop.IP)) {
			loc, found = l.resolver.GeolocateIP(hop.IP)
			source = SourceIP
		}
		if !found || !geo.WithinRTT(vpLoc, loc, hop.RTTMs, l.conf.EstSpeed) {
			continue
		}

		verified = append(verified, MidHop{
			IP:       hop.IP,
			RTTMs:    hop.RTTMs,
			RTTDiff:  util.MaxFloat(math.Abs(dest.RTTMs-hop.RTTMs), l.conf.MinRTTDiff),
			Location: loc,
			Source:   source,
		})
	}
	return verified
}

//CandidateSites returns the indices of replicas consistent with one vantage
//point's RTT to the destination and with all of its verified mid-hops. When
//the mid-hops rule out every site, the sites closest to the expected
//distance from the tightest mid-hop are returned instead.
func (l *Locator) CandidateSites(replicas []geo.Point, vpLoc geo.Point, destRTT float64, midHops []MidHop) []int {
	var reachable []int
	for idx, site := range replicas {
		if geo.WithinRTT(vpLoc, site, destRTT, l.conf.EmpSpeed) {
			reachable = append(reachable, idx)
		}
	}

	var candidates []int
	for _, idx := range reachable {
		consistent := true
		for _, mid := range midHops {
			if !geo.WithinRTT(mid.Location, replicas[idx], mid.RTTDiff, l.conf.EmpSpeed) {
				consistent = false
				break
			}
		}
		if consistent {
			candidates = append(candidates, idx)
		}
	}
	if len(candidates) > 0 || len(midHops) == 0 {
		return candidates
	}

	anchor := midHops[0]
	for _, mid := range midHops[1:] {
		if mid.RTTDiff < anchor.RTTDiff {
			anchor = mid
		}
	}

	expected := anchor.RTTDiff * l.conf.EmpSpeed
	residual := func(idx int) float64 {
		return math.Abs(geo.Distance(anchor.Location, replicas[idx]) - expected)
	}
	sort.SliceStable(reachable, func(i, j int) bool {
		return residual(reachable[i]) < residual(reachable[j])
	})
	if keep := l.conf.FallbackCandidates; keep >= 0 && len(reachable) > keep {
		reachable = reachable[:keep]
	}
	return reachable
}
