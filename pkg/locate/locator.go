package locate

import (
	"io/ioutil"

	"github.com/activecm/lgprobe/pkg/anycast"
	"github.com/activecm/lgprobe/pkg/geo"
	"github.com/activecm/lgprobe/pkg/trace"
	log "github.com/sirupsen/logrus"
)

//Tier names the rule that placed a site
type Tier string

const (
	//TierNearVP is a single vantage point within NearRTT of the site
	TierNearVP Tier = "near-vp"
	//TierVPCluster is the largest group of near vantage points
	TierVPCluster Tier = "vp-cluster"
	//TierTriangulation is the mid-hop RTT vote
	TierTriangulation Tier = "triangulation"
)

type (
	//VantageLookup supplies declared vantage point locations
	VantageLookup interface {
		Location(index int) (geo.Point, bool)
	}

	//Result is a located anycast site
	Result struct {
		Location      geo.Point `json:"location"`
		ReplicaIndex  int       `json:"replicaIndex"`
		Tier          Tier      `json:"tier"`
		NumCandidates int       `json:"numCandidates"`
	}

	//Locator places anycast sites on the map of a provider's replica sites
	Locator struct {
		conf     Config
		resolver geo.Resolver
		vps      VantageLookup
		log      *log.Logger
	}

	//member is a site member with usable data toward the destination
	member struct {
		vp      int
		trace   *trace.Log
		destRTT float64
		loc     geo.Point
		hasLoc  bool
	}
)

//NewLocator creates a Locator. resolver may be nil, which disables mid-hop
//geolocation. A nil logger discards diagnostics.
func NewLocator(conf Config, resolver geo.Resolver, vps VantageLookup, logger *log.Logger) *Locator {
	if logger == nil {
		logger = log.New()
		logger.Out = ioutil.Discard
	}
	return &Locator{conf: conf, resolver: resolver, vps: vps, log: logger}
}

//Locate resolves the site's position among replicas. ok is false when no
//rule produced an answer.
func (l *Locator) Locate(site *anycast.Site, destIP string, logs trace.Logs, replicas []geo.Point) (Result, bool) {
	members := l.members(site, destIP, logs)

	var near []member
	for _, m := range members {
		if m.hasLoc && m.destRTT <= l.conf.NearRTT {
			near = append(near, m)
		}
	}

	switch {
	case len(near) == 1:
		if res, ok := nearestReplica(near[0].loc, replicas, TierNearVP, 1); ok {
			return res, true
		}
	case len(near) > 1:
		cluster := largestCluster(near, l.conf.ClusterRadius)
		best := cluster[0]
		for _, m := range cluster[1:] {
			if m.destRTT < best.destRTT {
				best = m
			}
		}
		if res, ok := nearestReplica(best.loc, replicas, TierVPCluster, len(cluster)); ok {
			return res, true
		}
	}

	res, ok := l.triangulate(site, destIP, members, replicas)
	if !ok {
		l.log.WithFields(log.Fields{
			"Module":  "locate",
			"DestIP":  destIP,
			"Members": site.Members,
		}).Debug("No candidate replica sites for any vantage point")
	}
	return res, ok
}

//members collects the site's vantage points that observed destIP
func (l *Locator) members(site *anycast.Site, destIP string, logs trace.Logs) []member {
	var out []member
	for _, vp := range site.Members {
		path, ok := logs[vp]
		if !ok {
			continue
		}
		dest, ok := path.Hop(destIP)
		if !ok {
			continue
		}
		m := member{vp: vp, trace: path, destRTT: dest.RTTMs}
		if l.vps != nil {
			m.loc, m.hasLoc = l.vps.Location(vp)
		}
		out = append(out, m)
	}
	return out
}

func nearestReplica(p geo.Point, replicas []geo.Point, tier Tier, numCandidates int) (Result, bool) {
	idx, ok := geo.Nearest(p, replicas)
	if !ok {
		return Result{}, false
	}
	return Result{
		Location:      replicas[idx],
		ReplicaIndex:  idx,
		Tier:          tier,
		NumCandidates: numCandidates,
	}, true
}

//largestCluster groups vantage points greedily: each joins the first
//cluster holding a member within radius km. The first largest cluster wins.
func largestCluster(near []member, radius float64) []member {
	var clusters [][]member
	for _, m := range near {
		placed := false
		for i := range clusters {
			for _, existing := range clusters[i] {
				if geo.Distance(m.loc, existing.loc) <= radius {
					clusters[i] = append(clusters[i], m)
					placed = true
					break
				}
			}
			if placed {
				break
			}
		}
		if !placed {
			clusters = append(clusters, []member{m})
		}
	}

	largest := clusters[0]
	for _, cluster := range clusters[1:] {
		if len(cluster) > len(largest) {
			largest = cluster
		}
	}
	return largest
}
