package hostanalysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/activecm/lgprobe/pkg/anycast"
	"github.com/activecm/lgprobe/pkg/data"
	"github.com/activecm/lgprobe/pkg/geo"
	"github.com/activecm/lgprobe/pkg/hostname"
	"github.com/activecm/lgprobe/pkg/locate"
	"github.com/activecm/lgprobe/pkg/replica"
	"github.com/activecm/lgprobe/pkg/trace"
	"github.com/activecm/lgprobe/pkg/vantage"
	"github.com/activecm/lgprobe/resources"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

//closestReplicas is how many replicas each per-VP ranking keeps
const closestReplicas = 3

var (
	//ErrNoProvider means the host has no known CDN provider
	ErrNoProvider = replica.ErrNoProvider
	//ErrNoReplicaSites means the host's provider has no replica sites
	ErrNoReplicaSites = replica.ErrNoReplicaSites
)

//Analyzer runs the purify, cluster and geolocate pipeline for one host at
//a time. It holds no per-host state and may be shared between goroutines.
type Analyzer struct {
	runID     string
	vps       *vantage.Registry
	catalog   replica.Catalog
	mapping   map[string]string
	purifier  *trace.Purifier
	clusterer *anycast.Clusterer
	locator   *locate.Locator
	log       *log.Logger
}

//NewAnalyzer builds the pipeline from the resource bundle. Every report the
//analyzer produces carries the same run id.
func NewAnalyzer(res *resources.Resources, vps *vantage.Registry, catalog replica.Catalog) (*Analyzer, error) {
	conf := res.Config
	clusterer, err := anycast.NewClusterer(conf.S.Anycast.SubnetLengths, conf.S.Anycast.CanonicalLength)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		runID:     uuid.New().String(),
		vps:       vps,
		catalog:   catalog,
		mapping:   conf.R.Registry.CustomerToCDN,
		purifier:  trace.NewPurifier(conf.S.Parser.MaxHopIndex, res.Log),
		clusterer: clusterer,
		locator:   locate.NewLocator(resources.LocateConfig(&conf.S.Geolocation), res.Resolver, vps, res.Log),
		log:       res.Log,
	}, nil
}

//RunID identifies the reports of this analyzer
func (a *Analyzer) RunID() string {
	return a.runID
}

//AnalyzeHost produces the report for host from its per-VP logs. A host
//without replica data is returned as a skipped report.
func (a *Analyzer) AnalyzeHost(host string, logs trace.Logs) *Report {
	report := newReport(a.runID, host)
	report.NumLogs = len(logs)

	provider, replicas, err := a.catalog.SitesFor(host, a.mapping)
	report.Provider = provider
	if err != nil {
		report.Skipped = true
		report.SkipReason = err.Error()
		a.log.WithFields(log.Fields{
			"Module": "hostanalysis",
			"Host":   host,
			"Reason": err.Error(),
		}).Warn("Skipping host")
		return report
	}

	purified := a.purifier.Purify(logs)
	report.NumPurified = len(purified)

	inventory, redirection := hostname.Analyze(purified)
	report.Hostnames = inventory.Entries()
	report.DstRedirection = redirection.Entries()

	clusters := a.clusterer.Cluster(purified)
	reached := make(map[int]geo.Point)
	unique := make(data.StringSet)

	for _, destIP := range a.clusterer.AnycastDestinations(clusters) {
		for i, site := range clusters[destIP][a.clusterer.CanonicalLength] {
			candidate := a.candidate(destIP, i+1, site, purified)
			report.AnycastCandidates[destIP] = append(report.AnycastCandidates[destIP], candidate)

			if len(site.Members) < 2 {
				continue
			}

			res, ok := a.locator.Locate(site, destIP, purified, replicas)
			if !ok {
				report.FailedCandidates = append(report.FailedCandidates, FailedCandidate{
					DestIP:    destIP,
					SiteIndex: candidate.SiteIndex,
				})
				a.log.WithFields(log.Fields{
					"Module":    "hostanalysis",
					"Host":      host,
					"DestIP":    destIP,
					"SiteIndex": candidate.SiteIndex,
				}).Info("Failed to geolocate anycast site")
				continue
			}

			report.SuccessfulSites = append(report.SuccessfulSites, LocatedSite{
				CandidateSite: candidate,
				Location:      res.Location,
				ReplicaIndex:  res.ReplicaIndex,
				Tier:          res.Tier,
				NumCandidates: res.NumCandidates,
			})
			unique.Insert(fmt.Sprintf("%v,%v", res.Location.Lat, res.Location.Lon))

			if len(candidate.Subnets) > 0 {
				key := res.Location.Key()
				report.LocatedSitesSubnets[key] = append(report.LocatedSitesSubnets[key], candidate.Subnets...)
			}
			for _, vp := range site.Members {
				reached[vp] = res.Location
			}
		}
	}
	report.NumUniqueLocations = len(unique)

	for _, idx := range purified.Indices() {
		if analysis, ok := a.vpAnalysis(idx, purified[idx], reached, replicas); ok {
			report.PerVPAnalysis[idx] = analysis
		}
	}

	a.log.WithFields(log.Fields{
		"Module":    "hostanalysis",
		"Host":      host,
		"Located":   len(report.SuccessfulSites),
		"Failed":    len(report.FailedCandidates),
		"Locations": report.NumUniqueLocations,
	}).Info("Analyzed host")
	return report
}

//candidate describes a site for the report
func (a *Analyzer) candidate(destIP string, siteIndex int, site *anycast.Site, logs trace.Logs) CandidateSite {
	candidate := CandidateSite{
		DestIP:    destIP,
		SiteIndex: siteIndex,
		VPIndices: append([]int(nil), site.Members...),
		Subnets:   append([]string(nil), site.Subnets(a.clusterer.CanonicalLength)...),
	}

	for _, idx := range site.Members {
		detail := VPDetail{VPIndex: idx}
		if vp, ok := a.vps.Get(idx); ok {
			detail.SourceIP = vp.IPAddr
			detail.URL = vp.URL
		}
		candidate.VPDetails = append(candidate.VPDetails, detail)

		if probe, ok := logs[idx]; ok {
			if hop, ok := probe.Hop(destIP); ok {
				candidate.VPRTTs = append(candidate.VPRTTs, VPRTT{VPIndex: idx, RTTMs: hop.RTTMs})
			}
		}
	}
	return candidate
}

//vpAnalysis ranks the replicas nearest a located vantage point
func (a *Analyzer) vpAnalysis(idx int, probe *trace.Log, reached map[int]geo.Point, replicas []geo.Point) (*VPAnalysis, bool) {
	loc, ok := a.vps.Location(idx)
	if !ok {
		return nil, false
	}

	analysis := &VPAnalysis{
		VPIndex: idx,
		DestIP:  probe.DestIP,
	}
	if site, ok := reached[idx]; ok {
		analysis.ReachedSite = &site
	}
	if hop, ok := probe.DestHop(); ok {
		analysis.RTTToDest = hop.RTTMs
	}

	continent := geo.Continent(loc.CountryCode)
	analysis.Closest = ClosestReplica{
		Overall: nearby(geo.ClosestN(loc, replicas, closestReplicas, nil)),
		Country: nearby(geo.ClosestN(loc, replicas, closestReplicas, func(p geo.Point) bool {
			return loc.CountryCode != "" && strings.EqualFold(p.CountryCode, loc.CountryCode)
		})),
		Continent: nearby(geo.ClosestN(loc, replicas, closestReplicas, func(p geo.Point) bool {
			return continent != geo.UnknownContinent && geo.Continent(p.CountryCode) == continent
		})),
	}
	return analysis, true
}

func nearby(ranked []geo.Ranked) []NearbyReplica {
	out := make([]NearbyReplica, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, NearbyReplica{ReplicaIndex: r.Index, Location: r.Site, Distance: r.Distance})
	}
	return out
}

func sortedKeys(m map[string][]CandidateSite) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
