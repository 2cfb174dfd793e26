package hostanalysis

import (
	"github.com/activecm/lgprobe/pkg/geo"
	"github.com/activecm/lgprobe/pkg/hostname"
	"github.com/activecm/lgprobe/pkg/locate"
)

type (
	//Report is the outcome of analyzing one target host
	Report struct {
		RunID               string                     `json:"runId"`
		Host                string                     `json:"host"`
		Provider            string                     `json:"provider,omitempty"`
		Skipped             bool                       `json:"skipped,omitempty"`
		SkipReason          string                     `json:"skipReason,omitempty"`
		NumLogs             int                        `json:"numLogs"`
		NumPurified         int                        `json:"numPurified"`
		AnycastCandidates   map[string][]CandidateSite `json:"anycastCandidates"`
		SuccessfulSites     []LocatedSite              `json:"successfulSites"`
		NumUniqueLocations  int                        `json:"numUniqueLocations"`
		LocatedSitesSubnets map[string][]string        `json:"locatedSitesSubnets"`
		FailedCandidates    []FailedCandidate          `json:"failedCandidates"`
		PerVPAnalysis       map[int]*VPAnalysis        `json:"perVpAnalysis"`
		Hostnames           []hostname.Entry           `json:"hostnames"`
		DstRedirection      []hostname.RedirectEntry   `json:"dstRedirection"`
	}

	//CandidateSite is one site of an anycast destination at the canonical
	//prefix length
	CandidateSite struct {
		DestIP    string     `json:"destIp" bson:"dest_ip"`
		SiteIndex int        `json:"siteIndex" bson:"site_index"`
		VPIndices []int      `json:"vpIndices" bson:"vp_indices"`
		Subnets   []string   `json:"subnets" bson:"subnets"`
		VPDetails []VPDetail `json:"vpDetails" bson:"vp_details"`
		VPRTTs    []VPRTT    `json:"vpRtts" bson:"vp_rtts"`
	}

	//VPDetail identifies a member vantage point
	VPDetail struct {
		VPIndex  int    `json:"vpIndex" bson:"vp_index"`
		SourceIP string `json:"srcIp" bson:"src_ip"`
		URL      string `json:"url" bson:"url"`
	}

	//VPRTT is a member's RTT to the destination
	VPRTT struct {
		VPIndex int     `json:"vpIndex" bson:"vp_index"`
		RTTMs   float64 `json:"rttMs" bson:"rtt_ms"`
	}

	//LocatedSite is a candidate site the geolocator placed
	LocatedSite struct {
		CandidateSite `bson:",inline"`
		Location      geo.Point   `json:"location" bson:"location"`
		ReplicaIndex  int         `json:"replicaIndex" bson:"replica_index"`
		Tier          locate.Tier `json:"tier" bson:"tier"`
		NumCandidates int         `json:"numCandidates" bson:"num_candidates"`
	}

	//FailedCandidate is a candidate site no rule could place
	FailedCandidate struct {
		DestIP    string `json:"destIp" bson:"dest_ip"`
		SiteIndex int    `json:"siteIndex" bson:"site_index"`
	}

	//VPAnalysis summarizes one located vantage point's view of the host
	VPAnalysis struct {
		VPIndex     int            `json:"vpIndex" bson:"vp_index"`
		DestIP      string         `json:"destIp" bson:"dest_ip"`
		ReachedSite *geo.Point     `json:"reachedSite" bson:"reached_site"`
		RTTToDest   float64        `json:"rttToDest" bson:"rtt_to_dest"`
		Closest     ClosestReplica `json:"top3ClosestReplicas" bson:"top3_closest_replicas"`
	}

	//ClosestReplica holds the nearest replicas to a vantage point overall,
	//in its country and in its continent
	ClosestReplica struct {
		Overall   []NearbyReplica `json:"overall" bson:"overall"`
		Country   []NearbyReplica `json:"country" bson:"country"`
		Continent []NearbyReplica `json:"continent" bson:"continent"`
	}

	//NearbyReplica is a replica site and its distance in km
	NearbyReplica struct {
		ReplicaIndex int       `json:"replicaIndex" bson:"replica_index"`
		Location     geo.Point `json:"location" bson:"location"`
		Distance     float64   `json:"distance" bson:"distance"`
	}
)

func newReport(runID string, host string) *Report {
	return &Report{
		RunID:               runID,
		Host:                host,
		AnycastCandidates:   make(map[string][]CandidateSite),
		LocatedSitesSubnets: make(map[string][]string),
		PerVPAnalysis:       make(map[int]*VPAnalysis),
	}
}

//Candidates flattens the anycast candidates in destination order
func (r *Report) Candidates() []CandidateSite {
	var out []CandidateSite
	for _, dest := range sortedKeys(r.AnycastCandidates) {
		out = append(out, r.AnycastCandidates[dest]...)
	}
	return out
}
