package anycast

import (
	"net/netip"
	"sort"

	"github.com/activecm/lgprobe/pkg/data"
	"github.com/activecm/lgprobe/pkg/trace"
	"github.com/activecm/lgprobe/util"
	"github.com/pkg/errors"
)

//ErrUnknownPrefix flags a prefix length the clusterer cannot compute
var ErrUnknownPrefix = errors.New("unknown subnet prefix length")

type (
	//Clusterer groups vantage points reaching the same destination IP into
	//candidate sites by the subnets of their edge hops
	Clusterer struct {
		SubnetLengths   []int
		CanonicalLength int
	}

	//SitesByPrefix holds the sites of one destination IP per prefix length
	SitesByPrefix map[int][]*Site

	//Result holds the sites of every destination IP
	Result map[string]SitesByPrefix

	//edgeProfile is one vantage point's edge subnets per prefix length
	edgeProfile struct {
		vp      int
		subnets map[int]data.StringSet
	}
)

//NewClusterer validates the prefix lengths. The canonical length decides
//whether a destination is anycast and must be one of the lengths.
func NewClusterer(subnetLengths []int, canonicalLength int) (*Clusterer, error) {
	for _, length := range subnetLengths {
		if length < 0 || length > 128 {
			return nil, errors.Wrapf(ErrUnknownPrefix, "/%d", length)
		}
	}
	if !util.IntInSlice(canonicalLength, subnetLengths) {
		return nil, errors.Wrapf(ErrUnknownPrefix, "canonical /%d is not among %v", canonicalLength, subnetLengths)
	}
	lengths := make([]int, len(subnetLengths))
	copy(lengths, subnetLengths)
	return &Clusterer{SubnetLengths: lengths, CanonicalLength: canonicalLength}, nil
}

//Cluster groups the purified logs of one host by destination IP, then
//clusters each group independently at every prefix length
func (c *Clusterer) Cluster(logs trace.Logs) Result {
	groups := make(map[string][]edgeProfile)
	for _, idx := range logs.Indices() {
		log := logs[idx]
		if _, ok := log.DestHop(); !ok {
			continue
		}
		groups[log.DestIP] = append(groups[log.DestIP], c.profile(idx, log))
	}

	result := make(Result, len(groups))
	for dest, profiles := range groups {
		byPrefix := make(SitesByPrefix, len(c.SubnetLengths))
		for _, length := range c.SubnetLengths {
			byPrefix[length] = clusterAt(length, profiles)
		}
		result[dest] = byPrefix
	}
	return result
}

//IsAnycast reports whether more than one site exists at the canonical length
func (c *Clusterer) IsAnycast(sites SitesByPrefix) bool {
	return len(sites[c.CanonicalLength]) > 1
}

//AnycastDestinations returns the anycast destination IPs in ascending order
func (c *Clusterer) AnycastDestinations(result Result) []string {
	var dests []string
	for dest, sites := range result {
		if c.IsAnycast(sites) {
			dests = append(dests, dest)
		}
	}
	sort.Strings(dests)
	return dests
}

func (c *Clusterer) profile(vp int, log *trace.Log) edgeProfile {
	profile := edgeProfile{vp: vp, subnets: make(map[int]data.StringSet)}
	for _, hop := range EdgeHops(log) {
		if hop.IP == log.DestIP {
			continue
		}
		addr, err := netip.ParseAddr(hop.IP)
		if err != nil {
			continue
		}
		addr = addr.Unmap()
		for _, length := range c.SubnetLengths {
			if length > addr.BitLen() {
				continue
			}
			prefix, err := addr.Prefix(length)
			if err != nil {
				continue
			}
			if profile.subnets[length] == nil {
				profile.subnets[length] = make(data.StringSet)
			}
			profile.subnets[length].Insert(prefix.String())
		}
	}
	return profile
}

//EdgeHops returns the observations at the second highest hop index of log,
//the hop in front of the destination
func EdgeHops(log *trace.Log) []*trace.HopObservation {
	max := log.MaxHopIndex()
	edge := 0
	for _, hop := range log.Hops {
		if hop.HopIndex < max && hop.HopIndex > edge {
			edge = hop.HopIndex
		}
	}
	if edge == 0 {
		return nil
	}

	var hops []*trace.HopObservation
	for _, hop := range log.HopsDescending() {
		if hop.HopIndex == edge {
			hops = append(hops, hop)
		}
	}
	return hops
}

//clusterAt unions vantage points sharing any subnet at length. profiles are
//in ascending vantage point order, so site order and membership are stable.
func clusterAt(length int, profiles []edgeProfile) []*Site {
	set := newDisjointSet(len(profiles))
	owner := make(map[string]int)
	for pos, profile := range profiles {
		for _, subnet := range profile.subnets[length].SortedItems() {
			if first, ok := owner[subnet]; ok {
				set.union(first, pos)
				continue
			}
			owner[subnet] = pos
		}
	}

	var sites []*Site
	for _, group := range set.groups() {
		members := make([]int, 0, len(group))
		subnets := make(data.StringSet)
		for _, pos := range group {
			members = append(members, profiles[pos].vp)
			for subnet := range profiles[pos].subnets[length] {
				subnets.Insert(subnet)
			}
		}
		sites = append(sites, newSite(length, members, subnets.SortedItems()))
	}
	return sites
}
