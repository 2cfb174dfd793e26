package anycast

import (
	"net/netip"

	"go4.org/netipx"
)

//Site is one candidate anycast instance of a destination IP: the vantage
//points whose edge hops share subnets at one prefix length
type Site struct {
	Members         []int            `json:"memberVpIndices"`
	SubnetsByPrefix map[int][]string `json:"subnetsByPrefix"`
	edges           *netipx.IPSet
}

func newSite(prefixLength int, members []int, subnets []string) *Site {
	site := &Site{
		Members:         members,
		SubnetsByPrefix: map[int][]string{prefixLength: subnets},
	}
	site.index()
	return site
}

//index builds the membership set over every declared subnet
func (s *Site) index() {
	var builder netipx.IPSetBuilder
	for _, subnets := range s.SubnetsByPrefix {
		for _, subnet := range subnets {
			if prefix, err := netip.ParsePrefix(subnet); err == nil {
				builder.AddPrefix(prefix)
			}
		}
	}
	// builder errors only arise from invalid prefixes, which were skipped
	s.edges, _ = builder.IPSet()
}

//Subnets returns the site's subnets at prefixLength
func (s *Site) Subnets(prefixLength int) []string {
	return s.SubnetsByPrefix[prefixLength]
}

//ContainsIP reports whether ip falls inside one of the site's edge subnets
func (s *Site) ContainsIP(ip string) bool {
	if s.edges == nil {
		s.index()
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	return s.edges.Contains(addr.Unmap())
}

//HasMember reports whether the vantage point at index belongs to the site
func (s *Site) HasMember(index int) bool {
	for _, member := range s.Members {
		if member == index {
			return true
		}
	}
	return false
}
