package util

import (
	"fmt"
	"net"
	"net/netip"
	"os"
)

var bogonBlocks []*net.IPNet

func init() {
	bogons, err := ParseSubnets(
		[]string{
			"0.0.0.0/8",
			"10.0.0.0/8",     // RFC1918
			"100.64.0.0/10",  // RFC6598 shared address space
			"127.0.0.0/8",    // IPv4 loopback
			"169.254.0.0/16", // RFC3927 link-local
			"172.16.0.0/12",  // RFC1918
			"192.0.0.0/24",
			"192.0.2.0/24", // TEST-NET-1
			"192.168.0.0/16",
			"198.18.0.0/15",
			"198.51.100.0/24", // TEST-NET-2
			"203.0.113.0/24",  // TEST-NET-3
			"224.0.0.0/4",     // multicast
			"240.0.0.0/4",
			"255.255.255.255/32",
		})

	if err == nil {
		bogonBlocks = bogons
	} else {
		panic(fmt.Sprintf("Error defining bogon networks: %v", err.Error()))
	}
}

// ParseSubnets parses the provided subnets into net.IPNet format
func ParseSubnets(subnets []string) ([]*net.IPNet, error) {
	var parsedSubnets []*net.IPNet

	for _, entry := range subnets {
		// Try to parse out CIDR range
		_, block, err := net.ParseCIDR(entry)

		// If there was an error, check if entry was an IP
		if err != nil {
			ipAddr := net.ParseIP(entry)
			if ipAddr == nil {
				fmt.Fprintf(os.Stdout, "Error parsing entry: %s\n", err.Error())
				return parsedSubnets, err
			}

			// Check if it's an IPv4 or IPv6 address and append the appropriate subnet mask
			var subnetMask string
			if ipAddr.To4() != nil {
				subnetMask = "/32"
			} else {
				subnetMask = "/128"
			}

			// Append the subnet mask and parse as a CIDR range
			_, block, err = net.ParseCIDR(entry + subnetMask)

			if err != nil {
				fmt.Fprintf(os.Stdout, "Error parsing CIDR entry: %s\n", err.Error())
				return parsedSubnets, err
			}
		}

		// Add CIDR range to the list
		parsedSubnets = append(parsedSubnets, block)
	}
	return parsedSubnets, nil
}

//IsBogon checks if an address falls in a reserved, private or otherwise
//unroutable IPv4 block. Unparseable input is not a bogon.
func IsBogon(address string) bool {
	ip := net.ParseIP(address)
	if ip == nil {
		return false
	}
	return ContainsIP(bogonBlocks, ip)
}

//ContainsIP checks if a collection of subnets contains an IP
func ContainsIP(subnets []*net.IPNet, ip net.IP) bool {
	// cache IPv4 conversion so it not performed every in every Contains call
	if ipv4 := ip.To4(); ipv4 != nil {
		ip = ipv4
	}

	for _, block := range subnets {
		if block.Contains(ip) {
			return true
		}
	}
	return false
}

// IsIP returns true if string is a valid IP address. Leading zeros, zones
// and surrounding whitespace are all rejected.
func IsIP(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	return addr.Zone() == ""
}
