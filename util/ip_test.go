package util

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type ipBoolTestCase struct {
	ip  string
	out bool
	msg string
}

func TestIsBogon(t *testing.T) {

	testCases := []ipBoolTestCase{
		{"10.1.2.3", true, "RFC1918 Class A"},
		{"172.16.1.2", true, "RFC1918 Class B"},
		{"192.168.1.2", true, "RFC1918 Class C"},
		{"100.64.3.4", true, "carrier grade NAT"},
		{"127.0.0.5", true, "IPv4 loopback"},
		{"169.254.1.2", true, "IPv4 link local"},
		{"224.0.0.1", true, "IPv4 multicast"},
		{"203.0.113.9", true, "documentation range"},
		{"8.8.8.8", false, "google dns ipv4"},
		{"1.1.1.1", false, "cloudflare dns ipv4"},
		{"not-an-ip", false, "garbage is not a bogon"},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.out, IsBogon(testCase.ip), testCase.msg)
	}
}

func TestIsIP(t *testing.T) {

	testCases := []ipBoolTestCase{
		{"1.1.1.1", true, "plain IPv4"},
		{"2001:4860:4860::8888", true, "plain IPv6"},
		{"a.b.c.d", false, "letters"},
		{"1.2.3", false, "three octets"},
		{"256.1.1.1", false, "octet out of range"},
		{"01.2.3.4", false, "leading zero"},
		{"fe80::1%eth0", false, "zoned address"},
		{"", false, "empty"},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.out, IsIP(testCase.ip), testCase.msg)
	}
}

// Ensures ParseSubnets returns expected net.IPNets and returns
// error when invalid IP address/CIDR network is provided.
func TestParseSubnets(t *testing.T) {
	validNets := []string{"192.168.0.0/24", "2001:db8::/32", "192.168.0.1", "2001:db8::1"}
	out, err := ParseSubnets(validNets)
	assert.Nil(t, err)
	assert.Equal(t, createIPNets([]string{"192.168.0.0/24", "2001:db8::/32", "192.168.0.1/32", "2001:db8::1/128"}), out)

	_, err = ParseSubnets([]string{"invalidIP", "300.0.0.0/24"})
	assert.NotNil(t, err, "invalid subnets should error")
}

func TestContainsIP(t *testing.T) {
	nets := createIPNets([]string{"1.2.0.0/16"})
	assert.True(t, ContainsIP(nets, net.ParseIP("1.2.3.4")))
	assert.False(t, ContainsIP(nets, net.ParseIP("1.3.3.4")))
}

func createIPNets(nets []string) []*net.IPNet {
	var out []*net.IPNet
	for _, n := range nets {
		_, block, _ := net.ParseCIDR(n)
		out = append(out, block)
	}
	return out
}
