package geo

import (
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

//PTRLocator geolocates an IP by looking up its reverse DNS name and feeding
//the name to a hint matcher
type PTRLocator struct {
	server string
	client *dns.Client
	hints  HintLocator
}

//NewPTRLocator queries server (host:port, port 53 assumed when missing)
func NewPTRLocator(server string, timeout time.Duration, hints HintLocator) *PTRLocator {
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}
	return &PTRLocator{
		server: server,
		client: &dns.Client{Net: "udp", Timeout: timeout},
		hints:  hints,
	}
}

//LookupName returns the first PTR name for ip without the trailing dot
func (l *PTRLocator) LookupName(ip string) (string, bool) {
	arpa, err := dns.ReverseAddr(ip)
	if err != nil {
		return "", false
	}

	msg := new(dns.Msg)
	msg.SetQuestion(arpa, dns.TypePTR)
	msg.RecursionDesired = true

	resp, _, err := l.client.Exchange(msg, l.server)
	if err != nil || resp == nil || resp.Rcode != dns.RcodeSuccess {
		return "", false
	}
	for _, answer := range resp.Answer {
		if ptr, ok := answer.(*dns.PTR); ok {
			return strings.TrimSuffix(ptr.Ptr, "."), true
		}
	}
	return "", false
}

//LocateIP implements IPLocator
func (l *PTRLocator) LocateIP(ip string) (Point, bool) {
	if l.hints == nil {
		return Point{}, false
	}
	name, ok := l.LookupName(ip)
	if !ok {
		return Point{}, false
	}
	return l.hints.LocateHint(name)
}
