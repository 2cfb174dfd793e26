package trace

import "sort"

type (
	//HopObservation is one IP sighted at one hop of a traceroute
	HopObservation struct {
		IP       string  `json:"ip"`
		HopIndex int     `json:"hopIndex"`
		RTTMs    float64 `json:"rttMs"`
		Hostname string  `json:"hostname,omitempty"`
	}

	//Log is the parsed form of one (vantage point, target host) probe. Hops
	//are keyed by IP, each IP appearing once.
	Log struct {
		TargetHost string                     `json:"targetHost"`
		SourceIP   string                     `json:"sourceIp,omitempty"`
		DestIP     string                     `json:"destIp,omitempty"`
		Successful bool                       `json:"successful"`
		Hops       map[string]*HopObservation `json:"hops"`
	}

	//Logs holds one host's parsed probes keyed by vantage point index
	Logs map[int]*Log

	//Set holds parsed probes for many hosts: host -> vantage point -> Log
	Set map[string]Logs

	//RawProbes holds collected probe text: host -> vantage point -> response
	RawProbes map[string]map[int]string
)

//NewLog returns an empty Log for targetHost
func NewLog(targetHost string) *Log {
	return &Log{
		TargetHost: targetHost,
		Hops:       make(map[string]*HopObservation),
	}
}

//observe records a sighting. Repeated IPs keep their first hop index and the
//smallest RTT seen.
func (l *Log) observe(ip string, hopIndex int, rttMs float64, hostname string) {
	if hostname == ip {
		hostname = ""
	}
	if existing, ok := l.Hops[ip]; ok {
		if rttMs < existing.RTTMs {
			existing.RTTMs = rttMs
		}
		return
	}
	l.Hops[ip] = &HopObservation{
		IP:       ip,
		HopIndex: hopIndex,
		RTTMs:    rttMs,
		Hostname: hostname,
	}
}

//IsEmpty is true when no hop was recorded
func (l *Log) IsEmpty() bool {
	return len(l.Hops) == 0
}

//Hop returns the observation for ip
func (l *Log) Hop(ip string) (*HopObservation, bool) {
	hop, ok := l.Hops[ip]
	return hop, ok
}

//DestHop returns the observation of the destination IP
func (l *Log) DestHop() (*HopObservation, bool) {
	if l.DestIP == "" {
		return nil, false
	}
	return l.Hop(l.DestIP)
}

//MaxHopIndex returns the largest hop index recorded, 0 for an empty Log
func (l *Log) MaxHopIndex() int {
	max := 0
	for _, hop := range l.Hops {
		if hop.HopIndex > max {
			max = hop.HopIndex
		}
	}
	return max
}

//HopsDescending returns the observations ordered from the destination back
//toward the vantage point. Ties on hop index are ordered by IP.
func (l *Log) HopsDescending() []*HopObservation {
	hops := make([]*HopObservation, 0, len(l.Hops))
	for _, hop := range l.Hops {
		hops = append(hops, hop)
	}
	sort.Slice(hops, func(i, j int) bool {
		if hops[i].HopIndex != hops[j].HopIndex {
			return hops[i].HopIndex > hops[j].HopIndex
		}
		return hops[i].IP < hops[j].IP
	})
	return hops
}

//Indices returns the vantage point indices in ascending order
func (l Logs) Indices() []int {
	indices := make([]int, 0, len(l))
	for idx := range l {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

//Hosts returns the target hosts in ascending order
func (s Set) Hosts() []string {
	hosts := make([]string, 0, len(s))
	for host := range s {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	return hosts
}
