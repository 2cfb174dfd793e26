package trace

import (
	"io/ioutil"

	"github.com/activecm/lgprobe/util"
	log "github.com/sirupsen/logrus"
)

//DefaultMaxHopIndex is the deepest hop a sane path may reach
const DefaultMaxHopIndex = 64

//Purifier drops logs that cannot be trusted for aggregate analysis
type Purifier struct {
	MaxHopIndex int
	log         *log.Logger
}

//NewPurifier creates a Purifier. A non-positive maxHopIndex selects
//DefaultMaxHopIndex and a nil logger discards exclusion notes.
func NewPurifier(maxHopIndex int, logger *log.Logger) *Purifier {
	if maxHopIndex <= 0 {
		maxHopIndex = DefaultMaxHopIndex
	}
	if logger == nil {
		logger = log.New()
		logger.Out = ioutil.Discard
	}
	return &Purifier{MaxHopIndex: maxHopIndex, log: logger}
}

//Purify returns the subset of logs that reached their destination, stay
//within the hop limit and carry only valid addresses. Surviving logs are
//shared with the input, not copied.
func (p *Purifier) Purify(logs Logs) Logs {
	purified := make(Logs, len(logs))
	for _, idx := range logs.Indices() {
		trace := logs[idx]
		if reason := p.exclusion(trace); reason != "" {
			p.log.WithFields(log.Fields{
				"Module":       "trace",
				"VantagePoint": idx,
				"Reason":       reason,
			}).Debug("Excluding traceroute from analysis")
			continue
		}
		purified[idx] = trace
	}
	return purified
}

func (p *Purifier) exclusion(trace *Log) string {
	if trace == nil {
		return "missing log"
	}
	if !trace.Successful {
		return "destination not reached"
	}
	if trace.MaxHopIndex() > p.MaxHopIndex {
		return "hop limit exceeded"
	}
	for ip := range trace.Hops {
		if !util.IsIP(ip) {
			return "invalid hop address"
		}
	}
	return ""
}
