package trace

import (
	"io/ioutil"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/activecm/lgprobe/util"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	headerRegex = regexp.MustCompile(`(?i)trace.* to ([\w.\-]+) \(([\d.]+)\)`)
	hopRegex    = regexp.MustCompile(`^\s*(\d+)\s+(.*)`)
	bracketed   = regexp.MustCompile(`\s*\[.*?\]`)

	// alternatives are tried in order at each position:
	// host (ip) | rtt unit | bare ip | unreachable
	tokenRegex = regexp.MustCompile(
		`([\w.\-]+)\s+\(([\d.]+\.\d+)\)` +
			`|(\d+\.?\d*)\s*(ms|msec|s)` +
			`|([\d.]+\.\d+)` +
			`|(!N)`)
)

type tokenKind int

const (
	tokenHostIP tokenKind = iota
	tokenRTT
	tokenIP
	tokenUnreachable
)

type token struct {
	kind tokenKind
	host string
	ip   string
	rtt  float64
}

//SourceLookup supplies a vantage point's own address
type SourceLookup interface {
	SourceIP(index int) (string, bool)
}

//Parser converts looking glass traceroute output into Logs
type Parser struct {
	//AbortOnInvalidIP fails the whole response when an RTT-bearing token
	//carries an invalid address. When false only that sighting is dropped.
	AbortOnInvalidIP bool
	log              *log.Logger
}

//NewParser creates a Parser. A nil logger discards parser diagnostics.
func NewParser(abortOnInvalidIP bool, logger *log.Logger) *Parser {
	if logger == nil {
		logger = log.New()
		logger.Out = ioutil.Discard
	}
	return &Parser{AbortOnInvalidIP: abortOnInvalidIP, log: logger}
}

//destSource names how the destination IP of a Log was decided
type destSource string

const (
	destFromHeader  destSource = "header"
	destFromLastHop destSource = "last-hop"
	destUnknown     destSource = "unknown"
)

//parseState carries what a response has told us so far
type parseState struct {
	log       *Log
	hopIndex  int
	seenHop   bool
	headerIP  string
	lastValid string // most recent IP recorded with an RTT, cleared by !N
}

//lineState is the pending address a line's next RTT token will consume
type lineState struct {
	host string
	ip   string
}

func (l *lineState) reset() {
	l.host = ""
	l.ip = ""
}

//Parse converts one raw response into a Log. Failures are *ParseError.
func (p *Parser) Parse(raw string, sourceIP string, targetHost string) (*Log, error) {
	text := Clean(raw)
	state := &parseState{log: NewLog(targetHost)}

	if match := headerRegex.FindStringSubmatch(text); match != nil {
		state.headerIP = match[2]
	}

	for lineNum, line := range strings.Split(text, "\n") {
		if err := p.parseLine(state, lineNum+1, strings.TrimSpace(line)); err != nil {
			return nil, err
		}
	}

	if state.log.IsEmpty() {
		return nil, &ParseError{Err: ErrNoHops}
	}

	trace := state.log
	var source destSource
	trace.DestIP, source = state.destination()
	_, trace.Successful = trace.DestHop()
	trace.SourceIP = sourceIP

	p.log.WithFields(log.Fields{
		"Module":     "trace",
		"TargetHost": targetHost,
		"DestIP":     trace.DestIP,
		"DestSource": source,
		"Hops":       len(trace.Hops),
	}).Debug("Parsed traceroute response")

	return trace, nil
}

//destination applies the fallback order for the destination address
func (s *parseState) destination() (string, destSource) {
	switch {
	case s.headerIP != "":
		return s.headerIP, destFromHeader
	case s.lastValid != "":
		return s.lastValid, destFromLastHop
	default:
		return "", destUnknown
	}
}

func (p *Parser) parseLine(state *parseState, lineNum int, line string) error {
	if line == "" {
		return nil
	}

	var rest string
	if match := hopRegex.FindStringSubmatch(line); match != nil {
		state.hopIndex = hopIndex(match[1])
		state.seenHop = true
		rest = strings.TrimSpace(match[2])
	} else {
		// wrapped continuation of the previous hop
		if !state.seenHop {
			return nil
		}
		rest = line
	}

	rest = strings.Replace(rest, "*", "", -1)
	rest = bracketed.ReplaceAllString(rest, "")

	var pending lineState
	for _, tok := range tokenize(rest) {
		switch tok.kind {
		case tokenHostIP:
			pending.host = tok.host
			pending.ip = tok.ip
		case tokenIP:
			pending.host = ""
			pending.ip = tok.ip
		case tokenRTT:
			if pending.ip == "" {
				continue
			}
			if !util.IsIP(pending.ip) {
				if p.AbortOnInvalidIP {
					return &ParseError{
						Line:  lineNum,
						Token: pending.ip,
						Err:   errors.Wrapf(ErrInvalidIP, "hop %d", state.hopIndex),
					}
				}
				p.log.WithFields(log.Fields{
					"Module": "trace",
					"Line":   lineNum,
					"IP":     pending.ip,
				}).Debug("Dropping sighting with invalid IP")
				pending.reset()
				continue
			}
			state.log.observe(pending.ip, state.hopIndex, tok.rtt, pending.host)
			state.lastValid = pending.ip
			pending.reset()
		case tokenUnreachable:
			state.lastValid = ""
		}
	}
	return nil
}

//hopIndex reads a hop number. Numbers too large for an int are pinned to the
//int32 maximum so the purifier rejects the path.
func hopIndex(digits string) int {
	idx, err := strconv.Atoi(digits)
	if err != nil {
		return math.MaxInt32
	}
	return idx
}

func tokenize(text string) []token {
	var tokens []token
	for _, m := range tokenRegex.FindAllStringSubmatchIndex(text, -1) {
		group := func(n int) string {
			if m[2*n] < 0 {
				return ""
			}
			return text[m[2*n]:m[2*n+1]]
		}

		var tok token
		switch {
		case group(1) != "" && group(2) != "":
			tok.kind = tokenHostIP
			tok.host = group(1)
			tok.ip = group(2)
		case group(3) != "" && group(4) != "":
			rtt, err := strconv.ParseFloat(group(3), 64)
			if err != nil {
				continue
			}
			if group(4) == "s" {
				rtt *= 1000
			}
			tok.kind = tokenRTT
			tok.rtt = rtt
		case group(5) != "":
			tok.kind = tokenIP
			tok.ip = group(5)
		case group(6) != "":
			tok.kind = tokenUnreachable
		default:
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

//ParseAll parses every probe of one host. sources supplies each vantage
//point's address and may be nil. Responses that fail to parse are counted
//and left out of the result.
func (p *Parser) ParseAll(targetHost string, raw map[int]string, sources SourceLookup) (Logs, int) {
	logs := make(Logs, len(raw))
	failures := 0

	for _, idx := range sortedIndices(raw) {
		var sourceIP string
		if sources != nil {
			sourceIP, _ = sources.SourceIP(idx)
		}

		parsed, err := p.Parse(raw[idx], sourceIP, targetHost)
		if err != nil {
			failures++
			p.log.WithFields(log.Fields{
				"Module":       "trace",
				"TargetHost":   targetHost,
				"VantagePoint": idx,
			}).Debug(err)
			continue
		}
		logs[idx] = parsed
	}
	return logs, failures
}
