package commands

import (
	"fmt"

	"github.com/activecm/lgprobe/pkg/trace"
	"github.com/activecm/lgprobe/pkg/vantage"
	"github.com/activecm/lgprobe/resources"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:      "parse",
		Usage:     "Parse collected probe text into a trace set",
		ArgsUsage: "<raw probes file> <trace set file>",
		Flags: []cli.Flag{
			configFlag,
		},
		Action: func(c *cli.Context) error {
			input := c.Args().Get(0)
			output := c.Args().Get(1)
			if input == "" || output == "" {
				return cli.NewExitError("Specify the raw probes file and the trace set file", -1)
			}

			res := resources.InitResources(c.String("config"))

			raw, err := trace.LoadRawProbes(input)
			if err != nil {
				return cli.NewExitError(err.Error(), -1)
			}

			// source addresses are optional when parsing
			var vps *vantage.Registry
			if path := res.Config.S.Registry.VantagePoints; path != "" {
				vps, err = vantage.Load(path)
				if err != nil {
					return cli.NewExitError(err.Error(), -1)
				}
			}

			set, failures := parseProbes(res, raw, vps)
			if err := trace.SaveTraceSet(output, set); err != nil {
				return cli.NewExitError(err.Error(), -1)
			}

			parsed := 0
			for _, logs := range set {
				parsed += len(logs)
			}
			fmt.Printf("\t[+] Parsed %d probes for %d hosts, %d failed\n", parsed, len(set), failures)
			return nil
		},
	}

	bootstrapCommands(command)
}

// parseProbes parses every host's probes, attaching vantage point addresses
// when a registry is available
func parseProbes(res *resources.Resources, raw trace.RawProbes, vps *vantage.Registry) (trace.Set, int) {
	parser := trace.NewParser(res.Config.S.Parser.AbortOnInvalidIP, res.Log)

	var sources trace.SourceLookup
	if vps != nil {
		sources = vps
	}

	set := make(trace.Set, len(raw))
	failures := 0
	for host, probes := range raw {
		logs, failed := parser.ParseAll(host, probes, sources)
		set[host] = logs
		failures += failed

		res.Log.WithFields(log.Fields{
			"Module": "parse",
			"Host":   host,
			"Parsed": len(logs),
			"Failed": failed,
		}).Info("Parsed host probes")
	}
	return set, failures
}
