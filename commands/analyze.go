package commands

import (
	"fmt"

	"github.com/activecm/lgprobe/pkg/hostanalysis"
	"github.com/activecm/lgprobe/pkg/trace"
	"github.com/activecm/lgprobe/resources"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:      "analyze",
		Usage:     "Locate the anycast sites of every host in a trace set",
		ArgsUsage: "<trace set file>",
		Flags: []cli.Flag{
			configFlag,
			threadFlag,
			rawFlag,
			outputFlag,
		},
		Action: analyze,
	}

	bootstrapCommands(command)
}

func analyze(c *cli.Context) error {
	input := c.Args().Get(0)
	if input == "" {
		return cli.NewExitError("Specify a trace set file", -1)
	}

	res := resources.InitResources(c.String("config"))
	regs, err := loadRegistries(res)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	var set trace.Set
	if c.Bool("raw") {
		raw, err := trace.LoadRawProbes(input)
		if err != nil {
			return cli.NewExitError(err.Error(), -1)
		}
		var failures int
		set, failures = parseProbes(res, raw, regs.vps)
		fmt.Printf("\t[-] Parsed %d hosts, %d probes failed to parse\n", len(set), failures)
	} else {
		set, err = trace.LoadTraceSet(input)
		if err != nil {
			return cli.NewExitError(err.Error(), -1)
		}
	}

	analyzer, err := hostanalysis.NewAnalyzer(res, regs.vps, regs.catalog)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	threads := c.Int("threads")
	if threads == 0 {
		threads = res.Config.S.Output.Threads
	}

	runner := hostanalysis.NewRunner(analyzer, reportRepository(c, res), threads, res.Log)
	runner.Progress = true

	fmt.Printf("\t[+] Starting run %s\n", analyzer.RunID())
	summary, err := runner.Run(set)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	fmt.Printf("\t[+] Analyzed %d hosts (%d skipped): %d sites located, %d failed\n",
		summary.Hosts, summary.Skipped, summary.Located, summary.Failed)
	if summary.SaveErrors > 0 {
		return cli.NewExitError(fmt.Sprintf("%d reports could not be saved", summary.SaveErrors), -1)
	}
	return nil
}

// reportRepository picks MongoDB or the output directory for reports
func reportRepository(c *cli.Context, res *resources.Resources) hostanalysis.Repository {
	if res.Config.S.Output.ToMongoDB && c.String("output") == "" {
		return hostanalysis.NewMongoRepository(res.DB, res.Config, res.Log)
	}

	dir := c.String("output")
	if dir == "" {
		dir = res.Config.S.Output.Directory
	}
	return hostanalysis.NewFileRepository(dir)
}
