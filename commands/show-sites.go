package commands

import (
	"encoding/csv"
	"os"

	"github.com/activecm/lgprobe/pkg/hostanalysis"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:      "show-sites",
		Usage:     "Print the located anycast sites of a host report",
		ArgsUsage: "<report file>",
		Flags: []cli.Flag{
			humanFlag,
			delimFlag,
		},
		Action: func(c *cli.Context) error {
			path := c.Args().Get(0)
			if path == "" {
				return cli.NewExitError("Specify a report file", -1)
			}

			report, err := hostanalysis.LoadReport(path)
			if err != nil {
				return cli.NewExitError(err.Error(), -1)
			}
			if report.Skipped {
				return cli.NewExitError("Host "+report.Host+" was skipped: "+report.SkipReason, -1)
			}
			if len(report.SuccessfulSites) == 0 {
				return cli.NewExitError("No located sites were found for "+report.Host, -1)
			}

			if c.Bool("human-readable") {
				err = showSitesHuman(report)
			} else {
				err = showSitesCsv(report, c.String("delimiter"))
			}
			if err != nil {
				return cli.NewExitError(err.Error(), -1)
			}
			return nil
		},
	}

	bootstrapCommands(command)
}

var siteHeaders = []string{"Destination IP", "Site", "City", "Country", "Latitude",
	"Longitude", "Tier", "Candidates", "Vantage Points", "Subnets"}

func siteRows(report *hostanalysis.Report) [][]string {
	var rows [][]string
	for _, site := range report.SuccessfulSites {
		subnets := ""
		for n, subnet := range site.Subnets {
			if n > 0 {
				subnets += " "
			}
			subnets += subnet
		}
		rows = append(rows, []string{
			site.DestIP, i(int64(site.SiteIndex)), site.Location.City, site.Location.CountryCode,
			f(site.Location.Lat), f(site.Location.Lon), string(site.Tier),
			i(int64(site.NumCandidates)), ints(site.VPIndices), subnets,
		})
	}
	return rows
}

func showSitesHuman(report *hostanalysis.Report) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(siteHeaders)
	table.AppendBulk(siteRows(report))
	table.SetFooter([]string{"", "", "", "", "", "", "", "", "Unique Locations", i(int64(report.NumUniqueLocations))})
	table.Render()
	return nil
}

func showSitesCsv(report *hostanalysis.Report, delim string) error {
	csvWriter := csv.NewWriter(os.Stdout)
	if delim != "" {
		csvWriter.Comma = []rune(delim)[0]
	}
	if err := csvWriter.Write(siteHeaders); err != nil {
		return err
	}
	if err := csvWriter.WriteAll(siteRows(report)); err != nil {
		return err
	}
	return csvWriter.Error()
}
