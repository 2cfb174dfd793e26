package commands

import (
	"github.com/urfave/cli"
)

var (
	allCommands []cli.Command

	configFlag = cli.StringFlag{
		Name:  "config, c",
		Usage: "Use a given `CONFIG_FILE` when running this command",
		Value: "",
	}

	threadFlag = cli.IntFlag{
		Name:  "threads, t",
		Usage: "Analyze hosts with `N` threads. 0 uses the configured or detected thread count",
		Value: 0,
	}

	humanFlag = cli.BoolFlag{
		Name:  "human-readable, H",
		Usage: "Print a human readable table instead of csv",
	}

	delimFlag = cli.StringFlag{
		Name:  "delimiter, d",
		Usage: "Separate csv fields with `DELIM`",
		Value: ",",
	}

	rawFlag = cli.BoolFlag{
		Name:  "raw, r",
		Usage: "Treat the input as collected probe text and parse it first",
	}

	outputFlag = cli.StringFlag{
		Name:  "output, o",
		Usage: "Write reports to `DIRECTORY` instead of the configured output directory",
		Value: "",
	}
)

// bootstrapCommands simply adds a given command to the allCommands array
func bootstrapCommands(commands ...cli.Command) {
	allCommands = append(allCommands, commands...)
}

// Commands provides all of the defined commands to the front end
func Commands() []cli.Command {
	return allCommands
}
