package commands

import (
	"fmt"

	"github.com/activecm/lgprobe/config"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:  "version",
		Usage: "Show lgprobe version",
		Action: func(c *cli.Context) error {
			fmt.Println(config.Version)
			if config.ExactVersion != config.Version {
				fmt.Println(config.ExactVersion)
			}
			return nil
		},
	}

	bootstrapCommands(command)
}
