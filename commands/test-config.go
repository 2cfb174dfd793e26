package commands

import (
	"fmt"
	"os"

	"github.com/activecm/lgprobe/config"
	"github.com/activecm/lgprobe/resources"

	"github.com/urfave/cli"
	yaml "gopkg.in/yaml.v2"
)

func init() {
	command := cli.Command{
		Flags: []cli.Flag{
			configFlag,
		},
		Name:   "test-config",
		Usage:  "Check the configuration file for validity",
		Action: testConfiguration,
	}

	bootstrapCommands(command)
}

// testConfiguration prints out the result of parsing the config file
func testConfiguration(c *cli.Context) error {
	// First, print out the config as it was parsed
	conf, err := config.GetConfig(c.String("config"))
	if err != nil {
		fmt.Fprintf(os.Stdout, "Failed to config: %s\n", err.Error())
		os.Exit(-1)
	}

	staticConfig, err := yaml.Marshal(conf.S)
	if err != nil {
		return err
	}

	tableConfig, err := yaml.Marshal(conf.T)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\n%s\n", string(staticConfig))
	fmt.Fprintf(os.Stdout, "\n%s\n", string(tableConfig))

	// Then test initializing external resources like db connection and geolocation data
	res := resources.InitResources(c.String("config"))
	if _, err := loadRegistries(res); err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	fmt.Fprintf(os.Stdout, "Host to CDN mappings: %d\n", len(conf.R.Registry.CustomerToCDN))
	return nil
}
