package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/activecm/lgprobe/commands"
	"github.com/activecm/lgprobe/config"
	"github.com/urfave/cli"
)

// Entry point of lgprobe
func main() {
	app := cli.NewApp()
	app.Name = "lgprobe"
	app.Usage = "Locate anycast CDN sites from looking glass traceroutes."

	// Change the version string with updates so that a quick help command will
	// let the testers know what version they're on
	app.Version = config.Version

	// Define commands used with this application
	app.Commands = commands.Commands()

	runtime.GOMAXPROCS(runtime.NumCPU())
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
