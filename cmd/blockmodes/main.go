package main

import (
	"fmt"
	stdlog "log"
	"os"

	"github.com/urfave/cli/v2"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "blockmodes",
		Usage:   "encrypt and decrypt files with ECB, CBC or CTR over AES-128",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Commands: []*cli.Command{
			encryptCommand(),
			decryptCommand(),
			logsCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		stdlog.Fatal(err)
	}
}
