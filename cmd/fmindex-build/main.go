package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

// main is the entry point for the command line app. It's separated from the
// actual *cli.App to help with testing.
func main() {
	run(os.Args)
}

// run is separated from main and application for debugging's sake.
func run(args []string) {
	app := application()
	if err := app.Run(args); err != nil {
		log.Fatal(err)
	}
}

// application defines the command line app: reading text off stdin, building
// an FMIndex, serializing it to stdout, and a companion -query mode for
// exercising a previously built index file without re-running a Go program.
func application() *cli.App {
	app := &cli.App{
		Name:  "fmindex-build",
		Usage: "Build a compressed full-text index from stdin and write it to stdout.",

		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:  "rate",
				Value: 0,
				Usage: "Sampled suffix array rate in (0, 1]. Defaults to the package's default rate.",
			},
			&cli.StringFlag{
				Name:  "query",
				Usage: "Run a one-shot query (contains:P, counts:P, or locate:P) against the index file named by -index instead of building a new one.",
			},
			&cli.StringFlag{
				Name:  "index",
				Usage: "Path to a previously built index file, required when -query is set.",
			},
		},

		Action: func(c *cli.Context) error {
			if c.String("query") != "" {
				return queryCommand(c)
			}
			return buildCommand(c)
		},
	}

	return app
}
