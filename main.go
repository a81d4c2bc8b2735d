package main

import (
	"os"

	"github.com/coreos/pkg/capnslog"
	"github.com/urfave/cli/v2"
)

var plog = capnslog.NewPackageLogger("github.com/morph-lang/morph", "morph")

func setupLogging(debug bool) {
	capnslog.SetFormatter(capnslog.NewPrettyFormatter(os.Stderr, false))
	if debug {
		capnslog.SetGlobalLogLevel(capnslog.DEBUG)
	} else {
		capnslog.SetGlobalLogLevel(capnslog.WARNING)
	}
}

func main() {
	verboseFlag := &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "log compiler passes to stderr",
	}

	app := &cli.App{
		Name:  "morph",
		Usage: "the Morph language toolchain",
		Flags: []cli.Flag{verboseFlag},
		Before: func(c *cli.Context) error {
			verbose = c.Bool("verbose")
			setupLogging(verbose)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "run a file in draft mode",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					verboseFlag,
					&cli.BoolFlag{
						Name:  "check",
						Usage: "type check before running",
					},
				},
				Action: runCommand,
			},
			{
				Name:      "check",
				Usage:     "type check a file",
				ArgsUsage: "<file>",
				Action:    checkCommand,
			},
			{
				Name:      "tokenize",
				Usage:     "print the tokens of a file",
				ArgsUsage: "<file>",
				Action:    tokenizeCommand,
			},
			{
				Name:      "parse",
				Usage:     "print the syntax tree of a file",
				ArgsUsage: "<file>",
				Action:    parseCommand,
			},
			{
				Name:      "harden",
				Usage:     "emit LLVM declarations for the solid functions of a file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "write the IR to this file instead of stdout",
					},
				},
				Action: hardenCommand,
			},
			{
				Name:      "status",
				Usage:     "show how far each declaration of a file has been hardened",
				ArgsUsage: "<file>",
				Action:    statusCommand,
			},
			{
				Name:      "init",
				Usage:     "create a project manifest in the current directory",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "toml",
						Usage: "write morph.toml instead of morph.yaml",
					},
				},
				Action: initCommand,
			},
			{
				Name:   "build",
				Usage:  "parse and check every source of the current project",
				Action: buildCommand,
			},
			{
				Name:  "repl",
				Usage: "start an interactive draft shell",
				Action: func(c *cli.Context) error {
					return replCommand()
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		report(err)
		os.Exit(1)
	}
}
