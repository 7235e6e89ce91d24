package main

import (
	"os"

	"github.com/fumin/arith"
	"github.com/fumin/arith/internal/cmdutil"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:      "compress",
		Usage:     "compress a file with arithmetic coding",
		ArgsUsage: "filename",
		Flags:     cmdutil.Flags,
		Before: func(c *cli.Context) error {
			cmdutil.SetupLogging(c)
			return nil
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Msgf("%+v", err)
	}
}

func run(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return cli.ShowAppHelp(c)
	}
	cfg, err := cmdutil.Config(c)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := arith.CompressFile(os.Stdout, name, cfg); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
