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
		Name:  "decompress",
		Usage: "decompress stdin to stdout, with the same settings used to compress",
		Flags: cmdutil.Flags,
		Before: func(c *cli.Context) error {
			cmdutil.SetupLogging(c)
			return nil
		},
		Action: func(c *cli.Context) error {
			cfg, err := cmdutil.Config(c)
			if err != nil {
				return errors.Wrap(err, "")
			}
			return arith.Decompress(os.Stdout, os.Stdin, cfg)
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Msgf("%+v", err)
	}
}
