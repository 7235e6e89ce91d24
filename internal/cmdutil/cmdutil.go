// Package cmdutil holds the command line flags shared by the compress and decompress commands.
package cmdutil

import (
	"encoding/json"

	"github.com/fumin/arith"
	"github.com/fumin/arith/internal/logutil"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

var (
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "TOML configuration file",
	}
	ModeFlag = &cli.StringFlag{
		Name:    "mode",
		Aliases: []string{"m"},
		Usage:   "probability model (static|adaptive|ppm)",
	}
	OrderFlag = &cli.IntFlag{
		Name:  "order",
		Usage: "PPM model order, memory grows exponentially with it",
	}
	StateBitsFlag = &cli.IntFlag{
		Name:  "state-bits",
		Usage: "width of the arithmetic coder state",
	}
	CheckedFlag = &cli.BoolFlag{
		Name:  "checked",
		Usage: "verify frequency tables while coding",
	}
	LogLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Value: "info",
		Usage: "log level (debug|info|warn|error)",
	}
	LogJSONFlag = &cli.BoolFlag{
		Name:  "log-json",
		Usage: "log as JSON",
	}
)

// Flags are the flags of the compress and decompress commands.
var Flags = []cli.Flag{
	ConfigFlag,
	ModeFlag,
	OrderFlag,
	StateBitsFlag,
	CheckedFlag,
	LogLevelFlag,
	LogJSONFlag,
}

// SetupLogging configures the global logger from the logging flags.
func SetupLogging(c *cli.Context) {
	logutil.Setup(c.String(LogLevelFlag.Name), c.Bool(LogJSONFlag.Name))
	arith.SetLogger(log.Logger)
}

// Config returns the defaults, overridden by the configuration file, overridden by the flags.
func Config(c *cli.Context) (arith.Config, error) {
	cfg := arith.DefaultConfig()
	if path := c.String(ConfigFlag.Name); path != "" {
		var err error
		if cfg, err = arith.LoadConfig(path); err != nil {
			return arith.Config{}, errors.Wrap(err, "")
		}
	}
	if c.IsSet(ModeFlag.Name) {
		mode, err := arith.ParseMode(c.String(ModeFlag.Name))
		if err != nil {
			return arith.Config{}, errors.Wrap(err, "")
		}
		cfg.Mode = mode
	}
	if c.IsSet(OrderFlag.Name) {
		cfg.Order = c.Int(OrderFlag.Name)
	}
	if c.IsSet(StateBitsFlag.Name) {
		cfg.StateBits = c.Int(StateBitsFlag.Name)
	}
	if c.IsSet(CheckedFlag.Name) {
		cfg.Checked = c.Bool(CheckedFlag.Name)
	}
	if err := cfg.Validate(); err != nil {
		return arith.Config{}, errors.Wrap(err, "")
	}

	cfgB, err := json.Marshal(cfg)
	if err != nil {
		return arith.Config{}, errors.Wrap(err, "")
	}
	log.Debug().RawJSON("config", cfgB).Msg("configuration")
	return cfg, nil
}
