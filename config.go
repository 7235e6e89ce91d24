package arith

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fumin/arith/ac"
	"github.com/pkg/errors"
)

var (
	// ErrMode is returned for an unknown compression mode.
	ErrMode = errors.New("unknown mode")

	// ErrConfig is returned by Config.Validate.
	ErrConfig = errors.New("invalid configuration")
)

// A Mode selects the probability model used to compress a byte stream.
type Mode int

const (
	// PPM uses prediction by partial matching of order Config.Order.
	PPM Mode = iota
	// Adaptive starts from a flat table and counts every byte seen so far.
	Adaptive
	// Static stores the byte counts of the whole input in a header.
	Static
)

var modeNames = map[Mode]string{
	PPM:      "ppm",
	Adaptive: "adaptive",
	Static:   "static",
}

// ParseMode parses the name of a mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return 0, errors.Wrapf(ErrMode, "%q", s)
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m Mode) MarshalText() ([]byte, error) {
	name, ok := modeNames[m]
	if !ok {
		return nil, errors.Wrapf(ErrMode, "%d", int(m))
	}
	return []byte(name), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Config holds the parameters that the compressor and the decompressor must agree on.
type Config struct {
	Mode Mode `toml:"mode"`

	// Order is the PPM model order, at least -1.
	// Memory grows exponentially with it.
	Order int `toml:"order"`

	// StateBits is the width of the coder's range registers.
	StateBits int `toml:"state_bits"`

	// Checked verifies every frequency table as it is used. It does not change the output.
	Checked bool `toml:"checked"`
}

// DefaultConfig returns PPM of order 3 with 32 bit state.
func DefaultConfig() Config {
	return Config{
		Mode:      PPM,
		Order:     3,
		StateBits: 32,
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(err, "")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Wrapf(ErrConfig, "unknown keys %v in %s", undecoded, path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, path)
	}
	return cfg, nil
}

// Validate checks that the configuration can code every byte and the end of stream marker.
func (cfg Config) Validate() error {
	if _, ok := modeNames[cfg.Mode]; !ok {
		return errors.Wrapf(ErrMode, "%d", int(cfg.Mode))
	}
	max, err := ac.MaximumTotal(cfg.StateBits)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if max < SymbolLimit {
		return errors.Wrapf(ErrConfig, "%d state bits allow a total of only %d", cfg.StateBits, max)
	}
	if cfg.Mode == PPM && cfg.Order < -1 {
		return errors.Wrapf(ErrConfig, "order %d", cfg.Order)
	}
	return nil
}
