package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvdist/blas3"
	"github.com/katalvlaran/lvdist/grid"
	"github.com/katalvlaran/lvdist/matrix"
)

var (
	// ErrUnknownEncoding is returned by Load for file extensions other than
	// .toml, .yaml and .yml.
	ErrUnknownEncoding = errors.New("config: unknown file encoding")

	// ErrInvalid is returned by Validate; the wrapped message names the
	// offending field.
	ErrInvalid = errors.New("config: invalid value")
)

// Config is one driver run.
type Config struct {
	// Procs is the number of ranks.
	Procs int `toml:"procs" yaml:"procs"`

	// GridHeight is the number of grid rows. Zero picks the factor of Procs
	// closest to its square root.
	GridHeight int `toml:"grid_height" yaml:"grid_height"`

	// M and N give X ~ M×N and L ~ N×N.
	M int `toml:"m" yaml:"m"`
	N int `toml:"n" yaml:"n"`

	// Blocksize is the algorithmic blocksize.
	Blocksize int `toml:"nb" yaml:"nb"`

	// RoutingRatio is the L/X height ratio above which the panel-broadcast
	// variant is used.
	RoutingRatio int `toml:"routing_ratio" yaml:"routing_ratio"`

	// Variant is "auto", "panel-broadcast" or "blocked-diagonal".
	Variant string `toml:"variant" yaml:"variant"`

	// Orientation is "transpose" or "adjoint".
	Orientation string `toml:"orientation" yaml:"orientation"`

	Unit      bool    `toml:"unit" yaml:"unit"`
	Complex   bool    `toml:"complex" yaml:"complex"`
	Alpha     float64 `toml:"alpha" yaml:"alpha"`
	AlphaImag float64 `toml:"alpha_imag" yaml:"alpha_imag"`
	Seed      uint64  `toml:"seed" yaml:"seed"`
	Print     bool    `toml:"print" yaml:"print"`

	// LogLevel is a slog level name: debug, info, warn or error.
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// Default returns the configuration of a small run on four ranks.
func Default() Config {
	return Config{
		Procs:        4,
		M:            100,
		N:            100,
		Blocksize:    96,
		RoutingRatio: blas3.DefaultRoutingRatio,
		Variant:      blas3.VariantAuto.String(),
		Orientation:  "transpose",
		Alpha:        3,
		Seed:         1,
		LogLevel:     "warn",
	}
}

// Load reads the file at path over Default. The encoding follows the
// extension; unknown keys are rejected. The result is validated.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&cfg); errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return Config{}, fmt.Errorf("config.Load %q: %w", path, ErrUnknownEncoding)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config.Load %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("config: %s: %w", fmt.Sprintf(format, args...), ErrInvalid)
}

// Validate checks every field.
func (c Config) Validate() error {
	switch {
	case c.Procs < 1:
		return invalidf("procs %d < 1", c.Procs)
	case c.GridHeight < 0:
		return invalidf("grid_height %d < 0", c.GridHeight)
	case c.GridHeight > 0 && c.Procs%c.GridHeight != 0:
		return invalidf("grid_height %d does not divide procs %d", c.GridHeight, c.Procs)
	case c.M < 0 || c.N < 0:
		return invalidf("m %d, n %d must be non-negative", c.M, c.N)
	case c.Blocksize < 1:
		return invalidf("nb %d < 1", c.Blocksize)
	case c.RoutingRatio < 0:
		return invalidf("routing_ratio %d < 0", c.RoutingRatio)
	case !c.Complex && c.AlphaImag != 0:
		return invalidf("alpha_imag %g on real data", c.AlphaImag)
	}
	if _, err := blas3.ParseVariant(c.Variant); err != nil {
		return invalidf("variant: %v", err)
	}
	if _, err := c.ParsedOrientation(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Grid returns the grid shape, resolving GridHeight 0.
func (c Config) Grid() (height, width int) {
	r := c.GridHeight
	if r == 0 {
		r = grid.FindFactor(c.Procs)
	}
	return r, c.Procs / r
}

// ParsedOrientation maps Orientation to matrix.Transpose or matrix.Adjoint.
func (c Config) ParsedOrientation() (matrix.Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(c.Orientation)) {
	case "t", "transpose":
		return matrix.Transpose, nil
	case "c", "adjoint":
		return matrix.Adjoint, nil
	}
	return matrix.Normal, invalidf("orientation %q", c.Orientation)
}

// ParsedVariant returns the Trmm variant.
func (c Config) ParsedVariant() blas3.Variant {
	v, _ := blas3.ParseVariant(c.Variant)
	return v
}

// Diag returns matrix.Unit when Unit is set.
func (c Config) Diag() matrix.Diag {
	if c.Unit {
		return matrix.Unit
	}
	return matrix.NonUnit
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn, invalidf("log_level %q", c.LogLevel)
	}
	return l, nil
}

// LevelFromFlags returns the level selected by the -vv, -v and -q flags, in
// that order of precedence, and ok=false when none is set.
func LevelFromFlags(vv, v, q bool) (level slog.Level, ok bool) {
	switch {
	case vv:
		return slog.LevelDebug, true
	case v:
		return slog.LevelInfo, true
	case q:
		return slog.LevelError, true
	default:
		return slog.LevelWarn, false
	}
}
