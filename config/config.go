// Package config loads flint application settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/phanxgames/flint"
)

// Backends accepted in [render] backend.
const (
	BackendEbiten   = "ebiten"
	BackendTerminal = "terminal"
	BackendSoftware = "software"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the root of a flint TOML file.
type Config struct {
	Window WindowConfig `toml:"window"`
	Render RenderConfig `toml:"render"`
	Script ScriptConfig `toml:"script"`
	Font   FontConfig   `toml:"font"`
}

type WindowConfig struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Title      string `toml:"title"`
	Fullscreen bool   `toml:"fullscreen"`
}

type RenderConfig struct {
	Backend string `toml:"backend"`
	Debug   bool   `toml:"debug"`
	// MergeSlack is the area in square pixels two damaged rectangles may
	// waste before they stop being merged.
	MergeSlack float64 `toml:"merge_slack"`
	Outset     float64 `toml:"outset"`
	// ClearColor is "#rrggbb" or "#rrggbbaa".
	ClearColor string `toml:"clear_color"`
}

type ScriptConfig struct {
	Path string `toml:"path"`
}

type FontConfig struct {
	Family string  `toml:"family"`
	Size   float64 `toml:"size"`
}

// Default returns the settings used when no file is given. Load starts from
// these, so a file only needs the keys it changes.
func Default() Config {
	return Config{
		Window: WindowConfig{Width: 800, Height: 600, Title: "flint"},
		Render: RenderConfig{
			Backend:    BackendEbiten,
			MergeSlack: flint.DefaultMergeSlack,
			Outset:     flint.DefaultOutset,
			ClearColor: "#ffffff",
		},
		Font: FontConfig{Family: flint.DefaultFontFamily, Size: flint.DefaultFontSize},
	}
}

// Load reads path over Default and validates the result. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := finish(cfg, md, path); err != nil {
		return Config{}, err
	}
	flint.Logger().Debug("config loaded", "path", path, "backend", cfg.Render.Backend)
	return cfg, nil
}

// Parse decodes TOML text over Default and validates the result.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := finish(cfg, md, "input"); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func finish(cfg Config, md toml.MetaData, source string) error {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: unknown keys %s in %s", ErrInvalid, strings.Join(keys, ", "), source)
	}
	return cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	switch c.Render.Backend {
	case BackendEbiten, BackendTerminal, BackendSoftware:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Render.Backend)
	}
	if c.Render.MergeSlack < 0 || c.Render.Outset < 0 {
		return fmt.Errorf("%w: merge_slack and outset must not be negative", ErrInvalid)
	}
	if _, err := c.Render.Clear(); err != nil {
		return err
	}
	if c.Font.Size <= 0 {
		return fmt.Errorf("%w: font size %v", ErrInvalid, c.Font.Size)
	}
	return nil
}

// Clear parses ClearColor. An empty value is white.
func (r RenderConfig) Clear() (flint.Color, error) {
	if r.ClearColor == "" {
		return flint.ColorWhite, nil
	}
	c, err := flint.ParseHexColor(r.ClearColor)
	if err != nil {
		return flint.Color{}, fmt.Errorf("%w: clear_color: %w", ErrInvalid, err)
	}
	return c, nil
}

// RendererOptions converts the render and font sections into renderer
// options.
func (c Config) RendererOptions() ([]flint.Option, error) {
	bg, err := c.Render.Clear()
	if err != nil {
		return nil, err
	}
	return []flint.Option{
		flint.WithRegionOptions(flint.RegionOptions{MergeSlack: c.Render.MergeSlack, Outset: c.Render.Outset}),
		flint.WithDefaultFont(c.Font.Family, c.Font.Size),
		flint.WithClearColor(bg),
	}, nil
}
