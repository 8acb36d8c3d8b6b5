package tileworld

import (
	"fmt"
	"image/color"
	"io/ioutil"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

const (
	// TileSize is the only tile width & height (in px) the world supports.
	TileSize = 32

	// MinMapSize is the smallest map width & height (in tiles) we accept.
	MinMapSize = 25
)

// Config includes settings for importing, materializing & interacting with
// a tile world.
type Config struct {
	Debug bool `yaml:"debug"`

	// in tiles, at least MinMapSize
	MinMapWidth  int `yaml:"min_map_width"`
	MinMapHeight int `yaml:"min_map_height"`

	// in pixels, always TileSize
	TileWidth  int `yaml:"tile_width"`
	TileHeight int `yaml:"tile_height"`

	// how tileset images are handed to the renderer
	TextureMode TextureMode `yaml:"texture_mode"`

	Placement PlacementConfig `yaml:"placement"`
	Inventory InventoryConfig `yaml:"inventory"`
}

// PlacementConfig holds drag & drop feedback settings.
type PlacementConfig struct {
	ValidColor   Color `yaml:"valid_color"`
	InvalidColor Color `yaml:"invalid_color"`

	// how long the drag visual takes to snap back after an invalid drop
	TweenMillis int `yaml:"tween_ms"`
}

// TweenDuration returns the snap back duration.
func (p PlacementConfig) TweenDuration() time.Duration {
	return time.Duration(p.TweenMillis) * time.Millisecond
}

// InventoryConfig is the starting inventory of a new game, keyed by
// resource / item name. An inventory set in a config file replaces the
// default one rather than adding to it.
type InventoryConfig struct {
	Resources map[string]uint32 `yaml:"resources"`
	Items     map[string]uint32 `yaml:"items"`
}

// Color is an 8 bit per channel non-premultiplied colour.
type Color struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
	A uint8 `yaml:"a"`
}

// NRGBA returns the colour for use with image/color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// DefaultConfig returns a config with default settings.
func DefaultConfig() *Config {
	return &Config{
		MinMapWidth:  MinMapSize,
		MinMapHeight: MinMapSize,
		TileWidth:    TileSize,
		TileHeight:   TileSize,
		TextureMode:  TextureSingle,
		Placement: PlacementConfig{
			ValidColor:   Color{R: 0, G: 255, B: 0, A: 128},
			InvalidColor: Color{R: 255, G: 0, B: 0, A: 128},
			TweenMillis:  500,
		},
		Inventory: InventoryConfig{
			Resources: map[string]uint32{"Iron": 100},
			Items:     map[string]uint32{"Harvester": 1},
		},
	}
}

// LoadConfig reads a yaml config file. Anything not set in the file keeps
// its default.
func LoadConfig(fname string) (*Config, error) {
	path, err := homedir.Expand(fname)
	if err != nil {
		return nil, err
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	// yaml merges maps into the defaults, so drop them if the file has its own
	var inv struct {
		Inventory *InventoryConfig `yaml:"inventory"`
	}
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if inv.Inventory != nil {
		cfg.Inventory = InventoryConfig{}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks the config values are usable.
func (c *Config) Validate() error {
	if c.MinMapWidth < MinMapSize || c.MinMapHeight < MinMapSize {
		return fmt.Errorf("config: minimum map size must be at least %dx%d, got %dx%d", MinMapSize, MinMapSize, c.MinMapWidth, c.MinMapHeight)
	}
	if c.TileWidth != TileSize || c.TileHeight != TileSize {
		return fmt.Errorf("config: tile size must be %dx%d, got %dx%d", TileSize, TileSize, c.TileWidth, c.TileHeight)
	}
	switch c.TextureMode {
	case TextureSingle, TextureCollection:
	default:
		return fmt.Errorf("config: unknown texture mode %q", c.TextureMode)
	}
	if c.Placement.TweenMillis < 0 {
		return fmt.Errorf("config: tween_ms must not be negative")
	}
	for name := range c.Inventory.Resources {
		if _, err := ParseResourceType(name); err != nil {
			return fmt.Errorf("config: inventory: %w", err)
		}
	}
	return nil
}
