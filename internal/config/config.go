package config

import (
	"image/color"
	"os"

	"github.com/LdDl/colorblob-go/colorblob"
	"github.com/LdDl/colorblob-go/tracker"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type HSV struct {
	H float64 `yaml:"h"`
	S float64 `yaml:"s"`
	V float64 `yaml:"v"`
}

type ColorRadius struct {
	H float64 `yaml:"h"`
	S float64 `yaml:"s"`
	V float64 `yaml:"v"`
}

type DrawConfig struct {
	Enabled   bool     `yaml:"enabled"`
	MinRadius float64  `yaml:"min_radius"`
	Thickness int      `yaml:"thickness"`
	Color     [3]uint8 `yaml:"color"`
}

type HistoryConfig struct {
	Capacity    int     `yaml:"capacity"`
	MatchRadius float64 `yaml:"match_radius"`
}

type DetectorConfig struct {
	Target               HSV           `yaml:"target"`
	ColorRadius          ColorRadius   `yaml:"color_radius"`
	MinContourArea       float64       `yaml:"min_contour_area"`
	ClampSaturationValue bool          `yaml:"clamp_saturation_value"`
	ColorOrder           string        `yaml:"color_order"`
	Draw                 DrawConfig    `yaml:"draw"`
	History              HistoryConfig `yaml:"history"`
}

type TrackerConfig struct {
	Enabled          bool    `yaml:"enabled"`
	Algorithm        string  `yaml:"algorithm"`
	MinDistThreshold float64 `yaml:"min_dist_threshold"`
	MaxNoMatch       int     `yaml:"max_no_match"`
	DT               float64 `yaml:"dt"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type Config struct {
	Detector DetectorConfig `yaml:"detector"`
	Tracker  TrackerConfig  `yaml:"tracker"`
	Log      LogConfig      `yaml:"log"`
}

// Default returns configuration matching library defaults.
// Target color and min area follow the values the mobile host used at startup.
func Default() *Config {
	return &Config{
		Detector: DetectorConfig{
			Target: HSV{H: 80, S: 100, V: 100},
			ColorRadius: ColorRadius{
				H: colorblob.DefaultColorRadius.H,
				S: colorblob.DefaultColorRadius.S,
				V: colorblob.DefaultColorRadius.V,
			},
			MinContourArea: 0.4,
			ColorOrder:     "bgr",
			Draw: DrawConfig{
				Enabled:   false,
				MinRadius: colorblob.DefaultMinDrawRadius,
				Thickness: colorblob.DefaultDrawThickness,
				Color:     [3]uint8{colorblob.DefaultDrawColor.R, colorblob.DefaultDrawColor.G, colorblob.DefaultDrawColor.B},
			},
			History: HistoryConfig{
				Capacity:    colorblob.DefaultHistoryCapacity,
				MatchRadius: colorblob.DefaultMatchRadius,
			},
		},
		Tracker: TrackerConfig{
			Enabled:          false,
			Algorithm:        "greedy",
			MinDistThreshold: 30.0,
			MaxNoMatch:       75,
			DT:               1.0,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads YAML file on top of defaults. Empty path returns defaults
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't read config file '%s'", path)
	}
	return Parse(data, cfg)
}

// Parse unmarshals YAML data into cfg and validates result
func Parse(data []byte, cfg *Config) (*Config, error) {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "Can't parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that the detector and tracker can't work with
func (cfg *Config) Validate() error {
	d := cfg.Detector
	if d.ColorRadius.H < 0 || d.ColorRadius.S < 0 || d.ColorRadius.V < 0 {
		return errors.Wrapf(colorblob.ErrNegativeRadius, "detector.color_radius %+v", d.ColorRadius)
	}
	if d.MinContourArea < 0 || d.MinContourArea > 1 {
		return errors.Errorf("detector.min_contour_area must be in [0, 1], got %v", d.MinContourArea)
	}
	if _, err := parseColorOrder(d.ColorOrder); err != nil {
		return err
	}
	if d.History.Capacity <= 0 {
		return errors.Errorf("detector.history.capacity must be positive, got %d", d.History.Capacity)
	}
	if d.History.MatchRadius < 0 {
		return errors.Errorf("detector.history.match_radius must not be negative, got %v", d.History.MatchRadius)
	}
	if d.Draw.Thickness <= 0 {
		return errors.Errorf("detector.draw.thickness must be positive, got %d", d.Draw.Thickness)
	}
	if _, err := tracker.ParseMatchingAlgorithm(cfg.Tracker.Algorithm); err != nil {
		return errors.Wrap(err, "tracker.algorithm")
	}
	if cfg.Tracker.DT <= 0 {
		return errors.Errorf("tracker.dt must be positive, got %v", cfg.Tracker.DT)
	}
	if cfg.Tracker.MaxNoMatch < 0 {
		return errors.Errorf("tracker.max_no_match must not be negative, got %d", cfg.Tracker.MaxNoMatch)
	}
	if _, err := zap.ParseAtomicLevel(cfg.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	return nil
}

func parseColorOrder(s string) (colorblob.ColorOrder, error) {
	switch s {
	case "rgb", "rgba":
		return colorblob.ColorOrderRGB, nil
	case "", "bgr", "bgra":
		return colorblob.ColorOrderBGR, nil
	default:
		return colorblob.ColorOrderRGB, errors.Errorf("unknown detector.color_order '%s'", s)
	}
}

// DetectorOptions converts detector section to colorblob options
func (cfg *Config) DetectorOptions(logger *zap.Logger) []colorblob.Option {
	d := cfg.Detector
	order, _ := parseColorOrder(d.ColorOrder)
	return []colorblob.Option{
		colorblob.WithLogger(logger),
		colorblob.WithColorRadius(colorblob.ColorRadius{H: d.ColorRadius.H, S: d.ColorRadius.S, V: d.ColorRadius.V}),
		colorblob.WithSaturationValueClamp(d.ClampSaturationValue),
		colorblob.WithTarget(colorblob.HSV{H: d.Target.H, S: d.Target.S, V: d.Target.V}),
		colorblob.WithMinContourArea(d.MinContourArea),
		colorblob.WithColorOrder(order),
		colorblob.WithDrawing(d.Draw.Enabled),
		colorblob.WithDrawStyle(
			color.RGBA{R: d.Draw.Color[0], G: d.Draw.Color[1], B: d.Draw.Color[2], A: 255},
			d.Draw.MinRadius,
			d.Draw.Thickness,
		),
		colorblob.WithHistory(d.History.Capacity, d.History.MatchRadius),
	}
}

// NewTracker builds tracker from tracker section. Returns nil when tracking is disabled
func (cfg *Config) NewTracker(logger *zap.Logger) *tracker.Tracker {
	if !cfg.Tracker.Enabled {
		return nil
	}
	algorithm, _ := tracker.ParseMatchingAlgorithm(cfg.Tracker.Algorithm)
	tr := tracker.NewTracker(cfg.Tracker.MinDistThreshold, cfg.Tracker.MaxNoMatch, cfg.Tracker.DT, algorithm)
	tr.SetLogger(logger)
	return tr
}

// NewLogger builds zap logger from log section
func (cfg *Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log.level")
	}
	zcfg := zap.NewProductionConfig()
	if cfg.Log.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = level
	logger, err := zcfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "Can't build logger")
	}
	return logger, nil
}
