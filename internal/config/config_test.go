package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LdDl/colorblob-go/colorblob"
	"github.com/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
	if cfg.Detector.History.Capacity != colorblob.DefaultHistoryCapacity {
		t.Errorf("Wrong history capacity: %d, expected: %d", cfg.Detector.History.Capacity, colorblob.DefaultHistoryCapacity)
	}
	if cfg.Detector.History.MatchRadius != colorblob.DefaultMatchRadius {
		t.Errorf("Wrong match radius: %v, expected: %v", cfg.Detector.History.MatchRadius, colorblob.DefaultMatchRadius)
	}
	if cfg.NewTracker(nil) != nil {
		t.Error("Tracker should be disabled by default")
	}
}

func TestLoad(t *testing.T) {
	data := []byte(`
detector:
  target: {h: 120, s: 150, v: 150}
  min_contour_area: 0.25
  color_order: rgb
  draw:
    enabled: true
    color: [255, 0, 0]
tracker:
  enabled: true
  algorithm: hungarian
log:
  level: debug
`)
	path := filepath.Join(t.TempDir(), "colorblob.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Error(err)
		return
	}
	cfg, err := Load(path)
	if err != nil {
		t.Error(err)
		return
	}
	if cfg.Detector.Target != (HSV{H: 120, S: 150, V: 150}) {
		t.Errorf("Wrong target: %v", cfg.Detector.Target)
	}
	if cfg.Detector.MinContourArea != 0.25 {
		t.Errorf("Wrong min contour area: %v, expected: %v", cfg.Detector.MinContourArea, 0.25)
	}
	if !cfg.Detector.Draw.Enabled || cfg.Detector.Draw.Color != [3]uint8{255, 0, 0} {
		t.Errorf("Wrong draw config: %+v", cfg.Detector.Draw)
	}
	// Fields absent from file keep defaults
	if cfg.Detector.ColorRadius != (ColorRadius{H: 25, S: 50, V: 50}) {
		t.Errorf("Wrong color radius: %v", cfg.Detector.ColorRadius)
	}
	if cfg.Tracker.MaxNoMatch != 75 {
		t.Errorf("Wrong max no match: %d, expected: %d", cfg.Tracker.MaxNoMatch, 75)
	}
	if cfg.NewTracker(nil) == nil {
		t.Error("Tracker should be enabled")
	}

	detector := colorblob.NewDetector(cfg.DetectorOptions(nil)...)
	defer detector.Close()
	correct := colorblob.ColorRange{
		Lower: colorblob.Bounds{H: 95, S: 100, V: 100},
		Upper: colorblob.Bounds{H: 145, S: 200, V: 200},
	}
	if detector.ColorRange() != correct {
		t.Errorf("Wrong color range: %v, correct: %v", detector.ColorRange(), correct)
	}
	if !detector.EnabledDraw() {
		t.Error("Drawing should be enabled")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("Loading missing file should fail")
	}
	cfg, err := Load("")
	if err != nil {
		t.Error(err)
		return
	}
	if cfg.Detector.MinContourArea != Default().Detector.MinContourArea {
		t.Error("Empty path should return defaults")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *Config)
	}{
		{"negative radius", func(cfg *Config) { cfg.Detector.ColorRadius.S = -1 }},
		{"min area above one", func(cfg *Config) { cfg.Detector.MinContourArea = 1.5 }},
		{"unknown color order", func(cfg *Config) { cfg.Detector.ColorOrder = "yuv" }},
		{"zero history", func(cfg *Config) { cfg.Detector.History.Capacity = 0 }},
		{"zero thickness", func(cfg *Config) { cfg.Detector.Draw.Thickness = 0 }},
		{"unknown algorithm", func(cfg *Config) { cfg.Tracker.Algorithm = "iou" }},
		{"zero dt", func(cfg *Config) { cfg.Tracker.DT = 0 }},
		{"unknown log level", func(cfg *Config) { cfg.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should fail")
			}
		})
	}

	cfg := Default()
	cfg.Detector.ColorRadius.H = -5
	if err := cfg.Validate(); errors.Cause(err) != colorblob.ErrNegativeRadius {
		t.Errorf("Wrong error cause: %v, expected: %v", errors.Cause(err), colorblob.ErrNegativeRadius)
	}
}
