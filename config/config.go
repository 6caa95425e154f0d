// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

// Package config loads the YAML configuration shared by the designclo
// binaries. Library packages never read it directly; the binaries turn
// it into functional options.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/danieljohnbyns/designclo/export"
	"github.com/danieljohnbyns/designclo/fonts"
	"github.com/danieljohnbyns/designclo/history"
	"github.com/danieljohnbyns/designclo/scene"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the top-level configuration.
type Config struct {
	Texture  TextureConfig  `yaml:"texture"`
	History  HistoryConfig  `yaml:"history"`
	Fonts    FontsConfig    `yaml:"fonts"`
	Assets   AssetsConfig   `yaml:"assets"`
	Export   ExportConfig   `yaml:"export"`
	Camera   CameraConfig   `yaml:"camera"`
	AssetGen AssetGenConfig `yaml:"assetgen"`
	Log      LogConfig      `yaml:"log"`
}

// TextureConfig sizes the garment texture.
type TextureConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// HistoryConfig bounds the undo log.
type HistoryConfig struct {
	Limit int `yaml:"limit"`
}

// FontsConfig controls font discovery.
type FontsConfig struct {
	Dirs       []string          `yaml:"dirs"`
	Candidates []string          `yaml:"candidates"`
	Aliases    map[string]string `yaml:"aliases"`
}

// AssetsConfig lists images offered in the asset panel.
type AssetsConfig struct {
	Dir     string   `yaml:"dir"`
	Watch   bool     `yaml:"watch"`
	Sources []string `yaml:"sources"`
}

// ExportConfig controls view capture.
type ExportConfig struct {
	Settle time.Duration `yaml:"settle"`
	Views  []ViewConfig  `yaml:"views"`
	OutDir string        `yaml:"out_dir"`
}

// ViewConfig is a named camera position.
type ViewConfig struct {
	Label    string `yaml:"label"`
	Position Vec    `yaml:"position"`
}

// CameraConfig holds the resting camera position.
type CameraConfig struct {
	Home Vec `yaml:"home"`
}

// AssetGenConfig points at the asset generation service. An empty
// BaseURL disables it.
type AssetGenConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig sets the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Vec is an [x, y, z] triple.
type Vec [3]float64

// Vec3 converts v.
func (v Vec) Vec3() scene.Vec3 { return scene.Vec3{X: v[0], Y: v[1], Z: v[2]} }

func vec(p scene.Vec3) Vec { return Vec{p.X, p.Y, p.Z} }

// Default returns the built-in configuration.
func Default() *Config {
	views := make([]ViewConfig, 0, 4)
	for _, v := range scene.DefaultViews() {
		views = append(views, ViewConfig{Label: v.Label, Position: vec(v.Position)})
	}
	return &Config{
		Texture: TextureConfig{Width: 1024, Height: 1024},
		History: HistoryConfig{Limit: history.DefaultLimit},
		Fonts: FontsConfig{
			Candidates: append([]string(nil), fonts.Candidates...),
			Aliases: map[string]string{
				"Arial":       fonts.Go,
				"Monospace":   fonts.GoMono,
				"Courier New": fonts.GoMono,
			},
		},
		Export: ExportConfig{Settle: export.DefaultSettle, Views: views, OutDir: "."},
		Camera: CameraConfig{Home: vec(scene.Home.Position)},
		AssetGen: AssetGenConfig{
			Timeout: 60 * time.Second,
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Load reads the file at path over the defaults. A leading ~ is
// expanded.
func Load(path string) (*Config, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults, expands home-relative paths and
// validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.expand(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) expand() error {
	for i, d := range c.Fonts.Dirs {
		p, err := homedir.Expand(d)
		if err != nil {
			return fmt.Errorf("config: fonts.dirs: %w", err)
		}
		c.Fonts.Dirs[i] = p
	}
	for _, s := range []*string{&c.Assets.Dir, &c.Export.OutDir} {
		p, err := homedir.Expand(*s)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		*s = p
	}
	return nil
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error
	bad := func(msg string) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, msg))
	}
	if c.Texture.Width <= 0 || c.Texture.Height <= 0 {
		bad(fmt.Sprintf("texture size %dx%d", c.Texture.Width, c.Texture.Height))
	}
	if c.History.Limit < 1 {
		bad(fmt.Sprintf("history.limit %d", c.History.Limit))
	}
	if c.Export.Settle < 0 {
		bad(fmt.Sprintf("export.settle %v", c.Export.Settle))
	}
	if len(c.Export.Views) == 0 {
		bad("export.views is empty")
	}
	seen := make(map[string]bool, len(c.Export.Views))
	for _, v := range c.Export.Views {
		if v.Label == "" {
			bad("export view without label")
		}
		if seen[v.Label] {
			bad(fmt.Sprintf("duplicate export view %q", v.Label))
		}
		seen[v.Label] = true
	}
	if c.AssetGen.Timeout < 0 {
		bad(fmt.Sprintf("assetgen.timeout %v", c.AssetGen.Timeout))
	}
	if _, err := c.LogLevel(); err != nil {
		bad(fmt.Sprintf("log.level %q", c.Log.Level))
	}
	return errors.Join(errs...)
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level)))
	return l, err
}

// Views converts the configured export views.
func (c *Config) Views() []scene.View {
	out := make([]scene.View, 0, len(c.Export.Views))
	for _, v := range c.Export.Views {
		out = append(out, scene.View{Label: v.Label, Position: v.Position.Vec3()})
	}
	return out
}
