// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/danieljohnbyns/designclo/scene"
)

func TestDefault(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if c.Texture.Width != 1024 || c.Texture.Height != 1024 {
		t.Errorf("texture = %+v, want 1024x1024", c.Texture)
	}
	if c.History.Limit != 50 {
		t.Errorf("history.limit = %d, want 50", c.History.Limit)
	}
	if c.Export.Settle != 500*time.Millisecond {
		t.Errorf("export.settle = %v, want 500ms", c.Export.Settle)
	}
	if len(c.Fonts.Candidates) != 16 {
		t.Errorf("len(fonts.candidates) = %d, want 16", len(c.Fonts.Candidates))
	}
	if c.Camera.Home.Vec3() != scene.Home.Position {
		t.Errorf("camera.home = %v, want %v", c.Camera.Home, scene.Home.Position)
	}
	views := c.Views()
	if len(views) != 4 || views[1] != scene.Back {
		t.Errorf("Views() = %v", views)
	}
	if l, err := c.LogLevel(); err != nil || l != slog.LevelWarn {
		t.Errorf("LogLevel() = %v, %v, want WARN", l, err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	c, err := Parse([]byte(`
texture:
  width: 512
history:
  limit: 10
export:
  settle: 250ms
  views:
    - label: Front
      position: [0, 2, 8]
log:
  level: debug
assetgen:
  base_url: http://localhost:8080
  timeout: 5s
`))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if c.Texture.Width != 512 || c.Texture.Height != 1024 {
		t.Errorf("texture = %+v, want 512x1024", c.Texture)
	}
	if c.History.Limit != 10 {
		t.Errorf("history.limit = %d, want 10", c.History.Limit)
	}
	if c.Export.Settle != 250*time.Millisecond {
		t.Errorf("export.settle = %v, want 250ms", c.Export.Settle)
	}
	if views := c.Views(); len(views) != 1 || views[0].Position != (scene.Vec3{Y: 2, Z: 8}) {
		t.Errorf("Views() = %v", views)
	}
	if l, _ := c.LogLevel(); l != slog.LevelDebug {
		t.Errorf("LogLevel() = %v, want DEBUG", l)
	}
	if c.AssetGen.BaseURL != "http://localhost:8080" || c.AssetGen.Timeout != 5*time.Second {
		t.Errorf("assetgen = %+v", c.AssetGen)
	}
	if c.Fonts.Aliases["Arial"] == "" {
		t.Error("default aliases lost")
	}
}

func TestParseInvalid(t *testing.T) {
	for _, tt := range []struct {
		name string
		yaml string
	}{
		{"texture", "texture: {width: 0}"},
		{"history", "history: {limit: 0}"},
		{"views", "export: {views: []}"},
		{"duplicate view", "export: {views: [{label: A}, {label: A}]}"},
		{"unlabeled view", "export: {views: [{position: [1, 2, 3]}]}"},
		{"level", "log: {level: loud}"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); !errors.Is(err, ErrInvalid) {
				t.Errorf("Parse() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("texture: [1, 2"))
	if err == nil || errors.Is(err, ErrInvalid) {
		t.Errorf("Parse(malformed) = %v, want a YAML error", err)
	}
}

func TestValidateReportsAll(t *testing.T) {
	c := Default()
	c.Texture.Width = 0
	c.History.Limit = 0
	err := c.Validate()
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) != 2 {
		t.Errorf("Validate() = %v, want two errors", err)
	}
}

func TestLoadExpandsHome(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	path := filepath.Join(t.TempDir(), "designclo.yaml")
	if err := os.WriteFile(path, []byte("assets:\n  dir: ~/designclo/assets\nfonts:\n  dirs: [~/fonts]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if want := filepath.Join(home, "designclo", "assets"); c.Assets.Dir != want {
		t.Errorf("assets.dir = %q, want %q", c.Assets.Dir, want)
	}
	if want := filepath.Join(home, "fonts"); c.Fonts.Dirs[0] != want {
		t.Errorf("fonts.dirs[0] = %q, want %q", c.Fonts.Dirs[0], want)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) = %v, want ErrNotExist", err)
	}
}
