// Command designclo edits garment textures without a window.
//
// Usage:
//
//	designclo render   [-config file] -script session.yaml -out texture.png
//	designclo export   [-config file] -script session.yaml [-out-dir dir]
//	designclo fonts    [-config file]
//	designclo generate [-config file] -prompt text [-remove-bg] -out asset.png
//
// A session script is a YAML list of editing steps replayed against a
// fresh editor. See Script.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/danieljohnbyns/designclo"
	"github.com/danieljohnbyns/designclo/asset"
	"github.com/danieljohnbyns/designclo/assetgen"
	"github.com/danieljohnbyns/designclo/compositor"
	"github.com/danieljohnbyns/designclo/config"
	"github.com/danieljohnbyns/designclo/editor"
	"github.com/danieljohnbyns/designclo/export"
	"github.com/danieljohnbyns/designclo/fonts"
	"github.com/danieljohnbyns/designclo/history"
	"github.com/danieljohnbyns/designclo/scene"
	"github.com/danieljohnbyns/designclo/surface"
)

var errUsage = errors.New("usage: designclo render|export|fonts|generate [flags]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "designclo:", err)
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "render":
		return runRender(ctx, args[1:], stderr)
	case "export":
		return runExport(ctx, args[1:], stdout, stderr)
	case "fonts":
		return runFonts(args[1:], stdout, stderr)
	case "generate":
		return runGenerate(ctx, args[1:], stdout, stderr)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

// loadConfig reads path, or returns the defaults when path is empty, and
// installs a text logger at the configured level.
func loadConfig(path string, stderr io.Writer) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	designclo.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	return cfg, nil
}

// session is an editor wired up from a configuration.
type session struct {
	cfg   *config.Config
	fonts *fonts.Registry
	ed    *editor.Editor
	tex   *surface.Texture
	comp  *compositor.Compositor
	gen   *assetgen.Client
}

func newSession(cfg *config.Config, stderr io.Writer) (*session, error) {
	reg, err := newRegistry(cfg)
	if err != nil {
		return nil, err
	}
	lib := asset.NewLibrary()
	loadAssets(lib, cfg)

	ed := editor.New(
		editor.WithHistory(history.New(history.WithLimit(cfg.History.Limit))),
		editor.WithFonts(reg),
		editor.WithFontCandidates(cfg.Fonts.Candidates),
		editor.WithAssets(lib),
		editor.WithTextureSize(cfg.Texture.Width, cfg.Texture.Height),
		editor.WithNotifier(editor.NotifierFunc(func(n editor.Notification) {
			fmt.Fprintf(stderr, "%s: %s: %s\n", n.Level, n.Title, n.Message)
		})),
	)
	tex, err := surface.New(cfg.Texture.Width, cfg.Texture.Height)
	if err != nil {
		ed.Close()
		reg.Close()
		return nil, err
	}
	s := &session{cfg: cfg, fonts: reg, ed: ed, tex: tex, comp: compositor.New(reg)}
	if cfg.AssetGen.BaseURL != "" {
		s.gen = assetgen.NewClient(cfg.AssetGen.BaseURL, assetgen.WithTimeout(cfg.AssetGen.Timeout))
	}
	return s, nil
}

func newRegistry(cfg *config.Config) (*fonts.Registry, error) {
	reg, err := fonts.NewRegistry(fonts.WithAliases(cfg.Fonts.Aliases))
	if err != nil {
		return nil, err
	}
	for _, dir := range cfg.Fonts.Dirs {
		names, err := reg.LoadDir(dir)
		if err != nil {
			designclo.Logger().Warn("designclo: font dir", "dir", dir, "error", err)
			continue
		}
		designclo.Logger().Info("designclo: fonts loaded", "dir", dir, "families", len(names))
	}
	return reg, nil
}

func loadAssets(lib *asset.Library, cfg *config.Config) {
	var paths []string
	if dir := cfg.Assets.Dir; dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			designclo.Logger().Warn("designclo: asset dir", "dir", dir, "error", err)
		}
		for _, e := range entries {
			if !e.IsDir() && asset.IsImageFile(e.Name()) {
				paths = append(paths, filepath.Join(dir, e.Name()))
			}
		}
	}
	paths = append(paths, cfg.Assets.Sources...)
	for _, p := range paths {
		if _, err := lib.LoadFile(p); err != nil {
			designclo.Logger().Warn("designclo: asset skipped", "path", p, "error", err)
		}
	}
}

// replay runs the script at path, if any.
func (s *session) replay(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	sc, err := LoadScript(path)
	if err != nil {
		return err
	}
	return sc.Replay(ctx, s.ed, s.gen, filepath.Dir(path))
}

func (s *session) repaint() error {
	return s.comp.Repaint(s.tex, s.ed.Frame())
}

func (s *session) Close() {
	s.ed.Close()
	_ = s.tex.Close()
	s.fonts.Close()
}

func runRender(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath  = fs.String("config", "", "configuration file")
		script   = fs.String("script", "", "session script")
		out      = fs.String("out", "texture.png", "output PNG")
		selected = fs.Bool("selected", false, "keep the selection outline")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(*cfgPath, stderr)
	if err != nil {
		return err
	}
	s, err := newSession(cfg, stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.replay(ctx, *script); err != nil {
		return err
	}
	if !*selected {
		s.ed.Deselect()
	}
	if err := s.repaint(); err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := s.tex.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	designclo.Logger().Info("designclo: rendered", "out", *out, "layers", s.ed.Layers().Len())
	return nil
}

func runExport(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath = fs.String("config", "", "configuration file")
		script  = fs.String("script", "", "session script")
		outDir  = fs.String("out-dir", "", "output directory (default from config)")
		size    = fs.Int("size", 512, "frame size in pixels")
		settle  = fs.Duration("settle", -1, "wait before each capture (default from config)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(*cfgPath, stderr)
	if err != nil {
		return err
	}
	if *outDir == "" {
		*outDir = cfg.Export.OutDir
	}
	if *settle < 0 {
		*settle = cfg.Export.Settle
	}
	s, err := newSession(cfg, stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.replay(ctx, *script); err != nil {
		return err
	}
	s.ed.Deselect()
	if err := s.repaint(); err != nil {
		return err
	}

	cam := scene.NewOrbitCamera(cfg.Camera.Home.Vec3())
	state := &scene.DynamicState{
		Texture:    s.tex,
		Camera:     cam,
		Controller: cam,
		Renderer:   scene.NewFlatRenderer(s.tex, cam, *size, *size),
	}
	images, err := s.ed.Export(ctx, state, cfg.Views(), export.WithSettle(*settle))
	if err != nil {
		return err
	}
	n, err := s.ed.SaveExport(export.DirSaver{Dir: *outDir}, images, time.Now)
	fmt.Fprintf(stdout, "saved %d of %d views to %s\n", n, len(images), *outDir)
	return err
}

func runFonts(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("fonts", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", "configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(*cfgPath, stderr)
	if err != nil {
		return err
	}
	reg, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	defer reg.Close()

	for _, name := range reg.Probe(cfg.Fonts.Candidates) {
		target, _ := reg.Resolve(name)
		fmt.Fprintf(stdout, "%s\t%s\n", name, target)
	}
	return nil
}

func runGenerate(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath  = fs.String("config", "", "configuration file")
		baseURL  = fs.String("url", "", "asset service URL (default from config)")
		prompt   = fs.String("prompt", "", "image description")
		removeBG = fs.Bool("remove-bg", false, "ask the service to remove the background")
		out      = fs.String("out", "asset.png", "output PNG")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(*cfgPath, stderr)
	if err != nil {
		return err
	}
	if *baseURL != "" {
		cfg.AssetGen.BaseURL = *baseURL
	}
	if cfg.AssetGen.BaseURL == "" {
		return fmt.Errorf("%w: generate needs -url or assetgen.base_url", errUsage)
	}
	s, err := newSession(cfg, stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	a, err := s.ed.GenerateAsset(ctx, s.gen, *prompt, *removeBG)
	if err != nil {
		return err
	}
	if err := imgio.Save(*out, a.Bitmap.Image(), imgio.PNGEncoder()); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s\t%dx%d\t%s\n", a.Source, a.Bitmap.Width(), a.Bitmap.Height(), *out)
	return nil
}
