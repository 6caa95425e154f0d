// Command designclo-view opens a window with a flat preview of the
// garment texture and edits it with the mouse and keyboard.
//
// Keys:
//
//	T / I        text tool / image tool (opens the asset list)
//	A            select the next asset
//	arrows       nudge the edited layer, Q / E rotate, - / = resize
//	PgUp / PgDn  move the edited layer up or down
//	Delete       delete the edited layer
//	Enter        type into the edited text layer
//	B            next base colour preset
//	Ctrl+Z / Ctrl+Y  undo / redo
//	1-4, H       camera views, mouse wheel zooms
//	X            export the configured views
//	F1           help, Esc goes back
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/danieljohnbyns/designclo"
	"github.com/danieljohnbyns/designclo/asset"
	"github.com/danieljohnbyns/designclo/compositor"
	"github.com/danieljohnbyns/designclo/config"
	"github.com/danieljohnbyns/designclo/editor"
	"github.com/danieljohnbyns/designclo/export"
	"github.com/danieljohnbyns/designclo/fonts"
	"github.com/danieljohnbyns/designclo/history"
	"github.com/danieljohnbyns/designclo/internal/viewinput"
	"github.com/danieljohnbyns/designclo/scene"
	"github.com/danieljohnbyns/designclo/surface"
)

const sidebarWidth = 260

func main() {
	var (
		cfgPath = flag.String("config", "", "configuration file")
		size    = flag.Int("size", 640, "preview size in pixels")
	)
	flag.Parse()

	if err := run(*cfgPath, *size); err != nil {
		fmt.Fprintln(os.Stderr, "designclo-view:", err)
		os.Exit(1)
	}
}

func run(cfgPath string, size int) error {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	designclo.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	reg, err := fonts.NewRegistry(fonts.WithAliases(cfg.Fonts.Aliases))
	if err != nil {
		return err
	}
	defer reg.Close()
	for _, dir := range cfg.Fonts.Dirs {
		if _, err := reg.LoadDir(dir); err != nil {
			designclo.Logger().Warn("designclo-view: font dir", "dir", dir, "error", err)
		}
	}

	lib := asset.NewLibrary()
	for _, p := range cfg.Assets.Sources {
		if _, err := lib.LoadFile(p); err != nil {
			designclo.Logger().Warn("designclo-view: asset skipped", "path", p, "error", err)
		}
	}

	tex, err := surface.New(cfg.Texture.Width, cfg.Texture.Height)
	if err != nil {
		return err
	}
	defer tex.Close()

	cam := scene.NewOrbitCamera(cfg.Camera.Home.Vec3())
	anim := scene.NewAnimator(cam)
	v := &viewer{
		cfg:     cfg,
		size:    size,
		tex:     tex,
		cam:     cam,
		anim:    anim,
		tracker: viewinput.NewTracker(),
		notes:   make(chan editor.Notification, 8),
	}
	v.ed = editor.New(
		editor.WithHistory(history.New(history.WithLimit(cfg.History.Limit))),
		editor.WithFonts(reg),
		editor.WithFontCandidates(cfg.Fonts.Candidates),
		editor.WithAssets(lib),
		editor.WithTextureSize(cfg.Texture.Width, cfg.Texture.Height),
		editor.WithAnimator(anim),
		editor.WithNotifier(editor.NotifierFunc(v.notify)),
	)
	defer v.ed.Close()
	v.ed.WatchCamera(cam, cam)
	v.ed.Attach(v.tracker, scene.PlanePicker{Rect: image.Rect(0, 0, size, size), FlipY: true, Object: "garment"})
	v.hold = viewinput.NewHold(v.ed)
	v.loop = compositor.NewLoop(compositor.New(reg), v.ed, func() *surface.Texture { return v.tex })
	v.state = &scene.DynamicState{
		Texture:    tex,
		Camera:     cam,
		Controller: cam,
		Renderer:   scene.NewFlatRenderer(tex, cam, size, size),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Assets.Dir != "" && cfg.Assets.Watch {
		if err := v.watchAssets(ctx, lib); err != nil {
			designclo.Logger().Warn("designclo-view: asset watch", "dir", cfg.Assets.Dir, "error", err)
		}
	}

	ebiten.SetWindowTitle("designclo")
	ebiten.SetWindowSize(size+sidebarWidth, size)
	ebiten.SetTPS(60)
	return ebiten.RunGame(v)
}

// watchAssets loads the asset directory and keeps the library in sync
// with it until ctx is done.
func (v *viewer) watchAssets(ctx context.Context, lib *asset.Library) error {
	entries, err := os.ReadDir(v.cfg.Assets.Dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() && asset.IsImageFile(e.Name()) {
			_ = asset.Sync(lib, asset.Change{Path: filepath.Join(v.cfg.Assets.Dir, e.Name())})
		}
	}
	w, err := asset.NewWatcher(v.cfg.Assets.Dir)
	if err != nil {
		return err
	}
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case c, ok := <-w.Events:
				if !ok {
					return
				}
				if err := asset.Sync(lib, c); err != nil {
					designclo.Logger().Warn("designclo-view: asset sync", "path", c.Path, "error", err)
				}
			}
		}
	}()
	return nil
}

func (v *viewer) notify(n editor.Notification) {
	select {
	case v.notes <- n:
	default:
	}
}

// exportViews captures every configured view into the export directory.
func (v *viewer) exportViews() {
	if v.exporting.Swap(true) {
		return
	}
	go func() {
		defer v.exporting.Store(false)
		images, err := v.ed.Export(context.Background(), v.state, v.cfg.Views(), export.WithSettle(v.cfg.Export.Settle))
		if err != nil {
			return
		}
		_, _ = v.ed.SaveExport(export.DirSaver{Dir: v.cfg.Export.OutDir}, images, time.Now)
	}()
}
