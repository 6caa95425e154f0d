// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package editor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/gg"

	"github.com/danieljohnbyns/designclo/export"
	"github.com/danieljohnbyns/designclo/interaction"
	"github.com/danieljohnbyns/designclo/scene"
	"github.com/danieljohnbyns/designclo/surface"
)

func flatState(t *testing.T) (*scene.DynamicState, *scene.OrbitCamera) {
	t.Helper()
	tex := surface.MustNew(16, 16)
	t.Cleanup(func() { _ = tex.Close() })
	if err := tex.Draw(func(dc *gg.Context) { dc.ClearWithColor(gg.Hex("#3366ff")) }); err != nil {
		t.Fatal(err)
	}
	cam := scene.NewOrbitCamera(scene.Home.Position)
	r := scene.NewFlatRenderer(tex, cam, 32, 32)
	return &scene.DynamicState{Texture: tex, Camera: cam, Controller: cam, Renderer: r}, cam
}

func TestExport(t *testing.T) {
	e, rec := newEditor(t)
	state, cam := flatState(t)
	addText(t, e, 0.5, 0.5)
	e.SelectTool(interaction.ToolText)
	e.OpenPanel(PanelMenu)

	images, err := e.Export(context.Background(), state, scene.DefaultViews(), export.WithSettle(0))
	if err != nil {
		t.Fatalf("Export() = %v", err)
	}
	if len(images) != 4 {
		t.Fatalf("len(images) = %d, want 4", len(images))
	}
	for i, v := range scene.DefaultViews() {
		if images[i].Label != v.Label || !strings.HasPrefix(images[i].Source, "data:image/png;base64,") {
			t.Errorf("images[%d] = %q, %.30q", i, images[i].Label, images[i].Source)
		}
	}
	if cam.Position() != scene.Front.Position {
		t.Errorf("camera at %v after export, want %v", cam.Position(), scene.Front.Position)
	}
	if e.Panel() != PanelNone || e.Tool() != interaction.ToolNone || e.Frame().Selected != "" {
		t.Error("export left a panel, tool or selection active")
	}
	if len(rec.all()) != 0 {
		t.Errorf("notifications = %+v", rec.all())
	}
}

func TestExportAnimatesBack(t *testing.T) {
	start := time.Unix(1000, 0)
	state, cam := flatState(t)
	anim := scene.NewAnimator(cam, scene.WithClock(func() time.Time { return start }))
	e, _ := newEditor(t, WithAnimator(anim))

	if _, err := e.Export(context.Background(), state, []scene.View{scene.Left}, export.WithSettle(0)); err != nil {
		t.Fatal(err)
	}
	if !anim.Busy() {
		t.Fatal("camera return not animated")
	}
	anim.Step(start.Add(scene.DefaultTransition))
	if cam.Position() != scene.Front.Position {
		t.Errorf("camera at %v, want %v", cam.Position(), scene.Front.Position)
	}
}

func TestExportNotReady(t *testing.T) {
	e, rec := newEditor(t)
	_, err := e.Export(context.Background(), &scene.DynamicState{}, scene.DefaultViews())
	if !errors.Is(err, scene.ErrNotReady) {
		t.Errorf("Export() = %v, want ErrNotReady", err)
	}
	if ns := rec.all(); len(ns) != 1 || ns[0].Title != "Export Failed" {
		t.Errorf("notifications = %+v", ns)
	}
}

func TestSaveExport(t *testing.T) {
	e, rec := newEditor(t)
	now := func() time.Time { return time.UnixMilli(42) }
	images := []export.Image{{Label: "Front", Source: "a"}, {Label: "Back", Source: "b"}}

	var names []string
	ok := export.SaverFunc(func(name, _ string) bool {
		names = append(names, name)
		return true
	})
	n, err := e.SaveExport(ok, images, now)
	if err != nil || n != 2 {
		t.Fatalf("SaveExport() = %d, %v, want 2, nil", n, err)
	}
	if names[0] != "designClo-Front-42.png" {
		t.Errorf("name = %q", names[0])
	}
	if ns := rec.all(); len(ns) != 1 || ns[0].Level != LevelSuccess || ns[0].Title != "Export Successful" {
		t.Errorf("notifications = %+v", ns)
	}

	failBack := export.SaverFunc(func(name, _ string) bool { return !strings.Contains(name, "Back") })
	n, err = e.SaveExport(failBack, images, now)
	if !errors.Is(err, export.ErrExportSaveFailed) || n != 1 {
		t.Errorf("SaveExport() = %d, %v, want 1, ErrExportSaveFailed", n, err)
	}
	ns := rec.all()
	if last := ns[len(ns)-1]; last.Level != LevelError || last.Message != "1 of 2 images could not be saved." {
		t.Errorf("last notification = %+v", last)
	}
}
