package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/danieljohnbyns/designclo/editor"
	"github.com/danieljohnbyns/designclo/fonts"
	"github.com/danieljohnbyns/designclo/history"
	"github.com/danieljohnbyns/designclo/idgen"
	"github.com/danieljohnbyns/designclo/layer"
)

const smallConfig = `
texture: {width: 64, height: 64}
log: {level: error}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func pngBytes(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestParseScriptRejectsBadPairs(t *testing.T) {
	_, err := ParseScript([]byte("steps:\n  - pick: [0.5]\n"))
	if err == nil || !strings.Contains(err.Error(), "pick needs two numbers") {
		t.Errorf("ParseScript() = %v, want pick arity error", err)
	}
	if _, err := ParseScript([]byte("steps: [")); err == nil {
		t.Error("ParseScript(malformed) = nil error")
	}
}

func TestReplay(t *testing.T) {
	sc, err := ParseScript([]byte(`
base_color: "#ff0000"
steps:
  - tool: text
    pick: [0.5, 0.5]
    text: Hello
    font: monospace
    size: 48
    rotation: 30
  - base_color: "#00ff00"
  - undo: 1
`))
	if err != nil {
		t.Fatal(err)
	}
	reg, err := fonts.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	defer reg.Close()
	ed := editor.New(
		editor.WithFonts(reg),
		editor.WithIDs(idgen.Sequence("layer")),
		editor.WithHistory(history.New()),
	)
	defer ed.Close()

	if err := sc.Replay(context.Background(), ed, nil, ""); err != nil {
		t.Fatalf("Replay() = %v", err)
	}
	if ed.BaseColor() != "#ff0000" {
		t.Errorf("BaseColor() = %s, want #ff0000", ed.BaseColor())
	}
	if ed.Layers().Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ed.Layers().Len())
	}
	txt := ed.Layers().At(0).(layer.Text)
	if txt.Text != "Hello" || txt.Font != "Monospace" || txt.Size != 48 || txt.Rotation != 30 {
		t.Errorf("layer = %+v", txt)
	}
	// base, add, text, font, one adjustment, base.
	if h := ed.History(); h.Len() != 7 || h.ActiveIndex() != 5 {
		t.Errorf("history Len() = %d, ActiveIndex() = %d, want 7, 5", h.Len(), h.ActiveIndex())
	}
}

func TestReplayErrors(t *testing.T) {
	ed := editor.New(editor.WithHistory(history.New()))
	defer ed.Close()
	for _, tt := range []struct {
		script string
		want   error
	}{
		{"steps: [{text: orphan}]", errNoLayer},
		{"steps: [{up: true}]", errNoLayer},
		{"steps: [{down: true}]", errNoLayer},
		{"steps: [{delete: true}]", errNoLayer},
		{"steps: [{generate: {prompt: cat}}]", errNoGenerator},
		{"steps: [{select_asset: missing.png}]", layer.ErrNotFound},
		{"steps: [{select: top}]", layer.ErrNotFound},
	} {
		sc, err := ParseScript([]byte(tt.script))
		if err != nil {
			t.Fatal(err)
		}
		err = sc.Replay(context.Background(), ed, nil, "")
		if !errors.Is(err, tt.want) {
			t.Errorf("Replay(%s) = %v, want %v", tt.script, err, tt.want)
		}
	}
}

func TestReplayAssets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "logo.png", string(pngBytes(t, 4, 2, color.RGBA{0, 0, 255, 255})))
	sc, err := ParseScript([]byte(`
assets: [logo.png]
steps:
  - select_asset: logo.png
    pick: [0.25, 0.25]
  - select: "0"
    up: true
    down: true
    move: [10, 90]
  - delete: true
  - undo: 1
`))
	if err != nil {
		t.Fatal(err)
	}
	ed := editor.New(editor.WithHistory(history.New()))
	defer ed.Close()
	if err := sc.Replay(context.Background(), ed, nil, dir); err != nil {
		t.Fatalf("Replay() = %v", err)
	}
	if ed.Layers().Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ed.Layers().Len())
	}
	img, ok := ed.Layers().At(0).(layer.Image)
	if !ok || img.Size != 256 || img.Position != (layer.Point{X: 10, Y: 90}) {
		t.Errorf("layer = %+v", ed.Layers().At(0))
	}
}

func TestLayerID(t *testing.T) {
	l, _ := layer.NewList(
		layer.NewText(layer.Placement{ID: "a"}),
		layer.NewText(layer.Placement{ID: "b"}),
	)
	for sel, want := range map[string]string{"top": "b", "BOTTOM": "a", "1": "b", "a": "a"} {
		if got, err := layerID(l, sel); err != nil || got != want {
			t.Errorf("layerID(%q) = %q, %v, want %q", sel, got, err, want)
		}
	}
	for _, sel := range []string{"2", "-1", "zzz"} {
		if _, err := layerID(l, sel); !errors.Is(err, layer.ErrNotFound) {
			t.Errorf("layerID(%q) = %v, want ErrNotFound", sel, err)
		}
	}
}

func TestRunUsage(t *testing.T) {
	var out, errOut bytes.Buffer
	if err := run(context.Background(), nil, &out, &errOut); !errors.Is(err, errUsage) {
		t.Errorf("run() = %v, want errUsage", err)
	}
	if err := run(context.Background(), []string{"paint"}, &out, &errOut); !errors.Is(err, errUsage) {
		t.Errorf("run(paint) = %v, want errUsage", err)
	}
}

func TestRunRender(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", smallConfig)
	script := writeFile(t, dir, "session.yaml", `
base_color: "#ff0000"
steps:
  - {tool: text, pick: [0.5, 0.5], text: Hi}
`)
	out := filepath.Join(dir, "texture.png")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"render", "-config", cfg, "-script", script, "-out", out}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run(render) = %v\n%s", err, stderr.String())
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Errorf("size = %v, want 64x64", b)
	}
	if r, g, b, _ := img.At(0, 0).RGBA(); r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("corner = %v, want red", img.At(0, 0))
	}
}

func TestRunExport(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", smallConfig)
	outDir := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	args := []string{"export", "-config", cfg, "-out-dir", outDir, "-size", "32", "-settle", "0"}
	if err := run(context.Background(), args, &stdout, &stderr); err != nil {
		t.Fatalf("run(export) = %v\n%s", err, stderr.String())
	}
	files, _ := filepath.Glob(filepath.Join(outDir, "designClo-*.png"))
	if len(files) != 4 {
		t.Errorf("exported %d files, want 4", len(files))
	}
	if !strings.Contains(stdout.String(), "saved 4 of 4 views") {
		t.Errorf("stdout = %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Export Successful") {
		t.Errorf("stderr = %q, want success notification", stderr.String())
	}
}

func TestRunFonts(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"fonts"}, &stdout, &stderr); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("fonts printed %d lines, want 3:\n%s", len(lines), stdout.String())
	}
	if !strings.HasPrefix(stdout.String(), "Arial\t") {
		t.Errorf("first line = %q, want Arial", lines[0])
	}
}

func TestRunGenerate(t *testing.T) {
	data := pngBytes(t, 5, 3, color.RGBA{0, 255, 0, 255})
	r := chi.NewRouter()
	r.Post("/prompt", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "g1", "file": "cat.png", "prompt": r.FormValue("prompt")})
	})
	r.Get("/file/{name}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "name") != "cat.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "cat.png")
	var stdout, stderr bytes.Buffer
	args := []string{"generate", "-url", srv.URL, "-prompt", "a cat", "-out", out}
	if err := run(context.Background(), args, &stdout, &stderr); err != nil {
		t.Fatalf("run(generate) = %v\n%s", err, stderr.String())
	}
	if !strings.Contains(stdout.String(), "5x3") {
		t.Errorf("stdout = %q", stdout.String())
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output missing: %v", err)
	}

	err := run(context.Background(), []string{"generate", "-url", srv.URL, "-prompt", "  ", "-out", out}, &stdout, &stderr)
	if err == nil || !strings.Contains(stderr.String(), "Empty Prompt") {
		t.Errorf("empty prompt: err = %v, stderr = %q", err, stderr.String())
	}
}
