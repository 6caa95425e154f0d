package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danieljohnbyns/designclo/asset"
	"github.com/danieljohnbyns/designclo/assetgen"
	"github.com/danieljohnbyns/designclo/editor"
	"github.com/danieljohnbyns/designclo/interaction"
	"github.com/danieljohnbyns/designclo/layer"
	"github.com/danieljohnbyns/designclo/scene"
)

var (
	errNoLayer     = errors.New("no layer is being edited")
	errNoGenerator = errors.New("assetgen.base_url is not configured")
)

// Script is a recorded editing session.
//
//	base_color: "#1e1e1e"
//	assets: [logo.png]
//	steps:
//	  - {tool: text, pick: [0.5, 0.4], text: Hello, font: Monospace, size: 64}
//	  - {select_asset: logo.png, pick: [0.5, 0.7]}
//	  - {select: top, rotation: 15, nudge: [0, -1]}
//	  - {undo: 1}
type Script struct {
	BaseColor string   `yaml:"base_color"`
	Assets    []string `yaml:"assets"`
	Steps     []Step   `yaml:"steps"`
}

// Step is one entry of a script. Fields apply in declaration order;
// unset fields are skipped.
type Step struct {
	Asset       string    `yaml:"asset"`
	Generate    *Generate `yaml:"generate"`
	SelectAsset string    `yaml:"select_asset"`
	BaseColor   string    `yaml:"base_color"`
	// Tool "image" only opens the asset panel; select_asset arms it.
	Tool        *string   `yaml:"tool"`
	Pick        []float64 `yaml:"pick"`

	// Select makes a layer the editing target: an id, a bottom-up
	// index, "top" or "bottom".
	Select string `yaml:"select"`

	Text     *string   `yaml:"text"`
	Font     string    `yaml:"font"`
	Size     *float64  `yaml:"size"`
	Rotation *float64  `yaml:"rotation"`
	Color    string    `yaml:"color"`
	Move     []float64 `yaml:"move"`
	Nudge    []float64 `yaml:"nudge"`

	Up         bool `yaml:"up"`
	Down       bool `yaml:"down"`
	Delete     bool `yaml:"delete"`
	Deselect   bool `yaml:"deselect"`
	Checkpoint bool `yaml:"checkpoint"`
	Undo       int  `yaml:"undo"`
	Redo       int  `yaml:"redo"`
}

// Generate asks the asset service for an image.
type Generate struct {
	Prompt           string `yaml:"prompt"`
	RemoveBackground bool   `yaml:"remove_background"`
}

// LoadScript reads a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes a script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	for i, st := range s.Steps {
		for name, v := range map[string][]float64{"pick": st.Pick, "move": st.Move, "nudge": st.Nudge} {
			if v != nil && len(v) != 2 {
				return nil, fmt.Errorf("script: step %d: %s needs two numbers, got %d", i+1, name, len(v))
			}
		}
	}
	return &s, nil
}

// Replay applies the script to ed. Relative asset paths are resolved
// against dir. gen may be nil when no step generates assets.
func (s *Script) Replay(ctx context.Context, ed *editor.Editor, gen *assetgen.Client, dir string) error {
	for _, p := range s.Assets {
		if _, err := ed.Assets().LoadFile(resolve(dir, p)); err != nil {
			return fmt.Errorf("script: asset %s: %w", p, err)
		}
	}
	if s.BaseColor != "" {
		if err := ed.SetBaseColor(s.BaseColor); err != nil {
			return fmt.Errorf("script: %w", err)
		}
	}
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := st.apply(ctx, ed, gen, dir); err != nil {
			return fmt.Errorf("script: step %d: %w", i+1, err)
		}
	}
	return nil
}

func (st Step) apply(ctx context.Context, ed *editor.Editor, gen *assetgen.Client, dir string) error {
	if st.Asset != "" {
		f, err := os.Open(resolve(dir, st.Asset))
		if err != nil {
			return err
		}
		_, err = ed.AddAsset(resolve(dir, st.Asset), f)
		_ = f.Close()
		if err != nil {
			return err
		}
	}
	if g := st.Generate; g != nil {
		if gen == nil {
			return errNoGenerator
		}
		a, err := ed.GenerateAsset(ctx, gen, g.Prompt, g.RemoveBackground)
		if err != nil {
			return err
		}
		if err := ed.SelectAsset(a.ID); err != nil {
			return err
		}
	}
	if st.SelectAsset != "" {
		a, ok := findAsset(ed.Assets(), st.SelectAsset)
		if !ok {
			return fmt.Errorf("asset %q: %w", st.SelectAsset, layer.ErrNotFound)
		}
		if err := ed.SelectAsset(a.ID); err != nil {
			return err
		}
	}
	if st.BaseColor != "" {
		if err := ed.SetBaseColor(st.BaseColor); err != nil {
			return err
		}
	}
	if st.Tool != nil {
		t, err := interaction.ParseTool(*st.Tool)
		if err != nil {
			return err
		}
		if ed.Tool() != t {
			ed.SelectTool(t)
		}
	}
	if st.Pick != nil {
		if err := ed.Pick(interaction.Pick{UV: uv(st.Pick), Hit: true}); err != nil {
			return err
		}
	}
	if st.Select != "" {
		id, err := layerID(ed.Layers(), st.Select)
		if err != nil {
			return err
		}
		if err := ed.EditLayer(id); err != nil {
			return err
		}
	}
	if st.Text != nil {
		if err := withEditing(ed, func(id string) error { return ed.SetLayerText(id, *st.Text) }); err != nil {
			return err
		}
	}
	if st.Font != "" {
		if err := withEditing(ed, func(id string) error { return ed.SetLayerFont(id, st.Font) }); err != nil {
			return err
		}
	}
	if err := st.adjust(ed); err != nil {
		return err
	}
	if st.Up {
		if err := withEditing(ed, func(id string) error { ed.MoveLayerUp(id); return nil }); err != nil {
			return err
		}
	}
	if st.Down {
		if err := withEditing(ed, func(id string) error { ed.MoveLayerDown(id); return nil }); err != nil {
			return err
		}
	}
	if st.Delete {
		if err := withEditing(ed, func(id string) error { ed.DeleteLayer(id); return nil }); err != nil {
			return err
		}
	}
	if st.Deselect {
		ed.Deselect()
	}
	if st.Checkpoint {
		ed.Checkpoint()
	}
	for range st.Undo {
		ed.Undo()
	}
	for range st.Redo {
		ed.Redo()
	}
	return nil
}

// adjust applies the continuous fields through a single draft, so they
// record one history entry together.
func (st Step) adjust(ed *editor.Editor) error {
	if st.Size == nil && st.Rotation == nil && st.Color == "" && st.Move == nil && st.Nudge == nil {
		return nil
	}
	return withEditing(ed, func(id string) error {
		d, err := ed.BeginAdjustment(id)
		if err != nil {
			return err
		}
		if st.Size != nil {
			d.SetSize(*st.Size)
		}
		if st.Rotation != nil {
			d.SetRotation(*st.Rotation)
		}
		if st.Color != "" && !d.SetColor(st.Color) {
			_ = d.Cancel()
			return fmt.Errorf("color %q does not apply to layer %s", st.Color, id)
		}
		if st.Move != nil {
			d.SetPosition(layer.Point{X: st.Move[0], Y: st.Move[1]})
		}
		if st.Nudge != nil {
			d.Nudge(st.Nudge[0], st.Nudge[1])
		}
		_, err = d.End()
		return err
	})
}

func withEditing(ed *editor.Editor, fn func(id string) error) error {
	id, ok := ed.Editing()
	if !ok {
		return errNoLayer
	}
	return fn(id)
}

func layerID(l layer.List, sel string) (string, error) {
	if l.Len() == 0 {
		return "", fmt.Errorf("select %q: %w", sel, layer.ErrNotFound)
	}
	switch strings.ToLower(sel) {
	case "top":
		return l.At(l.Len() - 1).Place().ID, nil
	case "bottom":
		return l.At(0).Place().ID, nil
	}
	if i, err := strconv.Atoi(sel); err == nil {
		if i < 0 || i >= l.Len() {
			return "", fmt.Errorf("select %d: %w", i, layer.ErrNotFound)
		}
		return l.At(i).Place().ID, nil
	}
	if l.Index(sel) < 0 {
		return "", fmt.Errorf("select %q: %w", sel, layer.ErrNotFound)
	}
	return sel, nil
}

func findAsset(lib *asset.Library, name string) (asset.Asset, bool) {
	for _, a := range lib.List() {
		if a.ID == name || a.Source == name || filepath.Base(a.Source) == name {
			return a, true
		}
	}
	return asset.Asset{}, false
}

func uv(p []float64) scene.UV { return scene.UV{X: p[0], Y: p[1]} }

func resolve(dir, p string) string {
	if dir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
