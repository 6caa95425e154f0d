package main

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/danieljohnbyns/designclo"
	"github.com/danieljohnbyns/designclo/compositor"
	"github.com/danieljohnbyns/designclo/config"
	"github.com/danieljohnbyns/designclo/editor"
	"github.com/danieljohnbyns/designclo/interaction"
	"github.com/danieljohnbyns/designclo/internal/viewinput"
	"github.com/danieljohnbyns/designclo/layer"
	"github.com/danieljohnbyns/designclo/scene"
	"github.com/danieljohnbyns/designclo/surface"
)

// Fallback base colours offered before any presets are extracted.
var baseColors = []string{"#ffffff", "#1e1e1e", "#c0392b", "#2e86de", "#27ae60", "#f1c40f"}

const (
	rotateStep = 2.0
	sizeStep   = 2.0
	zoomStep   = 0.5
	minZoom    = 2.0
	maxZoom    = 30.0
	noteTTL    = 4 * time.Second
)

type viewer struct {
	cfg     *config.Config
	size    int
	ed      *editor.Editor
	tex     *surface.Texture
	cam     *scene.OrbitCamera
	anim    *scene.Animator
	loop    *compositor.Loop
	state   *scene.DynamicState
	tracker *viewinput.Tracker
	hold    *viewinput.Hold

	preview *ebiten.Image
	pixels  []byte

	notes    chan editor.Notification
	note     editor.Notification
	noteAt   time.Time
	baseIdx  int
	leaving  bool
	help     bool
	helpOff  func()
	typing   bool
	typed    []rune
	typingID string
	typeOff  func()

	exporting atomic.Bool
}

func (v *viewer) Update() error {
	v.anim.Step(time.Now())
	v.drainNotes()

	x, y := ebiten.CursorPosition()
	v.tracker.Update(viewinput.Mouse{
		X:      float64(x),
		Y:      float64(y),
		Left:   ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Inside: x >= 0 && y >= 0 && x < v.size && y < v.size,
	})
	if _, dy := ebiten.Wheel(); dy != 0 {
		d := scene.Distance(v.cam) - dy*zoomStep
		v.cam.Dolly(min(max(d, minZoom), maxZoom))
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if v.ed.Back() == editor.BackPropagate {
			if v.leaving {
				return ebiten.Termination
			}
			v.leaving = true
			v.notify(editor.Notification{Title: "Leave", Message: "Press Esc again to close the editor."})
		}
		return v.repaint()
	}
	if v.typing {
		v.updateTyping()
		return v.repaint()
	}
	v.handleKeys()
	if _, err := v.hold.Tick(v.adjusting(), v.adjust); err != nil {
		designclo.Logger().Debug("designclo-view: adjust", "error", err)
	}
	return v.repaint()
}

// repaint runs one compositor tick and copies a fresh texture into the
// preview image.
func (v *viewer) repaint() error {
	painted, err := v.loop.Frame()
	if err != nil {
		return err
	}
	if !painted && v.preview != nil {
		return nil
	}
	snap, err := v.tex.Snapshot()
	if err != nil {
		return err
	}
	w, h := v.tex.Size()
	if v.preview == nil || v.preview.Bounds().Dx() != w || v.preview.Bounds().Dy() != h {
		if v.preview != nil {
			v.preview.Deallocate()
		}
		v.preview = ebiten.NewImage(w, h)
	}
	v.preview.WritePixels(snap.Pix)
	return nil
}

func (v *viewer) handleKeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	pressed := inpututil.IsKeyJustPressed

	switch {
	case ctrl && pressed(ebiten.KeyZ):
		v.ed.Undo()
	case ctrl && pressed(ebiten.KeyY):
		v.ed.Redo()
	case pressed(ebiten.KeyT):
		v.ed.SelectTool(interaction.ToolText)
	case pressed(ebiten.KeyI):
		v.ed.SelectTool(interaction.ToolImage)
	case pressed(ebiten.KeyA):
		v.nextAsset()
	case pressed(ebiten.KeyB):
		v.nextBaseColor()
	case pressed(ebiten.KeyL):
		v.ed.OpenPanel(editor.PanelLayers)
	case pressed(ebiten.KeyPageUp):
		if id, ok := v.ed.Editing(); ok {
			v.ed.MoveLayerUp(id)
		}
	case pressed(ebiten.KeyPageDown):
		if id, ok := v.ed.Editing(); ok {
			v.ed.MoveLayerDown(id)
		}
	case pressed(ebiten.KeyDelete):
		if id, ok := v.ed.Editing(); ok {
			v.ed.DeleteLayer(id)
		}
	case pressed(ebiten.KeyEnter):
		v.beginTyping()
	case pressed(ebiten.KeyF1):
		v.toggleHelp()
	case pressed(ebiten.KeyX):
		v.exportViews()
	case pressed(ebiten.KeyH):
		v.anim.Animate(v.cfg.Camera.Home.Vec3(), scene.DefaultTransition)
	}
	for i, view := range v.cfg.Views() {
		if i < 9 && pressed(ebiten.Key1+ebiten.Key(i)) {
			v.anim.Animate(view.Position, scene.DefaultTransition)
		}
	}
}

func (v *viewer) adjusting() bool {
	for _, k := range []ebiten.Key{
		ebiten.KeyArrowLeft, ebiten.KeyArrowRight, ebiten.KeyArrowUp, ebiten.KeyArrowDown,
		ebiten.KeyQ, ebiten.KeyE, ebiten.KeyMinus, ebiten.KeyEqual,
	} {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

// adjust applies the held adjustment keys to d.
func (v *viewer) adjust(d *editor.Draft) bool {
	ok := true
	// Screen up is +v on the garment.
	dx := viewinput.Axis(ebiten.IsKeyPressed(ebiten.KeyArrowLeft), ebiten.IsKeyPressed(ebiten.KeyArrowRight))
	dy := viewinput.Axis(ebiten.IsKeyPressed(ebiten.KeyArrowDown), ebiten.IsKeyPressed(ebiten.KeyArrowUp))
	if dx != 0 || dy != 0 {
		ok = d.Nudge(dx, dy) && ok
	}
	if r := viewinput.Axis(ebiten.IsKeyPressed(ebiten.KeyQ), ebiten.IsKeyPressed(ebiten.KeyE)); r != 0 {
		ok = d.SetRotation(d.Layer().Place().Rotation+r*rotateStep) && ok
	}
	if s := viewinput.Axis(ebiten.IsKeyPressed(ebiten.KeyMinus), ebiten.IsKeyPressed(ebiten.KeyEqual)); s != 0 {
		ok = d.SetSize(layerSize(d.Layer())+s*sizeStep) && ok
	}
	return ok
}

func layerSize(l layer.Layer) float64 {
	switch v := l.(type) {
	case layer.Text:
		return v.Size
	case layer.Image:
		return v.Size
	}
	return 0
}

func (v *viewer) nextAsset() {
	list := v.ed.Assets().List()
	if len(list) == 0 {
		v.notify(editor.Notification{Level: editor.LevelWarning, Title: "No Assets", Message: "Add images to the asset directory."})
		return
	}
	next := 0
	for i, a := range list {
		if a.Active {
			next = (i + 1) % len(list)
		}
	}
	_ = v.ed.SelectAsset(list[next].ID)
}

func (v *viewer) nextBaseColor() {
	colors := append(v.ed.Presets(), baseColors...)
	v.baseIdx = (v.baseIdx + 1) % len(colors)
	_ = v.ed.SetBaseColor(colors[v.baseIdx])
}

func (v *viewer) beginTyping() {
	l, ok := v.ed.EditingLayer()
	if !ok {
		return
	}
	t, ok := l.(layer.Text)
	if !ok {
		return
	}
	v.typing, v.typingID, v.typed = true, t.ID, []rune(t.Text)
	// Esc while typing finishes the text instead of leaving.
	v.typeOff = v.ed.OnBack(func() editor.BackResult {
		v.endTyping()
		return editor.BackHandled
	})
}

func (v *viewer) updateTyping() {
	v.typed = ebiten.AppendInputChars(v.typed)
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(v.typed) > 0 {
		v.typed = v.typed[:len(v.typed)-1]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		v.endTyping()
	}
}

func (v *viewer) endTyping() {
	if !v.typing {
		return
	}
	v.typing = false
	v.typeOff()
	if err := v.ed.SetLayerText(v.typingID, string(v.typed)); err != nil {
		designclo.Logger().Debug("designclo-view: set text", "error", err)
	}
}

func (v *viewer) toggleHelp() {
	if v.help {
		v.help = false
		v.helpOff()
		return
	}
	v.help = true
	v.helpOff = v.ed.OnBack(func() editor.BackResult {
		v.help = false
		v.helpOff()
		return editor.BackHandled
	})
}

func (v *viewer) drainNotes() {
	for {
		select {
		case n := <-v.notes:
			v.note, v.noteAt = n, time.Now()
			if n.Title != "Leave" {
				v.leaving = false
			}
		default:
			return
		}
	}
}

func (v *viewer) Draw(screen *ebiten.Image) {
	if v.preview != nil {
		w, h := v.preview.Bounds().Dx(), v.preview.Bounds().Dy()
		op := &ebiten.DrawImageOptions{}
		// The garment samples the texture upside down.
		op.GeoM.Scale(float64(v.size)/float64(w), -float64(v.size)/float64(h))
		op.GeoM.Translate(0, float64(v.size))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(v.preview, op)
	}
	ebitenutil.DebugPrintAt(screen, v.sidebar(), v.size+8, 8)
}

func (v *viewer) sidebar() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tool: %s  panel: %s\n", v.ed.Tool(), v.ed.Panel())
	fmt.Fprintf(&b, "base: %s\n", v.ed.BaseColor())
	h := v.ed.History()
	fmt.Fprintf(&b, "history: %d/%d\n", h.ActiveIndex()+1, h.Len())
	fmt.Fprintf(&b, "zoom: %.1f\n\n", scene.Distance(v.cam))

	editing, _ := v.ed.Editing()
	layers := v.ed.Layers()
	b.WriteString("layers (top first):\n")
	for i := layers.Len() - 1; i >= 0; i-- {
		l := layers.At(i)
		mark := " "
		if l.Place().ID == editing {
			mark = ">"
		}
		fmt.Fprintf(&b, "%s %s\n", mark, describe(l))
	}
	if a, ok := v.ed.Assets().Active(); ok {
		fmt.Fprintf(&b, "\nasset: %s\n", a.Source)
	}
	if v.typing {
		fmt.Fprintf(&b, "\ntyping: %s_\n", string(v.typed))
	}
	if v.exporting.Load() {
		b.WriteString("\nexporting...\n")
	}
	if !v.noteAt.IsZero() && time.Since(v.noteAt) < noteTTL {
		fmt.Fprintf(&b, "\n%s\n%s\n", v.note.Title, v.note.Message)
	}
	if v.help {
		b.WriteString("\nT text  I image  A next asset\narrows nudge  Q/E rotate  -/= size\nPgUp/PgDn order  Del delete\nEnter type  B base colour\nCtrl+Z/Y undo/redo  1-4 H views\nX export  Esc back\n")
	}
	return b.String()
}

func describe(l layer.Layer) string {
	switch v := l.(type) {
	case layer.Text:
		s := v.Display()
		if utf8.RuneCountInString(s) > 18 {
			s = string([]rune(s)[:18]) + "..."
		}
		return fmt.Sprintf("text %q %s %.0fpx", s, v.Font, v.Size)
	case layer.Image:
		name := ""
		if v.Bitmap != nil {
			name = v.Bitmap.Name()
		}
		return fmt.Sprintf("image %s %.0fpx", name, v.Size)
	}
	return l.Kind().String()
}

func (v *viewer) Layout(int, int) (int, int) {
	return v.size + sidebarWidth, v.size
}
