// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

// Package editor ties the layer model, history, compositor state and
// interaction rules together behind the surface a UI layer drives.
//
// Every mutation runs under the editor's lock and ends by publishing a
// fresh [compositor.State]. The render loop reads that state through
// [Editor.Frame] on every tick, so it never sees a half-applied edit.
//
// Discrete operations commit to history immediately. Continuous ones
// (dragging, sliders) go through a [Draft]: the draft is visible in
// Frame while it changes and is committed once by
// [Editor.EndAdjustment].
package editor

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/danieljohnbyns/designclo"
	"github.com/danieljohnbyns/designclo/asset"
	"github.com/danieljohnbyns/designclo/compositor"
	"github.com/danieljohnbyns/designclo/fonts"
	"github.com/danieljohnbyns/designclo/history"
	"github.com/danieljohnbyns/designclo/idgen"
	"github.com/danieljohnbyns/designclo/interaction"
	"github.com/danieljohnbyns/designclo/layer"
	"github.com/danieljohnbyns/designclo/palette"
	"github.com/danieljohnbyns/designclo/scene"
)

var (
	// ErrClosed is returned by operations on a closed editor.
	ErrClosed = errors.New("editor: closed")

	// ErrWrongKind is returned when an operation does not apply to the
	// layer's kind.
	ErrWrongKind = errors.New("editor: wrong layer kind")
)

// DefaultCameraDistance is assumed until a camera reports its distance.
const DefaultCameraDistance = 10

// Panel is the side panel or sheet currently open.
type Panel uint8

const (
	PanelNone Panel = iota
	PanelLayers
	PanelAssets
	PanelBaseColor
	PanelMenu
)

// String returns the panel name.
func (p Panel) String() string {
	switch p {
	case PanelNone:
		return "none"
	case PanelLayers:
		return "layers"
	case PanelAssets:
		return "assets"
	case PanelBaseColor:
		return "base-color"
	case PanelMenu:
		return "menu"
	}
	return fmt.Sprintf("Panel(%d)", p)
}

// Editor is the editing session. Methods are safe for concurrent use,
// though a UI normally calls them from one goroutine.
type Editor struct {
	hist      *history.Log
	fonts     *fonts.Registry
	available []string
	assets    *asset.Library
	ids       idgen.Generator
	notifier  Notifier
	width     int
	height    int
	presets   *palette.Extractor
	animator  *scene.Animator
	clickSlop float64

	mu       sync.Mutex
	base     string
	layers   layer.List
	tool     interaction.Tool
	panel    Panel
	editing  string
	draft    *Draft
	distance float64
	picker   scene.Picker
	presses  map[int]press
	back     []backEntry
	backSeq  int
	detach   []func()
	closed   bool

	frame atomic.Pointer[compositor.State]
}

// New returns an editor positioned at the history's active entry.
func New(opts ...Option) *Editor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.history == nil {
		o.history = history.New()
	}
	if o.fonts == nil {
		o.fonts = fonts.Default()
	}
	if o.assets == nil {
		o.assets = asset.NewLibrary()
	}
	if o.palette == nil {
		o.palette = palette.NewExtractor()
	}

	cur := o.history.Current()
	e := &Editor{
		hist:      o.history,
		fonts:     o.fonts,
		available: o.fonts.Probe(o.candidates),
		assets:    o.assets,
		ids:       o.ids,
		notifier:  o.notifier,
		width:     o.width,
		height:    o.height,
		presets:   o.palette,
		animator:  o.animator,
		clickSlop: o.clickSlop,
		base:      cur.BaseColor,
		layers:    cur.Layers,
		distance:  DefaultCameraDistance,
		presses:   make(map[int]press),
	}
	e.presets.Update(e.layers)
	e.publishLocked()
	designclo.Logger().Info("editor: ready", "fonts", len(e.available), "texture", fmt.Sprintf("%dx%d", e.width, e.height))
	return e
}

// Frame returns the state to paint. It implements compositor.StateSource
// and includes any draft in progress.
func (e *Editor) Frame() compositor.State {
	return *e.frame.Load()
}

var _ compositor.StateSource = (*Editor)(nil)

func (e *Editor) publishLocked() {
	st := compositor.State{BaseColor: e.base, Layers: e.layers, Selected: e.editing}
	if d := e.draft; d != nil {
		if d.base {
			st.BaseColor = d.curBase
		} else if l, err := st.Layers.Replace(d.cur); err == nil {
			st.Layers = l
		}
	}
	e.frame.Store(&st)
}

func (e *Editor) notify(n Notification) {
	if n.Level >= LevelWarning {
		designclo.Logger().Warn("editor: "+n.Title, "message", n.Message, "error", n.Err)
	}
	if e.notifier != nil {
		e.notifier.Notify(n)
	}
}

// commitLocked records base and layers as the new active entry.
func (e *Editor) commitLocked(label, base string, layers layer.List) {
	e.hist.Record(label, base, layers)
	changed := !e.layers.Equal(layers)
	e.base, e.layers = base, layers
	if changed {
		e.presets.Update(layers)
	}
	e.publishLocked()
}

// endDraftLocked commits or discards the draft in progress.
func (e *Editor) endDraftLocked(commit bool) bool {
	d := e.draft
	if d == nil {
		return false
	}
	e.draft = nil
	d.done = true
	if !commit || !d.changed() {
		e.publishLocked()
		return false
	}
	if d.base {
		e.commitLocked("base color", d.curBase, e.layers)
		return true
	}
	layers, err := e.layers.Replace(d.cur)
	if err != nil {
		e.publishLocked()
		return false
	}
	e.commitLocked("adjust", e.base, layers)
	return true
}

// clearSelectionLocked drops the active tool, asset selection and
// editing target.
func (e *Editor) clearSelectionLocked() {
	e.endDraftLocked(true)
	e.tool = interaction.ToolNone
	e.editing = ""
	e.assets.DeselectAll()
}

// BaseColor returns the committed base colour.
func (e *Editor) BaseColor() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.base
}

// Layers returns the committed layer list.
func (e *Editor) Layers() layer.List {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layers
}

// Tool returns the armed tool. After SelectTool(ToolImage) it stays
// ToolNone until an asset is chosen with SelectAsset.
func (e *Editor) Tool() interaction.Tool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tool
}

// Panel returns the open panel.
func (e *Editor) Panel() Panel {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.panel
}

// Editing returns the id of the layer being edited.
func (e *Editor) Editing() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editing, e.editing != ""
}

// EditingLayer returns the layer being edited, including draft changes.
func (e *Editor) EditingLayer() (layer.Layer, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.editing == "" {
		return nil, false
	}
	if d := e.draft; d != nil && !d.base && d.cur.Place().ID == e.editing {
		return d.cur, true
	}
	return e.layers.Find(e.editing)
}

// AvailableFonts returns the families that passed the availability
// probe, in candidate order.
func (e *Editor) AvailableFonts() []string {
	return slices.Clone(e.available)
}

// Fonts returns the font registry.
func (e *Editor) Fonts() *fonts.Registry { return e.fonts }

// Assets returns the asset library.
func (e *Editor) Assets() *asset.Library { return e.assets }

// History returns the history log.
func (e *Editor) History() *history.Log { return e.hist }

// TextureSize returns the texture dimensions.
func (e *Editor) TextureSize() (width, height int) { return e.width, e.height }

// Presets returns the latest palette presets derived from the layers.
func (e *Editor) Presets() []string { return e.presets.Colors() }

// CanUndo reports whether Undo would change anything.
func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

// RedoCount is the number of entries after the active one.
func (e *Editor) RedoCount() int { return e.hist.RedoCount() }

// SelectTool arms t. Selecting the armed tool disarms it. Arming the
// image tool opens the asset panel; the tool itself is armed by
// SelectAsset. The editing target and asset selection are always
// cleared.
func (e *Editor) SelectTool(t interaction.Tool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	prev := e.tool
	e.clearSelectionLocked()
	switch {
	case t == interaction.ToolNone || t == prev:
	case t == interaction.ToolText:
		e.tool = t
		e.panel = PanelNone
	case t == interaction.ToolImage:
		e.panel = PanelAssets
	}
	e.publishLocked()
}

// OpenPanel opens p, clearing the tool, asset selection and editing
// target.
func (e *Editor) OpenPanel(p Panel) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.clearSelectionLocked()
	e.panel = p
	e.publishLocked()
}

// ClosePanel closes the open panel. Closing the asset panel also drops
// the asset selection and editing target.
func (e *Editor) ClosePanel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closePanelLocked()
}

func (e *Editor) closePanelLocked() bool {
	if e.panel == PanelNone {
		return false
	}
	if e.panel == PanelAssets {
		e.endDraftLocked(true)
		e.assets.DeselectAll()
		e.editing = ""
	}
	e.panel = PanelNone
	e.publishLocked()
	return true
}

// SelectAsset activates the asset and arms the image tool.
func (e *Editor) SelectAsset(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if _, ok := e.assets.Select(id); !ok {
		return fmt.Errorf("editor: asset %q: %w", id, layer.ErrNotFound)
	}
	e.endDraftLocked(true)
	e.editing = ""
	e.tool = interaction.ToolImage
	if e.panel == PanelAssets {
		e.panel = PanelNone
	}
	e.publishLocked()
	return nil
}

// Pick applies a pick at the current tool. See interaction.Resolve.
func (e *Editor) Pick(p interaction.Pick) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.endDraftLocked(true)

	var active *asset.Asset
	if a, ok := e.assets.Active(); ok {
		active = &a
	}
	res, err := interaction.Resolve(p, e.tool, active, e.width, e.ids)
	if err != nil {
		e.mu.Unlock()
		if errors.Is(err, interaction.ErrNoAssetSelected) {
			e.notify(Notification{
				Level:   LevelError,
				Title:   "No Asset Selected",
				Message: "Please select an asset from the Assets menu.",
				Err:     err,
			})
		}
		return err
	}

	switch res.Action {
	case interaction.ActionDeselect:
		e.editing = ""
		e.publishLocked()
	case interaction.ActionPlace:
		layers, err := e.layers.Append(res.Layer)
		if err != nil {
			e.mu.Unlock()
			return err
		}
		e.assets.DeselectAll()
		e.tool = interaction.ToolNone
		e.editing = res.Layer.Place().ID
		e.commitLocked("add "+res.Layer.Kind().String(), e.base, layers)
	}
	e.mu.Unlock()
	return nil
}

// EditLayer makes id the editing target and closes the layers panel.
func (e *Editor) EditLayer(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.layers.Index(id) < 0 {
		return fmt.Errorf("editor: layer %q: %w", id, layer.ErrNotFound)
	}
	e.endDraftLocked(true)
	e.editing = id
	if e.panel == PanelLayers {
		e.panel = PanelNone
	}
	e.publishLocked()
	return nil
}

// Deselect clears the editing target.
func (e *Editor) Deselect() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endDraftLocked(true)
	e.editing = ""
	e.publishLocked()
}

// MoveLayerUp moves id one step towards the top. At the top it does
// nothing and records no history.
func (e *Editor) MoveLayerUp(id string) bool {
	return e.reorder(id, layer.List.MoveUp, "move up")
}

// MoveLayerDown moves id one step towards the bottom. At the bottom it
// does nothing and records no history.
func (e *Editor) MoveLayerDown(id string) bool {
	return e.reorder(id, layer.List.MoveDown, "move down")
}

func (e *Editor) reorder(id string, move func(layer.List, string) (layer.List, bool), label string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	e.endDraftLocked(true)
	layers, ok := move(e.layers, id)
	if !ok {
		return false
	}
	e.commitLocked(label, e.base, layers)
	return true
}

// DeleteLayer removes id. Deleting the editing target clears it.
func (e *Editor) DeleteLayer(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	e.endDraftLocked(true)
	layers, ok := e.layers.Remove(id)
	if !ok {
		return false
	}
	if e.editing == id {
		e.editing = ""
	}
	e.commitLocked("delete", e.base, layers)
	return true
}

// updateLayer replaces layer id with fn's result and commits.
func (e *Editor) updateLayer(id, label string, fn func(layer.Layer) (layer.Layer, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.endDraftLocked(true)
	l, ok := e.layers.Find(id)
	if !ok {
		return fmt.Errorf("editor: layer %q: %w", id, layer.ErrNotFound)
	}
	next, err := fn(l)
	if err != nil {
		return err
	}
	layers, err := e.layers.Replace(next)
	if err != nil {
		return err
	}
	if layers.Equal(e.layers) {
		return nil
	}
	e.commitLocked(label, e.base, layers)
	return nil
}

// SetLayerText replaces a text layer's content.
func (e *Editor) SetLayerText(id, s string) error {
	return e.updateLayer(id, "text", func(l layer.Layer) (layer.Layer, error) {
		t, ok := l.(layer.Text)
		if !ok {
			return nil, fmt.Errorf("%w: %s is %s", ErrWrongKind, id, l.Kind())
		}
		return t.WithText(s), nil
	})
}

// SetLayerFont sets a text layer's family. The family must be one of
// AvailableFonts.
func (e *Editor) SetLayerFont(id, family string) error {
	name, ok := e.availableFont(family)
	if !ok {
		err := fmt.Errorf("%w: %q", fonts.ErrFontUnavailable, family)
		e.notify(Notification{Level: LevelError, Title: "Font Unavailable", Message: family, Err: err})
		return err
	}
	return e.updateLayer(id, "font", func(l layer.Layer) (layer.Layer, error) {
		t, ok := l.(layer.Text)
		if !ok {
			return nil, fmt.Errorf("%w: %s is %s", ErrWrongKind, id, l.Kind())
		}
		return t.WithFont(name), nil
	})
}

func (e *Editor) availableFont(family string) (string, bool) {
	for _, f := range e.available {
		if strings.EqualFold(f, strings.TrimSpace(family)) {
			return f, true
		}
	}
	return "", false
}

// ReplaceLayerImage swaps an image layer's bitmap.
func (e *Editor) ReplaceLayerImage(id string, bm *layer.Bitmap) error {
	if bm == nil {
		return fmt.Errorf("editor: replace %s: nil bitmap", id)
	}
	return e.updateLayer(id, "image", func(l layer.Layer) (layer.Layer, error) {
		m, ok := l.(layer.Image)
		if !ok {
			return nil, fmt.Errorf("%w: %s is %s", ErrWrongKind, id, l.Kind())
		}
		return m.WithBitmap(bm), nil
	})
}

// SetBaseColor commits a new base colour.
func (e *Editor) SetBaseColor(hex string) error {
	hex, err := canonicalColor(hex)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.endDraftLocked(true)
	if cur, err := canonicalColor(e.base); err == nil && cur == hex {
		return nil
	}
	e.commitLocked("base color", hex, e.layers)
	return nil
}

// Checkpoint commits the current state unchanged, growing history by
// one entry.
func (e *Editor) Checkpoint() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.endDraftLocked(true)
	e.commitLocked("checkpoint", e.base, e.layers)
}

// Undo steps back one entry, discarding any draft.
func (e *Editor) Undo() bool {
	return e.step(e.hist.Undo)
}

// Redo steps forward one entry, discarding any draft.
func (e *Editor) Redo() bool {
	return e.step(e.hist.Redo)
}

func (e *Editor) step(move func() (history.Entry, bool)) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	e.endDraftLocked(false)
	entry, ok := move()
	if !ok {
		return false
	}
	changed := !e.layers.Equal(entry.Layers)
	e.base, e.layers = entry.BaseColor, entry.Layers
	if e.editing != "" && e.layers.Index(e.editing) < 0 {
		e.editing = ""
	}
	if changed {
		e.presets.Update(e.layers)
	}
	e.publishLocked()
	return true
}

// SetCameraDistance records the camera's distance from the origin, used
// to scale nudges.
func (e *Editor) SetCameraDistance(d float64) {
	if d <= 0 {
		return
	}
	e.mu.Lock()
	e.distance = d
	e.mu.Unlock()
}

// CameraDistance returns the last recorded camera distance.
func (e *Editor) CameraDistance() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.distance
}

// WatchCamera tracks the camera's distance through ctrl.
func (e *Editor) WatchCamera(ctrl scene.Controller, cam scene.Camera) (detach func()) {
	if ctrl == nil || cam == nil {
		return func() {}
	}
	e.SetCameraDistance(scene.Distance(cam))
	off := ctrl.OnChange(func() { e.SetCameraDistance(scene.Distance(cam)) })
	return e.track(off)
}

// track registers a detach function to run on Close and returns an
// idempotent wrapper.
func (e *Editor) track(off func()) func() {
	var once sync.Once
	wrapped := func() { once.Do(off) }
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		wrapped()
		return wrapped
	}
	e.detach = append(e.detach, wrapped)
	e.mu.Unlock()
	return wrapped
}

// Close ends the session: pending drafts are discarded, listeners are
// detached and palette work is cancelled. Later calls are no-ops.
func (e *Editor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.endDraftLocked(false)
	detach := e.detach
	e.detach = nil
	e.back = nil
	e.picker = nil
	clear(e.presses)
	e.mu.Unlock()

	for _, off := range detach {
		off()
	}
	e.presets.Close()
	designclo.Logger().Info("editor: closed")
}
