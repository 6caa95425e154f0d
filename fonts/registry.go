// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

// Package fonts keeps the set of font families text layers may use.
//
// A [Registry] starts with the Go font families bundled in
// golang.org/x/image and grows with fonts loaded from disk. Family
// lookups ignore case and spaces. Aliases map the web-safe names a design
// refers to ("Arial", "Monospace") onto families that are actually
// present, and [Registry.Probe] reports which names of a candidate list
// can be rendered.
package fonts

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-text/typesetting/font"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"

	"github.com/danieljohnbyns/designclo"
	"github.com/danieljohnbyns/designclo/internal/lru"
)

var (
	// ErrFontUnavailable is returned for families that are neither
	// registered nor aliased.
	ErrFontUnavailable = errors.New("fonts: font unavailable")

	// ErrInvalidFont is returned when font data cannot be parsed.
	ErrInvalidFont = errors.New("fonts: invalid font data")
)

// Bundled family names.
const (
	Go          = "Go"
	GoMono      = "Go Mono"
	GoMedium    = "Go Medium"
	GoSmallcaps = "Go Smallcaps"
)

// Candidates is the list of families a design may offer, in display order.
var Candidates = []string{
	"Arial",
	"Verdana",
	"Tahoma",
	"Trebuchet MS",
	"Times New Roman",
	"Georgia",
	"Garamond",
	"Courier New",
	"Brush Script MT",
	"Roboto",
	"Open Sans",
	"Lato",
	"Montserrat",
	"Raleway",
	"Poppins",
	"Monospace",
}

type family struct {
	name string
	src  *text.FontSource
}

type faceKey struct {
	family string
	size   float64
}

// Registry maps family names to font sources. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	families map[string]*family
	aliases  map[string]string
	order    []string
	fallback string
	faces    *lru.Cache[faceKey, text.Face]
}

// NewRegistry returns a registry holding the bundled Go families, with
// "Arial" aliased to Go and "Monospace" to Go Mono.
func NewRegistry(opts ...Option) (*Registry, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Registry{
		families: make(map[string]*family),
		aliases:  make(map[string]string),
		faces:    lru.New[faceKey, text.Face](o.faceCache),
	}
	bundled := []struct {
		name string
		data []byte
	}{
		{Go, goregular.TTF},
		{GoMono, gomono.TTF},
		{GoMedium, gomedium.TTF},
		{GoSmallcaps, gosmallcaps.TTF},
	}
	for _, b := range bundled {
		if err := r.RegisterAs(b.name, b.data); err != nil {
			r.Close()
			return nil, err
		}
	}
	for alias, target := range o.aliases {
		if err := r.Alias(alias, target); err != nil {
			r.Close()
			return nil, err
		}
	}
	if !r.Has(o.fallback) {
		r.Close()
		return nil, fmt.Errorf("%w: fallback %q", ErrFontUnavailable, o.fallback)
	}
	r.fallback = font.NormalizeFamily(o.fallback)
	return r, nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic("fonts: bundled fonts failed to load: " + err.Error())
	}
	return r
})

// Default returns a shared registry with only the bundled families.
func Default() *Registry { return defaultRegistry() }

// Register parses data and registers it under the family name stored in
// the font. It returns that family name.
func (r *Registry) Register(data []byte) (string, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}
	name := face.Describe().Family
	if name == "" {
		return "", fmt.Errorf("%w: missing family name", ErrInvalidFont)
	}
	return name, r.RegisterAs(name, data)
}

// RegisterAs registers data under name, replacing any family with the
// same normalised name.
func (r *Registry) RegisterAs(name string, data []byte) error {
	src, err := text.NewFontSource(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidFont, name, err)
	}
	key := font.NormalizeFamily(name)

	r.mu.Lock()
	old, replaced := r.families[key]
	r.families[key] = &family{name: name, src: src}
	if !replaced {
		r.order = append(r.order, name)
	}
	delete(r.aliases, key)
	r.mu.Unlock()

	if replaced {
		r.faces.DeleteFunc(func(k faceKey) bool { return k.family == key })
		_ = old.src.Close()
	}
	designclo.Logger().Debug("fonts: registered", "family", name)
	return nil
}

// LoadDir registers every .ttf and .otf file in dir. Files that fail to
// parse are logged and skipped. It returns the registered family names.
func (r *Registry) LoadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("fonts: read dir: %w", err)
	}
	var loaded []string
	for _, e := range entries {
		if e.IsDir() || !isFontFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			designclo.Logger().Warn("fonts: read failed", "path", path, "error", err)
			continue
		}
		name, err := r.Register(data)
		if err != nil {
			designclo.Logger().Warn("fonts: skipped", "path", path, "error", err)
			continue
		}
		loaded = append(loaded, name)
	}
	return loaded, nil
}

func isFontFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttf", ".otf":
		return true
	}
	return false
}

// Alias makes name resolve to target. The target must already be
// registered; aliases never chain.
func (r *Registry) Alias(name, target string) error {
	key, tkey := font.NormalizeFamily(name), font.NormalizeFamily(target)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.families[tkey]; !ok {
		if resolved, ok := r.aliases[tkey]; ok {
			tkey = resolved
		} else {
			return fmt.Errorf("%w: alias target %q", ErrFontUnavailable, target)
		}
	}
	if _, ok := r.families[key]; ok {
		return nil
	}
	r.aliases[key] = tkey
	return nil
}

func (r *Registry) resolveLocked(name string) (*family, bool) {
	key := font.NormalizeFamily(name)
	if f, ok := r.families[key]; ok {
		return f, true
	}
	if target, ok := r.aliases[key]; ok {
		f, ok := r.families[target]
		return f, ok
	}
	return nil, false
}

// Resolve returns the registered family name that name maps to.
func (r *Registry) Resolve(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.resolveLocked(name)
	if !ok {
		return "", false
	}
	return f.name, true
}

// Has reports whether name can be rendered without falling back.
func (r *Registry) Has(name string) bool {
	_, ok := r.Resolve(name)
	return ok
}

// Probe returns the subset of candidates that can be rendered, in input
// order and without duplicates.
func (r *Registry) Probe(candidates []string) []string {
	available := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		key := font.NormalizeFamily(c)
		if seen[key] || !r.Has(c) {
			continue
		}
		seen[key] = true
		available = append(available, c)
	}
	return available
}

// Families returns registered family names in registration order.
func (r *Registry) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Face returns a face for name at size pixels. Unknown names use the
// fallback family. Faces are cached per family and size.
func (r *Registry) Face(name string, size float64) text.Face {
	r.mu.RLock()
	f, ok := r.resolveLocked(name)
	if !ok {
		f, ok = r.families[r.fallback]
	}
	r.mu.RUnlock()
	if !ok || size <= 0 {
		return nil
	}
	key := faceKey{family: font.NormalizeFamily(f.name), size: size}
	return r.faces.GetOrCreate(key, func() text.Face { return f.src.Face(size) })
}

// CacheStats reports face cache counters.
func (r *Registry) CacheStats() lru.Stats { return r.faces.Stats() }

// Close releases every font source. The registry must not be used
// afterwards.
func (r *Registry) Close() {
	r.faces.Clear()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.families {
		_ = f.src.Close()
	}
	r.families = map[string]*family{}
	r.aliases = map[string]string{}
	r.order = nil
}
