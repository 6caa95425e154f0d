// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

// Package interaction turns pick results into layer placements.
//
// [Resolve] is a pure function: it reads the pick, the active tool and
// the active asset and reports what should happen. Applying the result
// (committing the layer, clearing the tool, deselecting assets) is the
// caller's job.
package interaction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danieljohnbyns/designclo/asset"
	"github.com/danieljohnbyns/designclo/idgen"
	"github.com/danieljohnbyns/designclo/layer"
	"github.com/danieljohnbyns/designclo/scene"
)

// ErrNoAssetSelected is returned when the image tool is used without an
// active asset.
var ErrNoAssetSelected = errors.New("interaction: no asset selected")

// ImageScale is the default image layer size as a fraction of the
// texture width.
const ImageScale = 0.25

// Tool is the placement tool armed by the user.
type Tool uint8

const (
	ToolNone Tool = iota
	ToolText
	ToolImage
)

// String returns the tool name.
func (t Tool) String() string {
	switch t {
	case ToolNone:
		return "none"
	case ToolText:
		return "text"
	case ToolImage:
		return "image"
	default:
		return fmt.Sprintf("Tool(%d)", t)
	}
}

// ParseTool parses a tool name as returned by String. The empty string
// is ToolNone.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ToolNone, nil
	case "text":
		return ToolText, nil
	case "image":
		return ToolImage, nil
	}
	return ToolNone, fmt.Errorf("interaction: unknown tool %q", s)
}

// Pick is the outcome of a ray cast against the model.
type Pick struct {
	UV  scene.UV
	Hit bool
}

// FromHit builds a Pick from a picker result.
func FromHit(h scene.Hit, ok bool) Pick {
	return Pick{UV: h.UV, Hit: ok}
}

// Action is what the caller should do with a Result.
type Action uint8

const (
	// ActionNone leaves the editor unchanged.
	ActionNone Action = iota

	// ActionPlace appends Result.Layer and makes it the editing target.
	ActionPlace

	// ActionDeselect clears the editing target.
	ActionDeselect
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionPlace:
		return "place"
	case ActionDeselect:
		return "deselect"
	default:
		return fmt.Sprintf("Action(%d)", a)
	}
}

// Result describes the effect of one pick.
type Result struct {
	Action Action
	Layer  layer.Layer
}

// Resolve decides what a pick does.
//
// A miss, or a hit with no tool, deselects. The text tool places a
// default text layer at the hit. The image tool places the active
// asset's bitmap at a quarter of textureWidth; without an active asset
// it fails with ErrNoAssetSelected and places nothing.
func Resolve(p Pick, tool Tool, active *asset.Asset, textureWidth int, ids idgen.Generator) (Result, error) {
	if !p.Hit || tool == ToolNone {
		return Result{Action: ActionDeselect}, nil
	}
	if ids == nil {
		ids = idgen.Layer()
	}

	place := func() layer.Placement {
		return layer.Placement{
			ID:       ids(),
			Position: layer.Point{X: p.UV.X * 100, Y: p.UV.Y * 100},
		}
	}

	switch tool {
	case ToolText:
		return Result{Action: ActionPlace, Layer: layer.NewText(place())}, nil
	case ToolImage:
		if active == nil || active.Bitmap == nil {
			return Result{Action: ActionNone}, ErrNoAssetSelected
		}
		size := ImageScale * float64(textureWidth)
		return Result{Action: ActionPlace, Layer: layer.NewImage(place(), active.Bitmap, size)}, nil
	}
	return Result{Action: ActionNone}, fmt.Errorf("interaction: unknown tool %v", tool)
}
