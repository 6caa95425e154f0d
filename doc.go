// Package designclo is the editing core of a garment customizer.
//
// # Overview
//
// A design is a base colour plus an ordered stack of text and image
// layers composited onto a square texture that a 3D model samples. The
// core owns everything between a pointer event and the pixels in that
// texture:
//
//   - [github.com/danieljohnbyns/designclo/layer]: immutable layer values and persistent layer lists
//   - [github.com/danieljohnbyns/designclo/compositor]: repaints the texture from the current state every frame
//   - [github.com/danieljohnbyns/designclo/interaction]: turns a UV pick plus the active tool into a new layer
//   - [github.com/danieljohnbyns/designclo/history]: bounded, branch-discarding undo/redo log
//   - [github.com/danieljohnbyns/designclo/editor]: tool, panel, asset and draft state tying it all together
//
// Supporting packages load fonts (fonts), decode and watch image assets
// (asset), extract colour presets (palette), talk to the image
// generation service (assetgen), capture views (export) and read the
// YAML configuration (config). The designclo command replays edit
// scripts headlessly; designclo-view is an interactive preview.
//
// The 3D scene, the asset generation service and the platform image
// saver are collaborators described only by interfaces in the scene,
// assetgen and export packages.
//
// # Quick Start
//
//	ed := editor.New(editor.WithTextureSize(1024, 1024))
//	defer ed.Close()
//
//	ed.SelectTool(interaction.ToolText)
//	ed.Pick(interaction.Pick{UV: scene.UV{X: 0.5, Y: 0.5}, Hit: true})
//
//	tex, _ := surface.New(1024, 1024)
//	defer tex.Close()
//	comp := compositor.New(fonts.Default())
//	if err := comp.Repaint(tex, ed.Frame()); err != nil {
//		// handle error
//	}
//
// # Logging
//
// Nothing is logged unless [SetLogger] is called. All sub-packages share
// the logger returned by [Logger].
package designclo
