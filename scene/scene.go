// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

// Package scene describes the 3D collaborators the editing core talks to.
//
// The model, its scene graph and the GPU renderer live outside this
// module. The core only needs to pick a UV coordinate under the pointer,
// move and observe the camera, and capture rendered frames; those
// capabilities are the interfaces below. [DynamicState] bundles them
// together with the texture the model samples.
//
// The package also provides small implementations used by the headless
// tools and the flat preview: [OrbitCamera], [PlanePicker] and
// [FlatRenderer].
package scene

import (
	"errors"
	"image"
	"math"

	"github.com/danieljohnbyns/designclo/surface"
)

// ErrNotReady is returned when an operation needs collaborators that have
// not been attached yet.
var ErrNotReady = errors.New("scene: not ready")

// Vec3 is a point or direction in world space.
type Vec3 struct {
	X, Y, Z float64
}

// Len returns the vector length.
func (v Vec3) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Lerp interpolates from v to o by t in [0, 1].
func (v Vec3) Lerp(o Vec3, t float64) Vec3 { return v.Add(o.Sub(v).Scale(t)) }

// UV is a normalised texture coordinate in [0, 1] on both axes.
type UV struct {
	X, Y float64
}

// Hit is the result of a successful pick.
type Hit struct {
	UV UV

	// Object names the mesh that was hit, if the picker knows it.
	Object string
}

// Picker casts a ray from a screen position into the scene.
type Picker interface {
	// Pick returns the first textured hit under (x, y) in screen pixels.
	Pick(x, y float64) (Hit, bool)
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(x, y float64) (Hit, bool)

// Pick calls f.
func (f PickerFunc) Pick(x, y float64) (Hit, bool) { return f(x, y) }

// Camera is the viewpoint. It always looks at the origin.
type Camera interface {
	Position() Vec3
	SetPosition(Vec3)
}

// Distance returns the camera's distance from the origin.
func Distance(c Camera) float64 {
	if c == nil {
		return 0
	}
	return c.Position().Len()
}

// Controller reports camera changes made by user interaction or
// animation.
type Controller interface {
	// OnChange registers fn and returns a function that unregisters it.
	OnChange(fn func()) (detach func())
}

// Renderer draws the scene.
type Renderer interface {
	// Render draws one frame of the scene from the current camera.
	Render() error

	// Snapshot returns the last rendered frame. Areas not covered by the
	// model are transparent.
	Snapshot() (image.Image, error)
}

// DynamicState is owned by the 3D collaborator and read by the core.
// Fields stay nil until the scene has loaded.
type DynamicState struct {
	Texture    *surface.Texture
	Camera     Camera
	Controller Controller
	Renderer   Renderer
	Picker     Picker

	// Scene is the collaborator's scene graph. The core never inspects
	// it.
	Scene any
}

// Ready reports whether everything needed for rendering and export is
// attached.
func (s *DynamicState) Ready() bool {
	return s != nil && s.Texture != nil && s.Camera != nil && s.Renderer != nil
}
