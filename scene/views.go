// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package scene

import "strings"

// View is a named camera position.
type View struct {
	Label    string
	Position Vec3
}

// Standard camera positions.
var (
	Home  = View{Label: "Home", Position: Vec3{0, 2, 5}}
	Front = View{Label: "Front", Position: Vec3{0, 2, 10}}
	Back  = View{Label: "Back", Position: Vec3{0, 2, -10}}
	Left  = View{Label: "Left", Position: Vec3{-10, 2, 0}}
	Right = View{Label: "Right", Position: Vec3{10, 2, 0}}
)

// DefaultViews are captured by an export, in order.
func DefaultViews() []View {
	return []View{Front, Back, Left, Right}
}

// LookupView finds a standard view by label, ignoring case.
func LookupView(label string) (View, bool) {
	for _, v := range append(DefaultViews(), Home) {
		if strings.EqualFold(v.Label, label) {
			return v, true
		}
	}
	return View{}, false
}
