// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package editor

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/gg"

	"github.com/danieljohnbyns/designclo/compositor"
)

// canonicalColor validates a "#"-prefixed hex colour and returns it as
// lower-case #rrggbb, or #rrggbbaa when it is not opaque.
func canonicalColor(hex string) (string, error) {
	if !strings.HasPrefix(hex, "#") {
		return "", fmt.Errorf("%w: %q", compositor.ErrInvalidColor, hex)
	}
	c, err := gg.ParseHex(hex)
	if err != nil {
		return "", fmt.Errorf("%w: %q", compositor.ErrInvalidColor, hex)
	}
	r, g, b, a := channel(c.R), channel(c.G), channel(c.B), channel(c.A)
	if a == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b), nil
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a), nil
}

func channel(v float64) uint8 {
	return uint8(math.Round(min(max(v, 0), 1) * 255))
}
