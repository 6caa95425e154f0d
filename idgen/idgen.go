// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

// Package idgen provides pluggable identifier generation for layers,
// history entries and assets.
//
// Every constructor in designclo that mints ids accepts a [Generator], so
// tests and scripted sessions can swap in [Sequence] for stable output.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator producing RFC 9562 UUID v7 strings, which
// sort by creation time.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed wraps gen and prepends prefix to every id.
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Sequence returns a deterministic Generator yielding prefix-1, prefix-2,
// and so on. Safe for concurrent use.
func Sequence(prefix string) Generator {
	var n atomic.Uint64
	return func() string {
		return prefix + "-" + strconv.FormatUint(n.Add(1), 10)
	}
}

// Layer is the default generator for layer ids.
func Layer() Generator { return Prefixed("layer-", UUIDv7()) }

// Entry is the default generator for history entry ids.
func Entry() Generator { return Prefixed("history-", UUIDv7()) }

// Asset is the default generator for asset ids.
func Asset() Generator { return Prefixed("asset-", UUIDv7()) }

// Valid reports whether s ends in a well-formed UUID after stripping the
// given prefix.
func Valid(prefix, s string) bool {
	if len(s) < len(prefix) || s[:len(prefix)] != prefix {
		return false
	}
	_, err := uuid.Parse(s[len(prefix):])
	return err == nil
}
