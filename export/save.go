// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/danieljohnbyns/designclo"
)

// ErrExportSaveFailed is reported for every image a Saver rejects.
var ErrExportSaveFailed = errors.New("export: save failed")

// Saver is the platform image store.
type Saver interface {
	// SaveImage stores a data URI under name and reports success.
	SaveImage(name, dataURI string) bool
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(name, dataURI string) bool

// SaveImage calls f.
func (f SaverFunc) SaveImage(name, dataURI string) bool { return f(name, dataURI) }

// FileName is the name an exported view is saved under.
func FileName(label string, at time.Time) string {
	return fmt.Sprintf("designClo-%s-%d.png", label, at.UnixMilli())
}

// SaveAll saves every image, continuing past failures. It returns how
// many were saved and one ErrExportSaveFailed per failure, joined.
func SaveAll(s Saver, images []Image, now func() time.Time) (int, error) {
	if now == nil {
		now = time.Now
	}
	saved := 0
	var errs []error
	for _, img := range images {
		name := FileName(img.Label, now())
		if !s.SaveImage(name, img.Source) {
			designclo.Logger().Warn("export: save failed", "name", name)
			errs = append(errs, fmt.Errorf("%w: %s", ErrExportSaveFailed, name))
			continue
		}
		saved++
	}
	return saved, errors.Join(errs...)
}

// DirSaver writes images as PNG files into a directory.
type DirSaver struct {
	Dir string
}

// SaveImage writes the decoded PNG to Dir/name.
func (d DirSaver) SaveImage(name, dataURI string) bool {
	data, err := DecodeDataURI(dataURI)
	if err != nil {
		designclo.Logger().Warn("export: bad data uri", "name", name, "error", err)
		return false
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		designclo.Logger().Warn("export: mkdir failed", "dir", d.Dir, "error", err)
		return false
	}
	if err := os.WriteFile(filepath.Join(d.Dir, filepath.Base(name)), data, 0o644); err != nil {
		designclo.Logger().Warn("export: write failed", "name", name, "error", err)
		return false
	}
	return true
}
