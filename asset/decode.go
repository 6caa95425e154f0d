// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrImageDecodeFailed is returned for corrupt or unsupported images. The
// asset is not added.
var ErrImageDecodeFailed = errors.New("asset: image decode failed")

// Limits applied before decoding.
const (
	MaxBytes  = 64 << 20
	MaxPixels = 8192 * 8192
)

// Decode reads an image in any supported format: PNG, JPEG, GIF, WebP,
// BMP or TIFF. It returns the image and the format name.
func Decode(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrImageDecodeFailed, err)
	}
	return DecodeBytes(data)
}

// DecodeBytes is Decode for in-memory data.
func DecodeBytes(data []byte) (image.Image, string, error) {
	if len(data) > MaxBytes {
		return nil, "", fmt.Errorf("%w: larger than %d bytes", ErrImageDecodeFailed, MaxBytes)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrImageDecodeFailed, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > MaxPixels {
		return nil, "", fmt.Errorf("%w: unsupported size %dx%d", ErrImageDecodeFailed, cfg.Width, cfg.Height)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrImageDecodeFailed, err)
	}
	return img, format, nil
}

// IsImageFile reports whether path has an extension Decode understands.
func IsImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}
