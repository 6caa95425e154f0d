// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
)

const pngPrefix = "data:image/png;base64,"

// ErrInvalidDataURI is returned for data URIs that are not base64 PNG.
var ErrInvalidDataURI = errors.New("export: invalid data uri")

// DataURI encodes img as a base64 PNG data URI.
func DataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img); err != nil {
		return "", err
	}
	return pngPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURI returns the PNG bytes carried by a data URI.
func DecodeDataURI(uri string) ([]byte, error) {
	payload, ok := strings.CutPrefix(uri, pngPrefix)
	if !ok {
		return nil, ErrInvalidDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.Join(ErrInvalidDataURI, err)
	}
	return data, nil
}

// DecodeImage decodes the image carried by a data URI.
func DecodeImage(uri string) (image.Image, error) {
	data, err := DecodeDataURI(uri)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Join(ErrInvalidDataURI, err)
	}
	return img, nil
}
