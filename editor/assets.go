// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package editor

import (
	"context"
	"errors"
	"io"

	"github.com/danieljohnbyns/designclo/asset"
	"github.com/danieljohnbyns/designclo/assetgen"
)

// AddAsset decodes r into the asset library. Undecodable images are
// reported and not added.
func (e *Editor) AddAsset(source string, r io.Reader) (asset.Asset, error) {
	a, err := e.assets.Load(source, r)
	if err != nil {
		e.notify(Notification{
			Level:   LevelError,
			Title:   "Invalid Image",
			Message: "The selected file could not be read as an image.",
			Err:     err,
		})
		return asset.Asset{}, err
	}
	return a, nil
}

// GenerateAsset asks the asset service for an image from prompt and
// adds it to the library. On failure the library is unchanged and the
// error is reported.
func (e *Editor) GenerateAsset(ctx context.Context, c *assetgen.Client, prompt string, removeBackground bool) (asset.Asset, error) {
	a, _, err := c.Create(ctx, e.assets, prompt, removeBackground)
	if err == nil {
		return a, nil
	}
	n := Notification{Level: LevelError, Title: "Error Creating Asset", Message: err.Error(), Err: err}
	switch {
	case errors.Is(err, assetgen.ErrEmptyPrompt):
		n.Title = "Empty Prompt"
		n.Message = "Please enter a prompt to create an asset."
	case errors.Is(err, assetgen.ErrPromptGenerationFailed):
		n.Message = "Failed to create asset. Please try again."
	}
	e.notify(n)
	return asset.Asset{}, err
}
