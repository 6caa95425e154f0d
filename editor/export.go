// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

package editor

import (
	"context"
	"fmt"
	"time"

	"github.com/danieljohnbyns/designclo/export"
	"github.com/danieljohnbyns/designclo/scene"
)

// Export captures views of state. The selection outline, tool and
// panels are cleared first; afterwards the camera returns to the front
// view, animated when the editor has an animator.
func (e *Editor) Export(ctx context.Context, state *scene.DynamicState, views []scene.View, opts ...export.Option) ([]export.Image, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrClosed
	}
	e.clearSelectionLocked()
	e.panel = PanelNone
	e.publishLocked()
	e.mu.Unlock()

	images, err := export.Capture(ctx, state, views, opts...)
	if err != nil {
		e.notify(Notification{Level: LevelError, Title: "Export Failed", Message: err.Error(), Err: err})
		return images, err
	}
	if e.animator != nil {
		e.animator.Animate(scene.Front.Position, scene.DefaultTransition)
	} else {
		state.Camera.SetPosition(scene.Front.Position)
	}
	return images, nil
}

// SaveExport saves the chosen images and reports the outcome. Failed
// saves do not stop the batch.
func (e *Editor) SaveExport(s export.Saver, images []export.Image, now func() time.Time) (int, error) {
	saved, err := export.SaveAll(s, images, now)
	if err != nil {
		e.notify(Notification{
			Level:   LevelError,
			Title:   "Export Failed",
			Message: fmt.Sprintf("%d of %d images could not be saved.", len(images)-saved, len(images)),
			Err:     err,
		})
		return saved, err
	}
	e.notify(Notification{
		Level:   LevelSuccess,
		Title:   "Export Successful",
		Message: "Selected images have been exported successfully.",
	})
	return saved, nil
}
