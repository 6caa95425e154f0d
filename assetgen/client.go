// Copyright 2026 The designclo Authors
// SPDX-License-Identifier: MIT

// Package assetgen talks to the prompt-to-image asset service.
//
// The service exposes two endpoints:
//
//	POST /prompt       multipart form: prompt, remove_background
//	GET  /file/{file}  the generated image
//
// Failures are returned as errors wrapping [ErrPromptGenerationFailed]
// or [ErrAssetFetchFailed]. Nothing is retried.
package assetgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danieljohnbyns/designclo"
	"github.com/danieljohnbyns/designclo/asset"
)

var (
	// ErrEmptyPrompt is returned for a blank prompt.
	ErrEmptyPrompt = errors.New("assetgen: empty prompt")

	// ErrPromptTooLong is returned for prompts over MaxPromptRunes.
	ErrPromptTooLong = errors.New("assetgen: prompt too long")

	// ErrPromptGenerationFailed wraps failures of the prompt endpoint.
	ErrPromptGenerationFailed = errors.New("assetgen: prompt generation failed")

	// ErrAssetFetchFailed wraps failures of the file endpoint.
	ErrAssetFetchFailed = errors.New("assetgen: asset fetch failed")
)

const (
	// MaxPromptRunes bounds the prompt length.
	MaxPromptRunes = 512

	// DefaultTimeout bounds each request.
	DefaultTimeout = 60 * time.Second

	errBodyLimit = 512
)

// Generation is the service's answer to a prompt.
type Generation struct {
	ID        string   `json:"id"`
	CreatedAt string   `json:"created_at"`
	File      string   `json:"file"`
	Prompt    string   `json:"prompt"`
	Tags      []string `json:"tags"`
}

// Client calls the asset service.
type Client struct {
	base   string
	client *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client = &http.Client{Timeout: d}
		}
	}
}

// NewClient returns a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckPrompt trims p and validates it.
func CheckPrompt(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", ErrEmptyPrompt
	}
	if utf8.RuneCountInString(p) > MaxPromptRunes {
		return "", ErrPromptTooLong
	}
	return p, nil
}

// Generate submits a prompt. A response without a file name is a
// failure.
func (c *Client) Generate(ctx context.Context, prompt string, removeBackground bool) (Generation, error) {
	prompt, err := CheckPrompt(prompt)
	if err != nil {
		return Generation{}, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("prompt", prompt); err != nil {
		return Generation{}, fmt.Errorf("%w: %v", ErrPromptGenerationFailed, err)
	}
	if err := mw.WriteField("remove_background", strconv.FormatBool(removeBackground)); err != nil {
		return Generation{}, fmt.Errorf("%w: %v", ErrPromptGenerationFailed, err)
	}
	if err := mw.Close(); err != nil {
		return Generation{}, fmt.Errorf("%w: %v", ErrPromptGenerationFailed, err)
	}

	u := c.base + "/prompt"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &body)
	if err != nil {
		return Generation{}, fmt.Errorf("%w: %v", ErrPromptGenerationFailed, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return Generation{}, fmt.Errorf("%w: POST %s: %v", ErrPromptGenerationFailed, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		return Generation{}, fmt.Errorf("%w: HTTP %d from %s: %s", ErrPromptGenerationFailed, resp.StatusCode, u, strings.TrimSpace(string(msg)))
	}

	var g Generation
	if err := json.NewDecoder(resp.Body).Decode(&g); err != nil {
		return Generation{}, fmt.Errorf("%w: decode response: %v", ErrPromptGenerationFailed, err)
	}
	if g.File == "" {
		return Generation{}, fmt.Errorf("%w: no file in response", ErrPromptGenerationFailed)
	}
	designclo.Logger().Debug("assetgen: generated", "id", g.ID, "file", g.File, "tags", len(g.Tags))
	return g, nil
}

// Fetch downloads a generated file.
func (c *Client) Fetch(ctx context.Context, file string) ([]byte, error) {
	if file == "" {
		return nil, fmt.Errorf("%w: empty file name", ErrAssetFetchFailed)
	}
	u := c.base + "/file/" + url.PathEscape(file)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetFetchFailed, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrAssetFetchFailed, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		return nil, fmt.Errorf("%w: HTTP %d from %s: %s", ErrAssetFetchFailed, resp.StatusCode, u, strings.TrimSpace(string(msg)))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, asset.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrAssetFetchFailed, u, err)
	}
	if len(data) > asset.MaxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrAssetFetchFailed, u, asset.MaxBytes)
	}
	return data, nil
}

// Create generates an image from prompt, downloads it and adds it to
// lib. Nothing is added on failure.
func (c *Client) Create(ctx context.Context, lib *asset.Library, prompt string, removeBackground bool) (asset.Asset, Generation, error) {
	g, err := c.Generate(ctx, prompt, removeBackground)
	if err != nil {
		return asset.Asset{}, Generation{}, err
	}
	data, err := c.Fetch(ctx, g.File)
	if err != nil {
		return asset.Asset{}, g, err
	}
	a, err := lib.LoadBytes(c.base+"/file/"+g.File, data)
	if err != nil {
		return asset.Asset{}, g, err
	}
	return a, g, nil
}
