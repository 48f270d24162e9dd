// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Fetcher retrieves a remote artifact into a local path. The edition
// installer depends on this interface; tests substitute a recorder.
type Fetcher interface {
	Fetch(ctx context.Context, url, destination string) error
}

// Client streams remote files to disk with a retrying HTTP transport.
type Client struct {
	http *retryablehttp.Client
}

// NewClient returns a Client with sane retry defaults for release downloads.
func NewClient() *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 4
	rc.RetryWaitMin = 1 * time.Second
	rc.RetryWaitMax = 15 * time.Second
	rc.Logger = nil
	return &Client{http: rc}
}

// Fetch downloads url into destination, creating parent directories as
// needed. The body is streamed straight to disk. After a successful write
// the file is marked executable unless the destination names a directory or
// a desktop-entry file.
func (c *Client) Fetch(ctx context.Context, url, destination string) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return &Error{URL: url, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return &Error{URL: url, Err: err}
	}

	f, err := os.Create(destination)
	if err != nil {
		return &Error{URL: url, Err: err}
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(destination)
		return &Error{URL: url, Err: err}
	}
	if err := f.Close(); err != nil {
		return &Error{URL: url, Err: err}
	}

	if Executable(destination) {
		if err := os.Chmod(destination, 0o755); err != nil {
			return &Error{URL: url, Err: err}
		}
	}
	return nil
}

// Executable reports whether a fetched path should get the executable bit:
// everything except directory paths and desktop-entry files.
func Executable(destination string) bool {
	if strings.HasSuffix(destination, string(os.PathSeparator)) || strings.HasSuffix(destination, "/") {
		return false
	}
	return !strings.HasSuffix(destination, ".desktop")
}

// Error reports a failed download: network failure, non-success status, or
// local write failure. The pipeline treats any of these as fatal.
type Error struct {
	URL string
	Err error
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

var _ Fetcher = (*Client)(nil)
