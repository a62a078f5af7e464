// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package providers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wellspring/internal/logging"
)

// maxErrorBodySize limits how much of a failed response is kept for the error.
const maxErrorBodySize = 4 * 1024

// StatusError is a non-2xx reply from a provider.
type StatusError struct {
	Provider   string
	StatusCode int
	URL        string // redacted
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d for %s: %s", e.Provider, e.StatusCode, e.URL, e.Body)
}

// httpClient is the subset of *http.Client the sources use.
type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// getJSON issues a GET and decodes a 2xx JSON body into out.
func getJSON(ctx context.Context, client httpClient, provider, reqURL string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		// *url.Error embeds the full request URL.
		return fmt.Errorf("%s request to %s: %w", provider, logging.RedactURL(reqURL), unwrapURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			URL:        logging.RedactURL(reqURL),
			Body:       readBodyForError(resp.Body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", provider, err)
	}
	return nil
}

func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	return strings.TrimSpace(string(body))
}

// unwrapURLError drops the *url.Error wrapper, whose message repeats the
// unredacted URL, and keeps its cause.
func unwrapURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		return uerr.Err
	}
	return err
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// plainText strips markup and entities from provider text fields. Some
// providers escape their markup, so entities are decoded before tags are
// removed.
func plainText(s string) string {
	s = html.UnescapeString(s)
	s = htmlTag.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
