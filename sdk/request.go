// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// do performs one request through the retrying client and maps failures:
// transport errors become *NetworkError, non-2xx statuses become the typed
// error for their status code. The caller owns the response body.
func (c *Client) do(ctx context.Context, method, rawURL string, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, networkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, errorFromResponse(resp)
	}

	return resp, nil
}

// endpoint joins a path onto the configured base address.
func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

// withQuery appends query parameters to a URL.
func withQuery(rawURL string, params url.Values) string {
	if len(params) == 0 {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + params.Encode()
}

// getJSON performs a GET against an API path and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	return c.getJSONURL(ctx, c.endpoint(path), params, out)
}

// getJSONURL performs a GET against a fully-qualified URL. Used for
// session-scoped endpoints that live on dynamically allocated hosts.
func (c *Client) getJSONURL(ctx context.Context, rawURL string, params url.Values, out any) error {
	resp, err := c.do(ctx, http.MethodGet, withQuery(rawURL, params), "", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeJSON(resp.Body, out)
}

// postForm performs a form-encoded POST. Composite values (maps, slices,
// structs) are JSON-serialized before encoding; scalars are stringified.
// Nil values are dropped.
func (c *Client) postForm(ctx context.Context, path string, fields map[string]any, out any) error {
	form := url.Values{}
	for key, value := range fields {
		if value == nil {
			continue
		}
		encoded, err := encodeFormValue(value)
		if err != nil {
			return fmt.Errorf("encoding field %s: %w", key, err)
		}
		form.Set(key, encoded)
	}

	var body io.Reader
	if len(form) > 0 {
		body = strings.NewReader(form.Encode())
	}

	resp, err := c.do(ctx, http.MethodPost, c.endpoint(path), "application/x-www-form-urlencoded", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeJSON(resp.Body, out)
}

// encodeFormValue stringifies a form field: strings pass through, every
// composite value is JSON-serialized, other scalars use fmt.
func encodeFormValue(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool, int, int32, int64, float32, float64:
		return fmt.Sprintf("%v", v), nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
}

// sendJSON performs a POST or PATCH with a JSON body against an API path.
func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	return c.sendJSONURL(ctx, method, c.endpoint(path), payload, out)
}

// sendJSONURL performs a JSON request against a fully-qualified URL.
func (c *Client) sendJSONURL(ctx context.Context, method, rawURL string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	resp, err := c.do(ctx, method, rawURL, "application/json", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeJSON(resp.Body, out)
}

// download performs a GET and returns the raw response bytes without JSON
// parsing.
func (c *Client) download(ctx context.Context, path string, params url.Values) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, withQuery(c.endpoint(path), params), "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(err)
	}
	return data, nil
}

func decodeJSON(r io.Reader, out any) error {
	if out == nil {
		_, err := io.Copy(io.Discard, r)
		return err
	}
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
