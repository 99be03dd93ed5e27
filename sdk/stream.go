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
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// Stream is a live feed of session events delivered over server-sent
// events. Read it with Next; a Stream is not safe for concurrent use.
type Stream struct {
	body    interface{ Close() error }
	scanner *bufio.Scanner
}

// streamBufferSize bounds a single event line. Events carry full agent
// messages, so the default 64K scanner limit is too small.
const streamBufferSize = 1 << 20

// StreamSession connects to a session's event stream. The URL comes from
// a prior response (RunWorkflowResponse.LogsURL or equivalent) and is used
// exactly as given. The connection has no read timeout; cancel ctx to
// abandon the stream early.
func (c *Client) StreamSession(ctx context.Context, streamURL string) (*Stream, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return nil, networkError(err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, networkError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, errorFromResponse(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), streamBufferSize)

	return &Stream{body: resp.Body, scanner: scanner}, nil
}

// Next returns the next event from the stream. Lines that are not data
// frames and frames that are not valid JSON are skipped silently. ok is
// false once the stream ends, whether the session completed or the
// connection dropped; both are a clean end of stream.
func (s *Stream) Next() (json.RawMessage, bool) {
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")
		if !json.Valid([]byte(payload)) {
			continue
		}
		return json.RawMessage(payload), true
	}
	return nil, false
}

// Close releases the underlying connection. Safe to call more than once.
func (s *Stream) Close() error {
	if s.body == nil {
		return nil
	}
	err := s.body.Close()
	s.body = nil
	s.scanner = bufio.NewScanner(bytes.NewReader(nil))
	return err
}
