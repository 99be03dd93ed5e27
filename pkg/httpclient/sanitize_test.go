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

package httpclient

import (
	"net/url"
	"strings"
	"testing"
)

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name     string
		rawURL   string
		redacted []string
		kept     []string
	}{
		{
			name:     "api key redacted",
			rawURL:   "https://api.simplex.sh/search_workflows?api_key=sx-secret&workflow_name=demo",
			redacted: []string{"sx-secret"},
			kept:     []string{"workflow_name=demo"},
		},
		{
			name:     "signed session token redacted",
			rawURL:   "https://tunnel-3.simplex.sh/session/abc/stream?token=eyJhbGc",
			redacted: []string{"eyJhbGc"},
			kept:     []string{"/session/abc/stream"},
		},
		{
			name:   "plain params untouched",
			rawURL: "https://api.simplex.sh/session/abc/status?since=0&limit=100",
			kept:   []string{"since=0", "limit=100"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.rawURL)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			got := sanitizeURL(u)

			for _, secret := range tt.redacted {
				if strings.Contains(got, secret) {
					t.Errorf("sanitized URL still contains %q: %s", secret, got)
				}
			}
			for _, want := range tt.kept {
				if !strings.Contains(got, want) {
					t.Errorf("sanitized URL lost %q: %s", want, got)
				}
			}
		})
	}
}

func TestSanitizeURL_Nil(t *testing.T) {
	if got := sanitizeURL(nil); got != "" {
		t.Errorf("expected empty string for nil URL, got %q", got)
	}
}
