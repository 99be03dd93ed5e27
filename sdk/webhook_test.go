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
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"testing"
)

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhook(t *testing.T) {
	body := []byte(`{"success": true, "session_id": "sess-1"}`)
	header := http.Header{}
	header.Set(SignatureHeader, signBody(body, "secret-1"))

	if err := VerifyWebhook(body, header, "secret-1"); err != nil {
		t.Fatalf("VerifyWebhook: %v", err)
	}
}

func TestVerifyWebhookRejects(t *testing.T) {
	body := []byte(`{"success": true}`)
	valid := signBody(body, "secret-1")

	tests := []struct {
		name      string
		body      []byte
		signature string
		secret    string
	}{
		{"wrong secret", body, valid, "secret-2"},
		{"tampered body", []byte(`{"success": false}`), valid, "secret-1"},
		{"missing header", body, "", "secret-1"},
		{"garbage signature", body, "deadbeef", "secret-1"},
		{"empty secret", body, valid, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.signature != "" {
				header.Set(SignatureHeader, tt.signature)
			}

			err := VerifyWebhook(tt.body, header, tt.secret)
			var verErr *WebhookVerificationError
			if !errors.As(err, &verErr) {
				t.Fatalf("expected *WebhookVerificationError, got %v", err)
			}
		})
	}
}

func TestVerifyWebhookSingleBitFlip(t *testing.T) {
	body := []byte(`{"success": true, "session_id": "sess-1"}`)
	header := http.Header{}
	header.Set(SignatureHeader, signBody(body, "secret-1"))

	flipped := append([]byte(nil), body...)
	flipped[0] ^= 0x01

	if err := VerifyWebhook(flipped, header, "secret-1"); err == nil {
		t.Fatal("single-bit change passed verification")
	}
}

func TestParseWebhookPayload(t *testing.T) {
	body := []byte(`{"success": true, "session_id": "sess-1", "workflow_id": "wf-1", "agent_response": "done"}`)
	header := http.Header{}
	header.Set(SignatureHeader, signBody(body, "secret-1"))

	payload, err := ParseWebhookPayload(body, header, "secret-1")
	if err != nil {
		t.Fatalf("ParseWebhookPayload: %v", err)
	}
	if !payload.Success || payload.SessionID != "sess-1" || payload.WorkflowID != "wf-1" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestParseWebhookPayloadVerifiesFirst(t *testing.T) {
	body := []byte(`{"success": true}`)
	header := http.Header{}
	header.Set(SignatureHeader, "bogus")

	if _, err := ParseWebhookPayload(body, header, "secret-1"); err == nil {
		t.Fatal("unverified payload was parsed")
	}
}

func TestParseWebhookPayloadInvalidJSON(t *testing.T) {
	body := []byte(`not json`)
	header := http.Header{}
	header.Set(SignatureHeader, signBody(body, "secret-1"))

	_, err := ParseWebhookPayload(body, header, "secret-1")
	var verErr *WebhookVerificationError
	if !errors.As(err, &verErr) {
		t.Fatalf("expected *WebhookVerificationError, got %v", err)
	}
}
