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
	"encoding/json"
	"fmt"
	"net/http"
)

// SignatureHeader carries the HMAC signature of a webhook delivery.
const SignatureHeader = "X-Simplex-Signature"

// WebhookVerificationError indicates a webhook delivery could not be
// authenticated. It is deliberately outside the transport error hierarchy:
// a bad signature is not an API failure.
type WebhookVerificationError struct {
	Message string
}

func (e *WebhookVerificationError) Error() string { return e.Message }

// VerifyWebhook checks the HMAC-SHA256 signature of a webhook delivery
// against the shared secret. body must be the raw request bytes, before
// any JSON parsing or re-serialization; a re-encoded body will not match.
func VerifyWebhook(body []byte, header http.Header, secret string) error {
	if secret == "" {
		return &WebhookVerificationError{Message: "webhook secret is required"}
	}

	signature := header.Get(SignatureHeader)
	if signature == "" {
		return &WebhookVerificationError{
			Message: fmt.Sprintf("missing %s header", SignatureHeader),
		}
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return &WebhookVerificationError{Message: "webhook signature mismatch"}
	}
	return nil
}

// ParseWebhookPayload verifies a webhook delivery and decodes its body.
func ParseWebhookPayload(body []byte, header http.Header, secret string) (*WebhookPayload, error) {
	if err := VerifyWebhook(body, header, secret); err != nil {
		return nil, err
	}

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &WebhookVerificationError{
			Message: fmt.Sprintf("invalid webhook payload: %v", err),
		}
	}
	return &payload, nil
}
