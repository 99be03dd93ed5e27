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

package shared

import (
	"fmt"
	"time"

	"github.com/simplex-sh/simplex-go/internal/config"
	"github.com/simplex-sh/simplex-go/sdk"
)

// NewClient builds an API client from the stored credentials and config
// file. Fails with a login hint when no API key is configured.
func NewClient() (*sdk.Client, error) {
	key, err := config.ResolveAPIKey()
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}
	if key == "" {
		return nil, fmt.Errorf("not logged in, run `simplex login` or set SIMPLEX_API_KEY")
	}

	var opts []sdk.Option

	baseURL, err := config.ResolveBaseURL()
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		opts = append(opts, sdk.WithBaseURL(baseURL))
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.TimeoutSeconds > 0 {
		opts = append(opts, sdk.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	}
	if cfg.MaxRetries != nil {
		opts = append(opts, sdk.WithMaxRetries(*cfg.MaxRetries))
	}

	return sdk.New(key, opts...)
}
