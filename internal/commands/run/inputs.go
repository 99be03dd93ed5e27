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

package run

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ParseVariables merges workflow variables from the --vars flag and
// repeated --var pairs. --vars takes a JSON object, or @path to read one
// from a file; --var takes key=value and wins over --vars on conflicts.
// Pair values that parse as JSON keep their type, everything else stays a
// string.
func ParseVariables(varsFlag string, pairs []string) (map[string]any, error) {
	vars := map[string]any{}

	if varsFlag != "" {
		data := []byte(varsFlag)
		if strings.HasPrefix(varsFlag, "@") {
			var err error
			data, err = os.ReadFile(strings.TrimPrefix(varsFlag, "@"))
			if err != nil {
				return nil, fmt.Errorf("reading variables file: %w", err)
			}
		}
		if err := json.Unmarshal(data, &vars); err != nil {
			return nil, fmt.Errorf("--vars must be a JSON object: %w", err)
		}
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --var %q, expected key=value", pair)
		}
		vars[key] = parseValue(value)
	}

	if len(vars) == 0 {
		return nil, nil
	}
	return vars, nil
}

// parseValue keeps JSON-typed values typed: numbers, booleans, null,
// arrays, and objects pass through as JSON, bare words stay strings.
func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}
