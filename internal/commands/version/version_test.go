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

package version

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/simplex-sh/simplex-go/internal/commands/shared"
)

func TestVersionOutput(t *testing.T) {
	shared.SetVersion("1.2.0", "abc1234", "2026-08-01")
	defer shared.SetVersion("dev", "unknown", "unknown")

	cmd := NewVersionCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "simplex version 1.2.0") {
		t.Errorf("version line missing: %s", out)
	}
	if !strings.Contains(out, "abc1234") {
		t.Errorf("commit missing: %s", out)
	}
	if !strings.Contains(out, "go1") {
		t.Errorf("go toolchain missing: %s", out)
	}
}

func TestVersionJSONOutput(t *testing.T) {
	shared.SetVersion("1.2.0", "abc1234", "2026-08-01")
	defer shared.SetVersion("dev", "unknown", "unknown")

	root := &cobra.Command{Use: "simplex"}
	root.PersistentFlags().BoolVar(shared.RegisterFlagPointers(), "json", false, "JSON output")
	cmd := NewVersionCommand()
	root.AddCommand(cmd)

	var buf bytes.Buffer
	root.SetOut(&buf)
	cmd.SetOut(&buf)
	root.SetArgs([]string{"version", "--json"})

	if err := root.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	var info Info
	if err := json.Unmarshal(buf.Bytes(), &info); err != nil {
		t.Fatalf("output not JSON: %v\n%s", err, buf.String())
	}
	if info.Version != "1.2.0" || info.Commit != "abc1234" || info.BuildDate != "2026-08-01" {
		t.Errorf("info = %+v", info)
	}
	if !strings.HasPrefix(info.GoVersion, "go") {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
}
