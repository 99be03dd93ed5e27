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
	"github.com/charmbracelet/lipgloss"
)

// Terminal styles shared by all commands. Session streams mix agent text
// with status lines, so status gets color and agent text stays unstyled.
var (
	// StatusOK styles success indicators
	StatusOK = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "42"})

	// StatusWarn styles warnings and paused-state notices
	StatusWarn = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "172", Dark: "214"})

	// StatusError styles error indicators
	StatusError = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "196"})

	// StatusInfo styles tool-call markers and informational text
	StatusInfo = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "31", Dark: "45"})

	// Muted styles secondary text: labels, URLs, event noise
	Muted = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "243", Dark: "245"})

	// Bold styles names: workflows, sessions, tools
	Bold = lipgloss.NewStyle().Bold(true)

	// Header styles section headers in command output
	Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "31", Dark: "45"})
)

// Status symbols. SymbolTool prefixes tool-call lines in event streams.
const (
	SymbolOK    = "✓"
	SymbolWarn  = "!"
	SymbolError = "✗"
	SymbolInfo  = "•"
	SymbolTool  = "›"
)

// RenderOK renders a success line
func RenderOK(msg string) string {
	return StatusOK.Render(SymbolOK) + " " + msg
}

// RenderWarn renders a warning line
func RenderWarn(msg string) string {
	return StatusWarn.Render(SymbolWarn) + " " + msg
}

// RenderError renders an error line
func RenderError(msg string) string {
	return StatusError.Render(SymbolError) + " " + msg
}

// RenderLabel renders a dim label (for key: value pairs)
func RenderLabel(label string) string {
	return Muted.Render(label)
}
