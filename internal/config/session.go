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

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

const (
	currentSessionFile = "current_session.json"
	sessionsFile       = "sessions.json"
)

// Session is a locally remembered session with the URLs needed to
// reconnect to it.
type Session struct {
	Name       string    `json:"name,omitempty"`
	SessionID  string    `json:"session_id"`
	WorkflowID string    `json:"workflow_id,omitempty"`
	LogsURL    string    `json:"logs_url,omitempty"`
	MessageURL string    `json:"message_url,omitempty"`
	VNCURL     string    `json:"vnc_url,omitempty"`
	SavedAt    time.Time `json:"saved_at"`
}

// SaveCurrentSession records the most recently started session.
func SaveCurrentSession(sess Session) error {
	sess.SavedAt = time.Now().UTC()
	return writeJSON(currentSessionFile, sess)
}

// CurrentSession returns the most recently started session, or nil when
// none has been recorded.
func CurrentSession() (*Session, error) {
	var sess Session
	found, err := readJSON(currentSessionFile, &sess)
	if err != nil || !found {
		return nil, err
	}
	return &sess, nil
}

// ClearCurrentSession forgets the current session.
func ClearCurrentSession() error {
	file, err := path(currentSessionFile)
	if err != nil {
		return err
	}
	if err := os.Remove(file); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// SaveSession stores a named session, replacing any previous session with
// the same name.
func SaveSession(sess Session) error {
	if sess.Name == "" {
		return fmt.Errorf("session name must not be empty")
	}
	sess.SavedAt = time.Now().UTC()

	sessions, err := loadSessions()
	if err != nil {
		return err
	}
	sessions[sess.Name] = sess
	return writeJSON(sessionsFile, sessions)
}

// ListSessions returns all saved sessions sorted by name.
func ListSessions() ([]Session, error) {
	sessions, err := loadSessions()
	if err != nil {
		return nil, err
	}

	out := make([]Session, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FindSession looks up a saved session by name, then by unambiguous name
// or session-ID prefix. Returns nil when nothing matches.
func FindSession(query string) (*Session, error) {
	sessions, err := loadSessions()
	if err != nil {
		return nil, err
	}

	if sess, ok := sessions[query]; ok {
		return &sess, nil
	}

	var matches []Session
	for _, sess := range sessions {
		if strings.HasPrefix(sess.Name, query) || strings.HasPrefix(sess.SessionID, query) {
			matches = append(matches, sess)
		}
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, sess := range matches {
			names[i] = sess.Name
		}
		sort.Strings(names)
		return nil, fmt.Errorf("ambiguous session %q: matches %s", query, strings.Join(names, ", "))
	}
}

// RemoveSession deletes a saved session by name. Reports whether a session
// was removed.
func RemoveSession(name string) (bool, error) {
	sessions, err := loadSessions()
	if err != nil {
		return false, err
	}
	if _, ok := sessions[name]; !ok {
		return false, nil
	}
	delete(sessions, name)
	return true, writeJSON(sessionsFile, sessions)
}

func loadSessions() (map[string]Session, error) {
	sessions := map[string]Session{}
	if _, err := readJSON(sessionsFile, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func writeJSON(name string, v any) error {
	file, err := path(name)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0600)
}

// readJSON reads a JSON state file; found is false when the file does not
// exist.
func readJSON(name string, v any) (found bool, err error) {
	file, err := path(name)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parsing %s: %w", file, err)
	}
	return true, nil
}
