// Package session persists one chat transcript per session as a single
// JSON file, written atomically. Grounded directly on
// _examples/ryanfowler-fetch/internal/session/session.go's Save() — the
// same os.CreateTemp-in-the-same-directory, write, close, os.Rename
// sequence — since the teacher repo's own session store (internal/session
// in sam-saffron-jarvis-term-llm) is a SQLite-backed multi-table design
// far heavier than this client's flat per-session JSON file.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Message is one transcript entry. It mirrors internal/chat/msg.Message,
// with Author stored as a lowercase name ("user", "assistant", "system").
type Message struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the on-disk shape persisted per conversation:
// {id, backend, model, timestamp, messages[], backend_context}.
type Session struct {
	ID             string    `json:"id"`
	Backend        string    `json:"backend"`
	Model          string    `json:"model"`
	Timestamp      time.Time `json:"timestamp"`
	Messages       []Message `json:"messages"`
	BackendContext string    `json:"backend_context"`

	path string
}

// New creates a fresh, unsaved Session with a random ID.
func New(dir, backend, model string) *Session {
	id := uuid.NewString()
	return &Session{
		ID:        id,
		Backend:   backend,
		Model:     model,
		Timestamp: time.Now(),
		path:      filepath.Join(dir, id+".json"),
	}
}

// Load reads the session file "<id>.json" from dir.
func Load(dir, id string) (*Session, error) {
	path := filepath.Join(dir, id+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("session: read %s: %w", path, err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("session: parse %s: %w", path, err)
	}
	s.path = path
	return &s, nil
}

// List returns the IDs of every session file under dir, most recent first.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("session: list %s: %w", dir, err)
	}
	type named struct {
		id      string
		modTime time.Time
	}
	var all []named
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		all = append(all, named{id: entry.Name()[:len(entry.Name())-len(".json")], modTime: info.ModTime()})
	}
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[j].modTime.After(all[i].modTime) {
				all[i], all[j] = all[j], all[i]
			}
		}
	}
	ids := make([]string, len(all))
	for i, n := range all {
		ids[i] = n.id
	}
	return ids, nil
}

// Delete removes the session file "<id>.json" from dir.
func Delete(dir, id string) error {
	path := filepath.Join(dir, id+".json")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: delete %s: %w", path, err)
	}
	return nil
}

// AddMessage appends a message to the in-memory transcript. The caller is
// responsible for calling Save to persist it.
func (s *Session) AddMessage(m Message) {
	s.Messages = append(s.Messages, m)
}

// Save writes the session atomically: marshal, write to a temp file in the
// same directory, then rename over the target path. Mirrors
// ryanfowler-fetch's Session.Save exactly.
func (s *Session) Save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("session: create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("session: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("session: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("session: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("session: rename into place: %w", err)
	}
	return nil
}
