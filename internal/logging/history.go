package logging

import (
	"bufio"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one executed command in a session history file.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Session   string    `json:"session"`
	Input     string    `json:"input"`
	Command   string    `json:"command,omitempty"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
}

// History appends Entry records to a per-session JSONL file.
type History struct {
	Dir       string
	SessionID string
	Path      string
	file      *os.File
	now       func() time.Time
}

// NewHistory creates the history directory for dataFile under baseDir and
// opens a new session file in it.
func NewHistory(baseDir, dataFile string) (*History, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("history base dir is empty")
	}

	dir := SessionDir(baseDir, dataFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	sessionID := uuid.NewString()
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.jsonl", time.Now().UTC().Format("20060102-150405"), sessionID))
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create history file: %w", err)
	}

	return &History{
		Dir:       dir,
		SessionID: sessionID,
		Path:      path,
		file:      file,
		now:       time.Now,
	}, nil
}

// Record appends one entry. A nil History records nothing.
func (h *History) Record(input, command string, err error) error {
	if h == nil || h.file == nil {
		return nil
	}
	entry := Entry{
		Timestamp: h.now().UTC(),
		Session:   h.SessionID,
		Input:     input,
		Command:   command,
		OK:        err == nil,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	data, mErr := json.Marshal(entry)
	if mErr != nil {
		return fmt.Errorf("marshal history entry: %w", mErr)
	}
	data = append(data, '\n')
	if _, wErr := h.file.Write(data); wErr != nil {
		return fmt.Errorf("write history entry: %w", wErr)
	}
	return nil
}

// Close closes the session file.
func (h *History) Close() error {
	if h == nil || h.file == nil {
		return nil
	}
	return h.file.Close()
}

// SessionDir returns the directory holding history for a given task file.
// Each task file gets its own directory named after it plus a short hash of
// its absolute path.
func SessionDir(baseDir, dataFile string) string {
	abs := dataFile
	if a, err := filepath.Abs(dataFile); err == nil {
		abs = a
	}
	name := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	return filepath.Join(baseDir, fmt.Sprintf("%s-%s", slugify(name), hashPath(abs)))
}

func slugify(input string) string {
	if strings.TrimSpace(input) == "" {
		return "tasks"
	}

	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		return "tasks"
	}
	return slug
}

func hashPath(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}

// Session describes one history file.
type Session struct {
	ID      string
	Path    string
	ModTime time.Time
}

// FindSessions lists history files in dir, newest first.
func FindSessions(dir string) ([]Session, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history dir: %w", err)
	}

	var sessions []Session
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		sessions = append(sessions, Session{
			ID:      sessionIDFromName(entry.Name()),
			Path:    filepath.Join(dir, entry.Name()),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].ModTime.Equal(sessions[j].ModTime) {
			return sessions[i].Path > sessions[j].Path
		}
		return sessions[i].ModTime.After(sessions[j].ModTime)
	})
	return sessions, nil
}

// sessionIDFromName extracts the uuid from "<date>-<time>-<uuid>.jsonl".
func sessionIDFromName(name string) string {
	base := strings.TrimSuffix(name, ".jsonl")
	parts := strings.SplitN(base, "-", 3)
	if len(parts) == 3 {
		if _, err := uuid.Parse(parts[2]); err == nil {
			return parts[2]
		}
	}
	return base
}

// ReadEntries decodes every entry in a history file. Lines that are not
// valid JSON are skipped.
func ReadEntries(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}
	return entries, nil
}
