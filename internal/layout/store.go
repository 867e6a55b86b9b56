package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a profile has no layout file.
	ErrNotFound = errors.New("layout not found")

	// ErrNoWindows is returned when saving an empty window list.
	ErrNoWindows = errors.New("no windows to save")
)

// timestampFormat matches the local ISO-8601 form with microseconds.
const timestampFormat = "2006-01-02T15:04:05.000000"

const fileExt = ".json"

// Store reads and writes layout files in a single directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore returns a store rooted at dir. The directory is created on first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the layouts directory.
func (s *Store) Dir() string {
	return s.dir
}

// ValidateName rejects names that are empty or could escape the layouts directory.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("profile name is required")
	}
	if trimmed != name {
		return fmt.Errorf("invalid profile name %q: leading or trailing whitespace", name)
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("invalid profile name %q", name)
	}
	if strings.HasPrefix(name, ".") || strings.Contains(name, "..") {
		return fmt.Errorf("invalid profile name %q", name)
	}
	return nil
}

// Path returns the file path for a profile.
func (s *Store) Path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+fileExt), nil
}

// Save writes a full snapshot of records under name, replacing any existing layout.
func (s *Store) Save(name string, records []Record, platformName string) (*Layout, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoWindows
	}

	windows := make([]Record, len(records))
	copy(windows, records)
	l := &Layout{
		ProfileName: name,
		Timestamp:   s.now().Format(timestampFormat),
		Platform:    platformName,
		WindowCount: len(windows),
		Windows:     windows,
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode layout %q: %w", name, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create layouts directory: %w", err)
	}
	if err := writeFileAtomic(path, append(data, '\n')); err != nil {
		return nil, fmt.Errorf("failed to write layout %q: %w", name, err)
	}
	return l, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return err
	}
	return nil
}

// Load reads the layout saved under name.
func (s *Store) Load(name string) (*Layout, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read layout %q: %w", name, err)
	}

	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse layout %q: %w", name, err)
	}
	if l.ProfileName == "" {
		l.ProfileName = name
	}
	if l.Windows == nil {
		l.Windows = []Record{}
	}
	l.WindowCount = len(l.Windows)
	return &l, nil
}

// Delete removes the layout saved under name.
func (s *Store) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return fmt.Errorf("failed to delete layout %q: %w", name, err)
	}
	return nil
}

// List returns saved profile names, sorted. A missing directory yields an empty list.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}

	out := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, fileExt) || strings.HasPrefix(name, ".") {
			continue
		}
		out = append(out, strings.TrimSuffix(name, fileExt))
	}
	sort.Strings(out)
	return out, nil
}

// Summaries describes every saved layout. Unreadable layouts are reported
// with their error instead of failing the listing.
func (s *Store) Summaries() ([]Summary, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(names))
	for _, name := range names {
		l, err := s.Load(name)
		if err != nil {
			out = append(out, Summary{Name: name, Err: err.Error()})
			continue
		}
		out = append(out, Summary{
			Name:        name,
			WindowCount: l.WindowCount,
			Timestamp:   l.Timestamp,
			Platform:    l.Platform,
		})
	}
	return out, nil
}
