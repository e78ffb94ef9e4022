package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/JeanRibes/progression/music"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var ErrEmpty = errors.New("no saved state")

// File is what sits on disk. The instance id survives restarts so a display
// can tell a restored engine from a fresh one.
type File struct {
	Instance string      `json:"instance"`
	SavedAt  time.Time   `json:"saved_at"`
	State    music.State `json:"state"`
}

type Store struct {
	path     string
	instance string
	logger   *charmlog.Logger
}

// Open reads the instance id from path, or makes a new one if there is no
// usable file yet.
func Open(path string) *Store {
	s := &Store{
		path: path,
		logger: charmlog.NewWithOptions(os.Stdout, charmlog.Options{
			Level:           charmlog.InfoLevel,
			ReportTimestamp: false,
			Prefix:          "store",
		}),
	}
	if f, err := s.read(); err == nil && f.Instance != "" {
		s.instance = f.Instance
	} else {
		s.instance = uuid.NewString()
	}
	return s
}

func (s *Store) SetLogger(l *charmlog.Logger) {
	s.logger = l
}

func (s *Store) Instance() string {
	return s.instance
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) read() (*File, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if stat.Size() < 10 {
		return nil, ErrEmpty
	}
	file := &File{}
	if err := json.NewDecoder(f).Decode(file); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return file, nil
}

// Load returns the saved blob. A missing or near empty file is ErrEmpty.
func (s *Store) Load() (music.State, error) {
	f, err := s.read()
	if err != nil {
		return nil, err
	}
	if f.State == nil {
		return nil, ErrEmpty
	}
	s.logger.Debug("loaded", "path", s.path, "saved_at", f.SavedAt)
	return f.State, nil
}

// Read is Load with the envelope.
func (s *Store) Read() (*File, error) {
	return s.read()
}

// Save writes next to the old file and renames over it, so a crash leaves
// either the old blob or the new one.
func (s *Store) Save(state music.State) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return err
	}
	file := File{Instance: s.instance, SavedAt: time.Now().UTC(), State: state}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	s.logger.Debug("wrote state", "path", s.path)
	return nil
}

var _ music.StateStore = (*Store)(nil)
