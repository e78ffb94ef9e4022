package store

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/JeanRibes/progression/music"
	"github.com/JeanRibes/progression/shared"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T, path string) *Store {
	s := Open(path)
	s.SetLogger(charmlog.New(io.Discard))
	return s
}

func TestMissingFileIsEmpty(t *testing.T) {
	s := open(t, filepath.Join(t.TempDir(), "state.json"))
	_, err := s.Load()
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = uuid.Parse(s.Instance())
	assert.NoError(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "state.json")
	quiet := music.WithLogger(charmlog.New(io.Discard))

	cfg := shared.DefaultConfig()
	cfg.Root = 2
	e := music.NewEngine(cfg, nil, quiet)
	s := open(t, path)
	require.NoError(t, s.Save(e.State()))

	again := open(t, path)
	assert.Equal(s.Instance(), again.Instance(), "instance id is kept")
	state, err := again.Load()
	require.NoError(t, err)

	restored := music.NewEngine(shared.DefaultConfig(), nil, quiet)
	require.NoError(t, restored.Restore(state))
	assert.Equal("D Major", restored.Status().Key)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(entries, 1, "no temp file left behind")
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{\"instance\": \"abc\", \"state\": ["), 0o644))
	s := open(t, path)
	_, err := s.Load()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmpty)
	assert.NotEqual(t, "abc", s.Instance())
}

func TestTinyFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
	_, err := open(t, path).Load()
	assert.ErrorIs(t, err, ErrEmpty)
}
