package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/JeanRibes/progression/shared"
	"github.com/JeanRibes/progression/theory"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*Server, chan Message) {
	t.Helper()
	loop := make(chan Message, 64)
	s := New("instance-1", DefaultConfig(), theory.Default(), loop)
	s.SetLogger(charmlog.New(io.Discard))
	return s, loop
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatusFollowsLoop(t *testing.T) {
	s, _ := newServer(t)
	h := s.Handler()
	ui := make(chan Message)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Loop(ctx, ui, s)

	st := Status{Key: "F Major", Chord: "I", Degree: 1, Notes: []string{"F3", "A4", "C5", "E5"}, Volts: [4]float64{-0.5, 0.75, 1, 1.3333}}
	ui <- Message{Type: StatusNotify, Status: &st}
	ui <- Message{Type: Error, String: "disk full"}

	assert.Eventually(t, func() bool {
		var got statusResponse
		rec := do(t, h, "GET", "/status", "")
		if rec.Code != http.StatusOK {
			return false
		}
		json.Unmarshal(rec.Body.Bytes(), &got)
		return got.Key == "F Major" && len(got.Errors) == 1
	}, time.Second, 10*time.Millisecond)

	var got statusResponse
	rec := do(t, h, "GET", "/status", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "instance-1", got.Instance)
	assert.Equal(t, []string{"disk full"}, got.Errors)

	var out outputResponse
	rec = do(t, h, "GET", "/output", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, st.Volts, out.Volts)
	assert.Equal(t, st.Notes, out.Notes)
}

func TestPutConfigMergesAndForwards(t *testing.T) {
	s, loop := newServer(t)
	h := s.Handler()

	rec := do(t, h, "PUT", "/config", `{"root": 5, "scale": "Dorian"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	msg := <-loop
	assert.Equal(t, ConfigChange, msg.Type)
	require.NotNil(t, msg.Config)
	want := DefaultConfig()
	want.Root = 5
	want.Scale = "Dorian"
	assert.Equal(t, want, *msg.Config)
	assert.Equal(t, want, s.Config())

	var got Config
	rec = do(t, h, "GET", "/config", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, want, got)
}

func TestPutConfigRefusesUnknownNames(t *testing.T) {
	s, loop := newServer(t)
	h := s.Handler()

	rec := do(t, h, "PUT", "/config", `{"scale": "Klingon"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	rec = do(t, h, "PUT", "/config", `{"root": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, DefaultConfig(), s.Config())
	assert.Len(t, loop, 0)
}

func TestCommands(t *testing.T) {
	s, loop := newServer(t)
	h := s.Handler()

	assert.Equal(t, http.StatusAccepted, do(t, h, "POST", "/reset", "").Code)
	assert.Equal(t, Reset, (<-loop).Type)
	assert.Equal(t, http.StatusAccepted, do(t, h, "POST", "/save", "").Code)
	assert.Equal(t, StateSave, (<-loop).Type)
	assert.Equal(t, http.StatusAccepted, do(t, h, "POST", "/load", "").Code)
	assert.Equal(t, StateLoad, (<-loop).Type)

	assert.Equal(t, http.StatusAccepted, do(t, h, "POST", "/clock?n=3", "").Code)
	assert.Len(t, loop, 3)
	for i := 0; i < 3; i++ {
		assert.Equal(t, Clock, (<-loop).Type)
	}
	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/clock?n=0", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, "GET", "/reset", "").Code)
}

func TestSendGivesUpWithRequest(t *testing.T) {
	s := New("x", DefaultConfig(), theory.Default(), make(chan Message))
	s.SetLogger(charmlog.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.send(ctx, Message{Type: Clock}), ErrStopped)
}

func TestLibraryListsAcceptedNames(t *testing.T) {
	lib := theory.Default().With([]theory.Scale{{Name: "Hirajoshi", Intervals: []int{0, 2, 3, 7, 8}}}, nil)
	s := New("x", DefaultConfig(), lib, make(chan Message, 1))
	s.SetLogger(charmlog.New(io.Discard))

	var got libraryResponse
	rec := do(t, s.Handler(), "GET", "/library", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, lib.ScaleNames(), got.Scales)
	assert.Equal(t, lib.MatrixNames(), got.Matrices)
	assert.Contains(t, got.Scales, "Hirajoshi")
	assert.Contains(t, got.Matrices, "Minimal Cycle")

	// every listed name is accepted back
	rec = do(t, s.Handler(), "PUT", "/config", `{"scale": "Hirajoshi", "matrix": "Minimal Cycle"}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestLoopLogsThroughContextLogger(t *testing.T) {
	s, _ := newServer(t)
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	ctx = context.WithValue(ctx, charmlog.ContextKey, charmlog.New(&buf))
	ui := make(chan Message)
	done := make(chan struct{})
	go func() {
		Loop(ctx, ui, s)
		close(done)
	}()

	ui <- Message{Type: Error, String: "serial port gone"}
	cancel()
	<-done
	assert.Contains(t, buf.String(), "serial port gone")
}
