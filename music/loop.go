package music

import (
	"context"
	"os"
	"time"

	. "github.com/JeanRibes/progression/shared"

	"github.com/bep/debounce"
	charmlog "github.com/charmbracelet/log"
)

// StateStore keeps state blobs for the loop.
type StateStore interface {
	Save(State) error
	Load() (State, error)
}

const AUTOSAVE_DELAY = 2 * time.Second

/*
Run owns engine for the lifetime of ctx. Every mutation arrives as a message
on SinkLoop and is handled in order, so a ConfigChange sent before a Clock is
always applied first. New frames are announced on SinkUI without blocking.
*/
func Run(ctx context.Context, cancel func(), engine *Engine, saver StateStore, SinkUI, SinkLoop chan Message) {
	logger := charmlog.FromContext(ctx)
	if logger == charmlog.Default() {
		logger = charmlog.NewWithOptions(os.Stdout, charmlog.Options{
			Level:           charmlog.InfoLevel,
			ReportTimestamp: false,
			Prefix:          "loop",
		})
	}
	logger.Info("start")

	autosave := debounce.New(AUTOSAVE_DELAY)
	requestSave := func() {
		select {
		case SinkLoop <- Message{Type: StateSave}:
		case <-ctx.Done():
		}
	}

	notify := func(msg Message) {
		select {
		case SinkUI <- msg:
		default:
			logger.Debug("ui not keeping up, dropping", "type", msg.Type)
		}
	}

	save := func() {
		if saver == nil {
			return
		}
		if err := saver.Save(engine.State()); err != nil {
			logger.Error("save", "err", err)
			notify(Message{Type: Error, String: err.Error()})
		}
	}

	// a refused blob leaves the engine on defaults, the next Cycle shows it
	load := func() {
		if saver == nil {
			logger.Warn("no state store to load from")
			return
		}
		state, err := saver.Load()
		if err == nil {
			err = engine.Restore(state)
		}
		if err != nil {
			logger.Warn("load", "err", err)
			notify(Message{Type: Error, String: err.Error()})
			return
		}
		logger.Info("state loaded", "key", engine.Status().Key)
	}

	beats := 0
loopchan:
	for {
		select {
		case <-ctx.Done():
			logger.Debug("context Done")
			break loopchan
		case msg := <-SinkLoop:
			switch msg.Type {
			case Clock:
				if engine.Clock() {
					beats += 1
				}
			case Reset:
				logger.Info("reset")
				engine.Reset()
			case ConfigChange:
				if msg.Config == nil {
					logger.Warn("config message without config")
					continue
				}
				engine.Poll(*msg.Config)
			case Cycle:
				if _, dirty := engine.Output(); dirty {
					st := engine.Status()
					logger.Debug("frame", "beat", beats, "chord", st.Chord, "notes", st.Notes)
					notify(Message{Type: StatusNotify, Status: &st})
					autosave(requestSave)
				}
			case StateSave:
				save()
			case StateLoad:
				load()
			case Quit:
				logger.Info("quit")
				save()
				cancel()
			default:
				logger.Printf("unknown message type: %#v", msg.Type)
			}
		}
	}
	logger.Info("stop")
}
