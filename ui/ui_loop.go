package ui

import (
	"context"

	. "github.com/JeanRibes/progression/shared"

	charmlog "github.com/charmbracelet/log"
)

// Loop keeps s up to date with what the engine loop announces on SinkUI. It
// logs through the logger carried by ctx, or the server's own.
func Loop(ctx context.Context, SinkUI chan Message, s *Server) {
	logger := charmlog.FromContext(ctx)
	if logger == charmlog.Default() {
		logger = s.logger
	}
	for {
		select {
		case <-ctx.Done():
			logger.Debug("chan Done, quitting")
			return
		case msg := <-SinkUI:
			switch msg.Type {
			case StatusNotify:
				if msg.Status != nil {
					s.setStatus(*msg.Status)
				}
			case Error:
				logger.Error("loop", "err", msg.String)
				s.addError(msg.String)
			default:
				logger.Debug("ignored", "type", msg.Type)
			}
		}
	}
}
