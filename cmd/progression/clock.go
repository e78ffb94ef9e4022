package main

import (
	"context"
	"time"

	. "github.com/JeanRibes/progression/shared"

	"github.com/albenik/go-serial/v2"
	charmlog "github.com/charmbracelet/log"
)

const SERIAL_READ_TIMEOUT_MS = 100

func clockPeriod(bpm float64, ppqn int) time.Duration {
	return time.Duration(float64(time.Minute) / (bpm * float64(ppqn)))
}

// tick sends msg every period until ctx is done.
func tick(ctx context.Context, period time.Duration, msg Message, SinkLoop chan Message) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case SinkLoop <- msg:
			case <-ctx.Done():
				return
			}
		}
	}
}

// decodeEdge looks a byte up in the map from the config.
func decodeEdge(bytes map[int]string, b byte) (Event, bool) {
	switch bytes[int(b)] {
	case EDGE_CLOCK:
		return Clock, true
	case EDGE_RESET:
		return Reset, true
	}
	return 0, false
}

/*
serialClock reads edge bytes from a board that does the pulse detection on
its side. Unmapped bytes are skipped.
*/
func serialClock(ctx context.Context, cfg SerialConfig, SinkLoop chan Message) error {
	logger := charmlog.FromContext(ctx)
	port, err := serial.Open(cfg.Port,
		serial.WithBaudrate(cfg.Baud),
		serial.WithReadTimeout(SERIAL_READ_TIMEOUT_MS),
	)
	if err != nil {
		return err
	}
	defer port.Close()
	logger.Info("serial clock", "port", cfg.Port, "baud", cfg.Baud)
	if err := port.ResetInputBuffer(); err != nil {
		logger.Warn("reset input buffer", "err", err)
	}

	buf := make([]byte, 64)
	for ctx.Err() == nil {
		n, err := port.Read(buf)
		if err != nil {
			return err
		}
		for _, b := range buf[:n] {
			ev, ok := decodeEdge(cfg.Bytes, b)
			if !ok {
				logger.Debug("unassigned", "byte", b)
				continue
			}
			select {
			case SinkLoop <- Message{Type: ev}:
			case <-ctx.Done():
				return nil
			}
		}
	}
	return nil
}
