package wsutil

import "log/slog"

// SafeSend delivers data to a client send channel without blocking the
// game loop. A full or closed channel drops the message; round state is
// authoritative and a lagging client resyncs via request_state.
func SafeSend(ch chan []byte, data []byte) {
	if ch == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("send to closed channel", "tag", "ws", "recovered", r)
		}
	}()
	select {
	case ch <- data:
	default:
	}
}
