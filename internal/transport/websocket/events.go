package websocket

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush/core"
)

// Message is the JSON envelope sent to spectators.
type Message struct {
	Stream string `json:"stream"`
	Seq    uint64 `json:"seq"`
	Type   string `json:"type"`
	Data   any    `json:"data,omitempty"`
}

type posJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func pos(p core.Pos) posJSON {
	return posJSON{X: p.X, Y: p.Y}
}

// EncodeEvent returns the wire type and payload of a simulation event.
func EncodeEvent(e core.Event) (string, any, error) {
	switch ev := e.(type) {
	case core.ItemAdded:
		return "item_added", map[string]any{"item": ev.Item, "rank": ev.Rank, "pos": pos(ev.Pos)}, nil
	case core.ItemRemoved:
		return "item_removed", map[string]any{"item": ev.Item, "rank": ev.Rank, "pos": pos(ev.Pos)}, nil
	case core.ItemMoved:
		return "item_moved", map[string]any{"item": ev.Item, "from": pos(ev.From), "to": pos(ev.To)}, nil
	case core.MergeStarted:
		return "merge_started", map[string]any{
			"survivor": ev.Survivor, "consumed": ev.Consumed,
			"at": pos(ev.At), "from": pos(ev.From), "rank": ev.Rank,
		}, nil
	case core.Merged:
		return "merged", map[string]any{
			"survivor": ev.Survivor, "at": pos(ev.At),
			"consumed_rank": ev.ConsumedRank, "new_rank": ev.NewRank,
		}, nil
	case core.Scored:
		return "scored", map[string]any{
			"points": ev.Points, "total": ev.Total, "rank": ev.Rank,
			"combo": ev.Combo, "multiplier": ev.Multiplier,
		}, nil
	case core.ComboEnded:
		return "combo_ended", map[string]any{"count": ev.Count}, nil
	case core.GridFull:
		return "grid_full", nil, nil
	case core.GridBlocked:
		return "grid_blocked", nil, nil
	case core.GridCleared:
		return "grid_cleared", nil, nil
	case core.LevelCompleted:
		return "level_completed", map[string]any{"score": ev.Score, "target": ev.Target, "stars": ev.Stars}, nil
	default:
		return "", nil, fmt.Errorf("websocket: unknown event %T", e)
	}
}

// Streamer is a core.Listener that publishes every event to a hub stream.
// Sequence numbers start at 1 and increase per published message.
type Streamer struct {
	hub    *Hub
	stream string

	mu  sync.Mutex
	seq uint64
}

// NewStreamer creates a listener publishing to stream.
func NewStreamer(hub *Hub, stream string) *Streamer {
	if stream == "" {
		stream = DefaultStream
	}
	return &Streamer{hub: hub, stream: stream}
}

// OnEvent encodes e and publishes it.
func (s *Streamer) OnEvent(e core.Event) {
	typ, data, err := EncodeEvent(e)
	if err != nil {
		s.hub.logger.Warn("event not streamed", "err", err)
		return
	}
	s.Send(typ, data)
}

// Send publishes a custom message, e.g. a run summary.
func (s *Streamer) Send(typ string, data any) {
	s.mu.Lock()
	s.seq++
	msg := Message{Stream: s.stream, Seq: s.seq, Type: typ, Data: data}
	s.mu.Unlock()

	payload, err := json.Marshal(msg)
	if err != nil {
		s.hub.logger.Warn("cannot encode message", "type", typ, "err", err)
		return
	}
	s.hub.Publish(s.stream, payload)
}
