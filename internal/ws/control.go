package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/coreman2200/constellation/internal/face"
	"github.com/coreman2200/constellation/internal/reconcile"
)

// Control message types.
const (
	TypeConfig   = "config"
	TypePower    = "power"
	TypeActivity = "activity"
	TypeTick     = "tick"
)

func decodeFrame(mt int, data []byte) (map[string]any, error) {
	var msg map[string]any
	switch mt {
	case websocket.TextMessage:
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case websocket.BinaryMessage:
		if err := msgpack.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("decode msgpack: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported frame type %d", mt)
	}
	if msg == nil {
		return nil, errors.New("empty message")
	}
	return msg, nil
}

// DecodeControl maps a decoded control message to a face event and
// returns its type.
func DecodeControl(msg map[string]any) (face.Event, string, error) {
	kind, _ := msg["type"].(string)
	switch kind {
	case TypeConfig:
		values, ok := msg["values"].(map[string]any)
		if !ok {
			return nil, kind, errors.New("config message needs a values object")
		}
		return face.MessageEvent{Values: reconcile.Message(values)}, kind, nil

	case TypePower:
		pct, ok := reconcile.Int(msg["percent"])
		if !ok {
			return nil, kind, errors.New("power message needs a numeric percent")
		}
		charging := false
		if v, present := msg["charging"]; present {
			if charging, ok = reconcile.Bool(v); !ok {
				return nil, kind, errors.New("charging must be a flag")
			}
		}
		return face.PowerEvent{Percent: pct, Charging: charging}, kind, nil

	case TypeActivity:
		n, ok := reconcile.Int(msg["count"])
		if !ok {
			return nil, kind, errors.New("activity message needs a numeric count")
		}
		return face.ActivityEvent{Count: n}, kind, nil

	case TypeTick:
		s, _ := msg["time"].(string)
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, kind, fmt.Errorf("tick time: %w", err)
		}
		return face.TickEvent{Time: t}, kind, nil
	}
	return nil, kind, fmt.Errorf("unknown message type %q", kind)
}
