package motion

import (
	"encoding/json"
	"fmt"
)

// Event is something the host should react to (sound, screen change).
// Events only live inside one Update.
type Event interface {
	// EventType returns the wire name of the event.
	EventType() string
}

// BallBounced is emitted when the ball reflects off an edge.
type BallBounced struct{}

// StageChanged is emitted when play moves from one stage to another.
type StageChanged struct {
	From int
	To   int
}

// StageCompleted is emitted when a stage runs its full duration.
type StageCompleted struct {
	Stage int
}

// GameOver is emitted once, when the final stage completes.
type GameOver struct{}

func (BallBounced) EventType() string    { return "BallBounced" }
func (StageChanged) EventType() string   { return "StageChanged" }
func (StageCompleted) EventType() string { return "StageCompleted" }
func (GameOver) EventType() string       { return "GameOver" }

// Update is the result of one tick: the events it produced, in order, and the
// stage time readout after the tick.
type Update struct {
	Events      []Event
	TimeElapsed float64
}

// Has reports whether the update carries an event of the same type as e.
func (u Update) Has(e Event) bool {
	for _, ev := range u.Events {
		if ev.EventType() == e.EventType() {
			return true
		}
	}
	return false
}

// eventJSON is the flat wire form: {"type":"StageChanged","from":1,"to":2}.
type eventJSON struct {
	Type  string `json:"type"`
	From  int    `json:"from,omitempty"`
	To    int    `json:"to,omitempty"`
	Stage int    `json:"stage,omitempty"`
}

// MarshalEvent encodes a single event in its wire form.
func MarshalEvent(e Event) ([]byte, error) {
	return json.Marshal(toEventJSON(e))
}

// UnmarshalEvent decodes a single event from its wire form.
func UnmarshalEvent(data []byte) (Event, error) {
	var ej eventJSON
	if err := json.Unmarshal(data, &ej); err != nil {
		return nil, fmt.Errorf("motion: cannot decode event: %w", err)
	}
	return fromEventJSON(ej)
}

func toEventJSON(e Event) eventJSON {
	ej := eventJSON{Type: e.EventType()}
	switch ev := e.(type) {
	case StageChanged:
		ej.From, ej.To = ev.From, ev.To
	case StageCompleted:
		ej.Stage = ev.Stage
	}
	return ej
}

func fromEventJSON(ej eventJSON) (Event, error) {
	switch ej.Type {
	case "BallBounced":
		return BallBounced{}, nil
	case "StageChanged":
		return StageChanged{From: ej.From, To: ej.To}, nil
	case "StageCompleted":
		return StageCompleted{Stage: ej.Stage}, nil
	case "GameOver":
		return GameOver{}, nil
	default:
		return nil, fmt.Errorf("motion: unknown event type %q", ej.Type)
	}
}

type updateJSON struct {
	Events      []eventJSON `json:"events"`
	TimeElapsed float64     `json:"time_elapsed"`
}

// MarshalJSON implements json.Marshaler.
func (u Update) MarshalJSON() ([]byte, error) {
	out := updateJSON{Events: make([]eventJSON, 0, len(u.Events)), TimeElapsed: u.TimeElapsed}
	for _, e := range u.Events {
		out.Events = append(out.Events, toEventJSON(e))
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *Update) UnmarshalJSON(data []byte) error {
	var in updateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("motion: cannot decode update: %w", err)
	}
	u.TimeElapsed = in.TimeElapsed
	u.Events = nil
	for _, ej := range in.Events {
		e, err := fromEventJSON(ej)
		if err != nil {
			return err
		}
		u.Events = append(u.Events, e)
	}
	return nil
}
