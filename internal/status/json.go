package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/ledpad/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string      `json:"event,omitempty"`
	Reason        string      `json:"reason,omitempty"`
	Color         string      `json:"color"`
	Marker        MarkerJSON  `json:"marker"`
	Buttons       ButtonsJSON `json:"buttons"`
	Joystick      string      `json:"joystick"`
	Ticks         int64       `json:"ticks"`
	ReadErrors    int64       `json:"read_errors"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	StartTime     string      `json:"start_time"`
	Timestamp     string      `json:"timestamp"`
	MQTT          MQTTStatus  `json:"mqtt"`
	Counts        CountsJSON  `json:"event_counts"`
	Config        ConfigJSON  `json:"config"`
}

// MarkerJSON reports the marker position and counter.
type MarkerJSON struct {
	X     int    `json:"x"`
	Moves int    `json:"moves"`
	Text  string `json:"text"`
}

// ButtonsJSON reports both buttons' debounce states.
type ButtonsJSON struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	LeftPushed   int `json:"left_pushed"`
	RightPushed  int `json:"right_pushed"`
	ColorChanged int `json:"color_changed"`
	MarkerMoved  int `json:"marker_moved"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	Source      string `json:"source"`
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		Color: string(snap.Color),
		Marker: MarkerJSON{
			X:     snap.Marker,
			Moves: snap.Moves,
			Text:  logic.FormatCount(snap.Moves),
		},
		Buttons: ButtonsJSON{
			Left:  string(snap.Left),
			Right: string(snap.Right),
		},
		Joystick:      snap.Direction.String(),
		Ticks:         snap.Ticks,
		ReadErrors:    snap.ReadErrors,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			LeftPushed:   snap.Counts.LeftPushed,
			RightPushed:  snap.Counts.RightPushed,
			ColorChanged: snap.Counts.ColorChanged,
			MarkerMoved:  snap.Counts.MarkerMoved,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			DebounceMs:  snap.Config.DebounceMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			Source:      snap.Config.Source,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
