package web

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/sweeney/ledpad/internal/display"
	"github.com/sweeney/ledpad/internal/logic"
	"github.com/sweeney/ledpad/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"colorClass": func(c logic.Color) string {
		return strings.ToLower(string(c))
	},
	"count": logic.FormatCount,
	"pressed": func(s logic.DebounceState) bool {
		return s == logic.StablePressed
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>LED Pad</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.red { color: #c00; font-weight: bold; }
.green { color: #080; font-weight: bold; }
.blue { color: #00c; font-weight: bold; }
.pressed { font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>LED Pad</h1>

<h2>State</h2>
<table>
<tr><th>LED</th><td id="color" class="{{colorClass .Color}}">{{.Color}}</td></tr>
<tr><th>Left button</th><td{{if pressed .Left}} class="pressed"{{end}}>{{.Left}}</td></tr>
<tr><th>Right button</th><td{{if pressed .Right}} class="pressed"{{end}}>{{.Right}}</td></tr>
<tr><th>Joystick</th><td>{{.Direction}}</td></tr>
<tr><th>Marker</th><td>x={{.Marker}}</td></tr>
<tr><th>Moves</th><td id="moves">{{count .Moves}}</td></tr>
</table>

<svg width="128" height="128" viewBox="0 0 128 128">
<rect width="128" height="128" fill="{{.Background}}"/>
<circle id="marker" cx="{{.Marker}}" cy="{{.MarkerY}}" r="{{.MarkerRadius}}" fill="{{.Foreground}}"/>
<text x="{{.LabelX}}" y="{{.LabelY}}" font-size="9" fill="{{.Foreground}}">{{.Label}}</text>
<text x="{{.CounterX}}" y="{{.CounterY}}" font-size="9" fill="{{.Foreground}}">{{count .Moves}}</text>
</svg>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Left pushed</th><td>{{.Counts.LeftPushed}}</td></tr>
<tr><th>Right pushed</th><td>{{.Counts.RightPushed}}</td></tr>
<tr><th>Color changed</th><td>{{.Counts.ColorChanged}}</td></tr>
<tr><th>Marker moved</th><td>{{.Counts.MarkerMoved}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Ticks</th><td>{{.Ticks}}</td></tr>
<tr><th>Read errors</th><td>{{.ReadErrors}}</td></tr>
<tr><th>Source</th><td>{{.Config.Source}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

type pageData struct {
	status.Snapshot
	Uptime       time.Duration
	Background   string
	Foreground   string
	MarkerY      int
	MarkerRadius int
	LabelX       int
	LabelY       int
	CounterX     int
	CounterY     int
	Label        string
}

func renderHTML(w io.Writer, snap status.Snapshot) error {
	// The template needs Uptime as a field, not a method.
	return indexTmpl.Execute(w, pageData{
		Snapshot:     snap,
		Uptime:       snap.Uptime(),
		Background:   display.Background.String(),
		Foreground:   display.Foreground.String(),
		MarkerY:      display.MarkerY,
		MarkerRadius: display.MarkerRadius,
		LabelX:       display.LabelX,
		LabelY:       display.LabelY,
		CounterX:     display.CounterX,
		CounterY:     display.CounterY,
		Label:        display.Label,
	})
}
