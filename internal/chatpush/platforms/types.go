package platforms

import "context"

type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Button is an interactive control. Mirrors render buttons as text only.
type Button struct {
	ActionID string
	Label    string
	Value    string
	Style    string
}

type Message struct {
	// PanelKey groups messages that edit one panel in place. Empty means
	// post a new message every time.
	PanelKey    string
	Title       string
	Content     string
	Description string
	Color       int
	Timestamp   string
	Footer      string
	Fields      []Field
	Buttons     []Button
}

type Adapter interface {
	Name() string
	Send(ctx context.Context, endpoint, secret string, msg Message) error
}

// PanelForgetter is implemented by adapters that track panels per key.
type PanelForgetter interface {
	ForgetPanel(endpoint, panelKey string)
}

// Panel colors, shared by the formatter and adapters that map them to
// platform templates.
const (
	ColorLobby   = 0x5865F2
	ColorTurn    = 0x3BA55D
	ColorSettled = 0x57F287
	ColorNotice  = 0xFEE75C
)
