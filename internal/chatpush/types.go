package chatpush

import "time"

// MirrorTarget is a read-only destination that receives one panel per game,
// edited in place as the game moves.
type MirrorTarget struct {
	Platform   string `json:"platform"`
	Endpoint   string `json:"endpoint"`
	Secret     string `json:"secret"`
	ScopeType  string `json:"scope_type"`
	ScopeValue string `json:"scope_value"`
	// Kinds limits which prompt kinds update the panel; empty means all.
	Kinds   []string `json:"kinds"`
	Enabled bool     `json:"enabled"`
}

type Config struct {
	SlackToken  string
	SlackAPIURL string

	ConfigPath   string
	ConfigReload time.Duration
	Targets      []MirrorTarget

	Workers             int
	RetryMax            int
	RetryBase           time.Duration
	PanelUpdateInterval time.Duration
	PanelRecentLines    int
	FailureThreshold    int
	CircuitOpenDuration time.Duration
	RequestTimeout      time.Duration
	DispatchBuffer      int
}

type MessageField struct {
	Name   string
	Value  string
	Inline bool
}

type MessageButton struct {
	ActionID string
	Label    string
	Value    string
	Style    string
}

type FormattedMessage struct {
	PanelKey    string
	Title       string
	Content     string
	Description string
	Color       int
	Timestamp   string
	Footer      string
	Fields      []MessageField
	Buttons     []MessageButton
}

type jobKind int

const (
	jobPost jobKind = iota
	jobEphemeral
	jobDelete
)

// pushJob is one delivery attempt. For Slack jobs Target.Endpoint is the
// channel id, or the response_url for jobDelete.
type pushJob struct {
	Kind          jobKind
	Target        MirrorTarget
	Formatted     FormattedMessage
	User          string
	Attempt       int
	PanelStateKey string
	PanelTerminal bool
	PanelStateAt  time.Time
}

func (j pushJob) key() string {
	return targetKey(j.Target)
}

func targetKey(t MirrorTarget) string {
	return t.Platform + "|" + t.Endpoint + "|" + t.ScopeType + "|" + t.ScopeValue
}

const platformSlack = "slack"
