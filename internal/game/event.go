package game

// Event is the closed set of inputs the engine accepts. Only types in this
// package implement it.
type Event interface {
	isEvent()
}

type OpenGame struct {
	ID             string
	Channel        string
	Host           string
	League         string
	RequestedBuyIn int64
}

type JoinRequest struct {
	Player string
}

// Turn identifies who pressed a button and which prompt it came from. Seq is
// the snapshot sequence carried by the correlation token; zero skips the
// staleness check and is reserved for events synthesized by the server.
type Turn struct {
	Player string
	Seq    uint64
}

type StartGame struct{ Turn }

type Fold struct{ Turn }

type Check struct{ Turn }

type Call struct{ Turn }

type RaiseSingle struct{ Turn }

type RaiseDouble struct{ Turn }

func (OpenGame) isEvent()    {}
func (JoinRequest) isEvent() {}
func (StartGame) isEvent()   {}
func (Fold) isEvent()        {}
func (Check) isEvent()       {}
func (Call) isEvent()        {}
func (RaiseSingle) isEvent() {}
func (RaiseDouble) isEvent() {}

type ActionKind string

const (
	ActionStart  ActionKind = "start"
	ActionFold   ActionKind = "fold"
	ActionCheck  ActionKind = "check"
	ActionCall   ActionKind = "call"
	ActionRaise  ActionKind = "raise"
	ActionDouble ActionKind = "double"
)

// EventFor maps a button action to its event.
func EventFor(kind ActionKind, t Turn) (Event, error) {
	switch kind {
	case ActionStart:
		return StartGame{t}, nil
	case ActionFold:
		return Fold{t}, nil
	case ActionCheck:
		return Check{t}, nil
	case ActionCall:
		return Call{t}, nil
	case ActionRaise:
		return RaiseSingle{t}, nil
	case ActionDouble:
		return RaiseDouble{t}, nil
	default:
		return nil, ErrUnknownEvent
	}
}

// Name is used for logging and the event log.
func Name(ev Event) string {
	switch ev.(type) {
	case OpenGame:
		return "open"
	case JoinRequest:
		return "join"
	case StartGame:
		return string(ActionStart)
	case Fold:
		return string(ActionFold)
	case Check:
		return string(ActionCheck)
	case Call:
		return string(ActionCall)
	case RaiseSingle:
		return string(ActionRaise)
	case RaiseDouble:
		return string(ActionDouble)
	default:
		return "unknown"
	}
}

// PlayerOf returns the player who caused ev.
func PlayerOf(ev Event) string {
	switch e := ev.(type) {
	case OpenGame:
		return e.Host
	case JoinRequest:
		return e.Player
	case StartGame:
		return e.Player
	case Fold:
		return e.Player
	case Check:
		return e.Player
	case Call:
		return e.Player
	case RaiseSingle:
		return e.Player
	case RaiseDouble:
		return e.Player
	default:
		return ""
	}
}
