package public

import "time"

type LeaguesResponse struct {
	Items []LeagueItem `json:"items"`
}

type LeagueItem struct {
	Name     string   `json:"name"`
	BuyIn    int64    `json:"buy_in"`
	Units    string   `json:"units"`
	Synonyms []string `json:"synonyms"`
}

type GamesResponse struct {
	Items  []GameItem `json:"items"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

type GameItem struct {
	GameID     string    `json:"game_id"`
	Channel    string    `json:"channel"`
	League     string    `json:"league"`
	Units      string    `json:"units"`
	Status     string    `json:"status"`
	Host       string    `json:"host"`
	Players    int       `json:"players"`
	Pot        int64     `json:"pot"`
	Round      int       `json:"round"`
	Seq        uint64    `json:"seq"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	MessageRef string    `json:"message_ts"`
}

type GameDetailResponse struct {
	Game    GameItem      `json:"game"`
	State   GameState     `json:"state"`
	Events  []EventItem   `json:"events"`
	Results []ResultEntry `json:"results"`
}

// GameState is the public view of a snapshot. Turn bookkeeping that only the
// engine needs is left out.
type GameState struct {
	Players    []PlayerState `json:"players"`
	CurrentBet int64         `json:"current_bet"`
	Actor      string        `json:"actor,omitempty"`
	Winners    []string      `json:"winners,omitempty"`
	Round      int           `json:"round"`
}

type PlayerState struct {
	Player      string `json:"player"`
	Contributed int64  `json:"contributed"`
	Folded      bool   `json:"folded"`
	Host        bool   `json:"host"`
	Payout      int64  `json:"payout"`
}

type EventItem struct {
	Seq       uint64    `json:"seq"`
	Event     string    `json:"event"`
	Player    string    `json:"player"`
	CreatedAt time.Time `json:"created_at"`
}

type ResultEntry struct {
	Player string `json:"player"`
	Amount int64  `json:"amount"`
	Units  string `json:"units"`
}
