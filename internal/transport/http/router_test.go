package httptransport

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"chatpoker/internal/league"
	"chatpoker/internal/store"
	"chatpoker/internal/store/storetest"
)

type pingStore struct {
	*store.Memory
	err error
}

func (p pingStore) Ping(context.Context) error { return p.err }

func newTestRouter(t *testing.T, secret string, pingErr error) (http.Handler, *fakeCoordinator, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	catalog := league.Default(league.Options{CaseInsensitive: true})
	coord := &fakeCoordinator{}
	r := NewRouter(Deps{
		Coordinator:   coord,
		Chat:          &fakeChat{announceTS: "1700000000.000100"},
		Leagues:       catalog,
		Games:         mem,
		LeagueList:    catalog,
		Store:         pingStore{Memory: mem, err: pingErr},
		SigningSecret: secret,
		AdminAPIKey:   "admin-key",
	})
	return r, coord, mem
}

func TestHealthReportsStore(t *testing.T) {
	r, _, _ := newTestRouter(t, "", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"db":"up"`) {
		t.Fatalf("unexpected health: %d %s", rec.Code, rec.Body.String())
	}

	down, _, _ := newTestRouter(t, "", errors.New("no db"))
	rec = httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestReadAPI(t *testing.T) {
	r, _, mem := newTestRouter(t, "", nil)
	g := storetest.SampleGame("C1-1700000000.000100")
	if err := mem.Create(context.Background(), g, store.Change{Event: "open", Player: "A"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leagues", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"name":"plo"`) {
		t.Fatalf("unexpected leagues: %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/games?status=pending&limit=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected games status: %d", rec.Code)
	}
	var games struct {
		Items []struct {
			GameID string `json:"game_id"`
		} `json:"items"`
		Limit int `json:"limit"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &games); err != nil {
		t.Fatalf("decode games: %v", err)
	}
	if len(games.Items) != 1 || games.Items[0].GameID != g.ID || games.Limit != 5 {
		t.Fatalf("unexpected games: %#v", games)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/games?status=bogus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad status, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/games/"+g.ID, nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"event":"open"`) {
		t.Fatalf("unexpected game detail: %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/games/C9-1.1", nil))
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "game_not_found") {
		t.Fatalf("expected 404, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestDebugVarsRequireAdminKey(t *testing.T) {
	r, _, _ := newTestRouter(t, "", nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/debug/vars", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/debug/vars", nil)
	req.Header.Set("Authorization", "Bearer admin-key")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "slack_commands_total") {
		t.Fatalf("unexpected vars response: %d", rec.Code)
	}
}

// slackSignature signs body the way Slack does for a v0 request.
func slackSignature(secret, ts string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + ts + ":"))
	mac.Write(body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func signedRequest(t *testing.T, secret string, ts time.Time, path, body string) *http.Request {
	t.Helper()
	stamp := strconv.FormatInt(ts.Unix(), 10)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Slack-Request-Timestamp", stamp)
	req.Header.Set("X-Slack-Signature", slackSignature(secret, stamp, []byte(body)))
	return req
}

func TestSlackRoutesVerifySignature(t *testing.T) {
	r, coord, _ := newTestRouter(t, "shh", nil)
	body := url.Values{"user_id": {"U1"}, "channel_id": {"C1"}, "text": {"nlhe"}}.Encode()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, signedRequest(t, "shh", time.Now(), "/slack/commands", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected signed command to pass, got %d %s", rec.Code, rec.Body.String())
	}
	if len(coord.Events()) != 1 {
		t.Fatalf("expected the game to be opened, got %d submissions", len(coord.Events()))
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, signedRequest(t, "wrong", time.Now(), "/slack/commands", body))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected bad signature to be rejected, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, signedRequest(t, "shh", time.Now().Add(-6*time.Minute), "/slack/commands", body))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected stale timestamp to be rejected, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(`{"type":"url_verification","challenge":"x"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected unsigned request to be rejected, got %d", rec.Code)
	}
	if len(coord.Events()) != 1 {
		t.Fatal("rejected requests must not reach the coordinator")
	}
}

func TestVerifySlackRequest(t *testing.T) {
	body := []byte("token=x&team_id=T1")
	now := time.Now()
	stamp := func(d time.Duration) string { return strconv.FormatInt(now.Add(d).Unix(), 10) }
	sign := func(ts string) string { return slackSignature("secret", ts, body) }

	tests := []struct {
		name string
		ts   string
		sig  string
		ok   bool
	}{
		{name: "valid", ts: stamp(0), sig: sign(stamp(0)), ok: true},
		{name: "within skew", ts: stamp(-4 * time.Minute), sig: sign(stamp(-4 * time.Minute)), ok: true},
		{name: "too old", ts: stamp(-6 * time.Minute), sig: sign(stamp(-6 * time.Minute)), ok: false},
		{name: "from the future", ts: stamp(6 * time.Minute), sig: sign(stamp(6 * time.Minute)), ok: false},
		{name: "bad timestamp", ts: "yesterday", sig: sign("yesterday"), ok: false},
		{name: "signed for another time", ts: stamp(0), sig: sign(stamp(-time.Minute)), ok: false},
		{name: "wrong version", ts: stamp(0), sig: "v1=" + strings.TrimPrefix(sign(stamp(0)), "v0="), ok: false},
		{name: "missing headers", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.ts != "" {
				h.Set("X-Slack-Request-Timestamp", tt.ts)
			}
			if tt.sig != "" {
				h.Set("X-Slack-Signature", tt.sig)
			}
			err := verifySlackRequest(h, body, "secret")
			if (err == nil) != tt.ok {
				t.Fatalf("verify: err = %v, want ok = %v", err, tt.ok)
			}
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 50, 0},
		{"limit=10&offset=20", 10, 20},
		{"limit=0&offset=-1", 1, 0},
		{"limit=9999", 500, 0},
		{"limit=abc", 50, 0},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/games?"+tt.query, nil)
		limit, offset := ParsePagination(req)
		if limit != tt.wantLimit || offset != tt.wantOffset {
			t.Fatalf("%q: got (%d,%d), want (%d,%d)", tt.query, limit, offset, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestLoggedBodyRedactsSlackSecrets(t *testing.T) {
	form := url.Values{
		"token":   {"verification-token"},
		"user_id": {"U1"},
		"payload": {`{"type":"block_actions","response_url":"https://hooks.slack.com/x","user":{"id":"U1"}}`},
	}.Encode()
	got, ok := loggedBody([]byte(form)).(map[string]any)
	if !ok {
		t.Fatalf("expected form body to decode, got %#v", loggedBody([]byte(form)))
	}
	if got["token"] != "[redacted]" || got["user_id"] != "U1" {
		t.Fatalf("unexpected form fields: %#v", got)
	}
	payload, ok := got["payload"].(map[string]any)
	if !ok || payload["response_url"] != "[redacted]" || payload["type"] != "block_actions" {
		t.Fatalf("unexpected payload: %#v", got["payload"])
	}

	js, ok := loggedBody([]byte(`{"token":"x","event":{"type":"reaction_added"}}`)).(map[string]any)
	if !ok || js["token"] != "[redacted]" {
		t.Fatalf("unexpected json body: %#v", js)
	}
	if loggedBody(nil) != "" {
		t.Fatal("empty body should log as empty string")
	}
}
