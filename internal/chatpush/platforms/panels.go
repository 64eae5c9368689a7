package platforms

import (
	"strings"
	"sync"
)

// panelBook remembers the platform message id of each panel so later
// updates edit it instead of posting again.
type panelBook struct {
	mu   sync.Mutex
	byID map[string]string
}

func newPanelBook() *panelBook {
	return &panelBook{byID: map[string]string{}}
}

func panelBookKey(endpoint, panelKey string) string {
	return strings.TrimSpace(endpoint) + "|" + strings.TrimSpace(panelKey)
}

func (b *panelBook) get(endpoint, panelKey string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.byID[panelBookKey(endpoint, panelKey)]
}

func (b *panelBook) set(endpoint, panelKey, msgID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byID[panelBookKey(endpoint, panelKey)] = msgID
}

func (b *panelBook) forget(endpoint, panelKey string) {
	key := panelBookKey(endpoint, panelKey)
	if key == "|" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.byID, key)
}

func buttonLine(buttons []Button) string {
	if len(buttons) == 0 {
		return ""
	}
	labels := make([]string, 0, len(buttons))
	for _, b := range buttons {
		labels = append(labels, "["+b.Label+"]")
	}
	return strings.Join(labels, " ")
}

func fallback(v, d string) string {
	if v == "" {
		return d
	}
	return v
}
