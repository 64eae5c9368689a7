package platforms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// FeishuAdapter mirrors game panels as interactive cards. The secret is
// either a bare signature or "sig:<signature>;bearer:<token>"; the bearer
// token is needed to edit cards in place.
type FeishuAdapter struct {
	client *HTTPClient
	panels *panelBook
}

func NewFeishuAdapter(client *HTTPClient) *FeishuAdapter {
	return &FeishuAdapter{client: client, panels: newPanelBook()}
}

func (a *FeishuAdapter) Name() string {
	return "feishu"
}

func feishuTemplate(color int) string {
	switch color {
	case ColorSettled:
		return "green"
	case ColorTurn:
		return "blue"
	case ColorLobby:
		return "purple"
	default:
		return "grey"
	}
}

func feishuPayload(msg Message) map[string]any {
	elements := []map[string]string{{
		"tag":  "markdown",
		"text": fallback(msg.Description, msg.Content),
	}}
	for _, f := range msg.Fields {
		elements = append(elements, map[string]string{
			"tag":  "markdown",
			"text": "**" + f.Name + "**: " + f.Value,
		})
	}
	if line := buttonLine(msg.Buttons); line != "" {
		elements = append(elements, map[string]string{"tag": "markdown", "text": line})
	}
	if msg.Footer != "" {
		elements = append(elements, map[string]string{"tag": "markdown", "text": "_" + msg.Footer + "_"})
	}
	return map[string]any{
		"msg_type": "interactive",
		"card": map[string]any{
			"header": map[string]any{
				"title":    map[string]any{"tag": "plain_text", "content": msg.Title},
				"template": feishuTemplate(msg.Color),
			},
			"elements": elements,
		},
	}
}

func (a *FeishuAdapter) Send(ctx context.Context, endpoint, secret string, msg Message) error {
	signature, bearer := parseFeishuSecret(secret)
	payload := feishuPayload(msg)
	headers := map[string]string{}
	if signature != "" {
		headers["X-Lark-Signature"] = signature
	}
	if strings.TrimSpace(msg.PanelKey) == "" {
		return a.client.PostJSON(ctx, endpoint, headers, payload)
	}

	if msgID := a.panels.get(endpoint, msg.PanelKey); msgID != "" {
		editURL, ok := feishuEditURL(endpoint, msgID)
		if !ok || bearer == "" {
			return a.client.PostJSON(ctx, endpoint, headers, payload)
		}
		_, _, err := a.client.PatchJSONWithResponse(ctx, editURL, map[string]string{"Authorization": "Bearer " + bearer}, payload)
		var statusErr *StatusError
		if err == nil || !errors.As(err, &statusErr) || statusErr.Status != http.StatusNotFound {
			return err
		}
	}
	createdID, err := a.createPanelMessage(ctx, endpoint, headers, payload)
	if err != nil {
		return err
	}
	a.panels.set(endpoint, msg.PanelKey, createdID)
	return nil
}

func (a *FeishuAdapter) ForgetPanel(endpoint, panelKey string) {
	a.panels.forget(endpoint, panelKey)
}

func (a *FeishuAdapter) createPanelMessage(ctx context.Context, endpoint string, headers map[string]string, payload map[string]any) (string, error) {
	_, body, err := a.client.PostJSONWithResponse(ctx, endpoint, headers, payload)
	if err != nil {
		return "", err
	}
	var created struct {
		MessageID string `json:"message_id"`
		Data      struct {
			MessageID string `json:"message_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return "", err
	}
	if id := fallback(created.MessageID, created.Data.MessageID); strings.TrimSpace(id) != "" {
		return id, nil
	}
	return "", fmt.Errorf("feishu create message missing id")
}

func parseFeishuSecret(secret string) (signature string, bearer string) {
	s := strings.TrimSpace(secret)
	if s == "" {
		return "", ""
	}
	parts := strings.Split(s, ";")
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch {
		case strings.HasPrefix(p, "sig:"):
			signature = strings.TrimSpace(strings.TrimPrefix(p, "sig:"))
		case strings.HasPrefix(p, "bearer:"):
			bearer = strings.TrimSpace(strings.TrimPrefix(p, "bearer:"))
		case len(parts) == 1:
			signature = p
		}
	}
	return signature, bearer
}

func feishuEditURL(endpoint, msgID string) (string, bool) {
	if strings.TrimSpace(endpoint) == "" || strings.TrimSpace(msgID) == "" {
		return "", false
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false
	}
	u.Path = "/open-apis/im/v1/messages/" + msgID
	u.RawQuery = ""
	return u.String(), true
}
