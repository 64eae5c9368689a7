package platforms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
)

const DefaultSlackAPIURL = "https://slack.com/api"

var ErrSlackNotConfigured = errors.New("slack_not_configured")

// SlackError is a Web API call that returned ok=false.
type SlackError struct {
	Method string
	Code   string
}

func (e *SlackError) Error() string {
	return fmt.Sprintf("slack %s: %s", e.Method, e.Code)
}

// Posted identifies a message created through chat.postMessage.
type Posted struct {
	Channel string `json:"channel"`
	TS      string `json:"ts"`
}

// SlackAdapter talks to the Slack Web API with a bot token. The endpoint
// passed to Send is the channel id.
type SlackAdapter struct {
	client  *HTTPClient
	token   string
	baseURL string
}

func NewSlackAdapter(client *HTTPClient, token, baseURL string) *SlackAdapter {
	return &SlackAdapter{
		client:  client,
		token:   strings.TrimSpace(token),
		baseURL: strings.TrimRight(fallback(strings.TrimSpace(baseURL), DefaultSlackAPIURL), "/"),
	}
}

func (a *SlackAdapter) Name() string {
	return "slack"
}

func (a *SlackAdapter) Send(ctx context.Context, endpoint, _ string, msg Message) error {
	_, err := a.Post(ctx, endpoint, msg)
	return err
}

// Post sends msg to channel and returns the created message reference.
func (a *SlackAdapter) Post(ctx context.Context, channel string, msg Message) (Posted, error) {
	payload := map[string]any{
		"channel": channel,
		"text":    fallback(msg.Content, msg.Description),
		"blocks":  slackBlocks(msg),
	}
	var out Posted
	if err := a.call(ctx, "chat.postMessage", payload, &out); err != nil {
		return Posted{}, err
	}
	return out, nil
}

// PostEphemeral shows text to a single user in channel.
func (a *SlackAdapter) PostEphemeral(ctx context.Context, channel, user, text string) error {
	return a.call(ctx, "chat.postEphemeral", map[string]any{
		"channel": channel,
		"user":    user,
		"text":    text,
	}, nil)
}

// DeleteOriginal removes the message an interaction came from.
func (a *SlackAdapter) DeleteOriginal(ctx context.Context, responseURL string) error {
	if strings.TrimSpace(responseURL) == "" {
		return nil
	}
	return a.client.PostJSON(ctx, responseURL, nil, map[string]any{"delete_original": true})
}

func (a *SlackAdapter) call(ctx context.Context, method string, payload any, out any) error {
	if a.token == "" {
		return ErrSlackNotConfigured
	}
	headers := map[string]string{"Authorization": "Bearer " + a.token}
	_, body, err := a.client.PostJSONWithResponse(ctx, a.baseURL+"/"+method, headers, payload)
	if err != nil {
		return err
	}
	var envelope slack.SlackResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("slack %s: decode response: %w", method, err)
	}
	if !envelope.Ok {
		return &SlackError{Method: method, Code: fallback(envelope.Error, "unknown_error")}
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("slack %s: decode response: %w", method, err)
		}
	}
	return nil
}

func slackBlocks(msg Message) []slack.Block {
	text := fallback(msg.Description, msg.Content)
	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil),
	}
	if len(msg.Fields) > 0 {
		fields := make([]*slack.TextBlockObject, 0, len(msg.Fields))
		for _, f := range msg.Fields {
			fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType, "*"+f.Name+"*\n"+f.Value, false, false))
		}
		blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))
	}
	if len(msg.Buttons) > 0 {
		elements := make([]slack.BlockElement, 0, len(msg.Buttons))
		for _, b := range msg.Buttons {
			btn := slack.NewButtonBlockElement(b.ActionID, b.Value, slack.NewTextBlockObject(slack.PlainTextType, b.Label, true, false))
			switch slack.Style(b.Style) {
			case slack.StylePrimary, slack.StyleDanger:
				btn = btn.WithStyle(slack.Style(b.Style))
			}
			elements = append(elements, btn)
		}
		blocks = append(blocks, slack.NewActionBlock("", elements...))
	}
	if msg.Footer != "" {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject(slack.MarkdownType, msg.Footer, false, false)))
	}
	return blocks
}
