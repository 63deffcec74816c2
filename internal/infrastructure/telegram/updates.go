package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Update is one inbound Bot API event. Only text messages matter here;
// everything else arrives with a nil Message and is skipped upstream.
type Update struct {
	UpdateID int64            `json:"update_id"`
	Message  *IncomingMessage `json:"message"`
}

type IncomingMessage struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

type updatesResponse struct {
	OK          bool     `json:"ok"`
	Description string   `json:"description"`
	Result      []Update `json:"result"`
}

// GetUpdates fetches pending updates past the given offset. The offset
// confirms everything before it, so callers must advance it past each
// update they have handled or Telegram redelivers.
func (s *Sender) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	url := fmt.Sprintf("%s/bot%s/getUpdates?offset=%d", s.apiBase, s.token, offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("update poll failed: %w", err)
	}
	defer resp.Body.Close()

	responseBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read updates response: %w", err)
	}

	var ur updatesResponse
	if err := json.Unmarshal(responseBodyBytes, &ur); err != nil {
		return nil, fmt.Errorf("failed to parse updates response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !ur.OK {
		description := ur.Description
		if description == "" {
			description = resp.Status
		}
		return nil, fmt.Errorf("update poll rejected: %s", description)
	}

	return ur.Result, nil
}
