package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sidetrade/shift-service/internal/domain"
)

const defaultAPIBase = "https://api.telegram.org"

// Sender delivers messages through the Telegram Bot API. A 403 from the
// API means the chat blocked the bot and is reported as
// domain.ErrPermanentlyBlocked so the registry can drop the subscriber.
type Sender struct {
	apiBase string
	token   string
	client  *http.Client
}

func NewSender(token string, timeout time.Duration) *Sender {
	return &Sender{
		apiBase: defaultAPIBase,
		token:   token,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type sendMessageBody struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

func (s *Sender) Deliver(ctx context.Context, chatID int64, text string) error {
	body, err := json.Marshal(sendMessageBody{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("delivery request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read delivery response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var apiResp apiResponse
	description := resp.Status
	if err := json.Unmarshal(responseBodyBytes, &apiResp); err == nil && apiResp.Description != "" {
		description = apiResp.Description
	}

	if resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: chat %d: %s", domain.ErrPermanentlyBlocked, chatID, description)
	}

	return fmt.Errorf("delivery to chat %d failed: %s", chatID, description)
}
