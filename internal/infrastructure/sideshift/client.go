package sideshift

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sidetrade/shift-service/internal/domain"
)

// Client talks to the SideShift v2 HTTP API. It does no caching and no
// retrying; callers own both policies.
type Client struct {
	baseURL string
	secret  string
	client  *http.Client
}

func NewClient(baseURL, secret string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		secret:  secret,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) GetPairRate(ctx context.Context, depositCoin, settleCoin string) (*domain.Quote, error) {
	pair := domain.NewPairKey(depositCoin, settleCoin)
	url := fmt.Sprintf("%s/pair/%s/%s", c.baseURL, pair.DepositCoin, pair.SettleCoin)

	var pr pairResponse
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &pr); err != nil {
		return nil, err
	}

	return pr.toQuote(pair), nil
}

func (c *Client) GetQuote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	if req.DepositAmount != "" && req.SettleAmount != "" {
		return nil, fmt.Errorf("%w: depositAmount and settleAmount are mutually exclusive", domain.ErrInvalidRequest)
	}

	pair := domain.NewPairKey(req.DepositCoin, req.SettleCoin)
	pair.DepositNetwork = req.DepositNetwork
	pair.SettleNetwork = req.SettleNetwork

	body := quoteRequestBody{
		DepositCoin:    pair.DepositCoin,
		SettleCoin:     pair.SettleCoin,
		DepositNetwork: req.DepositNetwork,
		SettleNetwork:  req.SettleNetwork,
		DepositAmount:  req.DepositAmount,
		SettleAmount:   req.SettleAmount,
	}

	var pr pairResponse
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/quotes", body, &pr); err != nil {
		return nil, err
	}

	return pr.toQuote(pair), nil
}

func (c *Client) GetCoins(ctx context.Context) ([]*domain.Coin, error) {
	var raw []coinResponse
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/coins", nil, &raw); err != nil {
		return nil, err
	}

	coins := make([]*domain.Coin, 0, len(raw))
	for _, cr := range raw {
		coins = append(coins, &domain.Coin{
			Coin:         cr.Coin,
			Name:         cr.Name,
			Networks:     cr.Networks,
			HasMemo:      cr.HasMemo,
			FixedOnly:    cr.FixedOnly,
			VariableOnly: cr.VariableOnly,
		})
	}

	return coins, nil
}

// GetCoinIcon proxies the provider's SVG icon for a coin, optionally
// scoped to a network.
func (c *Client) GetCoinIcon(ctx context.Context, coin, network string) ([]byte, error) {
	slug := strings.ToLower(coin)
	if network != "" {
		slug = slug + "-" + strings.ToLower(network)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/coins/icon/"+slug, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.secret != "" {
		req.Header.Set("x-sideshift-secret", c.secret)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	responseBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", domain.ErrProviderUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return responseBodyBytes, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: no icon for %s", domain.ErrUnknownPair, slug)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderUnavailable, resp.Status)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderFailed, resp.Status)
	}
}

func (c *Client) CreateShift(ctx context.Context, req domain.CreateShiftRequest) (*domain.ShiftOrder, error) {
	body := createShiftBody{
		DepositCoin:    req.DepositCoin,
		SettleCoin:     req.SettleCoin,
		DepositNetwork: req.DepositNetwork,
		SettleNetwork:  req.SettleNetwork,
		SettleAddress:  req.SettleAddress,
		AffiliateID:    req.AffiliateID,
		Type:           string(req.Type),
	}
	if req.Type == domain.ShiftTypeFixed {
		body.DepositAmount = req.DepositAmount
	}

	url := fmt.Sprintf("%s/shifts/%s", c.baseURL, req.Type)

	var sr shiftResponse
	if err := c.doJSON(ctx, http.MethodPost, url, body, &sr); err != nil {
		return nil, err
	}

	return sr.toOrder(), nil
}

func (c *Client) GetShift(ctx context.Context, id string) (*domain.ShiftOrder, error) {
	var sr shiftResponse
	err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/shifts/"+id, nil, &sr)
	if err != nil {
		// the shifts endpoint 404s by order id, not by pair
		if errors.Is(err, domain.ErrUnknownPair) {
			return nil, fmt.Errorf("%w: shift %s", domain.ErrOrderNotFound, id)
		}
		return nil, err
	}

	return sr.toOrder(), nil
}

func (sr *shiftResponse) toOrder() *domain.ShiftOrder {
	expiresAt, _ := time.Parse(time.RFC3339, sr.ExpiresAt)
	return &domain.ShiftOrder{
		ID:             sr.ID,
		DepositCoin:    sr.DepositCoin,
		SettleCoin:     sr.SettleCoin,
		DepositNetwork: sr.DepositNetwork,
		SettleNetwork:  sr.SettleNetwork,
		DepositAddress: sr.DepositAddress,
		DepositMemo:    sr.DepositMemo,
		SettleAddress:  sr.SettleAddress,
		Rate:           sr.Rate,
		DepositMin:     sr.DepositMin,
		DepositMax:     sr.DepositMax,
		ExpiresAt:      expiresAt,
		Status:         sr.Status,
		Type:           domain.ShiftType(sr.Type),
	}
}

func (c *Client) doJSON(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		requestBodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(requestBodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.secret != "" {
		req.Header.Set("x-sideshift-secret", c.secret)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	responseBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", domain.ErrProviderUnavailable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.Unmarshal(responseBodyBytes, out); err != nil {
			return fmt.Errorf("%w: failed to parse response: %v", domain.ErrProviderFailed, err)
		}
		return nil
	}

	var errResp errorResponse
	message := resp.Status
	if err := json.Unmarshal(responseBodyBytes, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrUnknownPair, message)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s", domain.ErrProviderUnavailable, message)
	default:
		return fmt.Errorf("%w: %s", domain.ErrProviderFailed, message)
	}
}
