package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sidetrade/shift-service/internal/domain"
	"github.com/sidetrade/shift-service/internal/usecase"
)

type fakeMarket struct {
	snap   *domain.MarketSnapshot
	cached bool
	err    error
}

func (f *fakeMarket) RefreshOnce(ctx context.Context) (*domain.MarketSnapshot, error) {
	return f.snap, f.err
}

func (f *fakeMarket) Serve(ctx context.Context, forceFresh bool) (*domain.MarketSnapshot, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	return f.snap, f.cached && !forceFresh, nil
}

func (f *fakeMarket) Snapshot() *domain.MarketSnapshot { return f.snap }

type fakeShift struct {
	created    *domain.ShiftOrder
	createErr  error
	lastInput  *usecase.CreateShiftInput
	statusErr  error
	iconErr    error
	quoteCalls int
}

func (f *fakeShift) CreateShift(ctx context.Context, input *usecase.CreateShiftInput) (*usecase.CreateShiftOutput, error) {
	f.lastInput = input
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &usecase.CreateShiftOutput{RequestID: "req-1", Order: f.created}, nil
}

func (f *fakeShift) GetShiftStatus(ctx context.Context, id string) (*domain.ShiftOrder, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.created, nil
}

func (f *fakeShift) GetQuote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	f.quoteCalls++
	return &domain.Quote{
		Pair: domain.NewPairKey(req.DepositCoin, req.SettleCoin),
		Rate: "0.042",
	}, nil
}

func (f *fakeShift) GetCoins(ctx context.Context) ([]*domain.Coin, error) {
	return []*domain.Coin{{Coin: "btc", Name: "Bitcoin", Networks: []string{"bitcoin"}}}, nil
}

func (f *fakeShift) GetCoinIcon(ctx context.Context, coin, network string) ([]byte, error) {
	if f.iconErr != nil {
		return nil, f.iconErr
	}
	return []byte(fmt.Sprintf("<svg><!-- %s %s --></svg>", coin, network)), nil
}

type fakeSubs struct {
	subs map[int64]string
}

func (f *fakeSubs) Subscribe(chatID int64, label string) bool {
	if _, ok := f.subs[chatID]; ok {
		return true
	}
	f.subs[chatID] = label
	return false
}

func (f *fakeSubs) Unsubscribe(chatID int64) bool {
	_, ok := f.subs[chatID]
	delete(f.subs, chatID)
	return ok
}

func (f *fakeSubs) IsSubscribed(chatID int64) bool { _, ok := f.subs[chatID]; return ok }

func (f *fakeSubs) Get(chatID int64) (*domain.Subscriber, bool) { return nil, false }

func (f *fakeSubs) Count() int { return len(f.subs) }

func (f *fakeSubs) Broadcast(ctx context.Context, message string) {}

func newTestServer(market *fakeMarket, shift *fakeShift, subs *fakeSubs) *httptest.Server {
	router := http.NewServeMux()
	SetRoutes(router,
		NewMarketHandler(market, shift, subs),
		NewShiftHandler(shift),
		NewSubscriptionHandler(subs))
	return httptest.NewServer(router)
}

func TestGetPairsReturnsSnapshot(t *testing.T) {
	market := &fakeMarket{
		snap: &domain.MarketSnapshot{
			Pairs: []domain.PairQuote{
				{Pair: domain.NewPairKey("eth", "usdc"), Quote: domain.Quote{Rate: "2500"}},
			},
			CapturedAt: time.Now(),
		},
		cached: true,
	}
	srv := newTestServer(market, &fakeShift{}, &fakeSubs{subs: map[int64]string{}})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/pairs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data []struct {
			Deposit string `json:"deposit"`
			Rate    string `json:"rate"`
		} `json:"data"`
		Cached bool `json:"cached"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !body.Cached {
		t.Errorf("expected cached=true")
	}
	if len(body.Data) != 1 || body.Data[0].Deposit != "eth" || body.Data[0].Rate != "2500" {
		t.Errorf("unexpected pairs payload: %+v", body.Data)
	}
}

func TestGetShiftStatusNotFound(t *testing.T) {
	shift := &fakeShift{statusErr: fmt.Errorf("%w: shift no-such-id", domain.ErrOrderNotFound)}
	srv := newTestServer(&fakeMarket{}, shift, &fakeSubs{subs: map[int64]string{}})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/shifts/no-such-id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Error == "" || !strings.Contains(body.Message, "no-such-id") {
		t.Errorf("unexpected error body: %+v", body)
	}
}

func TestCreateFixedShiftRequiresAmount(t *testing.T) {
	shift := &fakeShift{}
	srv := newTestServer(&fakeMarket{}, shift, &fakeSubs{subs: map[int64]string{}})
	defer srv.Close()

	payload := `{"depositCoin":"btc","settleCoin":"eth","settleAddress":"0xabc"}`
	resp, err := http.Post(srv.URL+"/api/shifts/fixed", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	if shift.lastInput != nil {
		t.Errorf("expected rejection before reaching the usecase")
	}
}

func TestCreateVariableShiftDropsAmount(t *testing.T) {
	shift := &fakeShift{created: &domain.ShiftOrder{ID: "s1", Type: domain.ShiftTypeVariable}}
	srv := newTestServer(&fakeMarket{}, shift, &fakeSubs{subs: map[int64]string{}})
	defer srv.Close()

	payload := `{"depositCoin":"btc","settleCoin":"eth","settleAddress":"0xabc","depositAmount":"1.5"}`
	resp, err := http.Post(srv.URL+"/api/shifts/variable", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if shift.lastInput == nil || shift.lastInput.DepositAmount != "" {
		t.Errorf("expected deposit amount stripped for variable shifts, got %+v", shift.lastInput)
	}
}

func TestCreateShiftOutOfRangeMapsTo422(t *testing.T) {
	shift := &fakeShift{createErr: fmt.Errorf("%w: amount 500 outside current bounds", domain.ErrAmountOutOfRange)}
	srv := newTestServer(&fakeMarket{}, shift, &fakeSubs{subs: map[int64]string{}})
	defer srv.Close()

	payload := `{"depositCoin":"btc","settleCoin":"eth","settleAddress":"0xabc","depositAmount":"500"}`
	resp, err := http.Post(srv.URL+"/api/shifts", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", resp.StatusCode)
	}
}

func TestGetCoinIconStreamsSVG(t *testing.T) {
	srv := newTestServer(&fakeMarket{}, &fakeShift{}, &fakeSubs{subs: map[int64]string{}})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/coins/icon/btc?network=bitcoin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("expected image/svg+xml, got %q", ct)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "btc bitcoin") {
		t.Errorf("coin and network not forwarded: %s", body)
	}
}

func TestGetCoinIconUnknownCoin(t *testing.T) {
	shift := &fakeShift{iconErr: fmt.Errorf("%w: no icon for nope", domain.ErrUnknownPair)}
	srv := newTestServer(&fakeMarket{}, shift, &fakeSubs{subs: map[int64]string{}})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/coins/icon/nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestSubscribeLifecycle(t *testing.T) {
	subs := &fakeSubs{subs: map[int64]string{}}
	srv := newTestServer(&fakeMarket{}, &fakeShift{}, subs)
	defer srv.Close()

	payload := `{"chatId":42,"label":"alice"}`
	resp, err := http.Post(srv.URL+"/api/subscribers", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 on first subscribe, got %d", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/api/subscribers", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 on repeat subscribe, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/subscribers/42", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 on unsubscribe, got %d", resp.StatusCode)
	}
	if subs.Count() != 0 {
		t.Errorf("expected empty registry after unsubscribe, got %d", subs.Count())
	}
}

func TestUnsubscribeRejectsBadChatID(t *testing.T) {
	srv := newTestServer(&fakeMarket{}, &fakeShift{}, &fakeSubs{subs: map[int64]string{}})
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/subscribers/abc", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPostQuoteRejectsMalformedBody(t *testing.T) {
	shift := &fakeShift{}
	srv := newTestServer(&fakeMarket{}, shift, &fakeSubs{subs: map[int64]string{}})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/quote", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	if shift.quoteCalls != 0 {
		t.Errorf("expected no quote lookup for malformed body")
	}
}

func TestGetQuotePathForm(t *testing.T) {
	srv := newTestServer(&fakeMarket{}, &fakeShift{}, &fakeSubs{subs: map[int64]string{}})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/quote/eth/usdc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data struct {
			Pair string `json:"pair"`
			Rate string `json:"rate"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Data.Pair != "eth/usdc" || body.Data.Rate != "0.042" {
		t.Errorf("unexpected quote payload: %+v", body.Data)
	}
}

func TestHealthReportsSubscriberCount(t *testing.T) {
	subs := &fakeSubs{subs: map[int64]string{1: "", 2: ""}}
	srv := newTestServer(&fakeMarket{}, &fakeShift{}, subs)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Status      string `json:"status"`
		Subscribers int    `json:"subscribers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Status != "healthy" || body.Subscribers != 2 {
		t.Errorf("unexpected health payload: %+v", body)
	}
}
