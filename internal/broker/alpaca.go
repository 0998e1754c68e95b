package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"RangeTrader/internal/model"
)

// AlpacaBroker places paper market orders through the Alpaca v2 REST API.
type AlpacaBroker struct {
	Key     string
	Secret  string
	BaseURL string
	Client  *http.Client
}

// NewAlpacaBroker creates a broker against the Alpaca paper endpoint, with
// optional proxy support.
func NewAlpacaBroker(key, secret, baseURL, proxyURL string) *AlpacaBroker {
	if baseURL == "" {
		baseURL = "https://paper-api.alpaca.markets"
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &AlpacaBroker{
		Key:     key,
		Secret:  secret,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (b *AlpacaBroker) Name() string { return "alpaca" }

func (b *AlpacaBroker) authHeaders(req *http.Request) {
	req.Header.Set("APCA-API-KEY-ID", b.Key)
	req.Header.Set("APCA-API-SECRET-KEY", b.Secret)
}

type alpacaOrderRequest struct {
	Symbol      string `json:"symbol"`
	Qty         string `json:"qty"`
	Side        string `json:"side"`
	Type        string `json:"type"`
	TimeInForce string `json:"time_in_force"`
}

type alpacaOrderResponse struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitOrder sends a day market order to the paper account.
func (b *AlpacaBroker) SubmitOrder(ctx context.Context, symbol string, qty int, side model.Side) (*model.OrderAck, error) {
	payload := alpacaOrderRequest{
		Symbol:      strings.ToUpper(symbol),
		Qty:         strconv.Itoa(qty),
		Side:        string(side),
		Type:        "market",
		TimeInForce: "day",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", b.BaseURL+"/v2/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	b.authHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alpaca order: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("alpaca read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("alpaca order: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var order alpacaOrderResponse
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("alpaca decode order: %w", err)
	}

	return &model.OrderAck{
		ID:        order.ID,
		Symbol:    order.Symbol,
		Qty:       qty,
		Side:      side,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
	}, nil
}

// alpacaAccountResponse carries the account figures as decimal strings.
type alpacaAccountResponse struct {
	BuyingPower string `json:"buying_power"`
	Equity      string `json:"equity"`
	Cash        string `json:"cash"`
}

// Account fetches the paper account balances.
func (b *AlpacaBroker) Account(ctx context.Context) (*model.Account, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", b.BaseURL+"/v2/account", nil)
	if err != nil {
		return nil, err
	}
	b.authHeaders(req)

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alpaca account: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("alpaca read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alpaca account: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var acct alpacaAccountResponse
	if err := json.Unmarshal(respBody, &acct); err != nil {
		return nil, fmt.Errorf("alpaca decode account: %w", err)
	}

	out := &model.Account{}
	out.BuyingPower, _ = strconv.ParseFloat(acct.BuyingPower, 64)
	out.Equity, _ = strconv.ParseFloat(acct.Equity, 64)
	out.Cash, _ = strconv.ParseFloat(acct.Cash, 64)
	return out, nil
}
