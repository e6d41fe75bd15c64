package zibal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ascent-club-bot/internal/gateway"
	"ascent-club-bot/internal/models/config"

	"go.uber.org/zap"
)

// Client — клиент шлюза Зибал. Заводит платежи и проверяет их статус.
type Client struct {
	httpClient *http.Client
	baseURL    string
	merchant   string
	log        *zap.SugaredLogger
}

func NewClient(log *zap.SugaredLogger) gateway.PaymentGateway {
	cfg := config.AppConfig.Zibal

	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    cfg.BaseURL,
		merchant:   cfg.Merchant,
		log:        log,
	}
}

type requestPayload struct {
	Merchant    string `json:"merchant"`
	Amount      int64  `json:"amount"`
	CallbackURL string `json:"callbackUrl"`
	OrderID     string `json:"orderId"`
	Description string `json:"description"`
}

type verifyPayload struct {
	Merchant string `json:"merchant"`
	TrackID  string `json:"trackId"`
}

func (c *Client) Request(ctx context.Context, amount int64, orderID, description string) (string, string, error) {
	payload := requestPayload{
		Merchant:    c.merchant,
		Amount:      amount,
		CallbackURL: config.AppConfig.Zibal.CallbackURL,
		OrderID:     orderID,
		Description: description,
	}

	var result gateway.RequestResult
	if err := c.post(ctx, "/v1/request", payload, &result); err != nil {
		return "", "", err
	}

	if result.Result != gateway.ResultConfirmed {
		return "", "", fmt.Errorf("zibal request failed: result=%d message=%s", result.Result, result.Message)
	}

	trackID := strconv.FormatInt(result.TrackID, 10)
	payURL := fmt.Sprintf("%s/start/%s", c.baseURL, trackID)

	c.log.Infof("💸 Платёж заведён: trackId=%s orderId=%s сумма=%d", trackID, orderID, amount)
	return trackID, payURL, nil
}

func (c *Client) Verify(ctx context.Context, trackID string) (*gateway.VerifyResult, error) {
	payload := verifyPayload{
		Merchant: c.merchant,
		TrackID:  trackID,
	}

	var result gateway.VerifyResult
	if err := c.post(ctx, "/v1/verify", payload, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) post(ctx context.Context, path string, payload, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("zibal call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("zibal call %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode zibal response: %w", err)
	}

	return nil
}
