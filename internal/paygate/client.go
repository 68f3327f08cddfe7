package paygate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/renteaseone/rentease-backend/internal/models"
)

// ErrVerificationFailed возвращается, когда шлюз не подтвердил платёж.
var ErrVerificationFailed = errors.New("payment verification failed")

// Client — клиент HTTP API платёжного шлюза.
type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент шлюза.
func NewClient(secretKey, apiURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		secretKey:  secretKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// VerifyTransaction проверяет транзакцию по reference и возвращает
// подтверждённый платёж. Суммы шлюза конвертируются из сотых долей
// в целые единицы валюты.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*models.GatewayPayment, error) {
	const op = "paygate.VerifyTransaction"

	endpoint := c.apiURL + "/transaction/verify/" + url.PathEscape(reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !body.Status || body.Data.Status != "success" {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrVerificationFailed, body.Message)
	}

	return &models.GatewayPayment{
		Reference:       body.Data.Reference,
		TotalPaid:       body.Data.Amount / 100,
		Channel:         body.Data.Channel,
		GatewayResponse: body.Data.GatewayResponse,
		PaidAt:          body.Data.PaidAt,
	}, nil
}
