// Package paygate реализует клиент платёжного шлюза Paystack:
// проверку транзакции по reference.
package paygate

import "time"

// verifyResponse — ответ шлюза на запрос проверки транзакции.
// Суммы приходят в сотых долях единицы валюты.
type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status          string    `json:"status"`
		Reference       string    `json:"reference"`
		Amount          int64     `json:"amount"`
		Channel         string    `json:"channel"`
		GatewayResponse string    `json:"gateway_response"`
		PaidAt          time.Time `json:"paid_at"`
	} `json:"data"`
}
