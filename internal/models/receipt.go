package models

import "time"

// Виды квитанций: gateway — созданная при подтверждении платежа через
// платёжный шлюз, upload — загруженный арендатором файл-подтверждение.
const (
	ReceiptKindGateway = "gateway"
	ReceiptKindUpload  = "upload"
)

// Receipt — квитанция об оплате аренды. Создаётся один раз и никогда
// не обновляется. Для шлюзовых квитанций reference уникален и служит
// ключом идемпотентности подтверждения платежа.
type Receipt struct {
	ID              int        `json:"id"`
	UserUID         string     `json:"user_uid"`
	Kind            string     `json:"kind"`
	RentAmount      int64      `json:"rent_amount"`
	ServiceFee      int64      `json:"service_fee"`
	TotalPaid       int64      `json:"total_paid"`
	Reference       *string    `json:"reference,omitempty"`
	Channel         *string    `json:"channel,omitempty"`
	GatewayResponse *string    `json:"gateway_response,omitempty"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	Filename        *string    `json:"filename,omitempty"`
	Path            *string    `json:"-"`
	MimeType        *string    `json:"mime_type,omitempty"`
	SizeBytes       *int64     `json:"size_bytes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// GatewayPayment — платёж, подтверждённый платёжным шлюзом по reference.
type GatewayPayment struct {
	Reference       string    `json:"reference"`
	TotalPaid       int64     `json:"total_paid"`
	Channel         string    `json:"channel"`
	GatewayResponse string    `json:"gateway_response"`
	PaidAt          time.Time `json:"paid_at"`
}

// ReceiptInfo — квитанция вместе с данными её владельца,
// для списка квитанций у арендодателя.
type ReceiptInfo struct {
	Receipt
	OwnerFirstName string `json:"owner_first_name"`
	OwnerLastName  string `json:"owner_last_name"`
	OwnerEmail     string `json:"owner_email"`
}
