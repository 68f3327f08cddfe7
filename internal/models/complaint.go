package models

import "time"

// Complaint — жалоба арендатора своему арендодателю.
// После создания запись неизменяема.
type Complaint struct {
	ID          int       `json:"id"`
	TenantUID   string    `json:"tenant_uid"`
	LandlordUID string    `json:"landlord_uid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ComplaintInfo — жалоба вместе с именем арендатора,
// как её видит арендодатель.
type ComplaintInfo struct {
	Complaint
	TenantFirstName string `json:"tenant_first_name"`
	TenantLastName  string `json:"tenant_last_name"`
	TenantEmail     string `json:"tenant_email"`
}
