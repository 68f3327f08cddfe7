// Package models содержит доменную модель пользователя системы:
// арендатора или арендодателя, их связь между собой и назначенную
// к оплате аренду. Структуры используются в бизнес-логике и при
// работе с хранилищем.
package models

import "time"

// Роли пользователя. Пустая роль означает, что пользователь
// зарегистрировался, но ещё не выбрал роль.
const (
	RoleTenant   = "tenant"
	RoleLandlord = "landlord"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID            string       `json:"uid"`
	FirstName      string       `json:"first_name"`
	LastName       string       `json:"last_name"`
	Email          string       `json:"email"`
	PasswordHash   string       `json:"-"`
	Role           string       `json:"role"` // tenant, landlord или пустая строка
	LandlordCode   *string      `json:"landlord_code,omitempty"`
	LandlordUID    *string      `json:"landlord_uid,omitempty"`
	ConnectedOn    *time.Time   `json:"connected_on,omitempty"`
	PendingRent    *PendingRent `json:"pending_rent,omitempty"`
	LastReminderAt *time.Time   `json:"-"`
	Photo          *string      `json:"photo,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// PendingRent описывает единственную назначенную, но ещё не оплаченную
// аренду арендатора. Создаётся арендодателем, очищается ровно один раз
// при успешном подтверждении платежа.
type PendingRent struct {
	Amount     int64     `json:"amount"`
	ServiceFee int64     `json:"service_fee"`
	Total      int64     `json:"total"`
	SetBy      string    `json:"set_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// LandlordInfo — read-side агрегат арендодателя для профиля арендатора:
// публичные данные плюс банковские реквизиты, если они заполнены.
type LandlordInfo struct {
	UID         string       `json:"uid"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Email       string       `json:"email"`
	BankDetails *BankDetails `json:"bank_details,omitempty"`
}

// TenantProfile — профиль арендатора вместе с привязанным арендодателем.
type TenantProfile struct {
	User     User          `json:"user"`
	Landlord *LandlordInfo `json:"landlord,omitempty"`
}

// TenantInfo — строка списка арендаторов, какой её видит арендодатель.
type TenantInfo struct {
	UID         string       `json:"uid"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Email       string       `json:"email"`
	ConnectedOn *time.Time   `json:"connected_on,omitempty"`
	PendingRent *PendingRent `json:"pending_rent,omitempty"`
}
