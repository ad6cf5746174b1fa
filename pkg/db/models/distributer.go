package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Distributer is the downstream counterparty that places orders and accrues
// balance. AddedBy points at the field user who onboarded them and is the
// default assignee for their orders.
type Distributer struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DistributerID     string          `gorm:"column:distributer_id;type:text;not null;uniqueIndex"`
	Fullname          string          `gorm:"column:fullname;type:text;not null"`
	PhoneNumber       string          `gorm:"column:phone_number;type:text;not null;uniqueIndex"`
	Email             string          `gorm:"column:email;type:text;not null;uniqueIndex"`
	Address           string          `gorm:"column:address;type:text;not null"`
	CreditLimit       decimal.Decimal `gorm:"column:credit_limit;type:numeric(12,2);not null;default:0"`
	Balance           decimal.Decimal `gorm:"column:balance;type:numeric(12,2);not null;default:0"`
	AddedBy           uuid.UUID       `gorm:"column:added_by;type:uuid;not null"`
	FCMToken          *string         `gorm:"column:fcm_token;type:text"`
	WhatsappAvailable bool            `gorm:"column:whatsapp_available;not null;default:true"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
