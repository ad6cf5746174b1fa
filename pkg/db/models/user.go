package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a staff actor: admins and field employees. EmployeeID carries the
// generated EMPLOYEE-NN handle shown in the app.
type User struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EmployeeID  string    `gorm:"column:employee_id;type:text;not null;uniqueIndex"`
	Fullname    string    `gorm:"column:fullname;type:text;not null"`
	PhoneNumber string    `gorm:"column:phone_number;type:text;not null;uniqueIndex"`
	IsAdmin     bool      `gorm:"column:is_admin;not null;default:false"`
	FCMToken    *string   `gorm:"column:fcm_token;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
