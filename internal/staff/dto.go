package staff

import (
	"time"

	"github.com/google/uuid"
	"github.com/sheltersync/sheltersync-backend/pkg/db/models"
	"github.com/sheltersync/sheltersync-backend/pkg/enums"
)

// StaffDTO is the transport shape that omits the PIN hash.
type StaffDTO struct {
	ID          uuid.UUID       `json:"id"`
	Username    string          `json:"username"`
	Role        enums.StaffRole `json:"role"`
	Name        string          `json:"name"`
	PhotoURL    *string         `json:"photo_url,omitempty"`
	Phone       *string         `json:"phone,omitempty"`
	Email       *string         `json:"email,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
	LastLoginAt *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FromModel converts a staff account into its transport shape.
func FromModel(a *models.StaffAccount) *StaffDTO {
	if a == nil {
		return nil
	}
	return &StaffDTO{
		ID:          a.ID,
		Username:    a.Username,
		Role:        a.Role,
		Name:        a.Name,
		PhotoURL:    a.PhotoURL,
		Phone:       a.Phone,
		Email:       a.Email,
		Notes:       a.Notes,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// CreateStaffRequest captures a new staff account. When the PIN is omitted
// one is generated and returned once in the create response.
type CreateStaffRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	PIN      string  `json:"pin" validate:"omitempty,numeric,min=4,max=6"`
	Role     string  `json:"role" validate:"omitempty,oneof=STAFF ADMIN"`
	Name     string  `json:"name" validate:"required,max=200"`
	PhotoURL *string `json:"photo_url" validate:"omitempty,url"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Notes    *string `json:"notes"`
}

// CreateStaffResponse wraps the new account plus the generated PIN, if any.
type CreateStaffResponse struct {
	Staff        *StaffDTO `json:"staff"`
	GeneratedPIN *string   `json:"generated_pin,omitempty"`
}

// UpdateStaffRequest uses pointers so absent fields are left untouched.
type UpdateStaffRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	PIN      *string `json:"pin" validate:"omitempty,numeric,min=4,max=6"`
	Role     *string `json:"role" validate:"omitempty,oneof=STAFF ADMIN"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	PhotoURL *string `json:"photo_url" validate:"omitempty,url"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Notes    *string `json:"notes"`
}
