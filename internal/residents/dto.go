package residents

// CreateResidentRequest carries the fields accepted when creating a profile.
type CreateResidentRequest struct {
	Name             string  `json:"name" validate:"required,max=200"`
	PhotoURL         *string `json:"photo_url" validate:"omitempty,url"`
	StatusText       string  `json:"status_text" validate:"max=100"`
	StatusColor      string  `json:"status_color" validate:"omitempty,oneof=red blue green yellow purple gray"`
	Bio              *string `json:"bio"`
	Gender           *string `json:"gender" validate:"omitempty,max=50"`
	CustomFieldLabel *string `json:"custom_field_label" validate:"omitempty,max=100"`
	CustomFieldValue *string `json:"custom_field_value" validate:"omitempty,max=500"`
	Notes            *string `json:"notes"`
}

// UpdateResidentRequest uses pointers so absent fields are left untouched.
// Setting a non-empty destination flips the resident to checked-out; clearing
// it flips them back to checked-in, matching the profile editor behavior.
type UpdateResidentRequest struct {
	Name               *string `json:"name" validate:"omitempty,min=1,max=200"`
	PhotoURL           *string `json:"photo_url" validate:"omitempty,url"`
	StatusText         *string `json:"status_text" validate:"omitempty,max=100"`
	StatusColor        *string `json:"status_color" validate:"omitempty,oneof=red blue green yellow purple gray"`
	Bio                *string `json:"bio"`
	Gender             *string `json:"gender" validate:"omitempty,max=50"`
	CustomFieldLabel   *string `json:"custom_field_label" validate:"omitempty,max=100"`
	CustomFieldValue   *string `json:"custom_field_value" validate:"omitempty,max=500"`
	Notes              *string `json:"notes"`
	CurrentDestination *string `json:"current_destination"`
	ExpectedReturnTime *string `json:"expected_return_time" validate:"omitempty,len=5"`
	ExpectedReturnDate *string `json:"expected_return_date" validate:"omitempty,datetime=2006-01-02"`
}
