package model

import "time"

const (
	ContactStatusNew        = "new"
	ContactStatusInProgress = "in_progress"
	ContactStatusResolved   = "resolved"
	ContactStatusArchived   = "archived"
)

// ContactRequest is the public contact-form payload.
type ContactRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
	Message  string `json:"message" validate:"required,min=10,max=2000"`
}

// ContactStatusUpdate changes a message's triage status.
type ContactStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=new in_progress resolved archived"`
}

type ContactMessage struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	FullName  string    `json:"full_name" bson:"full_name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Message   string    `json:"message" bson:"message"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
