package models

import (
	"errors"
	"time"
)

type Subscriber struct {
	ID           int
	Email        string
	Token        string
	Confirmed    bool
	Unsubscribed bool
	CreatedAt    time.Time
}

type NewsletterSubData struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

// WidgetEmailData is the raw widget input; it is not format-checked.
type WidgetEmailData struct {
	Email string `json:"email" form:"email"`
}

var (
	ErrSubscriberExists   = errors.New("subscriber already exists")
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrInvalidEmail       = errors.New("invalid email address")
)
