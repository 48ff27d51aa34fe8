package messaging

// NewSubscriberEvent asks the consumer to send a confirmation email.
type NewSubscriberEvent struct {
	Email string `json:"email"`
	Token string `json:"token"`
}
