package domain

import "time"

// Lead is a visitor's recorded contact details, captured by the
// record_user_details tool when they share an email address.
type Lead struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// UnknownQuestion is a visitor question the agent could not answer from its
// grounding context, captured by the record_unknown_question tool.
type UnknownQuestion struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	CreatedAt time.Time `json:"created_at"`
}
