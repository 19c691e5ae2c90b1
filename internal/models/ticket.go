package models

import (
	"time"
)

type Ticket struct {
	ID          int    `json:"id"`
	ProjectID   int    `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Priority    string `json:"priority,omitempty"`
	AssigneeID  *int   `json:"assignee_id,omitempty"`
	// Revision counts how many times the client has sent the ticket back
	// for rework.
	Revision   int        `json:"revision"`
	Attachment string     `json:"attachment,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

type TicketComment struct {
	ID        int        `json:"id"`
	TicketID  int        `json:"ticket_id"`
	UserID    int        `json:"user_id"`
	UserName  string     `json:"user_name,omitempty"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
