package models

import (
	"time"
)

type Client struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	CompanyName string     `json:"company_name,omitempty"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Address     string     `json:"address,omitempty"`
	GSTNumber   string     `json:"gst_number,omitempty"`
	Currency    string     `json:"currency"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
