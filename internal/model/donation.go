package model

import "time"

type Donation struct {
	ID           int64     `json:"id"`
	DonorName    string    `json:"donor_name"`
	DonationDate string    `json:"donation_date"`
	Amount       float64   `json:"amount"`
	Type         string    `json:"type"`
	EventID      *int64    `json:"event_id"`
	EventName    *string   `json:"event_name,omitempty"`
	Notes        string    `json:"notes"`
	CreatedBy    int64     `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

type DonationInput struct {
	DonorName    string  `form:"donor_name" json:"donor_name"`
	DonationDate string  `form:"donation_date" json:"donation_date"`
	Amount       float64 `form:"amount" json:"amount"`
	Type         string  `form:"type" json:"type"`
	EventID      *int64  `form:"event_id" json:"event_id"`
	Notes        string  `form:"notes" json:"notes"`
}

type DonationStats struct {
	TotalAmount   float64 `json:"total_amount"`
	DonationCount int64   `json:"donation_count"`
	UniqueDonors  int64   `json:"unique_donors"`
}

type MonthlyTotal struct {
	Month       string  `json:"month"`
	TotalAmount float64 `json:"total_amount"`
}

type EventTotal struct {
	EventName     string  `json:"event_name"`
	TotalAmount   float64 `json:"total_amount"`
	DonationCount int64   `json:"donation_count"`
}

type TypeTotal struct {
	Type          string  `json:"type"`
	TotalAmount   float64 `json:"total_amount"`
	DonationCount int64   `json:"donation_count"`
}
