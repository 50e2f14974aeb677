package model

import "time"

type Event struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	EventDate   string    `json:"event_date"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type EventInput struct {
	Name        string `form:"name" json:"name"`
	EventDate   string `form:"event_date" json:"event_date"`
	Location    string `form:"location" json:"location"`
	Description string `form:"description" json:"description"`
}

type EventStats struct {
	TotalEvents    int64 `json:"total_events"`
	UpcomingEvents int64 `json:"upcoming_events"`
}

// ActivityItem is one row of the admin activity feed: donations, events and
// user signups merged into a single reverse-chronological stream.
type ActivityItem struct {
	Title        string    `json:"title"`
	ActivityDate string    `json:"activity_date"`
	ActivityType string    `json:"activity_type"`
	Metric       *float64  `json:"metric"`
	CreatedAt    time.Time `json:"created_at"`
}
