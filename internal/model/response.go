package model

type ErrorResponse struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type MeResponse struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type FlashResponse struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ForgotPasswordResponse struct {
	Status string `json:"status"`
	// ResetLink is only populated when debug reset links are enabled;
	// in that mode the raw token short-circuits out-of-band delivery.
	ResetLink string `json:"reset_link,omitempty"`
}

type ResetContextResponse struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	ExpiresAt string `json:"expires_at"`
}

type DashboardResponse struct {
	Donations       DonationStats  `json:"donations"`
	Events          EventStats     `json:"events"`
	RecentDonations []Donation     `json:"recent_donations"`
	RecentEvents    []Event        `json:"recent_events"`
	MonthlyTotals   []MonthlyTotal `json:"monthly_totals"`
}

type ReportsResponse struct {
	TotalsByEvent []EventTotal `json:"totals_by_event"`
	TotalsByType  []TypeTotal  `json:"totals_by_type"`
}
