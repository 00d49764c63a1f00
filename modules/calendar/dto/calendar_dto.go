package dto

import "time"

// BusyWindow is one external busy interval, already decoded to instants.
type BusyWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type ConnectCalendarRequest struct {
	Provider     string    `json:"provider"`
	CalendarID   string    `json:"calendar_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Attendees   []string  `json:"attendees,omitempty"`
}

type CreateEventResponse struct {
	EventID string `json:"event_id"`
}
