package dto

import "time"

type CreateBookingRequest struct {
	PersonID     string    `json:"person_id"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	VisitorName  string    `json:"visitor_name"`
	VisitorEmail string    `json:"visitor_email"`
	VisitorNotes string    `json:"visitor_notes"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

type BookingResponse struct {
	ID           string    `json:"id"`
	Reference    string    `json:"reference"`
	PersonID     string    `json:"person_id"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Status       string    `json:"status"`
	VisitorName  string    `json:"visitor_name"`
	VisitorEmail string    `json:"visitor_email"`
}
