package dto

import "time"

type SlotResponse struct {
	PersonID          string    `json:"person_id"`
	PersonDisplayName string    `json:"person_display_name"`
	PersonEmail       string    `json:"person_email"`
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"`
}

type SlotsResponse struct {
	Slots []SlotResponse `json:"slots"`
}

type DatesResponse struct {
	Dates []string `json:"dates"`
}
