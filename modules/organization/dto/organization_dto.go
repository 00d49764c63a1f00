package dto

type CreateOrganizationRequest struct {
	Name                string `json:"name"`
	SlotDurationMinutes int    `json:"slot_duration_minutes"`
	BufferMinutes       int    `json:"buffer_minutes"`
	AdvanceWindowDays   int    `json:"advance_window_days"`
}

type UpdateOrganizationRequest struct {
	Name                *string `json:"name,omitempty"`
	SlotDurationMinutes *int    `json:"slot_duration_minutes,omitempty"`
	BufferMinutes       *int    `json:"buffer_minutes,omitempty"`
	AdvanceWindowDays   *int    `json:"advance_window_days,omitempty"`
}

type OrganizationResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Slug                string `json:"slug"`
	SlotDurationMinutes int    `json:"slot_duration_minutes"`
	BufferMinutes       int    `json:"buffer_minutes"`
	AdvanceWindowDays   int    `json:"advance_window_days"`
}
