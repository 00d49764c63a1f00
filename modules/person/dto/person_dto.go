package dto

type CreatePersonRequest struct {
	OrganizationID string `json:"organization_id"`
	DisplayName    string `json:"display_name"`
	Email          string `json:"email"`
}

type UpdatePersonRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Email       *string `json:"email,omitempty"`
}

type RuleInput struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"` // "HH:mm"
	EndTime   string `json:"end_time"`   // "HH:mm"
}

// ReplaceRulesRequest carries the complete new schedule; the previous
// rule set is discarded, not diffed.
type ReplaceRulesRequest struct {
	Rules []RuleInput `json:"rules"`
}

type PersonResponse struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	DisplayName    string `json:"display_name"`
	Email          string `json:"email"`
	IsActive       bool   `json:"is_active"`
}
