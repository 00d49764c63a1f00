package entity

import (
	"bookwise/core/entity"
)

// Organization carries the per-organization booking configuration. One row
// per organization; read on every availability query, rarely written.
type Organization struct {
	entity.BaseEntity
	Name                string `db:"name" json:"name"`
	Slug                string `db:"slug" json:"slug"`
	SlotDurationMinutes int    `db:"slot_duration_minutes" json:"slot_duration_minutes"`
	BufferMinutes       int    `db:"buffer_minutes" json:"buffer_minutes"`
	AdvanceWindowDays   int    `db:"advance_window_days" json:"advance_window_days"`
}

func (Organization) TableName() string {
	return "organizations"
}
