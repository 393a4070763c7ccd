package model

// StatusHistory rows are append-only; nothing in the codebase updates or
// deletes them after creation.
type StatusHistory struct {
	HistoryID       string  `gorm:"column:history_id;primaryKey;type:varchar(64)"`
	TenantID        string  `gorm:"column:tenant_id;type:varchar(64);not null;index"`
	EntityType      string  `gorm:"column:entity_type;type:varchar(32);not null;index:idx_status_history_entity"`
	EntityID        string  `gorm:"column:entity_id;type:varchar(64);not null;index:idx_status_history_entity"`
	PreviousStatus  *string `gorm:"column:previous_status;type:varchar(32)"`
	NewStatus       string  `gorm:"column:new_status;type:varchar(32);not null"`
	ChangedByUserID string  `gorm:"column:changed_by_user_id;type:varchar(64);not null"`
	ChangeReason    *string `gorm:"column:change_reason;type:text"`
	Source          string  `gorm:"column:source;type:varchar(16);not null;default:USER"`
	CreatedAt       string  `gorm:"column:created_at;type:text;not null;index"`
}

func (StatusHistory) TableName() string {
	return "status_history"
}
