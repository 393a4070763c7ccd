package model

import "gorm.io/gorm"

type Issue struct {
	IssueID   string         `gorm:"column:issue_id;primaryKey;type:varchar(64)"`
	TenantID  string         `gorm:"column:tenant_id;type:varchar(64);not null;index"`
	Title     string         `gorm:"column:title;type:text;not null"`
	Status    string         `gorm:"column:status;type:varchar(32);not null"`
	CreatedAt string         `gorm:"column:created_at;type:text;not null"`
	UpdatedAt string         `gorm:"column:updated_at;type:text;not null"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Issue) TableName() string {
	return "issues"
}
