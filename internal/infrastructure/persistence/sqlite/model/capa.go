package model

import "gorm.io/gorm"

type Capa struct {
	CapaID    string         `gorm:"column:capa_id;primaryKey;type:varchar(64)"`
	TenantID  string         `gorm:"column:tenant_id;type:varchar(64);not null;index"`
	Title     string         `gorm:"column:title;type:text;not null"`
	Status    string         `gorm:"column:status;type:varchar(32);not null"`
	IssueID   *string        `gorm:"column:issue_id;type:varchar(64)"`
	CreatedAt string         `gorm:"column:created_at;type:text;not null"`
	UpdatedAt string         `gorm:"column:updated_at;type:text;not null"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Capa) TableName() string {
	return "capas"
}
