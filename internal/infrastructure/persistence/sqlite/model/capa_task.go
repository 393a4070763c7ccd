package model

type CapaTask struct {
	TaskID    string `gorm:"column:task_id;primaryKey;type:varchar(64)"`
	CapaID    string `gorm:"column:capa_id;type:varchar(64);not null;index"`
	TenantID  string `gorm:"column:tenant_id;type:varchar(64);not null;index"`
	Name      string `gorm:"column:name;type:text;not null"`
	Status    string `gorm:"column:status;type:varchar(32);not null"`
	CreatedAt string `gorm:"column:created_at;type:text;not null"`
	UpdatedAt string `gorm:"column:updated_at;type:text;not null"`
}

func (CapaTask) TableName() string {
	return "capa_tasks"
}
