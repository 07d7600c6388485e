package access

import "time"

// Module -> Menu -> Option is a strict tree: an option belongs to exactly one
// menu and a menu to exactly one module, so a permission check resolves
// through a single path.

type Module struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	SortOrder int       `gorm:"column:sort_order"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type Menu struct {
	ID        int64     `gorm:"primaryKey"`
	ModuleID  int64     `gorm:"column:module_id;not null"`
	Name      string    `gorm:"column:name;not null"`
	SortOrder int       `gorm:"column:sort_order"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type Option struct {
	ID        int64     `gorm:"primaryKey"`
	MenuID    int64     `gorm:"column:menu_id;not null"`
	Name      string    `gorm:"column:name;not null"`
	Page      string    `gorm:"column:page"`
	SortOrder int       `gorm:"column:sort_order"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type Role struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// RolePermission is the five-flag grant a role holds over an option. A
// missing row means every flag is false.
type RolePermission struct {
	RoleID    int64     `gorm:"primaryKey;column:role_id;autoIncrement:false"`
	OptionID  int64     `gorm:"primaryKey;column:option_id;autoIncrement:false"`
	CanCreate bool      `gorm:"column:can_create;not null;default:false"`
	CanDelete bool      `gorm:"column:can_delete;not null;default:false"`
	CanUpdate bool      `gorm:"column:can_update;not null;default:false"`
	CanPrint  bool      `gorm:"column:can_print;not null;default:false"`
	CanExport bool      `gorm:"column:can_export;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
