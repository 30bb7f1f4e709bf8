package model

// Group 主题分组，由管理员创建，slug 全局唯一
type Group struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"type:varchar(200);not null"`
	Slug        string `gorm:"type:varchar(200);uniqueIndex;not null"`
	Description string `gorm:"type:text"`
}

func (Group) TableName() string { return "groups" }

func (g Group) String() string { return g.Title }
