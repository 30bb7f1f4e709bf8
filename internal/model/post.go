package model

import "time"

// labelLength 列表/后台展示时截取的字符数
const labelLength = 15

// Post 帖子；删除分组只清空 group_id，帖子保留
type Post struct {
	ID        uint      `gorm:"primaryKey"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index:idx_post_created"`
	UpdatedAt time.Time
	AuthorID  uint   `gorm:"not null;index:idx_post_author"`
	Author    User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	GroupID   *uint  `gorm:"index:idx_post_group"`
	Group     *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL;"`
	Image     string `gorm:"type:varchar(255)"` // 相对 media 根目录，如 posts/<uuid>.png
}

func (Post) TableName() string { return "posts" }

func (p Post) String() string { return truncate(p.Text, labelLength) }

// HasImage 是否附带图片
func (p Post) HasImage() bool { return p.Image != "" }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
