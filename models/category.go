package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultCategoryColor 默认灰色
const DefaultCategoryColor = "#64748b"

// DefaultCategoryIcon 默认图标
const DefaultCategoryIcon = "tag"

// Category 账单类别（全局共享，不属于某个用户）
type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"size:50;not null;uniqueIndex"`
	Color     string         `json:"color" gorm:"size:20;default:#64748b"` // 颜色代码，如 #ef4444
	Icon      string         `json:"icon" gorm:"size:50;default:tag"`
	Sort      int            `json:"sort" gorm:"default:0;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Category) TableName() string {
	return "categories"
}

// DefaultCategories 初始化时写入的默认类别
func DefaultCategories() []Category {
	return []Category{
		{Name: "住房", Color: "#14b8a6", Icon: "home", Sort: 10},
		{Name: "水电燃气", Color: "#3b82f6", Icon: "zap", Sort: 20},
		{Name: "通讯网络", Color: "#a855f7", Icon: "wifi", Sort: 30},
		{Name: "交通", Color: "#f59e0b", Icon: "car", Sort: 40},
		{Name: "教育", Color: "#ec4899", Icon: "book", Sort: 50},
		{Name: "医疗", Color: "#10b981", Icon: "heart", Sort: 60},
		{Name: "其他", Color: DefaultCategoryColor, Icon: DefaultCategoryIcon, Sort: 70},
	}
}
