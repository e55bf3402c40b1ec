package models

import (
	"time"

	"gorm.io/gorm"
)

// LayerStyle stores the vector style descriptor of one map layer as JSON.
type LayerStyle struct {
	ID        string         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LayerID   string         `gorm:"column:layer_id;type:uuid;uniqueIndex" json:"layer_id"`
	Style     string         `gorm:"column:style;type:jsonb" json:"style"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"-"`
	UpdatedAt time.Time      `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at" json:"-"`
}

func (l *LayerStyle) TableName() string {
	return "map_server.layer_styles"
}

type StyleProperty struct {
	Property      string `gorm:"column:property;primaryKey" json:"property"`
	PropertyTitle string `gorm:"column:property_title" json:"property_title"`
	IsColor       bool   `gorm:"column:is_color" json:"is_color"`
}

func (s *StyleProperty) TableName() string {
	return "map_server.lut_style_property"
}
