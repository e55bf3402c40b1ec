package seeds

import (
	"log"

	"github.com/khankhulgun/khanstyle/models"
	"github.com/khankhulgun/khanstyle/style"
	"github.com/lambda-platform/lambda/DB"
	"gorm.io/gorm/clause"
)

// Seed fills lut_style_property with the properties a style editor offers.
func Seed() {
	for _, p := range StyleProperties() {
		if err := DB.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&p).Error; err != nil {
			log.Printf("Failed to seed lut_style_property: %v", err)
		}
	}
}

func StyleProperties() []models.StyleProperty {
	names := append(append([]style.PropertyName{}, style.PropertyNames...), style.AlphaValue)
	props := make([]models.StyleProperty, 0, len(names))
	for _, name := range names {
		props = append(props, models.StyleProperty{
			Property:      string(name),
			PropertyTitle: name.Label(),
			IsColor:       name.IsColor(),
		})
	}
	return props
}
