package khanstyle

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/khankhulgun/khanstyle/controllers"
	"github.com/khankhulgun/khanstyle/database/migrations"
	"github.com/khankhulgun/khanstyle/database/seeds"
	"github.com/khankhulgun/khanstyle/maplayer"
	"github.com/lambda-platform/lambda/DB"
	"github.com/lambda-platform/lambda/agent/agentMW"
	"github.com/lambda-platform/lambda/config"
)

func Set(app *fiber.App) {
	styles, err := maplayer.NewStyleRepository(DB.DB)
	if err != nil {
		log.Fatalf("Failed to initialize style repository: %v", err)
	}
	Routes(app, controllers.NewStyleController(styles), agentMW.IsLoggedIn())

	if config.Config.App.Migrate == "true" {
		migrations.Migrate()
	}
	if config.Config.App.Seed == "true" {
		seeds.Seed()
	}
}

// Routes registers the style endpoints. Writes to stored styles go through auth.
func Routes(app *fiber.App, sc *controllers.StyleController, auth fiber.Handler) {
	a := app.Group("/mapserver/api/style")
	a.Post("/validate", sc.Validate)
	a.Post("/paint", sc.Paint)
	a.Post("/icon.svg", sc.IconSVG)
	a.Post("/icon.png", sc.IconPNG)
	a.Post("/sprite", sc.Sprite)

	a.Get("/layer/:layer", sc.GetLayerStyle)
	a.Get("/layer/:layer/icon.svg", sc.LayerIcon)
	a.Put("/layer/:layer", auth, sc.SaveLayerStyle)
	a.Patch("/layer/:layer/property/:property", auth, sc.UpdateLayerProperty)
}
