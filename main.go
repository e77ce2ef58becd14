package main

import (
	"embed"
	"io/fs"
	"log"

	"webpanel/internal/app"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	// Create an instance of the app structure
	application := app.NewApp()

	// Extract the embedded filesystem to serve from the correct subdirectory
	distFS, err := fs.Sub(assets, "frontend/dist")
	if err != nil {
		log.Fatal("Failed to get sub filesystem:", err)
	}

	// Create application with options
	err = wails.Run(&options.App{
		Title:     "Web Panel",
		Width:     900,
		Height:    600,
		MinWidth:  600,
		MinHeight: 400,
		AssetServer: &assetserver.Options{
			Assets: distFS,
		},
		BackgroundColour: &options.RGBA{R: 30, G: 30, B: 30, A: 1},
		OnStartup:        application.Startup,
		OnShutdown:       application.Shutdown,
		// Bind the app methods to the frontend
		Bind: []interface{}{
			application,
		},
	})

	if err != nil {
		log.Fatal("Error:", err)
	}
}
