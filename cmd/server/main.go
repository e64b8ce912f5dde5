package main

import (
	"context"
	"log"

	"github.com/avolkov/qrforge/internal/server"
	"github.com/avolkov/qrforge/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app := server.NewApp(cfg)
	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
