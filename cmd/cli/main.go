package main

import (
	"context"
	"log"
	"os"

	"github.com/avolkov/qrforge/internal/cli"
)

func main() {
	ctx := context.Background()
	cfg := cli.LoadConfig()

	app := cli.NewApp(cfg)
	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
