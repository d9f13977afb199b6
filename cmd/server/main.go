package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"hris/internal/app/server"
	"hris/internal/config"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.DB.Close()

	log.Printf("HRIS server listening on %s", cfg.Addr)
	if err := app.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
