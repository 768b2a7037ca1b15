package main

import (
	"context"
	"log"

	"github.com/dsavelev/remindsync/internal/worker"
	"github.com/dsavelev/remindsync/internal/worker/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := worker.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
