package main

import (
	"context"
	"log"

	"github.com/dsavelev/remindsync/internal/authority"
	"github.com/dsavelev/remindsync/internal/authority/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := authority.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
