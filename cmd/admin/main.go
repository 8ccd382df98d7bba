package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/dmitrijs2005/placekeeper/internal/admin"
	"github.com/dmitrijs2005/placekeeper/internal/common"
	"github.com/dmitrijs2005/placekeeper/internal/logging"
)

func main() {

	ctx := context.Background()

	logger, err := logging.New(os.Stderr, os.Getenv(common.EnvPrefix+"LOG_LEVEL"))
	if err != nil {
		log.Fatalf("%v", err)
	}

	app := admin.NewApp(os.Stdin, os.Stdout, logger)
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, admin.ErrUsage) {
			os.Exit(2)
		}
		log.Fatalf("%v", err)
	}

}
