// cmd/stratacourse/main.go
package main

import (
	"context"
	"log"

	"github.com/dalemusser/stratacourse/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	// WAFFLE builds the zap logger from core config; errors before that point
	// only have the standard logger.
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
