package main

import (
	"context"
	"log"

	"github.com/Apurer/go-gin-microservices/internal/app/worker"
)

func main() {
	if err := worker.Run(context.Background()); err != nil {
		log.Fatalf("orders worker exited: %v", err)
	}
}
