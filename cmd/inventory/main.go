package main

import (
	"context"
	"log"

	"github.com/Apurer/go-gin-microservices/internal/app/inventory"
)

func main() {
	if err := inventory.Run(context.Background()); err != nil {
		log.Fatalf("inventory exited: %v", err)
	}
}
