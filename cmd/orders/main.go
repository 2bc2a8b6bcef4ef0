package main

import (
	"context"
	"log"

	"github.com/Apurer/go-gin-microservices/internal/app/orders"
)

func main() {
	if err := orders.Run(context.Background()); err != nil {
		log.Fatalf("orders exited: %v", err)
	}
}
