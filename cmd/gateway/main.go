package main

import (
	"context"
	"log"

	"github.com/Apurer/go-gin-microservices/internal/app/gateway"
)

func main() {
	if err := gateway.Run(context.Background()); err != nil {
		log.Fatalf("gateway exited: %v", err)
	}
}
