package main

import (
	"context"
	"log"

	"github.com/Apurer/go-gin-microservices/internal/app/users"
)

func main() {
	if err := users.Run(context.Background()); err != nil {
		log.Fatalf("users exited: %v", err)
	}
}
