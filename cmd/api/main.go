package main

import (
	"context"
	"log"

	"github.com/Apurer/go-inventory-dashboard/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("inventory dashboard API failed: %v", err)
	}
}
