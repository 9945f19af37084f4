package main

import (
	"context"
	"log"

	"github.com/codeware/chatbot-backend/internal/builder"
)

func main() {
	job, err := builder.BuildIngest()
	if err != nil {
		log.Fatal("Failed to build ingestion job:", err)
	}

	if err := job.Run(context.Background()); err != nil {
		log.Fatal("Ingestion error:", err)
	}
}
