package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/atlvs/cartflow/internal/aws"
	"github.com/atlvs/cartflow/internal/cart"
)

func main() {
	clients, err := aws.NewClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	taxRate := cart.DefaultTaxRate
	if raw := os.Getenv("CART_TAX_RATE"); raw != "" {
		if parsed, perr := strconv.ParseFloat(raw, 64); perr == nil {
			taxRate = parsed
		}
	}

	p := NewProcessor(clients, os.Getenv("SNAPSHOT_TABLE"), taxRate)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"event":"cart_updated","slot":"atlvs-cart","revision":"local-rev-1"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{Body: testBody},
			},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(p.Handle)
}
