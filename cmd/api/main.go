package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/atlvs/cartflow/internal/aws"
	"github.com/atlvs/cartflow/internal/cart"
	"github.com/atlvs/cartflow/internal/handlers"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterCartRoutes(r, cfg)

	return r
}

func taxRateFromEnv() float64 {
	raw := os.Getenv("CART_TAX_RATE")
	if raw == "" {
		return cart.DefaultTaxRate
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("invalid CART_TAX_RATE %q, using default: %v", raw, err)
		return cart.DefaultTaxRate
	}
	return rate
}

func main() {
	runLocal := os.Getenv("RUN_LOCAL") == "true"
	if runLocal {
		// .env is a local-development convenience only
		if err := godotenv.Load(); err != nil {
			log.Printf("no .env file loaded: %v", err)
		}
	}

	clients, err := aws.NewClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	cfg := handlers.HandlerConfig{
		DynamoDBClient: clients.DynamoDB,
		SQSClient:      clients.SQS,
		SnapshotTable:  os.Getenv("SNAPSHOT_TABLE"),
		QueueURL:       os.Getenv("CART_QUEUE_URL"),
		UpstreamURL:    os.Getenv("UPSTREAM_CART_URL"),
		TaxRate:        taxRateFromEnv(),
		TTLWindow:      30 * 24 * time.Hour,
		FetchTimeout:   10 * time.Second,
	}

	r := setupRouter(cfg)

	if runLocal {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
