package main

import (
	"context"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/imrishuroy/lex-book-reservations/internal/aws"
	"github.com/imrishuroy/lex-book-reservations/internal/booking"
	"github.com/imrishuroy/lex-book-reservations/internal/books"
	"github.com/imrishuroy/lex-book-reservations/internal/config"
	"github.com/imrishuroy/lex-book-reservations/internal/handlers"
	"github.com/imrishuroy/lex-book-reservations/internal/idempotency"
	"github.com/imrishuroy/lex-book-reservations/internal/reservations"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(r, cfg)

	return r
}

func main() {
	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	bookStore := books.NewStore(clients.DynamoDB, appCfg.BooksTable)
	reservationStore := reservations.NewStore(clients.DynamoDB, appCfg.ReservationsTable, appCfg.BooksTable)

	opts := []booking.Option{
		booking.WithLocation(appCfg.Location),
		booking.WithReservationDays(appCfg.ReservationDays),
	}
	if appCfg.EventsQueueURL != "" {
		pub := reservations.NewEventPublisher(aws.NewPublisher(clients.SQS, appCfg.EventsQueueURL))
		opts = append(opts, booking.WithEventPublisher(pub))
	}

	cfg := handlers.HandlerConfig{
		Books:        bookStore,
		Reservations: reservationStore,
		Reserver:     booking.NewValidator(bookStore, reservationStore, opts...),
		Idempotency:  idempotency.NewStore(clients.DynamoDB, appCfg.IdempotencyTable, appCfg.IdempotencyTTL),
		RateLimit:    rate.Limit(5),
		RateBurst:    10,
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if appCfg.RunLocal {
		addr := ":" + appCfg.Port
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
