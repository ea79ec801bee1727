package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/lex-book-reservations/internal/booking"
	"github.com/imrishuroy/lex-book-reservations/internal/idempotency"
	"github.com/imrishuroy/lex-book-reservations/internal/reservations"
	"github.com/imrishuroy/lex-book-reservations/internal/validation"
)

// RegisterRoutes registers every API route. POST routes are rate limited when cfg.RateLimit > 0.
func RegisterRoutes(r gin.IRouter, cfg HandlerConfig) {
	var write []gin.HandlerFunc
	if cfg.RateLimit > 0 {
		write = append(write, NewRateLimiter(cfg.RateLimit, cfg.RateBurst).Limit())
	}
	RegisterBooksRoutes(r, cfg, write...)
	RegisterReservationsRoutes(r, cfg, write...)
}

// RegisterReservationsRoutes registers routes for the reservation API.
func RegisterReservationsRoutes(r gin.IRouter, cfg HandlerConfig, write ...gin.HandlerFunc) {
	v := validation.New()

	r.GET("/reservations/:id", func(c *gin.Context) {
		res, err := cfg.Reservations.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			log.Printf("[api] get reservation: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
			return
		}
		if res == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation_not_found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"reservation": res})
	})

	r.GET("/reservations", func(c *gin.Context) {
		user := c.Query("user")
		if user == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_required"})
			return
		}
		list, err := cfg.Reservations.ListByUser(c.Request.Context(), user)
		if err != nil {
			log.Printf("[api] list reservations: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
			return
		}
		if list == nil {
			list = []reservations.Reservation{}
		}
		c.JSON(http.StatusOK, gin.H{"reservations": list})
	})

	reserve := func(c *gin.Context) {
		ctx := c.Request.Context()

		// Bind + validate request
		var req validation.ReserveRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		// Require idempotency key header
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_idempotency_key"})
			return
		}

		created, err := cfg.Idempotency.CreateIfNotExists(ctx, idempKey, "")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed", "detail": err.Error()})
			return
		}
		if !created && !proceedWithExisting(c, cfg.Idempotency, idempKey) {
			return
		}

		outcome, err := cfg.Reserver.Validate(ctx, req.Title, req.Author, req.Email)
		if err != nil {
			log.Printf("[api] reserve key=%s: %v", idempKey, err)
			_ = cfg.Idempotency.MarkFailed(ctx, idempKey, fmt.Sprintf("reserve_failed: %v", err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "reservation_failed"})
			return
		}

		status, body := outcomeResponse(outcome)
		reservationID := ""
		if outcome.Reservation != nil {
			reservationID = outcome.Reservation.ID
			c.Header("Location", "/reservations/"+url.PathEscape(reservationID))
		}

		responseBody, _ := json.Marshal(body)
		markDone(ctx, cfg.Idempotency, idempKey, reservationID, string(responseBody), status)
		c.Data(status, "application/json; charset=utf-8", responseBody)
	}
	r.POST("/reservations", append(write, reserve)...)
}

// markDoneAttempts bounds how often a committed response is stored before giving up.
const markDoneAttempts = 2

// markDone stores the response of a finished request. A key left IN_PROGRESS
// answers 202 to retries until it expires, so a failed write is retried once.
func markDone(ctx context.Context, store IdempotencyStore, key, reservationID, body string, status int) {
	var err error
	for i := 0; i < markDoneAttempts; i++ {
		if err = store.MarkDone(ctx, key, reservationID, body, status); err == nil {
			return
		}
		log.Printf("[api] mark done key=%s attempt=%d: %v", key, i+1, err)
	}
}

// proceedWithExisting handles a repeated Idempotency-Key. It writes the
// response and returns false unless a failed attempt was released for retry.
func proceedWithExisting(c *gin.Context, store IdempotencyStore, key string) bool {
	ctx := c.Request.Context()
	rec, err := store.Get(ctx, key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed", "detail": err.Error()})
		return false
	}
	if rec == nil {
		// expired between the conditional put and the read
		c.JSON(http.StatusConflict, gin.H{"error": "idempotency_key_race"})
		return false
	}

	switch rec.Status {
	case idempotency.StatusDone:
		if rec.ResponseBody != "" {
			c.Data(rec.ResponseStatus, "application/json; charset=utf-8", []byte(rec.ResponseBody))
			return false
		}
		c.JSON(http.StatusOK, gin.H{"reservation_id": rec.ReservationID})
		return false
	case idempotency.StatusInProgress:
		c.JSON(http.StatusAccepted, gin.H{"message": "request already in progress"})
		return false
	case idempotency.StatusFailed:
		released, err := store.Release(ctx, key)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed", "detail": err.Error()})
			return false
		}
		if !released {
			c.JSON(http.StatusAccepted, gin.H{"message": "request already in progress"})
			return false
		}
		log.Printf("[api] retrying failed request key=%s", key)
		return true
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown_idempotency_status"})
		return false
	}
}

func outcomeResponse(o booking.Outcome) (int, gin.H) {
	switch o.Status {
	case booking.StatusCompleted:
		return http.StatusCreated, gin.H{"reservation": o.Reservation, "message": o.Message}
	case booking.StatusRejected:
		if o.Reason == booking.ReasonNotFound {
			return http.StatusNotFound, gin.H{"error": "book_not_found", "message": o.Message}
		}
		return http.StatusConflict, gin.H{"error": "book_already_reserved", "message": o.Message}
	default:
		return http.StatusBadRequest, gin.H{"error": "missing_fields"}
	}
}
