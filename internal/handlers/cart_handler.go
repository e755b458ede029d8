package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atlvs/cartflow/internal/aws"
	"github.com/atlvs/cartflow/internal/cart"
	"github.com/atlvs/cartflow/internal/remote"
	"github.com/atlvs/cartflow/internal/reports"
	"github.com/atlvs/cartflow/internal/snapshot"
	"github.com/atlvs/cartflow/internal/validation"
)

// Event types published to the cart queue.
const (
	EventCartUpdated       = "cart_updated"
	EventCheckoutRequested = "checkout_requested"
)

// HandlerConfig groups dependencies for the cart API.
type HandlerConfig struct {
	DynamoDBClient aws.DynamoDBAPI
	SQSClient      aws.SQSAPI
	SnapshotTable  string
	QueueURL       string
	UpstreamURL    string
	TaxRate        float64
	TTLWindow      time.Duration
	FetchTimeout   time.Duration
}

// RegisterCartRoutes registers the cart API routes.
func RegisterCartRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	calc := cart.NewCalculator(cfg.TaxRate)
	store := snapshot.NewStore(cfg.DynamoDBClient, cfg.SnapshotTable, cfg.TTLWindow)
	source := remote.NewClient(cfg.UpstreamURL, cfg.FetchTimeout)
	publisher := aws.NewPublisher(cfg.SQSClient, cfg.QueueURL)

	// loadCart resolves the request's cart slot into a ready orchestrator,
	// or writes the error response and reports false.
	loadCart := func(c *gin.Context) (*cart.Orchestrator, bool) {
		slot := c.GetHeader("X-Cart-Id")
		o := cart.NewOrchestrator(source, store, calc, slot)
		if err := o.Load(c.Request.Context()); err != nil {
			if o.State() == cart.StateUnavailable {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"error": "cart_unavailable",
					"state": o.State(),
				})
				return nil, false
			}
			// canceled request; nothing useful to write
			c.Abort()
			return nil, false
		}
		return o, true
	}

	publishCartEvent := func(c *gin.Context, o *cart.Orchestrator) {
		payload, _ := json.Marshal(map[string]string{
			"event":    EventCartUpdated,
			"slot":     o.Slot(),
			"revision": o.Revision(),
		})
		attrs := map[string]string{
			"event":          EventCartUpdated,
			"slot":           o.Slot(),
			"correlation_id": c.GetHeader("X-Request-Id"),
		}
		// advisory event; the snapshot is already durable
		if err := publisher.SendCartEvent(c.Request.Context(), string(payload), attrs); err != nil {
			log.Printf("cart event publish failed: %v", err)
		}
	}

	renderCart := func(c *gin.Context, o *cart.Orchestrator, status int) {
		items := o.Items()
		currency, ok := cart.SingleCurrency(items)
		if !ok {
			// refuse to quote totals for a mixed-currency snapshot
			c.JSON(http.StatusConflict, gin.H{
				"error": "mixed_currency_cart",
				"state": o.State(),
				"items": items,
			})
			return
		}
		c.JSON(status, gin.H{
			"state":    o.State(),
			"currency": currency,
			"items":    items,
			"totals":   o.Totals(),
		})
	}

	r.GET("/api/v1/cart", func(c *gin.Context) {
		o, ok := loadCart(c)
		if !ok {
			return
		}
		renderCart(c, o, http.StatusOK)
	})

	r.PATCH("/api/v1/cart/items/:id", func(c *gin.Context) {
		var req validation.UpdateQuantityRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		o, ok := loadCart(c)
		if !ok {
			return
		}

		id := c.Param("id")
		if !hasItem(o.Items(), id) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item_not_found", "id": id})
			return
		}

		changed, err := o.UpdateQuantity(c.Request.Context(), id, req.Quantity)
		if err != nil {
			writePersistError(c, err)
			return
		}
		if changed {
			publishCartEvent(c, o)
		}
		renderCart(c, o, http.StatusOK)
	})

	r.DELETE("/api/v1/cart/items/:id", func(c *gin.Context) {
		o, ok := loadCart(c)
		if !ok {
			return
		}

		id := c.Param("id")
		changed, err := o.RemoveItem(c.Request.Context(), id)
		if err != nil {
			writePersistError(c, err)
			return
		}
		if !changed {
			c.JSON(http.StatusNotFound, gin.H{"error": "item_not_found", "id": id})
			return
		}
		publishCartEvent(c, o)
		renderCart(c, o, http.StatusOK)
	})

	r.GET("/api/v1/cart/report", func(c *gin.Context) {
		o, ok := loadCart(c)
		if !ok {
			return
		}
		summary := reports.Build(o.Items(), calc)

		if c.Query("format") == "csv" {
			c.Header("Content-Type", "text/csv")
			c.Header("Content-Disposition", `attachment; filename="cart-report.csv"`)
			c.Status(http.StatusOK)
			if err := reports.WriteCSV(c.Writer, summary); err != nil {
				log.Printf("csv report write failed: %v", err)
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"state": o.State(), "summary": summary})
	})

	r.POST("/api/v1/checkout", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CheckoutRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_idempotency_key"})
			return
		}

		slot := c.GetHeader("X-Cart-Id")
		if slot == "" {
			slot = cart.DefaultSlot
		}
		orderID := uuid.NewString()

		payload, _ := json.Marshal(map[string]interface{}{
			"event":    EventCheckoutRequested,
			"order_id": orderID,
			"slot":     slot,
			"total":    req.Total,
			"lines":    len(req.Items),
		})
		attrs := map[string]string{
			"event":           EventCheckoutRequested,
			"order_id":        orderID,
			"idempotency_key": idempKey,
			"correlation_id":  c.GetHeader("X-Request-Id"),
		}

		if err := publisher.SendCartEvent(ctx, string(payload), attrs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "enqueue_failed", "detail": err.Error()})
			return
		}

		c.Header("Location", fmt.Sprintf("/orders/%s", orderID))
		c.JSON(http.StatusAccepted, gin.H{"order_id": orderID, "status": "QUEUED"})
	})
}

func hasItem(items []cart.Item, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func writePersistError(c *gin.Context, err error) {
	if errors.Is(err, snapshot.ErrRevisionConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "snapshot_conflict"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "snapshot_write_failed", "detail": err.Error()})
}
