package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"
	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/atlvs/cartflow/internal/aws"
	"github.com/atlvs/cartflow/internal/cart"
	"github.com/atlvs/cartflow/internal/snapshot"
)

const metricNamespace = "Cartflow"

// Processor consumes cart events: it reloads the snapshot, recomputes
// totals, and reports cart metrics to CloudWatch.
type Processor struct {
	snapshots  *snapshot.Store
	cloudwatch aws.CloudWatchAPI
	calc       *cart.Calculator
}

// NewProcessor creates a worker processor with AWS clients injected.
func NewProcessor(clients *aws.Clients, snapshotTable string, taxRate float64) *Processor {
	return &Processor{
		snapshots:  snapshot.NewStore(clients.DynamoDB, snapshotTable, 0),
		cloudwatch: clients.CloudWatch,
		calc:       cart.NewCalculator(taxRate),
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry, then DLQ.
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var ev CartEvent
	if err := json.Unmarshal([]byte(rec.Body), &ev); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	log.Printf("[worker] received event=%s slot=%s corr=%s", ev.Event, ev.Slot, ev.CorrelationID)

	switch ev.Event {
	case "cart_updated":
		return p.reportCart(ctx, ev)
	case "checkout_requested":
		return p.reportCheckout(ctx, ev)
	default:
		// unknown events are dropped, not retried
		log.Printf("[worker] skipping unknown event %q", ev.Event)
		return nil
	}
}

func (p *Processor) reportCart(ctx context.Context, ev CartEvent) error {
	rec, err := p.snapshots.Get(ctx, ev.Slot)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", ev.Slot, err)
	}
	if rec == nil {
		// snapshot already superseded or expired; nothing to report
		log.Printf("[worker] snapshot %s not found, skipping", ev.Slot)
		return nil
	}

	totals := p.calc.Totals(rec.Items)
	quantity := 0
	for _, it := range rec.Items {
		quantity += it.Quantity
	}

	if err := p.putMetrics(ctx, ev.Slot,
		datum("CartValue", totals.Total, cwtypes.StandardUnitNone),
		datum("CartItemCount", float64(quantity), cwtypes.StandardUnitCount),
	); err != nil {
		return err
	}

	log.Printf("[worker] reported slot=%s total=%.2f items=%d", ev.Slot, totals.Total, quantity)
	return nil
}

func (p *Processor) reportCheckout(ctx context.Context, ev CartEvent) error {
	if err := p.putMetrics(ctx, ev.Slot,
		datum("OrderValue", ev.Total, cwtypes.StandardUnitNone),
		datum("OrderLineCount", float64(ev.Lines), cwtypes.StandardUnitCount),
	); err != nil {
		return err
	}
	log.Printf("[worker] checkout order=%s slot=%s total=%.2f", ev.OrderID, ev.Slot, ev.Total)
	return nil
}

func (p *Processor) putMetrics(ctx context.Context, slot string, data ...cwtypes.MetricDatum) error {
	dim := cwtypes.Dimension{
		Name:  sdkaws.String("Slot"),
		Value: sdkaws.String(slot),
	}
	for i := range data {
		data[i].Dimensions = append(data[i].Dimensions, dim)
	}

	_, err := p.cloudwatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  sdkaws.String(metricNamespace),
		MetricData: data,
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}

func datum(name string, value float64, unit cwtypes.StandardUnit) cwtypes.MetricDatum {
	return cwtypes.MetricDatum{
		MetricName: sdkaws.String(name),
		Value:      sdkaws.Float64(value),
		Unit:       unit,
	}
}
