package sync

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const payloadField = "payload"

// Handler consumes one synchronization request. A non-nil error leaves the
// message pending for redelivery.
type Handler interface {
	Consume(ctx context.Context, req SyncRequest) error
}

// StreamClient is the slice of the Redis client the consumer and publisher
// use. *redis.Client satisfies it; tests substitute a fake.
type StreamClient interface {
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
	XAutoClaim(ctx context.Context, a *redis.XAutoClaimArgs) *redis.XAutoClaimCmd
	XPendingExt(ctx context.Context, a *redis.XPendingExtArgs) *redis.XPendingExtCmd
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// ConsumerConfig configures a stream consumer group worker.
type ConsumerConfig struct {
	Stream   string
	Group    string
	Consumer string
	// MaxDeliveries caps redelivery of a failing message before it is
	// dropped as poison.
	MaxDeliveries int64
	// Block is how long a single read blocks waiting for new entries.
	Block time.Duration
	// ClaimMinIdle is the minimum idle time before a pending entry is
	// claimed from a dead consumer.
	ClaimMinIdle time.Duration
}

// Consumer reads synchronization requests from a Redis Stream consumer group
// and dispatches them to a Handler. Entries are acknowledged only after the
// handler succeeds, giving at-least-once delivery.
type Consumer struct {
	client  StreamClient
	handler Handler
	cfg     ConsumerConfig
}

func NewConsumer(client StreamClient, handler Handler, cfg ConsumerConfig) *Consumer {
	if cfg.MaxDeliveries <= 0 {
		cfg.MaxDeliveries = 5
	}
	if cfg.Block <= 0 {
		cfg.Block = 5 * time.Second
	}
	if cfg.ClaimMinIdle <= 0 {
		cfg.ClaimMinIdle = 30 * time.Second
	}
	return &Consumer{client: client, handler: handler, cfg: cfg}
}

// Run consumes until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		return err
	}
	log.Printf("consuming stream %s as %s/%s", c.cfg.Stream, c.cfg.Group, c.cfg.Consumer)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := c.dropPoisoned(ctx); err != nil && ctx.Err() == nil {
			log.Printf("checking pending entries: %v", err)
		}
		if err := c.claimStale(ctx); err != nil && ctx.Err() == nil {
			log.Printf("claiming stale entries: %v", err)
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.cfg.Group,
			Consumer: c.cfg.Consumer,
			Streams:  []string{c.cfg.Stream, ">"},
			Count:    10,
			Block:    c.cfg.Block,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("reading stream %s: %v", c.cfg.Stream, err)
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				c.process(ctx, msg)
			}
		}
	}
}

func (c *Consumer) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	req, ok := decodeSyncRequest(msg.Values)
	if !ok {
		// Redelivery cannot repair a malformed payload, so it is dropped
		// rather than retried.
		log.Printf("discarding malformed sync message %s", msg.ID)
		c.ack(ctx, msg.ID)
		return
	}

	if err := c.handler.Consume(ctx, req); err != nil {
		log.Printf("sync of %s failed, leaving %s for redelivery: %v", req.ISBN, msg.ID, err)
		return
	}
	c.ack(ctx, msg.ID)
}

func (c *Consumer) ack(ctx context.Context, id string) {
	if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, id).Err(); err != nil {
		log.Printf("acking %s: %v", id, err)
	}
}

// claimStale takes over pending entries from consumers that stopped without
// acking, so a crashed worker's messages are not stranded.
func (c *Consumer) claimStale(ctx context.Context) error {
	msgs, _, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   c.cfg.Stream,
		Group:    c.cfg.Group,
		Consumer: c.cfg.Consumer,
		MinIdle:  c.cfg.ClaimMinIdle,
		Start:    "0",
		Count:    10,
	}).Result()
	if err != nil {
		return err
	}
	for _, msg := range msgs {
		c.process(ctx, msg)
	}
	return nil
}

// dropPoisoned acks entries that exceeded MaxDeliveries so one bad message
// cannot wedge the group.
func (c *Consumer) dropPoisoned(ctx context.Context) error {
	pending, err := c.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: c.cfg.Stream,
		Group:  c.cfg.Group,
		Start:  "-",
		End:    "+",
		Count:  100,
	}).Result()
	if err != nil {
		return err
	}
	for _, p := range pending {
		if p.RetryCount > c.cfg.MaxDeliveries {
			log.Printf("dropping poison message %s after %d deliveries", p.ID, p.RetryCount)
			c.ack(ctx, p.ID)
		}
	}
	return nil
}

// decodeSyncRequest extracts a SyncRequest from a stream entry. A missing
// payload field, invalid JSON, or an absent isbn field all count as
// malformed.
func decodeSyncRequest(values map[string]interface{}) (SyncRequest, bool) {
	raw, ok := values[payloadField].(string)
	if !ok {
		return SyncRequest{}, false
	}
	var req SyncRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return SyncRequest{}, false
	}
	if req.ISBN == "" {
		return SyncRequest{}, false
	}
	return req, true
}

// Publisher enqueues synchronization requests. It exists for seeding and
// tests; production messages normally arrive from an external producer.
type Publisher struct {
	client StreamClient
	stream string
}

func NewPublisher(client StreamClient, stream string) *Publisher {
	return &Publisher{client: client, stream: stream}
}

func (p *Publisher) Publish(ctx context.Context, isbn string) error {
	body, err := json.Marshal(SyncRequest{ISBN: isbn})
	if err != nil {
		return err
	}
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{payloadField: string(body)},
	}).Err()
}
