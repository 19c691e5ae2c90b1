package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"prodeskBack/internal/models"
)

// InvoiceCache keeps rendered invoice views in Redis so portal reads skip
// the database. Every ledger mutation invalidates the entry; a cache miss
// or Redis outage just falls back to the store.
type InvoiceCache struct {
	RDB      *redis.Client
	TTL      time.Duration
	ErrorLog *log.Logger
}

func NewInvoiceCache(rdb *redis.Client, errorLog *log.Logger) *InvoiceCache {
	return &InvoiceCache{RDB: rdb, TTL: 5 * time.Minute, ErrorLog: errorLog}
}

func invoiceKey(id int) string {
	return fmt.Sprintf("invoice:%d", id)
}

func (c *InvoiceCache) Get(ctx context.Context, id int) (models.Invoice, bool) {
	data, err := c.RDB.Get(ctx, invoiceKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil && c.ErrorLog != nil {
			c.ErrorLog.Printf("invoice cache get %d: %v", id, err)
		}
		return models.Invoice{}, false
	}
	var inv models.Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		if c.ErrorLog != nil {
			c.ErrorLog.Printf("invoice cache decode %d: %v", id, err)
		}
		return models.Invoice{}, false
	}
	return inv, true
}

func (c *InvoiceCache) Set(ctx context.Context, inv models.Invoice) {
	data, err := json.Marshal(inv)
	if err != nil {
		return
	}
	if err := c.RDB.Set(ctx, invoiceKey(inv.ID), data, c.TTL).Err(); err != nil && c.ErrorLog != nil {
		c.ErrorLog.Printf("invoice cache set %d: %v", inv.ID, err)
	}
}

func (c *InvoiceCache) Invalidate(ctx context.Context, id int) {
	if err := c.RDB.Del(ctx, invoiceKey(id)).Err(); err != nil && c.ErrorLog != nil {
		c.ErrorLog.Printf("invoice cache invalidate %d: %v", id, err)
	}
}
