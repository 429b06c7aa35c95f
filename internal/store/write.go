package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pourhouse/pourhouse/internal/catalog"
)

// Sale is one recorded point-of-sale transaction. Volume is tracked in
// milliliters; the stored total_volume is derived as ContainerSize × Quantity.
type Sale struct {
	ID            string
	CatalogItemID string
	ContainerSize int // milliliters per cup
	Quantity      int
	Timestamp     time.Time
	EventID       string // optional
	Username      string // optional
}

// RecordSale inserts a transaction row and persists the image. A zero ID
// gets a fresh UUID; a zero Timestamp gets the current UTC instant.
// Referencing a nonexistent catalog item is rejected (CONSTRAINT).
func (e *Engine) RecordSale(ctx context.Context, sale Sale) (string, error) {
	if sale.CatalogItemID == "" {
		return "", fmt.Errorf("record sale: catalog item id required")
	}
	if sale.ContainerSize <= 0 || sale.Quantity <= 0 {
		return "", fmt.Errorf("record sale: container size and quantity must be positive")
	}
	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}
	if sale.Timestamp.IsZero() {
		sale.Timestamp = time.Now().UTC()
	}

	totalVolume := float64(sale.ContainerSize * sale.Quantity)

	err := e.Execute(ctx, `
		INSERT INTO transactions
		(id, catalog_item_id, container_size, quantity, timestamp, total_volume, event_id, username)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sale.ID,
		sale.CatalogItemID,
		sale.ContainerSize,
		sale.Quantity,
		sale.Timestamp.UTC().Format(time.RFC3339),
		totalVolume,
		nullable(sale.EventID),
		nullable(sale.Username),
	)
	if err != nil {
		return "", fmt.Errorf("record sale: %w", err)
	}
	return sale.ID, nil
}

// DeleteTransaction removes a transaction by id (administrative rollback).
func (e *Engine) DeleteTransaction(ctx context.Context, id string) error {
	if err := e.Execute(ctx, "DELETE FROM transactions WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// AddCatalogItem inserts a new catalog item.
func (e *Engine) AddCatalogItem(ctx context.Context, item catalog.Item) error {
	err := e.Execute(ctx,
		"INSERT INTO catalog_items (id, name, color, description) VALUES (?, ?, ?, ?)",
		item.ID, item.Name, item.Color, item.Description,
	)
	if err != nil {
		return fmt.Errorf("add catalog item: %w", err)
	}
	return nil
}

// CatalogItems returns all catalog items ordered by id.
func (e *Engine) CatalogItems(ctx context.Context) ([]catalog.Item, error) {
	var items []catalog.Item
	err := e.Select(ctx,
		"SELECT id, name, color, description FROM catalog_items ORDER BY id ASC",
		nil,
		func(rows *sql.Rows) error {
			var item catalog.Item
			if err := rows.Scan(&item.ID, &item.Name, &item.Color, &item.Description); err != nil {
				return err
			}
			items = append(items, item)
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	return items, nil
}

// SetSetting upserts a key in the settings table.
func (e *Engine) SetSetting(ctx context.Context, key, value string) error {
	err := e.Execute(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// GetSetting returns the value for key, or ok=false if unset.
func (e *Engine) GetSetting(ctx context.Context, key string) (value string, ok bool, err error) {
	err = e.Select(ctx,
		"SELECT value FROM settings WHERE key = ?",
		[]any{key},
		func(rows *sql.Rows) error {
			ok = true
			return rows.Scan(&value)
		},
	)
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, ok, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
