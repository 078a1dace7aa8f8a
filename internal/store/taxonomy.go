package store

import (
	"fmt"
	"time"

	"github.com/lazypower/topiary/internal/taxonomy"
)

// SaveTaxonomy replaces the stored taxonomy snapshot with the given items,
// preserving their order. All-or-nothing: runs in one transaction.
func (db *DB) SaveTaxonomy(items []taxonomy.Item) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin save taxonomy: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM taxonomy_items"); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear taxonomy: %w", err)
	}

	now := time.Now().UnixMilli()
	for pos, item := range items {
		if _, err := tx.Exec(
			"INSERT INTO taxonomy_items (position, id, score, updated_at) VALUES (?, ?, ?, ?)",
			pos, item.ID, item.Score, now,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert taxonomy item %q: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save taxonomy: %w", err)
	}
	return nil
}

// LoadTaxonomy returns the stored taxonomy snapshot in saved order.
func (db *DB) LoadTaxonomy() ([]taxonomy.Item, error) {
	rows, err := db.Query("SELECT id, score FROM taxonomy_items ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}
	defer rows.Close()

	var items []taxonomy.Item
	for rows.Next() {
		var item taxonomy.Item
		if err := rows.Scan(&item.ID, &item.Score); err != nil {
			return nil, fmt.Errorf("scan taxonomy item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
