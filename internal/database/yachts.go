package database

import (
	"context"
	"sort"

	"helmsman/internal/models"
)

// LoadYachts refreshes the in-memory fleet cache.
func (d *DB) LoadYachts(ctx context.Context) error {
	rows, err := d.QueryContext(ctx, `
		SELECT id, name, max_guests, min_booking_hours, is_active, sort_order
		FROM yachts`)
	if err != nil {
		return err
	}
	defer rows.Close()

	cache := make(map[string]cachedYacht)
	for rows.Next() {
		var y cachedYacht
		if err := rows.Scan(&y.id, &y.name, &y.maxGuests, &y.minBookingHours, &y.isActive, &y.sortOrder); err != nil {
			return err
		}
		cache[y.id] = y
	}
	if err := rows.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	d.yachtCache = cache
	d.mu.Unlock()
	return nil
}

// GetYachts returns the cached fleet in sort order.
func (d *DB) GetYachts() []*models.Yacht {
	d.mu.RLock()
	defer d.mu.RUnlock()

	yachts := make([]*models.Yacht, 0, len(d.yachtCache))
	for _, y := range d.yachtCache {
		yachts = append(yachts, toYacht(y))
	}
	sort.Slice(yachts, func(i, j int) bool {
		if yachts[i].SortOrder != yachts[j].SortOrder {
			return yachts[i].SortOrder < yachts[j].SortOrder
		}
		return yachts[i].ID < yachts[j].ID
	})
	return yachts
}

// GetYachtByID returns a yacht from the cache.
func (d *DB) GetYachtByID(id string) (*models.Yacht, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	y, ok := d.yachtCache[id]
	if !ok {
		return nil, ErrNotFound
	}
	return toYacht(y), nil
}

// UpsertYacht inserts or updates a yacht and refreshes the cache entry.
func (d *DB) UpsertYacht(ctx context.Context, y *models.Yacht) error {
	_, err := d.ExecContext(ctx, `
		INSERT INTO yachts (id, name, max_guests, min_booking_hours, is_active, sort_order)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			max_guests = excluded.max_guests,
			min_booking_hours = excluded.min_booking_hours,
			is_active = excluded.is_active,
			sort_order = excluded.sort_order`,
		y.ID, y.Name, y.MaxGuests, y.MinBookingHours, y.IsActive, y.SortOrder)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.yachtCache[y.ID] = cachedYacht{
		id:              y.ID,
		name:            y.Name,
		maxGuests:       y.MaxGuests,
		minBookingHours: y.MinBookingHours,
		isActive:        y.IsActive,
		sortOrder:       y.SortOrder,
	}
	d.mu.Unlock()
	return nil
}

func toYacht(y cachedYacht) *models.Yacht {
	return &models.Yacht{
		ID:              y.id,
		Name:            y.name,
		MaxGuests:       y.maxGuests,
		MinBookingHours: y.minBookingHours,
		IsActive:        y.isActive,
		SortOrder:       y.sortOrder,
	}
}
