package models

// Yacht is a bookable vessel.
type Yacht struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	MaxGuests       int     `json:"max_guests"`
	MinBookingHours float64 `json:"min_booking_hours,omitempty"` // 0 means use the global default
	IsActive        bool    `json:"is_active"`
	SortOrder       int64   `json:"sort_order,omitempty"`
}
