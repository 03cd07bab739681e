package dashboard

import (
	"context"
	"time"
)

// OpeningHours is one weekday row of the pub's schedule. Weekday follows
// time.Weekday numbering, Sunday is 0.
type OpeningHours struct {
	ID        int       `json:"id"`
	Weekday   int       `json:"weekday"`
	OpensAt   *string   `json:"opensAt"`
	ClosesAt  *string   `json:"closesAt"`
	IsClosed  bool      `json:"isClosed"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OpeningHoursInput is one weekday entry of a bulk save.
type OpeningHoursInput struct {
	Weekday  int     `json:"weekday"`
	OpensAt  *string `json:"opensAt"`
	ClosesAt *string `json:"closesAt"`
	IsClosed bool    `json:"isClosed"`
}

// ListOpeningHours fetches the weekly schedule.
func (c *Client) ListOpeningHours(ctx context.Context) ([]OpeningHours, error) {
	var hours []OpeningHours
	if err := c.get(ctx, "/opening-hours", &hours); err != nil {
		return nil, err
	}
	return hours, nil
}

// SaveOpeningHours replaces the whole week in one request and returns the
// stored schedule.
func (c *Client) SaveOpeningHours(ctx context.Context, week []OpeningHoursInput) ([]OpeningHours, error) {
	var hours []OpeningHours
	if err := c.put(ctx, "/opening-hours", week, &hours); err != nil {
		return nil, err
	}
	return hours, nil
}
