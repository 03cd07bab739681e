package dashboard

import (
	"context"
	"time"

	"github.com/jmhodges/clock"
)

// Summary mirrors the API's aggregated landing-page counts.
type Summary struct {
	Todos          TodoStats `json:"todos"`
	Categories     int       `json:"categories"`
	MenuItems      int       `json:"menuItems"`
	ActiveSpecials int       `json:"activeSpecials"`
	UpcomingEvents int       `json:"upcomingEvents"`
	ActiveUsers    int64     `json:"activeUsers"`
}

// MenuItem mirrors the API's menu item representation.
type MenuItem struct {
	ID          int     `json:"id"`
	CategoryID  int     `json:"categoryId"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	IsAvailable bool    `json:"isAvailable"`
}

// Special mirrors the API's promotion representation.
type Special struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	IsActive bool   `json:"isActive"`
}

// Event mirrors the API's event representation.
type Event struct {
	ID       int       `json:"id"`
	Title    string    `json:"title"`
	StartsAt time.Time `json:"startsAt"`
	IsActive bool      `json:"isActive"`
}

type usersPage struct {
	Data  []User `json:"data"`
	Total int64  `json:"total"`
}

// SummaryLoader fetches the landing-page summary. It prefers the aggregated
// endpoint and composes the same counts from the per-resource listings when
// that endpoint is unavailable.
type SummaryLoader struct {
	client *Client
	clk    clock.Clock
	loc    *time.Location
}

// NewSummaryLoader creates a loader anchored to the given business timezone.
// Pass clock.New() in production.
func NewSummaryLoader(client *Client, clk clock.Clock, loc *time.Location) *SummaryLoader {
	return &SummaryLoader{
		client: client,
		clk:    clk,
		loc:    loc,
	}
}

// Load returns the aggregated summary in one round-trip when possible. Any
// failure of the aggregated endpoint falls back to per-resource fetches, with
// the todo block derived locally by the same deriver the reminder screen uses.
func (l *SummaryLoader) Load(ctx context.Context) (Summary, error) {
	var summary Summary
	if err := l.client.get(ctx, "/dashboard/summary", &summary); err == nil {
		return summary, nil
	}
	return l.compose(ctx)
}

func (l *SummaryLoader) compose(ctx context.Context) (Summary, error) {
	var summary Summary
	now := l.clk.Now()

	var todos []Todo
	if err := l.client.get(ctx, "/todos", &todos); err != nil {
		return Summary{}, err
	}
	summary.Todos = DeriveStats(todos, now, l.loc)

	var categories []Category
	if err := l.client.get(ctx, "/menu/primary-categories", &categories); err != nil {
		return Summary{}, err
	}
	summary.Categories = len(categories)

	var items []MenuItem
	if err := l.client.get(ctx, "/menu/items", &items); err != nil {
		return Summary{}, err
	}
	summary.MenuItems = len(items)

	var specials []Special
	if err := l.client.get(ctx, "/specials?active=true", &specials); err != nil {
		return Summary{}, err
	}
	summary.ActiveSpecials = len(specials)

	var events []Event
	if err := l.client.get(ctx, "/events?active=true", &events); err != nil {
		return Summary{}, err
	}
	for _, event := range events {
		if event.StartsAt.After(now) {
			summary.UpcomingEvents++
		}
	}

	// The user count needs the admin-only listing; sessions without that
	// role keep it at zero rather than failing the whole summary.
	var users usersPage
	if err := l.client.get(ctx, "/users?limit=200", &users); err == nil {
		for _, user := range users.Data {
			if user.IsActive {
				summary.ActiveUsers++
			}
		}
	}

	return summary, nil
}
