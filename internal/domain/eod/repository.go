package eod

import (
	"context"
	"time"
)

type EODRepository interface {
	Create(ctx context.Context, entry Entry) (Entry, error)

	// ListByUser orders by date then created_at, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error)

	// ListTeam orders by date ascending then user name.
	ListTeam(ctx context.Context, filter TeamQuery) ([]Entry, error)
}

// TeamQuery is a resolved team filter; UserIDs is always the caller's scope.
type TeamQuery struct {
	UserIDs   []string
	StartDate *time.Time
	EndDate   *time.Time
	Project   string
}
