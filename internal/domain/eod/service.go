package eod

import (
	"context"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
)

type EODService interface {
	// Submit always appends a new entry.
	Submit(ctx context.Context, caller user.Caller, req SubmitEntryRequest) (EntryResponse, error)
	MyHistory(ctx context.Context, caller user.Caller) ([]EntryResponse, error)
	TeamEntries(ctx context.Context, caller user.Caller, filter TeamFilter) ([]EntryResponse, error)
}
