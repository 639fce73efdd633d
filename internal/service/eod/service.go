package eod

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/eod"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
	userservice "github.com/cmlabs-hris/workday-backend-go/internal/service/user"
)

type EODServiceImpl struct {
	eod.EODRepository
	scope user.ScopeResolver
	loc   *time.Location
	now   func() time.Time
}

func NewEODService(eodRepository eod.EODRepository, scope user.ScopeResolver, loc *time.Location) eod.EODService {
	return &EODServiceImpl{
		EODRepository: eodRepository,
		scope:         scope,
		loc:           loc,
		now:           time.Now,
	}
}

// Submit implements eod.EODService.
func (e *EODServiceImpl) Submit(ctx context.Context, caller user.Caller, req eod.SubmitEntryRequest) (eod.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return eod.EntryResponse{}, err
	}

	date := calendarDay(e.now().In(e.loc))
	if req.Date != "" {
		parsed, err := validator.ParseDate(req.Date, e.loc)
		if err != nil {
			return eod.EntryResponse{}, eod.ErrInvalidDate
		}
		date = calendarDay(parsed)
	}

	created, err := e.EODRepository.Create(ctx, eod.Entry{
		UserID:          caller.ID,
		Date:            date,
		ProjectName:     req.ProjectName,
		TaskDescription: req.TaskDescription,
		HoursSpent:      req.HoursSpent,
		Status:          eod.Status(req.Status),
	})
	if err != nil {
		return eod.EntryResponse{}, fmt.Errorf("failed to create eod entry: %w", err)
	}

	slog.Info("EOD entry submitted", "eod_id", created.ID, "user_id", caller.ID, "project", created.ProjectName)
	return eod.NewEntryResponse(created), nil
}

// MyHistory implements eod.EODService.
func (e *EODServiceImpl) MyHistory(ctx context.Context, caller user.Caller) ([]eod.EntryResponse, error) {
	entries, err := e.EODRepository.ListByUser(ctx, caller.ID, eod.HistoryLimit)
	if err != nil {
		return nil, err
	}
	return toResponses(entries), nil
}

// TeamEntries implements eod.EODService. A start/end pair wins over a single date.
func (e *EODServiceImpl) TeamEntries(ctx context.Context, caller user.Caller, filter eod.TeamFilter) ([]eod.EntryResponse, error) {
	if !caller.CanManage() {
		return nil, user.ErrManagerAccessRequired
	}

	query := eod.TeamQuery{Project: strings.TrimSpace(filter.Project)}
	switch {
	case filter.StartDate != "" && filter.EndDate != "":
		start, err := e.parseDay(filter.StartDate, "startDate")
		if err != nil {
			return nil, err
		}
		end, err := e.parseDay(filter.EndDate, "endDate")
		if err != nil {
			return nil, err
		}
		if end.Before(start) {
			return nil, eod.ErrInvalidDateRange
		}
		query.StartDate, query.EndDate = &start, &end
	case filter.Date != "":
		day, err := e.parseDay(filter.Date, "date")
		if err != nil {
			return nil, err
		}
		query.StartDate, query.EndDate = &day, &day
	}

	visible, err := e.scope.VisibleUserIDs(ctx, caller)
	if err != nil {
		return nil, err
	}
	if filter.UserID != "" {
		if !userservice.Contains(visible, filter.UserID) {
			return []eod.EntryResponse{}, nil
		}
		visible = []string{filter.UserID}
	}
	if len(visible) == 0 {
		return []eod.EntryResponse{}, nil
	}
	query.UserIDs = visible

	entries, err := e.EODRepository.ListTeam(ctx, query)
	if err != nil {
		return nil, err
	}
	return toResponses(entries), nil
}

func (e *EODServiceImpl) parseDay(value string, field string) (time.Time, error) {
	parsed, err := validator.ParseDate(value, e.loc)
	if err != nil {
		return time.Time{}, validator.ValidationErrors{{
			Field:   field,
			Message: field + " must be in YYYY-MM-DD format",
		}}
	}
	return calendarDay(parsed), nil
}

func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func toResponses(entries []eod.Entry) []eod.EntryResponse {
	resp := make([]eod.EntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, eod.NewEntryResponse(entry))
	}
	return resp
}
