package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/terraincognita07/ovumcy-insights/internal/analytics"
	"github.com/terraincognita07/ovumcy-insights/internal/models"
)

var (
	ErrDayDateOutOfRange = errors.New("day is in the future or more than a year ago")
	ErrDayFlowInvalid    = errors.New("day flow is invalid")
	ErrDayUpsertFailed   = errors.New("save day entry failed")
	ErrDeleteDayFailed   = errors.New("delete day failed")
	ErrDayListFailed     = errors.New("list day entries failed")
)

var validFlows = []string{models.FlowNone, models.FlowLight, models.FlowMedium, models.FlowHeavy}

type DayEntryInput struct {
	IsPeriod bool
	Flow     string
	Notes    string
}

type DayLogRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]models.DailyLog, error)
	Upsert(ctx context.Context, entry *models.DailyLog) error
	DeleteByUserAndDayRange(ctx context.Context, userID uint, dayStart time.Time, dayEnd time.Time) error
}

type DayService struct {
	logs     DayLogRepository
	location *time.Location
}

func NewDayService(logs DayLogRepository, location *time.Location) *DayService {
	return &DayService{logs: logs, location: location}
}

// UpsertDayEntry writes the log for one calendar day. Days in the future or
// more than a year before now are rejected.
func (service *DayService) UpsertDayEntry(ctx context.Context, userID uint, day time.Time, input DayEntryInput, now time.Time) (models.DailyLog, error) {
	dayStart, err := service.loggableDay(day, now)
	if err != nil {
		return models.DailyLog{}, err
	}

	flow := strings.ToLower(strings.TrimSpace(input.Flow))
	if flow == "" {
		flow = models.FlowNone
	}
	if !slices.Contains(validFlows, flow) {
		return models.DailyLog{}, ErrDayFlowInvalid
	}
	if !input.IsPeriod {
		flow = models.FlowNone
	}

	entry := models.DailyLog{
		UserID:   userID,
		Date:     dayStart,
		IsPeriod: input.IsPeriod,
		Flow:     flow,
		Notes:    strings.TrimSpace(input.Notes),
	}
	if err := service.logs.Upsert(ctx, &entry); err != nil {
		return models.DailyLog{}, ErrDayUpsertFailed
	}
	return entry, nil
}

func (service *DayService) DeleteDay(ctx context.Context, userID uint, day time.Time) error {
	dayStart, dayEnd := DayRange(CalendarDay(day, service.location))
	if err := service.logs.DeleteByUserAndDayRange(ctx, userID, dayStart, dayEnd); err != nil {
		return ErrDeleteDayFailed
	}
	return nil
}

func (service *DayService) FetchAllLogsForUser(ctx context.Context, userID uint) ([]models.DailyLog, error) {
	logs, err := service.logs.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrDayListFailed
	}
	return logs, nil
}

func (service *DayService) loggableDay(day time.Time, now time.Time) (time.Time, error) {
	dayStart := CalendarDay(day, service.location)
	if !analytics.IsValidLoggingDate(dayStart, CalendarDay(now, service.location)) {
		return time.Time{}, ErrDayDateOutOfRange
	}
	return dayStart, nil
}
