package analytics

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sheltersync/sheltersync-backend/internal/movement"
	"github.com/sheltersync/sheltersync-backend/internal/residents"
	"github.com/sheltersync/sheltersync-backend/pkg/db/models"
	"github.com/sheltersync/sheltersync-backend/pkg/enums"
	pkgerrors "github.com/sheltersync/sheltersync-backend/pkg/errors"
)

// Range selects the reporting window for the dashboard.
type Range string

const (
	Range7Days  Range = "7d"
	Range30Days Range = "30d"
	RangeAll    Range = "all"

	recentEntryCount = 3
	dailySeriesDays  = 7
)

// DailyBucket holds check-in and check-out counts for one calendar day.
type DailyBucket struct {
	Date      string `json:"date"`
	CheckIns  int    `json:"check_ins"`
	CheckOuts int    `json:"check_outs"`
}

// Summary is the dashboard payload for one reporting window.
type Summary struct {
	Range           Range                `json:"range"`
	CheckIns        int                  `json:"check_ins"`
	CheckOuts       int                  `json:"check_outs"`
	AvgStayHours    float64              `json:"avg_stay_hours"`
	OccupancyRate   int                  `json:"occupancy_rate"`
	TotalResidents  int                  `json:"total_residents"`
	CheckedIn       int                  `json:"checked_in"`
	OutOfBuilding   int                  `json:"out_of_building"`
	DailySeries     []DailyBucket        `json:"daily_series"`
	RecentActivity  []models.MovementLog `json:"recent_activity"`
	GeneratedAt     time.Time            `json:"generated_at"`
	WindowStart     *time.Time           `json:"window_start,omitempty"`
	EntriesInWindow int                  `json:"entries_in_window"`
}

// Service computes movement and occupancy statistics for the dashboard.
type Service interface {
	Summary(ctx context.Context, rng Range) (*Summary, error)
}

type residentCounter interface {
	Counts(ctx context.Context) (total int64, checkedIn int64, err error)
}

type service struct {
	logs      movement.Repository
	residents residentCounter
	clock     func() time.Time
}

// ServiceParams bundles the dependencies required to build an analytics service.
type ServiceParams struct {
	MovementRepo movement.Repository
	Residents    residents.Repository
	Clock        func() time.Time
}

// NewService wires analytics dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.MovementRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "movement repository required")
	}
	if params.Residents == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "residents repository required")
	}
	clock := params.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		logs:      params.MovementRepo,
		residents: params.Residents,
		clock:     clock,
	}, nil
}

// ParseRange maps the query value to a Range; blank defaults to the 7 day
// window.
func ParseRange(raw string) (Range, error) {
	switch Range(raw) {
	case "":
		return Range7Days, nil
	case Range7Days, Range30Days, RangeAll:
		return Range(raw), nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "range must be 7d, 30d, or all")
	}
}

func (s *service) Summary(ctx context.Context, rng Range) (*Summary, error) {
	now := s.clock()
	cutoff := windowStart(rng, now)

	windowed, err := s.logs.ListSince(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list movement window")
	}
	full, err := s.logs.ListChronological(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list movement history")
	}
	total, checkedIn, err := s.residents.Counts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count residents")
	}

	summary := &Summary{
		Range:           rng,
		TotalResidents:  int(total),
		CheckedIn:       int(checkedIn),
		OutOfBuilding:   int(total - checkedIn),
		AvgStayHours:    averageStayHours(full),
		OccupancyRate:   occupancyRate(total, checkedIn),
		DailySeries:     dailySeries(windowed),
		RecentActivity:  recentEntries(windowed),
		GeneratedAt:     now,
		WindowStart:     cutoff,
		EntriesInWindow: len(windowed),
	}
	for _, entry := range windowed {
		switch entry.Type {
		case enums.MovementCheckIn:
			summary.CheckIns++
		case enums.MovementCheckOut:
			summary.CheckOuts++
		}
	}
	return summary, nil
}

func windowStart(rng Range, now time.Time) *time.Time {
	var cutoff time.Time
	switch rng {
	case Range7Days:
		cutoff = now.AddDate(0, 0, -7)
	case Range30Days:
		cutoff = now.AddDate(0, 0, -30)
	default:
		return nil
	}
	return &cutoff
}

// averageStayHours pairs each check-out with the nearest prior check-in for
// the same resident and averages the stay lengths, to one decimal. The
// check-in is not consumed: a profile edit can flip a resident back to
// checked in without logging a CHECK_IN, so a later check-out pairs with
// the same entry again. Entries must be in chronological order.
func averageStayHours(entries []models.MovementLog) float64 {
	lastCheckIn := make(map[uuid.UUID]time.Time)
	var totalHours float64
	var stays int
	for _, entry := range entries {
		switch entry.Type {
		case enums.MovementCheckIn:
			lastCheckIn[entry.ResidentID] = entry.Timestamp
		case enums.MovementCheckOut:
			if in, ok := lastCheckIn[entry.ResidentID]; ok {
				totalHours += entry.Timestamp.Sub(in).Hours()
				stays++
			}
		}
	}
	if stays == 0 {
		return 0
	}
	return math.Round(totalHours/float64(stays)*10) / 10
}

func occupancyRate(total, checkedIn int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(checkedIn) / float64(total) * 100))
}

// dailySeries buckets the window's movements per calendar day and keeps the
// most recent days, returned oldest first for charting.
func dailySeries(entries []models.MovementLog) []DailyBucket {
	buckets := make(map[string]*DailyBucket)
	var order []string
	// entries arrive newest first, so the first appearance of a day is the
	// most recent one
	for _, entry := range entries {
		if entry.Type != enums.MovementCheckIn && entry.Type != enums.MovementCheckOut {
			continue
		}
		day := entry.Timestamp.Format("2006-01-02")
		bucket, ok := buckets[day]
		if !ok {
			if len(order) == dailySeriesDays {
				continue
			}
			bucket = &DailyBucket{Date: day}
			buckets[day] = bucket
			order = append(order, day)
		}
		if entry.Type == enums.MovementCheckIn {
			bucket.CheckIns++
		} else {
			bucket.CheckOuts++
		}
	}

	series := make([]DailyBucket, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		series = append(series, *buckets[order[i]])
	}
	return series
}

func recentEntries(entries []models.MovementLog) []models.MovementLog {
	if len(entries) > recentEntryCount {
		entries = entries[:recentEntryCount]
	}
	recent := make([]models.MovementLog, len(entries))
	copy(recent, entries)
	return recent
}
