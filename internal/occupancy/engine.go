package occupancy

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/sheltersync/sheltersync-backend/pkg/db/models"
	"github.com/sheltersync/sheltersync-backend/pkg/enums"
	pkgerrors "github.com/sheltersync/sheltersync-backend/pkg/errors"
)

// blackoutStatus is the one place the blackout status text is compared.
const blackoutStatus = "blackout"

var timeOfDayRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// CheckIn marks the resident present. Destination and expected-return fields
// are cleared; the returned log entry preserves them so the history can show
// whether the return was late.
func CheckIn(resident models.Resident, now time.Time) (models.Resident, models.MovementLog) {
	entry := models.MovementLog{
		ResidentID:         resident.ID,
		ResidentName:       resident.Name,
		Type:               enums.MovementCheckIn,
		Timestamp:          now,
		Destination:        resident.CurrentDestination,
		ExpectedReturnTime: resident.ExpectedReturnTime,
		ExpectedReturnDate: resident.ExpectedReturnDate,
	}
	if delta := LateDelta(now, resident.ExpectedReturnDate, resident.ExpectedReturnTime); delta != nil {
		late := true
		entry.IsLate = &late
	}

	resident.IsCheckedIn = true
	resident.CurrentDestination = nil
	resident.ExpectedReturnTime = nil
	resident.ExpectedReturnDate = nil
	resident.LastActionAt = &now

	return resident, entry
}

// CheckOut marks the resident away. Destination and a valid HH:MM expected
// return time are required; the return date is optional.
func CheckOut(resident models.Resident, destination, eta string, returnDate *string, now time.Time) (models.Resident, models.MovementLog, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return resident, models.MovementLog{}, pkgerrors.New(pkgerrors.CodeValidation, "destination is required")
	}
	eta = strings.TrimSpace(eta)
	if !timeOfDayRe.MatchString(eta) {
		return resident, models.MovementLog{}, pkgerrors.New(pkgerrors.CodeValidation, "expected return time must be HH:MM")
	}

	resident.IsCheckedIn = false
	resident.CurrentDestination = &destination
	resident.ExpectedReturnTime = &eta
	resident.ExpectedReturnDate = returnDate
	resident.LastActionAt = &now

	entry := models.MovementLog{
		ResidentID:         resident.ID,
		ResidentName:       resident.Name,
		Type:               enums.MovementCheckOut,
		Timestamp:          now,
		Destination:        &destination,
		ExpectedReturnTime: &eta,
		ExpectedReturnDate: returnDate,
	}
	return resident, entry, nil
}

// IsOverdue reports whether a checked-out resident is past their expected
// return. Residents without both return fields are never overdue.
func IsOverdue(resident models.Resident, now time.Time) bool {
	if resident.IsCheckedIn {
		return false
	}
	expected, ok := combineReturn(resident.ExpectedReturnDate, resident.ExpectedReturnTime, now.Location())
	if !ok {
		return false
	}
	return now.After(expected)
}

// IsBlackout reports whether a checked-out resident carries the blackout
// status.
func IsBlackout(resident models.Resident) bool {
	return !resident.IsCheckedIn && strings.EqualFold(strings.TrimSpace(resident.StatusText), blackoutStatus)
}

// LateDelta returns how far past the expected return the actual time is, or
// nil when no expected return is recorded or the arrival was on time.
func LateDelta(actual time.Time, expectedDate, expectedTime *string) *time.Duration {
	expected, ok := combineReturn(expectedDate, expectedTime, actual.Location())
	if !ok {
		return nil
	}
	diff := actual.Sub(expected)
	if diff <= 0 {
		return nil
	}
	return &diff
}

// FormatLateDelta renders a late duration as "XhYm late" or "Ym late".
func FormatLateDelta(d time.Duration) string {
	mins := int(d.Minutes())
	hours := mins / 60
	mins = mins % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm late", hours, mins)
	}
	return fmt.Sprintf("%dm late", mins)
}

// SortResidents orders the management roster: overdue residents first, then
// blackout residents, then everyone else by name.
func SortResidents(residents []models.Resident, now time.Time) {
	sort.SliceStable(residents, func(i, j int) bool {
		a, b := residents[i], residents[j]
		aOverdue, bOverdue := IsOverdue(a, now), IsOverdue(b, now)
		if aOverdue != bOverdue {
			return aOverdue
		}
		aBlackout, bBlackout := IsBlackout(a), IsBlackout(b)
		if aBlackout != bBlackout {
			return aBlackout
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

// combineReturn joins the YYYY-MM-DD date and HH:MM time into a local
// timestamp. Missing or malformed fields report !ok so callers degrade
// silently.
func combineReturn(date, tod *string, loc *time.Location) (time.Time, bool) {
	if date == nil || tod == nil {
		return time.Time{}, false
	}
	d := strings.TrimSpace(*date)
	t := strings.TrimSpace(*tod)
	if d == "" || t == "" {
		return time.Time{}, false
	}
	combined, err := time.ParseInLocation("2006-01-02T15:04", d+"T"+t, loc)
	if err != nil {
		return time.Time{}, false
	}
	return combined, true
}
