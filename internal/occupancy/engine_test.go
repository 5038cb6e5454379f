package occupancy

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sheltersync/sheltersync-backend/pkg/db/models"
	"github.com/sheltersync/sheltersync-backend/pkg/enums"
	pkgerrors "github.com/sheltersync/sheltersync-backend/pkg/errors"
)

func strPtr(s string) *string { return &s }

func checkedOutResident(date, tod string) models.Resident {
	return models.Resident{
		ID:                 uuid.New(),
		Name:               "Dana Whitfield",
		IsCheckedIn:        false,
		CurrentDestination: strPtr("Clinic"),
		ExpectedReturnTime: strPtr(tod),
		ExpectedReturnDate: strPtr(date),
	}
}

func TestCheckInClearsDestinationAndStampsAction(t *testing.T) {
	now := time.Date(2025, 9, 2, 14, 0, 0, 0, time.UTC)
	resident := checkedOutResident("2025-09-02", "15:00")

	updated, entry := CheckIn(resident, now)

	if !updated.IsCheckedIn {
		t.Fatal("resident should be checked in")
	}
	if updated.CurrentDestination != nil || updated.ExpectedReturnTime != nil || updated.ExpectedReturnDate != nil {
		t.Fatal("check-in must clear destination and expected return fields")
	}
	if updated.LastActionAt == nil || !updated.LastActionAt.Equal(now) {
		t.Fatal("check-in must stamp last action time")
	}
	if entry.Type != enums.MovementCheckIn {
		t.Fatalf("unexpected log type %s", entry.Type)
	}
	if entry.IsLate != nil {
		t.Fatal("on-time return should not be flagged late")
	}
	if entry.Destination == nil || *entry.Destination != "Clinic" {
		t.Fatal("log entry should preserve the destination being returned from")
	}
}

func TestCheckInFlagsLateReturn(t *testing.T) {
	now := time.Date(2025, 9, 2, 16, 30, 0, 0, time.UTC)
	resident := checkedOutResident("2025-09-02", "15:00")

	_, entry := CheckIn(resident, now)

	if entry.IsLate == nil || !*entry.IsLate {
		t.Fatal("return past expected time should be flagged late")
	}
}

func TestCheckOutValidation(t *testing.T) {
	now := time.Now()
	resident := models.Resident{ID: uuid.New(), Name: "Dana", IsCheckedIn: true}

	if _, _, err := CheckOut(resident, "  ", "15:00", nil, now); err == nil {
		t.Fatal("blank destination should be rejected")
	}
	for _, bad := range []string{"", "25:00", "9:00", "12:65", "noon"} {
		if _, _, err := CheckOut(resident, "Work", bad, nil, now); err == nil {
			t.Fatalf("eta %q should be rejected", bad)
		} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("eta %q should yield a validation error, got %v", bad, err)
		}
	}
}

func TestCheckOutRecordsDestinationAndETA(t *testing.T) {
	now := time.Date(2025, 9, 2, 9, 0, 0, 0, time.UTC)
	resident := models.Resident{ID: uuid.New(), Name: "Dana", IsCheckedIn: true}
	returnDate := "2025-09-02"

	updated, entry, err := CheckOut(resident, "Work", "17:30", &returnDate, now)
	if err != nil {
		t.Fatalf("check out: %v", err)
	}
	if updated.IsCheckedIn {
		t.Fatal("resident should be checked out")
	}
	if updated.CurrentDestination == nil || *updated.CurrentDestination != "Work" {
		t.Fatal("destination not stored")
	}
	if updated.ExpectedReturnTime == nil || *updated.ExpectedReturnTime != "17:30" {
		t.Fatal("eta not stored")
	}
	if entry.Type != enums.MovementCheckOut {
		t.Fatalf("unexpected log type %s", entry.Type)
	}
	if entry.ExpectedReturnDate == nil || *entry.ExpectedReturnDate != returnDate {
		t.Fatal("log should carry the return date")
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 9, 2, 16, 0, 0, 0, time.UTC)

	overdue := checkedOutResident("2025-09-02", "15:00")
	if !IsOverdue(overdue, now) {
		t.Fatal("past expected return should be overdue")
	}

	onTime := checkedOutResident("2025-09-02", "17:00")
	if IsOverdue(onTime, now) {
		t.Fatal("future expected return should not be overdue")
	}

	checkedIn := overdue
	checkedIn.IsCheckedIn = true
	if IsOverdue(checkedIn, now) {
		t.Fatal("checked-in residents are never overdue")
	}

	noDate := checkedOutResident("2025-09-02", "15:00")
	noDate.ExpectedReturnDate = nil
	if IsOverdue(noDate, now) {
		t.Fatal("missing return date should degrade to not-overdue")
	}

	malformed := checkedOutResident("02/09/2025", "15:00")
	if IsOverdue(malformed, now) {
		t.Fatal("malformed return date should degrade to not-overdue")
	}
}

func TestIsBlackout(t *testing.T) {
	resident := models.Resident{StatusText: "Blackout", IsCheckedIn: false}
	if !IsBlackout(resident) {
		t.Fatal("blackout status should match case-insensitively")
	}
	resident.IsCheckedIn = true
	if IsBlackout(resident) {
		t.Fatal("checked-in residents are not in blackout")
	}
	resident = models.Resident{StatusText: "New", IsCheckedIn: false}
	if IsBlackout(resident) {
		t.Fatal("non-blackout status should not match")
	}
}

func TestLateDeltaAndFormatting(t *testing.T) {
	actual := time.Date(2025, 9, 2, 16, 45, 0, 0, time.UTC)

	if LateDelta(actual, nil, strPtr("15:00")) != nil {
		t.Fatal("missing date should yield nil delta")
	}
	if LateDelta(actual, strPtr("2025-09-02"), nil) != nil {
		t.Fatal("missing time should yield nil delta")
	}
	if LateDelta(actual, strPtr("2025-09-02"), strPtr("17:00")) != nil {
		t.Fatal("early arrival should yield nil delta")
	}

	delta := LateDelta(actual, strPtr("2025-09-02"), strPtr("15:00"))
	if delta == nil {
		t.Fatal("late arrival should yield a delta")
	}
	if got := FormatLateDelta(*delta); got != "1h 45m late" {
		t.Fatalf("unexpected format %q", got)
	}
	if got := FormatLateDelta(25 * time.Minute); got != "25m late" {
		t.Fatalf("unexpected format %q", got)
	}
}

func TestSortResidentsOverdueThenBlackoutThenName(t *testing.T) {
	now := time.Date(2025, 9, 2, 16, 0, 0, 0, time.UTC)

	overdue := checkedOutResident("2025-09-02", "15:00")
	overdue.Name = "Zoe Quinn"

	blackout := models.Resident{ID: uuid.New(), Name: "Marcus Lee", StatusText: "blackout"}

	alpha := models.Resident{ID: uuid.New(), Name: "Amir Hassan", IsCheckedIn: true}
	beta := models.Resident{ID: uuid.New(), Name: "bella Ortiz", IsCheckedIn: true}

	residents := []models.Resident{beta, alpha, blackout, overdue}
	SortResidents(residents, now)

	want := []string{"Zoe Quinn", "Marcus Lee", "Amir Hassan", "bella Ortiz"}
	for i, name := range want {
		if residents[i].Name != name {
			t.Fatalf("position %d: expected %q, got %q", i, name, residents[i].Name)
		}
	}
}
