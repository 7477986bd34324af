// Package window provides the MaintenanceWindow catalog: named recurrence
// policies products subscribe to for preventive maintenance scheduling.
package window

import (
	"context"
	"fmt"
	"time"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/entity"
)

// Recurrence is the cadence of a maintenance window.
type Recurrence string

const (
	Daily        Recurrence = "daily"
	Weekly       Recurrence = "weekly"
	Monthly      Recurrence = "monthly"
	Quarterly    Recurrence = "quarterly"
	SemiAnnually Recurrence = "semi-annually"
	Annually     Recurrence = "annually"
)

// Valid reports whether r is a known recurrence.
func (r Recurrence) Valid() bool {
	switch r {
	case Daily, Weekly, Monthly, Quarterly, SemiAnnually, Annually:
		return true
	}
	return false
}

// Next returns the occurrence following from. Month-based cadences use
// calendar arithmetic, so Jan 31 + monthly normalizes per time.AddDate.
func (r Recurrence) Next(from time.Time) time.Time {
	switch r {
	case Daily:
		return from.AddDate(0, 0, 1)
	case Weekly:
		return from.AddDate(0, 0, 7)
	case Monthly:
		return from.AddDate(0, 1, 0)
	case Quarterly:
		return from.AddDate(0, 3, 0)
	case SemiAnnually:
		return from.AddDate(0, 6, 0)
	case Annually:
		return from.AddDate(1, 0, 0)
	}
	return from
}

// MaintenanceWindow is a recurrence policy with a tolerance band around
// each scheduled date.
type MaintenanceWindow struct {
	entity.Named

	Recurrence Recurrence `db:"recurrence" json:"recurrence"`

	// DaysBefore widens the window before the scheduled date
	DaysBefore int `db:"days_before" json:"daysBefore"`

	// DaysAfter widens the window after the scheduled date
	DaysAfter int `db:"days_after" json:"daysAfter"`
}

// New creates a MaintenanceWindow.
func New(name string, rec Recurrence, daysBefore, daysAfter int) *MaintenanceWindow {
	return &MaintenanceWindow{
		Named:      entity.NewNamed(name),
		Recurrence: rec,
		DaysBefore: daysBefore,
		DaysAfter:  daysAfter,
	}
}

// Validate implements entity.Validatable.
func (w *MaintenanceWindow) Validate(ctx context.Context) error {
	if err := w.Named.Validate(ctx); err != nil {
		return err
	}
	if !w.Recurrence.Valid() {
		return apperror.NewValidation(fmt.Sprintf("unknown recurrence %q", w.Recurrence)).
			WithDetail("field", "recurrence")
	}
	if w.DaysBefore < 0 || w.DaysAfter < 0 {
		return apperror.NewValidation("tolerance days must not be negative").
			WithDetail("daysBefore", w.DaysBefore).
			WithDetail("daysAfter", w.DaysAfter)
	}
	return nil
}

// Bounds returns the acceptance interval around a scheduled date.
func (w *MaintenanceWindow) Bounds(scheduled time.Time) (min, max time.Time) {
	return scheduled.AddDate(0, 0, -w.DaysBefore), scheduled.AddDate(0, 0, w.DaysAfter)
}
