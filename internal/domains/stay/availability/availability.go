// Package availability decides whether a stay fits a package's availability windows and
// counts bookings against the chosen window.
package availability

//go:generate go run go.uber.org/mock/mockgen -source=./availability.go -destination=../mocks/availability_mock.go -package=mocks

import (
	"context"
	"fmt"
	"slices"

	"lodge/infras/otel"
	"lodge/internal/domains/stay/model"
	"lodge/internal/domains/stay/repository"
	"lodge/shared/constant"
	"lodge/shared/date"
	"lodge/shared/failure"

	"github.com/rs/zerolog/log"
)

type Tracker interface {
	// CheckEligibility returns the window the stay would be booked against, or a typed rejection.
	CheckEligibility(ctx context.Context, pkg model.Package, stay model.Stay) (model.Availability, error)
	// Reserve checks eligibility and takes one slot of the selected window.
	Reserve(ctx context.Context, pkg model.Package, stay model.Stay) (model.Availability, error)
	// Release gives back the slot a booking holds in windowID. Bookings stored before the window
	// was recorded pass an empty windowID and fall back to the open window that contains the stay.
	Release(ctx context.Context, pkg model.Package, windowID string, checkIn, checkOut date.Date) error
}

type trackerImpl struct {
	repo repository.Availability
	otel otel.Otel
}

func New(repo repository.Availability, otel otel.Otel) Tracker {
	return &trackerImpl{
		repo: repo,
		otel: otel,
	}
}

func (t *trackerImpl) CheckEligibility(ctx context.Context, pkg model.Package, stay model.Stay) (window model.Availability, err error) {
	_, scope := t.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.CheckEligibility")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return Check(pkg, stay)
}

func (t *trackerImpl) Reserve(ctx context.Context, pkg model.Package, stay model.Stay) (window model.Availability, err error) {
	ctx, scope := t.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Reserve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	window, err = Check(pkg, stay)
	if err != nil {
		return window, err
	}

	reserved, err := t.repo.Reserve(ctx, window.ID)
	if err != nil {
		log.Error().Err(err).Str("window", window.ID).Msg("failed to reserve availability")

		return window, fmt.Errorf("failed to reserve availability: %w", err)
	}

	if !reserved {
		return window, failure.CapacityExceeded("package is fully booked for the selected dates") // nolint:wrapcheck
	}

	return window.Reserved(), nil
}

func (t *trackerImpl) Release(ctx context.Context, pkg model.Package, windowID string, checkIn, checkOut date.Date) (err error) {
	ctx, scope := t.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Release")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if windowID == constant.Empty {
		window, ok := Containing(openWindows(pkg.Availability), checkIn, checkOut)
		if !ok {
			log.Warn().Str("package", pkg.ID).Stringer("check_in", checkIn).Msg("no availability window holds this stay, nothing to release")

			return nil
		}

		windowID = window.ID
	}

	scope.SetAttribute("availability.window", windowID)

	if err = t.repo.Release(ctx, windowID); err != nil {
		log.Error().Err(err).Str("window", windowID).Msg("failed to release availability")

		return fmt.Errorf("failed to release availability: %w", err)
	}

	return nil
}

// Check runs the eligibility rules in order and stops at the first failure.
func Check(pkg model.Package, stay model.Stay) (model.Availability, error) {
	if err := stay.Validate(); err != nil {
		return model.Availability{}, err
	}

	nights := stay.Nights()

	if stay.Guests > pkg.MaxGuests {
		return model.Availability{}, failure.Ineligible(model.ReasonTooManyGuests,
			fmt.Sprintf("package allows at most %d guests", pkg.MaxGuests))
	}

	if err := checkStayLength(nights, pkg.MinimumStay, pkg.MaximumStay); err != nil {
		return model.Availability{}, err
	}

	candidates := containingAll(openWindows(pkg.Availability), stay.CheckIn, stay.CheckOut)
	if len(candidates) == 0 {
		return model.Availability{}, failure.Ineligible(model.ReasonNotAvailable, "package is not available for the selected dates")
	}

	// Overlapping windows are tried in date_from order. When none accepts the stay, the
	// earliest window's rejection is reported.
	var rejection error

	for _, window := range candidates {
		err := checkWindow(window, stay, nights)
		if err == nil {
			return window, nil
		}

		if rejection == nil {
			rejection = err
		}
	}

	return candidates[0], rejection
}

func checkWindow(window model.Availability, stay model.Stay, nights int) error {
	if err := checkStayLength(nights, deref(window.MinimumStay), window.MaximumStay); err != nil {
		return err
	}

	for _, night := range stay.Nightly() {
		if window.BlackoutDates.Contains(night) {
			return failure.Ineligible(model.ReasonBlackoutDate, fmt.Sprintf("package cannot be booked on %s", night))
		}
	}

	if !window.HasCapacity() {
		return failure.CapacityExceeded("package is fully booked for the selected dates") // nolint:wrapcheck
	}

	return nil
}

// Containing returns the earliest starting window that holds the whole stay.
func Containing(windows []model.Availability, checkIn, checkOut date.Date) (model.Availability, bool) {
	found := containingAll(windows, checkIn, checkOut)
	if len(found) == 0 {
		return model.Availability{}, false
	}

	return found[0], true
}

func containingAll(windows []model.Availability, checkIn, checkOut date.Date) []model.Availability {
	found := slices.DeleteFunc(slices.Clone(windows), func(window model.Availability) bool {
		return !window.Contains(checkIn, checkOut)
	})

	slices.SortStableFunc(found, func(a, b model.Availability) int {
		return a.DateFrom.Time().Compare(b.DateFrom.Time())
	})

	return found
}

func openWindows(windows []model.Availability) []model.Availability {
	return slices.DeleteFunc(slices.Clone(windows), func(window model.Availability) bool {
		return !window.IsAvailable
	})
}

func checkStayLength(nights, minimum int, maximum *int) error {
	if nights < minimum {
		return failure.Ineligible(model.ReasonMinimumStayNotMet, fmt.Sprintf("minimum stay of %d nights not met", minimum))
	}

	if maximum != nil && nights > *maximum {
		return failure.Ineligible(model.ReasonMaximumStayExceeded, fmt.Sprintf("maximum stay of %d nights exceeded", *maximum))
	}

	return nil
}

func deref(value *int) int {
	if value == nil {
		return 0
	}

	return *value
}
