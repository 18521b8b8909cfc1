package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"lodge/config"
	kafkaMocks "lodge/infras/kafka/mocks"
	"lodge/infras/otel/mocks"
	bookingMocks "lodge/internal/domains/booking/mocks"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/booking/service"
	partnerMocks "lodge/internal/domains/partner/mocks"
	partnerModel "lodge/internal/domains/partner/model"
	"lodge/internal/domains/stay/availability"
	stayMocks "lodge/internal/domains/stay/mocks"
	stayModel "lodge/internal/domains/stay/model"
	cacheMocks "lodge/shared/cache/mocks"
	"lodge/shared/constant"
	"lodge/shared/date"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	repoMocks "lodge/shared/repository/mocks"
	"lodge/shared/timezone"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	bookings     *bookingMocks.MockBooking
	packages     *stayMocks.MockPackage
	windows      *stayMocks.MockAvailability
	offers       *partnerMocks.MockOffer
	reservations *partnerMocks.MockReservation
	transactor   *repoMocks.MockTransactor
	cache        *cacheMocks.MockRedisCache
	kafka        *kafkaMocks.MockClient
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		bookings:     bookingMocks.NewMockBooking(ctrl),
		packages:     stayMocks.NewMockPackage(ctrl),
		windows:      stayMocks.NewMockAvailability(ctrl),
		offers:       partnerMocks.NewMockOffer(ctrl),
		reservations: partnerMocks.NewMockReservation(ctrl),
		transactor:   repoMocks.NewMockTransactor(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
		kafka:        kafkaMocks.NewMockClient(ctrl),
	}

	f.transactor.EXPECT().
		WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).
		AnyTimes()

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func (f fixture) service(now time.Time) service.Booking {
	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.ReferencePrefix = "PKG"
	cfg.Kafka.Topics.Booking = "package-bookings"

	otel := mocks.NewOtel()

	return service.New(
		f.bookings,
		f.packages,
		availability.New(f.windows, otel),
		f.offers,
		f.reservations,
		f.transactor,
		cfg,
		f.cache,
		otel,
		f.kafka,
		timezone.Fixed(now),
	)
}

type decimalMatcher struct {
	want decimal.Decimal
}

func decimalEq(value string) gomock.Matcher {
	return decimalMatcher{want: decimal.RequireFromString(value)}
}

func (m decimalMatcher) Matches(x any) bool {
	got, ok := x.(decimal.Decimal)

	return ok && got.Equal(m.want)
}

func (m decimalMatcher) String() string {
	return "is decimal " + m.want.String()
}

func intPtr(v int) *int {
	return &v
}

func datePtr(value string) *date.Date {
	d := date.MustParse(value)

	return &d
}

// romancePackage has a Valentine seasonal discount and an early-bird discount.
func romancePackage() stayModel.Package {
	return stayModel.Package{
		ID:          "pkg-1",
		Code:        "ROMANCE",
		BasePrice:   decimal.NewFromInt(100),
		Currency:    "USD",
		MinimumStay: 2,
		MaxGuests:   2,
		Status:      stayModel.StatusActive,
		PricingRules: []stayModel.PricingRule{
			{
				ID:              "rule-valentine",
				Type:            stayModel.RuleTypeSeasonal,
				Conditions:      stayModel.Conditions{DateFrom: datePtr("2025-02-10"), DateTo: datePtr("2025-02-20")},
				AdjustmentType:  stayModel.AdjustmentPercentage,
				AdjustmentValue: decimal.NewFromInt(15),
				IsActive:        true,
				Priority:        10,
			},
			{
				ID:              "rule-early-bird",
				Type:            stayModel.RuleTypeEarlyBird,
				Conditions:      stayModel.Conditions{BookingWindowDays: intPtr(30)},
				AdjustmentType:  stayModel.AdjustmentPercentage,
				AdjustmentValue: decimal.NewFromInt(10),
				IsActive:        true,
				Priority:        5,
				Position:        1,
			},
		},
		Availability: []stayModel.Availability{
			{
				ID:          "window-1",
				PackageID:   "pkg-1",
				DateFrom:    date.MustParse("2025-02-01"),
				DateTo:      date.MustParse("2025-03-31"),
				IsAvailable: true,
				MaxBookings: intPtr(10),
			},
		},
	}
}

func bookingRequest(checkIn, checkOut string) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		QuoteRequest: dto.QuoteRequest{CheckInDate: checkIn, CheckOutDate: checkOut, Guests: 2},
		GuestName:    "Ana Lima",
		GuestEmail:   "ana@example.com",
	}
}

var (
	valentineBookedAt = time.Date(2024, 12, 31, 9, 0, 0, 0, time.UTC) // 45 days before Feb 14
	marchBookedAt     = time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)  // 45 days before Mar 1
)

func TestBookingService_Create(t *testing.T) {
	t.Run("seasonal rule wins over early bird", func(t *testing.T) {
		f := newFixture(t)
		pkg := romancePackage()

		f.packages.EXPECT().GetAggregate(gomock.Any(), "pkg-1").Return(pkg, nil)
		f.windows.EXPECT().Reserve(gomock.Any(), "window-1").Return(true, nil)
		f.bookings.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, booking model.Booking) error {
				assert.Equal(t, model.StatusPending, booking.Status)
				assert.Equal(t, model.PaymentStatusUnpaid, booking.PaymentStatus)
				assert.Equal(t, 2, booking.Nights)
				assert.Equal(t, "system", booking.CreatedBy)
				assert.Equal(t, "window-1", booking.WindowID())
				require.NotNil(t, booking.AppliedRuleID)
				assert.Equal(t, "rule-valentine", *booking.AppliedRuleID)

				return nil
			})
		f.packages.EXPECT().RecordBooking(gomock.Any(), "pkg-1", decimalEq("170")).Return(nil)

		res, err := f.service(valentineBookedAt).Create(context.Background(), "pkg-1", bookingRequest("2025-02-14", "2025-02-16"))

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(170).Equal(res.Booking.TotalPrice))
		assert.Regexp(t, `^PKG-ROMANCE-[0-9A-F]{12}$`, res.Booking.BookingReference)
		require.NotNil(t, res.Booking.AvailabilityID)
		assert.Equal(t, "window-1", *res.Booking.AvailabilityID)
		assert.Empty(t, res.Warnings)
		assert.Empty(t, res.PartnerReservations)
	})

	t.Run("early bird applies outside the season", func(t *testing.T) {
		f := newFixture(t)

		f.packages.EXPECT().GetAggregate(gomock.Any(), "pkg-1").Return(romancePackage(), nil)
		f.windows.EXPECT().Reserve(gomock.Any(), "window-1").Return(true, nil)
		f.bookings.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		f.packages.EXPECT().RecordBooking(gomock.Any(), "pkg-1", decimalEq("180")).Return(nil)

		res, err := f.service(marchBookedAt).Create(context.Background(), "pkg-1", bookingRequest("2025-03-01", "2025-03-03"))

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(180).Equal(res.Booking.TotalPrice))
	})

	t.Run("full window is rejected and statistics stay unchanged", func(t *testing.T) {
		f := newFixture(t)
		pkg := romancePackage()
		pkg.Availability[0].MaxBookings = intPtr(1)
		pkg.Availability[0].CurrentBookings = 1

		f.packages.EXPECT().GetAggregate(gomock.Any(), "pkg-1").Return(pkg, nil)

		_, err := f.service(valentineBookedAt).Create(context.Background(), "pkg-1", bookingRequest("2025-02-14", "2025-02-16"))

		require.Error(t, err)
		assert.True(t, failure.IsCapacityExceeded(err))
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("window filled by a concurrent booking", func(t *testing.T) {
		f := newFixture(t)

		f.packages.EXPECT().GetAggregate(gomock.Any(), "pkg-1").Return(romancePackage(), nil)
		f.windows.EXPECT().Reserve(gomock.Any(), "window-1").Return(false, nil)

		_, err := f.service(valentineBookedAt).Create(context.Background(), "pkg-1", bookingRequest("2025-02-14", "2025-02-16"))

		assert.True(t, failure.IsCapacityExceeded(err))
	})

	t.Run("minimum stay is checked before pricing or reserving", func(t *testing.T) {
		f := newFixture(t)

		f.packages.EXPECT().GetAggregate(gomock.Any(), "pkg-1").Return(romancePackage(), nil)

		_, err := f.service(valentineBookedAt).Create(context.Background(), "pkg-1", bookingRequest("2025-02-14", "2025-02-15"))

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.Equal(t, stayModel.ReasonMinimumStayNotMet, failure.GetReason(err))
	})

	t.Run("missing partner offer becomes a warning", func(t *testing.T) {
		f := newFixture(t)
		pkg := romancePackage()
		pkg.PartnerOffers = []stayModel.PartnerOfferLink{
			{PartnerOfferID: "offer-spa", IncludedInPackage: true, AutoBook: true},
			{PartnerOfferID: "offer-deleted", IncludedInPackage: true, AutoBook: true},
			{PartnerOfferID: "offer-optional", IncludedInPackage: true, AutoBook: false},
		}

		f.packages.EXPECT().GetAggregate(gomock.Any(), "pkg-1").Return(pkg, nil)
		f.windows.EXPECT().Reserve(gomock.Any(), "window-1").Return(true, nil)
		f.bookings.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		f.packages.EXPECT().RecordBooking(gomock.Any(), "pkg-1", gomock.Any()).Return(nil)

		f.offers.EXPECT().Get(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup, _ ...string) (partnerModel.Offer, error) {
				_, args := filter.GetWhereClause()
				if args[partnerModel.FieldID] == "offer-spa" {
					return partnerModel.Offer{ID: "offer-spa", Price: decimal.NewFromInt(40), CapacityPerSlot: 1, IsActive: true}, nil
				}

				return partnerModel.Offer{}, nil
			}).
			Times(2)
		f.reservations.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, reservation partnerModel.Reservation) error {
				assert.Equal(t, 1, reservation.NumberOfPeople)
				assert.Equal(t, date.MustParse("2025-02-14"), reservation.ReservationDate)
				assert.Equal(t, partnerModel.ReservationStatusPending, reservation.Status)

				return nil
			})

		res, err := f.service(valentineBookedAt).Create(context.Background(), "pkg-1", bookingRequest("2025-02-14", "2025-02-16"))

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, res.Booking.Status)
		assert.True(t, model.CanTransition(res.Booking.Status, model.StatusConfirmed))
		require.Len(t, res.PartnerReservations, 1)
		assert.Equal(t, "offer-spa", res.PartnerReservations[0].PartnerOfferID)
		assert.Equal(t, []model.PartnerBookingWarning{
			{PartnerOfferID: "offer-deleted", Message: model.ErrOfferNotFound.Error()},
		}, res.Warnings)
	})

	t.Run("partner insert failure does not fail the booking", func(t *testing.T) {
		f := newFixture(t)
		pkg := romancePackage()
		pkg.PartnerOffers = []stayModel.PartnerOfferLink{
			{PartnerOfferID: "offer-spa", IncludedInPackage: true, AutoBook: true},
		}

		f.packages.EXPECT().GetAggregate(gomock.Any(), "pkg-1").Return(pkg, nil)
		f.windows.EXPECT().Reserve(gomock.Any(), "window-1").Return(true, nil)
		f.bookings.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		f.packages.EXPECT().RecordBooking(gomock.Any(), "pkg-1", gomock.Any()).Return(nil)
		f.offers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(partnerModel.Offer{ID: "offer-spa", IsActive: true}, nil)
		f.reservations.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		res, err := f.service(valentineBookedAt).Create(context.Background(), "pkg-1", bookingRequest("2025-02-14", "2025-02-16"))

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, "partner reservation could not be created", res.Warnings[0].Message)
	})

	t.Run("inactive package is not found", func(t *testing.T) {
		f := newFixture(t)
		pkg := romancePackage()
		pkg.Status = stayModel.StatusDraft

		f.packages.EXPECT().GetAggregate(gomock.Any(), "pkg-1").Return(pkg, nil)

		_, err := f.service(valentineBookedAt).Create(context.Background(), "pkg-1", bookingRequest("2025-02-14", "2025-02-16"))
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("stored booking failure rolls back", func(t *testing.T) {
		f := newFixture(t)

		f.packages.EXPECT().GetAggregate(gomock.Any(), "pkg-1").Return(romancePackage(), nil)
		f.windows.EXPECT().Reserve(gomock.Any(), "window-1").Return(true, nil)
		f.bookings.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		_, err := f.service(valentineBookedAt).Create(context.Background(), "pkg-1", bookingRequest("2025-02-14", "2025-02-16"))
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestBookingService_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreateBookingRequest
	}{
		{name: "check-out before check-in", req: bookingRequest("2025-02-16", "2025-02-14")},
		{name: "same day", req: bookingRequest("2025-02-14", "2025-02-14")},
		{name: "malformed date", req: bookingRequest("14/02/2025", "2025-02-16")},
		{name: "check-in in the past", req: bookingRequest("2024-12-01", "2024-12-03")},
		{
			name: "no guests",
			req: dto.CreateBookingRequest{
				QuoteRequest: dto.QuoteRequest{CheckInDate: "2025-02-14", CheckOutDate: "2025-02-16"},
				GuestName:    "Ana Lima",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.service(valentineBookedAt).Create(context.Background(), "pkg-1", tt.req)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestBookingService_Quote(t *testing.T) {
	t.Run("prices without reserving", func(t *testing.T) {
		f := newFixture(t)

		f.packages.EXPECT().GetAggregate(gomock.Any(), "pkg-1").Return(romancePackage(), nil)

		res, err := f.service(valentineBookedAt).Quote(context.Background(), "pkg-1", dto.QuoteRequest{
			CheckInDate:  "2025-02-14",
			CheckOutDate: "2025-02-16",
			Guests:       2,
		})

		require.NoError(t, err)
		assert.Equal(t, 2, res.Nights)
		assert.True(t, decimal.NewFromInt(200).Equal(res.BasePrice))
		assert.True(t, decimal.NewFromInt(170).Equal(res.TotalPrice))
		require.NotNil(t, res.AppliedRule)
		assert.Equal(t, "rule-valentine", res.AppliedRule.ID)
		require.NotNil(t, res.Occupancy)
		assert.True(t, decimal.NewFromInt(10).Equal(*res.Occupancy))
	})

	t.Run("too many guests", func(t *testing.T) {
		f := newFixture(t)

		f.packages.EXPECT().GetAggregate(gomock.Any(), "pkg-1").Return(romancePackage(), nil)

		_, err := f.service(valentineBookedAt).Quote(context.Background(), "pkg-1", dto.QuoteRequest{
			CheckInDate:  "2025-02-14",
			CheckOutDate: "2025-02-16",
			Guests:       5,
		})

		assert.Equal(t, stayModel.ReasonTooManyGuests, failure.GetReason(err))
	})
}

func storedBooking(status string) model.Booking {
	window := "window-1"

	return model.Booking{
		ID:             "booking-1",
		PackageID:      "pkg-1",
		AvailabilityID: &window,
		CheckInDate:    date.MustParse("2025-02-14"),
		CheckOutDate:   date.MustParse("2025-02-16"),
		GuestsCount:    2,
		TotalPrice:     decimal.NewFromInt(170),
		Status:         status,
	}
}

// overlappingPackage lists a closed window first, then the open window-1 and a later open window-2,
// all holding Feb 14-16.
func overlappingPackage() stayModel.Package {
	pkg := romancePackage()
	pkg.Availability = append([]stayModel.Availability{
		{
			ID:              "window-closed",
			PackageID:       "pkg-1",
			DateFrom:        date.MustParse("2025-01-15"),
			DateTo:          date.MustParse("2025-02-28"),
			IsAvailable:     false,
			MaxBookings:     intPtr(10),
			CurrentBookings: 4,
		},
	}, pkg.Availability...)
	pkg.Availability = append(pkg.Availability, stayModel.Availability{
		ID:          "window-2",
		PackageID:   "pkg-1",
		DateFrom:    date.MustParse("2025-02-10"),
		DateTo:      date.MustParse("2025-02-20"),
		IsAvailable: true,
		MaxBookings: intPtr(10),
	})

	return pkg
}

func TestBookingService_Cancel(t *testing.T) {
	t.Run("releases capacity and statistics once", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(model.StatusConfirmed), nil)
		f.packages.EXPECT().GetAggregate(gomock.Any(), "pkg-1").Return(romancePackage(), nil)
		f.bookings.EXPECT().Transition(gomock.Any(), "booking-1", model.Cancellable(), gomock.Any()).Return(true, nil)
		f.windows.EXPECT().Release(gomock.Any(), "window-1").Return(nil)
		f.packages.EXPECT().RevertBooking(gomock.Any(), "pkg-1", decimalEq("170")).Return(nil)
		f.reservations.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.service(valentineBookedAt).Cancel(context.Background(), "booking-1")

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, res.Status)
		require.NotNil(t, res.CancelledAt)
		assert.Equal(t, valentineBookedAt, *res.CancelledAt)
	})

	t.Run("releases the window the booking reserved", func(t *testing.T) {
		f := newFixture(t)
		pkg := overlappingPackage()
		booking := storedBooking(model.StatusPending)
		window := "window-2"
		booking.AvailabilityID = &window

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		f.packages.EXPECT().GetAggregate(gomock.Any(), "pkg-1").Return(pkg, nil)
		f.bookings.EXPECT().Transition(gomock.Any(), "booking-1", model.Cancellable(), gomock.Any()).Return(true, nil)
		f.windows.EXPECT().Release(gomock.Any(), "window-2").Return(nil)
		f.packages.EXPECT().RevertBooking(gomock.Any(), "pkg-1", gomock.Any()).Return(nil)
		f.reservations.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.service(valentineBookedAt).Cancel(context.Background(), "booking-1")

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
	})

	t.Run("booking without a recorded window releases the open window holding it", func(t *testing.T) {
		f := newFixture(t)
		booking := storedBooking(model.StatusPending)
		booking.AvailabilityID = nil

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		f.packages.EXPECT().GetAggregate(gomock.Any(), "pkg-1").Return(overlappingPackage(), nil)
		f.bookings.EXPECT().Transition(gomock.Any(), "booking-1", model.Cancellable(), gomock.Any()).Return(true, nil)
		f.windows.EXPECT().Release(gomock.Any(), "window-1").Return(nil)
		f.packages.EXPECT().RevertBooking(gomock.Any(), "pkg-1", gomock.Any()).Return(nil)
		f.reservations.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.service(valentineBookedAt).Cancel(context.Background(), "booking-1")

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
	})

	t.Run("cancelling twice is a no-op", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(model.StatusCancelled), nil)

		res, err := f.service(valentineBookedAt).Cancel(context.Background(), "booking-1")

		require.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, res.Status)
	})

	t.Run("concurrent cancel already released", func(t *testing.T) {
		f := newFixture(t)

		gomock.InOrder(
			f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(model.StatusPending), nil),
			f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(model.StatusCancelled), nil),
		)
		f.packages.EXPECT().GetAggregate(gomock.Any(), "pkg-1").Return(romancePackage(), nil)
		f.bookings.EXPECT().Transition(gomock.Any(), "booking-1", gomock.Any(), gomock.Any()).Return(false, nil)

		res, err := f.service(valentineBookedAt).Cancel(context.Background(), "booking-1")

		require.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, res.Status)
	})

	t.Run("completed booking", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(model.StatusCompleted), nil)

		_, err := f.service(valentineBookedAt).Cancel(context.Background(), "booking-1")
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.service(valentineBookedAt).Cancel(context.Background(), "missing")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name       string
		stored     string
		req        dto.UpdateStatusRequest
		setupMock  func(f fixture)
		wantStatus string
		wantCode   int
	}{
		{
			name:   "confirm a pending booking",
			stored: model.StatusPending,
			req:    dto.UpdateStatusRequest{Status: model.StatusConfirmed, PaymentStatus: model.PaymentStatusPaid},
			setupMock: func(f fixture) {
				f.bookings.EXPECT().Transition(gomock.Any(), "booking-1", []string{model.StatusPending}, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, _ []string, fields map[string]any) (bool, error) {
						assert.Equal(t, model.StatusConfirmed, fields[model.FieldStatus])
						assert.Equal(t, model.PaymentStatusPaid, fields[model.FieldPaymentStatus])
						assert.Equal(t, "system", fields[constant.FieldModifiedBy])

						return true, nil
					})
			},
			wantStatus: model.StatusConfirmed,
		},
		{
			name:       "complete a pending booking",
			stored:     model.StatusPending,
			req:        dto.UpdateStatusRequest{Status: model.StatusCompleted},
			setupMock:  func(fixture) {},
			wantCode:   http.StatusConflict,
			wantStatus: model.StatusPending,
		},
		{
			name:   "status changed concurrently",
			stored: model.StatusConfirmed,
			req:    dto.UpdateStatusRequest{Status: model.StatusCompleted},
			setupMock: func(f fixture) {
				f.bookings.EXPECT().Transition(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:   "payment only",
			stored: model.StatusConfirmed,
			req:    dto.UpdateStatusRequest{PaymentStatus: model.PaymentStatusPartial},
			setupMock: func(f fixture) {
				f.bookings.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: model.StatusConfirmed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(tt.stored), nil)
			tt.setupMock(f)

			res, err := f.service(valentineBookedAt).UpdateStatus(context.Background(), "booking-1", tt.req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
		})
	}

	t.Run("records the signed-in user", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-7")

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(model.StatusConfirmed), nil)
		f.bookings.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "staff-7", fields[constant.FieldModifiedBy])

				return nil
			})

		res, err := f.service(valentineBookedAt).UpdateStatus(ctx, "booking-1", dto.UpdateStatusRequest{PaymentStatus: model.PaymentStatusPaid})

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, "staff-7", res.ModifiedBy)
	})

	t.Run("nothing to update", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service(valentineBookedAt).UpdateStatus(context.Background(), "booking-1", dto.UpdateStatusRequest{})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestBookingService_Get(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), "booking:get:booking-1", gomock.Any()).Return(errors.New("cache miss"))
	f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(model.StatusPending), nil)

	res, err := f.service(valentineBookedAt).Get(context.Background(), "booking-1")

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, "booking-1", res.ID)
	assert.Equal(t, "2025-02-14", res.CheckInDate.String())
}

func TestBookingService_GetAll(t *testing.T) {
	f := newFixture(t)

	params := gDto.QueryParams{Page: 1, Limit: 10}

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
	f.bookings.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.bookings.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.Booking{storedBooking(model.StatusPending)}, nil)

	res, err := f.service(valentineBookedAt).GetAll(context.Background(), params, gDto.FilterGroup{})

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.Bookings, 1)
}
