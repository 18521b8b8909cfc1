package availability_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"lodge/infras/otel/mocks"
	"lodge/internal/domains/stay/availability"
	stayMocks "lodge/internal/domains/stay/mocks"
	"lodge/internal/domains/stay/model"
	"lodge/shared/date"
	"lodge/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// memoryWindows guards each window counter the way the conditional UPDATE does.
type memoryWindows struct {
	mu      sync.Mutex
	windows map[string]*model.Availability
}

func newMemoryWindows(windows ...model.Availability) *memoryWindows {
	windows = slices.Clone(windows)
	store := &memoryWindows{windows: map[string]*model.Availability{}}

	for i := range windows {
		store.windows[windows[i].ID] = &windows[i]
	}

	return store
}

func (m *memoryWindows) Reserve(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	window, ok := m.windows[id]
	if !ok || !window.IsAvailable || !window.HasCapacity() {
		return false, nil
	}

	window.CurrentBookings++

	return true, nil
}

func (m *memoryWindows) Release(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if window, ok := m.windows[id]; ok {
		*window = window.Released()
	}

	return nil
}

func (m *memoryWindows) current(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.windows[id].CurrentBookings
}

func intPtr(v int) *int {
	return &v
}

func februaryPackage() model.Package {
	return model.Package{
		ID:          "pkg-1",
		MinimumStay: 2,
		MaximumStay: intPtr(7),
		MaxGuests:   4,
		Status:      model.StatusActive,
		Availability: []model.Availability{
			{
				ID:            "window-feb",
				DateFrom:      date.MustParse("2025-02-01"),
				DateTo:        date.MustParse("2025-02-28"),
				IsAvailable:   true,
				MaxBookings:   intPtr(3),
				BlackoutDates: date.List{date.MustParse("2025-02-20")},
			},
			{
				ID:          "window-mar-closed",
				DateFrom:    date.MustParse("2025-03-01"),
				DateTo:      date.MustParse("2025-03-31"),
				IsAvailable: false,
			},
			{
				ID:          "window-jan",
				DateFrom:    date.MustParse("2025-01-01"),
				DateTo:      date.MustParse("2025-01-31"),
				IsAvailable: true,
				MinimumStay: intPtr(3),
				MaximumStay: intPtr(4),
			},
		},
	}
}

func stay(checkIn string, nights, guests int) model.Stay {
	in := date.MustParse(checkIn)

	return model.Stay{CheckIn: in, CheckOut: in.AddDays(nights), Guests: guests}
}

func TestCheck(t *testing.T) {
	full := februaryPackage()
	full.Availability[0].CurrentBookings = 3

	tests := []struct {
		name       string
		pkg        model.Package
		stay       model.Stay
		wantWindow string
		wantReason string
	}{
		{name: "eligible", pkg: februaryPackage(), stay: stay("2025-02-10", 2, 2), wantWindow: "window-feb"},
		{name: "too many guests first", pkg: februaryPackage(), stay: stay("2025-02-10", 1, 9), wantReason: model.ReasonTooManyGuests},
		{name: "minimum stay", pkg: februaryPackage(), stay: stay("2025-02-10", 1, 2), wantReason: model.ReasonMinimumStayNotMet},
		{name: "maximum stay", pkg: februaryPackage(), stay: stay("2025-02-01", 8, 2), wantReason: model.ReasonMaximumStayExceeded},
		{name: "outside every window", pkg: februaryPackage(), stay: stay("2025-04-10", 2, 2), wantReason: model.ReasonNotAvailable},
		{name: "closed window", pkg: februaryPackage(), stay: stay("2025-03-10", 2, 2), wantReason: model.ReasonNotAvailable},
		{name: "spans two windows", pkg: februaryPackage(), stay: stay("2025-02-27", 3, 2), wantReason: model.ReasonNotAvailable},
		{name: "window minimum stay", pkg: februaryPackage(), stay: stay("2025-01-10", 2, 2), wantReason: model.ReasonMinimumStayNotMet},
		{name: "window maximum stay", pkg: februaryPackage(), stay: stay("2025-01-10", 5, 2), wantReason: model.ReasonMaximumStayExceeded},
		{name: "blackout night", pkg: februaryPackage(), stay: stay("2025-02-19", 2, 2), wantReason: model.ReasonBlackoutDate},
		{name: "blackout on check-out day is free", pkg: februaryPackage(), stay: stay("2025-02-18", 2, 2), wantWindow: "window-feb"},
		{name: "sold out", pkg: full, stay: stay("2025-02-10", 2, 2), wantReason: failure.ReasonCapacityExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window, err := availability.Check(tt.pkg, tt.stay)

			if tt.wantReason != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantReason, failure.GetReason(err))
				assert.Equal(t, tt.wantReason == failure.ReasonCapacityExceeded, failure.IsCapacityExceeded(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantWindow, window.ID)
		})
	}
}

func TestCheck_OverlappingWindows(t *testing.T) {
	overlapping := func(earliestCurrent int, earliestBlackout date.List) model.Package {
		return model.Package{
			ID:        "pkg-1",
			MaxGuests: 4,
			Status:    model.StatusActive,
			Availability: []model.Availability{
				{
					ID:          "window-late",
					DateFrom:    date.MustParse("2025-06-05"),
					DateTo:      date.MustParse("2025-06-30"),
					IsAvailable: true,
					MaxBookings: intPtr(2),
				},
				{
					ID:              "window-early",
					DateFrom:        date.MustParse("2025-06-01"),
					DateTo:          date.MustParse("2025-06-30"),
					IsAvailable:     true,
					MaxBookings:     intPtr(1),
					CurrentBookings: earliestCurrent,
					BlackoutDates:   earliestBlackout,
				},
			},
		}
	}

	soldOut := overlapping(1, nil)
	soldOut.Availability[0].CurrentBookings = 2

	tests := []struct {
		name       string
		pkg        model.Package
		wantWindow string
		wantReason string
	}{
		{name: "earliest window with room", pkg: overlapping(0, nil), wantWindow: "window-early"},
		{name: "earliest window full", pkg: overlapping(1, nil), wantWindow: "window-late"},
		{name: "earliest window blacked out", pkg: overlapping(0, date.List{date.MustParse("2025-06-10")}), wantWindow: "window-late"},
		{name: "every window full", pkg: soldOut, wantWindow: "window-early", wantReason: failure.ReasonCapacityExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window, err := availability.Check(tt.pkg, stay("2025-06-10", 2, 2))

			assert.Equal(t, tt.wantWindow, window.ID)

			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, failure.GetReason(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestCheck_InvalidRange(t *testing.T) {
	_, err := availability.Check(februaryPackage(), stay("2025-02-10", 0, 2))
	assert.ErrorIs(t, err, model.ErrInvalidRange)
}

func TestContaining_PicksEarliestWindow(t *testing.T) {
	windows := []model.Availability{
		{ID: "late", DateFrom: date.MustParse("2025-06-05"), DateTo: date.MustParse("2025-06-30")},
		{ID: "early", DateFrom: date.MustParse("2025-06-01"), DateTo: date.MustParse("2025-06-30")},
	}

	window, ok := availability.Containing(windows, date.MustParse("2025-06-10"), date.MustParse("2025-06-12"))
	require.True(t, ok)
	assert.Equal(t, "early", window.ID)
	assert.Equal(t, "late", windows[0].ID)
}

func TestTracker_Reserve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := stayMocks.NewMockAvailability(ctrl)
	tracker := availability.New(mockRepo, mocks.NewOtel())
	ctx := context.Background()

	t.Run("takes a slot", func(t *testing.T) {
		mockRepo.EXPECT().Reserve(gomock.Any(), "window-feb").Return(true, nil)

		window, err := tracker.Reserve(ctx, februaryPackage(), stay("2025-02-10", 2, 2))
		require.NoError(t, err)
		assert.Equal(t, 1, window.CurrentBookings)
	})

	t.Run("lost the last slot to another booking", func(t *testing.T) {
		mockRepo.EXPECT().Reserve(gomock.Any(), "window-feb").Return(false, nil)

		_, err := tracker.Reserve(ctx, februaryPackage(), stay("2025-02-10", 2, 2))
		assert.True(t, failure.IsCapacityExceeded(err))
	})

	t.Run("ineligible never touches the counter", func(t *testing.T) {
		_, err := tracker.Reserve(ctx, februaryPackage(), stay("2025-02-10", 1, 2))
		assert.Equal(t, model.ReasonMinimumStayNotMet, failure.GetReason(err))
	})

	t.Run("repository failure", func(t *testing.T) {
		mockRepo.EXPECT().Reserve(gomock.Any(), "window-feb").Return(false, errors.New("connection reset"))

		_, err := tracker.Reserve(ctx, februaryPackage(), stay("2025-02-10", 2, 2))
		require.Error(t, err)
		assert.Empty(t, failure.GetReason(err))
	})
}

func TestTracker_Release(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := stayMocks.NewMockAvailability(ctrl)
	tracker := availability.New(mockRepo, mocks.NewOtel())

	ctx := context.Background()

	t.Run("recorded window", func(t *testing.T) {
		mockRepo.EXPECT().Release(gomock.Any(), "window-jan").Return(nil)

		require.NoError(t, tracker.Release(ctx, februaryPackage(), "window-jan", date.MustParse("2025-02-10"), date.MustParse("2025-02-12")))
	})

	t.Run("no recorded window falls back to the stay dates", func(t *testing.T) {
		mockRepo.EXPECT().Release(gomock.Any(), "window-feb").Return(nil)

		require.NoError(t, tracker.Release(ctx, februaryPackage(), "", date.MustParse("2025-02-10"), date.MustParse("2025-02-12")))
	})

	t.Run("fallback skips closed windows", func(t *testing.T) {
		require.NoError(t, tracker.Release(ctx, februaryPackage(), "", date.MustParse("2025-03-10"), date.MustParse("2025-03-12")))
	})

	t.Run("no window holds the stay", func(t *testing.T) {
		require.NoError(t, tracker.Release(ctx, februaryPackage(), "", date.MustParse("2025-08-10"), date.MustParse("2025-08-12")))
	})

	t.Run("repository failure", func(t *testing.T) {
		mockRepo.EXPECT().Release(gomock.Any(), "window-feb").Return(errors.New("connection reset"))

		assert.Error(t, tracker.Release(ctx, februaryPackage(), "window-feb", date.MustParse("2025-02-10"), date.MustParse("2025-02-12")))
	})
}

func TestTracker_ConcurrentReserveNeverOversells(t *testing.T) {
	pkg := februaryPackage()
	store := newMemoryWindows(pkg.Availability...)
	tracker := availability.New(store, mocks.NewOtel())

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		soldOut   atomic.Int32
	)

	for range 25 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := tracker.Reserve(context.Background(), pkg, stay("2025-02-10", 2, 2))
			switch {
			case err == nil:
				succeeded.Add(1)
			case failure.IsCapacityExceeded(err):
				soldOut.Add(1)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(3), succeeded.Load())
	assert.Equal(t, int32(22), soldOut.Load())
	assert.Equal(t, 3, store.current("window-feb"))
}

func TestTracker_ReserveReleaseRoundTrip(t *testing.T) {
	pkg := februaryPackage()
	pkg.Availability[0].CurrentBookings = 1
	store := newMemoryWindows(pkg.Availability...)
	tracker := availability.New(store, mocks.NewOtel())
	ctx := context.Background()
	guest := stay("2025-02-10", 2, 2)

	window, err := tracker.Reserve(ctx, pkg, guest)
	require.NoError(t, err)
	assert.Equal(t, 2, store.current("window-feb"))

	require.NoError(t, tracker.Release(ctx, pkg, window.ID, guest.CheckIn, guest.CheckOut))
	assert.Equal(t, 1, store.current("window-feb"))

	require.NoError(t, tracker.Release(ctx, pkg, window.ID, guest.CheckIn, guest.CheckOut))
	require.NoError(t, tracker.Release(ctx, pkg, window.ID, guest.CheckIn, guest.CheckOut))
	assert.Equal(t, 0, store.current("window-feb"))
}

func TestTracker_ReleaseReturnsTheReservedWindow(t *testing.T) {
	pkg := model.Package{
		ID:        "pkg-1",
		MaxGuests: 4,
		Status:    model.StatusActive,
		Availability: []model.Availability{
			{
				ID:              "window-closed",
				DateFrom:        date.MustParse("2025-02-01"),
				DateTo:          date.MustParse("2025-02-28"),
				IsAvailable:     false,
				MaxBookings:     intPtr(5),
				CurrentBookings: 2,
			},
			{
				ID:          "window-open",
				DateFrom:    date.MustParse("2025-02-05"),
				DateTo:      date.MustParse("2025-02-20"),
				IsAvailable: true,
				MaxBookings: intPtr(5),
			},
		},
	}
	store := newMemoryWindows(pkg.Availability...)
	tracker := availability.New(store, mocks.NewOtel())
	ctx := context.Background()
	guest := stay("2025-02-10", 2, 2)

	window, err := tracker.Reserve(ctx, pkg, guest)
	require.NoError(t, err)
	assert.Equal(t, "window-open", window.ID)
	assert.Equal(t, 1, store.current("window-open"))
	assert.Equal(t, 2, store.current("window-closed"))

	require.NoError(t, tracker.Release(ctx, pkg, window.ID, guest.CheckIn, guest.CheckOut))
	assert.Equal(t, 0, store.current("window-open"))
	assert.Equal(t, 2, store.current("window-closed"))

	_, err = tracker.Reserve(ctx, pkg, guest)
	require.NoError(t, err)

	require.NoError(t, tracker.Release(ctx, pkg, "", guest.CheckIn, guest.CheckOut))
	assert.Equal(t, 0, store.current("window-open"))
	assert.Equal(t, 2, store.current("window-closed"))
}
