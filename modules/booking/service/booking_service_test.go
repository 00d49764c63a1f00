package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"bookwise/core/errors"
	"bookwise/modules/booking/dto"
	"bookwise/modules/booking/entity"
	"bookwise/modules/booking/repository"
	calendardto "bookwise/modules/calendar/dto"
	orgentity "bookwise/modules/organization/entity"
	personentity "bookwise/modules/person/entity"

	"github.com/google/uuid"
)

// fakeBookingRepo reproduces the guarded-insert semantics in memory: the
// mutex stands in for the person row lock, the overlap scan for the
// conflict re-check.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []*entity.Booking
}

func (f *fakeBookingRepo) CreateGuarded(_ context.Context, booking *entity.Booking) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.bookings {
		if existing.PersonID == booking.PersonID && existing.Status == entity.StatusConfirmed &&
			existing.StartTime.Before(booking.EndTime) && existing.EndTime.After(booking.StartTime) {
			return nil, repository.ErrSlotTaken
		}
	}
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	f.bookings = append(f.bookings, booking)
	return booking, nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) GetByReference(_ context.Context, reference string) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.Reference == reference {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) ListByOrganization(_ context.Context, orgID uuid.UUID, _, _ time.Time) ([]entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Booking
	for _, b := range f.bookings {
		if b.OrganizationID == orgID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListConfirmedOverlapping(_ context.Context, _ []uuid.UUID, _, _ time.Time) ([]entity.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) CountConfirmedPerPersonDate(_ context.Context, _ []uuid.UUID, _, _ time.Time) (map[uuid.UUID]map[string]int, error) {
	return nil, nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id uuid.UUID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id {
			b.Status = entity.StatusCancelled
			b.CancellationReason = &reason
		}
	}
	return nil
}

func (f *fakeBookingRepo) SetExternalEventID(_ context.Context, id uuid.UUID, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id {
			b.ExternalEventID = &eventID
		}
	}
	return nil
}

type fakeSlotChecker struct {
	available bool
}

func (f *fakeSlotChecker) IsSlotAvailable(_ context.Context, _ uuid.UUID, _, _ time.Time, _ int) (bool, *errors.AppError) {
	return f.available, nil
}

type fakePersonSource struct {
	person *personentity.Person
}

func (f *fakePersonSource) GetByID(_ context.Context, id uuid.UUID) (*personentity.Person, error) {
	if f.person != nil && f.person.ID == id {
		return f.person, nil
	}
	return nil, nil
}

type fakeOrgSource struct {
	org *orgentity.Organization
}

func (f *fakeOrgSource) GetByID(_ context.Context, id uuid.UUID) (*orgentity.Organization, error) {
	if f.org != nil && f.org.ID == id {
		return f.org, nil
	}
	return nil, nil
}

type fakeCalendarMirror struct {
	mu      sync.Mutex
	created int
	deleted []string
	fail    bool
}

func (f *fakeCalendarMirror) CreateEvent(_ context.Context, _ uuid.UUID, _ calendardto.CreateEventRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", context.DeadlineExceeded
	}
	f.created++
	return "evt-1", nil
}

func (f *fakeCalendarMirror) DeleteEvent(_ context.Context, _ uuid.UUID, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, eventID)
	return nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	confirmed int
	cancelled int
}

func (f *fakeNotifier) BookingConfirmed(_ context.Context, _ *entity.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed++
}

func (f *fakeNotifier) BookingCancelled(_ context.Context, _ *entity.Booking, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled++
}

type bookingFixture struct {
	svc      BookingService
	repo     *fakeBookingRepo
	mirror   *fakeCalendarMirror
	notifier *fakeNotifier
	person   *personentity.Person
}

func newBookingFixture(t *testing.T, slotAvailable bool) *bookingFixture {
	t.Helper()

	org := &orgentity.Organization{Name: "acme", Slug: "acme", SlotDurationMinutes: 30, AdvanceWindowDays: 30}
	org.ID = uuid.New()
	person := &personentity.Person{OrganizationID: org.ID, DisplayName: "alice", Email: "alice@example.com", IsActive: true}
	person.ID = uuid.New()

	repo := &fakeBookingRepo{}
	mirror := &fakeCalendarMirror{}
	notifier := &fakeNotifier{}
	svc := NewBookingService(repo, &fakeSlotChecker{available: slotAvailable},
		&fakePersonSource{person: person}, &fakeOrgSource{org: org}, mirror, notifier)

	return &bookingFixture{svc: svc, repo: repo, mirror: mirror, notifier: notifier, person: person}
}

func createRequest(personID uuid.UUID, start time.Time) *dto.CreateBookingRequest {
	return &dto.CreateBookingRequest{
		PersonID:     personID.String(),
		Start:        start,
		End:          start.Add(30 * time.Minute),
		VisitorName:  "Visitor",
		VisitorEmail: "visitor@example.com",
	}
}

func TestCreateBookingSuccess(t *testing.T) {
	fx := newBookingFixture(t, true)
	start := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	booking, appErr := fx.svc.Create(context.Background(), createRequest(fx.person.ID, start))
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if booking.Status != entity.StatusConfirmed {
		t.Errorf("status = %q, want confirmed", booking.Status)
	}
	if booking.Reference == "" {
		t.Error("booking should carry a reference")
	}
	if booking.ExternalEventID == nil || *booking.ExternalEventID != "evt-1" {
		t.Errorf("external event not mirrored: %v", booking.ExternalEventID)
	}
	if fx.notifier.confirmed != 1 {
		t.Errorf("confirmation notifications = %d, want 1", fx.notifier.confirmed)
	}
}

func TestCreateBookingRejectedWhenSlotUnavailable(t *testing.T) {
	fx := newBookingFixture(t, false)
	start := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	_, appErr := fx.svc.Create(context.Background(), createRequest(fx.person.ID, start))
	if appErr == nil {
		t.Fatal("expected conflict error")
	}
	if appErr.Code != errors.ErrConflict {
		t.Errorf("code = %v, want ErrConflict", appErr.Code)
	}
	if len(fx.repo.bookings) != 0 {
		t.Error("rejected booking must not be persisted")
	}
	if fx.notifier.confirmed != 0 {
		t.Error("rejected booking must not notify")
	}
}

func TestCreateBookingValidation(t *testing.T) {
	fx := newBookingFixture(t, true)
	start := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(*dto.CreateBookingRequest)
	}{
		{"bad person id", func(r *dto.CreateBookingRequest) { r.PersonID = "nope" }},
		{"missing name", func(r *dto.CreateBookingRequest) { r.VisitorName = "" }},
		{"bad email", func(r *dto.CreateBookingRequest) { r.VisitorEmail = "not-an-email" }},
		{"end before start", func(r *dto.CreateBookingRequest) { r.End = r.Start.Add(-time.Hour) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createRequest(fx.person.ID, start)
			tt.mutate(req)
			_, appErr := fx.svc.Create(context.Background(), req)
			if appErr == nil || appErr.Code != errors.ErrInvalidInput {
				t.Errorf("want ErrInvalidInput, got %v", appErr)
			}
		})
	}
}

// Two concurrent requests for the same slot: the guard must let exactly
// one through.
func TestConcurrentCreateCommitsAtMostOnce(t *testing.T) {
	fx := newBookingFixture(t, true)
	start := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	const attempts = 8
	results := make(chan *errors.AppError, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, appErr := fx.svc.Create(context.Background(), createRequest(fx.person.ID, start))
			results <- appErr
		}()
	}
	wg.Wait()
	close(results)

	var committed, conflicts int
	for appErr := range results {
		if appErr == nil {
			committed++
			continue
		}
		if appErr.Code != errors.ErrConflict {
			t.Errorf("unexpected error: %v", appErr)
			continue
		}
		conflicts++
	}
	if committed != 1 {
		t.Errorf("committed = %d, want exactly 1", committed)
	}
	if conflicts != attempts-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, attempts-1)
	}
	if len(fx.repo.bookings) != 1 {
		t.Errorf("persisted bookings = %d, want 1", len(fx.repo.bookings))
	}
}

func TestCreateBookingSurvivesCalendarFailure(t *testing.T) {
	fx := newBookingFixture(t, true)
	fx.mirror.fail = true
	start := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	booking, appErr := fx.svc.Create(context.Background(), createRequest(fx.person.ID, start))
	if appErr != nil {
		t.Fatalf("calendar failure must not fail the booking: %v", appErr)
	}
	if booking.ExternalEventID != nil {
		t.Error("failed mirror must leave external event unset")
	}
}

func TestCancelBooking(t *testing.T) {
	fx := newBookingFixture(t, true)
	start := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	booking, appErr := fx.svc.Create(context.Background(), createRequest(fx.person.ID, start))
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	cancelled, appErr := fx.svc.Cancel(context.Background(), booking.ID, "visitor request")
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if cancelled.Status != entity.StatusCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}
	if len(fx.mirror.deleted) != 1 || fx.mirror.deleted[0] != "evt-1" {
		t.Errorf("mirrored event not deleted: %v", fx.mirror.deleted)
	}
	if fx.notifier.cancelled != 1 {
		t.Errorf("cancellation notifications = %d, want 1", fx.notifier.cancelled)
	}

	// A cancelled slot is bookable again.
	if _, appErr := fx.svc.Create(context.Background(), createRequest(fx.person.ID, start)); appErr != nil {
		t.Errorf("slot freed by cancellation should be bookable: %v", appErr)
	}

	// Cancelling twice is rejected.
	if _, appErr := fx.svc.Cancel(context.Background(), booking.ID, "again"); appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Errorf("second cancel: want ErrInvalidInput, got %v", appErr)
	}
}

func TestCancelUnknownBooking(t *testing.T) {
	fx := newBookingFixture(t, true)
	_, appErr := fx.svc.Cancel(context.Background(), uuid.New(), "")
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Errorf("want ErrNotFound, got %v", appErr)
	}
}
