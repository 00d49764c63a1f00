package service

import (
	"context"
	goerrors "errors"
	"reflect"
	"testing"
	"time"

	"bookwise/core/cache"
	"bookwise/core/errors"
	calendardto "bookwise/modules/calendar/dto"
	orgentity "bookwise/modules/organization/entity"
	personentity "bookwise/modules/person/entity"

	"github.com/google/uuid"
)

type fakeOrgSource struct {
	org *orgentity.Organization
}

func (f *fakeOrgSource) GetBySlug(_ context.Context, slug string) (*orgentity.Organization, *errors.AppError) {
	if f.org == nil || f.org.Slug != slug {
		return nil, errors.NewAppError(errors.ErrNotFound, "organization not found", nil)
	}
	return f.org, nil
}

type fakePersonSource struct {
	persons []personentity.Person
}

func (f *fakePersonSource) ListActiveByOrganization(_ context.Context, orgID uuid.UUID) ([]personentity.Person, error) {
	var active []personentity.Person
	for _, p := range f.persons {
		if p.OrganizationID == orgID && p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

func (f *fakePersonSource) GetByID(_ context.Context, id uuid.UUID) (*personentity.Person, error) {
	for i := range f.persons {
		if f.persons[i].ID == id {
			return &f.persons[i], nil
		}
	}
	return nil, nil
}

type fakeRuleSource struct {
	rules []personentity.AvailabilityRule
}

func (f *fakeRuleSource) ListActiveByPersons(_ context.Context, personIDs []uuid.UUID) ([]personentity.AvailabilityRule, error) {
	wanted := make(map[uuid.UUID]bool, len(personIDs))
	for _, id := range personIDs {
		wanted[id] = true
	}
	var out []personentity.AvailabilityRule
	for _, r := range f.rules {
		if wanted[r.PersonID] && r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeBookingSource struct {
	busy   map[uuid.UUID][]BusyInterval
	counts map[uuid.UUID]map[string]int
	calls  int
}

func (f *fakeBookingSource) ConfirmedBusy(_ context.Context, personIDs []uuid.UUID, _, _ time.Time) (map[uuid.UUID][]BusyInterval, error) {
	f.calls++
	return f.busy, nil
}

func (f *fakeBookingSource) ConfirmedCountsByDate(_ context.Context, _ []uuid.UUID, _, _ time.Time) (map[uuid.UUID]map[string]int, error) {
	return f.counts, nil
}

type fakeCalendarSource struct {
	windows map[uuid.UUID][]calendardto.BusyWindow
	err     error
}

func (f *fakeCalendarSource) BusyWindows(_ context.Context, _ []uuid.UUID, _, _ time.Time) (map[uuid.UUID][]calendardto.BusyWindow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.windows, nil
}

func newTestService(t *testing.T, orgs *fakeOrgSource, persons *fakePersonSource,
	rules *fakeRuleSource, bookings *fakeBookingSource, calendars *fakeCalendarSource,
	now time.Time) *availabilityService {
	t.Helper()
	c := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { c.Close() })
	return &availabilityService{
		orgs:    orgs,
		persons: persons,
		rules:   rules,
		busy:    newBusyAggregator(bookings, calendars, c),
		now:     func() time.Time { return now },
	}
}

func testOrg(slug string, buffer int) *orgentity.Organization {
	org := &orgentity.Organization{
		Name:                slug,
		Slug:                slug,
		SlotDurationMinutes: 30,
		BufferMinutes:       buffer,
		AdvanceWindowDays:   30,
	}
	org.ID = uuid.New()
	return org
}

func testPerson(orgID uuid.UUID) personentity.Person {
	p := personentity.Person{
		OrganizationID: orgID,
		DisplayName:    "p",
		Email:          "p@example.com",
		IsActive:       true,
	}
	p.ID = uuid.New()
	return p
}

func TestComputeSlotsMergesPersonsSorted(t *testing.T) {
	org := testOrg("acme", 0)
	alice := testPerson(org.ID)
	bob := testPerson(org.ID)

	now := utc(2026, time.March, 1, 12, 0)
	from := utc(2026, time.March, 2, 0, 0)
	to := utc(2026, time.March, 3, 0, 0)

	svc := newTestService(t,
		&fakeOrgSource{org: org},
		&fakePersonSource{persons: []personentity.Person{alice, bob}},
		&fakeRuleSource{rules: []personentity.AvailabilityRule{
			rule(alice.ID, 1, "09:00", "10:00"),
			rule(bob.ID, 1, "09:30", "10:30"),
		}},
		&fakeBookingSource{busy: map[uuid.UUID][]BusyInterval{
			bob.ID: {{Start: utc(2026, time.March, 2, 10, 0), End: utc(2026, time.March, 2, 10, 30)}},
		}},
		&fakeCalendarSource{},
		now)

	got, appErr := svc.ComputeSlots(context.Background(), "acme", from, to, 0)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	// Alice: 09:00, 09:30. Bob: 09:30 (10:00 is booked).
	if len(got) != 3 {
		t.Fatalf("got %d slots, want 3: %v", len(got), got)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Start.Before(got[i-1].Start) {
			t.Errorf("slots not sorted by start: %v before %v", got[i].Start, got[i-1].Start)
		}
	}
	// Shared start time keeps person order: alice listed before bob at 09:30.
	if got[1].PersonID != alice.ID || got[2].PersonID != bob.ID {
		t.Errorf("tie at 09:30 should list alice before bob, got %v then %v", got[1].PersonID, got[2].PersonID)
	}
}

func TestComputeSlotsIsIdempotent(t *testing.T) {
	org := testOrg("acme", 0)
	alice := testPerson(org.ID)

	now := utc(2026, time.March, 1, 12, 0)
	from := utc(2026, time.March, 2, 0, 0)
	to := utc(2026, time.March, 3, 0, 0)

	bookings := &fakeBookingSource{busy: map[uuid.UUID][]BusyInterval{}}
	svc := newTestService(t,
		&fakeOrgSource{org: org},
		&fakePersonSource{persons: []personentity.Person{alice}},
		&fakeRuleSource{rules: []personentity.AvailabilityRule{rule(alice.ID, 1, "09:00", "11:00")}},
		bookings,
		&fakeCalendarSource{},
		now)

	first, appErr := svc.ComputeSlots(context.Background(), "acme", from, to, 0)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	second, appErr := svc.ComputeSlots(context.Background(), "acme", from, to, 0)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated query differs:\nfirst:  %v\nsecond: %v", first, second)
	}
	if bookings.calls != 1 {
		t.Errorf("second query should hit the busy cache, got %d source calls", bookings.calls)
	}
}

func TestComputeSlotsDegradesWhenCalendarFails(t *testing.T) {
	org := testOrg("acme", 0)
	alice := testPerson(org.ID)

	now := utc(2026, time.March, 1, 12, 0)
	from := utc(2026, time.March, 2, 0, 0)
	to := utc(2026, time.March, 3, 0, 0)

	svc := newTestService(t,
		&fakeOrgSource{org: org},
		&fakePersonSource{persons: []personentity.Person{alice}},
		&fakeRuleSource{rules: []personentity.AvailabilityRule{rule(alice.ID, 1, "09:00", "10:00")}},
		&fakeBookingSource{busy: map[uuid.UUID][]BusyInterval{}},
		&fakeCalendarSource{err: goerrors.New("provider down")},
		now)

	got, appErr := svc.ComputeSlots(context.Background(), "acme", from, to, 0)
	if appErr != nil {
		t.Fatalf("calendar failure must not fail the query: %v", appErr)
	}
	if len(got) != 2 {
		t.Errorf("got %d slots, want 2 (external busy treated as empty)", len(got))
	}
}

func TestComputeSlotsAppliesExternalBusyAndBuffer(t *testing.T) {
	org := testOrg("acme", 15)
	alice := testPerson(org.ID)

	now := utc(2026, time.March, 1, 12, 0)
	from := utc(2026, time.March, 2, 0, 0)
	to := utc(2026, time.March, 3, 0, 0)

	svc := newTestService(t,
		&fakeOrgSource{org: org},
		&fakePersonSource{persons: []personentity.Person{alice}},
		&fakeRuleSource{rules: []personentity.AvailabilityRule{rule(alice.ID, 1, "09:00", "10:00")}},
		&fakeBookingSource{busy: map[uuid.UUID][]BusyInterval{}},
		&fakeCalendarSource{windows: map[uuid.UUID][]calendardto.BusyWindow{
			alice.ID: {{Start: utc(2026, time.March, 2, 10, 0), End: utc(2026, time.March, 2, 11, 0)}},
		}},
		now)

	got, appErr := svc.ComputeSlots(context.Background(), "acme", from, to, 0)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	// The 09:30 slot padded by 15 minutes reaches into the 10:00 meeting;
	// only 09:00 survives.
	if len(got) != 1 || !got[0].Start.Equal(utc(2026, time.March, 2, 9, 0)) {
		t.Errorf("want single 09:00 slot, got %v", got)
	}
}

// A query whose from and to fall on the same day covers that whole day.
func TestComputeSlotsSingleDayWindow(t *testing.T) {
	org := testOrg("acme", 0)
	alice := testPerson(org.ID)

	now := utc(2026, time.March, 1, 12, 0)
	day := utc(2026, time.March, 2, 0, 0)

	svc := newTestService(t,
		&fakeOrgSource{org: org},
		&fakePersonSource{persons: []personentity.Person{alice}},
		&fakeRuleSource{rules: []personentity.AvailabilityRule{rule(alice.ID, 1, "09:00", "10:00")}},
		&fakeBookingSource{busy: map[uuid.UUID][]BusyInterval{}},
		&fakeCalendarSource{},
		now)

	got, appErr := svc.ComputeSlots(context.Background(), "acme", day, day, 0)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if len(got) != 2 {
		t.Fatalf("got %d slots, want 2 on the queried Monday: %v", len(got), got)
	}
	if !got[0].Start.Equal(utc(2026, time.March, 2, 9, 0)) || !got[1].Start.Equal(utc(2026, time.March, 2, 9, 30)) {
		t.Errorf("unexpected slots: %v", got)
	}
}

func TestComputeSlotsAttributesPersons(t *testing.T) {
	org := testOrg("acme", 0)
	alice := testPerson(org.ID)
	alice.DisplayName = "Alice Ng"
	alice.Email = "alice@acme.test"
	bob := testPerson(org.ID)
	bob.DisplayName = "Bob Reyes"
	bob.Email = "bob@acme.test"

	now := utc(2026, time.March, 1, 12, 0)
	from := utc(2026, time.March, 2, 0, 0)

	svc := newTestService(t,
		&fakeOrgSource{org: org},
		&fakePersonSource{persons: []personentity.Person{alice, bob}},
		&fakeRuleSource{rules: []personentity.AvailabilityRule{
			rule(alice.ID, 1, "09:00", "09:30"),
			rule(bob.ID, 1, "11:00", "11:30"),
		}},
		&fakeBookingSource{busy: map[uuid.UUID][]BusyInterval{}},
		&fakeCalendarSource{},
		now)

	got, appErr := svc.ComputeSlots(context.Background(), "acme", from, from, 0)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if len(got) != 2 {
		t.Fatalf("got %d slots, want 2: %v", len(got), got)
	}

	byID := map[uuid.UUID]personentity.Person{alice.ID: alice, bob.ID: bob}
	for _, s := range got {
		owner := byID[s.PersonID]
		if s.PersonDisplayName != owner.DisplayName {
			t.Errorf("slot %v: display name %q, want %q", s.Start, s.PersonDisplayName, owner.DisplayName)
		}
		if s.PersonEmail != owner.Email {
			t.Errorf("slot %v: email %q, want %q", s.Start, s.PersonEmail, owner.Email)
		}
	}
}

func TestComputeAvailableDates(t *testing.T) {
	org := testOrg("acme", 0)
	alice := testPerson(org.ID)

	// Alice works Mondays 09:00-10:00: capacity two slots per Monday.
	now := utc(2026, time.March, 1, 12, 0)
	from := utc(2026, time.March, 1, 0, 0)
	to := utc(2026, time.March, 10, 0, 0)

	svc := newTestService(t,
		&fakeOrgSource{org: org},
		&fakePersonSource{persons: []personentity.Person{alice}},
		&fakeRuleSource{rules: []personentity.AvailabilityRule{rule(alice.ID, 1, "09:00", "10:00")}},
		&fakeBookingSource{counts: map[uuid.UUID]map[string]int{
			alice.ID: {"2026-03-02": 2}, // first Monday fully booked
		}},
		&fakeCalendarSource{},
		now)

	got, appErr := svc.ComputeAvailableDates(context.Background(), "acme", from, to, 0)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}

	want := []string{"2026-03-09"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// An explicit duration changes the per-weekday capacity the heuristic
// compares against.
func TestComputeAvailableDatesHonorsRequestedDuration(t *testing.T) {
	org := testOrg("acme", 0)
	alice := testPerson(org.ID)

	now := utc(2026, time.March, 1, 12, 0)
	from := utc(2026, time.March, 1, 0, 0)
	to := utc(2026, time.March, 10, 0, 0)

	svc := newTestService(t,
		&fakeOrgSource{org: org},
		&fakePersonSource{persons: []personentity.Person{alice}},
		&fakeRuleSource{rules: []personentity.AvailabilityRule{rule(alice.ID, 1, "09:00", "10:00")}},
		&fakeBookingSource{counts: map[uuid.UUID]map[string]int{
			alice.ID: {"2026-03-02": 1},
		}},
		&fakeCalendarSource{},
		now)

	// At 60 minutes the hour-long rule holds a single slot, so one booking
	// fills the first Monday; at the 30-minute org default it would not.
	got, appErr := svc.ComputeAvailableDates(context.Background(), "acme", from, to, 60)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	want := []string{"2026-03-09"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("duration 60: got %v, want %v", got, want)
	}

	got, appErr = svc.ComputeAvailableDates(context.Background(), "acme", from, to, 0)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	want = []string{"2026-03-02", "2026-03-09"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("default duration: got %v, want %v", got, want)
	}
}

func TestIsSlotAvailable(t *testing.T) {
	org := testOrg("acme", 0)
	alice := testPerson(org.ID)
	now := utc(2026, time.March, 1, 12, 0)

	bookings := &fakeBookingSource{busy: map[uuid.UUID][]BusyInterval{
		alice.ID: {{Start: utc(2026, time.March, 2, 9, 30), End: utc(2026, time.March, 2, 10, 0)}},
	}}
	svc := newTestService(t,
		&fakeOrgSource{org: org},
		&fakePersonSource{persons: []personentity.Person{alice}},
		&fakeRuleSource{rules: []personentity.AvailabilityRule{rule(alice.ID, 1, "09:00", "10:00")}},
		bookings,
		&fakeCalendarSource{},
		now)

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"open slot", utc(2026, time.March, 2, 9, 0), utc(2026, time.March, 2, 9, 30), true},
		{"booked slot", utc(2026, time.March, 2, 9, 30), utc(2026, time.March, 2, 10, 0), false},
		{"misaligned start", utc(2026, time.March, 2, 9, 10), utc(2026, time.March, 2, 9, 40), false},
		{"outside rules", utc(2026, time.March, 2, 14, 0), utc(2026, time.March, 2, 14, 30), false},
		{"wrong weekday", utc(2026, time.March, 3, 9, 0), utc(2026, time.March, 3, 9, 30), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, appErr := svc.IsSlotAvailable(context.Background(), alice.ID, tt.start, tt.end, org.BufferMinutes)
			if appErr != nil {
				t.Fatalf("unexpected error: %v", appErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("inactive person", func(t *testing.T) {
		svc2 := newTestService(t,
			&fakeOrgSource{org: org},
			&fakePersonSource{persons: nil},
			&fakeRuleSource{},
			&fakeBookingSource{},
			&fakeCalendarSource{},
			now)
		got, appErr := svc2.IsSlotAvailable(context.Background(), alice.ID,
			utc(2026, time.March, 2, 9, 0), utc(2026, time.March, 2, 9, 30), 0)
		if appErr != nil {
			t.Fatalf("unexpected error: %v", appErr)
		}
		if got {
			t.Error("unknown person must not be bookable")
		}
	})
}
