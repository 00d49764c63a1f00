package service

import (
	"context"
	goerrors "errors"
	"fmt"
	"time"

	"bookwise/core/errors"
	"bookwise/core/logger"
	"bookwise/core/utils"
	"bookwise/modules/booking/dto"
	"bookwise/modules/booking/entity"
	"bookwise/modules/booking/repository"
	calendardto "bookwise/modules/calendar/dto"
	orgentity "bookwise/modules/organization/entity"
	personentity "bookwise/modules/person/entity"

	"github.com/google/uuid"
)

// Narrow views of the neighbouring modules, swappable in tests.

type SlotChecker interface {
	IsSlotAvailable(ctx context.Context, personID uuid.UUID, start, end time.Time, bufferMinutes int) (bool, *errors.AppError)
}

type PersonSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*personentity.Person, error)
}

type OrganizationSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*orgentity.Organization, error)
}

type CalendarMirror interface {
	CreateEvent(ctx context.Context, personID uuid.UUID, req calendardto.CreateEventRequest) (string, error)
	DeleteEvent(ctx context.Context, personID uuid.UUID, eventID string) error
}

type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *entity.Booking)
	BookingCancelled(ctx context.Context, booking *entity.Booking, reason string)
}

type BookingService interface {
	// Create runs the reservation guard: re-validate the slot against
	// current rules and busy time, then commit under the database guard.
	// A slot lost to a concurrent booking comes back as a conflict error.
	Create(ctx context.Context, req *dto.CreateBookingRequest) (*entity.Booking, *errors.AppError)
	GetByReference(ctx context.Context, reference string) (*entity.Booking, *errors.AppError)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]entity.Booking, *errors.AppError)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*entity.Booking, *errors.AppError)
}

type bookingService struct {
	repo      repository.BookingRepository
	slots     SlotChecker
	persons   PersonSource
	orgs      OrganizationSource
	calendars CalendarMirror
	notifier  Notifier
}

func NewBookingService(repo repository.BookingRepository, slots SlotChecker,
	persons PersonSource, orgs OrganizationSource,
	calendars CalendarMirror, notifier Notifier) BookingService {
	return &bookingService{
		repo:      repo,
		slots:     slots,
		persons:   persons,
		orgs:      orgs,
		calendars: calendars,
		notifier:  notifier,
	}
}

func (s *bookingService) Create(ctx context.Context, req *dto.CreateBookingRequest) (*entity.Booking, *errors.AppError) {
	logger.Info("BookingService:Create:Start", "person_id", req.PersonID, "start", req.Start)

	personID, err := uuid.Parse(req.PersonID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid person_id", nil)
	}
	if req.VisitorName == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "visitor_name is required", nil)
	}
	if !utils.IsValidEmail(req.VisitorEmail) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "visitor_email is invalid", nil)
	}
	start, end := req.Start.UTC(), req.End.UTC()
	if !end.After(start) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end must be after start", nil)
	}

	person, err := s.persons.GetByID(ctx, personID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load person", err)
	}
	if person == nil || !person.IsActive {
		return nil, errors.NewAppError(errors.ErrNotFound, "person not found", nil)
	}

	org, err := s.orgs.GetByID(ctx, person.OrganizationID)
	if err != nil || org == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load organization", err)
	}

	available, appErr := s.slots.IsSlotAvailable(ctx, personID, start, end, org.BufferMinutes)
	if appErr != nil {
		return nil, appErr
	}
	if !available {
		return nil, errors.NewAppError(errors.ErrConflict, "slot is no longer available", nil)
	}

	booking := &entity.Booking{
		Reference:      utils.GenerateID(),
		PersonID:       personID,
		OrganizationID: person.OrganizationID,
		StartTime:      start,
		EndTime:        end,
		Status:         entity.StatusConfirmed,
		VisitorName:    req.VisitorName,
		VisitorEmail:   req.VisitorEmail,
		VisitorNotes:   req.VisitorNotes,
	}

	created, err := s.repo.CreateGuarded(ctx, booking)
	if err != nil {
		if goerrors.Is(err, repository.ErrSlotTaken) {
			return nil, errors.NewAppError(errors.ErrConflict, "slot was just booked by someone else", err)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create booking", err)
	}

	s.mirrorEvent(ctx, created, person)
	s.notifier.BookingConfirmed(ctx, created)

	logger.Info("BookingService:Create:Success", "booking_id", created.ID, "reference", created.Reference)
	return created, nil
}

// mirrorEvent pushes the booking onto the person's external calendar.
// Best effort: a provider failure leaves the booking valid.
func (s *bookingService) mirrorEvent(ctx context.Context, booking *entity.Booking, person *personentity.Person) {
	eventID, err := s.calendars.CreateEvent(ctx, booking.PersonID, calendardto.CreateEventRequest{
		Title:       fmt.Sprintf("Booking %s with %s", booking.Reference, booking.VisitorName),
		Description: booking.VisitorNotes,
		Start:       booking.StartTime,
		End:         booking.EndTime,
		Attendees:   []string{booking.VisitorEmail, person.Email},
	})
	if err != nil {
		logger.Warn("BookingService:MirrorEvent:Failed", "booking_id", booking.ID, "error", err)
		return
	}
	booking.ExternalEventID = &eventID
	if err := s.repo.SetExternalEventID(ctx, booking.ID, eventID); err != nil {
		logger.Warn("BookingService:MirrorEvent:PersistFailed", "booking_id", booking.ID, "error", err)
	}
}

func (s *bookingService) GetByReference(ctx context.Context, reference string) (*entity.Booking, *errors.AppError) {
	booking, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load booking", err)
	}
	if booking == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "booking not found", nil)
	}
	return booking, nil
}

func (s *bookingService) ListByOrganization(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]entity.Booking, *errors.AppError) {
	bookings, err := s.repo.ListByOrganization(ctx, orgID, from, to)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*entity.Booking, *errors.AppError) {
	logger.Info("BookingService:Cancel:Start", "booking_id", id)

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load booking", err)
	}
	if booking == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "booking not found", nil)
	}
	if booking.Status != entity.StatusConfirmed {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "only confirmed bookings can be cancelled", nil)
	}

	if err := s.repo.Cancel(ctx, id, reason); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to cancel booking", err)
	}
	booking.Status = entity.StatusCancelled
	booking.CancellationReason = &reason

	if booking.ExternalEventID != nil {
		if err := s.calendars.DeleteEvent(ctx, booking.PersonID, *booking.ExternalEventID); err != nil {
			logger.Warn("BookingService:Cancel:EventDeleteFailed", "booking_id", id, "error", err)
		}
	}
	s.notifier.BookingCancelled(ctx, booking, reason)

	logger.Info("BookingService:Cancel:Success", "booking_id", id)
	return booking, nil
}
