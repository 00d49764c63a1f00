package service

import (
	"context"
	"fmt"
	"time"

	"bookwise/core/logger"
	"bookwise/core/tasks"
	bookingentity "bookwise/modules/booking/entity"
	"bookwise/modules/notification/entity"
	"bookwise/modules/notification/repository"

	"github.com/google/uuid"
)

// NotificationService composes and queues outbound messages. Every method
// is fire-and-forget: failures are logged and recorded, never propagated
// to the caller, so a dead mail queue cannot fail a booking.
type NotificationService interface {
	BookingConfirmed(ctx context.Context, booking *bookingentity.Booking)
	BookingCancelled(ctx context.Context, booking *bookingentity.Booking, reason string)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]entity.Notification, error)
}

type notificationService struct {
	repo  repository.NotificationRepository
	tasks *tasks.Client
}

func NewNotificationService(repo repository.NotificationRepository, tasksClient *tasks.Client) NotificationService {
	return &notificationService{repo: repo, tasks: tasksClient}
}

func (s *notificationService) BookingConfirmed(ctx context.Context, booking *bookingentity.Booking) {
	subject := fmt.Sprintf("Booking confirmed: %s", booking.Reference)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking %s is confirmed for %s to %s (UTC).\n\nSee you then.\n",
		booking.VisitorName,
		booking.Reference,
		booking.StartTime.Format(time.RFC1123),
		booking.EndTime.Format(time.RFC1123),
	)
	s.dispatch(ctx, booking, entity.TypeBookingConfirmed, subject, body)
}

func (s *notificationService) BookingCancelled(ctx context.Context, booking *bookingentity.Booking, reason string) {
	subject := fmt.Sprintf("Booking cancelled: %s", booking.Reference)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking %s for %s (UTC) has been cancelled.",
		booking.VisitorName,
		booking.Reference,
		booking.StartTime.Format(time.RFC1123),
	)
	if reason != "" {
		body += fmt.Sprintf("\nReason: %s", reason)
	}
	body += "\n"
	s.dispatch(ctx, booking, entity.TypeBookingCancelled, subject, body)
}

func (s *notificationService) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]entity.Notification, error) {
	return s.repo.ListByBooking(ctx, bookingID)
}

func (s *notificationService) dispatch(ctx context.Context, booking *bookingentity.Booking, notifType, subject, body string) {
	record := &entity.Notification{
		BookingID: booking.ID,
		Type:      notifType,
		Recipient: booking.VisitorEmail,
		Subject:   subject,
		Body:      body,
		Status:    entity.StatusQueued,
	}
	if _, err := s.repo.Create(ctx, record); err != nil {
		logger.Warn("NotificationService:Dispatch:PersistFailed",
			"booking_id", booking.ID, "type", notifType, "error", err)
	}

	s.tasks.EnqueueEmail(tasks.EmailPayload{
		To:      []string{booking.VisitorEmail},
		Subject: subject,
		Body:    body,
	})
}
