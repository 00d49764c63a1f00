package repository

import (
	"context"

	"bookwise/core/database"
	"bookwise/core/logger"
	"bookwise/modules/notification/entity"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) (*entity.Notification, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]entity.Notification, error)
}

type notificationRepository struct {
	db database.IDatabase
}

func NewNotificationRepository(db database.IDatabase) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *entity.Notification) (*entity.Notification, error) {
	query := `
		INSERT INTO notifications (booking_id, type, recipient, subject, body, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		n.BookingID, n.Type, n.Recipient, n.Subject, n.Body, n.Status,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		logger.Error("NotificationRepository:Create:Error", "error", err)
		return nil, err
	}
	return n, nil
}

func (r *notificationRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]entity.Notification, error) {
	var notifications []entity.Notification
	err := r.db.SelectContext(ctx, &notifications, `
		SELECT id, booking_id, type, recipient, subject, body, status, created_at, updated_at
		FROM notifications
		WHERE booking_id = $1
		ORDER BY created_at
	`, bookingID)
	if err != nil {
		logger.Error("NotificationRepository:ListByBooking:Error", "error", err, "booking_id", bookingID)
		return nil, err
	}
	return notifications, nil
}
