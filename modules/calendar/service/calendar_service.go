package service

import (
	"context"
	"time"

	"bookwise/core/config"
	"bookwise/core/constants"
	"bookwise/core/errors"
	"bookwise/core/logger"
	"bookwise/modules/calendar/dto"
	"bookwise/modules/calendar/entity"
	"bookwise/modules/calendar/repository"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type CalendarService interface {
	Connect(ctx context.Context, personID uuid.UUID, req dto.ConnectCalendarRequest) (*entity.CalendarConnection, error)
	Disconnect(ctx context.Context, personID uuid.UUID) error

	// BusyWindows reads external busy time for every connected person in
	// the set. Persons without a connection, or whose calendar could not be
	// read, are simply absent from the result: callers treat absence as
	// free time.
	BusyWindows(ctx context.Context, personIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID][]dto.BusyWindow, error)

	CreateEvent(ctx context.Context, personID uuid.UUID, req dto.CreateEventRequest) (string, error)
	DeleteEvent(ctx context.Context, personID uuid.UUID, eventID string) error
}

type calendarService struct {
	repo     repository.CalendarRepository
	provider ProviderClient
}

func NewCalendarService(repo repository.CalendarRepository, provider ProviderClient) CalendarService {
	return &calendarService{repo: repo, provider: provider}
}

func (s *calendarService) Connect(ctx context.Context, personID uuid.UUID, req dto.ConnectCalendarRequest) (*entity.CalendarConnection, error) {
	logger.Info("CalendarService:Connect:Start", "person_id", personID, "provider", req.Provider)

	if req.CalendarID == "" || req.AccessToken == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "calendar_id and access_token are required", nil)
	}

	// One active connection per person; a new connect replaces the old one.
	if err := s.repo.Deactivate(ctx, personID); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to replace calendar connection", err)
	}

	conn := &entity.CalendarConnection{
		PersonID:       personID,
		Provider:       req.Provider,
		CalendarID:     req.CalendarID,
		AccessToken:    req.AccessToken,
		RefreshToken:   req.RefreshToken,
		TokenExpiresAt: req.ExpiresAt,
		IsActive:       true,
	}
	created, err := s.repo.CreateConnection(ctx, conn)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create calendar connection", err)
	}

	logger.Info("CalendarService:Connect:Success", "person_id", personID, "connection_id", created.ID)
	return created, nil
}

func (s *calendarService) Disconnect(ctx context.Context, personID uuid.UUID) error {
	logger.Info("CalendarService:Disconnect:Start", "person_id", personID)
	if err := s.repo.Deactivate(ctx, personID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to disconnect calendar", err)
	}
	return nil
}

func (s *calendarService) BusyWindows(ctx context.Context, personIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID][]dto.BusyWindow, error) {
	result := make(map[uuid.UUID][]dto.BusyWindow)
	if len(personIDs) == 0 {
		return result, nil
	}

	conns, err := s.repo.GetActiveByPersons(ctx, personIDs)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load calendar connections", err)
	}
	if len(conns) == 0 {
		return result, nil
	}

	// Refresh expiring tokens up front. A connection whose token cannot be
	// refreshed drops out of the batch and its owner stays bookable.
	usable := make([]entity.CalendarConnection, 0, len(conns))
	for i := range conns {
		conn := conns[i]
		if err := s.ensureFreshToken(ctx, &conn); err != nil {
			logger.Warn("CalendarService:BusyWindows:TokenRefreshFailed",
				"person_id", conn.PersonID, "connection_id", conn.ID, "error", err)
			continue
		}
		usable = append(usable, conn)
	}

	personByCalendar := make(map[string]uuid.UUID, len(usable))
	for _, conn := range usable {
		personByCalendar[conn.CalendarID] = conn.PersonID
	}

	for start := 0; start < len(usable); start += constants.FreeBusyChunkSize {
		end := start + constants.FreeBusyChunkSize
		if end > len(usable) {
			end = len(usable)
		}
		chunk := usable[start:end]

		calendarIDs := make([]string, 0, len(chunk))
		for _, conn := range chunk {
			calendarIDs = append(calendarIDs, conn.CalendarID)
		}

		chunkCtx, cancel := context.WithTimeout(ctx, constants.FreeBusyChunkTimeoutSeconds*time.Second)
		windows, err := s.provider.FreeBusy(chunkCtx, chunk[0].AccessToken, calendarIDs, from, to)
		cancel()
		if err != nil {
			logger.Warn("CalendarService:BusyWindows:ChunkFailed",
				"calendars", len(calendarIDs), "error", err)
			continue
		}

		for calID, busy := range windows {
			personID, ok := personByCalendar[calID]
			if !ok {
				continue
			}
			result[personID] = append(result[personID], busy...)
		}
	}

	return result, nil
}

func (s *calendarService) CreateEvent(ctx context.Context, personID uuid.UUID, req dto.CreateEventRequest) (string, error) {
	conn, err := s.connection(ctx, personID)
	if err != nil {
		return "", err
	}
	eventID, err := s.provider.CreateEvent(ctx, conn.AccessToken, conn.CalendarID, req)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to create calendar event", err)
	}
	return eventID, nil
}

func (s *calendarService) DeleteEvent(ctx context.Context, personID uuid.UUID, eventID string) error {
	conn, err := s.connection(ctx, personID)
	if err != nil {
		return err
	}
	if err := s.provider.DeleteEvent(ctx, conn.AccessToken, conn.CalendarID, eventID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete calendar event", err)
	}
	return nil
}

func (s *calendarService) connection(ctx context.Context, personID uuid.UUID) (*entity.CalendarConnection, error) {
	conn, err := s.repo.GetActiveByPerson(ctx, personID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load calendar connection", err)
	}
	if conn == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "person has no connected calendar", nil)
	}
	if err := s.ensureFreshToken(ctx, conn); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to refresh calendar token", err)
	}
	return conn, nil
}

// ensureFreshToken refreshes the access token when it is expired or about
// to expire, persisting the new credential.
func (s *calendarService) ensureFreshToken(ctx context.Context, conn *entity.CalendarConnection) error {
	if time.Until(conn.TokenExpiresAt) > time.Minute {
		return nil
	}
	if conn.RefreshToken == "" {
		return errors.NewAppError(errors.ErrUnauthorized, "calendar token expired and no refresh token is stored", nil)
	}

	cfg, ok := config.GetSafe()
	if !ok {
		return errors.NewAppError(errors.ErrInternalServer, "configuration not loaded", nil)
	}

	oauthCfg := oauth2.Config{
		ClientID:     cfg.GoogleAPI.ClientID,
		ClientSecret: cfg.GoogleAPI.ClientSecret,
		Endpoint:     google.Endpoint,
	}
	source := oauthCfg.TokenSource(ctx, &oauth2.Token{
		AccessToken:  conn.AccessToken,
		RefreshToken: conn.RefreshToken,
		Expiry:       conn.TokenExpiresAt,
	})

	token, err := source.Token()
	if err != nil {
		return err
	}

	conn.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		conn.RefreshToken = token.RefreshToken
	}
	conn.TokenExpiresAt = token.Expiry

	if err := s.repo.UpdateTokens(ctx, conn); err != nil {
		logger.Warn("CalendarService:EnsureFreshToken:PersistFailed", "connection_id", conn.ID, "error", err)
	}
	return nil
}
