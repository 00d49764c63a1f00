package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bookwise/modules/calendar/dto"
)

const defaultProviderBaseURL = "https://www.googleapis.com/calendar/v3"

// ProviderClient talks to the external calendar API. FreeBusy reads busy
// time for a batch of calendars in one call; CreateEvent and DeleteEvent
// mirror bookings onto the owner's calendar.
type ProviderClient interface {
	FreeBusy(ctx context.Context, accessToken string, calendarIDs []string, from, to time.Time) (map[string][]dto.BusyWindow, error)
	CreateEvent(ctx context.Context, accessToken, calendarID string, req dto.CreateEventRequest) (string, error)
	DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error
}

type googleClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewGoogleClient() ProviderClient {
	return &googleClient{
		baseURL:    defaultProviderBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type freeBusyRequest struct {
	TimeMin string             `json:"timeMin"`
	TimeMax string             `json:"timeMax"`
	Items   []freeBusyCalendar `json:"items"`
}

type freeBusyCalendar struct {
	ID string `json:"id"`
}

type freeBusyResponse struct {
	Calendars map[string]struct {
		Busy []struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"busy"`
		Errors []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"calendars"`
}

// FreeBusy issues a single batched query for every calendar in the set.
// The provider resolves transparency and cancellation on its side: events
// marked free, declined or cancelled never appear in the busy list, and
// all-day "reminder" entries are transparent by default. Calendars the
// provider reports an error for come back with no windows.
func (c *googleClient) FreeBusy(ctx context.Context, accessToken string, calendarIDs []string, from, to time.Time) (map[string][]dto.BusyWindow, error) {
	body := freeBusyRequest{
		TimeMin: from.UTC().Format(time.RFC3339),
		TimeMax: to.UTC().Format(time.RFC3339),
	}
	for _, id := range calendarIDs {
		body.Items = append(body.Items, freeBusyCalendar{ID: id})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/freeBusy", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("freebusy query failed with status %d", resp.StatusCode)
	}

	var decoded freeBusyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}

	windows := make(map[string][]dto.BusyWindow, len(decoded.Calendars))
	for calID, cal := range decoded.Calendars {
		if len(cal.Errors) > 0 {
			continue
		}
		for _, b := range cal.Busy {
			start, err := time.Parse(time.RFC3339, b.Start)
			if err != nil {
				continue
			}
			end, err := time.Parse(time.RFC3339, b.End)
			if err != nil {
				continue
			}
			if !end.After(start) {
				continue
			}
			windows[calID] = append(windows[calID], dto.BusyWindow{Start: start.UTC(), End: end.UTC()})
		}
	}
	return windows, nil
}

type providerEvent struct {
	ID          string             `json:"id,omitempty"`
	Summary     string             `json:"summary"`
	Description string             `json:"description,omitempty"`
	Start       providerEventTime  `json:"start"`
	End         providerEventTime  `json:"end"`
	Attendees   []providerAttendee `json:"attendees,omitempty"`
}

type providerEventTime struct {
	DateTime string `json:"dateTime"`
}

type providerAttendee struct {
	Email string `json:"email"`
}

func (c *googleClient) CreateEvent(ctx context.Context, accessToken, calendarID string, req dto.CreateEventRequest) (string, error) {
	ev := providerEvent{
		Summary:     req.Title,
		Description: req.Description,
		Start:       providerEventTime{DateTime: req.Start.UTC().Format(time.RFC3339)},
		End:         providerEventTime{DateTime: req.End.UTC().Format(time.RFC3339)},
	}
	for _, a := range req.Attendees {
		ev.Attendees = append(ev.Attendees, providerAttendee{Email: a})
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/calendars/%s/events", c.baseURL, calendarID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("create event failed with status %d", resp.StatusCode)
	}

	var created providerEvent
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (c *googleClient) DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error {
	url := fmt.Sprintf("%s/calendars/%s/events/%s", c.baseURL, calendarID, eventID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusGone {
		return fmt.Errorf("delete event failed with status %d", resp.StatusCode)
	}
	return nil
}
