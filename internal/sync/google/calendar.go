package google

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"consultly/internal/config"
	syncx "consultly/internal/sync"
)

// CalendarService creates events in a shared calendar through a service
// account.
type CalendarService struct {
	service    *calendar.Service
	calendarID string
}

func NewCalendarService(ctx context.Context, cfg config.GoogleConfig) (*CalendarService, error) {
	credentialsJSON, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	jwtCfg, err := google.JWTConfigFromJSON(credentialsJSON, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(jwtCfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create calendar service: %w", err)
	}

	return &CalendarService{
		service:    srv,
		calendarID: cfg.CalendarID,
	}, nil
}

func (s *CalendarService) IsConfigured() bool {
	return s != nil && s.service != nil && s.calendarID != ""
}

func (s *CalendarService) CreateEvent(ctx context.Context, req syncx.EventRequest) (*syncx.RemoteRef, error) {
	tz := req.TimeZone
	if tz == "" {
		tz = "UTC"
	}

	event := &calendar.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start: &calendar.EventDateTime{
			DateTime: req.StartTime.Format("2006-01-02T15:04:05-07:00"),
			TimeZone: tz,
		},
		End: &calendar.EventDateTime{
			DateTime: req.EndTime.Format("2006-01-02T15:04:05-07:00"),
			TimeZone: tz,
		},
	}
	for _, email := range req.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}

	created, err := s.service.Events.Insert(s.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar insert: %w", err)
	}
	if created.Id == "" {
		return nil, fmt.Errorf("calendar insert: empty event id in response")
	}

	return &syncx.RemoteRef{
		RemoteID: created.Id,
		JoinLink: created.HangoutLink,
	}, nil
}
