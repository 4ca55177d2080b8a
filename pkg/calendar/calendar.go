package calendar

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"BistroGolang/internal/entity"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

type ItfCalendar interface {
	SyncBooking(ctx context.Context, booking entity.Booking) error
	Configured() bool
}

type Calendar struct {
	clientID     string
	clientSecret string
	refreshToken string
	calendarID   string
	exportDir    string
	location     *time.Location
}

func New() *Calendar {
	calendarID := os.Getenv("GOOGLE_CALENDAR_ID")
	if calendarID == "" {
		calendarID = "primary"
	}

	exportDir := os.Getenv("CALENDAR_EXPORT_DIR")
	if exportDir == "" {
		exportDir = "./calendar-exports"
	}

	loc := time.Local
	if tz := os.Getenv("CALENDAR_TIMEZONE"); tz != "" {
		if parsed, err := time.LoadLocation(tz); err == nil {
			loc = parsed
		}
	}

	return &Calendar{
		clientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		clientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		refreshToken: os.Getenv("GOOGLE_REFRESH_TOKEN"),
		calendarID:   calendarID,
		exportDir:    exportDir,
		location:     loc,
	}
}

func (c *Calendar) Configured() bool {
	return c.clientID != "" && c.clientSecret != "" && c.refreshToken != ""
}

// SyncBooking pushes the booking to Google Calendar when credentials are
// present, otherwise it writes an .ics file into the export directory so the
// event can be imported by hand.
func (c *Calendar) SyncBooking(ctx context.Context, booking entity.Booking) error {
	start, end, err := c.eventWindow(booking)
	if err != nil {
		return err
	}

	if !c.Configured() {
		return c.exportICS(booking, start, end)
	}

	conf := &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		Endpoint:     googleoauth.Endpoint,
		Scopes:       []string{gcal.CalendarEventsScope},
	}
	tokenSource := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: c.refreshToken})

	svc, err := gcal.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return fmt.Errorf("calendar service: %w", err)
	}

	event := &gcal.Event{
		Summary:     eventSummary(booking),
		Description: eventDescription(booking),
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}

	if _, err := svc.Events.Insert(c.calendarID, event).Context(ctx).Do(); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

func (c *Calendar) eventWindow(booking entity.Booking) (time.Time, time.Time, error) {
	date := booking.Date
	if date == "" {
		date = time.Now().In(c.location).Format("2006-01-02")
	}

	startClock := booking.StartTime
	if startClock == "" {
		startClock = "19:00"
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+startClock, c.location)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse start: %w", err)
	}

	end := start.Add(2 * time.Hour)
	if booking.EndTime != "" {
		if parsed, perr := time.ParseInLocation("2006-01-02 15:04", date+" "+booking.EndTime, c.location); perr == nil && parsed.After(start) {
			end = parsed
		}
	}

	return start, end, nil
}

func (c *Calendar) exportICS(booking entity.Booking, start, end time.Time) error {
	if err := os.MkdirAll(c.exportDir, 0o755); err != nil {
		return fmt.Errorf("export dir: %w", err)
	}

	stamp := "20060102T150405Z"
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Bistro Voice Backend//EN",
		"BEGIN:VEVENT",
		fmt.Sprintf("UID:booking-%d@bistro", booking.ID),
		fmt.Sprintf("DTSTAMP:%s", time.Now().UTC().Format(stamp)),
		fmt.Sprintf("DTSTART:%s", start.UTC().Format(stamp)),
		fmt.Sprintf("DTEND:%s", end.UTC().Format(stamp)),
		fmt.Sprintf("SUMMARY:%s", icsEscape(eventSummary(booking))),
		fmt.Sprintf("DESCRIPTION:%s", icsEscape(eventDescription(booking))),
		"END:VEVENT",
		"END:VCALENDAR",
	}

	path := filepath.Join(c.exportDir, fmt.Sprintf("booking-%d.ics", booking.ID))
	return os.WriteFile(path, []byte(strings.Join(lines, "\r\n")+"\r\n"), 0o644)
}

func eventSummary(booking entity.Booking) string {
	name := booking.CustomerName
	if name == "" {
		name = "Guest"
	}
	if booking.PartySize > 0 {
		return fmt.Sprintf("Reservation: %s (party of %d)", name, booking.PartySize)
	}
	return fmt.Sprintf("Reservation: %s", name)
}

func eventDescription(booking entity.Booking) string {
	parts := []string{fmt.Sprintf("Booking #%d", booking.ID)}
	if booking.PhoneNumber != "" {
		parts = append(parts, "Phone: "+booking.PhoneNumber)
	}
	if booking.Notes != "" {
		parts = append(parts, "Notes: "+booking.Notes)
	}
	parts = append(parts, "Source: "+string(booking.Source))
	return strings.Join(parts, "\n")
}

func icsEscape(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}
