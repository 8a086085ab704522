// Package caldav publishes the agenda to a CalDAV collection.
package caldav

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/emersion/go-webdav"
	cdav "github.com/emersion/go-webdav/caldav"

	"agenda/internal/ics"
	"agenda/internal/models"
)

const objectName = "agenda.ics"

// basicAuthTransport adds Basic Auth and a User-Agent to every request.
type basicAuthTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.Username, t.Password)
	req.Header.Set("User-Agent", "agenda/1.0")
	return t.Transport.RoundTrip(req)
}

// Client talks to a single calendar collection on a CalDAV server.
type Client struct {
	caldavClient *cdav.Client
	webdavClient *webdav.Client
	logger       *slog.Logger
	endpoint     string
	calendarURL  string
}

// NewClient discovers the named calendar on the given CalDAV endpoint.
func NewClient(ctx context.Context, logger *slog.Logger, endpoint, username, password, calendarName string) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("caldav endpoint not configured")
	}
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}

	transport := &basicAuthTransport{
		Username:  username,
		Password:  password,
		Transport: http.DefaultTransport,
	}
	httpClient := &http.Client{Transport: transport}

	caldavClient, err := cdav.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}

	webdavClient, err := webdav.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create webdav client: %w", err)
	}

	c := &Client{
		caldavClient: caldavClient,
		webdavClient: webdavClient,
		logger:       logger,
		endpoint:     endpoint,
	}

	logger.Info("Finding calendar on CalDAV server", "calendarName", calendarName)
	calendarURL, err := c.findCalendar(ctx, calendarName)
	if err != nil {
		return nil, fmt.Errorf("could not find calendar '%s': %w", calendarName, err)
	}
	c.calendarURL = calendarURL
	logger.Info("Found calendar", "url", calendarURL)

	return c, nil
}

// Publish uploads the given events as one iCalendar object, replacing
// any previously published copy.
func (c *Client) Publish(ctx context.Context, events []models.Event) error {
	var buf bytes.Buffer
	if err := ics.Export(&buf, events); err != nil {
		return err
	}

	// The object path must be relative to the endpoint for the webdav client.
	objectPath := path.Join(strings.TrimPrefix(c.calendarURL, c.endpoint), objectName)

	writer, err := c.webdavClient.Create(ctx, objectPath)
	if err != nil {
		return fmt.Errorf("failed to create calendar object on CalDAV server: %w", err)
	}
	defer writer.Close()

	if _, err := writer.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to upload calendar object: %w", err)
	}

	c.logger.Info("Published agenda to CalDAV server", "events", len(events), "path", objectPath)
	return nil
}

// findCalendar discovers the user's calendars and returns the URL for
// the one with the matching name.
func (c *Client) findCalendar(ctx context.Context, name string) (string, error) {
	principalPath, err := c.caldavClient.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal path: %w", err)
	}

	homeSetPath, err := c.caldavClient.FindCalendarHomeSet(ctx, principalPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	calendars, err := c.caldavClient.FindCalendars(ctx, homeSetPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	for _, cal := range calendars {
		if cal.Name == name {
			return fmt.Sprintf("%s%s", strings.TrimSuffix(c.endpoint, "/"), cal.Path), nil
		}
	}

	return "", fmt.Errorf("no calendar found with name '%s'", name)
}
