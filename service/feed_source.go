package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// FeedSource retrieves the raw CSV text of the catalog spreadsheet
type FeedSource interface {
	FetchCSV(ctx context.Context) (string, error)
}

// StatusError carries the HTTP status of a failed feed request
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

func (e *StatusError) Unwrap() error {
	return ErrFeedStatus
}

// HTTPFeedSource reads a published spreadsheet CSV over HTTP
type HTTPFeedSource struct {
	client *resty.Client
	url    string
	now    func() time.Time
}

// NewHTTPFeedSource creates a feed source for the given URL.
// timeout bounds each request; zero disables the client timeout.
func NewHTTPFeedSource(url string, timeout time.Duration) *HTTPFeedSource {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "tienda-joyas/1.0").
		SetHeader("Accept", "text/csv, text/plain, */*")
	return NewHTTPFeedSourceWithClient(client, url)
}

// NewHTTPFeedSourceWithClient creates a feed source using an existing resty client
func NewHTTPFeedSourceWithClient(client *resty.Client, url string) *HTTPFeedSource {
	return &HTTPFeedSource{client: client, url: url, now: time.Now}
}

var _ FeedSource = (*HTTPFeedSource)(nil)

// FetchCSV downloads the feed bypassing intermediate caches
func (s *HTTPFeedSource) FetchCSV(ctx context.Context) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Cache-Control", "no-cache").
		SetHeader("Pragma", "no-cache").
		SetQueryParam("_", strconv.FormatInt(s.now().UnixNano(), 10)).
		Get(s.url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch feed: %w", err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return "", &StatusError{Code: resp.StatusCode()}
	}
	return resp.String(), nil
}

// DriveFeedSource exports a Google Sheets file as CSV through the Drive API
type DriveFeedSource struct {
	drive   DriveServiceInterface
	sheetID string
}

// NewDriveFeedSource creates a feed source for the given spreadsheet id
func NewDriveFeedSource(drive DriveServiceInterface, sheetID string) *DriveFeedSource {
	return &DriveFeedSource{drive: drive, sheetID: sheetID}
}

var _ FeedSource = (*DriveFeedSource)(nil)

// FetchCSV exports the spreadsheet
func (s *DriveFeedSource) FetchCSV(ctx context.Context) (string, error) {
	return s.drive.ExportCSV(ctx, s.sheetID)
}

// FeedErrorMessage turns a fetch failure into the message shown to shoppers
func FeedErrorMessage(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &statusErr):
		return statusErr.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "El catálogo tardó demasiado en responder"
	default:
		return "No se pudo cargar el catálogo"
	}
}
