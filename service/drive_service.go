package service

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const csvMimeType = "text/csv"

// DriveService handles Google Drive API operations
type DriveService struct {
	client *drive.Service
}

// NewDriveService creates a new DriveService instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveService(ctx context.Context, credentialsPath string) (*DriveService, error) {
	driveService, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{
		client: driveService,
	}, nil
}

// Ensure DriveService implements DriveServiceInterface
var _ DriveServiceInterface = (*DriveService)(nil)

// ExportCSV exports the first sheet of a spreadsheet as CSV
func (ds *DriveService) ExportCSV(ctx context.Context, fileID string) (string, error) {
	resp, err := ds.client.Files.Export(fileID, csvMimeType).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("failed to export spreadsheet %s: %w", fileID, err)
	}
	body, err := readDriveBody(resp)
	if err != nil {
		return "", fmt.Errorf("failed to read spreadsheet %s: %w", fileID, err)
	}
	return string(body), nil
}

// DownloadFile downloads the content of a file stored in Drive
func (ds *DriveService) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := ds.client.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	body, err := readDriveBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return body, nil
}

func readDriveBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
