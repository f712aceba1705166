package service

import "context"

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	// ExportCSV exports a Google Sheets file as CSV text
	ExportCSV(ctx context.Context, fileID string) (string, error)
	// DownloadFile returns the raw bytes of a stored file
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}
