package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DriveStorage stores binary assets (logos, rendered PDFs) in a single
// Google Drive folder. Object names are prefixed with a UUID so uploads
// never collide.
type DriveStorage struct {
	svc      *drive.Service
	folderID string
	logger   *logrus.Logger
}

// NewFromEnv builds a client from GOOGLE_SERVICE_ACCOUNT_JSON or
// GOOGLE_SERVICE_ACCOUNT_FILE plus BILLFOLD_DRIVE_FOLDER_ID.
func NewFromEnv(ctx context.Context, logger *logrus.Logger) (*DriveStorage, error) {
	folderID := strings.TrimSpace(os.Getenv("BILLFOLD_DRIVE_FOLDER_ID"))
	if folderID == "" {
		return nil, errors.New("missing BILLFOLD_DRIVE_FOLDER_ID")
	}

	credentialsJSON, err := readCredentials()
	if err != nil {
		return nil, err
	}

	return New(ctx, credentialsJSON, folderID, logger)
}

func New(ctx context.Context, credentialsJSON []byte, folderID string, logger *logrus.Logger) (*DriveStorage, error) {
	svc, err := drive.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(drive.DriveFileScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveStorage{
		svc:      svc,
		folderID: folderID,
		logger:   logger,
	}, nil
}

func readCredentials() ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}

	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if file == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account file: %w", err)
	}
	return data, nil
}

// Upload streams content into the folder and returns the Drive file ID.
func (s *DriveStorage) Upload(ctx context.Context, name, contentType string, content io.Reader) (string, error) {
	meta := &drive.File{
		Name:    fmt.Sprintf("%s-%s", uuid.NewString(), name),
		Parents: []string{s.folderID},
	}

	created, err := s.svc.Files.Create(meta).
		Media(content, googleapi.ContentType(contentType)).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"file_id": created.Id,
		"name":    meta.Name,
	}).Debug("Uploaded file to Drive")

	return created.Id, nil
}

// Download returns the file content. The caller closes the reader.
func (s *DriveStorage) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	resp, err := s.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	return resp.Body, nil
}

func (s *DriveStorage) Delete(ctx context.Context, fileID string) error {
	if err := s.svc.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
