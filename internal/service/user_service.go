package service

import (
	"context"
	"io"

	"github.com/billfold/billfold/internal/models"
	"github.com/billfold/billfold/pkg/middleware"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	users   UserStore
	blobs   BlobStore
	auth    *middleware.AuthMiddleware
	metrics *MetricsCollector
	logger  *logrus.Logger
}

func NewUserService(users UserStore, blobs BlobStore, auth *middleware.AuthMiddleware, metrics *MetricsCollector, logger *logrus.Logger) *UserService {
	return &UserService{
		users:   users,
		blobs:   blobs,
		auth:    auth,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenResponse, error) {
	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	user := &models.User{
		Email:       req.Email,
		CompanyName: req.CompanyName,
	}
	if err := s.users.Create(ctx, user, req.Password); err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.users.VerifyPassword(user, req.Password) {
		return nil, ErrBadCredentials
	}

	return s.issueToken(user)
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	user, err := s.users.FindByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	return s.users.UpdateProfile(ctx, user.ID, req)
}

// UploadLogo replaces the user's logo in the blob store. The previous blob,
// if any, is removed best-effort.
func (s *UserService) UploadLogo(ctx context.Context, userID, filename, contentType string, content io.Reader) (string, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}

	fileID, err := s.blobs.Upload(ctx, filename, contentType, content)
	if err != nil {
		return "", err
	}

	if user.LogoFileID != "" {
		if err := s.blobs.Delete(ctx, user.LogoFileID); err != nil {
			s.logger.Warnf("Failed to delete previous logo %s: %v", user.LogoFileID, err)
		}
	}

	if err := s.users.SetLogoFile(ctx, user.ID, fileID); err != nil {
		return "", err
	}

	s.metrics.IncrementBlobUpload("logo")
	return fileID, nil
}

func (s *UserService) DownloadLogo(ctx context.Context, userID string) (io.ReadCloser, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.LogoFileID == "" {
		return nil, ErrNoLogo
	}

	return s.blobs.Download(ctx, user.LogoFileID)
}

func (s *UserService) issueToken(user *models.User) (*models.TokenResponse, error) {
	token, err := s.auth.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, err
	}

	return &models.TokenResponse{
		Token:  token,
		UserID: user.ID.Hex(),
		Email:  user.Email,
	}, nil
}
