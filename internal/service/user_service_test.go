package service

import (
	"context"
	"strings"
	"testing"

	"github.com/billfold/billfold/internal/models"
	"github.com/billfold/billfold/pkg/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newUserFixture() (*MockUserStore, *MockBlobStore, *UserService) {
	users := new(MockUserStore)
	blobs := new(MockBlobStore)
	auth := middleware.NewAuthMiddleware("test-secret")
	svc := NewUserService(users, blobs, auth, sharedMetrics(), quietLogger())
	return users, blobs, svc
}

func TestRegister(t *testing.T) {
	users, _, svc := newUserFixture()
	ctx := context.Background()

	users.On("FindByEmail", ctx, "new@example.com").Return(nil, nil)
	users.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "new@example.com" && u.CompanyName == "Acme"
	}), "hunter22").Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = primitive.NewObjectID()
	}).Return(nil)

	resp, err := svc.Register(ctx, &models.RegisterRequest{
		Email:       "new@example.com",
		Password:    "hunter22",
		CompanyName: "Acme",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "new@example.com", resp.Email)
}

func TestRegisterEmailTaken(t *testing.T) {
	users, _, svc := newUserFixture()
	ctx := context.Background()

	users.On("FindByEmail", ctx, "taken@example.com").Return(&models.User{Email: "taken@example.com"}, nil)

	_, err := svc.Register(ctx, &models.RegisterRequest{Email: "taken@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	users, _, svc := newUserFixture()
	ctx := context.Background()

	user := &models.User{ID: primitive.NewObjectID(), Email: "user@example.com"}
	users.On("FindByEmail", ctx, "user@example.com").Return(user, nil)
	users.On("VerifyPassword", user, "correct").Return(true)

	resp, err := svc.Login(ctx, &models.LoginRequest{Email: "user@example.com", Password: "correct"})
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), resp.UserID)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginBadCredentials(t *testing.T) {
	users, _, svc := newUserFixture()
	ctx := context.Background()

	user := &models.User{ID: primitive.NewObjectID(), Email: "user@example.com"}
	users.On("FindByEmail", ctx, "user@example.com").Return(user, nil)
	users.On("VerifyPassword", user, "wrong").Return(false)

	_, err := svc.Login(ctx, &models.LoginRequest{Email: "user@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	users, _, svc := newUserFixture()
	ctx := context.Background()

	users.On("FindByEmail", ctx, "ghost@example.com").Return(nil, nil)

	_, err := svc.Login(ctx, &models.LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestUploadLogoReplacesPrevious(t *testing.T) {
	users, blobs, svc := newUserFixture()
	ctx := context.Background()

	id := primitive.NewObjectID()
	user := &models.User{ID: id, LogoFileID: "old-logo"}
	users.On("FindByID", ctx, id).Return(user, nil)
	blobs.On("Upload", ctx, "logo.png", "image/png", mock.Anything).Return("new-logo", nil)
	blobs.On("Delete", ctx, "old-logo").Return(nil)
	users.On("SetLogoFile", ctx, id, "new-logo").Return(nil)

	fileID, err := svc.UploadLogo(ctx, id.Hex(), "logo.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "new-logo", fileID)

	blobs.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestUploadLogoSurvivesDeleteFailure(t *testing.T) {
	users, blobs, svc := newUserFixture()
	ctx := context.Background()

	id := primitive.NewObjectID()
	users.On("FindByID", ctx, id).Return(&models.User{ID: id, LogoFileID: "old-logo"}, nil)
	blobs.On("Upload", ctx, "logo.png", "image/png", mock.Anything).Return("new-logo", nil)
	blobs.On("Delete", ctx, "old-logo").Return(assert.AnError)
	users.On("SetLogoFile", ctx, id, "new-logo").Return(nil)

	fileID, err := svc.UploadLogo(ctx, id.Hex(), "logo.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "new-logo", fileID)
}

func TestDownloadLogoWithoutLogo(t *testing.T) {
	users, _, svc := newUserFixture()
	ctx := context.Background()

	id := primitive.NewObjectID()
	users.On("FindByID", ctx, id).Return(&models.User{ID: id}, nil)

	_, err := svc.DownloadLogo(ctx, id.Hex())
	assert.ErrorIs(t, err, ErrNoLogo)
}

func TestGetProfileBadID(t *testing.T) {
	_, _, svc := newUserFixture()

	_, err := svc.GetProfile(context.Background(), "not-a-hex-id")
	assert.ErrorIs(t, err, ErrNotFound)
}
