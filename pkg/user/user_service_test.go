package user

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/pkg/jwt"
	"Foodgram-Backend/pkg/ledger"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeStorage struct {
	deleted []string
}

func (f *fakeStorage) UploadFile(fileName string, data []byte, dir string, allowedTypes ...string) (string, error) {
	return dir + "/" + fileName, nil
}

func (f *fakeStorage) UpdateFile(objectKey string, data []byte, allowedTypes ...string) (string, error) {
	return objectKey, nil
}

func (f *fakeStorage) DeleteFile(objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func (f *fakeStorage) GetPublicLinkKey(objectKey string) string {
	return "https://cdn.test/" + objectKey
}

func (f *fakeStorage) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://cdn.test/")
}

func setupUsers(t *testing.T) (*gorm.DB, UserService, jwt.JWTService) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Subscription{},
		&entities.Recipe{},
	))

	jwtService := jwt.NewJWTService()
	service := NewUserService(
		NewUserRepository(db),
		ledger.NewLedgerRepository(db),
		jwtService,
		&fakeStorage{},
	)
	return db, service, jwtService
}

func register(t *testing.T, service UserService, username string) domain.RegisterResponse {
	res, err := service.Register(context.Background(), domain.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "supersecret",
	})
	require.NoError(t, err)
	return res
}

func TestRegister(t *testing.T) {
	db, service, _ := setupUsers(t)
	ctx := context.Background()

	res := register(t, service, "alice")
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "alice@example.com", res.Email)

	// the stored credential is a hash, never the password itself
	var stored entities.User
	require.NoError(t, db.Where("username = ?", "alice").First(&stored).Error)
	assert.NotEqual(t, "supersecret", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.Equal(t, domain.RoleUser, stored.Role)

	_, err := service.Register(ctx, domain.RegisterRequest{
		Email:     "alice@example.com",
		Username:  "alice2",
		FirstName: "Test",
		LastName:  "User",
		Password:  "supersecret",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = service.Register(ctx, domain.RegisterRequest{
		Email:     "alice2@example.com",
		Username:  "alice",
		FirstName: "Test",
		LastName:  "User",
		Password:  "supersecret",
	})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	_, service, jwtService := setupUsers(t)
	ctx := context.Background()

	registered := register(t, service, "alice")

	res, err := service.Login(ctx, domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	userID, role, err := jwtService.GetUserIDByToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
	assert.Equal(t, domain.RoleUser, role)

	_, err = service.Login(ctx, domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)

	_, err = service.Login(ctx, domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "supersecret",
	})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)
}

func TestGetProfileSubscriptionFlag(t *testing.T) {
	db, service, _ := setupUsers(t)
	ctx := context.Background()

	alice := register(t, service, "alice")
	bob := register(t, service, "bob")

	ledgerService := ledger.NewLedgerService(ledger.NewLedgerRepository(db))
	require.NoError(t, ledgerService.Subscribe(ctx, alice.ID, bob.ID))

	profile, err := service.GetProfile(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsSubscribed)

	// the relation is directional
	profile, err = service.GetProfile(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, profile.IsSubscribed)

	// anonymous viewers never see the flag set
	profile, err = service.GetProfile(ctx, bob.ID, "")
	require.NoError(t, err)
	assert.False(t, profile.IsSubscribed)

	_, err = service.GetProfile(ctx, "3d9e2f3a-0000-0000-0000-000000000000", alice.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAvatarLifecycle(t *testing.T) {
	_, service, _ := setupUsers(t)
	ctx := context.Background()

	alice := register(t, service, "alice")

	err := service.DeleteAvatar(ctx, alice.ID)
	assert.ErrorIs(t, err, domain.ErrAvatarNotSet)

	payload := base64.StdEncoding.EncodeToString([]byte("avatar-bytes"))
	res, err := service.UpdateAvatar(ctx, alice.ID, domain.UpdateAvatarRequest{Avatar: payload})
	require.NoError(t, err)
	assert.Contains(t, res.Avatar, "https://cdn.test/avatars/")

	profile, err := service.Me(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Avatar, profile.Avatar)

	require.NoError(t, service.DeleteAvatar(ctx, alice.ID))
	profile, err = service.Me(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.Avatar)

	_, err = service.UpdateAvatar(ctx, alice.ID, domain.UpdateAvatarRequest{Avatar: "not-base64!!"})
	var validationErr domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "avatar", validationErr.Field)
}

func TestResetPassword(t *testing.T) {
	_, service, jwtService := setupUsers(t)
	ctx := context.Background()

	alice := register(t, service, "alice")

	token, err := jwtService.GenerateTokenForgetPassword(
		map[string]any{"user_id": alice.ID},
		time.Minute*30,
	)
	require.NoError(t, err)

	require.NoError(t, service.ResetPassword(ctx, domain.ResetPasswordRequest{
		Token:    token,
		Password: "brand-new-pass",
	}))

	_, err = service.Login(ctx, domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)

	res, err := service.Login(ctx, domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "brand-new-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	err = service.ResetPassword(ctx, domain.ResetPasswordRequest{
		Token:    "garbage-token",
		Password: "whatever-pass",
	})
	assert.Error(t, err)
}

func TestGetUsersPagination(t *testing.T) {
	_, service, _ := setupUsers(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob", "carol"} {
		register(t, service, name)
	}

	page, total, err := service.GetUsers(ctx, 1, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	rest, _, err := service.GetUsers(ctx, 2, 2, "")
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
