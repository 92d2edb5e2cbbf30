package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/pkg/jwt"
	"Foodgram-Backend/pkg/ledger"
	"Foodgram-Backend/pkg/user"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeStorage struct{}

func (f *fakeStorage) UploadFile(fileName string, data []byte, dir string, allowedTypes ...string) (string, error) {
	return dir + "/" + fileName, nil
}

func (f *fakeStorage) UpdateFile(objectKey string, data []byte, allowedTypes ...string) (string, error) {
	return objectKey, nil
}

func (f *fakeStorage) DeleteFile(objectKey string) error { return nil }

func (f *fakeStorage) GetPublicLinkKey(objectKey string) string {
	return "https://cdn.test/" + objectKey
}

func (f *fakeStorage) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://cdn.test/")
}

func setupUserApp(t *testing.T) (*fiber.App, user.UserService) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Subscription{},
		&entities.Recipe{},
	))

	userService := user.NewUserService(
		user.NewUserRepository(db),
		ledger.NewLedgerRepository(db),
		jwt.NewJWTService(),
		&fakeStorage{},
	)
	handler := NewUserHandler(userService, validator.New())

	app := fiber.New()
	app.Get("/api/v1/users", handler.GetUsers)
	return app, userService
}

type userListResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Users []domain.UserProfile `json:"users"`
		Total int64                `json:"total"`
		Page  int                  `json:"page"`
		Limit int                  `json:"limit"`
	} `json:"data"`
}

func listUsers(t *testing.T, app *fiber.App, target string) userListResponse {
	res, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	var body userListResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

func TestGetUsersDefaultPagination(t *testing.T) {
	app, userService := setupUserApp(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := userService.Register(ctx, domain.RegisterRequest{
			Email:     fmt.Sprintf("user%d@example.com", i),
			Username:  fmt.Sprintf("user%d", i),
			FirstName: "Test",
			LastName:  "User",
			Password:  "supersecret",
		})
		require.NoError(t, err)
	}

	// no limit query at all must still yield a populated first page
	body := listUsers(t, app, "/api/v1/users")
	assert.True(t, body.Success)
	assert.Equal(t, int64(3), body.Data.Total)
	assert.Len(t, body.Data.Users, 3)
	assert.Equal(t, 1, body.Data.Page)
	assert.Equal(t, 6, body.Data.Limit)
}

func TestGetUsersLimitClamped(t *testing.T) {
	app, userService := setupUserApp(t)
	ctx := context.Background()

	_, err := userService.Register(ctx, domain.RegisterRequest{
		Email:     "solo@example.com",
		Username:  "solo",
		FirstName: "Test",
		LastName:  "User",
		Password:  "supersecret",
	})
	require.NoError(t, err)

	body := listUsers(t, app, "/api/v1/users?limit=500")
	assert.Equal(t, 50, body.Data.Limit)
	assert.Len(t, body.Data.Users, 1)

	explicit := listUsers(t, app, "/api/v1/users?page=2&limit=1")
	assert.Equal(t, 2, explicit.Data.Page)
	assert.Equal(t, 1, explicit.Data.Limit)
	assert.Empty(t, explicit.Data.Users)
	assert.Equal(t, int64(1), explicit.Data.Total)
}
