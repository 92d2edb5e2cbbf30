package recipe

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/pkg/catalog"
	"Foodgram-Backend/pkg/ledger"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Subscription{},
		&entities.Tag{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.IngredientLine{},
		&entities.TagAssignment{},
		&entities.FavoriteMembership{},
		&entities.CartMembership{},
		&entities.ShortLink{},
	))
	return db
}

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

type fixture struct {
	db          *gorm.DB
	storage     *fakeStorage
	service     RecipeService
	ledgerRepo  ledger.LedgerRepository
	author      *entities.User
	tags        []*entities.Tag
	ingredients []*entities.Ingredient
}

func setupFixture(t *testing.T) *fixture {
	db := setupTestDB(t)
	storage := &fakeStorage{}
	ledgerRepo := ledger.NewLedgerRepository(db)
	service := NewRecipeService(
		NewRecipeRepository(db),
		catalog.NewCatalogRepository(db),
		ledgerRepo,
		storage,
	)

	author := &entities.User{
		ID:       uuid.New(),
		Email:    "chef@example.com",
		Username: "chef",
	}
	require.NoError(t, db.Create(author).Error)

	tags := []*entities.Tag{
		{ID: uuid.New(), Name: "Breakfast", Slug: "breakfast"},
		{ID: uuid.New(), Name: "Dinner", Slug: "dinner"},
	}
	require.NoError(t, db.Create(&tags).Error)

	ingredients := []*entities.Ingredient{
		{ID: uuid.New(), Name: "Sugar", MeasurementUnit: "g"},
		{ID: uuid.New(), Name: "Salt", MeasurementUnit: "g"},
		{ID: uuid.New(), Name: "Milk", MeasurementUnit: "ml"},
	}
	require.NoError(t, db.Create(&ingredients).Error)

	return &fixture{
		db:          db,
		storage:     storage,
		service:     service,
		ledgerRepo:  ledgerRepo,
		author:      author,
		tags:        tags,
		ingredients: ingredients,
	}
}

func testImage() string {
	return base64.StdEncoding.EncodeToString([]byte("image-bytes"))
}

func (f *fixture) validCreateRequest() domain.CreateRecipeRequest {
	return domain.CreateRecipeRequest{
		Name:        "Porridge",
		Text:        "Boil and stir.",
		CookingTime: 15,
		Image:       testImage(),
		Tags:        []string{f.tags[0].ID.String()},
		Ingredients: []domain.IngredientEntry{
			{ID: f.ingredients[0].ID.String(), Amount: 100},
			{ID: f.ingredients[2].ID.String(), Amount: 250},
		},
	}
}

func TestCreateRecipeValidationOrder(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		mutate    func(*domain.CreateRecipeRequest)
		wantField string
	}{
		{
			name: "empty ingredients reported first",
			mutate: func(r *domain.CreateRecipeRequest) {
				r.Ingredients = nil
				r.Tags = nil
				r.CookingTime = 0
			},
			wantField: "ingredients",
		},
		{
			name: "duplicate ingredients before tag checks",
			mutate: func(r *domain.CreateRecipeRequest) {
				r.Ingredients = append(r.Ingredients, r.Ingredients[0])
				r.Tags = nil
			},
			wantField: "ingredients",
		},
		{
			name: "empty tags",
			mutate: func(r *domain.CreateRecipeRequest) {
				r.Tags = nil
				r.CookingTime = 0
			},
			wantField: "tags",
		},
		{
			name: "duplicate tags",
			mutate: func(r *domain.CreateRecipeRequest) {
				r.Tags = append(r.Tags, r.Tags[0])
			},
			wantField: "tags",
		},
		{
			name: "amount below minimum",
			mutate: func(r *domain.CreateRecipeRequest) {
				r.Ingredients[0].Amount = 0
			},
			wantField: "amount",
		},
		{
			name: "cooking time below minimum",
			mutate: func(r *domain.CreateRecipeRequest) {
				r.CookingTime = 0
			},
			wantField: "cooking_time",
		},
		{
			name: "unknown ingredient id",
			mutate: func(r *domain.CreateRecipeRequest) {
				r.Ingredients[0].ID = uuid.New().String()
			},
			wantField: "ingredients",
		},
		{
			name: "unknown tag id",
			mutate: func(r *domain.CreateRecipeRequest) {
				r.Tags = []string{uuid.New().String()}
			},
			wantField: "tags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.validCreateRequest()
			tt.mutate(&req)

			_, err := f.service.Create(ctx, req, f.author.ID.String())
			require.Error(t, err)

			var validationErr domain.ValidationError
			require.True(t, errors.As(err, &validationErr), "expected a validation error, got %v", err)
			assert.Equal(t, tt.wantField, validationErr.Field)
		})
	}
}

func TestCreateRecipeMissingImage(t *testing.T) {
	f := setupFixture(t)

	req := f.validCreateRequest()
	req.Image = ""

	_, err := f.service.Create(context.Background(), req, f.author.ID.String())
	require.Error(t, err)

	var validationErr domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "image", validationErr.Field)
}

func TestCreateRecipeRoundTrip(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	req := f.validCreateRequest()
	detail, err := f.service.Create(ctx, req, f.author.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Porridge", detail.Name)
	assert.Equal(t, "Boil and stir.", detail.Text)
	assert.Equal(t, 15, detail.CookingTime)
	assert.Contains(t, detail.Image, "https://cdn.test/recipes/")

	require.Len(t, detail.Tags, 1)
	assert.Equal(t, "breakfast", detail.Tags[0].Slug)

	// ingredient lines come back in payload order with resolved catalog data
	require.Len(t, detail.Ingredients, 2)
	assert.Equal(t, "Sugar", detail.Ingredients[0].Name)
	assert.Equal(t, 100, detail.Ingredients[0].Amount)
	assert.Equal(t, "g", detail.Ingredients[0].MeasurementUnit)
	assert.Equal(t, "Milk", detail.Ingredients[1].Name)
	assert.Equal(t, 250, detail.Ingredients[1].Amount)

	assert.Equal(t, f.author.ID.String(), detail.Author.ID)
	assert.False(t, detail.IsFavorited)
	assert.False(t, detail.IsInShoppingCart)
}

// failingRecipeRepo rejects every insert so the service's cleanup of the
// already uploaded image can be observed.
type failingRecipeRepo struct {
	RecipeRepository
}

func (r *failingRecipeRepo) CreateRecipe(ctx context.Context, recipe *entities.Recipe, lines []*entities.IngredientLine, assignments []*entities.TagAssignment) error {
	return errors.New("insert failed")
}

func TestCreateRecipeInsertFailureRemovesUpload(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	service := NewRecipeService(
		&failingRecipeRepo{NewRecipeRepository(f.db)},
		catalog.NewCatalogRepository(f.db),
		f.ledgerRepo,
		f.storage,
	)

	_, err := service.Create(ctx, f.validCreateRequest(), f.author.ID.String())
	require.Error(t, err)

	require.Len(t, f.storage.deleted, 1)
	assert.Contains(t, f.storage.deleted[0], "recipes/")

	var count int64
	require.NoError(t, f.db.Model(&entities.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecipeDetailAnonymousViewer(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	detail, err := f.service.Create(ctx, f.validCreateRequest(), f.author.ID.String())
	require.NoError(t, err)

	viewer := &entities.User{ID: uuid.New(), Email: "fan@example.com", Username: "fan"}
	require.NoError(t, f.db.Create(viewer).Error)
	_, err = f.ledgerRepo.CreateMembership(ctx, ledger.KindFavorite, viewer.ID, uuid.MustParse(detail.ID))
	require.NoError(t, err)

	anonymous, err := f.service.GetByID(ctx, detail.ID, "")
	require.NoError(t, err)
	assert.False(t, anonymous.IsFavorited)
	assert.False(t, anonymous.IsInShoppingCart)
	assert.False(t, anonymous.Author.IsSubscribed)

	asViewer, err := f.service.GetByID(ctx, detail.ID, viewer.ID.String())
	require.NoError(t, err)
	assert.True(t, asViewer.IsFavorited)
	assert.False(t, asViewer.IsInShoppingCart)
}

func TestUpdateRecipeReplacesComposition(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.validCreateRequest(), f.author.ID.String())
	require.NoError(t, err)

	update := domain.UpdateRecipeRequest{
		Name:        "Salted Porridge",
		Text:        "Boil, stir, season.",
		CookingTime: 20,
		Tags:        []string{f.tags[1].ID.String()},
		Ingredients: []domain.IngredientEntry{
			{ID: f.ingredients[1].ID.String(), Amount: 5},
		},
	}

	updated, err := f.service.Update(ctx, created.ID, update, f.author.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Salted Porridge", updated.Name)
	assert.Equal(t, 20, updated.CookingTime)
	// image survives when the update carries no new payload
	assert.Equal(t, created.Image, updated.Image)

	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "Salt", updated.Ingredients[0].Name)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "dinner", updated.Tags[0].Slug)

	// the old rows are gone, not orphaned
	var lineCount, assignmentCount int64
	require.NoError(t, f.db.Model(&entities.IngredientLine{}).Where("recipe_id = ?", created.ID).Count(&lineCount).Error)
	require.NoError(t, f.db.Model(&entities.TagAssignment{}).Where("recipe_id = ?", created.ID).Count(&assignmentCount).Error)
	assert.Equal(t, int64(1), lineCount)
	assert.Equal(t, int64(1), assignmentCount)
}

func TestUpdateRecipeNotAuthor(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.validCreateRequest(), f.author.ID.String())
	require.NoError(t, err)

	stranger := &entities.User{ID: uuid.New(), Email: "other@example.com", Username: "other"}
	require.NoError(t, f.db.Create(stranger).Error)

	update := domain.UpdateRecipeRequest{
		Name:        "Hijacked",
		Text:        "Nope.",
		CookingTime: 5,
		Tags:        []string{f.tags[0].ID.String()},
		Ingredients: []domain.IngredientEntry{
			{ID: f.ingredients[0].ID.String(), Amount: 1},
		},
	}

	_, err = f.service.Update(ctx, created.ID, update, stranger.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotRecipeAuthor)

	err = f.service.Delete(ctx, created.ID, stranger.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotRecipeAuthor)

	// nothing changed
	detail, err := f.service.GetByID(ctx, created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Porridge", detail.Name)
}

func TestDeleteRecipeCascades(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.validCreateRequest(), f.author.ID.String())
	require.NoError(t, err)
	recipeID := uuid.MustParse(created.ID)

	viewer := &entities.User{ID: uuid.New(), Email: "fan@example.com", Username: "fan"}
	require.NoError(t, f.db.Create(viewer).Error)
	_, err = f.ledgerRepo.CreateMembership(ctx, ledger.KindFavorite, viewer.ID, recipeID)
	require.NoError(t, err)
	_, err = f.ledgerRepo.CreateMembership(ctx, ledger.KindCart, viewer.ID, recipeID)
	require.NoError(t, err)
	require.NoError(t, f.db.Create(&entities.ShortLink{
		RecipeID:  recipeID,
		Token:     "abc",
		CreatedAt: time.Now(),
	}).Error)

	require.NoError(t, f.service.Delete(ctx, created.ID, f.author.ID.String()))

	_, err = f.service.GetByID(ctx, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	for _, model := range []any{
		&entities.IngredientLine{},
		&entities.TagAssignment{},
		&entities.FavoriteMembership{},
		&entities.CartMembership{},
		&entities.ShortLink{},
	} {
		var count int64
		require.NoError(t, f.db.Model(model).Where("recipe_id = ?", created.ID).Count(&count).Error)
		assert.Zero(t, count, "%T rows should be gone", model)
	}

	// catalog rows stay
	var ingredientCount int64
	require.NoError(t, f.db.Model(&entities.Ingredient{}).Count(&ingredientCount).Error)
	assert.Equal(t, int64(3), ingredientCount)

	assert.NotEmpty(t, f.storage.deleted)
}

func TestListRecipesFilters(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	breakfast, err := f.service.Create(ctx, f.validCreateRequest(), f.author.ID.String())
	require.NoError(t, err)

	dinnerReq := f.validCreateRequest()
	dinnerReq.Name = "Stew"
	dinnerReq.Tags = []string{f.tags[1].ID.String()}
	dinner, err := f.service.Create(ctx, dinnerReq, f.author.ID.String())
	require.NoError(t, err)

	all, total, err := f.service.List(ctx, domain.RecipeListFilter{}, 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	byTag, total, err := f.service.List(ctx, domain.RecipeListFilter{TagSlugs: []string{"dinner"}}, 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, byTag, 1)
	assert.Equal(t, dinner.ID, byTag[0].ID)

	// both slugs still count each recipe once
	bothTags, total, err := f.service.List(ctx, domain.RecipeListFilter{TagSlugs: []string{"breakfast", "dinner"}}, 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, bothTags, 2)

	viewer := &entities.User{ID: uuid.New(), Email: "fan@example.com", Username: "fan"}
	require.NoError(t, f.db.Create(viewer).Error)
	_, err = f.ledgerRepo.CreateMembership(ctx, ledger.KindFavorite, viewer.ID, uuid.MustParse(breakfast.ID))
	require.NoError(t, err)

	favorited, total, err := f.service.List(ctx, domain.RecipeListFilter{IsFavorited: true}, 1, 10, viewer.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, favorited, 1)
	assert.Equal(t, breakfast.ID, favorited[0].ID)

	// viewer-scoped filters are empty for anonymous callers
	anonymous, total, err := f.service.List(ctx, domain.RecipeListFilter{IsFavorited: true}, 1, 10, "")
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, anonymous)
}
