package user

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/pkg/jwt"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/relation"
)

type fakeS3 struct {
	deleted []string
}

func (f *fakeS3) UploadFile(fileName string, data []byte, dir string, allowedExt ...string) (string, error) {
	return dir + "/" + fileName, nil
}

func (f *fakeS3) DeleteFile(objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func (f *fakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://cdn.test/" + objectKey
}

func (f *fakeS3) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://cdn.test/")
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&entities.User{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.UserRecipeRelation{},
		&entities.Subscription{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (UserService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	service := NewUserService(
		NewUserRepository(db),
		recipe.NewRecipeRepository(db),
		relation.NewRelationService(relation.NewRelationRepository(db)),
		jwt.NewJWTService(),
		&fakeS3{},
	)
	return service, db
}

func registerUser(t *testing.T, service UserService, username string) string {
	t.Helper()
	res, err := service.Register(context.Background(), domain.RegisterRequest{
		Email:    username + "@example.com",
		Username: username,
		Password: "password123",
	})
	assert.NoError(t, err)
	return res.ID
}

func TestRegister(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	t.Run("valid registration", func(t *testing.T) {
		res, err := service.Register(ctx, domain.RegisterRequest{
			Email:     "chef@example.com",
			Username:  "chef",
			Password:  "password123",
			FirstName: "Anna",
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, "chef", res.Username)

		var stored entities.User
		assert.NoError(t, db.Where("username = ?", "chef").First(&stored).Error)
		assert.NotEqual(t, "password123", stored.Password)
	})

	t.Run("reserved username is rejected in any case", func(t *testing.T) {
		for _, username := range []string{"me", "Me", "ME"} {
			_, err := service.Register(ctx, domain.RegisterRequest{
				Email:    "me@example.com",
				Username: username,
				Password: "password123",
			})
			assert.ErrorIs(t, err, domain.ErrUsernameReserved)
		}
	})

	t.Run("username with forbidden characters is rejected", func(t *testing.T) {
		_, err := service.Register(ctx, domain.RegisterRequest{
			Email:    "bad@example.com",
			Username: "bad name!",
			Password: "password123",
		})
		assert.ErrorIs(t, err, domain.ErrUsernameInvalid)
	})

	t.Run("short username is rejected", func(t *testing.T) {
		_, err := service.Register(ctx, domain.RegisterRequest{
			Email:    "ab@example.com",
			Username: "ab",
			Password: "password123",
		})
		assert.ErrorIs(t, err, domain.ErrUsernameInvalid)
	})

	t.Run("duplicate email is rejected case-insensitively", func(t *testing.T) {
		_, err := service.Register(ctx, domain.RegisterRequest{
			Email:    "CHEF@example.com",
			Username: "otherchef",
			Password: "password123",
		})
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyUsed)
	})

	t.Run("duplicate username is rejected case-insensitively", func(t *testing.T) {
		_, err := service.Register(ctx, domain.RegisterRequest{
			Email:    "second@example.com",
			Username: "Chef",
			Password: "password123",
		})
		assert.ErrorIs(t, err, domain.ErrUsernameAlreadyUsed)
	})
}

func TestLogin(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	registerUser(t, service, "chef")

	t.Run("valid credentials return a token", func(t *testing.T) {
		res, err := service.Login(ctx, domain.LoginRequest{
			Email:    "chef@example.com",
			Password: "password123",
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, res.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Login(ctx, domain.LoginRequest{
			Email:    "chef@example.com",
			Password: "wrongpass",
		})
		assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := service.Login(ctx, domain.LoginRequest{
			Email:    "ghost@example.com",
			Password: "password123",
		})
		assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)
	})
}

func TestChangePassword(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	userID := registerUser(t, service, "chef")

	t.Run("wrong current password", func(t *testing.T) {
		err := service.ChangePassword(ctx, domain.ChangePasswordRequest{
			CurrentPassword: "nope",
			NewPassword:     "newpassword1",
		}, userID)
		assert.ErrorIs(t, err, domain.ErrWrongPassword)
	})

	t.Run("password is rotated", func(t *testing.T) {
		err := service.ChangePassword(ctx, domain.ChangePasswordRequest{
			CurrentPassword: "password123",
			NewPassword:     "newpassword1",
		}, userID)
		assert.NoError(t, err)

		_, err = service.Login(ctx, domain.LoginRequest{Email: "chef@example.com", Password: "password123"})
		assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)

		_, err = service.Login(ctx, domain.LoginRequest{Email: "chef@example.com", Password: "newpassword1"})
		assert.NoError(t, err)
	})
}

func TestSubscriptions(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	readerID := registerUser(t, service, "reader")
	firstAuthor := registerUser(t, service, "author_one")
	secondAuthor := registerUser(t, service, "author_two")

	seedRecipe := func(authorID string, name string, createdAt time.Time) {
		rec := entities.Recipe{
			ID:                 uuid.New(),
			AuthorID:           uuid.MustParse(authorID),
			Name:               name,
			CookingTimeMinutes: 10,
			CreatedAt:          createdAt,
		}
		assert.NoError(t, db.Create(&rec).Error)
	}
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 4; i++ {
		seedRecipe(firstAuthor, fmt.Sprintf("dish-%d", i), base.Add(time.Duration(i)*time.Minute))
	}

	t.Run("subscribe to self is rejected", func(t *testing.T) {
		err := service.Subscribe(ctx, readerID, readerID)
		assert.ErrorIs(t, err, domain.ErrSelfSubscription)
	})

	t.Run("subscribe to missing author", func(t *testing.T) {
		err := service.Subscribe(ctx, uuid.New().String(), readerID)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("duplicate subscription is rejected", func(t *testing.T) {
		assert.NoError(t, service.Subscribe(ctx, firstAuthor, readerID))
		err := service.Subscribe(ctx, firstAuthor, readerID)
		assert.ErrorIs(t, err, domain.ErrRelationAlreadyExists)
	})

	t.Run("listing keeps follow order and caps previews at three", func(t *testing.T) {
		assert.NoError(t, service.Subscribe(ctx, secondAuthor, readerID))

		subs, err := service.GetSubscriptions(ctx, readerID)
		assert.NoError(t, err)
		assert.Len(t, subs, 2)
		assert.Equal(t, "author_one", subs[0].Username)
		assert.Equal(t, "author_two", subs[1].Username)
		assert.Equal(t, int64(4), subs[0].RecipesCount)
		assert.Len(t, subs[0].Recipes, 3)
		assert.Equal(t, "dish-3", subs[0].Recipes[0].Name)
		assert.Equal(t, int64(0), subs[1].RecipesCount)
		assert.Empty(t, subs[1].Recipes)
	})

	t.Run("profile reports the subscription", func(t *testing.T) {
		profile, err := service.GetProfile(ctx, firstAuthor, readerID)
		assert.NoError(t, err)
		assert.True(t, profile.IsSubscribed)

		profile, err = service.GetProfile(ctx, secondAuthor, firstAuthor)
		assert.NoError(t, err)
		assert.False(t, profile.IsSubscribed)
	})

	t.Run("unsubscribe removes exactly the follow", func(t *testing.T) {
		assert.NoError(t, service.Unsubscribe(ctx, firstAuthor, readerID))

		subs, err := service.GetSubscriptions(ctx, readerID)
		assert.NoError(t, err)
		assert.Len(t, subs, 1)
		assert.Equal(t, "author_two", subs[0].Username)
	})

	t.Run("unsubscribe without a follow reports not found", func(t *testing.T) {
		err := service.Unsubscribe(ctx, firstAuthor, readerID)
		assert.ErrorIs(t, err, domain.ErrRelationNotFound)
	})
}

func TestAvatar(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	userID := registerUser(t, service, "chef")

	t.Run("delete without an avatar", func(t *testing.T) {
		err := service.DeleteAvatar(ctx, userID)
		assert.ErrorIs(t, err, domain.ErrAvatarMissing)
	})

	t.Run("upload and delete", func(t *testing.T) {
		res, err := service.UpdateAvatar(ctx, domain.UpdateAvatarRequest{
			Avatar: "data:image/png;base64,AQID",
		}, userID)
		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(res.AvatarURL, "https://cdn.test/avatars/"))

		assert.NoError(t, service.DeleteAvatar(ctx, userID))

		me, err := service.Me(ctx, userID)
		assert.NoError(t, err)
		assert.Empty(t, me.AvatarURL)
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, err := service.UpdateAvatar(ctx, domain.UpdateAvatarRequest{Avatar: "not-a-data-uri"}, userID)
		assert.ErrorIs(t, err, domain.ErrInvalidImagePayload)
	})
}
