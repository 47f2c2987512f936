package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/jwt"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/relation"
)

// usernamePattern allows letters, digits and @/./+/-/_ only.
var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

const reservedUsername = "me"

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserProfileResponse, error)
		GetProfile(ctx context.Context, profileID string, viewerID string) (domain.UserProfileResponse, error)
		ChangePassword(ctx context.Context, req domain.ChangePasswordRequest, userID string) error
		UpdateAvatar(ctx context.Context, req domain.UpdateAvatarRequest, userID string) (domain.UpdateAvatarResponse, error)
		DeleteAvatar(ctx context.Context, userID string) error
		Subscribe(ctx context.Context, authorID string, userID string) error
		Unsubscribe(ctx context.Context, authorID string, userID string) error
		GetSubscriptions(ctx context.Context, userID string) ([]domain.SubscriptionResponse, error)
	}

	userService struct {
		userRepository   UserRepository
		recipeRepository recipe.RecipeRepository
		relationService  relation.RelationService
		jwtService       jwt.JWTService
		s3               storage.AwsS3
	}
)

func NewUserService(
	userRepository UserRepository,
	recipeRepository recipe.RecipeRepository,
	relationService relation.RelationService,
	jwtService jwt.JWTService,
	s3 storage.AwsS3,
) UserService {
	return &userService{
		userRepository:   userRepository,
		recipeRepository: recipeRepository,
		relationService:  relationService,
		jwtService:       jwtService,
		s3:               s3,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	if err := validateUsername(req.Username); err != nil {
		return domain.RegisterResponse{}, err
	}

	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.RegisterResponse{}, domain.ErrEmailAlreadyUsed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterResponse{}, err
	}

	if _, err := s.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return domain.RegisterResponse{}, domain.ErrUsernameAlreadyUsed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	user := &entities.User{
		ID:        uuid.New(),
		Email:     req.Email,
		Username:  req.Username,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Timestamp: entities.Timestamp{CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}

	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.RegisterResponse{}, err
	}

	return domain.RegisterResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsInvalid
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	return domain.LoginResponse{Token: s.jwtService.GenerateToken(user.ID.String())}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserProfileResponse, error) {
	return s.GetProfile(ctx, userID, "")
}

func (s *userService) GetProfile(ctx context.Context, profileID string, viewerID string) (domain.UserProfileResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserProfileResponse{}, domain.ErrUserNotFound
		}
		return domain.UserProfileResponse{}, err
	}

	res := domain.UserProfileResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}

	if viewerID != "" && viewerID != profileID {
		viewer, err := uuid.Parse(viewerID)
		if err == nil {
			if subscribed, err := s.relationService.Exists(ctx, entities.RelationSubscription, viewer, user.ID); err == nil {
				res.IsSubscribed = subscribed
			}
		}
	}

	return res, nil
}

func (s *userService) ChangePassword(ctx context.Context, req domain.ChangePasswordRequest, userID string) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	user.UpdatedAt = time.Now()
	return s.userRepository.UpdateUser(ctx, user)
}

func (s *userService) UpdateAvatar(ctx context.Context, req domain.UpdateAvatarRequest, userID string) (domain.UpdateAvatarResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UpdateAvatarResponse{}, domain.ErrUserNotFound
		}
		return domain.UpdateAvatarResponse{}, err
	}

	data, ext, err := utils.DecodeImageData(req.Avatar)
	if err != nil {
		return domain.UpdateAvatarResponse{}, domain.ErrInvalidImagePayload
	}

	fileName := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	objectKey, err := s.s3.UploadFile(fileName, data, "avatars", storage.AllowImage...)
	if err != nil {
		return domain.UpdateAvatarResponse{}, err
	}

	oldKey := s.s3.GetObjectKeyFromLink(user.AvatarURL)
	user.AvatarURL = s.s3.GetPublicLinkKey(objectKey)
	user.UpdatedAt = time.Now()
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return domain.UpdateAvatarResponse{}, err
	}
	if oldKey != "" {
		_ = s.s3.DeleteFile(oldKey)
	}

	return domain.UpdateAvatarResponse{AvatarURL: user.AvatarURL}, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID string) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if user.AvatarURL == "" {
		return domain.ErrAvatarMissing
	}

	key := s.s3.GetObjectKeyFromLink(user.AvatarURL)
	user.AvatarURL = ""
	user.UpdatedAt = time.Now()
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return err
	}
	if key != "" {
		_ = s.s3.DeleteFile(key)
	}
	return nil
}

func (s *userService) Subscribe(ctx context.Context, authorID string, userID string) error {
	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	subscriber, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	return s.relationService.Add(ctx, entities.RelationSubscription, subscriber, author.ID)
}

func (s *userService) Unsubscribe(ctx context.Context, authorID string, userID string) error {
	author, err := uuid.Parse(authorID)
	if err != nil {
		return domain.ErrParseUUID
	}
	subscriber, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	removed, err := s.relationService.Remove(ctx, entities.RelationSubscription, subscriber, author)
	if err != nil {
		return err
	}
	if removed == 0 {
		return domain.ErrRelationNotFound
	}
	return nil
}

// GetSubscriptions returns the followed authors in the order the follows
// were created, each with a recipe count and up to three recent recipes.
func (s *userService) GetSubscriptions(ctx context.Context, userID string) ([]domain.SubscriptionResponse, error) {
	subscriber, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	authorIDs, err := s.relationService.ListTargets(ctx, entities.RelationSubscription, subscriber)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(authorIDs))
	for _, id := range authorIDs {
		ids = append(ids, id.String())
	}
	authors, err := s.userRepository.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*entities.User, len(authors))
	for _, a := range authors {
		byID[a.ID] = a
	}

	res := make([]domain.SubscriptionResponse, 0, len(authorIDs))
	for _, authorID := range authorIDs {
		author, ok := byID[authorID]
		if !ok {
			continue
		}

		count, err := s.recipeRepository.CountRecipesByAuthor(ctx, author.ID)
		if err != nil {
			return nil, err
		}
		recipes, err := s.recipeRepository.GetRecipesByAuthor(ctx, author.ID, 3)
		if err != nil {
			return nil, err
		}

		previews := make([]domain.RecipePreview, 0, len(recipes))
		for _, rec := range recipes {
			previews = append(previews, domain.RecipePreview{
				ID:                 rec.ID.String(),
				Name:               rec.Name,
				ImageURL:           rec.ImageURL,
				CookingTimeMinutes: rec.CookingTimeMinutes,
			})
		}

		res = append(res, domain.SubscriptionResponse{
			ID:           author.ID.String(),
			Email:        author.Email,
			Username:     author.Username,
			FirstName:    author.FirstName,
			LastName:     author.LastName,
			AvatarURL:    author.AvatarURL,
			RecipesCount: count,
			Recipes:      previews,
		})
	}

	return res, nil
}

func validateUsername(username string) error {
	if strings.EqualFold(username, reservedUsername) {
		return domain.ErrUsernameReserved
	}
	if len(username) < 3 || !usernamePattern.MatchString(username) {
		return domain.ErrUsernameInvalid
	}
	return nil
}
