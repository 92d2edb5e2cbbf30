package user

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils/mailing"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/jwt"
	"Foodgram-Backend/pkg/ledger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserProfile, error)
		GetProfile(ctx context.Context, targetID, viewerID string) (domain.UserProfile, error)
		GetUsers(ctx context.Context, page, limit int, viewerID string) ([]domain.UserProfile, int64, error)
		UpdateAvatar(ctx context.Context, userID string, req domain.UpdateAvatarRequest) (domain.UpdateAvatarResponse, error)
		DeleteAvatar(ctx context.Context, userID string) error
		ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error
		ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
	}

	userService struct {
		userRepository   UserRepository
		ledgerRepository ledger.LedgerRepository
		jwtService       jwt.JWTService
		s3               storage.AwsS3
	}
)

func NewUserService(
	userRepository UserRepository,
	ledgerRepository ledger.LedgerRepository,
	jwtService jwt.JWTService,
	s3 storage.AwsS3,
) UserService {
	return &userService{
		userRepository:   userRepository,
		ledgerRepository: ledgerRepository,
		jwtService:       jwtService,
		s3:               s3,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.RegisterResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterResponse{}, err
	}

	if _, err := s.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return domain.RegisterResponse{}, domain.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	user := &entities.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}

	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.RegisterResponse{}, err
	}

	// best effort, registration succeeds regardless
	body := fmt.Sprintf("<p>Hi %s, welcome to Foodgram!</p>", user.FirstName)
	_ = mailing.SendMail(user.Email, "Welcome to Foodgram", body)

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

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	return domain.LoginResponse{Token: token}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserProfile, error) {
	return s.GetProfile(ctx, userID, userID)
}

func (s *userService) GetProfile(ctx context.Context, targetID, viewerID string) (domain.UserProfile, error) {
	user, err := s.userRepository.GetUserByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserProfile{}, domain.ErrUserNotFound
		}
		return domain.UserProfile{}, err
	}

	profile := domain.UserProfile{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    user.AvatarURL,
	}

	if viewerID != "" && viewerID != targetID {
		subscribed, err := s.ledgerRepository.IsSubscribed(ctx, viewerID, targetID)
		if err != nil {
			return domain.UserProfile{}, err
		}
		profile.IsSubscribed = subscribed
	}

	return profile, nil
}

func (s *userService) GetUsers(ctx context.Context, page, limit int, viewerID string) ([]domain.UserProfile, int64, error) {
	users, count, err := s.userRepository.GetUsers(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	profiles := make([]domain.UserProfile, 0, len(users))
	for _, user := range users {
		profile := domain.UserProfile{
			ID:        user.ID.String(),
			Email:     user.Email,
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Avatar:    user.AvatarURL,
		}
		if viewerID != "" && viewerID != profile.ID {
			subscribed, err := s.ledgerRepository.IsSubscribed(ctx, viewerID, profile.ID)
			if err != nil {
				return nil, 0, err
			}
			profile.IsSubscribed = subscribed
		}
		profiles = append(profiles, profile)
	}

	return profiles, count, nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID string, req domain.UpdateAvatarRequest) (domain.UpdateAvatarResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UpdateAvatarResponse{}, domain.ErrUserNotFound
		}
		return domain.UpdateAvatarResponse{}, err
	}

	payload := req.Avatar
	if idx := strings.Index(payload, ","); idx != -1 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return domain.UpdateAvatarResponse{}, domain.NewValidationError("avatar", "invalid base64 image payload")
	}

	fileName := fmt.Sprintf("%s.img", user.ID.String())
	var objectKey string
	if user.AvatarURL != "" {
		existingKey := s.s3.GetObjectKeyFromLink(user.AvatarURL)
		objectKey, err = s.s3.UpdateFile(existingKey, data, storage.AllowImage...)
	} else {
		objectKey, err = s.s3.UploadFile(fileName, data, "avatars", storage.AllowImage...)
	}
	if err != nil {
		return domain.UpdateAvatarResponse{}, err
	}

	user.AvatarURL = s.s3.GetPublicLinkKey(objectKey)
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return domain.UpdateAvatarResponse{}, err
	}

	return domain.UpdateAvatarResponse{Avatar: user.AvatarURL}, nil
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
		return domain.ErrAvatarNotSet
	}

	objectKey := s.s3.GetObjectKeyFromLink(user.AvatarURL)
	if objectKey != "" {
		_ = s.s3.DeleteFile(objectKey)
	}

	user.AvatarURL = ""
	return s.userRepository.UpdateUser(ctx, user)
}

func (s *userService) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	token, err := s.jwtService.GenerateTokenForgetPassword(
		map[string]any{"user_id": user.ID.String()},
		time.Minute*30,
	)
	if err != nil {
		return err
	}

	mailConfig := mailing.LoadMailConfig()
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", mailConfig.AppURL, token)
	body := fmt.Sprintf("<p>Click <a href=%q>here</a> to reset your password.</p>", resetURL)
	return mailing.SendMail(user.Email, "Foodgram password reset", body)
}

func (s *userService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	claims, err := s.jwtService.ValidateTokenForgetPassword(req.Token)
	if err != nil {
		return err
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return domain.ErrTokenInvalid
	}

	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	return s.userRepository.UpdateUser(ctx, user)
}
