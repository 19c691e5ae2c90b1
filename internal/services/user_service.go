package services

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"prodeskBack/internal/models"
	"prodeskBack/internal/repositories"
	"prodeskBack/utils"
)

const tokenTTL = 20 * time.Hour

type UserService struct {
	UserRepo     *repositories.UserRepository
	TokenManager *utils.Manager
}

func (s *UserService) SignUp(ctx context.Context, user models.User) (models.SignUpResponse, error) {
	existing, err := s.UserRepo.GetUserByEmail(ctx, user.Email)
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		return models.SignUpResponse{}, err
	}
	if existing.Email != "" {
		return models.SignUpResponse{}, models.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.SignUpResponse{}, err
	}
	user.Password = string(hashedPassword)
	if user.Role == "" {
		user.Role = "staff"
	}

	user, err = s.UserRepo.CreateUser(ctx, user)
	if err != nil {
		return models.SignUpResponse{}, err
	}
	user.Password = ""

	tokens, err := s.createSession(ctx, user)
	if err != nil {
		return models.SignUpResponse{}, err
	}
	return models.SignUpResponse{User: user, Tokens: tokens}, nil
}

func (s *UserService) SignIn(ctx context.Context, email, password string) (models.Tokens, error) {
	user, err := s.UserRepo.GetUserByEmail(ctx, email)
	if err != nil {
		log.Printf("User not found: %s", email)
		return models.Tokens{}, models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("Invalid password for user: %s", email)
		return models.Tokens{}, models.ErrInvalidCredentials
	}

	return s.createSession(ctx, user)
}

func (s *UserService) createSession(ctx context.Context, user models.User) (models.Tokens, error) {
	var res models.Tokens

	accessToken, err := s.TokenManager.NewAccessToken(user.ID, user.Role, tokenTTL)
	if err != nil {
		return models.Tokens{}, err
	}
	res.AccessToken = accessToken

	res.RefreshToken, err = s.TokenManager.NewRefreshToken()
	if err != nil {
		return res, err
	}

	session := models.Session{
		UserID:       user.ID,
		Role:         user.Role,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    time.Now().Add(24 * 30 * 2 * time.Hour),
	}
	if err := s.UserRepo.SetSession(ctx, session); err != nil {
		return res, err
	}
	return res, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (models.User, error) {
	return s.UserRepo.GetUserByID(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	return s.UserRepo.UpdateUser(ctx, user)
}

func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	return s.UserRepo.DeleteUser(ctx, id)
}

func (s *UserService) UpdatePassword(ctx context.Context, userID int, oldPassword, newPassword string) error {
	user, err := s.UserRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return models.ErrInvalidPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.UserRepo.UpdatePassword(ctx, userID, string(hashed))
}

func (s *UserService) LogOut(ctx context.Context, userID int) error {
	return s.UserRepo.DeleteSession(ctx, userID)
}

func (s *UserService) RegisterDeviceToken(ctx context.Context, userID int, token string) error {
	if token == "" {
		return models.ValidationError("token", "is required")
	}
	return s.UserRepo.SaveDeviceToken(ctx, userID, token)
}
