package auth

import (
	"context"
	"fmt"
	"time"

	"hobby-lobby/internal/common/apperr"
	"hobby-lobby/internal/config"
	"hobby-lobby/internal/features/user"
	"hobby-lobby/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	UniqueName  string     `json:"uniqueName"`
	DisplayName string     `json:"displayName"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	BirthDate   *time.Time `json:"birthDate"`
}

type LoginResult struct {
	Token string       `json:"token"`
	User  user.Summary `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*user.User, error)
	Verify(ctx context.Context, token string) error
	Login(ctx context.Context, loginIdentifier, password string) (*LoginResult, error)
}

type AuthServiceImpl struct {
	UserRepo user.UserRepository
	Config   *config.Config
	Logger   *zap.Logger
}

func NewAuthService(userRepo user.UserRepository, cfg *config.Config, logger *zap.Logger) AuthService {
	return &AuthServiceImpl{
		UserRepo: userRepo,
		Config:   cfg,
		Logger:   logger,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, input RegisterInput) (*user.User, error) {
	if input.UniqueName == "" || input.DisplayName == "" || input.Email == "" || input.Password == "" {
		return nil, apperr.Validation("uniqueName, displayName, email and password are required")
	}

	exists, err := s.UserRepo.ExistsByEmailOrUniqueName(ctx, input.Email, input.UniqueName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict(apperr.CodeDuplicate, "Username or email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	newUser := user.User{
		UniqueName:  input.UniqueName,
		DisplayName: input.DisplayName,
		Email:       input.Email,
		Password:    string(hash),
		BirthDate:   input.BirthDate,
		Role:        "user",
		IsVerified:  false,
		IsPublic:    true,
		NotificationPreferences: user.NotificationPreferences{
			Email: true,
			Push:  true,
		},
	}

	if err := s.UserRepo.Create(ctx, &newUser); err != nil {
		return nil, err
	}

	verifyToken, err := utils.GenerateVerifyToken(newUser.ID)
	if err != nil {
		return nil, err
	}

	// Mail delivery is handled out of process; the link is logged so the
	// notifier (or a developer) can pick it up.
	verificationLink := fmt.Sprintf("%s/api/v1/auth/verify/%s", s.Config.FrontendURL, verifyToken)
	s.Logger.Info("account verification link issued",
		zap.String("userId", newUser.ID.Hex()),
		zap.String("link", verificationLink))

	return &newUser, nil
}

func (s *AuthServiceImpl) Verify(ctx context.Context, token string) error {
	claims, err := utils.ValidateToken(token)
	if err != nil || claims.Purpose != utils.PurposeVerify {
		return apperr.Validation("Link not valid or expired")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return apperr.Validation("Link not valid or expired")
	}

	return s.UserRepo.SetVerified(ctx, userID)
}

func (s *AuthServiceImpl) Login(ctx context.Context, loginIdentifier, password string) (*LoginResult, error) {
	usr, err := s.UserRepo.FindByEmailOrUniqueName(ctx, loginIdentifier)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.Password), []byte(password)); err != nil {
		return nil, apperr.Validation("Invalid credentials")
	}

	if !usr.IsVerified {
		return nil, apperr.Forbidden("You must first verify your email")
	}

	token, err := utils.GenerateToken(usr.ID, usr.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token: token,
		User:  usr.Summary(),
	}, nil
}
