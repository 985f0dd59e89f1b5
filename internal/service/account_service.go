package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"heartline/internal/middleware"
	"heartline/internal/models"
	"heartline/internal/repository"
	"heartline/internal/token"
	"heartline/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest is the payload of account registration.
type RegisterRequest struct {
	Username    string    `json:"username" validate:"required"`
	Password    string    `json:"password" validate:"required"`
	KnownAs     string    `json:"knownAs" validate:"required,max=64"`
	Gender      string    `json:"gender" validate:"required,oneof=male female other"`
	DateOfBirth time.Time `json:"dateOfBirth" validate:"required"`
	City        string    `json:"city" validate:"required,max=128"`
	Country     string    `json:"country" validate:"required,max=128"`
}

// LoginRequest is the payload of account login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AccountService registers members and logs them in.
type AccountService struct {
	uow    repository.UnitOfWorkFactory
	roles  repository.RoleRepository
	tokens *token.Service
	now    func() time.Time
}

// NewAccountService returns a new AccountService.
func NewAccountService(uow repository.UnitOfWorkFactory, roles repository.RoleRepository, tokens *token.Service) *AccountService {
	return &AccountService{uow: uow, roles: roles, tokens: tokens, now: time.Now}
}

// Register creates a member account and returns it with a fresh token.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*models.AccountDTO, error) {
	if err := validation.Struct(req); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	uow := s.uow.Begin()
	existing, err := uow.Users().GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("Username is taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	now := s.now().UTC()
	user := &models.User{
		Username:     req.Username,
		KnownAs:      strings.TrimSpace(req.KnownAs),
		Gender:       req.Gender,
		DateOfBirth:  req.DateOfBirth,
		City:         req.City,
		Country:      req.Country,
		PasswordHash: string(hash),
		CreatedAt:    now,
		LastActive:   now,
	}
	uow.Users().Add(user)
	uow.Users().AddToRole(user, models.RoleMember)
	if _, err := uow.Complete(ctx); err != nil {
		if errors.Is(err, repository.ErrUnknownRole) {
			return nil, models.NewOperationError("Failed to add roles", err)
		}
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "account registered", "user_id", user.ID, "username", user.Username)
	return s.accountFor(ctx, user)
}

// Login checks the password and returns the account with a fresh token.
func (s *AccountService) Login(ctx context.Context, req LoginRequest) (*models.AccountDTO, error) {
	if err := validation.Struct(req); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	uow := s.uow.Begin()
	user, err := uow.Users().GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}

	user.LastActive = s.now().UTC()
	uow.Users().Update(user)
	if _, err := uow.Complete(ctx); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to record last activity", "user_id", user.ID, "error", err.Error())
	}

	return s.accountFor(ctx, user)
}

func (s *AccountService) accountFor(ctx context.Context, user *models.User) (*models.AccountDTO, error) {
	roles, err := s.roles.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	signed, err := s.tokens.CreateToken(user, roles)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	dto := &models.AccountDTO{
		Username: user.Username,
		KnownAs:  user.KnownAs,
		Token:    signed,
	}
	if main := user.MainPhoto(); main != nil {
		dto.PhotoURL = main.URL
	}
	return dto, nil
}
