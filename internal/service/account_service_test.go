package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"heartline/internal/models"
	"heartline/internal/repository"
	"heartline/internal/testutil"
	"heartline/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountService(t *testing.T) (*AccountService, *token.Service) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	tokens, err := token.NewService(strings.Repeat("k", token.MinKeyLength), false)
	require.NoError(t, err)
	return NewAccountService(repository.NewUnitOfWorkFactory(db), repository.NewRoleRepository(db), tokens), tokens
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Username:    "Lisa",
		Password:    "Pa55word",
		KnownAs:     "Lisa",
		Gender:      "female",
		DateOfBirth: time.Date(1994, 2, 3, 0, 0, 0, 0, time.UTC),
		City:        "Oslo",
		Country:     "Norway",
	}
}

func TestAccountService_RegisterAndLogin(t *testing.T) {
	svc, tokens := newAccountService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "lisa", account.Username)

	claims, err := tokens.ParseToken(account.Token)
	require.NoError(t, err)
	assert.Equal(t, "lisa", claims.NameID)
	assert.Equal(t, []string{models.RoleMember}, claims.Roles)

	_, err = svc.Register(ctx, validRegistration())
	assert.True(t, models.HasCode(err, models.CodeValidation))

	account, err = svc.Login(ctx, LoginRequest{Username: "LISA", Password: "Pa55word"})
	require.NoError(t, err)
	assert.NotEmpty(t, account.Token)

	_, err = svc.Login(ctx, LoginRequest{Username: "lisa", Password: "wrong"})
	assert.True(t, models.HasCode(err, models.CodeUnauthorized))

	_, err = svc.Login(ctx, LoginRequest{Username: "nobody", Password: "Pa55word"})
	assert.True(t, models.HasCode(err, models.CodeUnauthorized))
}

func TestAccountService_RegisterValidation(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	tests := map[string]func(*RegisterRequest){
		"weak password":  func(r *RegisterRequest) { r.Password = "password" },
		"bad username":   func(r *RegisterRequest) { r.Username = "a b" },
		"missing city":   func(r *RegisterRequest) { r.City = "" },
		"unknown gender": func(r *RegisterRequest) { r.Gender = "robot" },
		"no birth date":  func(r *RegisterRequest) { r.DateOfBirth = time.Time{} },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			req := validRegistration()
			mutate(&req)
			_, err := svc.Register(ctx, req)
			assert.True(t, models.HasCode(err, models.CodeValidation), "got %v", err)
		})
	}
}

func TestAccountService_RegisterIsAtomicWithMemberGrant(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	tokens, err := token.NewService(strings.Repeat("k", token.MinKeyLength), false)
	require.NoError(t, err)
	svc := NewAccountService(repository.NewUnitOfWorkFactory(db), repository.NewRoleRepository(db), tokens)

	require.NoError(t, db.Where("name = ?", models.RoleMember).Delete(&models.Role{}).Error)

	_, err = svc.Register(ctx, validRegistration())
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeOperation))
	assert.ErrorIs(t, err, repository.ErrUnknownRole)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count, "user must not be stored without its member role")

	// Once the role exists again the same username is still free.
	require.NoError(t, db.Create(&models.Role{Name: models.RoleMember}).Error)
	account, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	claims, err := tokens.ParseToken(account.Token)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleMember}, claims.Roles)
}
