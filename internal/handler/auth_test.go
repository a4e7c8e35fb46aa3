package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/boat-trip-sales/internal/config"
	"github.com/iliyamo/boat-trip-sales/internal/model"
	"github.com/iliyamo/boat-trip-sales/internal/repository"
	"github.com/iliyamo/boat-trip-sales/internal/utils"
)

type fakeSellers struct {
	byUsername map[string]*model.Seller
	nextID     uint64
}

func newFakeSellers() *fakeSellers {
	return &fakeSellers{byUsername: make(map[string]*model.Seller), nextID: 1}
}

func (f *fakeSellers) Create(ctx context.Context, s *model.Seller) error {
	if _, ok := f.byUsername[s.Username]; ok {
		return repository.ErrDuplicateUsername
	}
	s.ID = f.nextID
	f.nextID++
	f.byUsername[s.Username] = s
	return nil
}

func (f *fakeSellers) GetByID(ctx context.Context, q repository.DBTX, id uint64) (*model.Seller, error) {
	for _, s := range f.byUsername {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, repository.ErrSellerNotFound
}

func (f *fakeSellers) GetByUsername(ctx context.Context, username string) (*model.Seller, error) {
	s, ok := f.byUsername[username]
	if !ok {
		return nil, repository.ErrSellerNotFound
	}
	return s, nil
}

func (f *fakeSellers) DB() *sql.DB { return nil }

type fakeTokens struct {
	refresh map[string]uint64
}

func newFakeTokens() *fakeTokens { return &fakeTokens{refresh: make(map[string]uint64)} }

func (f *fakeTokens) StoreRefresh(ctx context.Context, sellerID uint64, tokenHash string, exp time.Time) error {
	f.refresh[tokenHash] = sellerID
	return nil
}

func (f *fakeTokens) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	id, ok := f.refresh[tokenHash]
	if !ok {
		return 0, sql.ErrNoRows
	}
	return id, nil
}

func (f *fakeTokens) RevokeByHash(ctx context.Context, tokenHash string) error {
	delete(f.refresh, tokenHash)
	return nil
}

func newTestAuthHandler(t *testing.T) (*AuthHandler, *fakeSellers, *fakeTokens) {
	t.Helper()
	sellers := newFakeSellers()
	tokens := newFakeTokens()
	cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: 4}
	return NewAuthHandler(cfg, sellers, tokens), sellers, tokens
}

func seedSeller(t *testing.T, sellers *fakeSellers, username, password string) *model.Seller {
	t.Helper()
	hash, err := utils.HashPassword(password, 4)
	require.NoError(t, err)
	s := &model.Seller{Username: username, DisplayName: username, PasswordHash: hash,
		Role: model.RoleSeller, IsActive: true}
	require.NoError(t, sellers.Create(context.Background(), s))
	return s
}

func TestLoginUnknownUsernameIsUnauthorized(t *testing.T) {
	h, _, _ := newTestAuthHandler(t)

	c, rec := newCtx(http.MethodPost, "/v1/auth/login", `{"username":"nobody","password":"pw"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	h, sellers, _ := newTestAuthHandler(t)
	seedSeller(t, sellers, "maria", "correct-horse")

	c, rec := newCtx(http.MethodPost, "/v1/auth/login", `{"username":"maria","password":"wrong"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	h, sellers, tokens := newTestAuthHandler(t)
	seedSeller(t, sellers, "maria", "correct-horse")

	c, rec := newCtx(http.MethodPost, "/v1/auth/login", `{"username":"Maria","password":"correct-horse"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access"`)
	assert.Contains(t, rec.Body.String(), `"refresh"`)
	assert.Len(t, tokens.refresh, 1)
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	h, sellers, _ := newTestAuthHandler(t)
	seedSeller(t, sellers, "maria", "pw")

	c, rec := newCtx(http.MethodPost, "/v1/auth/register", `{"username":"maria","password":"pw2"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
