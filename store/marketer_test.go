package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{6}$`)
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestCreateMarketer(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	m := seedMarketer(t, s, "Jane@Example.com")
	assert.Equal(t, "jane@example.com", m.Email)
	assert.Len(t, m.Code, 6)
	assert.True(t, m.CommissionPercent.Equal(d("10")))
	assert.NotEqual(t, "secret123", m.PasswordHash)

	found, err := s.FindMarketerByCode(ctx, " "+m.Code)
	require.NoError(t, err)
	assert.Equal(t, m.ID, found.ID)

	_, err = s.FindMarketerByCode(ctx, "ZZZZZZ9")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.CreateMarketer(ctx, NewMarketer{Name: "Dup", Email: "jane@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestAuthenticateMarketer(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	m := seedMarketer(t, s, "sam@example.com")

	got, err := s.AuthenticateMarketer(ctx, "SAM@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)

	_, err = s.AuthenticateMarketer(ctx, "sam@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.AuthenticateMarketer(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDeleteMarketer(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	m := seedMarketer(t, s, "del@example.com")

	require.NoError(t, s.DeleteMarketer(ctx, m.ID))
	assert.ErrorIs(t, s.DeleteMarketer(ctx, m.ID), models.ErrNotFound)

	all, err := s.ListMarketers(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
