package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oficios-server/apperrors"
	"oficios-server/models"
)

func TestSignUp(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db)

	t.Run("defaults to usuario", func(t *testing.T) {
		user, err := svc.SignUp(SignUpInput{FullName: "Ana", Email: "ana@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, models.RoleClient, user.Role)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "secret123", user.PasswordHash)
	})

	t.Run("trabajador may be self-assigned", func(t *testing.T) {
		user, err := svc.SignUp(SignUpInput{FullName: "Beto", Email: "beto@example.com", Password: "secret123", Role: "trabajador"})
		require.NoError(t, err)
		assert.Equal(t, models.RoleWorker, user.Role)
	})

	t.Run("admin may not be self-assigned", func(t *testing.T) {
		_, err := svc.SignUp(SignUpInput{FullName: "Eva", Email: "eva@example.com", Password: "secret123", Role: "admin"})
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})

	t.Run("email is normalized and unique", func(t *testing.T) {
		_, err := svc.SignUp(SignUpInput{FullName: "Ana 2", Email: "  ANA@example.com ", Password: "secret123"})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.TypeOf(err))
	})
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db)

	created, err := svc.SignUp(SignUpInput{FullName: "Ana", Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	user, err := svc.Authenticate("ana@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	// Wrong password and unknown account yield the same error.
	_, badPass := svc.Authenticate("ana@example.com", "wrong")
	_, noUser := svc.Authenticate("nobody@example.com", "secret123")
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(badPass))
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(noUser))
	assert.Equal(t, badPass.Error(), noUser.Error())

	// Deactivated accounts cannot sign in.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", created.ID).Update("is_active", false).Error)
	_, err = svc.Authenticate("ana@example.com", "secret123")
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(err))
}
