package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"oficios-server/apperrors"
	"oficios-server/models"
	"oficios-server/utils"
)

// AccountService is the user directory boundary: account creation and
// credential checks for the auth routes, worker lookups for the core.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

type SignUpInput struct {
	FullName string
	Email    string
	Password string
	Role     string
}

// SignUp creates an account. Only the usuario and trabajador roles can be
// self-assigned; admin accounts are provisioned out of band.
func (s *AccountService) SignUp(in SignUpInput) (*models.User, error) {
	role := models.RoleClient
	switch models.UserRole(in.Role) {
	case models.RoleWorker:
		role = models.RoleWorker
	case models.RoleClient, "":
	default:
		return nil, apperrors.NewValidationError("role must be usuario or trabajador")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to hash password", err)
	}

	user := models.User{
		FullName:     in.FullName,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflictError("An account with this email already exists")
		}
		return nil, apperrors.NewInternalError("Failed to create account", err)
	}

	return &user, nil
}

// Authenticate verifies the credentials and returns the account. The same
// error is returned for a missing account and a wrong password.
func (s *AccountService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewUnauthorizedError("Invalid email or password")
		}
		return nil, apperrors.NewInternalError("Failed to fetch account", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError("Invalid email or password")
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorizedError("User account is deactivated")
	}

	return &user, nil
}

// ByID loads an account by id.
func (s *AccountService) ByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("User not found")
		}
		return nil, apperrors.NewInternalError("Failed to fetch account", err)
	}
	return &user, nil
}
