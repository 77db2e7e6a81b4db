package services

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"oficios-server/database"
	"oficios-server/models"
	"oficios-server/permissions"
)

// newTestDB opens a throwaway sqlite database with the full schema so the
// services run against a real transactional store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string, role models.UserRole) models.User {
	t.Helper()

	user := models.User{
		FullName:     name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()

	category := models.Category{Name: name, IsActive: true}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func createRequest(t *testing.T, db *gorm.DB, client models.User, category models.Category, status models.RequestStatus, worker *models.User) models.ServiceRequest {
	t.Helper()

	req := models.ServiceRequest{
		ClientID:    client.ID,
		CategoryID:  category.ID,
		Description: "test request",
		Status:      status,
	}
	if worker != nil {
		req.WorkerID = &worker.ID
	}
	require.NoError(t, db.Create(&req).Error)
	return req
}

func actorFor(u models.User) permissions.Actor {
	return permissions.Actor{ID: u.ID, Role: u.Role}
}
