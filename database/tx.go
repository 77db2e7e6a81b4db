package database

import (
	"log"

	"gorm.io/gorm"

	"oficios-server/apperrors"
)

// WithTransaction runs fn inside a single transaction. Any error returned
// from fn, business-rule rejections included, rolls the whole unit back
// and is propagated to the caller unchanged. A failure of the rollback
// itself is logged and suppressed so it never masks the original error.
func WithTransaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.NewInternalError("Failed to start transaction", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			if rbErr := tx.Rollback().Error; rbErr != nil {
				log.Printf("rollback after panic failed: %v", rbErr)
			}
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			log.Printf("transaction rollback failed: %v (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil && rbErr != gorm.ErrInvalidTransaction {
			log.Printf("rollback after failed commit also failed: %v", rbErr)
		}
		return apperrors.NewInternalError("Failed to commit transaction", err)
	}

	return nil
}
