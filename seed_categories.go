package main

import (
	"log"

	"gorm.io/gorm"

	"oficios-server/models"
)

// seedCategories inserts the initial category catalog. Existing categories
// are left untouched so re-running the seed is safe.
func seedCategories(db *gorm.DB) error {
	categories := []models.Category{
		{
			Name:        "Plomería",
			Description: "Reparación de fugas, grifos e instalaciones de plomería",
			Icon:        "water",
			IsActive:    true,
			SortOrder:   1,
		},
		{
			Name:        "Electricidad",
			Description: "Instalaciones y reparaciones eléctricas residenciales",
			Icon:        "flash",
			IsActive:    true,
			SortOrder:   2,
		},
		{
			Name:        "Limpieza",
			Description: "Servicio de limpieza profesional a domicilio u oficina",
			Icon:        "sparkles",
			IsActive:    true,
			SortOrder:   3,
		},
		{
			Name:        "Carpintería",
			Description: "Muebles a medida, reparaciones y acabados en madera",
			Icon:        "hammer",
			IsActive:    true,
			SortOrder:   4,
		},
		{
			Name:        "Pintura",
			Description: "Pintura de interiores y exteriores",
			Icon:        "color-palette",
			IsActive:    true,
			SortOrder:   5,
		},
		{
			Name:        "Jardinería",
			Description: "Mantenimiento de jardines y áreas verdes",
			Icon:        "leaf",
			IsActive:    true,
			SortOrder:   6,
		},
	}

	for _, category := range categories {
		var existing models.Category
		err := db.Where("name = ?", category.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&category).Error; err != nil {
			return err
		}
		log.Printf("seeded category %q", category.Name)
	}

	return nil
}
