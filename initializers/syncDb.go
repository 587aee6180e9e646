package initializers

import (
	"github.com/Kariqs/silkstitch-api/logger"
	"github.com/Kariqs/silkstitch-api/models"
	"gorm.io/gorm"
)

func SyncDatabase(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.ProductImage{}, &models.CartSnapshot{}); err != nil {
		return err
	}
	logger.Log.Info("database synced successfully")
	return nil
}
