package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&IdentifierRecord{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&DuplicateAlert{}); err != nil {
		return err
	}

	return nil
}
