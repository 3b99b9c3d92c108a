package models

import (
	"log"

	"github.com/smilefnb/smile_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Order{},
		&Report{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
