package models

import (
	"log"

	"bitbucket.org/mmdatafocus/aims_backend/config"
)

// MigrateTable keeps the read-side schema in sync. The editor service owns the
// authoritative migrations; this list only guards local/dev environments.
func MigrateTable() {
	db := config.GetDB()
	if db == nil {
		log.Println("skipping migration: database not initialized")
		return
	}
	err := db.AutoMigrate(
		&Activity{},
		&Transaction{},
		&ActivityRelationship{},
		&Organization{},
		&ParticipatingOrganization{},
		&ActivitySector{},
		&CurrencyExchange{},
	)
	if err != nil {
		log.Printf("auto migration failed: %v", err)
	}
}
