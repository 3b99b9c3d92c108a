// Schema migration as a standalone job, for deployments that set
// SKIP_MIGRATIONS=true on the server.
package main

import (
	"log"

	"github.com/smilefnb/smile_backend/config"
	"github.com/smilefnb/smile_backend/models"
)

func main() {
	config.ConnectDatabaseWithRetry()
	models.MigrateTable()
	log.Printf("migrations applied (driver=%s)", config.DatabaseDriver())
}
