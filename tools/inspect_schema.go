package main

import (
	"flag"
	"fmt"

	"github.com/localnerve/lofreports/internal/config"
	"github.com/localnerve/lofreports/internal/database"
	"github.com/localnerve/lofreports/internal/logger"
)

// Prints the tables and indexes AutoMigrate creates, using an in-memory
// SQLite database.
func main() {
	dbType := flag.String("driver", "sqlite-purego", "sqlite or sqlite-purego")
	flag.Parse()

	log := logger.New("inspect-schema", logger.Options{Level: "warn"})

	db, err := database.Connect(&config.Config{
		DBType:            *dbType,
		DBDatabase:        ":memory:",
		DBConnectionLimit: 1,
		LogLevel:          "warn",
	}, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("failed to migrate")
	}

	var tables []string
	db.Raw("SELECT name FROM sqlite_master WHERE type='table' ORDER BY name").Scan(&tables)

	for _, table := range tables {
		fmt.Printf("\n=== Table: %s ===\n", table)
		var schema string
		db.Raw("SELECT sql FROM sqlite_master WHERE name = ?", table).Scan(&schema)
		fmt.Println(schema)

		indexes, err := db.Migrator().GetIndexes(table)
		if err != nil {
			continue
		}
		for _, idx := range indexes {
			unique, _ := idx.Unique()
			fmt.Printf("  index %s %v unique=%v\n", idx.Name(), idx.Columns(), unique)
		}
	}
}
