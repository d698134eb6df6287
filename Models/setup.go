package Models

import (
	"log"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "database.db"
	}

	connection, err := gorm.Open(sqlite.Open(path))
	if err != nil {
		log.Fatalf("Failed to open database %s: %v", path, err)
	}
	DB = connection

	// 1. Base entities first
	DB.AutoMigrate(
		&User{},
		&Space{},
		&SpaceMember{},
	)

	// 2. Then everything keyed by user/space
	DB.AutoMigrate(
		&Task{},
		&TaskRecord{},
		&HistoryRecord{},
		&Dream{},
		&UserSetting{},
	)

	// 3. Derived aggregates last
	DB.AutoMigrate(&DailyTaskStat{})
}
