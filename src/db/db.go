package db

import (
	"log"
	"time"

	"rms/src/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func GetDb() *gorm.DB {
	if db != nil {
		return db
	}
	_db, err := gorm.Open(postgres.Open(config.GetDSN()), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Printf("[db] error connecting to database: %s\n", err.Error())
		panic(err)
	}
	sqlDB, err := _db.DB()
	if err != nil {
		log.Fatalf("[db] error establishing connection pool: %s\n", err.Error())
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	// recycle connections before the load balancer does
	sqlDB.SetConnMaxLifetime(time.Hour)

	db = _db
	return _db
}

// NewDB replaces the shared instance, used by tests to swap in sqlmock.
func NewDB(newdb *gorm.DB) {
	db = newdb
}
