package services_test

import (
	"path/filepath"
	"testing"
	"time"

	"clinic/database"
	"clinic/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB открывает пустую базу SQLite во временном каталоге теста
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "clinic.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func createDoctor(t *testing.T, db *gorm.DB, name, payoutShare, email string) models.Doctor {
	t.Helper()
	doctor := models.Doctor{Name: name, Email: email}
	if payoutShare != "" {
		doctor.PayoutShare = share(payoutShare)
	}
	require.NoError(t, db.Create(&doctor).Error)
	return doctor
}

func createTransaction(t *testing.T, db *gorm.DB, doctorID *string, amount string, status models.PaymentStatus) models.Transaction {
	t.Helper()
	transaction := models.Transaction{
		ReferenceType: models.ReferenceTypeOther,
		Date:          time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC),
		Description:   "Consulta",
		Amount:        dec(amount),
		Status:        status,
		DoctorID:      doctorID,
	}
	require.NoError(t, db.Create(&transaction).Error)
	return transaction
}
