package services

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"clinic/database"
	"clinic/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type countingRecalculator struct {
	calls atomic.Int64
}

func (r *countingRecalculator) Recalculate(ctx context.Context) ([]models.DoctorPayout, error) {
	r.calls.Add(1)
	return nil, nil
}

func openSchedulerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "scheduler.db")), &gorm.Config{
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

func TestSchedulerService_ProcessOverdueCutoff(t *testing.T) {
	db := openSchedulerDB(t)
	ctx := context.Background()

	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	newTx := func(date time.Time, status models.PaymentStatus) models.Transaction {
		tx := models.Transaction{
			ReferenceType: models.ReferenceTypeOther,
			Date:          date,
			Description:   "Consulta",
			Amount:        decimal.RequireFromString("100.00"),
			Status:        status,
		}
		require.NoError(t, db.Create(&tx).Error)
		return tx
	}

	// OverdueAfterDays=30 дает границу 2024-03-01 12:00
	beforeCutoff := newTx(time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC), models.PaymentStatusPending)
	afterCutoff := newTx(time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC), models.PaymentStatusPending)
	paid := newTx(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), models.PaymentStatusPaid)

	transactions := NewTransactionService(db, nil, PIXConfig{})
	scheduler := NewSchedulerService(transactions, &countingRecalculator{}, SchedulerConfig{OverdueAfterDays: 30})
	scheduler.now = func() time.Time { return now }

	require.NoError(t, scheduler.ProcessOverdue(ctx))

	statusOf := func(id string) models.PaymentStatus {
		var tx models.Transaction
		require.NoError(t, db.First(&tx, "id = ?", id).Error)
		return tx.Status
	}
	assert.Equal(t, models.PaymentStatusOverdue, statusOf(beforeCutoff.ID))
	assert.Equal(t, models.PaymentStatusPending, statusOf(afterCutoff.ID))
	assert.Equal(t, models.PaymentStatusPaid, statusOf(paid.ID))
}

func TestSchedulerService_StopsOnContextCancel(t *testing.T) {
	recalc := &countingRecalculator{}
	scheduler := NewSchedulerService(nil, recalc, SchedulerConfig{RecalcInterval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	scheduler.Start(ctx)

	assert.Eventually(t, func() bool { return recalc.calls.Load() > 0 }, time.Second, time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() {
		scheduler.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler jobs did not stop after cancel")
	}

	calls := recalc.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, recalc.calls.Load())
}
