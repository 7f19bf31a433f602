package services_test

import (
	"context"
	"testing"

	"clinic/models"
	"clinic/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampPayoutShare(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.5", "1"},
		{"-0.2", "0"},
		{"0", "0"},
		{"0.35", "0.35"},
		{"0.123456", "0.1235"},
		{"1", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assertDecimal(t, tt.want, services.ClampPayoutShare(dec(tt.in)))
		})
	}
}

func TestSettingsService_Doctors(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := services.NewSettingsService(db)

	over := decimal.RequireFromString("1.5")
	doctor, err := svc.CreateDoctor(ctx, services.DoctorDTO{Name: " Ana ", Specialty: "Cardiologia", PayoutShare: &over})
	require.NoError(t, err)
	assert.Equal(t, "Ana", doctor.Name)
	require.True(t, doctor.PayoutShare.Valid)
	assertDecimal(t, "1", doctor.PayoutShare.Decimal)

	t.Run("missing share is stored as NULL and defaults to half", func(t *testing.T) {
		updated, err := svc.UpdateDoctor(ctx, doctor.ID, services.DoctorDTO{Name: "Ana", Specialty: "Cardiologia"})
		require.NoError(t, err)
		assert.False(t, updated.PayoutShare.Valid)

		stored, err := svc.GetDoctor(ctx, doctor.ID)
		require.NoError(t, err)
		assert.False(t, stored.PayoutShare.Valid)
		assertDecimal(t, "0.5", stored.Share())
	})

	t.Run("explicit zero share is kept", func(t *testing.T) {
		zero := decimal.Zero
		_, err := svc.UpdateDoctor(ctx, doctor.ID, services.DoctorDTO{Name: "Ana", PayoutShare: &zero})
		require.NoError(t, err)

		stored, err := svc.GetDoctor(ctx, doctor.ID)
		require.NoError(t, err)
		require.True(t, stored.PayoutShare.Valid)
		assertDecimal(t, "0", stored.Share())
	})

	t.Run("name is required", func(t *testing.T) {
		_, err := svc.CreateDoctor(ctx, services.DoctorDTO{})
		assert.ErrorIs(t, err, services.ErrValidation)
	})

	t.Run("unknown doctor", func(t *testing.T) {
		_, err := svc.UpdateDoctor(ctx, "missing", services.DoctorDTO{Name: "X"})
		assert.ErrorIs(t, err, services.ErrNotFound)
	})
}

func TestSettingsService_Services(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := services.NewSettingsService(db)

	service, err := svc.CreateService(ctx, services.ServiceDTO{
		Name:     "Consulta",
		Price:    dec("150.00"),
		Category: models.ServiceCategoryConsultation,
	})
	require.NoError(t, err)

	_, err = svc.UpdateService(ctx, service.ID, services.ServiceDTO{
		Name:     "Consulta",
		Price:    dec("180.00"),
		Category: models.ServiceCategoryConsultation,
	})
	require.NoError(t, err)

	stored, err := svc.GetService(ctx, service.ID)
	require.NoError(t, err)
	assertDecimal(t, "180", stored.Price)

	_, err = svc.CreateService(ctx, services.ServiceDTO{Name: "X", Price: dec("-1"), Category: models.ServiceCategoryExam})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.CreateService(ctx, services.ServiceDTO{Name: "X", Price: dec("1"), Category: "Surgery"})
	assert.ErrorIs(t, err, services.ErrValidation)
}
