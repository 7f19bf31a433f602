package services_test

import (
	"context"
	"testing"
	"time"

	"clinic/models"
	"clinic/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientService(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := services.NewPatientService(db)

	joao, err := svc.Create(ctx, services.PatientDTO{Name: "João Silva", Phone: "11999990000", DateOfBirth: "1980-05-17"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, services.PatientDTO{Name: "Maria Souza", Email: "maria@example.com"})
	require.NoError(t, err)

	tests := []struct {
		search string
		want   int
	}{
		{"", 2},
		{"silva", 1},
		{"MARIA@", 1},
		{"99999", 1},
		{"nobody", 0},
	}
	for _, tt := range tests {
		t.Run("search "+tt.search, func(t *testing.T) {
			patients, err := svc.List(ctx, tt.search)
			require.NoError(t, err)
			assert.Len(t, patients, tt.want)
		})
	}

	_, err = svc.Create(ctx, services.PatientDTO{Name: "X", DateOfBirth: "17/05/1980"})
	assert.ErrorIs(t, err, services.ErrValidation)

	updated, err := svc.Update(ctx, joao.ID, services.PatientDTO{Name: "João da Silva", Phone: "11999990000"})
	require.NoError(t, err)
	assert.Equal(t, "João da Silva", updated.Name)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestAppointmentService(t *testing.T) {
	f := newClinicFixture(t)
	ctx := context.Background()

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	appointment := f.newAppointment(t, at)

	assert.Equal(t, f.patient.Name, appointment.PatientName)
	assert.Equal(t, f.doctor.Name, appointment.DoctorName)
	assert.Equal(t, f.service.Name, appointment.ServiceName)
	assert.Equal(t, models.AppointmentStatusScheduled, appointment.Status)
	assert.Equal(t, models.DefaultAppointmentDuration, appointment.DurationMinutes)
	assert.Equal(t, models.PaymentStatusPending, appointment.PaymentStatus)

	t.Run("unknown doctor is a validation error", func(t *testing.T) {
		_, err := f.appointments.Create(ctx, services.AppointmentDTO{
			PatientID: f.patient.ID,
			DoctorID:  "missing",
			ServiceID: f.service.ID,
			DateTime:  at,
		})
		assert.ErrorIs(t, err, services.ErrValidation)
	})

	t.Run("filters", func(t *testing.T) {
		later := f.newAppointment(t, at.Add(48*time.Hour))
		_, err := f.appointments.Update(ctx, later.ID, services.AppointmentDTO{
			PatientID: f.patient.ID,
			DoctorID:  f.doctor.ID,
			ServiceID: f.service.ID,
			DateTime:  later.DateTime,
			Status:    models.AppointmentStatusConfirmed,
		})
		require.NoError(t, err)

		confirmed, err := f.appointments.List(ctx, services.AppointmentFilter{Status: models.AppointmentStatusConfirmed})
		require.NoError(t, err)
		require.Len(t, confirmed, 1)
		assert.Equal(t, later.ID, confirmed[0].ID)

		from := at.Add(24 * time.Hour)
		fromList, err := f.appointments.List(ctx, services.AppointmentFilter{From: &from})
		require.NoError(t, err)
		require.Len(t, fromList, 1)

		byDoctor, err := f.appointments.List(ctx, services.AppointmentFilter{DoctorID: f.doctor.ID})
		require.NoError(t, err)
		assert.Len(t, byDoctor, 2)
	})
}

func TestExamService(t *testing.T) {
	f := newClinicFixture(t)
	ctx := context.Background()
	svc := services.NewExamService(f.db)

	examType := models.Service{Name: "Hemograma", Price: dec("40.00"), Category: models.ServiceCategoryExam}
	require.NoError(t, f.db.Create(&examType).Error)

	exam, err := svc.Create(ctx, services.ExamDTO{
		PatientID:   f.patient.ID,
		DoctorID:    f.doctor.ID,
		ExamTypeID:  examType.ID,
		RequestDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		LabName:     "Lab Central",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ExamStatusRequested, exam.Status)
	assert.Equal(t, "Hemograma", exam.ExamTypeName)

	found, err := svc.List(ctx, services.ExamFilter{Search: "hemo"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	none, err := svc.List(ctx, services.ExamFilter{Status: models.ExamStatusArchived})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = svc.Create(ctx, services.ExamDTO{
		PatientID:   f.patient.ID,
		DoctorID:    f.doctor.ID,
		ExamTypeID:  examType.ID,
		RequestDate: time.Now(),
		Status:      "Lost",
	})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestInventoryService(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := services.NewInventoryService(db)

	gloves, err := svc.Create(ctx, services.InventoryItemDTO{
		Name:         "Luvas",
		Category:     models.InventoryCategoryMedicalSupplies,
		Quantity:     5,
		ReorderLevel: 10,
		Unit:         "caixa",
	})
	require.NoError(t, err)
	assert.True(t, gloves.IsLowStock())

	_, err = svc.Create(ctx, services.InventoryItemDTO{
		Name:         "Papel A4",
		Category:     models.InventoryCategoryOfficeSupplies,
		Quantity:     50,
		ReorderLevel: 10,
	})
	require.NoError(t, err)

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, gloves.ID, low[0].ID)

	office, err := svc.List(ctx, "", models.InventoryCategoryOfficeSupplies)
	require.NoError(t, err)
	assert.Len(t, office, 1)

	_, err = svc.Create(ctx, services.InventoryItemDTO{Name: "X", Category: models.InventoryCategoryMedications, Quantity: -1})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestDashboardService_Summary(t *testing.T) {
	f := newClinicFixture(t)
	ctx := context.Background()

	now := time.Now()
	paid := models.Transaction{
		ReferenceType: models.ReferenceTypeOther,
		Date:          now,
		Description:   "Consulta",
		Amount:        dec("150.00"),
		Status:        models.PaymentStatusPaid,
	}
	require.NoError(t, f.db.Create(&paid).Error)
	createTransaction(t, f.db, nil, "80.00", models.PaymentStatusPending)
	createTransaction(t, f.db, nil, "20.00", models.PaymentStatusUnpaid)
	createTransaction(t, f.db, nil, "999.00", models.PaymentStatusOverdue)

	f.newAppointment(t, now.Add(24*time.Hour))
	f.newAppointment(t, now.Add(-24*time.Hour))

	summary, err := services.NewDashboardService(f.db).Summary(ctx)
	require.NoError(t, err)

	assertDecimal(t, "150", summary.TotalRevenue)
	assertDecimal(t, "100", summary.PendingPayments)
	assert.Equal(t, int64(1), summary.PatientCount)
	assert.Len(t, summary.UpcomingAppointments, 1)
	assert.Equal(t, int64(2), summary.AppointmentsByStatus[models.AppointmentStatusScheduled])
	require.Len(t, summary.RevenueLast7Days, 7)
	assertDecimal(t, "150", summary.RevenueLast7Days[6].Revenue)
}
