package services_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"clinic/models"
	"clinic/services"
	mock_services "clinic/services/mocks"

	"github.com/beevik/etree"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestPayoutService_Recalculate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	ana := createDoctor(t, db, "Ana", "0.6", "")
	bruno := createDoctor(t, db, "Bruno", "", "")
	createDoctor(t, db, "Carla", "0.3", "")

	createTransaction(t, db, &ana.ID, "100.00", models.PaymentStatusPaid)
	createTransaction(t, db, &ana.ID, "75.00", models.PaymentStatusPaid)
	createTransaction(t, db, &ana.ID, "1000.00", models.PaymentStatusPending)
	createTransaction(t, db, &bruno.ID, "200.00", models.PaymentStatusPaid)
	createTransaction(t, db, nil, "500.00", models.PaymentStatusPaid)

	svc := services.NewPayoutService(db, nil)

	got, err := svc.Recalculate(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	payouts, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, payouts, 2)

	// List сортирует по имени врача
	assert.Equal(t, ana.ID, payouts[0].DoctorID)
	assertDecimal(t, "175", payouts[0].TotalBilled)
	assertDecimal(t, "0.6", payouts[0].PayoutRate)
	assertDecimal(t, "105", payouts[0].PayoutAmount)
	assert.Equal(t, models.PayoutStatusPending, payouts[0].Status)

	assert.Equal(t, bruno.ID, payouts[1].DoctorID)
	assertDecimal(t, "0.5", payouts[1].PayoutRate)
	assertDecimal(t, "100", payouts[1].PayoutAmount)

	t.Run("repeated recalculation keeps the same records", func(t *testing.T) {
		again, err := svc.Recalculate(ctx)
		require.NoError(t, err)
		require.Len(t, again, 2)

		var count int64
		require.NoError(t, db.Model(&models.DoctorPayout{}).Count(&count).Error)
		assert.Equal(t, int64(2), count)
		assert.Equal(t, payouts[0].ID, findPayout(t, again, ana.ID).ID)
	})

	t.Run("new paid transaction updates existing payout", func(t *testing.T) {
		createTransaction(t, db, &bruno.ID, "50.00", models.PaymentStatusPaid)

		_, err := svc.Recalculate(ctx)
		require.NoError(t, err)

		payout, err := svc.Get(ctx, payouts[1].ID)
		require.NoError(t, err)
		assertDecimal(t, "250", payout.TotalBilled)
		assertDecimal(t, "125", payout.PayoutAmount)
	})
}

func TestPayoutService_MarkPaid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := newTestDB(t)
	ctx := context.Background()

	doctor := createDoctor(t, db, "Ana", "0.5", "ana@clinica.com.br")
	createTransaction(t, db, &doctor.ID, "300.00", models.PaymentStatusPaid)

	notifier := mock_services.NewMockNotifier(ctrl)
	svc := services.NewPayoutService(db, notifier)

	got, err := svc.Recalculate(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	id := got[0].ID

	notifier.EXPECT().
		NotifyPayoutSettled(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d models.Doctor, p models.DoctorPayout) error {
			assert.Equal(t, "ana@clinica.com.br", d.Email)
			assert.Equal(t, id, p.ID)
			return nil
		})

	paid, err := svc.MarkPaid(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidDate)

	t.Run("already paid payout is a conflict", func(t *testing.T) {
		_, err := svc.MarkPaid(ctx, id)
		assert.ErrorIs(t, err, services.ErrConflict)
	})

	t.Run("recalculation keeps settled status", func(t *testing.T) {
		createTransaction(t, db, &doctor.ID, "100.00", models.PaymentStatusPaid)

		_, err := svc.Recalculate(ctx)
		require.NoError(t, err)

		payout, err := svc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.PayoutStatusPaid, payout.Status)
		assert.NotNil(t, payout.PaidDate)
		assertDecimal(t, "400", payout.TotalBilled)
		assertDecimal(t, "200", payout.PayoutAmount)
	})

	t.Run("unknown payout", func(t *testing.T) {
		_, err := svc.MarkPaid(ctx, "missing")
		assert.ErrorIs(t, err, services.ErrNotFound)
	})
}

func TestPayoutService_MarkPaidNotificationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := newTestDB(t)
	ctx := context.Background()

	doctor := createDoctor(t, db, "Ana", "", "ana@clinica.com.br")
	createTransaction(t, db, &doctor.ID, "80.00", models.PaymentStatusPaid)

	notifier := mock_services.NewMockNotifier(ctrl)
	notifier.EXPECT().NotifyPayoutSettled(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("smtp unavailable"))

	svc := services.NewPayoutService(db, notifier)
	got, err := svc.Recalculate(ctx)
	require.NoError(t, err)

	paid, err := svc.MarkPaid(ctx, got[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusPaid, paid.Status)
}

func TestPayoutService_MarkPaidWithoutEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := newTestDB(t)
	ctx := context.Background()

	doctor := createDoctor(t, db, "Ana", "", "")
	createTransaction(t, db, &doctor.ID, "80.00", models.PaymentStatusPaid)

	// Врач без email не уведомляется
	notifier := mock_services.NewMockNotifier(ctrl)

	svc := services.NewPayoutService(db, notifier)
	got, err := svc.Recalculate(ctx)
	require.NoError(t, err)

	_, err = svc.MarkPaid(ctx, got[0].ID)
	require.NoError(t, err)
}

func TestPayoutService_Export(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	ana := createDoctor(t, db, "Ana", "0.6", "")
	bruno := createDoctor(t, db, "Bruno", "", "")
	createTransaction(t, db, &ana.ID, "175.00", models.PaymentStatusPaid)
	createTransaction(t, db, &bruno.ID, "200.00", models.PaymentStatusPaid)

	svc := services.NewPayoutService(db, nil)
	_, err := svc.Recalculate(ctx)
	require.NoError(t, err)

	t.Run("xml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, svc.ExportXML(ctx, &buf))

		doc := etree.NewDocument()
		require.NoError(t, doc.ReadFromBytes(buf.Bytes()))

		root := doc.SelectElement("payouts")
		require.NotNil(t, root)
		assert.Equal(t, "2", root.SelectAttrValue("count", ""))
		assert.Equal(t, "205.00", root.SelectAttrValue("total", ""))
		assert.Len(t, root.SelectElements("payout"), 2)
	})

	t.Run("xlsx", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, svc.ExportXLSX(ctx, &buf))

		f, err := excelize.OpenReader(&buf)
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Repasses")
		require.NoError(t, err)
		// Заголовок, две выплаты и итог
		require.Len(t, rows, 4)
		assert.Equal(t, "Ana", rows[1][0])
		assert.Equal(t, "Bruno", rows[2][0])
	})
}
