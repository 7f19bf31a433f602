package services

import (
	"context"
	"fmt"
	"time"

	"clinic/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const upcomingAppointmentsLimit = 5

// DailyRevenue выручка за день
type DailyRevenue struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Revenue decimal.Decimal `json:"revenue"`
}

// DashboardSummary сводка для главной страницы
type DashboardSummary struct {
	TotalRevenue         decimal.Decimal                    `json:"totalRevenue"`
	PendingPayments      decimal.Decimal                    `json:"pendingPayments"`
	PatientCount         int64                              `json:"patientCount"`
	LowStockItems        []models.InventoryItem             `json:"lowStockItems"`
	UpcomingAppointments []models.Appointment               `json:"upcomingAppointments"`
	AppointmentsByStatus map[models.AppointmentStatus]int64 `json:"appointmentsByStatus"`
	RevenueLast7Days     []DailyRevenue                     `json:"revenueLast7Days"`
}

// DashboardService собирает сводные показатели клиники
type DashboardService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDashboardService создает новый экземпляр DashboardService
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db, now: time.Now}
}

// Summary возвращает сводку по выручке, складу и записям
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	db := s.db.WithContext(ctx)
	now := s.now()

	var transactions []models.Transaction
	if err := db.Where("status IN ?", []models.PaymentStatus{
		models.PaymentStatusPaid,
		models.PaymentStatusPending,
		models.PaymentStatusUnpaid,
	}).Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("ошибка при получении транзакций: %w", err)
	}

	summary := &DashboardSummary{
		TotalRevenue:         decimal.Zero,
		PendingPayments:      decimal.Zero,
		AppointmentsByStatus: make(map[models.AppointmentStatus]int64),
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	firstDay := today.AddDate(0, 0, -6)
	daily := make(map[string]decimal.Decimal, 7)

	for _, t := range transactions {
		switch t.Status {
		case models.PaymentStatusPaid:
			summary.TotalRevenue = summary.TotalRevenue.Add(t.Amount)
			day := t.Date.In(now.Location())
			if !day.Before(firstDay) && day.Before(today.AddDate(0, 0, 1)) {
				key := day.Format(time.DateOnly)
				daily[key] = daily[key].Add(t.Amount)
			}
		case models.PaymentStatusPending, models.PaymentStatusUnpaid:
			summary.PendingPayments = summary.PendingPayments.Add(t.Amount)
		}
	}

	for i := 0; i < 7; i++ {
		key := firstDay.AddDate(0, 0, i).Format(time.DateOnly)
		summary.RevenueLast7Days = append(summary.RevenueLast7Days, DailyRevenue{Date: key, Revenue: daily[key]})
	}

	if err := db.Model(&models.Patient{}).Count(&summary.PatientCount).Error; err != nil {
		return nil, fmt.Errorf("ошибка при подсчете пациентов: %w", err)
	}

	if err := db.Where("quantity <= reorder_level").Order("quantity, name").
		Find(&summary.LowStockItems).Error; err != nil {
		return nil, fmt.Errorf("ошибка при получении склада: %w", err)
	}

	if err := db.Where("date_time >= ? AND status IN ?", now, []models.AppointmentStatus{
		models.AppointmentStatusScheduled,
		models.AppointmentStatusConfirmed,
		models.AppointmentStatusPendingConfirmation,
	}).Order("date_time").Limit(upcomingAppointmentsLimit).
		Find(&summary.UpcomingAppointments).Error; err != nil {
		return nil, fmt.Errorf("ошибка при получении ближайших записей: %w", err)
	}

	var counts []struct {
		Status models.AppointmentStatus
		Total  int64
	}
	if err := db.Model(&models.Appointment{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("ошибка при подсчете записей: %w", err)
	}
	for _, c := range counts {
		summary.AppointmentsByStatus[c.Status] = c.Total
	}

	return summary, nil
}
