package cmd

import (
	"clinic/config"
	"clinic/database"
	"clinic/services"
)

// app связывает сервисы приложения с базой данных
type app struct {
	db           *database.Database
	users        *services.UserService
	settings     *services.SettingsService
	patients     *services.PatientService
	appointments *services.AppointmentService
	exams        *services.ExamService
	inventory    *services.InventoryService
	payouts      *services.PayoutService
	transactions *services.TransactionService
	dashboard    *services.DashboardService
	scheduler    *services.SchedulerService
}

// newApp подключается к базе данных и создает сервисы
func newApp(cfg *config.Config) (*app, error) {
	db, err := database.NewDatabase(cfg)
	if err != nil {
		return nil, err
	}

	gdb := db.GetDB()
	email := services.NewEmailService(cfg)
	payouts := services.NewPayoutService(gdb, email)
	transactions := services.NewTransactionService(gdb, payouts, services.PIXConfig{
		Key:          cfg.PIX.Key,
		MerchantName: cfg.PIX.MerchantName,
		MerchantCity: cfg.PIX.MerchantCity,
	})

	return &app{
		db:           db,
		users:        services.NewUserService(gdb),
		settings:     services.NewSettingsService(gdb),
		patients:     services.NewPatientService(gdb),
		appointments: services.NewAppointmentService(gdb),
		exams:        services.NewExamService(gdb),
		inventory:    services.NewInventoryService(gdb),
		payouts:      payouts,
		transactions: transactions,
		dashboard:    services.NewDashboardService(gdb),
		scheduler: services.NewSchedulerService(transactions, payouts, services.SchedulerConfig{
			OverdueAfterDays: cfg.Scheduler.OverdueAfterDays,
			OverdueInterval:  cfg.Scheduler.OverdueInterval,
			RecalcInterval:   cfg.Scheduler.RecalcInterval,
		}),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
