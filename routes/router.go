package routes

import (
	"net/http"

	"clinic/config"
	"clinic/controllers"
	"clinic/middleware"
	"clinic/utils"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
)

// Controllers набор контроллеров, которые обслуживает роутер
type Controllers struct {
	Auth      *controllers.AuthController
	Settings  *controllers.SettingsController
	Clinic    *controllers.ClinicController
	Financial *controllers.FinancialController
	Dashboard *controllers.DashboardController
}

// NewRouter создает роутер со всеми маршрутами API
func NewRouter(cfg *config.Config, c Controllers) http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.RecoveryMiddleware)
	router.Use(middleware.LoggingMiddleware)

	router.HandleFunc("/health", controllers.Health).Methods(http.MethodGet)

	// Публичные маршруты для аутентификации
	limiter := utils.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	auth := router.PathPrefix("/api/auth").Subrouter()
	auth.Use(middleware.RateLimit(limiter))
	auth.HandleFunc("/register", c.Auth.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", c.Auth.Login).Methods(http.MethodPost)

	// Защищенные маршруты
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.AuthMiddleware(c.Auth.GetJWTKey()))

	protected.HandleFunc("/users/profile", c.Auth.Profile).Methods(http.MethodGet)

	// Дашборд
	protected.HandleFunc("/dashboard", c.Dashboard.Summary).Methods(http.MethodGet)
	protected.HandleFunc("/metrics", c.Dashboard.Metrics).Methods(http.MethodGet)

	// Пациенты
	protected.HandleFunc("/patients", c.Clinic.ListPatients).Methods(http.MethodGet)
	protected.HandleFunc("/patients", c.Clinic.CreatePatient).Methods(http.MethodPost)
	protected.HandleFunc("/patients/{id}", c.Clinic.GetPatient).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}", c.Clinic.UpdatePatient).Methods(http.MethodPut)

	// Записи на прием
	protected.HandleFunc("/appointments", c.Clinic.ListAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments", c.Clinic.CreateAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id}", c.Clinic.GetAppointment).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", c.Clinic.UpdateAppointment).Methods(http.MethodPut)

	// Исследования
	protected.HandleFunc("/exams", c.Clinic.ListExams).Methods(http.MethodGet)
	protected.HandleFunc("/exams", c.Clinic.CreateExam).Methods(http.MethodPost)
	protected.HandleFunc("/exams/{id}", c.Clinic.GetExam).Methods(http.MethodGet)
	protected.HandleFunc("/exams/{id}", c.Clinic.UpdateExam).Methods(http.MethodPut)

	// Склад
	protected.HandleFunc("/inventory", c.Clinic.ListInventory).Methods(http.MethodGet)
	protected.HandleFunc("/inventory", c.Clinic.CreateInventoryItem).Methods(http.MethodPost)
	protected.HandleFunc("/inventory/low-stock", c.Clinic.LowStock).Methods(http.MethodGet)
	protected.HandleFunc("/inventory/{id}", c.Clinic.GetInventoryItem).Methods(http.MethodGet)
	protected.HandleFunc("/inventory/{id}", c.Clinic.UpdateInventoryItem).Methods(http.MethodPut)

	// Настройки: врачи и услуги
	protected.HandleFunc("/settings/doctors", c.Settings.ListDoctors).Methods(http.MethodGet)
	protected.HandleFunc("/settings/doctors", c.Settings.CreateDoctor).Methods(http.MethodPost)
	protected.HandleFunc("/settings/doctors/{id}", c.Settings.GetDoctor).Methods(http.MethodGet)
	protected.HandleFunc("/settings/doctors/{id}", c.Settings.UpdateDoctor).Methods(http.MethodPut)
	protected.HandleFunc("/settings/services", c.Settings.ListServices).Methods(http.MethodGet)
	protected.HandleFunc("/settings/services", c.Settings.CreateService).Methods(http.MethodPost)
	protected.HandleFunc("/settings/services/{id}", c.Settings.GetService).Methods(http.MethodGet)
	protected.HandleFunc("/settings/services/{id}", c.Settings.UpdateService).Methods(http.MethodPut)

	// Транзакции
	protected.HandleFunc("/transactions", c.Financial.ListTransactions).Methods(http.MethodGet)
	protected.HandleFunc("/transactions", c.Financial.CreateTransaction).Methods(http.MethodPost)
	protected.HandleFunc("/transactions/{id}", c.Financial.GetTransaction).Methods(http.MethodGet)
	protected.HandleFunc("/transactions/{id}", c.Financial.UpdateTransaction).Methods(http.MethodPut)
	protected.HandleFunc("/transactions/{id}/pay", c.Financial.PayTransaction).Methods(http.MethodPost)
	protected.HandleFunc("/transactions/{id}/qrcode", c.Financial.TransactionQRCode).Methods(http.MethodGet)

	// Сверка оплат записей
	protected.HandleFunc("/reconciliation/pending", c.Financial.PendingReconciliation).Methods(http.MethodGet)
	protected.HandleFunc("/reconciliation/appointments/{appointmentId}/confirm", c.Financial.ConfirmPayment).Methods(http.MethodPost)

	// Выплаты врачам
	protected.HandleFunc("/payouts", c.Financial.ListPayouts).Methods(http.MethodGet)
	protected.HandleFunc("/payouts/recalculate", c.Financial.RecalculatePayouts).Methods(http.MethodPost)
	protected.HandleFunc("/payouts/export.xlsx", c.Financial.ExportPayoutsXLSX).Methods(http.MethodGet)
	protected.HandleFunc("/payouts/export.xml", c.Financial.ExportPayoutsXML).Methods(http.MethodGet)
	protected.HandleFunc("/payouts/{id}/pay", c.Financial.PayPayout).Methods(http.MethodPost)

	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})(router)
}
