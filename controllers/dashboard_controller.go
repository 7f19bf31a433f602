package controllers

import (
	"net/http"

	"clinic/services"
	"clinic/utils"
)

// DashboardController отдает сводные показатели клиники
type DashboardController struct {
	dashboard *services.DashboardService
}

// NewDashboardController создает новый экземпляр DashboardController
func NewDashboardController(dashboard *services.DashboardService) *DashboardController {
	return &DashboardController{dashboard: dashboard}
}

// Summary возвращает сводку для главной страницы
func (c *DashboardController) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.dashboard.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Metrics возвращает снимок метрик приложения
func (c *DashboardController) Metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, utils.GetMetrics().GetMetricsSnapshot())
}

// Health проверка доступности сервиса
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
