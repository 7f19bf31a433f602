package controllers

import (
	"net/http"

	"clinic/services"

	"github.com/gorilla/mux"
)

// SettingsController обрабатывает запросы справочников: врачи и услуги
type SettingsController struct {
	settings *services.SettingsService
}

// NewSettingsController создает новый экземпляр SettingsController
func NewSettingsController(settings *services.SettingsService) *SettingsController {
	return &SettingsController{settings: settings}
}

// ListDoctors возвращает список врачей
func (c *SettingsController) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := c.settings.ListDoctors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doctors)
}

// GetDoctor возвращает врача по ID
func (c *SettingsController) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctor, err := c.settings.GetDoctor(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doctor)
}

// CreateDoctor создает врача
func (c *SettingsController) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var dto services.DoctorDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	doctor, err := c.settings.CreateDoctor(r.Context(), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doctor)
}

// UpdateDoctor обновляет данные врача
func (c *SettingsController) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	var dto services.DoctorDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	doctor, err := c.settings.UpdateDoctor(r.Context(), mux.Vars(r)["id"], dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doctor)
}

// ListServices возвращает каталог услуг
func (c *SettingsController) ListServices(w http.ResponseWriter, r *http.Request) {
	list, err := c.settings.ListServices(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetService возвращает услугу по ID
func (c *SettingsController) GetService(w http.ResponseWriter, r *http.Request) {
	service, err := c.settings.GetService(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, service)
}

// CreateService создает услугу
func (c *SettingsController) CreateService(w http.ResponseWriter, r *http.Request) {
	var dto services.ServiceDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	service, err := c.settings.CreateService(r.Context(), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, service)
}

// UpdateService обновляет услугу
func (c *SettingsController) UpdateService(w http.ResponseWriter, r *http.Request) {
	var dto services.ServiceDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	service, err := c.settings.UpdateService(r.Context(), mux.Vars(r)["id"], dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, service)
}
