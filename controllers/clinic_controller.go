package controllers

import (
	"net/http"
	"time"

	"clinic/models"
	"clinic/services"

	"github.com/gorilla/mux"
)

// ClinicController обрабатывает запросы по пациентам, записям, исследованиям и складу
type ClinicController struct {
	patients     *services.PatientService
	appointments *services.AppointmentService
	exams        *services.ExamService
	inventory    *services.InventoryService
}

// NewClinicController создает новый экземпляр ClinicController
func NewClinicController(
	patients *services.PatientService,
	appointments *services.AppointmentService,
	exams *services.ExamService,
	inventory *services.InventoryService,
) *ClinicController {
	return &ClinicController{
		patients:     patients,
		appointments: appointments,
		exams:        exams,
		inventory:    inventory,
	}
}

// ListPatients возвращает пациентов с поиском по имени, email или телефону
func (c *ClinicController) ListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := c.patients.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, patients)
}

// GetPatient возвращает пациента по ID
func (c *ClinicController) GetPatient(w http.ResponseWriter, r *http.Request) {
	patient, err := c.patients.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, patient)
}

// CreatePatient создает пациента
func (c *ClinicController) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var dto services.PatientDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	patient, err := c.patients.Create(r.Context(), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, patient)
}

// UpdatePatient обновляет данные пациента
func (c *ClinicController) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	var dto services.PatientDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	patient, err := c.patients.Update(r.Context(), mux.Vars(r)["id"], dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, patient)
}

// ListAppointments возвращает записи с фильтрами status, doctorId, from, to
func (c *ClinicController) ListAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := services.AppointmentFilter{
		Status:   models.AppointmentStatus(q.Get("status")),
		DoctorID: q.Get("doctorId"),
	}

	var ok bool
	if filter.From, ok = parseTimeParam(w, q.Get("from"), "from"); !ok {
		return
	}
	if filter.To, ok = parseTimeParam(w, q.Get("to"), "to"); !ok {
		return
	}

	appointments, err := c.appointments.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appointments)
}

// GetAppointment возвращает запись по ID
func (c *ClinicController) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointment, err := c.appointments.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}

// CreateAppointment создает запись на прием
func (c *ClinicController) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var dto services.AppointmentDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	appointment, err := c.appointments.Create(r.Context(), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, appointment)
}

// UpdateAppointment обновляет запись на прием
func (c *ClinicController) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var dto services.AppointmentDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	appointment, err := c.appointments.Update(r.Context(), mux.Vars(r)["id"], dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}

// ListExams возвращает исследования
func (c *ClinicController) ListExams(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exams, err := c.exams.List(r.Context(), services.ExamFilter{
		Search: q.Get("search"),
		Status: models.ExamStatus(q.Get("status")),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exams)
}

// GetExam возвращает исследование по ID
func (c *ClinicController) GetExam(w http.ResponseWriter, r *http.Request) {
	exam, err := c.exams.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exam)
}

// CreateExam создает исследование
func (c *ClinicController) CreateExam(w http.ResponseWriter, r *http.Request) {
	var dto services.ExamDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	exam, err := c.exams.Create(r.Context(), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, exam)
}

// UpdateExam обновляет исследование
func (c *ClinicController) UpdateExam(w http.ResponseWriter, r *http.Request) {
	var dto services.ExamDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	exam, err := c.exams.Update(r.Context(), mux.Vars(r)["id"], dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exam)
}

// ListInventory возвращает позиции склада
func (c *ClinicController) ListInventory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := c.inventory.List(r.Context(), q.Get("search"), models.InventoryCategory(q.Get("category")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// LowStock возвращает позиции, требующие пополнения
func (c *ClinicController) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := c.inventory.LowStock(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GetInventoryItem возвращает позицию склада по ID
func (c *ClinicController) GetInventoryItem(w http.ResponseWriter, r *http.Request) {
	item, err := c.inventory.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// CreateInventoryItem создает позицию склада
func (c *ClinicController) CreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var dto services.InventoryItemDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	item, err := c.inventory.Create(r.Context(), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// UpdateInventoryItem обновляет позицию склада
func (c *ClinicController) UpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var dto services.InventoryItemDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	item, err := c.inventory.Update(r.Context(), mux.Vars(r)["id"], dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// parseTimeParam разбирает параметр запроса в формате RFC3339 или YYYY-MM-DD
func parseTimeParam(w http.ResponseWriter, value, name string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, true
		}
	}
	writeErrorMessage(w, http.StatusBadRequest, "Invalid "+name+" parameter")
	return nil, false
}
