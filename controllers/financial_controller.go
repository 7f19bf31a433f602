package controllers

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"clinic/models"
	"clinic/services"

	"github.com/gorilla/mux"
)

const maxQRSize = 1024

// FinancialController обрабатывает запросы по транзакциям, сверке оплат и выплатам врачам
type FinancialController struct {
	transactions *services.TransactionService
	payouts      *services.PayoutService
}

// NewFinancialController создает новый экземпляр FinancialController
func NewFinancialController(transactions *services.TransactionService, payouts *services.PayoutService) *FinancialController {
	return &FinancialController{
		transactions: transactions,
		payouts:      payouts,
	}
}

// ListTransactions возвращает транзакции с поиском и фильтром по статусу
func (c *FinancialController) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	transactions, err := c.transactions.List(r.Context(), services.TransactionFilter{
		Search: q.Get("search"),
		Status: models.PaymentStatus(q.Get("status")),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

// GetTransaction возвращает транзакцию по ID
func (c *FinancialController) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transaction, err := c.transactions.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transaction)
}

// CreateTransaction создает транзакцию
func (c *FinancialController) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var dto services.TransactionDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	transaction, err := c.transactions.Create(r.Context(), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, transaction)
}

// UpdateTransaction обновляет транзакцию
func (c *FinancialController) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var dto services.TransactionDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	transaction, err := c.transactions.Update(r.Context(), mux.Vars(r)["id"], dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transaction)
}

// PayTransaction отмечает транзакцию оплаченной
func (c *FinancialController) PayTransaction(w http.ResponseWriter, r *http.Request) {
	transaction, err := c.transactions.MarkPaid(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transaction)
}

// TransactionQRCode возвращает PNG с QR кодом PIX для оплаты транзакции
func (c *FinancialController) TransactionQRCode(w http.ResponseWriter, r *http.Request) {
	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxQRSize {
			writeErrorMessage(w, http.StatusBadRequest, "Invalid size parameter")
			return
		}
		size = n
	}

	png, err := c.transactions.PaymentQRCode(r.Context(), mux.Vars(r)["id"], size)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// PendingReconciliation возвращает записи на прием без подтвержденной оплаты
func (c *FinancialController) PendingReconciliation(w http.ResponseWriter, r *http.Request) {
	items, err := c.transactions.PendingReconciliation(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ConfirmPayment подтверждает оплату записи на прием
func (c *FinancialController) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	transaction, err := c.transactions.ConfirmAppointmentPayment(r.Context(), mux.Vars(r)["appointmentId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transaction)
}

// ListPayouts возвращает выплаты врачам
func (c *FinancialController) ListPayouts(w http.ResponseWriter, r *http.Request) {
	payouts, err := c.payouts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payouts)
}

// RecalculatePayouts пересчитывает выплаты по оплаченным транзакциям
func (c *FinancialController) RecalculatePayouts(w http.ResponseWriter, r *http.Request) {
	payouts, err := c.payouts.Recalculate(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payouts)
}

// PayPayout отмечает выплату врачу произведенной
func (c *FinancialController) PayPayout(w http.ResponseWriter, r *http.Request) {
	payout, err := c.payouts.MarkPaid(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payout)
}

// ExportPayoutsXLSX выгружает выплаты в Excel
func (c *FinancialController) ExportPayoutsXLSX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := c.payouts.ExportXLSX(r.Context(), &buf); err != nil {
		writeError(w, err)
		return
	}
	writeAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", buf.Bytes())
}

// ExportPayoutsXML выгружает выплаты в XML
func (c *FinancialController) ExportPayoutsXML(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := c.payouts.ExportXML(r.Context(), &buf); err != nil {
		writeError(w, err)
		return
	}
	writeAttachment(w, "application/xml", "xml", buf.Bytes())
}

func writeAttachment(w http.ResponseWriter, contentType, ext string, body []byte) {
	filename := "repasses-" + time.Now().Format("2006-01") + "." + ext
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
