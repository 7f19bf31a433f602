package utils

import (
	"sync"
	"time"
)

// Metrics содержит метрики приложения
type Metrics struct {
	mu sync.RWMutex

	// Метрики запросов
	TotalRequests   int64
	FailedRequests  int64
	RequestLatency  time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time

	// Метрики пересчета выплат
	PayoutRecalculations  int64
	LastRecalculation     time.Time
	LastRecalcDuration    time.Duration
	PayoutsSettled        int64
	TransactionsMarkedPay int64

	// Метрики ошибок
	ErrorCount    int64
	LastErrorTime time.Time
	ErrorTypes    map[string]int64
}

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// GetMetrics возвращает экземпляр метрик
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = NewMetrics()
	})
	return metrics
}

// NewMetrics создает пустой набор метрик
func NewMetrics() *Metrics {
	return &Metrics{ErrorTypes: make(map[string]int64)}
}

// RecordRequest записывает метрики запроса. Ответы со статусом >= 500 считаются неуспешными.
func (m *Metrics) RecordRequest(duration time.Duration, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests++
	m.RequestLatency += duration
	m.AverageLatency = m.RequestLatency / time.Duration(m.TotalRequests)
	m.LastRequestTime = time.Now()

	if status >= 500 {
		m.FailedRequests++
	}
}

// RecordRecalculation записывает метрики пересчета выплат
func (m *Metrics) RecordRecalculation(duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PayoutRecalculations++
	m.LastRecalculation = time.Now()
	m.LastRecalcDuration = duration
	if err != nil {
		m.recordErrorLocked("recalculate: " + err.Error())
	}
}

// RecordPayoutSettled увеличивает счетчик оплаченных выплат
func (m *Metrics) RecordPayoutSettled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PayoutsSettled++
}

// RecordTransactionPaid увеличивает счетчик оплаченных транзакций
func (m *Metrics) RecordTransactionPaid() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TransactionsMarkedPay++
}

// RecordError записывает метрики ошибки
func (m *Metrics) RecordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	errorType := "unknown"
	if err != nil {
		errorType = err.Error()
	}
	m.recordErrorLocked(errorType)
}

func (m *Metrics) recordErrorLocked(errorType string) {
	m.ErrorCount++
	m.LastErrorTime = time.Now()
	m.ErrorTypes[errorType]++
}

// GetMetricsSnapshot возвращает снимок текущих метрик
func (m *Metrics) GetMetricsSnapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	errorTypes := make(map[string]int64, len(m.ErrorTypes))
	for k, v := range m.ErrorTypes {
		errorTypes[k] = v
	}

	return map[string]interface{}{
		"total_requests":           m.TotalRequests,
		"failed_requests":          m.FailedRequests,
		"average_latency_ms":       m.AverageLatency.Milliseconds(),
		"payout_recalculations":    m.PayoutRecalculations,
		"last_recalculation":       m.LastRecalculation,
		"last_recalc_duration_ms":  m.LastRecalcDuration.Milliseconds(),
		"payouts_settled":          m.PayoutsSettled,
		"transactions_marked_paid": m.TransactionsMarkedPay,
		"error_count":              m.ErrorCount,
		"last_error_time":          m.LastErrorTime,
		"error_types":              errorTypes,
	}
}

// ResetMetrics сбрасывает все метрики
func (m *Metrics) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests = 0
	m.FailedRequests = 0
	m.RequestLatency = 0
	m.AverageLatency = 0
	m.PayoutRecalculations = 0
	m.LastRecalcDuration = 0
	m.PayoutsSettled = 0
	m.TransactionsMarkedPay = 0
	m.ErrorCount = 0
	m.ErrorTypes = make(map[string]int64)
}
