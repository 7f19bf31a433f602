package services

import (
	"time"

	"clinic/models"

	"github.com/shopspring/decimal"
)

// ReconcilePayouts пересчитывает выплаты врачам по оплаченным транзакциям.
//
// Для каждого врача, у которого есть хотя бы одна оплаченная транзакция,
// обновляются totalBilled, payoutRate и payoutAmount. Статус, дата оплаты и
// период существующей записи не меняются. Новые записи создаются в статусе
// Pending за текущий календарный месяц относительно now. Записи врачей без
// оплаченных транзакций возвращаются без изменений.
//
// Функция не изменяет входные срезы. Порядок результата: сначала существующие
// записи в исходном порядке, затем новые в порядке списка врачей.
func ReconcilePayouts(
	transactions []models.Transaction,
	doctors []models.Doctor,
	existing []models.DoctorPayout,
	now time.Time,
) []models.DoctorPayout {
	billed := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		if !t.IsPaid() || t.DoctorID == nil || *t.DoctorID == "" {
			continue
		}
		billed[*t.DoctorID] = billed[*t.DoctorID].Add(t.Amount)
	}

	candidates := make(map[string]models.DoctorPayout, len(billed))
	var order []string
	for _, d := range doctors {
		total, ok := billed[d.ID]
		if !ok {
			continue
		}
		if _, seen := candidates[d.ID]; seen {
			continue
		}
		rate := d.Share()
		candidates[d.ID] = models.DoctorPayout{
			DoctorID:     d.ID,
			DoctorName:   d.Name,
			TotalBilled:  total,
			PayoutRate:   rate,
			PayoutAmount: total.Mul(rate),
		}
		order = append(order, d.ID)
	}

	result := make([]models.DoctorPayout, 0, len(existing)+len(candidates))
	merged := make(map[string]bool, len(existing))
	for _, p := range existing {
		if c, ok := candidates[p.DoctorID]; ok && !merged[p.DoctorID] {
			p.TotalBilled = c.TotalBilled
			p.PayoutRate = c.PayoutRate
			p.PayoutAmount = c.PayoutAmount
			merged[p.DoctorID] = true
		}
		result = append(result, p)
	}

	start, end := CurrentPeriod(now)
	for _, id := range order {
		if merged[id] {
			continue
		}
		c := candidates[id]
		c.ID = newID()
		c.PeriodStartDate = start
		c.PeriodEndDate = end
		c.Status = models.PayoutStatusPending
		result = append(result, c)
	}

	return result
}

// CurrentPeriod возвращает первый и последний день календарного месяца
func CurrentPeriod(now time.Time) (time.Time, time.Time) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)
	return first, last
}
