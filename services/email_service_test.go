package services

import (
	"testing"
	"time"

	"clinic/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPayoutSettledBody_EscapesDoctorName(t *testing.T) {
	paid := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	body := payoutSettledBody(
		models.Doctor{Name: `<script>alert("x")</script> & Cia`},
		models.DoctorPayout{
			PeriodStartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			PeriodEndDate:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			TotalBilled:     decimal.RequireFromString("400"),
			PayoutRate:      decimal.RequireFromString("0.5"),
			PayoutAmount:    decimal.RequireFromString("200"),
			PaidDate:        &paid,
		},
	)

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt; &amp; Cia")
	assert.Contains(t, body, "Período: 01/02/2024 a 29/02/2024")
	assert.Contains(t, body, "Valor do repasse: R$ 200.00")
	assert.Contains(t, body, "Percentual: 50%")
	assert.Contains(t, body, "Data do pagamento: 05/03/2024")
}
