package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"clinic/models"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const payoutSheetName = "Repasses"

var payoutReportHeaders = []string{
	"Médico", "Início do período", "Fim do período", "Total faturado",
	"Percentual", "Valor do repasse", "Status", "Data do pagamento",
}

// ExportXLSX записывает отчет по выплатам в формате Excel
func (s *PayoutService) ExportXLSX(ctx context.Context, w io.Writer) error {
	payouts, err := s.List(ctx)
	if err != nil {
		return err
	}
	return writePayoutsXLSX(w, payouts)
}

// ExportXML записывает отчет по выплатам в формате XML
func (s *PayoutService) ExportXML(ctx context.Context, w io.Writer) error {
	payouts, err := s.List(ctx)
	if err != nil {
		return err
	}
	_, err = buildPayoutsXML(payouts, s.now()).WriteTo(w)
	return err
}

func writePayoutsXLSX(w io.Writer, payouts []models.DoctorPayout) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(payoutSheetName)
	if err != nil {
		return fmt.Errorf("ошибка создания листа: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("ошибка удаления листа по умолчанию: %w", err)
	}

	for i, header := range payoutReportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(payoutSheetName, cell, header)
	}

	total := payoutsTotal(payouts)
	for i, p := range payouts {
		row := i + 2
		billed, _ := p.TotalBilled.Float64()
		rate, _ := p.PayoutRate.Float64()
		amount, _ := p.PayoutAmount.Round(2).Float64()

		f.SetCellValue(payoutSheetName, fmt.Sprintf("A%d", row), p.DoctorName)
		f.SetCellValue(payoutSheetName, fmt.Sprintf("B%d", row), p.PeriodStartDate.Format("02/01/2006"))
		f.SetCellValue(payoutSheetName, fmt.Sprintf("C%d", row), p.PeriodEndDate.Format("02/01/2006"))
		f.SetCellValue(payoutSheetName, fmt.Sprintf("D%d", row), billed)
		f.SetCellValue(payoutSheetName, fmt.Sprintf("E%d", row), rate)
		f.SetCellValue(payoutSheetName, fmt.Sprintf("F%d", row), amount)
		f.SetCellValue(payoutSheetName, fmt.Sprintf("G%d", row), string(p.Status))
		if p.PaidDate != nil {
			f.SetCellValue(payoutSheetName, fmt.Sprintf("H%d", row), p.PaidDate.Format("02/01/2006"))
		}
	}

	totalRow := len(payouts) + 2
	totalAmount, _ := total.Round(2).Float64()
	f.SetCellValue(payoutSheetName, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellValue(payoutSheetName, fmt.Sprintf("F%d", totalRow), totalAmount)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("ошибка записи xlsx: %w", err)
	}
	return nil
}

func buildPayoutsXML(payouts []models.DoctorPayout, generatedAt time.Time) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("payouts")
	root.CreateAttr("generatedAt", generatedAt.Format(time.RFC3339))
	root.CreateAttr("count", fmt.Sprintf("%d", len(payouts)))
	root.CreateAttr("total", payoutsTotal(payouts).StringFixed(2))

	for _, p := range payouts {
		el := root.CreateElement("payout")
		el.CreateAttr("id", p.ID)
		el.CreateAttr("status", string(p.Status))

		doctor := el.CreateElement("doctor")
		doctor.CreateAttr("id", p.DoctorID)
		doctor.SetText(p.DoctorName)

		period := el.CreateElement("period")
		period.CreateAttr("start", p.PeriodStartDate.Format(time.DateOnly))
		period.CreateAttr("end", p.PeriodEndDate.Format(time.DateOnly))

		el.CreateElement("totalBilled").SetText(p.TotalBilled.String())
		el.CreateElement("payoutRate").SetText(p.PayoutRate.String())
		el.CreateElement("payoutAmount").SetText(p.PayoutAmount.String())
		if p.PaidDate != nil {
			el.CreateElement("paidDate").SetText(p.PaidDate.Format(time.DateOnly))
		}
	}

	doc.Indent(2)
	return doc
}

func payoutsTotal(payouts []models.DoctorPayout) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payouts {
		total = total.Add(p.PayoutAmount)
	}
	return total
}
