package services

import (
	"context"
	"fmt"
	"html"

	"clinic/config"
	"clinic/models"
	"clinic/utils"

	"gopkg.in/gomail.v2"
)

// Notifier отправляет уведомления врачам
//
//go:generate mockgen -destination=mocks/mock_notifier.go -package=mock_services -source=email_service.go Notifier
type Notifier interface {
	NotifyPayoutSettled(ctx context.Context, doctor models.Doctor, payout models.DoctorPayout) error
}

// EmailService предоставляет методы для отправки email
type EmailService struct {
	dialer  *gomail.Dialer
	from    string
	enabled bool
}

// NewEmailService создает новый экземпляр EmailService
func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
	)

	return &EmailService{
		dialer:  dialer,
		from:    cfg.SMTP.From,
		enabled: cfg.SMTP.Enabled,
	}
}

// SendEmail отправляет email. При выключенном SMTP письмо только логируется.
func (s *EmailService) SendEmail(ctx context.Context, to, subject, body string) error {
	if !s.enabled {
		utils.WithComponent("email").Debug().Str("to", to).Str("subject", subject).Msg("smtp disabled, email skipped")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("ошибка отправки email: %w", err)
	}

	return nil
}

// NotifyPayoutSettled отправляет врачу уведомление о выплате
func (s *EmailService) NotifyPayoutSettled(ctx context.Context, doctor models.Doctor, payout models.DoctorPayout) error {
	return s.SendEmail(ctx, doctor.Email, "Pagamento de repasse realizado", payoutSettledBody(doctor, payout))
}

func payoutSettledBody(doctor models.Doctor, payout models.DoctorPayout) string {
	paidDate := ""
	if payout.PaidDate != nil {
		paidDate = payout.PaidDate.Format("02/01/2006")
	}
	return fmt.Sprintf(`
		<h2>Repasse pago</h2>
		<p>Olá, %s.</p>
		<p>Período: %s a %s</p>
		<p>Total faturado: R$ %s</p>
		<p>Percentual: %s%%</p>
		<p>Valor do repasse: R$ %s</p>
		<p>Data do pagamento: %s</p>
	`,
		html.EscapeString(doctor.Name),
		payout.PeriodStartDate.Format("02/01/2006"),
		payout.PeriodEndDate.Format("02/01/2006"),
		payout.TotalBilled.StringFixed(2),
		payout.PayoutRate.Shift(2).String(),
		payout.PayoutAmount.StringFixed(2),
		paidDate,
	)
}
