package services

import (
	"fmt"
	"strings"
	"unicode"

	"clinic/models"

	"github.com/skip2/go-qrcode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PIXConfig содержит реквизиты получателя платежа PIX
type PIXConfig struct {
	Key          string
	MerchantName string
	MerchantCity string
}

const defaultQRSize = 256

// PIXPayload формирует строку BR Code (EMV QRCPS) для оплаты транзакции
func PIXPayload(cfg PIXConfig, t models.Transaction) (string, error) {
	if strings.TrimSpace(cfg.Key) == "" {
		return "", fmt.Errorf("%w: не задан ключ PIX получателя", ErrValidation)
	}

	account := emvField("00", "br.gov.bcb.pix") + emvField("01", cfg.Key)
	txid := pixTxID(t.ID)

	var b strings.Builder
	b.WriteString(emvField("00", "01"))
	b.WriteString(emvField("26", account))
	b.WriteString(emvField("52", "0000"))
	b.WriteString(emvField("53", "986"))
	if t.Amount.IsPositive() {
		b.WriteString(emvField("54", t.Amount.StringFixed(2)))
	}
	b.WriteString(emvField("58", "BR"))
	b.WriteString(emvField("59", truncate(asciiUpper(cfg.MerchantName), 25)))
	b.WriteString(emvField("60", truncate(asciiUpper(cfg.MerchantCity), 15)))
	b.WriteString(emvField("62", emvField("05", txid)))
	b.WriteString("6304")

	payload := b.String()
	return payload + fmt.Sprintf("%04X", crc16CCITT([]byte(payload))), nil
}

// PIXQRCode кодирует payload PIX транзакции в PNG
func PIXQRCode(cfg PIXConfig, t models.Transaction, size int) ([]byte, error) {
	payload, err := PIXPayload(cfg, t)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = defaultQRSize
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("ошибка кодирования QR кода: %w", err)
	}
	return png, nil
}

func emvField(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// pixTxID оставляет только буквы и цифры, не больше 25 символов
func pixTxID(id string) string {
	var b strings.Builder
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	txid := truncate(b.String(), 25)
	if txid == "" {
		return "***"
	}
	return txid
}

// asciiUpper убирает диакритику, переводит строку в верхний регистр и
// отбрасывает оставшиеся символы вне ASCII
func asciiUpper(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	for _, r := range strings.ToUpper(plain) {
		if r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// crc16CCITT считает CRC16/CCITT-FALSE (полином 0x1021, начальное значение 0xFFFF)
func crc16CCITT(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
