package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"
)

const (
	receiptPrefix       = "LC"
	receiptSuffixLength = 6
	receiptDateLayout   = "20060102"
)

// receiptSuffixSpace количество различных суффиксов: 36^6.
var receiptSuffixSpace = new(big.Int).Exp(big.NewInt(36), big.NewInt(receiptSuffixLength), nil) //nolint:mnd

// RandomReceiptGenerator генерирует номера вида LC-<YYYYMMDD>-<6 символов base-36 в верхнем регистре>.
// Источник случайности по умолчанию crypto/rand.Reader, он безопасен для конкурентного использования.
type RandomReceiptGenerator struct {
	now    func() time.Time
	random io.Reader
}

func NewReceiptGenerator() *RandomReceiptGenerator {
	return &RandomReceiptGenerator{
		now:    time.Now,
		random: rand.Reader,
	}
}

func (g *RandomReceiptGenerator) Generate() (string, error) {
	return receiptCandidate(g.now(), g.random)
}

// receiptCandidate чистая функция от даты и источника случайности.
func receiptCandidate(now time.Time, random io.Reader) (string, error) {
	n, err := rand.Int(random, receiptSuffixSpace)
	if err != nil {
		return "", fmt.Errorf("generating receipt suffix: %s", err.Error())
	}
	suffix := strings.ToUpper(n.Text(36)) //nolint:mnd
	if pad := receiptSuffixLength - len(suffix); pad > 0 {
		suffix = strings.Repeat("0", pad) + suffix
	}
	return receiptPrefix + "-" + now.Format(receiptDateLayout) + "-" + suffix, nil
}
