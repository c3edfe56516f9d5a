package pgrepo

import (
	"context"

	"github.com/fsdevblog/learn2code/internal/domain"
	"github.com/fsdevblog/learn2code/internal/repository/repoargs"
	"github.com/fsdevblog/learn2code/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const paymentColumns = `id, created_at, user_id, student_id, amount, tax_amount, total_amount, currency, method,
	provider, provider_txn_id, status, receipt_number, card_brand, card_last4, billing_name, billing_email,
	billing_address`

type PaymentRepository struct {
	db uow.DBTX
}

func NewPaymentRepository(db uow.DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create сохраняет платеж. Вставка идет в savepoint'е, поэтому при коллизии номера чека
// (*domain.DuplicateKeyError с индексом domain.PaymentReceiptUniqueIndex) транзакцию можно продолжать.
func (p *PaymentRepository) Create(ctx context.Context, payment repoargs.CreatePayment) (*domain.Payment, error) {
	var created *domain.Payment
	err := inSavepoint(ctx, p.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO payments (user_id, student_id, amount, tax_amount, total_amount, currency, method, provider,
				provider_txn_id, status, receipt_number, card_brand, card_last4, billing_name, billing_email,
				billing_address)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			RETURNING `+paymentColumns,
			payment.UserID,
			payment.StudentID,
			payment.Amount,
			payment.TaxAmount,
			payment.TotalAmount,
			payment.Currency,
			nullString(payment.Method),
			nullString(payment.Provider),
			nullString(payment.ProviderTxnID),
			nullString(payment.Status),
			payment.ReceiptNumber,
			nullString(payment.CardBrand),
			nullString(payment.CardLast4),
			nullString(payment.BillingName),
			nullString(payment.BillingEmail),
			payment.BillingAddress,
		)
		var scanErr error
		created, scanErr = scanPayment(row)
		return scanErr
	})
	if err != nil {
		return nil, convertErr(err, "creating payment with receipt `%s`", payment.ReceiptNumber)
	}
	return created, nil
}

// FindByIdempotencyKey ищет платеж юзера по паре (provider, providerTxnID).
// Возвращает domain.ErrRecordNotFound если платежа нет.
func (p *PaymentRepository) FindByIdempotencyKey(
	ctx context.Context,
	userID int64,
	provider, providerTxnID string,
) (*domain.Payment, error) {
	row := p.db.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE user_id = $1 AND provider = $2 AND provider_txn_id = $3`,
		userID, provider, providerTxnID,
	)
	payment, err := scanPayment(row)
	if err != nil {
		return nil, convertErr(err, "finding payment of user %d by `%s/%s`", userID, provider, providerTxnID)
	}
	return payment, nil
}

func (p *PaymentRepository) FindByID(ctx context.Context, id int64) (*domain.Payment, error) {
	row := p.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	payment, err := scanPayment(row)
	if err != nil {
		return nil, convertErr(err, "finding payment by id %d", id)
	}
	return payment, nil
}

// GetByUserID возвращает платежи юзера, отсортированные по дате создания по убыванию.
func (p *PaymentRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Payment, error) {
	rows, err := p.db.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, convertErr(err, "getting payments by userID %d", userID)
	}
	payments, collectErr := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Payment, error) {
		payment, scanErr := scanPayment(row)
		if scanErr != nil {
			return domain.Payment{}, scanErr
		}
		return *payment, nil
	})
	if collectErr != nil {
		return nil, convertErr(collectErr, "collecting payments of user %d", userID)
	}
	return payments, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var payment domain.Payment
	var method, provider, providerTxnID, status, cardBrand, cardLast4, billingName, billingEmail *string
	if err := row.Scan(
		&payment.ID,
		&payment.CreatedAt,
		&payment.UserID,
		&payment.StudentID,
		&payment.Amount,
		&payment.TaxAmount,
		&payment.TotalAmount,
		&payment.Currency,
		&method,
		&provider,
		&providerTxnID,
		&status,
		&payment.ReceiptNumber,
		&cardBrand,
		&cardLast4,
		&billingName,
		&billingEmail,
		&payment.BillingAddress,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	payment.Method = derefString(method)
	payment.Provider = derefString(provider)
	payment.ProviderTxnID = derefString(providerTxnID)
	payment.Status = derefString(status)
	payment.CardBrand = derefString(cardBrand)
	payment.CardLast4 = derefString(cardLast4)
	payment.BillingName = derefString(billingName)
	payment.BillingEmail = derefString(billingEmail)
	return &payment, nil
}
