package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/trackwise/billing/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() paymentdomain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*paymentdomain.Payment, error) {
	var payment paymentdomain.Payment
	if err := db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, payment *paymentdomain.Payment) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, payment *paymentdomain.Payment) error {
	return db.WithContext(ctx).Save(payment).Error
}

// ClaimInvoice is the linearization point for activation. The guarded
// update plus the unique index on payments.invoice_id guarantee that
// of two concurrent activations at most one observes a claimed row.
func (r *repo) ClaimInvoice(ctx context.Context, db *gorm.DB, paymentID, invoiceID snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE payments SET invoice_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND invoice_id IS NULL`,
		invoiceID,
		paymentID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
