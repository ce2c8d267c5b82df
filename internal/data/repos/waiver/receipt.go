package waiver

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/losaltoshacks/registration-backend/internal/domain"
	"github.com/losaltoshacks/registration-backend/internal/platform/dbctx"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
)

type ReceiptRepo interface {
	Create(dbc dbctx.Context, receipt *types.WaiverReceipt) error
	ListBySigner(dbc dbctx.Context, email string) ([]*types.WaiverReceipt, error)
}

type receiptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReceiptRepo(db *gorm.DB, baseLog *logger.Logger) ReceiptRepo {
	return &receiptRepo{db: db, log: baseLog.With("repo", "WaiverReceiptRepo")}
}

func (r *receiptRepo) Create(dbc dbctx.Context, receipt *types.WaiverReceipt) error {
	if err := dbc.DB(r.db).Create(receipt).Error; err != nil {
		return fmt.Errorf("create waiver receipt: %w", err)
	}
	return nil
}

func (r *receiptRepo) ListBySigner(dbc dbctx.Context, email string) ([]*types.WaiverReceipt, error) {
	var out []*types.WaiverReceipt
	if err := dbc.DB(r.db).Where("signer_email = ?", email).Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list waiver receipts: %w", err)
	}
	return out, nil
}
