package versioned

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	types "github.com/losaltoshacks/registration-backend/internal/domain"
	"github.com/losaltoshacks/registration-backend/internal/platform/dbctx"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
)

type EmailVerificationRepo interface {
	Create(dbc dbctx.Context, ev *types.EmailVerification) error
	GetByID(dbc dbctx.Context, id uint) (*types.EmailVerification, error)
	GetByIDs(dbc dbctx.Context, ids []uint) (map[uint]*types.EmailVerification, error)
	SetVerified(dbc dbctx.Context, id uint, verified bool) error
}

type emailVerificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmailVerificationRepo(db *gorm.DB, baseLog *logger.Logger) EmailVerificationRepo {
	return &emailVerificationRepo{db: db, log: baseLog.With("repo", "EmailVerificationRepo")}
}

func (r *emailVerificationRepo) Create(dbc dbctx.Context, ev *types.EmailVerification) error {
	if err := dbc.DB(r.db).Create(ev).Error; err != nil {
		return fmt.Errorf("create email verification: %w", err)
	}
	return nil
}

func (r *emailVerificationRepo) GetByID(dbc dbctx.Context, id uint) (*types.EmailVerification, error) {
	var ev types.EmailVerification
	err := dbc.DB(r.db).Where("id = ?", id).Take(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get email verification: %w", err)
	}
	return &ev, nil
}

func (r *emailVerificationRepo) GetByIDs(dbc dbctx.Context, ids []uint) (map[uint]*types.EmailVerification, error) {
	out := map[uint]*types.EmailVerification{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []*types.EmailVerification
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("get email verifications: %w", err)
	}
	for _, ev := range rows {
		out[ev.ID] = ev
	}
	return out, nil
}

func (r *emailVerificationRepo) SetVerified(dbc dbctx.Context, id uint, verified bool) error {
	res := dbc.DB(r.db).Model(&types.EmailVerification{}).Where("id = ?", id).Update("verified", verified)
	if res.Error != nil {
		return fmt.Errorf("set email verified: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("set email verified: %w", gorm.ErrRecordNotFound)
	}
	return nil
}
