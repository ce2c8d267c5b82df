package dayof

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	types "github.com/losaltoshacks/registration-backend/internal/domain"
	"github.com/losaltoshacks/registration-backend/internal/domain/dayof"
	"github.com/losaltoshacks/registration-backend/internal/platform/dbctx"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
)

type SignInRepo interface {
	Create(dbc dbctx.Context, badge string) (*types.SignIn, error)
	GetByBadge(dbc dbctx.Context, badge string) (*types.SignIn, error)
	BadgeExists(dbc dbctx.Context, badge string) (bool, error)
	// MarkSignedOut reports false when the sign-in was already signed out.
	MarkSignedOut(dbc dbctx.Context, id uint) (bool, error)
	// IncrementMeal bumps the slot counter when it is below max and
	// reports whether it did.
	IncrementMeal(dbc dbctx.Context, id uint, slot, max int) (bool, error)
}

type signInRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSignInRepo(db *gorm.DB, baseLog *logger.Logger) SignInRepo {
	return &signInRepo{db: db, log: baseLog.With("repo", "SignInRepo")}
}

func (r *signInRepo) Create(dbc dbctx.Context, badge string) (*types.SignIn, error) {
	s := &types.SignIn{BadgeData: badge}
	if err := dbc.DB(r.db).Create(s).Error; err != nil {
		return nil, fmt.Errorf("create sign in: %w", err)
	}
	return s, nil
}

func (r *signInRepo) GetByBadge(dbc dbctx.Context, badge string) (*types.SignIn, error) {
	var s types.SignIn
	err := dbc.DB(r.db).Where("badge_data = ?", badge).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sign in by badge: %w", err)
	}
	return &s, nil
}

func (r *signInRepo) BadgeExists(dbc dbctx.Context, badge string) (bool, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.SignIn{}).Where("badge_data = ?", badge).Count(&n).Error; err != nil {
		return false, fmt.Errorf("badge exists: %w", err)
	}
	return n > 0, nil
}

func (r *signInRepo) MarkSignedOut(dbc dbctx.Context, id uint) (bool, error) {
	res := dbc.DB(r.db).Model(&types.SignIn{}).
		Where("id = ? AND signed_out = ?", id, false).
		Update("signed_out", true)
	if res.Error != nil {
		return false, fmt.Errorf("sign out: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *signInRepo) IncrementMeal(dbc dbctx.Context, id uint, slot, max int) (bool, error) {
	if !dayof.ValidMealSlot(slot) {
		return false, fmt.Errorf("invalid meal slot %d", slot)
	}
	col := dayof.MealColumn(slot)
	res := dbc.DB(r.db).Model(&types.SignIn{}).
		Where("id = ? AND "+col+" < ?", id, max).
		Update(col, gorm.Expr(col+" + 1"))
	if res.Error != nil {
		return false, fmt.Errorf("increment %s: %w", col, res.Error)
	}
	return res.RowsAffected == 1, nil
}
