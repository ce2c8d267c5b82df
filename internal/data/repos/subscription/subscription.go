package subscription

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/losaltoshacks/registration-backend/internal/domain"
	"github.com/losaltoshacks/registration-backend/internal/platform/dbctx"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
)

type EmailSubscriptionRepo interface {
	// Add is idempotent; an existing address is left untouched.
	Add(dbc dbctx.Context, email string) error
	List(dbc dbctx.Context) ([]*types.EmailSubscription, error)
}

type emailSubscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmailSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) EmailSubscriptionRepo {
	return &emailSubscriptionRepo{db: db, log: baseLog.With("repo", "EmailSubscriptionRepo")}
}

func (r *emailSubscriptionRepo) Add(dbc dbctx.Context, email string) error {
	row := &types.EmailSubscription{Email: email, CreatedAt: time.Now().UTC()}
	err := dbc.DB(r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("add subscription: %w", err)
	}
	return nil
}

func (r *emailSubscriptionRepo) List(dbc dbctx.Context) ([]*types.EmailSubscription, error) {
	var out []*types.EmailSubscription
	if err := dbc.DB(r.db).Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return out, nil
}
