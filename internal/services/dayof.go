package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/losaltoshacks/registration-backend/internal/data/repos"
	"github.com/losaltoshacks/registration-backend/internal/domain/dayof"
	"github.com/losaltoshacks/registration-backend/internal/domain/registrant"
	"github.com/losaltoshacks/registration-backend/internal/observability"
	"github.com/losaltoshacks/registration-backend/internal/platform/apierr"
	"github.com/losaltoshacks/registration-backend/internal/platform/dbctx"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
)

// SignInTarget is a registrant table that badges can be attached to.
type SignInTarget interface {
	Kind() registrant.Kind
	// SignInState reports whether externalID has a current version and
	// whether that version already holds a badge.
	SignInState(dbc dbctx.Context, externalID uuid.UUID) (found, signedIn bool, err error)
	AttachSignIn(dbc dbctx.Context, externalID uuid.UUID, signInID uint) error
	CountSignedIn(ctx context.Context) (int64, error)
}

type DayOfService interface {
	SignIn(ctx context.Context, userID, badge string) error
	SignOut(ctx context.Context, badge string) error
	Meal(ctx context.Context, badge string, slot, allowedServings int) error
	Counts(ctx context.Context) (*dayof.Counts, error)
}

type dayOfService struct {
	db      *gorm.DB
	log     *logger.Logger
	signIns repos.SignInRepo
	targets []SignInTarget
	metrics *observability.Metrics
}

// NewDayOfService searches targets in order when resolving a user id.
func NewDayOfService(db *gorm.DB, baseLog *logger.Logger, signIns repos.SignInRepo, metrics *observability.Metrics, targets ...SignInTarget) DayOfService {
	return &dayOfService{
		db:      db,
		log:     baseLog.With("service", "DayOfService"),
		signIns: signIns,
		targets: targets,
		metrics: metrics,
	}
}

func (s *dayOfService) SignIn(ctx context.Context, userID, badge string) error {
	badge = strings.TrimSpace(badge)
	if badge == "" {
		return apierr.Validation("Badge is required")
	}
	id, parseErr := uuid.Parse(strings.TrimSpace(userID))

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		exists, err := s.signIns.BadgeExists(dbc, badge)
		if err != nil {
			return err
		}
		if exists {
			return apierr.BadgeInUse()
		}
		if parseErr != nil {
			return apierr.NotFound("User ID not found")
		}

		var target SignInTarget
		for _, t := range s.targets {
			found, signedIn, err := t.SignInState(dbc, id)
			if err != nil {
				return err
			}
			if !found {
				continue
			}
			if signedIn {
				return apierr.AlreadySignedIn()
			}
			target = t
			break
		}
		if target == nil {
			return apierr.NotFound("User ID not found")
		}

		row, err := s.signIns.Create(dbc, badge)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apierr.BadgeInUse()
		}
		if err != nil {
			return err
		}
		if err := target.AttachSignIn(dbc, id, row.ID); err != nil {
			return err
		}
		s.log.Info("badge signed in", "kind", string(target.Kind()), "external_id", id.String())
		return nil
	})
}

func (s *dayOfService) SignOut(ctx context.Context, badge string) error {
	dbc := dbctx.Context{Ctx: ctx}
	row, err := s.signIns.GetByBadge(dbc, strings.TrimSpace(badge))
	if err != nil {
		return err
	}
	if row == nil {
		return apierr.NotFound("Invalid badge")
	}
	ok, err := s.signIns.MarkSignedOut(dbc, row.ID)
	if err != nil {
		return err
	}
	if !ok {
		return apierr.AlreadySignedOut()
	}
	return nil
}

// Meal records one serving of slot for the badge holder, refusing once the
// counter has reached allowedServings.
func (s *dayOfService) Meal(ctx context.Context, badge string, slot, allowedServings int) error {
	err := s.meal(ctx, badge, slot, allowedServings)
	if err != nil {
		s.metrics.IncMeal(slot, outcomeOf(err))
		return err
	}
	s.metrics.IncMeal(slot, "served")
	return nil
}

func (s *dayOfService) meal(ctx context.Context, badge string, slot, allowedServings int) error {
	if !dayof.ValidMealSlot(slot) {
		return apierr.Validation("Invalid meal number")
	}
	if allowedServings < 0 {
		return apierr.Validation("Invalid allowed servings")
	}
	dbc := dbctx.Context{Ctx: ctx}
	row, err := s.signIns.GetByBadge(dbc, strings.TrimSpace(badge))
	if err != nil {
		return err
	}
	if row == nil {
		return apierr.NotFound("Invalid badge")
	}
	if row.SignedOut {
		return apierr.AlreadySignedOut()
	}
	ok, err := s.signIns.IncrementMeal(dbc, row.ID, slot, allowedServings)
	if err != nil {
		return fmt.Errorf("meal %d: %w", slot, err)
	}
	if !ok {
		return apierr.MealLimitExceeded(slot)
	}
	return nil
}

func (s *dayOfService) Counts(ctx context.Context) (*dayof.Counts, error) {
	out := &dayof.Counts{}
	for _, t := range s.targets {
		n, err := t.CountSignedIn(ctx)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", t.Kind(), err)
		}
		switch t.Kind() {
		case registrant.KindAttendee:
			out.Attendee = n
		case registrant.KindMentor:
			out.Mentor = n
		case registrant.KindGuest:
			out.Guest = n
		case registrant.KindChaperone:
			out.Chaperone = n
		}
	}
	return out, nil
}
