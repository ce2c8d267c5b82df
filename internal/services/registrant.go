package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/losaltoshacks/registration-backend/internal/data/repos"
	"github.com/losaltoshacks/registration-backend/internal/data/repos/versioned"
	"github.com/losaltoshacks/registration-backend/internal/domain/registrant"
	"github.com/losaltoshacks/registration-backend/internal/domain/waiver"
	"github.com/losaltoshacks/registration-backend/internal/observability"
	"github.com/losaltoshacks/registration-backend/internal/platform/apierr"
	"github.com/losaltoshacks/registration-backend/internal/platform/dbctx"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
)

// Schema describes what differs between registrant kinds.
type Schema struct {
	Kind registrant.Kind
	// RoutePrefix is the public path prefix, used in verification links.
	RoutePrefix string
	// TextColumns are matched by free-text search.
	TextColumns []string
	// Verifies is set for kinds that carry an email verification record.
	Verifies bool
}

type SignupResult[P any] struct {
	Created bool
	Record  P
	Message string
}

type ModifyResult[P any] struct {
	Unchanged           bool
	NewVersion          bool
	VerificationChanged bool
	Current             P
}

type RegistrantService[T any, P registrant.Record[T]] interface {
	Schema() Schema
	Signup(ctx context.Context, in P) (*SignupResult[P], error)
	Verify(ctx context.Context, externalID uuid.UUID, token string) error
	Modify(ctx context.Context, externalID uuid.UUID, delta registrant.Delta[T]) (*ModifyResult[P], error)
	List(ctx context.Context) ([]T, error)
	SearchText(ctx context.Context, query string) ([]T, error)
	SearchFilter(ctx context.Context, filter registrant.Filter) ([]T, error)
	History(ctx context.Context, externalID uuid.UUID) ([]T, error)
	Delete(ctx context.Context, externalID uuid.UUID) error
	// FindByEmail returns the hydrated current record with this email, or nil.
	FindByEmail(ctx context.Context, email string) (P, error)

	SignInTarget
	WaiverTarget
}

type registrantService[T any, P registrant.Record[T]] struct {
	db            *gorm.DB
	log           *logger.Logger
	schema        Schema
	repo          versioned.Repo[T, P]
	verifications repos.EmailVerificationRepo
	notifier      Notifier
	metrics       *observability.Metrics
	now           func() time.Time
}

func NewRegistrantService[T any, P registrant.Record[T]](
	db *gorm.DB,
	baseLog *logger.Logger,
	schema Schema,
	repo versioned.Repo[T, P],
	verifications repos.EmailVerificationRepo,
	notifier Notifier,
	metrics *observability.Metrics,
) RegistrantService[T, P] {
	return &registrantService[T, P]{
		db:            db,
		log:           baseLog.With("service", "RegistrantService", "kind", string(schema.Kind)),
		schema:        schema,
		repo:          repo,
		verifications: verifications,
		notifier:      notifier,
		metrics:       metrics,
		now:           time.Now,
	}
}

var errAlreadyAdded = errors.New("already added")

func (s *registrantService[T, P]) Schema() Schema { return s.schema }

func (s *registrantService[T, P]) notFound() *apierr.Error {
	return apierr.NotFound("%s does not exist", s.schema.Kind.Label())
}

func (s *registrantService[T, P]) alreadyAdded() string {
	return s.schema.Kind.Label() + " already added (by email)"
}

func validationError(err error) error {
	if errors.Is(err, registrant.ErrGuardianRequired) {
		return apierr.GuardianInfoRequired()
	}
	return apierr.Validation("%s", err.Error())
}

func (s *registrantService[T, P]) Signup(ctx context.Context, in P) (*SignupResult[P], error) {
	in.Normalize()
	in.Sats().Clear()
	in.ResetPrivileged()
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	var ev *registrant.EmailVerification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		inUse, err := s.repo.EmailInUse(dbc, in.ContactEmail(), uuid.Nil)
		if err != nil {
			return err
		}
		if inUse {
			return errAlreadyAdded
		}
		if s.schema.Verifies {
			ev = registrant.NewEmailVerification(in.ContactEmail())
			if err := s.verifications.Create(dbc, ev); err != nil {
				return err
			}
			in.Sats().EmailVerificationID = &ev.ID
		}
		in.Meta().Fresh(s.now())
		if err := s.repo.Insert(dbc, in); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyAdded
			}
			return err
		}
		return nil
	})
	if errors.Is(err, errAlreadyAdded) {
		s.metrics.IncSignup(string(s.schema.Kind), "duplicate")
		s.log.Info("signup skipped, email already registered", "email", in.ContactEmail())
		return &SignupResult[P]{Message: s.alreadyAdded()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("signup %s: %w", s.schema.Kind, err)
	}
	s.metrics.IncSignup(string(s.schema.Kind), "created")

	if ev != nil && s.notifier != nil {
		conf := Confirmation{
			Kind:        s.schema.Kind,
			RoutePrefix: s.schema.RoutePrefix,
			ExternalID:  in.Meta().ExternalID,
			Email:       in.ContactEmail(),
			Token:       ev.Token,
		}
		if err := s.notifier.SendConfirmation(ctx, conf); err != nil {
			s.log.Error("confirmation email failed", "external_id", in.Meta().ExternalID.String(), "error", err)
		}
	}
	return &SignupResult[P]{Created: true, Record: in}, nil
}

func (s *registrantService[T, P]) Verify(ctx context.Context, externalID uuid.UUID, token string) error {
	if !s.schema.Verifies {
		return apierr.CouldNotVerify()
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		cur, err := s.repo.GetCurrent(dbc, externalID)
		if err != nil {
			return err
		}
		if cur == nil || cur.Sats().EmailVerificationID == nil {
			return apierr.CouldNotVerify()
		}
		ev, err := s.verifications.GetByID(dbc, *cur.Sats().EmailVerificationID)
		if err != nil {
			return err
		}
		if ev == nil || subtle.ConstantTimeCompare([]byte(ev.Token), []byte(token)) != 1 {
			return apierr.CouldNotVerify()
		}
		if ev.Verified {
			return nil
		}
		return s.verifications.SetVerified(dbc, ev.ID, true)
	})
}

// Modify applies delta to the current version of externalID. A change to
// registrant fields appends a new version; a change to the verification
// flag alone updates the verification row in place.
func (s *registrantService[T, P]) Modify(ctx context.Context, externalID uuid.UUID, delta registrant.Delta[T]) (*ModifyResult[P], error) {
	result := &ModifyResult[P]{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		res, err := s.modify(dbc, externalID, delta)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		s.metrics.IncModification(string(s.schema.Kind), outcomeOf(err))
		return nil, err
	}
	switch {
	case result.Unchanged:
		s.metrics.IncModification(string(s.schema.Kind), "unchanged")
	case result.NewVersion:
		s.metrics.IncModification(string(s.schema.Kind), "versioned")
	default:
		s.metrics.IncModification(string(s.schema.Kind), "verification")
	}
	return result, nil
}

func outcomeOf(err error) string {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return "error"
}

func (s *registrantService[T, P]) modify(dbc dbctx.Context, externalID uuid.UUID, delta registrant.Delta[T]) (*ModifyResult[P], error) {
	cur, err := s.repo.GetCurrent(dbc, externalID)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, s.notFound()
	}

	nextVal, changed := delta.Apply(*cur)
	next := P(&nextVal)

	var ev *registrant.EmailVerification
	verificationChanged := false
	if want := delta.VerifiedOverride(); want != nil && s.schema.Verifies && cur.Sats().EmailVerificationID != nil {
		ev, err = s.verifications.GetByID(dbc, *cur.Sats().EmailVerificationID)
		if err != nil {
			return nil, err
		}
		verificationChanged = ev != nil && ev.Verified != *want
	}

	if !changed && !verificationChanged {
		return &ModifyResult[P]{Unchanged: true, Current: cur}, nil
	}

	if changed {
		if err := next.Validate(); err != nil {
			return nil, validationError(err)
		}
		if next.ContactEmail() != cur.ContactEmail() {
			inUse, err := s.repo.EmailInUse(dbc, next.ContactEmail(), externalID)
			if err != nil {
				return nil, err
			}
			if inUse {
				return nil, apierr.DuplicateEmail()
			}
		}
		ok, err := s.repo.Outdate(dbc, cur.Meta().ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apierr.Conflict("%s was modified concurrently, retry", s.schema.Kind.Label())
		}
		next.Meta().Successor(*cur.Meta(), s.now())
		next.Sats().CarryFrom(*cur.Sats())
		if err := s.repo.Insert(dbc, next); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apierr.Conflict("%s was modified concurrently, retry", s.schema.Kind.Label())
			}
			return nil, err
		}
	}

	if verificationChanged {
		if err := s.verifications.SetVerified(dbc, ev.ID, *delta.VerifiedOverride()); err != nil {
			return nil, err
		}
	}

	current := cur
	if changed {
		current = next
	}
	return &ModifyResult[P]{
		NewVersion:          changed,
		VerificationChanged: verificationChanged,
		Current:             current,
	}, nil
}

func (s *registrantService[T, P]) List(ctx context.Context) ([]T, error) {
	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.repo.ListCurrent(dbc)
	if err != nil {
		return nil, err
	}
	return s.hydrate(dbc, rows)
}

func (s *registrantService[T, P]) SearchText(ctx context.Context, query string) ([]T, error) {
	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.repo.SearchText(dbc, query, s.schema.TextColumns)
	if err != nil {
		return nil, err
	}
	return s.hydrate(dbc, rows)
}

func (s *registrantService[T, P]) SearchFilter(ctx context.Context, filter registrant.Filter) ([]T, error) {
	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.repo.SearchFilter(dbc, filter.Conditions(), filter.OutdatedMode())
	if err != nil {
		return nil, err
	}
	rows, err = s.hydrate(dbc, rows)
	if err != nil {
		return nil, err
	}
	want := filter.EmailVerifiedFilter()
	if want == nil {
		return rows, nil
	}
	out := make([]T, 0, len(rows))
	for i := range rows {
		if P(&rows[i]).Sats().EmailVerified == *want {
			out = append(out, rows[i])
		}
	}
	return out, nil
}

func (s *registrantService[T, P]) History(ctx context.Context, externalID uuid.UUID) ([]T, error) {
	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.repo.History(dbc, externalID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, s.notFound()
	}
	return s.hydrate(dbc, rows)
}

// Delete outdates the current version, leaving the record with no current
// version. History is kept.
func (s *registrantService[T, P]) Delete(ctx context.Context, externalID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		cur, err := s.repo.GetCurrent(dbc, externalID)
		if err != nil {
			return err
		}
		if cur == nil {
			return s.notFound()
		}
		ok, err := s.repo.Outdate(dbc, cur.Meta().ID)
		if err != nil {
			return err
		}
		if !ok {
			return apierr.Conflict("%s was modified concurrently, retry", s.schema.Kind.Label())
		}
		s.log.Info("record deleted", "external_id", externalID.String())
		return nil
	})
}

func (s *registrantService[T, P]) FindByEmail(ctx context.Context, email string) (P, error) {
	dbc := dbctx.Context{Ctx: ctx}
	cur, err := s.repo.GetCurrentByEmail(dbc, email)
	if err != nil || cur == nil {
		return nil, err
	}
	rows, err := s.hydrate(dbc, []T{*cur})
	if err != nil {
		return nil, err
	}
	return P(&rows[0]), nil
}

// hydrate fills the computed satellite flags.
func (s *registrantService[T, P]) hydrate(dbc dbctx.Context, rows []T) ([]T, error) {
	if rows == nil {
		rows = []T{}
	}
	ids := make([]uint, 0, len(rows))
	for i := range rows {
		if id := P(&rows[i]).Sats().EmailVerificationID; id != nil {
			ids = append(ids, *id)
		}
	}
	evs, err := s.verifications.GetByIDs(dbc, ids)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		sats := P(&rows[i]).Sats()
		sats.SignedIn = sats.SignInID != nil
		if sats.EmailVerificationID != nil {
			if ev := evs[*sats.EmailVerificationID]; ev != nil {
				sats.EmailVerified = ev.Verified
			}
		}
	}
	return rows, nil
}

// SignInState implements SignInTarget.
func (s *registrantService[T, P]) SignInState(dbc dbctx.Context, externalID uuid.UUID) (bool, bool, error) {
	cur, err := s.repo.GetCurrent(dbc, externalID)
	if err != nil || cur == nil {
		return false, false, err
	}
	return true, cur.Sats().SignInID != nil, nil
}

// AttachSignIn implements SignInTarget. The foreign key is set on the
// current version in place; later versions carry it forward.
func (s *registrantService[T, P]) AttachSignIn(dbc dbctx.Context, externalID uuid.UUID, signInID uint) error {
	cur, err := s.repo.GetCurrent(dbc, externalID)
	if err != nil {
		return err
	}
	if cur == nil {
		return s.notFound()
	}
	ok, err := s.repo.AttachSignIn(dbc, cur.Meta().ID, signInID)
	if err != nil {
		return err
	}
	if !ok {
		return apierr.AlreadySignedIn()
	}
	s.metrics.IncSignIn(string(s.schema.Kind))
	return nil
}

func (s *registrantService[T, P]) CountSignedIn(ctx context.Context) (int64, error) {
	return s.repo.CountSignedIn(dbctx.Context{Ctx: ctx})
}

func (s *registrantService[T, P]) Kind() registrant.Kind { return s.schema.Kind }

// SignWaiver implements WaiverTarget. It records the signature as a new
// version when the registrant is eligible and not already signed. It joins
// the transaction carried by dbc, using a savepoint when there is one.
func (s *registrantService[T, P]) SignWaiver(dbc dbctx.Context, email string, guardianSigned bool) (*waiver.Match, error) {
	var match *waiver.Match
	err := dbc.DB(s.db).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		cur, err := s.repo.GetCurrentByEmail(inner, email)
		if err != nil || cur == nil {
			return err
		}
		match = &waiver.Match{Kind: string(s.schema.Kind), ExternalID: cur.Meta().ExternalID.String()}
		if !cur.WaiverEligible(guardianSigned) {
			return nil
		}
		res, err := s.modify(inner, cur.Meta().ExternalID, signedWaiverDelta[T, P]{})
		if err != nil {
			return err
		}
		match.Signed = true
		if res.NewVersion {
			s.log.Info("waiver recorded", "external_id", match.ExternalID, "guardian_signed", guardianSigned)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

type signedWaiverDelta[T any, P registrant.Record[T]] struct{}

func (signedWaiverDelta[T, P]) Apply(cur T) (T, bool) {
	next := cur
	if P(&next).HasSignedWaiver() {
		return next, false
	}
	P(&next).SetSignedWaiver(true)
	return next, true
}

func (signedWaiverDelta[T, P]) VerifiedOverride() *bool { return nil }
