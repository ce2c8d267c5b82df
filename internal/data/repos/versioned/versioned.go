package versioned

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/losaltoshacks/registration-backend/internal/domain/registrant"
	"github.com/losaltoshacks/registration-backend/internal/platform/dbctx"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
)

// Repo stores the append-only version rows of one registrant kind.
// Lookups that find nothing return (nil, nil).
type Repo[T any, P registrant.Record[T]] interface {
	Insert(dbc dbctx.Context, row P) error
	GetCurrent(dbc dbctx.Context, externalID uuid.UUID) (P, error)
	GetCurrentByEmail(dbc dbctx.Context, email string) (P, error)
	EmailInUse(dbc dbctx.Context, email string, exclude uuid.UUID) (bool, error)
	// Outdate flags the row as superseded if it is still current and
	// reports whether it was.
	Outdate(dbc dbctx.Context, rowID uint) (bool, error)
	ListCurrent(dbc dbctx.Context) ([]T, error)
	History(dbc dbctx.Context, externalID uuid.UUID) ([]T, error)
	SearchText(dbc dbctx.Context, query string, columns []string) ([]T, error)
	SearchFilter(dbc dbctx.Context, conds map[string]any, mode registrant.OutdatedMode) ([]T, error)
	// AttachSignIn sets sign_in_id in place on a current row that has none.
	AttachSignIn(dbc dbctx.Context, rowID, signInID uint) (bool, error)
	CountSignedIn(dbc dbctx.Context) (int64, error)
}

type repo[T any, P registrant.Record[T]] struct {
	db   *gorm.DB
	log  *logger.Logger
	name string
}

func NewRepo[T any, P registrant.Record[T]](db *gorm.DB, baseLog *logger.Logger, name string) Repo[T, P] {
	return &repo[T, P]{
		db:   db,
		log:  baseLog.With("repo", name),
		name: name,
	}
}

func (r *repo[T, P]) model(dbc dbctx.Context) *gorm.DB {
	return dbc.DB(r.db).Model(P(new(T)))
}

func (r *repo[T, P]) Insert(dbc dbctx.Context, row P) error {
	if err := dbc.DB(r.db).Create(row).Error; err != nil {
		return fmt.Errorf("%s insert: %w", r.name, err)
	}
	return nil
}

func (r *repo[T, P]) takeOne(q *gorm.DB) (P, error) {
	var row T
	err := q.Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return P(&row), nil
}

func (r *repo[T, P]) GetCurrent(dbc dbctx.Context, externalID uuid.UUID) (P, error) {
	row, err := r.takeOne(r.model(dbc).Where("external_id = ? AND outdated = ?", externalID, false))
	if err != nil {
		return nil, fmt.Errorf("%s get current: %w", r.name, err)
	}
	return row, nil
}

func (r *repo[T, P]) GetCurrentByEmail(dbc dbctx.Context, email string) (P, error) {
	row, err := r.takeOne(r.model(dbc).Where("email = ? AND outdated = ?", email, false))
	if err != nil {
		return nil, fmt.Errorf("%s get by email: %w", r.name, err)
	}
	return row, nil
}

func (r *repo[T, P]) EmailInUse(dbc dbctx.Context, email string, exclude uuid.UUID) (bool, error) {
	var n int64
	q := r.model(dbc).Where("email = ? AND outdated = ?", email, false)
	if exclude != uuid.Nil {
		q = q.Where("external_id <> ?", exclude)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("%s email in use: %w", r.name, err)
	}
	return n > 0, nil
}

func (r *repo[T, P]) Outdate(dbc dbctx.Context, rowID uint) (bool, error) {
	res := r.model(dbc).
		Where("id = ? AND outdated = ?", rowID, false).
		Update("outdated", true)
	if res.Error != nil {
		return false, fmt.Errorf("%s outdate: %w", r.name, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *repo[T, P]) ListCurrent(dbc dbctx.Context) ([]T, error) {
	var out []T
	if err := r.model(dbc).Where("outdated = ?", false).Order("timestamp ASC, id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s list: %w", r.name, err)
	}
	return out, nil
}

func (r *repo[T, P]) History(dbc dbctx.Context, externalID uuid.UUID) ([]T, error) {
	var out []T
	if err := r.model(dbc).Where("external_id = ?", externalID).Order("timestamp ASC, id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s history: %w", r.name, err)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *repo[T, P]) SearchText(dbc dbctx.Context, query string, columns []string) ([]T, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []T{}, nil
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"

	clauses := make([]string, 0, len(columns)+1)
	args := make([]any, 0, len(columns)+1)
	if id, err := uuid.Parse(query); err == nil {
		clauses = append(clauses, "external_id = ?")
		args = append(args, id)
	}
	for _, col := range columns {
		clauses = append(clauses, fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col))
		args = append(args, pattern)
	}
	if len(clauses) == 0 {
		return []T{}, nil
	}

	var out []T
	err := r.model(dbc).
		Where("outdated = ?", false).
		Where("("+strings.Join(clauses, " OR ")+")", args...).
		Order("timestamp ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("%s search text: %w", r.name, err)
	}
	return out, nil
}

func (r *repo[T, P]) SearchFilter(dbc dbctx.Context, conds map[string]any, mode registrant.OutdatedMode) ([]T, error) {
	q := r.model(dbc)
	if len(conds) > 0 {
		q = q.Where(conds)
	}
	switch mode {
	case registrant.OutdatedOnly:
		q = q.Where("outdated = ?", true)
	case registrant.OutdatedAny:
	default:
		q = q.Where("outdated = ?", false)
	}
	var out []T
	if err := q.Order("timestamp ASC, id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s search filter: %w", r.name, err)
	}
	return out, nil
}

func (r *repo[T, P]) AttachSignIn(dbc dbctx.Context, rowID, signInID uint) (bool, error) {
	res := r.model(dbc).
		Where("id = ? AND outdated = ? AND sign_in_id IS NULL", rowID, false).
		Update("sign_in_id", signInID)
	if res.Error != nil {
		return false, fmt.Errorf("%s attach sign in: %w", r.name, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *repo[T, P]) CountSignedIn(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := r.model(dbc).Where("outdated = ? AND sign_in_id IS NOT NULL", false).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("%s count signed in: %w", r.name, err)
	}
	return n, nil
}
