package services

import (
	"context"

	"github.com/losaltoshacks/registration-backend/internal/data/repos"
	"github.com/losaltoshacks/registration-backend/internal/normalization"
	"github.com/losaltoshacks/registration-backend/internal/platform/apierr"
	"github.com/losaltoshacks/registration-backend/internal/platform/dbctx"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
)

type SubscriptionService interface {
	Subscribe(ctx context.Context, email string) error
	List(ctx context.Context) ([]string, error)
}

type subscriptionService struct {
	log  *logger.Logger
	repo repos.EmailSubscriptionRepo
}

func NewSubscriptionService(log *logger.Logger, repo repos.EmailSubscriptionRepo) SubscriptionService {
	return &subscriptionService{log: log.With("service", "SubscriptionService"), repo: repo}
}

func (s *subscriptionService) Subscribe(ctx context.Context, email string) error {
	email = normalization.ParseInputString(email)
	if email == "" || normalization.EmailDomain(email) == "" {
		return apierr.Validation("Invalid email")
	}
	return s.repo.Add(dbctx.Context{Ctx: ctx}, email)
}

func (s *subscriptionService) List(ctx context.Context) ([]string, error) {
	rows, err := s.repo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Email)
	}
	return out, nil
}
