package membership

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

type Service struct {
	repo Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// Current returns the user's membership. Users without a row are on the free
// plan.
func (s *Service) Current(ctx context.Context, userID int) (Membership, error) {
	m, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return Membership{UserID: userID, PlanType: PlanFree, Status: StatusActive}, nil
	}
	return m, err
}

// Upgrade moves the user to a paid plan starting now.
func (s *Service) Upgrade(ctx context.Context, userID int, plan string) (Membership, error) {
	if plan != PlanMonthly && plan != PlanAnnual {
		return Membership{}, ErrInvalidPlan
	}

	start := s.now().UTC()
	end := start.AddDate(0, 1, 0)
	if plan == PlanAnnual {
		end = start.AddDate(1, 0, 0)
	}
	m := Membership{
		UserID:    userID,
		PlanType:  plan,
		Status:    StatusActive,
		StartDate: start,
		EndDate:   &end,
		AutoRenew: true,
	}
	if err := s.repo.Upsert(ctx, m); err != nil {
		return Membership{}, err
	}
	s.log.Info("membership upgraded", zap.Int("user_id", userID), zap.String("plan", plan))
	return m, nil
}
