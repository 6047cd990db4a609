package points

import (
	"context"
	"fmt"
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

func (s *Service) Summary(ctx context.Context, userID int) (Summary, error) {
	entries, err := s.repo.Entries(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Balance: Balance(entries), History: entries}, nil
}

func (s *Service) Rewards(ctx context.Context) ([]Reward, error) {
	return s.repo.Rewards(ctx)
}

// Redeem spends points on an active reward. The repository checks the balance
// and inserts in one step so concurrent redemptions cannot overspend.
func (s *Service) Redeem(ctx context.Context, userID, rewardID int) (Entry, error) {
	rw, err := s.repo.RewardByID(ctx, rewardID)
	if err != nil {
		return Entry{}, err
	}
	if !rw.Active {
		return Entry{}, ErrRewardNotFound
	}

	e, err := s.repo.Spend(ctx, Entry{
		UserID:      userID,
		Points:      -rw.PointsRequired,
		Type:        TypeRedeemed,
		Description: fmt.Sprintf("Canje: %s", rw.Name),
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return Entry{}, err
	}
	s.log.Info("reward redeemed",
		zap.Int("user_id", userID),
		zap.Int("reward_id", rewardID),
		zap.Int("points", rw.PointsRequired),
	)
	return e, nil
}
