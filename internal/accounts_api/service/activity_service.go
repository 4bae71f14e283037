package service

import (
	"context"

	"github.com/bank-accounts-service/internal/domain/activity"
	"github.com/google/uuid"
)

// ActivityServiceImpl reads the activity log. Closed accounts keep their history, so the
// account is not required to still exist.
type ActivityServiceImpl struct {
	repo activity.Repository
}

func NewActivityService(repo activity.Repository) *ActivityServiceImpl {
	return &ActivityServiceImpl{repo: repo}
}

func (s *ActivityServiceImpl) ListActivity(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*activity.Entry, int64, error) {
	total, err := s.repo.CountByAccount(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*activity.Entry{}, 0, nil
	}

	entries, err := s.repo.ListByAccount(ctx, accountID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

var _ ActivityService = (*ActivityServiceImpl)(nil)
