package notifier

import (
	"context"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
)

// Recorder stores draw notifications so a reconnecting screen can replay the feed
type Recorder struct {
	repo repositories.NotificationRepository
}

func NewRecorder(repo repositories.NotificationRepository) *Recorder {
	return &Recorder{repo: repo}
}

var _ Notifier = (*Recorder)(nil)

func (r *Recorder) Publish(ctx context.Context, n models.DrawNotification) error {
	if n.Kind == models.NotificationControllerStatus {
		return nil
	}
	return r.repo.Create(ctx, &n)
}
