package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/quangdng/preschool-cms/internal/facebook"
	"github.com/quangdng/preschool-cms/internal/models"
	"github.com/quangdng/preschool-cms/internal/repository"
)

// refreshWindow is how close to expiry a stored user token gets before the
// job re-exchanges it.
const refreshWindow = 7 * 24 * time.Hour

type TokenRefreshJob struct {
	users  repository.UserRepository
	tokens *facebook.TokenManager
}

func NewTokenRefreshJob(users repository.UserRepository, tokens *facebook.TokenManager) *TokenRefreshJob {
	return &TokenRefreshJob{
		users:  users,
		tokens: tokens,
	}
}

func (j *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	users, err := j.users.ListWithFacebookLink(ctx)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 5
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, u := range users {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(u *models.User) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := j.tokens.RefreshExpiringLink(ctx, u, refreshWindow); err != nil {
				slog.Info("unable to refresh facebook link", "user_id", u.ID, "error", err)
			}
		}(u)
	}

	wg.Wait()
}
