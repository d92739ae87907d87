package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/facebook"
	"github.com/quangdng/preschool-cms/internal/models"
)

var validate = validator.New()

// FacebookPublisher mirrors local posts onto the linked Page.
type FacebookPublisher interface {
	Publish(ctx context.Context, post *models.Post, assets []*models.Asset, cred facebook.Credential) (string, error)
	Unpublish(ctx context.Context, fbPostID string, cred facebook.Credential) bool
}

// FacebookTokenSource produces a valid Page credential for a user.
type FacebookTokenSource interface {
	GetValidToken(ctx context.Context, user *models.User) (facebook.Credential, error)
}

// AssetResolver maps public asset ids onto stored rows, order preserving
// and all-or-nothing.
type AssetResolver interface {
	ResolveByPublicIDs(ctx context.Context, publicIDs []uuid.UUID) ([]*models.Asset, error)
}

func validationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Validation(err.Error())
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return apperr.Validation("invalid request").WithFields(fields)
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
