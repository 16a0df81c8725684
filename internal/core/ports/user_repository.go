package ports

import (
	"context"

	"github.com/learnly/course-platform/internal/core/domain"
)

// UserRepository is the credential store: persisted user records keyed by id
// with a unique email constraint enforced at write time.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]*domain.User, error)
}
