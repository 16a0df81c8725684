package ports

import (
	"context"

	"github.com/learnly/course-platform/internal/core/domain"
)

// CourseRepository persists the course catalogue.
type CourseRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Course, error)
	FindAll(ctx context.Context) ([]*domain.Course, error)
	Create(ctx context.Context, course *domain.Course) (*domain.Course, error)
	Save(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id string) error
	IncrementPurchased(ctx context.Context, id string) error
}
