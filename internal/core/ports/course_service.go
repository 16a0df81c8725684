package ports

import (
	"context"

	"github.com/learnly/course-platform/internal/core/domain"
)

// CourseInput carries the editable course fields.
type CourseInput struct {
	Title          string
	Description    string
	Level          string
	Tags           []string
	Price          float64
	EstimatedPrice float64
}

type CourseService interface {
	List(ctx context.Context) ([]*domain.Course, error)
	Get(ctx context.Context, id string) (*domain.Course, error)
	Create(ctx context.Context, input CourseInput) (*domain.Course, error)
	Update(ctx context.Context, id string, input CourseInput) (*domain.Course, error)
	Delete(ctx context.Context, id string) error

	// Purchase appends the course to the user's purchased list and refreshes
	// the user's session cache entry so request identities stay current.
	Purchase(ctx context.Context, userID, courseID string) (*domain.User, error)
}
