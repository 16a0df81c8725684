package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/learnly/course-platform/internal/core/domain"
	"github.com/learnly/course-platform/internal/core/ports"
)

// CourseService is the thin catalogue collaborator. Its only interesting
// path is Purchase, which mutates the user's purchased list and therefore
// must overwrite the session cache entry.
type CourseService struct {
	courses  ports.CourseRepository
	users    ports.UserRepository
	sessions ports.SessionStore
	logger   zerolog.Logger
}

func NewCourseService(
	courses ports.CourseRepository,
	users ports.UserRepository,
	sessions ports.SessionStore,
	logger zerolog.Logger,
) *CourseService {
	return &CourseService{courses: courses, users: users, sessions: sessions, logger: logger}
}

func (s *CourseService) List(ctx context.Context) ([]*domain.Course, error) {
	return s.courses.FindAll(ctx)
}

func (s *CourseService) Get(ctx context.Context, id string) (*domain.Course, error) {
	return s.courses.FindByID(ctx, id)
}

func (s *CourseService) Create(ctx context.Context, input ports.CourseInput) (*domain.Course, error) {
	if input.Title == "" {
		return nil, domain.ErrInvalidCredentials
	}
	now := time.Now().UTC()
	return s.courses.Create(ctx, &domain.Course{
		Title:          input.Title,
		Description:    input.Description,
		Level:          input.Level,
		Tags:           input.Tags,
		Price:          input.Price,
		EstimatedPrice: input.EstimatedPrice,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (s *CourseService) Update(ctx context.Context, id string, input ports.CourseInput) (*domain.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Title != "" {
		course.Title = input.Title
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.Level != "" {
		course.Level = input.Level
	}
	if input.Tags != nil {
		course.Tags = input.Tags
	}
	if input.Price > 0 {
		course.Price = input.Price
	}
	if input.EstimatedPrice > 0 {
		course.EstimatedPrice = input.EstimatedPrice
	}
	course.UpdatedAt = time.Now().UTC()

	if err := s.courses.Save(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, id string) error {
	return s.courses.Delete(ctx, id)
}

// Purchase appends the course reference to the user and overwrites the
// session entry so the request identity reflects the purchase immediately.
func (s *CourseService) Purchase(ctx context.Context, userID, courseID string) (*domain.User, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.HasCourse(course.ID) {
		return nil, domain.ErrAlreadyPurchased
	}

	user.Courses = append(user.Courses, domain.CourseRef{CourseID: course.ID})
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	if err := s.courses.IncrementPurchased(ctx, course.ID); err != nil {
		s.logger.Warn().Err(err).Str("course_id", course.ID).Msg("purchase count update failed")
	}

	sess, err := s.sessions.Get(ctx, userID)
	if err == nil {
		if err := s.sessions.Put(ctx, userID, domain.NewSession(user, sess.AccessToken)); err != nil {
			return nil, fmt.Errorf("refresh session: %w", err)
		}
	} else if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("load session: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Str("course_id", course.ID).Msg("course purchased")
	return user, nil
}
