package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnly/course-platform/internal/core/domain"
	"github.com/learnly/course-platform/internal/core/ports"
)

// CourseHandler exposes the catalogue collaborator endpoints. It exists to
// exercise the gates: public reads, admin writes, and an authenticated
// purchase that mutates the caller's session-backed identity.
type CourseHandler struct {
	courseService ports.CourseService
}

func NewCourseHandler(courseService ports.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

type courseRequest struct {
	Title          string   `json:"title" validate:"required"`
	Description    string   `json:"description"`
	Level          string   `json:"level"`
	Tags           []string `json:"tags"`
	Price          float64  `json:"price" validate:"gte=0"`
	EstimatedPrice float64  `json:"estimated_price" validate:"gte=0"`
}

type purchaseRequest struct {
	CourseID string `json:"course_id" validate:"required"`
}

type coursesResponse struct {
	Courses []*domain.Course `json:"courses"`
}

type courseResponse struct {
	Course *domain.Course `json:"course"`
}

func (h *CourseHandler) List(c echo.Context) error {
	courses, err := h.courseService.List(c.Request().Context())
	if err != nil {
		return err
	}
	if courses == nil {
		courses = []*domain.Course{}
	}
	return c.JSON(http.StatusOK, coursesResponse{Courses: courses})
}

func (h *CourseHandler) Get(c echo.Context) error {
	course, err := h.courseService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, courseResponse{Course: course})
}

func (h *CourseHandler) Create(c echo.Context) error {
	var req courseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	course, err := h.courseService.Create(c.Request().Context(), courseInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, courseResponse{Course: course})
}

func (h *CourseHandler) Update(c echo.Context) error {
	var req courseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	course, err := h.courseService.Update(c.Request().Context(), c.Param("id"), courseInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, courseResponse{Course: course})
}

func (h *CourseHandler) Delete(c echo.Context) error {
	if err := h.courseService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "course deleted successfully"})
}

// Purchase records an order for the authenticated caller.
func (h *CourseHandler) Purchase(c echo.Context) error {
	sess, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req purchaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.courseService.Purchase(c.Request().Context(), sess.UserID, req.CourseID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResponse{User: user})
}

func courseInput(req courseRequest) ports.CourseInput {
	return ports.CourseInput{
		Title:          req.Title,
		Description:    req.Description,
		Level:          req.Level,
		Tags:           req.Tags,
		Price:          req.Price,
		EstimatedPrice: req.EstimatedPrice,
	}
}
