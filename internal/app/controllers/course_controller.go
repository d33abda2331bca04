package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/coursecatalog/internal/app/models"
	"github.com/yigit/coursecatalog/internal/app/services"
	"github.com/yigit/coursecatalog/internal/middleware"
	"github.com/yigit/coursecatalog/internal/pkg/apperrors"
	"github.com/yigit/coursecatalog/internal/pkg/logger"
	"github.com/yigit/coursecatalog/internal/pkg/validation"
)

// CourseController handles the dashboard and the course pages
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

// Index renders the catalog totals. Counts that fail to load are shown as missing
// and the page still renders.
func (c *CourseController) Index(ctx *gin.Context) {
	dashboard, err := c.courseService.GetDashboard(ctx.Request.Context())
	errMessage := ""
	if err != nil {
		logger.Warn().Err(err).Msg("Dashboard rendered with missing counts")
		errMessage = err.Error()
	}

	ctx.HTML(http.StatusOK, "index", gin.H{
		"Title":           "Local Course Platform",
		"Error":           errMessage,
		"CourseCount":     dashboard.CourseCount,
		"InstructorCount": dashboard.InstructorCount,
		"CategoryCount":   dashboard.CategoryCount,
	})
}

// ListCourses renders all courses with their instructors
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.courseService.ListCourses(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "course_list", gin.H{
		"Title":   "Course List",
		"Courses": courses,
	})
}

// GetCourse renders a course with its instructor and categories
func (c *CourseController) GetCourse(ctx *gin.Context) {
	course, err := c.courseService.GetCourse(ctx.Request.Context(), middleware.GetID(ctx))
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "course_detail", gin.H{
		"Title":  "Course Detail",
		"Course": course,
	})
}

// CreateCourseForm renders an empty course form with the instructor and category pickers
func (c *CourseController) CreateCourseForm(ctx *gin.Context) {
	options, err := c.courseService.GetFormOptions(ctx.Request.Context(), nil)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	renderCourseForm(ctx, "Create Course", validation.Values{
		validation.FieldLeftSpots: strconv.Itoa(models.DefaultLeftSpots),
	}, options, nil)
}

// CreateCourse creates a course and redirects to it
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	course, values, errs := parseCourseForm(ctx)
	if len(errs) == 0 {
		err := c.courseService.CreateCourse(ctx.Request.Context(), course)
		switch {
		case err == nil:
			logger.Info().Str("courseID", course.ID.String()).Msg("Course created")
			redirect(ctx, course.URL())
			return
		case errors.Is(err, apperrors.ErrUnknownReference):
			errs = append(errs, unknownReferenceError())
		default:
			middleware.HandleError(ctx, err)
			return
		}
	}

	c.rerenderCourseForm(ctx, "Create Course", values, course.CategoryIDs, errs)
}

// DeleteCourseForm renders the delete confirmation
func (c *CourseController) DeleteCourseForm(ctx *gin.Context) {
	course, err := c.courseService.GetCourse(ctx.Request.Context(), middleware.GetID(ctx))
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "course_delete", gin.H{
		"Title":  "Delete Course",
		"Course": course,
	})
}

// DeleteCourse deletes a course; nothing references courses so there is no guard
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, err := bodyID(ctx, "courseid")
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	if err := c.courseService.DeleteCourse(ctx.Request.Context(), id); err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	logger.Info().Str("courseID", id.String()).Msg("Course deleted")
	redirect(ctx, coursesPath)
}

// UpdateCourseForm renders the form pre-filled with the course, its categories checked
func (c *CourseController) UpdateCourseForm(ctx *gin.Context) {
	course, options, err := c.courseService.GetCourseForUpdate(ctx.Request.Context(), middleware.GetID(ctx))
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	renderCourseForm(ctx, "Update Course", validation.Values{
		validation.FieldTitle:       course.Title,
		validation.FieldInstructor:  course.InstructorID.String(),
		validation.FieldDescription: course.Description,
		validation.FieldLeftSpots:   strconv.Itoa(course.LeftSpots),
	}, options, nil)
}

// UpdateCourse updates a course in place, keeping its id
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	existing, err := c.courseService.GetCourse(ctx.Request.Context(), middleware.GetID(ctx))
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	course, values, errs := parseCourseForm(ctx)
	if len(errs) == 0 {
		course.ID = existing.ID
		err = c.courseService.UpdateCourse(ctx.Request.Context(), course)
		switch {
		case err == nil:
			redirect(ctx, course.URL())
			return
		case errors.Is(err, apperrors.ErrUnknownReference):
			errs = append(errs, unknownReferenceError())
		default:
			middleware.HandleError(ctx, err)
			return
		}
	}

	c.rerenderCourseForm(ctx, "Update Course", values, course.CategoryIDs, errs)
}

// parseCourseForm validates the posted course. The category field may be absent,
// single or repeated; it always yields a set.
func parseCourseForm(ctx *gin.Context) (*models.Course, validation.Values, validation.Errors) {
	values, errs := validation.Run(validation.CourseRules, formValues(ctx, validation.CourseRules))

	course := models.NewCourse()
	course.Title = values[validation.FieldTitle]
	course.Description = values[validation.FieldDescription]

	categoryIDs, err := validation.NormalizeIDs(ctx.PostFormArray(validation.FieldCategory))
	if err != nil {
		errs = append(errs, validation.FieldError{Field: validation.FieldCategory, Message: "Category is not valid."})
	} else {
		course.CategoryIDs = categoryIDs
	}

	if id, err := uuid.Parse(values[validation.FieldInstructor]); err == nil {
		course.InstructorID = id
		values[validation.FieldInstructor] = id.String()
	}
	if !errs.Has(validation.FieldLeftSpots) {
		course.LeftSpots, _ = strconv.Atoi(values[validation.FieldLeftSpots])
	}

	return course, values, errs
}

func unknownReferenceError() validation.FieldError {
	return validation.FieldError{Field: validation.FieldInstructor, Message: "Selected instructor or category no longer exists."}
}

// rerenderCourseForm shows the form again with the pickers reloaded and the posted
// categories checked
func (c *CourseController) rerenderCourseForm(ctx *gin.Context, title string, values validation.Values, selected []uuid.UUID, errs validation.Errors) {
	options, err := c.courseService.GetFormOptions(ctx.Request.Context(), selected)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}
	renderCourseForm(ctx, title, values, options, errs)
}

func renderCourseForm(ctx *gin.Context, title string, values validation.Values, options *services.CourseFormOptions, errs validation.Errors) {
	ctx.HTML(http.StatusOK, "course_form", gin.H{
		"Title":       title,
		"Form":        values,
		"Instructors": options.Instructors,
		"Categories":  options.Categories,
		"Errors":      errs,
	})
}
