package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursecatalog/internal/app/models"
	"github.com/yigit/coursecatalog/internal/app/services"
	"github.com/yigit/coursecatalog/internal/middleware"
	"github.com/yigit/coursecatalog/internal/pkg/apperrors"
	"github.com/yigit/coursecatalog/internal/pkg/filestorage"
	"github.com/yigit/coursecatalog/internal/pkg/logger"
	"github.com/yigit/coursecatalog/internal/pkg/validation"
)

// InstructorController handles instructor pages and profile image uploads
type InstructorController struct {
	instructorService services.InstructorService
	images            filestorage.ImageStorage
}

// NewInstructorController creates a new InstructorController
func NewInstructorController(instructorService services.InstructorService, images filestorage.ImageStorage) *InstructorController {
	return &InstructorController{
		instructorService: instructorService,
		images:            images,
	}
}

// ListInstructors renders all instructors sorted by family name
func (c *InstructorController) ListInstructors(ctx *gin.Context) {
	instructors, err := c.instructorService.ListInstructors(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "instructor_list", gin.H{
		"Title":       "Instructor List",
		"Instructors": instructors,
	})
}

// GetInstructor renders an instructor with the courses they teach
func (c *InstructorController) GetInstructor(ctx *gin.Context) {
	detail, err := c.instructorService.GetInstructorDetail(ctx.Request.Context(), middleware.GetID(ctx))
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "instructor_detail", gin.H{
		"Title":      "Instructor Detail",
		"Instructor": detail.Instructor,
		"Courses":    detail.Courses,
	})
}

// CreateInstructorForm renders an empty instructor form
func (c *InstructorController) CreateInstructorForm(ctx *gin.Context) {
	renderInstructorForm(ctx, "Create Instructor", validation.Values{}, nil)
}

// CreateInstructor creates an instructor. Records with identical names are allowed.
func (c *InstructorController) CreateInstructor(ctx *gin.Context) {
	values, upload, ok := c.parseInstructorForm(ctx, "Create Instructor")
	if !ok {
		return
	}

	instructor := instructorFromValues(values)
	if upload != nil {
		url, err := c.images.SaveImage(upload, validation.FieldImage)
		if err != nil {
			middleware.HandleError(ctx, err)
			return
		}
		instructor.ImageURL = url
	}

	if err := c.instructorService.CreateInstructor(ctx.Request.Context(), instructor); err != nil {
		c.removeImage(instructor.ImageURL)
		middleware.HandleError(ctx, err)
		return
	}

	logger.Info().Str("instructorID", instructor.ID.String()).Msg("Instructor created")
	redirect(ctx, instructor.URL())
}

// DeleteInstructorForm renders the delete confirmation, listing blocking courses
func (c *InstructorController) DeleteInstructorForm(ctx *gin.Context) {
	detail, err := c.instructorService.GetInstructorDetail(ctx.Request.Context(), middleware.GetID(ctx))
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}
	renderInstructorDelete(ctx, detail)
}

// DeleteInstructor deletes an instructor who teaches no course, along with their
// uploaded image
func (c *InstructorController) DeleteInstructor(ctx *gin.Context) {
	id, err := bodyID(ctx, "instructorid")
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	detail, err := c.instructorService.DeleteInstructor(ctx.Request.Context(), id)
	if errors.Is(err, apperrors.ErrInstructorHasCourses) {
		renderInstructorDelete(ctx, detail)
		return
	}
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	c.removeImage(detail.Instructor.ImageURL)
	logger.Info().Str("instructorID", id.String()).Msg("Instructor deleted")
	redirect(ctx, instructorsPath)
}

// UpdateInstructorForm renders the form pre-filled with the stored instructor
func (c *InstructorController) UpdateInstructorForm(ctx *gin.Context) {
	instructor, err := c.instructorService.GetInstructor(ctx.Request.Context(), middleware.GetID(ctx))
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	renderInstructorForm(ctx, "Update Instructor", validation.Values{
		validation.FieldFirstName:  instructor.FirstName,
		validation.FieldFamilyName: instructor.FamilyName,
		validation.FieldBio:        instructor.Bio,
	}, nil)
}

// UpdateInstructor updates an instructor in place. Without a new upload the image
// goes back to the placeholder.
func (c *InstructorController) UpdateInstructor(ctx *gin.Context) {
	existing, err := c.instructorService.GetInstructor(ctx.Request.Context(), middleware.GetID(ctx))
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	values, upload, ok := c.parseInstructorForm(ctx, "Update Instructor")
	if !ok {
		return
	}

	instructor := instructorFromValues(values)
	instructor.ID = existing.ID
	if upload != nil {
		url, err := c.images.SaveImage(upload, validation.FieldImage)
		if err != nil {
			middleware.HandleError(ctx, err)
			return
		}
		instructor.ImageURL = url
	}

	if err := c.instructorService.UpdateInstructor(ctx.Request.Context(), instructor); err != nil {
		c.removeImage(instructor.ImageURL)
		middleware.HandleError(ctx, err)
		return
	}
	if existing.ImageURL != instructor.ImageURL {
		c.removeImage(existing.ImageURL)
	}

	redirect(ctx, instructor.URL())
}

// parseInstructorForm validates the text fields and the optional upload. When it
// returns false the response has been written.
func (c *InstructorController) parseInstructorForm(ctx *gin.Context, title string) (validation.Values, *multipart.FileHeader, bool) {
	values, errs := validation.Run(validation.InstructorRules, formValues(ctx, validation.InstructorRules))

	upload, err := ctx.FormFile(validation.FieldImage)
	switch {
	case err == nil:
		if err := c.images.CheckImage(upload); err != nil {
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				middleware.HandleError(ctx, err)
				return nil, nil, false
			}
			errs = append(errs, validation.FieldError{Field: validation.FieldImage, Message: err.Error()})
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		upload = nil
	default:
		middleware.HandleError(ctx, apperrors.NewBadRequestError("Malformed upload"))
		return nil, nil, false
	}

	if len(errs) > 0 {
		renderInstructorForm(ctx, title, values, errs)
		return nil, nil, false
	}
	return values, upload, true
}

func (c *InstructorController) removeImage(url string) {
	if err := c.images.DeleteFile(url); err != nil {
		logger.Warn().Err(err).Str("url", url).Msg("Failed to remove instructor image")
	}
}

func instructorFromValues(values validation.Values) *models.Instructor {
	return &models.Instructor{
		FirstName:  values[validation.FieldFirstName],
		FamilyName: values[validation.FieldFamilyName],
		Bio:        values[validation.FieldBio],
		ImageURL:   models.DefaultInstructorImage,
	}
}

func renderInstructorForm(ctx *gin.Context, title string, values validation.Values, errs validation.Errors) {
	ctx.HTML(http.StatusOK, "instructor_form", gin.H{
		"Title":  title,
		"Form":   values,
		"Errors": errs,
	})
}

func renderInstructorDelete(ctx *gin.Context, detail *services.InstructorDetail) {
	ctx.HTML(http.StatusOK, "instructor_delete", gin.H{
		"Title":      "Delete Instructor",
		"Instructor": detail.Instructor,
		"Courses":    detail.Courses,
	})
}
