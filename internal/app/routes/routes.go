package routes

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursecatalog/internal/app/controllers"
	"github.com/yigit/coursecatalog/internal/middleware"
	"github.com/yigit/coursecatalog/internal/web"
)

// Controllers groups the handlers mounted under /catalog
type Controllers struct {
	Category   *controllers.CategoryController
	Instructor *controllers.InstructorController
	Course     *controllers.CourseController
}

// NewRouter builds a gin engine with the templates, middleware, static files and
// catalog routes.
func NewRouter(ctrls Controllers, publicDir string) (*gin.Engine, error) {
	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())
	router.SetHTMLTemplate(templates)

	router.Static("/images", filepath.Join(publicDir, "images"))
	router.Static("/stylesheets", filepath.Join(publicDir, "stylesheets"))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/catalog/")
	})

	SetupRouter(router, ctrls)
	router.NoRoute(middleware.NotFound())

	return router, nil
}

// SetupRouter configures all catalog routes
func SetupRouter(router *gin.Engine, ctrls Controllers) {
	catalog := router.Group("/catalog")

	catalog.GET("/", ctrls.Course.Index)

	// Course routes
	catalog.GET("/courses", ctrls.Course.ListCourses)
	catalog.GET("/course/create", ctrls.Course.CreateCourseForm)
	catalog.POST("/course/create", ctrls.Course.CreateCourse)
	course := catalog.Group("/course/:id", middleware.ParseIDParam())
	{
		course.GET("", ctrls.Course.GetCourse)
		course.GET("/update", ctrls.Course.UpdateCourseForm)
		course.POST("/update", ctrls.Course.UpdateCourse)
		course.GET("/delete", ctrls.Course.DeleteCourseForm)
		course.POST("/delete", ctrls.Course.DeleteCourse)
	}

	// Instructor routes
	catalog.GET("/instructors", ctrls.Instructor.ListInstructors)
	catalog.GET("/instructor/create", ctrls.Instructor.CreateInstructorForm)
	catalog.POST("/instructor/create", ctrls.Instructor.CreateInstructor)
	instructor := catalog.Group("/instructor/:id", middleware.ParseIDParam())
	{
		instructor.GET("", ctrls.Instructor.GetInstructor)
		instructor.GET("/update", ctrls.Instructor.UpdateInstructorForm)
		instructor.POST("/update", ctrls.Instructor.UpdateInstructor)
		instructor.GET("/delete", ctrls.Instructor.DeleteInstructorForm)
		instructor.POST("/delete", ctrls.Instructor.DeleteInstructor)
	}

	// Category routes
	catalog.GET("/categories", ctrls.Category.ListCategories)
	catalog.GET("/category/create", ctrls.Category.CreateCategoryForm)
	catalog.POST("/category/create", ctrls.Category.CreateCategory)
	category := catalog.Group("/category/:id", middleware.ParseIDParam())
	{
		category.GET("", ctrls.Category.GetCategory)
		category.GET("/update", ctrls.Category.UpdateCategoryForm)
		category.POST("/update", ctrls.Category.UpdateCategory)
		category.GET("/delete", ctrls.Category.DeleteCategoryForm)
		category.POST("/delete", ctrls.Category.DeleteCategory)
	}
}
