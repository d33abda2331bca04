package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/coursecatalog/internal/app/models"
	"github.com/yigit/coursecatalog/internal/app/services"
)

// Result holds the records Populate created, keyed the way the course fixtures refer
// to them: categories by title, instructors by family name.
type Result struct {
	Categories  map[string]*models.Category
	Instructors map[string]*models.Instructor
	Courses     []*models.Course
}

type instructorFixture struct {
	FirstName  string
	FamilyName string
	Bio        string
	ImageURL   string
}

type courseFixture struct {
	Title       string
	Description string
	Instructor  string
	Categories  []string
	LeftSpots   int
}

var categoryFixtures = []string{"Health", "Personal Development", "Computer Science"}

var instructorFixtures = []instructorFixture{
	{FirstName: "Patrick", FamilyName: "Rothfuss"},
	{FirstName: "Ben", FamilyName: "Bova"},
	{
		FirstName:  "Isaac",
		FamilyName: "Asimov",
		Bio: "Dr. Asimov has spent over twenty years researching contagious diseases and has published widely in " +
			"leading scientific journals. He holds a Bachelor's degree in Biology, a Master's degree in Epidemiology " +
			"and a PhD in Infectious Diseases.\n\nToday he teaches contagious diseases at a research university and " +
			"advises government agencies on the prevention and control of infectious diseases. His research covers " +
			"the transmission of viral and bacterial infections and new strategies for their prevention and treatment.",
	},
	{
		FirstName:  "Anna",
		FamilyName: "Billings",
		Bio: "Anna is a career consultant with more than ten years of experience helping graduates, mid-career " +
			"professionals and executives plan their next step.\n\nWith a background in psychology and human " +
			"resources she guides clients through assessments, goal setting, job search strategy, resume writing, " +
			"interviewing and networking. Her approach is personal and practical.",
	},
	{
		FirstName:  "Giulia",
		FamilyName: "Jones",
		Bio: "Giulia is a frontend developer who works with HTML, CSS, JavaScript, React and Angular on projects " +
			"for e-commerce, healthcare and finance clients.\n\nShe has taught students of every level, from " +
			"beginners to experienced developers, and is an active member of the frontend community.",
		ImageURL: "/images/profile_images/JavaScript.png",
	},
}

var courseFixtures = []courseFixture{
	{
		Title: "Introduction to JavaScript",
		Description: "Learn the fundamentals of JavaScript, one of the most popular languages of the web: variables, " +
			"data types, functions and control structures. You will manipulate the Document Object Model and make " +
			"pages interactive with events and animations.",
		Instructor: "Jones",
		Categories: []string{"Computer Science"},
		LeftSpots:  1,
	},
	{
		Title: "Epidemiology, Intervention and Prevention",
		Description: "A comprehensive introduction to the principles of epidemiology and how they inform the design " +
			"of interventions and prevention strategies. Through case studies you will learn to study the " +
			"distribution of diseases in populations and to evaluate public health programs.",
		Instructor: "Asimov",
		Categories: []string{"Health"},
		LeftSpots:  22,
	},
	{
		Title: "Resume Writing",
		Description: "Create a professional resume that catches the attention of employers. The course covers the " +
			"different types of resumes, tailoring a resume to a specific job and highlighting your skills and " +
			"experience.",
		Instructor: "Billings",
		Categories: []string{"Personal Development"},
		LeftSpots:  14,
	},
	{
		Title: "The Addiction Behaviors",
		Description: "Understand the addiction behaviors people exhibit, from substance abuse to gambling and " +
			"technology addiction, their causes and consequences, and practical strategies for managing and " +
			"overcoming them.",
		Instructor: "Rothfuss",
		Categories: []string{"Health"},
		LeftSpots:  30,
	},
	{
		Title:       "Test Course 1",
		Description: "Introduction of test course 1",
		Instructor:  "Bova",
		Categories:  []string{"Health", "Personal Development"},
		LeftSpots:   0,
	},
	{
		Title:       "Test Course 2",
		Description: "Introduction of test course 2",
		Instructor:  "Asimov",
		LeftSpots:   3,
	},
}

// Populate creates the sample catalog. Each stage feeds the next through its return
// value; a stage that fails stops the run after reporting every error it hit.
func Populate(ctx context.Context, stores services.Stores, lgr zerolog.Logger) (*Result, error) {
	categories, err := createCategories(ctx, stores.Categories, lgr)
	if err != nil {
		return nil, err
	}

	instructors, err := createInstructors(ctx, stores.Instructors, lgr)
	if err != nil {
		return nil, err
	}

	courses, err := createCourses(ctx, stores.Courses, categories, instructors, lgr)
	if err != nil {
		return nil, err
	}

	return &Result{
		Categories:  categories,
		Instructors: instructors,
		Courses:     courses,
	}, nil
}

// IsEmpty reports whether the catalog has no records at all
func IsEmpty(ctx context.Context, stores services.Stores) (bool, error) {
	counters := []func(context.Context) (int, error){
		stores.Categories.CountCategories,
		stores.Instructors.CountInstructors,
		stores.Courses.CountCourses,
	}
	for _, count := range counters {
		n, err := count(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to count catalog records: %w", err)
		}
		if n > 0 {
			return false, nil
		}
	}
	return true, nil
}

func createCategories(ctx context.Context, store services.CategoryStore, lgr zerolog.Logger) (map[string]*models.Category, error) {
	lgr.Info().Msg("Adding categories")

	created := make(map[string]*models.Category, len(categoryFixtures))
	var finalErr error
	for _, title := range categoryFixtures {
		category := &models.Category{Title: title}
		if err := store.CreateCategory(ctx, category); err != nil {
			lgr.Error().Err(err).Str("title", title).Msg("Error creating category")
			finalErr = errors.Join(finalErr, fmt.Errorf("category %q: %w", title, err))
			continue
		}
		created[title] = category
		lgr.Info().Str("title", title).Msg("Added category")
	}
	return created, finalErr
}

func createInstructors(ctx context.Context, store services.InstructorStore, lgr zerolog.Logger) (map[string]*models.Instructor, error) {
	lgr.Info().Msg("Adding instructors")

	created := make(map[string]*models.Instructor, len(instructorFixtures))
	var finalErr error
	for _, f := range instructorFixtures {
		instructor := &models.Instructor{
			FirstName:  f.FirstName,
			FamilyName: f.FamilyName,
			Bio:        f.Bio,
			ImageURL:   f.ImageURL,
		}
		if instructor.ImageURL == "" {
			instructor.ImageURL = models.DefaultInstructorImage
		}
		if err := store.CreateInstructor(ctx, instructor); err != nil {
			lgr.Error().Err(err).Str("name", instructor.DisplayName()).Msg("Error creating instructor")
			finalErr = errors.Join(finalErr, fmt.Errorf("instructor %q: %w", instructor.DisplayName(), err))
			continue
		}
		created[f.FamilyName] = instructor
		lgr.Info().Str("name", instructor.DisplayName()).Msg("Added instructor")
	}
	return created, finalErr
}

func createCourses(
	ctx context.Context,
	store services.CourseStore,
	categories map[string]*models.Category,
	instructors map[string]*models.Instructor,
	lgr zerolog.Logger,
) ([]*models.Course, error) {
	lgr.Info().Msg("Adding courses")

	created := make([]*models.Course, 0, len(courseFixtures))
	var finalErr error
	for _, f := range courseFixtures {
		course, err := buildCourse(f, categories, instructors)
		if err == nil {
			err = store.CreateCourse(ctx, course)
		}
		if err != nil {
			lgr.Error().Err(err).Str("title", f.Title).Msg("Error creating course")
			finalErr = errors.Join(finalErr, fmt.Errorf("course %q: %w", f.Title, err))
			continue
		}
		created = append(created, course)
		lgr.Info().Str("title", f.Title).Msg("Added course")
	}
	return created, finalErr
}

func buildCourse(f courseFixture, categories map[string]*models.Category, instructors map[string]*models.Instructor) (*models.Course, error) {
	instructor, ok := instructors[f.Instructor]
	if !ok {
		return nil, fmt.Errorf("unknown instructor %q", f.Instructor)
	}

	course := models.NewCourse()
	course.Title = f.Title
	course.Description = f.Description
	course.InstructorID = instructor.ID
	course.LeftSpots = f.LeftSpots
	for _, title := range f.Categories {
		category, ok := categories[title]
		if !ok {
			return nil, fmt.Errorf("unknown category %q", title)
		}
		course.CategoryIDs = append(course.CategoryIDs, category.ID)
	}
	return course, nil
}
