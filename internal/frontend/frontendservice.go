package frontend

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/jo-hoe/eduboard/internal/backend/charts"
	"github.com/jo-hoe/eduboard/internal/backend/stats"
	"github.com/jo-hoe/eduboard/internal/common"
	"github.com/jo-hoe/eduboard/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	MainPageName = "index.html"
	mimePNG      = "image/png"
	mimeSVG      = "image/svg+xml"
	mimeCSV      = "text/csv; charset=utf-8"
)

type FrontendService struct {
	coreService *core.CoreService
}

func NewFrontendService(coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
	}
}

type statisticsView struct {
	Overview       core.Overview
	FrequencyChart template.HTML
}

type vectorView struct {
	Mode     string
	Input    string
	Exercise *core.VectorExercise
	Chart    template.HTML
	Error    string
	Message  string
}

type studentsView struct {
	Table       core.StudentTable
	GradesChart template.HTML
	AgesChart   template.HTML
	Error       string
	Message     string
}

type pageView struct {
	Statistics statisticsView
	Vector     vectorView
	Students   studentsView
}

// rootRedirectHandler redirects root path to index.html
func (service *FrontendService) rootRedirectHandler(ctx echo.Context) error {
	return ctx.Redirect(http.StatusMovedPermanently, "/"+MainPageName)
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.Renderer = newTemplate()

	e.GET("/", service.rootRedirectHandler) // Redirect root to index.html
	e.GET("/"+MainPageName, service.indexHandler)

	e.GET("/htmx/vector", service.htmxVectorHandler)
	e.POST("/htmx/vector/save", service.htmxSaveVectorHandler)

	e.POST("/htmx/students", service.htmxInsertStudentHandler)
	e.POST("/htmx/students/update", service.htmxUpdateStudentHandler)
	e.POST("/htmx/students/delete", service.htmxDeleteStudentHandler)

	e.GET("/students.csv", service.exportStudentsHandler)
	e.GET("/charts/:file", service.chartHandler)

	// Favicon (SVG) route
	e.GET("/icon.svg", service.iconHandler)
}

// indexHandler renders the whole dashboard. Every visit recomputes all exercises.
func (service *FrontendService) indexHandler(ctx echo.Context) error {
	var input common.VectorInput
	if err := ctx.Bind(&input); err != nil {
		input = common.VectorInput{}
	}

	students, err := service.studentsView(ctx, "", "")
	if err != nil {
		slog.Error("indexHandler: failed to load students", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load students")
	}

	overview := service.coreService.Statistics()
	page := pageView{
		Statistics: statisticsView{
			Overview:       overview,
			FrequencyChart: service.inlineChart(core.FrequencyChart(overview)),
		},
		Vector:   service.vectorView(ctx, input),
		Students: students,
	}

	service.setNoCache(ctx)
	return ctx.Render(http.StatusOK, MainPageName, page)
}

func (service *FrontendService) htmxVectorHandler(ctx echo.Context) error {
	var input common.VectorInput
	if err := ctx.Bind(&input); err != nil {
		return service.renderVector(ctx, vectorView{Error: validationMessage(err)})
	}
	service.setNoCache(ctx)
	return service.renderVector(ctx, service.vectorView(ctx, input))
}

func (service *FrontendService) htmxSaveVectorHandler(ctx echo.Context) error {
	var input common.VectorSaveInput
	if err := ctx.Bind(&input); err != nil {
		return service.renderVector(ctx, vectorView{Error: validationMessage(err)})
	}
	if err := ctx.Validate(&input); err != nil {
		return service.renderVector(ctx, vectorView{Error: validationMessage(err)})
	}

	values, err := stats.ParseVector(input.Values)
	if err != nil {
		slog.Warn("htmxSaveVectorHandler: invalid vector values", "status", http.StatusBadRequest, "error", err)
		return service.renderVector(ctx, vectorView{Error: "Formato inválido. Usa solo números separados por coma."})
	}

	if err := service.coreService.SaveVector(ctx.Request().Context(), values); err != nil {
		slog.Error("htmxSaveVectorHandler: failed to store vector",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to store vector")
	}

	mode := ctx.FormValue("mode")
	exercise := core.NewVectorExercise(mode, values)
	view := vectorView{
		Mode:     mode,
		Exercise: exercise,
		Chart:    service.inlineChart(core.VectorChart(exercise)),
		Message:  "Vector guardado correctamente.",
	}
	if mode != core.ModeRandom {
		view.Input = input.Values
	}
	return service.renderVector(ctx, view)
}

func (service *FrontendService) htmxInsertStudentHandler(ctx echo.Context) error {
	var input common.StudentInput
	if err := service.bindAndValidate(ctx, &input); err != nil {
		return service.renderStudents(ctx, "", validationMessage(err))
	}

	if _, err := service.coreService.AddStudent(ctx.Request().Context(), input.Record(0)); err != nil {
		slog.Error("htmxInsertStudentHandler: failed to insert student",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to insert student")
	}
	return service.renderStudents(ctx, "Joven insertado correctamente.", "")
}

func (service *FrontendService) htmxUpdateStudentHandler(ctx echo.Context) error {
	var input common.StudentUpdateInput
	if err := service.bindAndValidate(ctx, &input); err != nil {
		return service.renderStudents(ctx, "", validationMessage(err))
	}

	if err := service.coreService.UpdateStudent(ctx.Request().Context(), input.Record(input.ID)); err != nil {
		slog.Error("htmxUpdateStudentHandler: failed to update student",
			"status", http.StatusInternalServerError, "student_id", input.ID, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to update student")
	}
	return service.renderStudents(ctx, "Joven actualizado.", "")
}

func (service *FrontendService) htmxDeleteStudentHandler(ctx echo.Context) error {
	var input common.StudentIDInput
	if err := service.bindAndValidate(ctx, &input); err != nil {
		return service.renderStudents(ctx, "", validationMessage(err))
	}

	if err := service.coreService.DeleteStudent(ctx.Request().Context(), input.ID); err != nil {
		slog.Error("htmxDeleteStudentHandler: failed to delete student",
			"status", http.StatusInternalServerError, "student_id", input.ID, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to delete student")
	}
	return service.renderStudents(ctx, "Joven eliminado.", "")
}

func (service *FrontendService) exportStudentsHandler(ctx echo.Context) error {
	var buf bytes.Buffer
	if err := service.coreService.ExportStudentsCSV(ctx.Request().Context(), &buf); err != nil {
		slog.Error("exportStudentsHandler: failed to export students",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to export students")
	}

	service.setNoCache(ctx)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", core.ExportFileName))
	return ctx.Blob(http.StatusOK, mimeCSV, buf.Bytes())
}

// chartHandler serves /charts/<name>.svg and /charts/<name>.png.
func (service *FrontendService) chartHandler(ctx echo.Context) error {
	file := ctx.Param("file")
	ext := path.Ext(file)
	name := strings.TrimSuffix(file, ext)
	if name == "" || (ext != ".svg" && ext != ".png") {
		slog.Warn("chartHandler: invalid chart file", "status", http.StatusBadRequest, "file", file)
		return ctx.String(http.StatusBadRequest, "Invalid chart file")
	}

	chart, err := service.coreService.BuildChart(ctx.Request().Context(), name)
	if errors.Is(err, charts.ErrUnknownChart) {
		return ctx.String(http.StatusNotFound, "Chart not found")
	}
	if err != nil {
		slog.Error("chartHandler: failed to build chart",
			"status", http.StatusInternalServerError, "chart", name, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to build chart")
	}

	service.setNoCache(ctx)
	size := service.coreService.ChartSize()
	if ext == ".svg" {
		return ctx.Blob(http.StatusOK, mimeSVG, chart.SVG(size))
	}
	data, err := chart.PNG(size)
	if err != nil {
		slog.Error("chartHandler: failed to render chart",
			"status", http.StatusInternalServerError, "chart", name, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to render chart")
	}
	return ctx.Blob(http.StatusOK, mimePNG, data)
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	data, err := assetsFS.ReadFile("views/icon.svg")
	if err != nil {
		slog.Error("iconHandler: failed to read icon.svg", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, mimeSVG, data)
}

// vectorView resolves the vector exercise. Invalid manual input becomes a
// user-facing message and no vector is shown.
func (service *FrontendService) vectorView(ctx echo.Context, input common.VectorInput) vectorView {
	view := vectorView{Mode: input.Mode, Input: input.Input}
	if err := ctx.Validate(&input); err != nil {
		view.Error = validationMessage(err)
		return view
	}

	exercise, err := service.coreService.ResolveVector(input.Mode, input.Input)
	var inputErr *stats.InputError
	if errors.As(err, &inputErr) {
		slog.Warn("vectorView: invalid vector input", "error", err)
		view.Error = "Formato inválido. Usa solo números separados por coma."
		return view
	}
	if exercise == nil {
		return view
	}
	view.Exercise = exercise
	view.Chart = service.inlineChart(core.VectorChart(exercise))
	return view
}

func (service *FrontendService) studentsView(ctx echo.Context, message, errorMessage string) (studentsView, error) {
	table, err := service.coreService.StudentTable(ctx.Request().Context())
	if err != nil {
		return studentsView{}, err
	}
	view := studentsView{Table: table, Message: message, Error: errorMessage}
	if !table.Empty() {
		view.GradesChart = service.inlineChart(core.GradesChart(table))
		view.AgesChart = service.inlineChart(core.AgesChart(table))
	}
	return view, nil
}

func (service *FrontendService) renderVector(ctx echo.Context, view vectorView) error {
	return ctx.Render(http.StatusOK, "vector", view)
}

// renderStudents re-reads the register so the fragment reflects the mutation just made.
func (service *FrontendService) renderStudents(ctx echo.Context, message, errorMessage string) error {
	view, err := service.studentsView(ctx, message, errorMessage)
	if err != nil {
		slog.Error("renderStudents: failed to list students", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to list students")
	}
	service.setNoCache(ctx)
	return ctx.Render(http.StatusOK, "students", view)
}

func (service *FrontendService) bindAndValidate(ctx echo.Context, target any) error {
	if err := ctx.Bind(target); err != nil {
		return err
	}
	return ctx.Validate(target)
}

// inlineChart embeds a chart as SVG markup. Labels are escaped by the SVG renderer.
func (service *FrontendService) inlineChart(chart *charts.BarChart) template.HTML {
	return template.HTML(chart.SVG(service.coreService.ChartSize()))
}

// validationMessage extracts the user-facing text from bind and validation errors.
func validationMessage(err error) string {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok {
			return msg
		}
		return fmt.Sprint(httpErr.Message)
	}
	return common.DescribeValidationError(err)
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}
