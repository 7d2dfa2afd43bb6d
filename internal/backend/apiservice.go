package backend

import (
	"errors"
	"log/slog"
	"math"
	"net/http"

	"github.com/jo-hoe/eduboard/internal/backend/database"
	"github.com/jo-hoe/eduboard/internal/backend/stats"
	"github.com/jo-hoe/eduboard/internal/common"
	"github.com/jo-hoe/eduboard/internal/core"
	"github.com/labstack/echo/v4"
)

type APIService struct {
	coreService *core.CoreService
}

func NewAPIService(coreService *core.CoreService) *APIService {
	return &APIService{
		coreService: coreService,
	}
}

// vectorResponse mirrors core.VectorExercise with non-finite values as null,
// which JSON cannot represent otherwise.
type vectorResponse struct {
	Mode       string     `json:"mode"`
	Source     []*float64 `json:"source"`
	Normalized []*float64 `json:"normalized"`
}

type vectorSaveRequest struct {
	Values []float64 `json:"values" validate:"required,min=1"`
}

// vectorSampleResponse sends a non-finite stored value as null.
type vectorSampleResponse struct {
	ID    int64    `json:"id"`
	Value *float64 `json:"value"`
}

type chartListResponse struct {
	Charts []string `json:"charts"`
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	// Set probe route
	e.GET("/probe", s.probeHandler)

	api := e.Group("/api")
	api.GET("/statistics", s.statisticsHandler)
	api.GET("/students", s.listStudentsHandler)
	api.POST("/students", s.createStudentHandler)
	api.PUT("/students/:id", s.updateStudentHandler)
	api.DELETE("/students/:id", s.deleteStudentHandler)
	api.GET("/vector", s.vectorHandler)
	api.POST("/vector", s.saveVectorHandler)
	api.GET("/vector-samples", s.listVectorSamplesHandler)
	api.GET("/charts", s.listChartsHandler)
}

func nullableFloats(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = &v
	}
	return out
}

func newVectorSampleResponses(samples []database.VectorSample) []vectorSampleResponse {
	values := make([]float64, len(samples))
	for i, sample := range samples {
		values[i] = sample.Value
	}
	nullable := nullableFloats(values)
	out := make([]vectorSampleResponse, len(samples))
	for i, sample := range samples {
		out[i] = vectorSampleResponse{ID: sample.ID, Value: nullable[i]}
	}
	return out
}

func (s *APIService) probeHandler(ctx echo.Context) error {
	if err := s.coreService.Ping(ctx.Request().Context()); err != nil {
		slog.Error("probeHandler: database unreachable", "error", err)
		return ctx.String(http.StatusServiceUnavailable, "database unreachable")
	}
	return ctx.String(http.StatusOK, "API Service is running")
}

func (s *APIService) statisticsHandler(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.coreService.Statistics())
}

func (s *APIService) listStudentsHandler(ctx echo.Context) error {
	table, err := s.coreService.StudentTable(ctx.Request().Context())
	if err != nil {
		slog.Error("listStudentsHandler: failed to list students", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list students")
	}
	return ctx.JSON(http.StatusOK, table)
}

func (s *APIService) createStudentHandler(ctx echo.Context) error {
	var input common.StudentInput
	if err := ctx.Bind(&input); err != nil {
		return err
	}
	if err := ctx.Validate(&input); err != nil {
		return err
	}

	student, err := s.coreService.AddStudent(ctx.Request().Context(), input.Record(0))
	if err != nil {
		slog.Error("createStudentHandler: failed to insert student", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to insert student")
	}
	return ctx.JSON(http.StatusCreated, student)
}

func (s *APIService) updateStudentHandler(ctx echo.Context) error {
	var input common.StudentUpdateInput
	if err := ctx.Bind(&input); err != nil {
		return err
	}
	if err := ctx.Validate(&input); err != nil {
		return err
	}

	student := input.Record(input.ID)
	if err := s.coreService.UpdateStudent(ctx.Request().Context(), student); err != nil {
		slog.Error("updateStudentHandler: failed to update student", "student_id", input.ID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update student")
	}
	return ctx.JSON(http.StatusOK, student)
}

func (s *APIService) deleteStudentHandler(ctx echo.Context) error {
	var input common.StudentIDInput
	if err := ctx.Bind(&input); err != nil {
		return err
	}
	if err := ctx.Validate(&input); err != nil {
		return err
	}

	if err := s.coreService.DeleteStudent(ctx.Request().Context(), input.ID); err != nil {
		slog.Error("deleteStudentHandler: failed to delete student", "student_id", input.ID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *APIService) vectorHandler(ctx echo.Context) error {
	var input common.VectorInput
	if err := ctx.Bind(&input); err != nil {
		return err
	}
	if err := ctx.Validate(&input); err != nil {
		return err
	}

	exercise, err := s.coreService.ResolveVector(input.Mode, input.Input)
	var inputErr *stats.InputError
	if errors.As(err, &inputErr) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, inputErr.Error())
	}
	if err != nil {
		slog.Error("vectorHandler: failed to resolve vector", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to resolve vector")
	}
	if exercise == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	return ctx.JSON(http.StatusOK, vectorResponse{
		Mode:       exercise.Mode,
		Source:     nullableFloats(exercise.Source),
		Normalized: nullableFloats(exercise.Normalized),
	})
}

func (s *APIService) saveVectorHandler(ctx echo.Context) error {
	var request vectorSaveRequest
	if err := ctx.Bind(&request); err != nil {
		return err
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	err := s.coreService.SaveVector(ctx.Request().Context(), request.Values)
	var inputErr *stats.InputError
	if errors.As(err, &inputErr) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, inputErr.Error())
	}
	if err != nil {
		slog.Error("saveVectorHandler: failed to store vector", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store vector")
	}
	return ctx.NoContent(http.StatusCreated)
}

func (s *APIService) listVectorSamplesHandler(ctx echo.Context) error {
	samples, err := s.coreService.ListVectorSamples(ctx.Request().Context())
	if err != nil {
		slog.Error("listVectorSamplesHandler: failed to list samples", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list vector samples")
	}
	return ctx.JSON(http.StatusOK, newVectorSampleResponses(samples))
}

func (s *APIService) listChartsHandler(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, chartListResponse{Charts: s.coreService.ChartNames()})
}
