package core

import (
	"context"
	"strconv"

	"github.com/jo-hoe/eduboard/internal/backend/charts"
)

const (
	ChartFrequencies     = "frequencies"
	ChartGradesBySubject = "grades-by-subject"
	ChartAges            = "ages"
	ChartVectorSamples   = "vector-samples"
)

func (service *CoreService) registerCharts() error {
	recipes := map[string]charts.Recipe{
		ChartFrequencies:     service.frequencyChart,
		ChartGradesBySubject: service.gradesChart,
		ChartAges:            service.agesChart,
		ChartVectorSamples:   service.vectorSamplesChart,
	}
	for name, recipe := range recipes {
		if err := service.charts.Register(name, recipe); err != nil {
			return err
		}
	}
	return nil
}

func (service *CoreService) ChartNames() []string {
	return service.charts.Names()
}

func (service *CoreService) IsChart(name string) bool {
	return service.charts.IsRegistered(name)
}

func (service *CoreService) BuildChart(ctx context.Context, name string) (*charts.BarChart, error) {
	return service.charts.Build(ctx, name)
}

func (service *CoreService) ChartSize() charts.Size {
	return service.config.Charts
}

func (service *CoreService) frequencyChart(ctx context.Context) (*charts.BarChart, error) {
	return FrequencyChart(Overview{Frequencies: service.Frequencies()}), nil
}

func (service *CoreService) gradesChart(ctx context.Context) (*charts.BarChart, error) {
	table, err := service.StudentTable(ctx)
	if err != nil {
		return nil, err
	}
	return GradesChart(table), nil
}

func (service *CoreService) agesChart(ctx context.Context) (*charts.BarChart, error) {
	table, err := service.StudentTable(ctx)
	if err != nil {
		return nil, err
	}
	return AgesChart(table), nil
}

func (service *CoreService) vectorSamplesChart(ctx context.Context) (*charts.BarChart, error) {
	samples, err := service.ListVectorSamples(ctx)
	if err != nil {
		return nil, err
	}
	chart := &charts.BarChart{Title: "Vectores guardados"}
	for _, sample := range samples {
		chart.Labels = append(chart.Labels, strconv.FormatInt(sample.ID, 10))
		chart.Values = append(chart.Values, sample.Value)
	}
	return chart, nil
}

// FrequencyChart charts an already drawn frequency table.
func FrequencyChart(overview Overview) *charts.BarChart {
	chart := &charts.BarChart{Title: "Frecuencias de números aleatorios"}
	for _, row := range overview.Frequencies {
		chart.Labels = append(chart.Labels, strconv.Itoa(row.Value))
		chart.Values = append(chart.Values, float64(row.Count))
	}
	return chart
}

func GradesChart(table StudentTable) *charts.BarChart {
	chart := &charts.BarChart{Title: "Notas por materia"}
	for _, row := range table.GradesBySubject {
		chart.Labels = append(chart.Labels, row.Subject)
		chart.Values = append(chart.Values, row.Average)
	}
	return chart
}

func AgesChart(table StudentTable) *charts.BarChart {
	chart := &charts.BarChart{Title: "Histograma de edades"}
	for _, row := range table.AgeCounts {
		chart.Labels = append(chart.Labels, strconv.Itoa(row.Age))
		chart.Values = append(chart.Values, float64(row.Count))
	}
	return chart
}

// VectorChart plots the normalized values of a vector exercise.
func VectorChart(exercise *VectorExercise) *charts.BarChart {
	chart := &charts.BarChart{Title: "Vector normalizado"}
	if exercise == nil {
		return chart
	}
	for i, v := range exercise.Normalized {
		chart.Labels = append(chart.Labels, strconv.Itoa(i+1))
		chart.Values = append(chart.Values, v)
	}
	return chart
}
