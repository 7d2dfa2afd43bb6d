package core

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

const ExportFileName = "registro_jovenes.csv"

// ExportHeader names the CSV columns after the stored column names.
var ExportHeader = []string{"id", "nombres", "apellidos", "edad", "notas", "materias"}

// ExportStudentsCSV writes the whole register as UTF-8 CSV with a header row.
// An empty register produces the header only.
func (service *CoreService) ExportStudentsCSV(ctx context.Context, w io.Writer) error {
	students, err := service.ListStudents(ctx)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(ExportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, student := range students {
		record := []string{
			strconv.FormatInt(student.ID, 10),
			student.FirstName,
			student.LastName,
			strconv.Itoa(student.Age),
			formatGrade(student.Grade),
			student.Subject,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row for student %d: %w", student.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// formatGrade keeps at least one decimal so whole grades read as 8.0, not 8.
func formatGrade(grade float64) string {
	if grade == math.Trunc(grade) && !math.IsInf(grade, 0) {
		return strconv.FormatFloat(grade, 'f', 1, 64)
	}
	return strconv.FormatFloat(grade, 'f', -1, 64)
}
