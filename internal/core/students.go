package core

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jo-hoe/eduboard/internal/backend/database"
)

// SubjectAverage is the mean grade of one subject.
type SubjectAverage struct {
	Subject string  `json:"subject"`
	Average float64 `json:"average"`
}

// AgeCount is how many students share one age.
type AgeCount struct {
	Age   int `json:"age"`
	Count int `json:"count"`
}

// StudentTable is a request-scoped snapshot of the register with its aggregations.
type StudentTable struct {
	Students        []database.StudentRecord `json:"students"`
	GradesBySubject []SubjectAverage         `json:"gradesBySubject"`
	AgeCounts       []AgeCount               `json:"ageCounts"`
}

func (table StudentTable) Empty() bool {
	return len(table.Students) == 0
}

// AddStudent stores a new record and returns it with the assigned id.
func (service *CoreService) AddStudent(ctx context.Context, student database.StudentRecord) (database.StudentRecord, error) {
	id, err := service.databaseService.InsertStudent(ctx, student)
	if err != nil {
		return database.StudentRecord{}, fmt.Errorf("failed to insert student: %w", err)
	}
	student.ID = id
	slog.Info("student inserted", "id", id)
	return student, nil
}

func (service *CoreService) ListStudents(ctx context.Context) ([]database.StudentRecord, error) {
	students, err := service.databaseService.ListStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// UpdateStudent overwrites the record with student.ID. Unknown ids are silently ignored.
func (service *CoreService) UpdateStudent(ctx context.Context, student database.StudentRecord) error {
	if err := service.databaseService.UpdateStudent(ctx, student); err != nil {
		return fmt.Errorf("failed to update student %d: %w", student.ID, err)
	}
	slog.Info("student updated", "id", student.ID)
	return nil
}

// DeleteStudent removes the record with id. Unknown ids are silently ignored.
func (service *CoreService) DeleteStudent(ctx context.Context, id int64) error {
	if err := service.databaseService.DeleteStudent(ctx, id); err != nil {
		return fmt.Errorf("failed to delete student %d: %w", id, err)
	}
	slog.Info("student deleted", "id", id)
	return nil
}

func (service *CoreService) StudentTable(ctx context.Context) (StudentTable, error) {
	students, err := service.ListStudents(ctx)
	if err != nil {
		return StudentTable{}, err
	}
	if students == nil {
		students = []database.StudentRecord{}
	}
	return StudentTable{
		Students:        students,
		GradesBySubject: GradesBySubject(students),
		AgeCounts:       AgeCounts(students),
	}, nil
}

// GradesBySubject averages grades per subject, subjects in ascending order.
func GradesBySubject(students []database.StudentRecord) []SubjectAverage {
	type accumulator struct {
		sum   float64
		count int
	}
	bySubject := make(map[string]*accumulator)
	for _, student := range students {
		acc, ok := bySubject[student.Subject]
		if !ok {
			acc = &accumulator{}
			bySubject[student.Subject] = acc
		}
		acc.sum += student.Grade
		acc.count++
	}

	averages := make([]SubjectAverage, 0, len(bySubject))
	for subject, acc := range bySubject {
		averages = append(averages, SubjectAverage{Subject: subject, Average: acc.sum / float64(acc.count)})
	}
	slices.SortFunc(averages, func(a, b SubjectAverage) int { return cmp.Compare(a.Subject, b.Subject) })
	return averages
}

// AgeCounts counts students per age, ages in ascending order.
func AgeCounts(students []database.StudentRecord) []AgeCount {
	byAge := make(map[int]int)
	for _, student := range students {
		byAge[student.Age]++
	}
	counts := make([]AgeCount, 0, len(byAge))
	for age, count := range byAge {
		counts = append(counts, AgeCount{Age: age, Count: count})
	}
	slices.SortFunc(counts, func(a, b AgeCount) int { return cmp.Compare(a.Age, b.Age) })
	return counts
}
