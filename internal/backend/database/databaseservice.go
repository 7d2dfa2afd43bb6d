package database

import "context"

type DatabaseService interface {
	EnsureSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error

	// InsertVectorSample appends one value to the vector log. The log has no update or delete path.
	InsertVectorSample(ctx context.Context, value float64) error
	ListVectorSamples(ctx context.Context) ([]VectorSample, error)

	// InsertStudent stores a new record and returns the id assigned by the store.
	// The ID field of the given record is ignored.
	InsertStudent(ctx context.Context, student StudentRecord) (int64, error)
	ListStudents(ctx context.Context) ([]StudentRecord, error)
	// UpdateStudent overwrites all fields of the record with student.ID.
	// An id that does not exist affects zero rows and is not an error.
	UpdateStudent(ctx context.Context, student StudentRecord) error
	// DeleteStudent removes the record with the given id. Deleting a missing id is a no-op.
	DeleteStudent(ctx context.Context, id int64) error
}
