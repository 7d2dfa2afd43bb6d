package database

import (
	"context"
	"database/sql"
	"math"

	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS vectores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		valor REAL
	)`,
	`CREATE TABLE IF NOT EXISTS jovenes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nombres TEXT,
		apellidos TEXT,
		edad INTEGER,
		notas REAL,
		materias TEXT
	)`,
}

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared across statements
	// and matches SQLite's single-writer model.
	db.SetMaxOpenConns(1)

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (s *SQLiteDatabase) EnsureSchema(ctx context.Context) error {
	for _, ddl := range schema {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) Ping(ctx context.Context) error {
	// In SQLite, the database file is created when you connect to it.
	return s.db.PingContext(ctx)
}

func (s *SQLiteDatabase) InsertVectorSample(ctx context.Context, value float64) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO vectores (valor) VALUES (?)", value)
	return err
}

func (s *SQLiteDatabase) ListVectorSamples(ctx context.Context) ([]VectorSample, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, valor FROM vectores ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as we're already returning an error from the function
	}()

	var samples []VectorSample
	for rows.Next() {
		var (
			sample VectorSample
			value  sql.NullFloat64
		)
		if err := rows.Scan(&sample.ID, &value); err != nil {
			return nil, err
		}
		// SQLite stores a NaN double as NULL.
		sample.Value = math.NaN()
		if value.Valid {
			sample.Value = value.Float64
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

func (s *SQLiteDatabase) InsertStudent(ctx context.Context, student StudentRecord) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO jovenes (nombres, apellidos, edad, notas, materias) VALUES (?, ?, ?, ?, ?)",
		student.FirstName, student.LastName, student.Age, student.Grade, student.Subject)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteDatabase) ListStudents(ctx context.Context) ([]StudentRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, nombres, apellidos, edad, notas, materias FROM jovenes ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var students []StudentRecord
	for rows.Next() {
		var (
			student              StudentRecord
			first, last, subject sql.NullString
			age                  sql.NullInt64
			grade                sql.NullFloat64
		)
		if err := rows.Scan(&student.ID, &first, &last, &age, &grade, &subject); err != nil {
			return nil, err
		}
		student.FirstName = first.String
		student.LastName = last.String
		student.Age = int(age.Int64)
		student.Grade = grade.Float64
		student.Subject = subject.String
		students = append(students, student)
	}
	return students, rows.Err()
}

func (s *SQLiteDatabase) UpdateStudent(ctx context.Context, student StudentRecord) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE jovenes SET nombres = ?, apellidos = ?, edad = ?, notas = ?, materias = ? WHERE id = ?",
		student.FirstName, student.LastName, student.Age, student.Grade, student.Subject, student.ID)
	return err
}

func (s *SQLiteDatabase) DeleteStudent(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM jovenes WHERE id = ?", id)
	return err
}
