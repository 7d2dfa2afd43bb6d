package database

// StudentRecord is one row of the student register.
type StudentRecord struct {
	ID        int64   `json:"id" db:"id"`
	FirstName string  `json:"firstName" db:"nombres"`
	LastName  string  `json:"lastName" db:"apellidos"`
	Age       int     `json:"age" db:"edad"`
	Grade     float64 `json:"grade" db:"notas"`
	Subject   string  `json:"subject" db:"materias"`
}

// VectorSample is one persisted element of a vector.
type VectorSample struct {
	ID    int64   `json:"id" db:"id"`
	Value float64 `json:"value" db:"valor"`
}
