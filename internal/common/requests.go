package common

import "github.com/jo-hoe/eduboard/internal/backend/database"

// StudentInput carries the editable fields of a student, from a form or a JSON body.
type StudentInput struct {
	FirstName string  `json:"firstName" form:"first_name" validate:"max=100"`
	LastName  string  `json:"lastName" form:"last_name" validate:"max=100"`
	Age       int     `json:"age" form:"age" validate:"gte=0,lte=120"`
	Grade     float64 `json:"grade" form:"grade" validate:"gte=0,lte=10"`
	Subject   string  `json:"subject" form:"subject" validate:"max=100"`
}

func (input StudentInput) Record(id int64) database.StudentRecord {
	return database.StudentRecord{
		ID:        id,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Age:       input.Age,
		Grade:     input.Grade,
		Subject:   input.Subject,
	}
}

// StudentUpdateInput targets an existing student by id.
type StudentUpdateInput struct {
	ID int64 `json:"-" form:"id" param:"id" validate:"gte=1"`
	StudentInput
}

type StudentIDInput struct {
	ID int64 `json:"-" form:"id" param:"id" validate:"gte=1"`
}

// VectorInput selects how the normalization vector is produced.
type VectorInput struct {
	Mode  string `json:"mode" form:"mode" query:"mode" validate:"omitempty,oneof=manual random"`
	Input string `json:"input" form:"input" query:"input" validate:"max=4096"`
}

// VectorSaveInput carries the exact values shown to the user for persisting.
type VectorSaveInput struct {
	Values string `json:"values" form:"values" validate:"required,max=4096"`
}
