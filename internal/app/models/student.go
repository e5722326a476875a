package models

import "time"

// Student defines the student model based on the 'students' table.
// IndexNumber is the school-issued natural key used for upsert resolution.
type Student struct {
	ID          string      `json:"id" db:"id"`
	FullName    string      `json:"fullName" db:"full_name"`
	IndexNumber string      `json:"indexNumber" db:"index_number"`
	Gender      Gender      `json:"gender" db:"gender"`
	StudentType StudentType `json:"studentType" db:"student_type"`
	BatchYear   string      `json:"batchYear" db:"batch_year"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
}
