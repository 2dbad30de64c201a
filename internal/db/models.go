package db

import (
	"time"
)

type PrintRecord struct {
	ID           int64     `json:"id"`
	JobID        string    `json:"job_id"`
	Printer      string    `json:"printer"`
	LabelSize    string    `json:"label_size"`
	Content      string    `json:"content"`
	Success      bool      `json:"success"`
	ErrorKind    string    `json:"error_kind,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
