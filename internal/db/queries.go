package db

const (
	InsertPrintRecord = `
		INSERT INTO print_history (job_id, printer, label_size, content, success, error_kind, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	ListRecentPrintRecords = `
		SELECT id, job_id, printer, label_size, content, success, error_kind, error_message, created_at
		FROM print_history ORDER BY created_at DESC, id DESC LIMIT ?
	`

	DeletePrintRecordsBefore = `DELETE FROM print_history WHERE created_at < ?`
)
