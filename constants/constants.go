package constants

import "time"

const (
	// DELIMITER replaces every digit and punctuation byte during normalization.
	DELIMITER byte = '|'

	DEFAULT_TOP_K = 5
	MAX_WORKERS   = 1024

	TXT_EXTENSION = ".txt"
)

const (
	SUBMIT_JOB_TIMEOUT  = 10 * time.Second
	JOB_STATUS_TIMEOUT  = 5 * time.Second
	JOB_POLL_INTERVAL   = 200 * time.Millisecond
	JOB_WAIT_TIMEOUT    = 30 * time.Minute
	GET_RESULTS_TIMEOUT = 10 * time.Second
)

const (
	JOB_PENDING   = "pending"
	JOB_RUNNING   = "running"
	JOB_COMPLETED = "completed"
	JOB_FAILED    = "failed"
)
