package postgres

// Error message fragments shared across repositories
const (
	ErrMsgFailedToBeginTx  = "failed to begin transaction"
	ErrMsgFailedToCommitTx = "failed to commit transaction"
)
