package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details for security reasons.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query/path parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgMissingPathParam  = "Missing %s path parameter"
	ErrMsgInvalidItemID     = "Invalid item ID"

	// Simulation error messages
	ErrMsgSubmitSimulationFailed = "Failed to submit simulation"
	ErrMsgGetStatusFailed        = "Failed to get simulation status"
	ErrMsgGetResultFailed        = "Failed to get simulation result"
	ErrMsgCancelJobFailed        = "Failed to cancel simulation"

	// Profile error messages
	ErrMsgParseProfileFailed   = "Failed to parse profile"
	ErrMsgGenerateFailed       = "Failed to generate profiles"
	ErrMsgInvalidSelection     = "Selection does not match the parsed profile"

	// Auth error messages
	ErrMsgLoginFailed       = "Login failed"
	ErrMsgOAuthStateInvalid = "OAuth state mismatch"
	ErrMsgOAuthCodeMissing  = "Missing authorization code"

	// Account error messages
	ErrMsgSyncCharactersFailed = "Failed to sync characters"
	ErrMsgGetCharactersFailed  = "Failed to get characters"
	ErrMsgSetRoleFailed        = "Failed to set character role"
	ErrMsgDeleteAccountFailed  = "Failed to delete account"

	// Guild error messages
	ErrMsgSyncGuildFailed      = "Failed to sync guild"
	ErrMsgGetGuildFailed       = "Failed to get guild"
	ErrMsgGetMembersFailed     = "Failed to get guild members"
	ErrMsgSetRosterRankFailed  = "Failed to update roster rank"

	// Roster error messages
	ErrMsgCreateRosterFailed     = "Failed to create roster"
	ErrMsgGetRosterFailed        = "Failed to get roster"
	ErrMsgListRostersFailed      = "Failed to list rosters"
	ErrMsgRenameRosterFailed     = "Failed to rename roster"
	ErrMsgDeleteRosterFailed     = "Failed to delete roster"
	ErrMsgAddToRosterFailed      = "Failed to add character to roster"
	ErrMsgRemoveFromRosterFailed = "Failed to remove character from roster"
	ErrMsgUpdateRosterCharFailed = "Failed to update roster character"

	// Media error messages
	ErrMsgGetItemMediaFailed = "Failed to get item media"

	// Realm error messages
	ErrMsgGetRealmsFailed = "Failed to get realm list"
)

// Success messages for API responses
// These are user-facing success messages returned in JSON responses
const (
	MsgJobCanceledSuccess    = "Simulation canceled"
	MsgLoggedOutSuccess      = "Logged out"
	MsgAccountDeletedSuccess = "Account deleted"
	MsgRoleUpdatedSuccess    = "Role updated"
	MsgRosterDeletedSuccess  = "Roster deleted"
	MsgRosterRenamedSuccess  = "Roster renamed"
	MsgCharacterAddedSuccess = "Character added to roster"
	MsgCharacterRemovedOK    = "Character removed from roster"
	MsgRosterRankUpdatedOK   = "Roster creation rank updated"
)
