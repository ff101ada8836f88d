package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors: the run aborts, there is no partial result to
	// salvage without a session.
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Remote API errors. ErrRetrieval is best-effort: entries
	// gathered before the failure are still used. ErrMutation is per-item:
	// one failed delete/insert never aborts the rest. ErrQuotaExceeded is a
	// mutation subtype that triggers the fallback artifact when hit during
	// import setup.
	ErrRetrieval        = fmt.Errorf("playlist retrieval failed")
	ErrMutation         = fmt.Errorf("playlist mutation failed")
	ErrQuotaExceeded    = fmt.Errorf("API quota exceeded")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")

	// Input errors
	ErrParse           = fmt.Errorf("import file could not be parsed")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
