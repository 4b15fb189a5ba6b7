package exitcodes

// Exit codes for the obliterate CLI
// These codes form the operational contract with scripts and CI
const (
	Success         = 0 // All root paths fully removed
	InvalidConfig   = 2 // Configuration file or arguments invalid
	SafetyViolation = 3 // Safety validator refused a root path
	RemovalFailed   = 4 // One or more root paths could not be fully removed
)
