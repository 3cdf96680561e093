package bootstrap

import "fmt"

// Stage names one step of the pipeline.  Used in errors, logs, and the
// bootstrap_errors_total metric.
type Stage string

const (
	StageLock     Stage = "lock"
	StageSession  Stage = "session"
	StageRoles    Stage = "roles"
	StageSettings Stage = "settings"
	StageLocale   Stage = "locale"
)

// ResolutionError reports a store failure that stopped the pipeline.  Soft
// outcomes (missing or expired sessions, missing key material, a tampered
// pro asset, unresolved URLs, unknown locales) never produce one.
type ResolutionError struct {
	Stage Stage
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("bootstrap %s: %v", e.Stage, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }
