package domain

import "errors"

// ErrRunInProgress is returned when a batch run is triggered while the
// previous one has not finished. The trigger is skipped, never queued.
var ErrRunInProgress = errors.New("batch run already in progress")
