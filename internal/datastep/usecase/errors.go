package usecase

// SetupError means the step cannot run at all for this user, typically
// because no import datastore exists.
type SetupError struct {
	Reason string
}

func (e *SetupError) Error() string {
	return e.Reason
}

// ProvisionError reports an unexpected failure while ensuring the example
// table exists. A pre-existing table is not an error.
type ProvisionError struct {
	Reason string
	Err    error
}

func (e *ProvisionError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}

// AppendError reports a failure while appending rows to the example table or
// waiting for its cache rebuild: a missing table, a schema mismatch, an IO
// failure, or a wait timeout.
type AppendError struct {
	Reason string
	Err    error
}

func (e *AppendError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *AppendError) Unwrap() error {
	return e.Err
}
