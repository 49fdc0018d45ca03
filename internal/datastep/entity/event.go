package entity

// TableFailureEvent is published when appending to the example table fails
// and the compensating delete runs.
type TableFailureEvent struct {
	EventID   string
	RunID     string
	Datastore string
	Table     string
	Reason    string
}
