package entity

// Selection is the (datastore, table) pair configured on the step. The zero
// value means nothing is selected.
type Selection struct {
	Datastore string
	Table     string
}

// WithDatastore returns the selection with the datastore slot set. Changing
// the datastore invalidates the table slot; re-setting the current value
// leaves it alone.
func (s Selection) WithDatastore(name string) Selection {
	if s.Datastore == name {
		return s
	}
	return Selection{Datastore: name}
}

// WithTable returns the selection with the table slot set.
func (s Selection) WithTable(name string) Selection {
	s.Table = name
	return s
}

// IsSet reports whether both slots are populated.
func (s Selection) IsSet() bool {
	return s.Datastore != "" && s.Table != ""
}
