package entity

type RunMeta struct {
	ID        string
	User      int64
	Status    RunStatus
	RowCount  int64
	Note      string
	StartedAt int64
	EndedAt   int64
}
