package storage

// TaskListFilter narrows ListTasks. A nil Completed lists every task.
type TaskListFilter struct {
	Completed *bool
}
