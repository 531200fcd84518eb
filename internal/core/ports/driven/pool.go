package driven

// WorkerPool runs tasks with bounded concurrency.
type WorkerPool interface {
	// Submit schedules task. It may block until a worker is free.
	Submit(task func()) error
}
