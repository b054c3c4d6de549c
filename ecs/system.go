package ecs

// System is one step of a frame. Systems may declare Query and Singleton
// fields; the Scheduler initialises them on Register.
type System interface {
	Execute(frame *UpdateFrame)
}

// UpdateFrame is handed to every system during one Scheduler.Once call.
type UpdateFrame struct {
	// DeltaTime is the elapsed wall-clock time in seconds since the
	// previous frame.
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
}

func newUpdateFrame(dt float64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  newCommands(),
		Storage:   storage,
	}
}
