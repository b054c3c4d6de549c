// Package debugui provides Dear ImGui inspector windows for a running game.
// Windows are ImguiItem entities; ImguiSystem queues their render functions
// each frame so they run between the backend's BeginFrame and EndFrame.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/superbubble/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks whether ImGui wants the mouse or keyboard this
// frame. Input systems skip game keys while WantCaptureKeyboard is set.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem queues every ImguiItem render function and refreshes the
// ImguiInputState singleton.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if state := i.InputState.Get(); state != nil {
		io := imgui.CurrentIO()
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for item := range i.Items.Values() {
		frame.Commands.Defer(item.Render)
	}
}

// RegisterComponents registers the components of this package.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
}

// Spawn adds the session and performance windows to storage and the input
// state singleton. scheduler supplies per-system timings.
func Spawn(storage *ecs.Storage, scheduler *ecs.Scheduler) {
	ecs.NewSingleton[ImguiInputState](storage)

	session := NewSessionWindow(storage)
	perf := NewPerformanceWindow(storage, scheduler, 120)

	storage.Spawn(ImguiItem{Render: session.Render})
	storage.Spawn(ImguiItem{Render: perf.Render})
}
