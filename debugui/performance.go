package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/superbubble/ecs"
)

// PerformanceWindow shows frame times, per-system timings and storage
// statistics.
type PerformanceWindow struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	history   *frameHistory
	lastFrame time.Time
}

func NewPerformanceWindow(storage *ecs.Storage, scheduler *ecs.Scheduler, historyFrames int) *PerformanceWindow {
	return &PerformanceWindow{
		storage:   storage,
		scheduler: scheduler,
		history:   newFrameHistory(historyFrames),
		lastFrame: time.Now(),
	}
}

func (pw *PerformanceWindow) Render() {
	if !imgui.BeginV("Performance", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	now := time.Now()
	pw.history.Add(float32(now.Sub(pw.lastFrame).Seconds() * 1000))
	pw.lastFrame = now
	avg := pw.history.Average()
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}
	imgui.PlotLinesFloatPtr("##frametime", &pw.history.samples[0], int32(len(pw.history.samples)))

	imgui.Separator()
	pw.renderSystems()

	stats := pw.storage.CollectStats()
	imgui.Separator()
	imgui.Text(fmt.Sprintf("Entities: %d  Archetypes: %d  Singletons: %d",
		stats.TotalEntityCount, stats.ArchetypeCount, stats.SingletonCount))

	if imgui.TreeNodeStr("Archetypes") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("ArchetypeTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("ID")
			imgui.TableSetupColumn("Components")
			imgui.TableSetupColumn("Entities")
			imgui.TableHeadersRow()

			for _, arch := range stats.ArchetypeBreakdown {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("0x%X", arch.ID))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprint(arch.ComponentTypes))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", arch.EntityCount))
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singletons") {
		for _, name := range stats.SingletonTypes {
			imgui.BulletText(name)
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (pw *PerformanceWindow) renderSystems() {
	if pw.scheduler == nil {
		return
	}
	stats := pw.scheduler.GetStats()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if !imgui.BeginTableV("SystemTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		return
	}
	imgui.TableSetupColumn("System")
	imgui.TableSetupColumn("Last")
	imgui.TableSetupColumn("Avg")
	imgui.TableSetupColumn("Max")
	imgui.TableHeadersRow()

	for _, sys := range stats.Systems {
		imgui.TableNextRow()
		imgui.TableNextColumn()
		imgui.Text(sys.Name)
		imgui.TableNextColumn()
		imgui.Text(sys.LastDuration.String())
		imgui.TableNextColumn()
		imgui.Text(sys.AvgDuration.String())
		imgui.TableNextColumn()
		imgui.Text(sys.MaxDuration.String())
	}
	imgui.EndTable()
}
