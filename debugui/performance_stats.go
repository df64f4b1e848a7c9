package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/roomloop/engine"
)

// frameHistory is a ring of frame times in milliseconds.
type frameHistory struct {
	samples []float32
	index   int
}

func newFrameHistory(n int) *frameHistory {
	if n <= 0 {
		n = 1
	}
	return &frameHistory{samples: make([]float32, n)}
}

func (h *frameHistory) push(d time.Duration) {
	h.samples[h.index] = float32(d.Seconds() * 1000.0)
	h.index = (h.index + 1) % len(h.samples)
}

func (h *frameHistory) average() float32 {
	var sum float32
	for _, s := range h.samples {
		sum += s
	}
	return sum / float32(len(h.samples))
}

// PerformanceStats is a panel showing loop rates, per-system timings and a
// frame time graph.
type PerformanceStats struct {
	stats   func() engine.Stats
	history *frameHistory
}

func NewPerformanceStats(historyFrames int, stats func() engine.Stats) *PerformanceStats {
	return &PerformanceStats{
		stats:   stats,
		history: newFrameHistory(historyFrames),
	}
}

func (ps *PerformanceStats) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(340, 320), imgui.CondOnce)
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := ps.stats()
	ps.history.push(stats.Draw.LastDelta)

	imgui.Text(fmt.Sprintf("Logic: %.0f Hz (%d iterations)", stats.Logic.Rate, stats.Logic.Iterations))
	imgui.Text(fmt.Sprintf("Draw: %.0f FPS (%d frames)", stats.Draw.Rate, stats.Draw.Iterations))
	imgui.Text(fmt.Sprintf("Logic busy: %s avg", stats.Logic.AvgBusy))
	imgui.Text(fmt.Sprintf("Draw busy: %s avg", stats.Draw.AvgBusy))
	imgui.Text(fmt.Sprintf("Blocked pairs: %d", stats.Collisions))

	avg := ps.history.average()
	imgui.Separator()
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms", avg))
	imgui.PlotLinesFloatPtr("##frametime", &ps.history.samples[0], int32(len(ps.history.samples)))

	if stats.Scheduler != nil && imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range stats.Scheduler.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}
