package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/roomloop/engine"
)

type Report struct {
	// Configuration
	Duration  time.Duration
	Entities  int
	Tiles     int
	LogicRate int
	DrawRate  int
	Churn     int

	// Results
	TotalTime      time.Duration
	Program        engine.Stats
	Frames         uint64
	Commands       int
	PresentGap     Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Room Loop Stress Report

## Run Configuration
- **Run Duration:** {{.Duration}}
- **Entities:** {{.Entities}}
- **Blocking Tiles:** {{.Tiles}}
- **Logic Rate:** {{.LogicRate}} Hz
- **Draw Rate:** {{.DrawRate}} FPS
- **Spawn/Delete Churn:** {{.Churn}} per iteration

## Loop Results
- **Total Time:** {{.TotalTime}}
- **Logic Iterations:** {{.Program.Logic.Iterations}} (avg busy {{.Program.Logic.AvgBusy}})
- **Draw Iterations:** {{.Program.Draw.Iterations}} (avg busy {{.Program.Draw.AvgBusy}})
- **Frames Presented:** {{.Frames}}
- **Draw Commands Presented:** {{.Commands}}
- **Present Gap:**
  - **Avg:** {{.PresentGap.Avg}}
  - **Min:** {{.PresentGap.Min}}
  - **Max:** {{.PresentGap.Max}}

## Systems
{{- range .Program.Scheduler.Systems}}
- **{{.Name}}:** {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{- end}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}

	return tmpl.Execute(w, r)
}
