// Package profiling writes pprof CPU and heap profiles for a single run.
package profiling

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/mimecast/urlgrep/internal/io/dlog"
)

const timestampLayout = "20060102_150405"

// Profiler manages CPU and memory profiling of one run.
type Profiler struct {
	cpuProfile  *os.File
	memProfile  string
	profileDir  string
	commandName string
	enabled     bool
	logger      *slog.Logger
}

// Config holds profiling configuration.
type Config struct {
	CPUProfile  bool
	MemProfile  bool
	ProfileDir  string
	CommandName string
}

// NewProfiler creates a profiler and starts CPU profiling if requested.
// Failures are logged and disable the affected profile, they never fail the
// run.
func NewProfiler(cfg Config) *Profiler {
	logger := dlog.New("profiling")
	if !cfg.CPUProfile && !cfg.MemProfile {
		return &Profiler{logger: logger}
	}

	p := &Profiler{
		profileDir:  cfg.ProfileDir,
		commandName: cfg.CommandName,
		enabled:     true,
		logger:      logger,
	}
	if p.profileDir == "" {
		p.profileDir = "profiles"
	}
	if err := os.MkdirAll(p.profileDir, 0755); err != nil {
		logger.Error("Failed to create profile directory", "dir", p.profileDir, "error", err)
		p.enabled = false
		return p
	}

	if cfg.CPUProfile {
		p.startCPUProfile()
	}
	if cfg.MemProfile {
		p.memProfile = p.path("mem")
	}
	return p
}

func (p *Profiler) path(kind string) string {
	return filepath.Join(p.profileDir, fmt.Sprintf("%s_%s_%s.prof",
		p.commandName, kind, time.Now().Format(timestampLayout)))
}

func (p *Profiler) startCPUProfile() {
	path := p.path("cpu")
	f, err := os.Create(path)
	if err != nil {
		p.logger.Error("Failed to create CPU profile file", "error", err)
		return
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		p.logger.Error("Failed to start CPU profile", "error", err)
		f.Close()
		return
	}
	p.cpuProfile = f
	p.logger.Info("Started CPU profiling", "path", path)
}

// Stop stops CPU profiling and writes the heap and allocation profiles.
func (p *Profiler) Stop() {
	if !p.enabled {
		return
	}
	if p.cpuProfile != nil {
		pprof.StopCPUProfile()
		p.cpuProfile.Close()
		p.cpuProfile = nil
		p.logger.Info("Stopped CPU profiling")
	}
	if p.memProfile != "" {
		runtime.GC()
		p.writeProfile("heap", p.memProfile)
		p.writeProfile("allocs", p.path("alloc"))
		p.memProfile = ""
	}
}

func (p *Profiler) writeProfile(name, path string) {
	f, err := os.Create(path)
	if err != nil {
		p.logger.Error("Failed to create profile file", "profile", name, "error", err)
		return
	}
	defer f.Close()

	if err := pprof.Lookup(name).WriteTo(f, 0); err != nil {
		p.logger.Error("Failed to write profile", "profile", name, "error", err)
		return
	}
	p.logger.Info("Wrote profile", "profile", name, "path", path)
}

// Metrics is a snapshot of runtime statistics.
type Metrics struct {
	Alloc        uint64
	TotalAlloc   uint64
	Sys          uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
	NumCPU       int
}

// GetMetrics returns current runtime metrics.
func GetMetrics() Metrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return Metrics{
		Alloc:        m.Alloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
	}
}

// LogMetrics logs current runtime metrics at debug level, or at info level
// while profiling.
func (p *Profiler) LogMetrics(label string) {
	m := GetMetrics()
	level := slog.LevelDebug
	if p.enabled {
		level = slog.LevelInfo
	}
	p.logger.Log(context.Background(), level, "Runtime metrics",
		"label", label,
		"allocMB", float64(m.Alloc)/1024/1024,
		"totalAllocMB", float64(m.TotalAlloc)/1024/1024,
		"sysMB", float64(m.Sys)/1024/1024,
		"numGC", m.NumGC,
		"gcPauseMs", float64(m.PauseTotalNs)/1e6,
		"goroutines", m.NumGoroutine)
}
