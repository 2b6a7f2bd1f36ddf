package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

const (
	// CrashLogDir is the directory for crash reports, next to the data file.
	CrashLogDir = "crash_logs"

	// MaxCrashLogs is the maximum number of crash reports to keep
	MaxCrashLogs = 10
)

// CrashContext stores what the process was doing, for crash reports.
type CrashContext struct {
	mu       sync.RWMutex
	args     string
	command  string
	version  string
	dataFile string
	basePath string
}

// globalContext is the singleton crash context.
var globalContext = &CrashContext{}

// SetBasePath sets the directory that holds crash_logs/.
func SetBasePath(path string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.basePath = path
}

// SetVersion sets the application version for crash reports.
func SetVersion(version string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.version = version
}

// SetCommand records the command being executed and its arguments.
func SetCommand(cmd string, args []string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.command = cmd
	globalContext.args = truncateForLog(strings.Join(args, " "), 500)
}

// SetDataFile records which task file the process was working on.
func SetDataFile(path string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.dataFile = path
}

func truncateForLog(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}
	return value[:maxLen] + "... [truncated]"
}

// CrashReport is written as JSON when the process panics.
type CrashReport struct {
	Timestamp  time.Time `json:"timestamp"`
	Session    string    `json:"session"`
	Version    string    `json:"version"`
	Command    string    `json:"command"`
	Args       string    `json:"args,omitempty"`
	DataFile   string    `json:"data_file,omitempty"`
	PanicValue string    `json:"panic_value"`
	StackTrace string    `json:"stack_trace"`
	GoVersion  string    `json:"go_version"`
	OS         string    `json:"os"`
	Arch       string    `json:"arch"`
}

// HandlePanic is a deferred function that recovers from panics and logs them.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	if r := recover(); r != nil {
		report := newCrashReport(r)
		path, err := writeCrashReport(report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "\n[CRASH] Failed to write crash report: %v\n", err)
			fmt.Fprintf(os.Stderr, "[CRASH] Panic: %v\n%s\n", r, report.StackTrace)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "\nTaskNest encountered an unexpected error.\n")
		fmt.Fprintf(os.Stderr, "A crash report has been saved to:\n  %s\n\n", path)
		os.Exit(1)
	}
}

func newCrashReport(panicValue any) CrashReport {
	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()

	return CrashReport{
		Timestamp:  time.Now(),
		Session:    SessionID(),
		Version:    globalContext.version,
		Command:    globalContext.command,
		Args:       globalContext.args,
		DataFile:   globalContext.dataFile,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(debug.Stack()),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

// writeCrashReport writes report to disk and returns its path.
func writeCrashReport(report CrashReport) (string, error) {
	dir := getCrashLogDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create crash log dir: %w", err)
	}

	if err := cleanOldCrashLogs(dir); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Failed to clean old crash logs: %v\n", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal crash report: %w", err)
	}
	path := filepath.Join(dir, crashLogName(report.Timestamp))
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write crash report: %w", err)
	}
	return path, nil
}

func getCrashLogDir() string {
	globalContext.mu.RLock()
	basePath := globalContext.basePath
	globalContext.mu.RUnlock()

	if basePath == "" {
		basePath = ".tasknest"
	}
	return filepath.Join(basePath, CrashLogDir)
}

func crashLogName(t time.Time) string {
	return fmt.Sprintf("crash_%s.json", t.Format("20060102_150405.000"))
}

func isCrashLog(e os.DirEntry) bool {
	return !e.IsDir() && strings.HasPrefix(e.Name(), "crash_") && strings.HasSuffix(e.Name(), ".json")
}

// cleanOldCrashLogs makes room for one more report, keeping at most MaxCrashLogs.
func cleanOldCrashLogs(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var reports []os.DirEntry
	for _, e := range entries {
		if isCrashLog(e) {
			reports = append(reports, e)
		}
	}
	if len(reports) < MaxCrashLogs {
		return nil
	}

	// os.ReadDir sorts by name, and names embed the timestamp.
	for _, e := range reports[:len(reports)-MaxCrashLogs+1] {
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", e.Name(), err)
		}
	}
	return nil
}

// ListCrashLogs returns the paths of all saved crash reports, oldest first.
func ListCrashLogs() ([]string, error) {
	dir := getCrashLogDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var logs []string
	for _, e := range entries {
		if isCrashLog(e) {
			logs = append(logs, filepath.Join(dir, e.Name()))
		}
	}
	return logs, nil
}
