package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Jersey label constants.
const (
	LeaderValue   = "Leader"   // General classification leader
	PointsValue   = "Points"   // Points classification leader
	MountainValue = "Mountain" // Mountain classification leader
)

// Color variables for console output.
var (
	LeaderColor   = color.New(color.FgYellow, color.Bold) // LeaderColor mirrors the yellow jersey.
	PointsColor   = color.New(color.FgGreen, color.Bold)  // PointsColor mirrors the green jersey.
	MountainColor = color.New(color.FgRed)                // MountainColor mirrors the polka-dot jersey.
)

// GetColorLabel returns a colored jersey label for console output (table).
// Unknown labels are returned unchanged.
func GetColorLabel(label string) string {
	switch label {
	case LeaderValue:
		return LeaderColor.Sprint(label)
	case PointsValue:
		return PointsColor.Sprint(label)
	case MountainValue:
		return MountainColor.Sprint(label)
	default:
		return label
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetArchiveDBFilePath returns the path to the SQLite DB file for archive storage.
func GetArchiveDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".peloton_archive.db"
	}
	return filepath.Join(homeDir, ".peloton_archive.db")
}

// TruncateName truncates a name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// FormatDuration renders a duration as h:mm:ss, with milliseconds when present.
func FormatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	ms := (d % time.Second) / time.Millisecond
	if ms > 0 {
		return fmt.Sprintf("%s%d:%02d:%02d.%03d", sign, h, m, s, ms)
	}
	return fmt.Sprintf("%s%d:%02d:%02d", sign, h, m, s)
}

// FormatGap renders the gap to the leader, or an empty string for the leader itself.
func FormatGap(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return "+" + FormatDuration(d)
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
