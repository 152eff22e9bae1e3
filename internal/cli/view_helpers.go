package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"shorts-clipper/internal/model"
)

func parseBool(raw string) (bool, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "y", "yes", "true", "1":
		return true, true
	case "n", "no", "false", "0", "":
		return false, true
	default:
		return false, false
	}
}

func kv(k, v string) string {
	return fmt.Sprintf("%s: %s", k, v)
}

func listWindow(total, cursor, maxRows int) (int, int) {
	if total <= maxRows {
		return 0, total
	}
	half := maxRows / 2
	start := cursor - half
	if start < 0 {
		start = 0
	}
	end := start + maxRows
	if end > total {
		end = total
		start = end - maxRows
	}
	return start, end
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}

func wrapOrTrim(s string, width int) string {
	if width <= 0 {
		return s
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return truncateRunes(s, width)
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func defaultIfEmpty(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// formatScore renders the viral score the way the job cards show it: rounded, or "-".
func formatScore(j model.JobRecord) string {
	score, ok := j.RoundedScore()
	if !ok {
		return "-"
	}
	return strconv.Itoa(score)
}

// jobDetailLines is shared by the studio cards and the jobs command.
func jobDetailLines(j model.JobRecord, resolve func(string) string) []string {
	lines := []string{kv("status", defaultIfEmpty(j.Status, "unknown"))}
	if j.HasScore() {
		lines = append(lines, kv("viral score", formatScore(j)))
	}
	if link := resolve(j.DownloadURL); link != "" {
		lines = append(lines, kv("video", link))
	}
	if link := resolve(j.SubtitleURL); link != "" {
		lines = append(lines, kv("subtitles", link))
	}
	return lines
}
