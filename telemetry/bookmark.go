package telemetry

import (
	"fmt"
	"log/slog"
	"math"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFlare       BookmarkType = "flare"
	BookmarkHazeDimming BookmarkType = "haze_dimming"
	BookmarkNewLook     BookmarkType = "new_look"
	BookmarkSettled     BookmarkType = "settled"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `json:"type"`
	Frame       int32        `json:"frame"`
	Description string       `json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"frame", b.Frame,
		"description", b.Description,
	)
}

// settleWindows is how many unchanged windows make a look settled.
const settleWindows = 5

// BookmarkDetector detects notable moments from consecutive windows.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentHazePeak int // peak visible haze since the last dimming
	steadyWindows  int // consecutive windows without parameter movement
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < settleWindows {
		historySize = settleWindows
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkNewLook(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		// Flare: upper density tail > 1.5x rolling average
		if b := bd.checkFlare(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Haze dimming: visible haze dropped >30% from recent peak
		if b := bd.checkHazeDimming(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Settled: smoothed parameters unchanged over several windows
		if b := bd.checkSettled(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.HazeVisible > bd.recentHazePeak {
		bd.recentHazePeak = stats.HazeVisible
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// last returns the most recently added window.
func (bd *BookmarkDetector) last() WindowStats {
	i := (bd.historyIdx - 1 + bd.historySize) % bd.historySize
	return bd.history[i]
}

func (bd *BookmarkDetector) checkNewLook(stats WindowStats) *Bookmark {
	if stats.StyleRequests == 0 {
		return nil
	}
	desc := fmt.Sprintf("%d generated look(s) applied", stats.StyleRequests)
	if stats.StyleFallbacks > 0 {
		desc += fmt.Sprintf(", %d from fallback", stats.StyleFallbacks)
	}
	return &Bookmark{Type: BookmarkNewLook, Frame: stats.WindowEndFrame, Description: desc}
}

func (bd *BookmarkDetector) checkFlare(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.DensityP90
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.DensityP90 > avg*1.5 && stats.DensityP90 > 0.3 {
		return &Bookmark{
			Type:        BookmarkFlare,
			Frame:       stats.WindowEndFrame,
			Description: fmt.Sprintf("Density p90 %.2f is %.1fx average (%.2f)", stats.DensityP90, stats.DensityP90/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkHazeDimming(stats WindowStats) *Bookmark {
	if bd.recentHazePeak == 0 {
		return nil
	}

	drop := 1 - float64(stats.HazeVisible)/float64(bd.recentHazePeak)
	if drop > 0.30 && stats.HazeVisible < bd.recentHazePeak-10 {
		oldPeak := bd.recentHazePeak
		bd.recentHazePeak = stats.HazeVisible

		return &Bookmark{
			Type:        BookmarkHazeDimming,
			Frame:       stats.WindowEndFrame,
			Description: fmt.Sprintf("Visible haze fell %.0f%% from %d to %d", drop*100, oldPeak, stats.HazeVisible),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	prev := bd.last()
	if stats.ParamEvents > 0 || stats.StyleRequests > 0 || !sameParams(prev, stats) {
		bd.steadyWindows = 0
		return nil
	}

	bd.steadyWindows++
	if bd.steadyWindows == settleWindows { // trigger once per change
		return &Bookmark{
			Type:        BookmarkSettled,
			Frame:       stats.WindowEndFrame,
			Description: fmt.Sprintf("Look settled at speed %.2f, turbulence %.2f over %d windows", stats.Speed, stats.Turbulence, settleWindows),
		}
	}
	return nil
}

// sameParams compares the smoothed parameters of two windows within a
// tolerance that absorbs the tail of the smoothing curve.
func sameParams(a, b WindowStats) bool {
	const tol = 1e-3
	return math.Abs(a.Speed-b.Speed) < tol &&
		math.Abs(a.Turbulence-b.Turbulence) < tol &&
		math.Abs(a.Scale-b.Scale) < tol &&
		math.Abs(a.DisplacementScale-b.DisplacementScale) < tol &&
		math.Abs(a.NoiseScale-b.NoiseScale) < tol
}
