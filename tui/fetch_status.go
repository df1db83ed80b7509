// ABOUTME: Defines the FetchStatus enum representing the lifecycle of a dashboard fetch operation.
// ABOUTME: Provides String/Icon methods and spinner animation frames for status rendering.
package tui

// FetchStatus represents the state of one kind of fetch (overview, calls, detail).
type FetchStatus int

const (
	FetchIdle    FetchStatus = iota // Nothing requested yet
	FetchLoading                    // A request is in flight
	FetchLoaded                     // The latest request succeeded
	FetchFailed                     // The latest request failed
)

// String returns the lowercase name of the status.
func (s FetchStatus) String() string {
	switch s {
	case FetchIdle:
		return "idle"
	case FetchLoading:
		return "loading"
	case FetchLoaded:
		return "loaded"
	case FetchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Icon returns a bracket-style status marker for TUI display.
func (s FetchStatus) Icon() string {
	switch s {
	case FetchIdle:
		return "[ ]"
	case FetchLoading:
		return "[~]"
	case FetchLoaded:
		return "[*]"
	case FetchFailed:
		return "[!]"
	default:
		return "[?]"
	}
}

// SpinnerFrames contains the Braille-dot animation frames shown while a
// fetch is in flight.
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
