package browser

// RunState tracks where a verification run is in its lifecycle. The
// browser resource exists only between BrowserOpen and Closed; Init
// and the two Closed states hold nothing.
type RunState int

const (
	StateInit RunState = iota
	StateBrowserOpen
	StateLoggedIn
	StateFormFilled
	StateSubmitted
	StateResultExtracted
	StateArtifactsSaved
	StateClosedSuccess
	StateClosedFailure
)

func (s RunState) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateBrowserOpen:
		return "BrowserOpen"
	case StateLoggedIn:
		return "LoggedIn"
	case StateFormFilled:
		return "FormFilled"
	case StateSubmitted:
		return "Submitted"
	case StateResultExtracted:
		return "ResultExtracted"
	case StateArtifactsSaved:
		return "ArtifactsSaved"
	case StateClosedSuccess:
		return "Closed(success)"
	case StateClosedFailure:
		return "Closed(failure)"
	}
	return "Unknown"
}

// Terminal reports whether the run has released its browser.
func (s RunState) Terminal() bool {
	return s == StateClosedSuccess || s == StateClosedFailure
}
