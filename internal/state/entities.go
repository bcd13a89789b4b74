package state

// Window is one mapped toplevel.
type Window struct {
	ID          uint64
	Title       string
	AppID       string
	WorkspaceID uint64
	IsFocused   bool
	IsFloating  bool
}

// Workspace is one scrolling workspace.
type Workspace struct {
	ID        uint64
	Idx       int
	Name      string
	Output    string
	IsActive  bool
	IsFocused bool
}

// Output is one connected display.
type Output struct {
	Name          string
	Make          string
	Model         string
	Scale         float64
	LogicalWidth  int
	LogicalHeight int
}

// KeyboardLayouts is the configured layout list and the active index.
type KeyboardLayouts struct {
	Names      []string
	CurrentIdx int
}

// Point is a position in logical coordinates.
type Point struct {
	X float64
	Y float64
}

// ReservedSpace is the working-area margin a layer-shell surface claims
// on one output.
type ReservedSpace struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// FocusMode says what currently receives keyboard focus.
type FocusMode uint8

const (
	// FocusNormal means a regular window has focus.
	FocusNormal FocusMode = iota
	// FocusOverview means the workspace overview is open.
	FocusOverview
	// FocusLayerShell means a layer-shell surface has focus.
	FocusLayerShell
	// FocusLockScreen means the session is locked.
	FocusLockScreen
)

// String returns the focus mode name exposed to scripts.
func (m FocusMode) String() string {
	switch m {
	case FocusNormal:
		return "normal"
	case FocusOverview:
		return "overview"
	case FocusLayerShell:
		return "layer_shell"
	case FocusLockScreen:
		return "lock_screen"
	default:
		return "unknown"
	}
}

// SpawnResult is the completion record of a host-spawned command.
type SpawnResult struct {
	Token    string
	ExitCode int
	Err      string
}
