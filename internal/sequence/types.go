package sequence

// Keyframe is a value at time T (seconds into its segment) with the easing
// applied to the span that starts at it.
type Keyframe struct {
	T    float64 `json:"t" yaml:"t"`
	V    float64 `json:"v" yaml:"v"`
	Ease string  `json:"ease,omitempty" yaml:"ease,omitempty"` // "linear","smooth","cubic","step"
}

// Envelope is a list of keyframes sorted by T; Eval(t) interpolates.
type Envelope struct {
	Keys []Keyframe
}

// Cue applies a configuration message once, AtS seconds into its segment.
type Cue struct {
	AtS    float64        `json:"at" yaml:"at"`
	Values map[string]any `json:"values" yaml:"values"`
}

// Segment is one stretch of simulated day. Unset envelopes leave the
// corresponding value alone.
type Segment struct {
	Name      string    `json:"name" yaml:"name"`
	DurationS float64   `json:"duration" yaml:"duration"`
	Activity  *Envelope `json:"activity,omitempty" yaml:"activity,omitempty"`
	Power     *Envelope `json:"power,omitempty" yaml:"power,omitempty"`
	Charging  *Envelope `json:"charging,omitempty" yaml:"charging,omitempty"` // >= 0.5 is charging
	Cues      []Cue     `json:"cues,omitempty" yaml:"cues,omitempty"`
}

// Program is a full simulation script.
type Program struct {
	Version string `json:"version" yaml:"version"` // "sim.v1"
	Loop    bool   `json:"loop,omitempty" yaml:"loop,omitempty"`
	// Start is the simulated wall clock at t=0 (RFC 3339). Empty means now.
	Start string `json:"start,omitempty" yaml:"start,omitempty"`
	// Rate is simulated seconds per real second.
	Rate     float64   `json:"rate,omitempty" yaml:"rate,omitempty"`
	Segments []Segment `json:"segments" yaml:"segments"`
}

type PlayerState string

const (
	Idle    PlayerState = "idle"
	Running PlayerState = "running"
	Paused  PlayerState = "paused"
)

// Hooks receive the values the script produces. Activity and Power fire
// only when their value changes.
type Hooks struct {
	Segment  func(name string)
	Activity func(count int)
	Power    func(percent int, charging bool)
	Config   func(values map[string]any)
}

// Player owns a Program timeline and drives Hooks from it.
type Player struct {
	State PlayerState

	prog  Program
	nowS  float64 // position within program
	idx   int     // current segment
	fired int     // cues of the current segment already applied

	lastActivity int
	lastPower    int
	lastCharging bool
	haveActivity bool
	havePower    bool

	hooks Hooks
}
