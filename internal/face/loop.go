package face

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/constellation/internal/config"
	diag "github.com/coreman2200/constellation/internal/diagnostics"
	"github.com/coreman2200/constellation/internal/layer"
)

// Snapshot is a copy of the face's observable state taken after an event.
type Snapshot struct {
	Phase   string         `json:"phase"`
	State   State          `json:"state"`
	Config  config.Display `json:"config"`
	FrameID uint64         `json:"frame_id"`
	Layers  []string       `json:"last_layers,omitempty"`
	Metrics map[string]any `json:"metrics,omitempty"`
}

// Loop serializes every event through one goroutine and repaints after
// each one. It also serves as the face's Scheduler.
type Loop struct {
	face   *Face
	eng    *layer.Engine
	log    zerolog.Logger
	report func(diag.Diagnostic)

	events chan Event
	done   chan struct{}

	mu   sync.RWMutex
	snap Snapshot

	// OnEvent, when set, runs on the loop goroutine after each event has
	// been handled and painted.
	OnEvent func(Event, Snapshot)
}

func NewLoop(f *Face, eng *layer.Engine, log zerolog.Logger) *Loop {
	l := &Loop{
		face:   f,
		eng:    eng,
		log:    log.With().Str("component", "loop").Logger(),
		events: make(chan Event, 32),
		done:   make(chan struct{}),
		report: f.opts.Report,
	}
	if !f.HasScheduler() {
		f.SetScheduler(l)
	}
	l.snapshot()
	return l
}

// Post queues ev. It returns false once the loop has stopped.
func (l *Loop) Post(ev Event) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.events <- ev:
		return true
	case <-l.done:
		return false
	}
}

func (l *Loop) After(d time.Duration, ev Event) {
	time.AfterFunc(d, func() { l.Post(ev) })
}

// Run handles events until ctx is cancelled. The initial frame is painted
// before the first event.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	l.paint()
	l.snapshot()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-l.events:
			l.face.Dispatch(ev)
			l.paint()
			s := l.snapshot()
			if l.OnEvent != nil {
				l.OnEvent(ev, s)
			}
		}
	}
}

func (l *Loop) paint() {
	if l.eng == nil {
		return
	}
	drew, err := l.eng.RenderOnce()
	if err != nil {
		l.log.Warn().Err(err).Uint64("frame", l.eng.FrameID()).Msg("frame write failed")
		if l.report != nil {
			l.report(diag.Diagnostic{
				Severity: diag.Warn, Code: diag.DriverWrite, Summary: "Frame not delivered",
				Detail: err.Error(),
			})
		}
		return
	}
	if drew {
		l.log.Debug().
			Uint64("frame", l.eng.FrameID()).
			Strs("layers", l.eng.Last.Layers).
			Float64("total_ms", l.eng.Last.TotalMS).
			Msg("painted")
	}
}

func (l *Loop) snapshot() Snapshot {
	s := Snapshot{
		Phase:  l.face.Phase().String(),
		State:  l.face.State(),
		Config: l.face.Config(),
	}
	if l.eng != nil {
		s.FrameID = l.eng.FrameID()
		s.Layers = append([]string(nil), l.eng.Last.Layers...)
		s.Metrics = map[string]any{
			"render_ms": l.eng.Last.RenderMS,
			"post_ms":   l.eng.Last.PostMS,
			"total_ms":  l.eng.Last.TotalMS,
		}
	}
	l.mu.Lock()
	l.snap = s
	l.mu.Unlock()
	return s
}

// Snapshot returns the state as of the last handled event. Safe to call
// from any goroutine.
func (l *Loop) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap
}
