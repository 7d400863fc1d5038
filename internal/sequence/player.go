package sequence

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const Version = "sim.v1"

// Parse reads a Program from YAML or JSON.
func Parse(data []byte) (Program, error) {
	var prog Program
	if err := yaml.Unmarshal(data, &prog); err != nil {
		return Program{}, fmt.Errorf("parse program: %w", err)
	}
	if prog.Version == "" {
		prog.Version = Version
	}
	if prog.Version != Version {
		return Program{}, fmt.Errorf("unsupported program version %q", prog.Version)
	}
	if prog.Rate <= 0 {
		prog.Rate = 1
	}
	return prog, nil
}

func LoadFile(path string) (Program, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Program{}, fmt.Errorf("read program: %w", err)
	}
	return Parse(b)
}

// StartTime is the simulated clock at t=0.
func (p Program) StartTime(now time.Time) (time.Time, error) {
	if p.Start == "" {
		return now, nil
	}
	t, err := time.Parse(time.RFC3339, p.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("program start: %w", err)
	}
	return t, nil
}

func (p Program) Duration() float64 {
	total := 0.0
	for _, s := range p.Segments {
		total += s.DurationS
	}
	return total
}

func NewPlayer(h Hooks) *Player {
	return &Player{State: Idle, hooks: h}
}

// Load replaces the current program and resets to Idle.
func (p *Player) Load(prog Program) error {
	if len(prog.Segments) == 0 {
		return errors.New("program has no segments")
	}
	for i, s := range prog.Segments {
		if s.DurationS <= 0 {
			return fmt.Errorf("segment %d (%s): duration must be positive", i, s.Name)
		}
	}
	p.prog = prog
	p.reset()
	return nil
}

func (p *Player) reset() {
	p.State = Idle
	p.nowS = 0
	p.idx = 0
	p.fired = 0
	p.lastPower, p.lastCharging = 100, false
	p.haveActivity, p.havePower = false, false
}

// Now is the position within the program in seconds.
func (p *Player) Now() float64 { return p.nowS }

func (p *Player) Start() {
	if p.State == Running || len(p.prog.Segments) == 0 {
		return
	}
	p.State = Running
	p.announce()
	p.emit()
}

func (p *Player) Pause() { p.State = Paused }

func (p *Player) Resume() {
	if p.State == Paused {
		p.State = Running
	}
}

func (p *Player) Stop() { p.reset() }

// Seek jumps to absolute program time t, clamped into the program. Cues
// before t in the landing segment are treated as already applied.
func (p *Player) Seek(t float64) {
	if len(p.prog.Segments) == 0 {
		return
	}
	total := p.prog.Duration()
	t = math.Max(0, t)
	if t >= total {
		t = math.Nextafter(total, -1)
	}
	acc := 0.0
	for i, s := range p.prog.Segments {
		if t < acc+s.DurationS {
			p.idx = i
			break
		}
		acc += s.DurationS
	}
	p.nowS = t
	p.enter()
	local := t - acc
	for p.fired < len(p.current().Cues) && p.current().Cues[p.fired].AtS < local {
		p.fired++
	}
	p.emit()
}

// Tick advances the program by dt seconds and fires hooks.
func (p *Player) Tick(dt float64) {
	if p.State != Running || dt <= 0 {
		return
	}
	p.nowS += dt
	for p.State == Running {
		seg, local := p.current(), p.local()
		p.fireCues(seg, local)
		if local < seg.DurationS {
			break
		}
		p.advance()
	}
	if p.State == Running {
		p.emit()
	}
}

func (p *Player) current() Segment { return p.prog.Segments[p.idx] }

func (p *Player) segmentStart() float64 {
	acc := 0.0
	for i := 0; i < p.idx; i++ {
		acc += p.prog.Segments[i].DurationS
	}
	return acc
}

func (p *Player) local() float64 { return p.nowS - p.segmentStart() }

func (p *Player) enter() {
	p.fired = 0
	p.announce()
}

func (p *Player) announce() {
	if p.hooks.Segment != nil {
		p.hooks.Segment(p.current().Name)
	}
}

func (p *Player) fireCues(seg Segment, local float64) {
	for p.fired < len(seg.Cues) && seg.Cues[p.fired].AtS <= local {
		if p.hooks.Config != nil {
			p.hooks.Config(seg.Cues[p.fired].Values)
		}
		p.fired++
	}
}

func (p *Player) advance() {
	next := p.idx + 1
	if next >= len(p.prog.Segments) {
		if !p.prog.Loop {
			p.State = Idle
			return
		}
		p.nowS -= p.prog.Duration()
		next = 0
	}
	p.idx = next
	p.enter()
}

// emit evaluates the current segment's envelopes.
func (p *Player) emit() {
	seg, local := p.current(), p.local()
	if seg.Activity != nil && p.hooks.Activity != nil {
		n := int(math.Round(seg.Activity.Eval(local)))
		if !p.haveActivity || n != p.lastActivity {
			p.lastActivity, p.haveActivity = n, true
			p.hooks.Activity(n)
		}
	}
	if (seg.Power != nil || seg.Charging != nil) && p.hooks.Power != nil {
		pct, charging := p.lastPower, p.lastCharging
		if seg.Power != nil {
			pct = int(math.Round(seg.Power.Eval(local)))
		}
		if seg.Charging != nil {
			charging = seg.Charging.BoolEval(local)
		}
		if !p.havePower || pct != p.lastPower || charging != p.lastCharging {
			p.lastPower, p.lastCharging, p.havePower = pct, charging, true
			p.hooks.Power(pct, charging)
		}
	}
}
