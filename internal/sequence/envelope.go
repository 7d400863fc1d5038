package sequence

import (
	"encoding/json"
	"sort"

	"gopkg.in/yaml.v3"
)

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// smootherstep (cubic-ish) for ease="cubic"
func smootherstep(x float64) float64 {
	// 6x^5 - 15x^4 + 10x^3
	return x * x * x * (x*(x*6-15) + 10)
}

func easeApply(kind string, x float64) float64 {
	switch kind {
	case "smooth":
		return x * x * (3 - 2*x)
	case "cubic":
		return smootherstep(x)
	case "step":
		if x < 1 {
			return 0
		}
		return 1
	}
	return x
}

// Eval returns the value at t seconds. No keys yields 0; t outside the
// keys holds the nearest end value.
func (e Envelope) Eval(t float64) float64 {
	n := len(e.Keys)
	if n == 0 {
		return 0
	}
	if t <= e.Keys[0].T {
		return e.Keys[0].V
	}
	if t >= e.Keys[n-1].T {
		return e.Keys[n-1].V
	}
	i := sort.Search(n, func(i int) bool { return e.Keys[i].T > t }) - 1
	a, b := e.Keys[i], e.Keys[i+1]
	den := b.T - a.T
	if den <= 0 {
		return b.V
	}
	u := easeApply(a.Ease, clamp01((t-a.T)/den))
	return a.V + (b.V-a.V)*u
}

// BoolEval thresholds the envelope at 0.5.
func (e Envelope) BoolEval(t float64) bool {
	return e.Eval(t) >= 0.5
}

func (e *Envelope) sortKeys() {
	sort.SliceStable(e.Keys, func(i, j int) bool { return e.Keys[i].T < e.Keys[j].T })
}

// UnmarshalYAML accepts a keyframe list or a single constant.
func (e *Envelope) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		var v float64
		if err := n.Decode(&v); err != nil {
			return err
		}
		e.Keys = []Keyframe{{V: v}}
		return nil
	}
	if err := n.Decode(&e.Keys); err != nil {
		return err
	}
	e.sortKeys()
	return nil
}

func (e Envelope) MarshalYAML() (any, error) { return e.Keys, nil }

func (e *Envelope) UnmarshalJSON(b []byte) error {
	var v float64
	if err := json.Unmarshal(b, &v); err == nil {
		e.Keys = []Keyframe{{V: v}}
		return nil
	}
	if err := json.Unmarshal(b, &e.Keys); err != nil {
		return err
	}
	e.sortKeys()
	return nil
}

func (e Envelope) MarshalJSON() ([]byte, error) { return json.Marshal(e.Keys) }
