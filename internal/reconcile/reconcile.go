// Package reconcile merges inbound configuration messages into the display
// configuration and persists the result.
package reconcile

import (
	"github.com/rs/zerolog"

	"github.com/coreman2200/constellation/internal/config"
	"github.com/coreman2200/constellation/internal/dateformat"
	"github.com/coreman2200/constellation/internal/render"
)

// Message is one inbound key/value map. Values arrive as whatever the
// transport decoded: bools, numbers or strings.
type Message map[string]any

// Outcome describes what a message did.
type Outcome struct {
	Config  config.Display
	Changed []string
	Ignored []string
	// PersistErr is set when the store rejected the write. Config is still
	// applied in memory.
	PersistErr error
}

func (o Outcome) Has(key string) bool {
	for _, k := range o.Changed {
		if k == key {
			return true
		}
	}
	return false
}

type Reconciler struct {
	store config.Store
	log   zerolog.Logger
}

func New(store config.Store, log zerolog.Logger) *Reconciler {
	return &Reconciler{store: store, log: log.With().Str("component", "reconcile").Logger()}
}

// Apply folds msg into cur. Every recognized key is applied on its own;
// malformed values are ignored and leave the previous value. The full
// result is then persisted.
func (r *Reconciler) Apply(cur config.Display, msg Message) Outcome {
	next := cur
	out := Outcome{}
	for _, key := range config.Keys {
		v, present := msg[key]
		if !present {
			continue
		}
		if !apply(&next, key, v) {
			out.Ignored = append(out.Ignored, key)
			r.log.Warn().Str("key", key).Interface("value", v).Msg("ignoring config value")
		}
	}
	out.Config = next
	out.Changed = diff(cur, next)

	if err := config.SaveDisplay(r.store, next); err != nil {
		out.PersistErr = err
		r.log.Error().Err(err).Msg("persist settings failed")
	}
	r.log.Debug().Strs("changed", out.Changed).Msg("config applied")
	return out
}

func apply(d *config.Display, key string, v any) bool {
	switch key {
	case config.KeyTicker:
		return setBool(&d.ShowSecondTicker, v)
	case config.KeyRing:
		return setBool(&d.ShowClockRing, v)
	case config.KeySplash:
		return setBool(&d.ShowSplashScreen, v)
	case config.KeySplashLogo:
		s, ok := v.(string)
		if !ok {
			return false
		}
		l, ok := config.ParseLogo(s)
		if ok {
			d.SplashLogo = l
		}
		return ok
	case config.KeyGoal:
		n, ok := toGoal(v)
		if ok {
			d.ActivityGoal = config.ClampGoal(n)
		}
		return ok
	case config.KeyTopFormat:
		return setFormat(&d.TopFormat, v)
	case config.KeyBottomFormat:
		return setFormat(&d.BottomFormat, v)
	case config.KeyTrackStyle:
		s, ok := v.(string)
		if !ok {
			return false
		}
		st, ok := render.ParseTrackStyle(s)
		if ok {
			d.TrackStyle = st
		}
		return ok
	}
	return false
}

func setBool(dst *bool, v any) bool {
	b, ok := toBool(v)
	if ok {
		*dst = b
	}
	return ok
}

func setFormat(dst *dateformat.Type, v any) bool {
	if s, ok := v.(string); ok {
		f, ok := dateformat.Parse(s)
		if ok {
			*dst = f
		}
		return ok
	}
	n, ok := toInt(v)
	if !ok || !dateformat.Type(n).Valid() {
		return false
	}
	*dst = dateformat.Type(n)
	return true
}

func diff(a, b config.Display) []string {
	av, bv := a.Values(), b.Values()
	var out []string
	for _, k := range config.Keys {
		if av[k] != bv[k] {
			out = append(out, k)
		}
	}
	return out
}
