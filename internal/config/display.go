package config

import (
	"strconv"

	"github.com/rs/zerolog"

	"github.com/coreman2200/constellation/internal/dateformat"
	"github.com/coreman2200/constellation/internal/render"
)

const (
	MinGoal     = 1000
	MaxGoal     = 50000
	DefaultGoal = 8000
)

// Keys shared by the settings store and the control channel.
const (
	KeyTicker       = "ticker-visible"
	KeyRing         = "ring-visible"
	KeySplash       = "splash-visible"
	KeySplashLogo   = "splash-style"
	KeyGoal         = "activity-goal"
	KeyTopFormat    = "top-format"
	KeyBottomFormat = "bottom-format"
	KeyTrackStyle   = "tracker-style"
)

// Keys lists every display key in persistence order.
var Keys = []string{
	KeyTicker, KeyRing, KeySplash, KeySplashLogo,
	KeyGoal, KeyTopFormat, KeyBottomFormat, KeyTrackStyle,
}

type Logo string

const (
	LogoBW          Logo = "bw"
	LogoColor       Logo = "color"
	LogoHouseVaruun Logo = "house_varuun"
	LogoFreestar    Logo = "freestar"
	LogoSysdef      Logo = "sysdef"
	LogoCrimson     Logo = "crimson"
)

var Logos = []Logo{LogoBW, LogoColor, LogoHouseVaruun, LogoFreestar, LogoSysdef, LogoCrimson}

// ParseLogo matches s exactly against the known logo names.
func ParseLogo(s string) (Logo, bool) {
	for _, l := range Logos {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// Display is the user-controlled face configuration.
type Display struct {
	ShowSecondTicker bool              `json:"show_second_ticker" yaml:"show_second_ticker"`
	ShowClockRing    bool              `json:"show_clock_ring" yaml:"show_clock_ring"`
	ShowSplashScreen bool              `json:"show_splash_screen" yaml:"show_splash_screen"`
	SplashLogo       Logo              `json:"splash_logo" yaml:"splash_logo"`
	TopFormat        dateformat.Type   `json:"top_format" yaml:"top_format"`
	BottomFormat     dateformat.Type   `json:"bottom_format" yaml:"bottom_format"`
	ActivityGoal     int               `json:"activity_goal" yaml:"activity_goal"`
	TrackStyle       render.TrackStyle `json:"tracker_style" yaml:"tracker_style"`
}

func Defaults() Display {
	return Display{
		ShowSecondTicker: true,
		ShowClockRing:    true,
		ShowSplashScreen: true,
		SplashLogo:       LogoBW,
		TopFormat:        dateformat.Weekday,
		BottomFormat:     dateformat.MonthDay,
		ActivityGoal:     DefaultGoal,
		TrackStyle:       render.ArcTrack,
	}
}

// ClampGoal bounds a goal to [MinGoal, MaxGoal].
func ClampGoal(n int) int {
	if n < MinGoal {
		return MinGoal
	}
	if n > MaxGoal {
		return MaxGoal
	}
	return n
}

// Values is d in its persisted string form.
func (d Display) Values() map[string]string {
	return map[string]string{
		KeyTicker:       formatBool(d.ShowSecondTicker),
		KeyRing:         formatBool(d.ShowClockRing),
		KeySplash:       formatBool(d.ShowSplashScreen),
		KeySplashLogo:   string(d.SplashLogo),
		KeyGoal:         strconv.Itoa(d.ActivityGoal),
		KeyTopFormat:    d.TopFormat.String(),
		KeyBottomFormat: d.BottomFormat.String(),
		KeyTrackStyle:   d.TrackStyle.String(),
	}
}

// LoadDisplay reads every key from s over the defaults. Absent or
// unreadable keys keep their default. A stored goal below MinGoal falls
// back to DefaultGoal.
func LoadDisplay(s Store, log zerolog.Logger) Display {
	d := Defaults()
	if s == nil {
		return d
	}
	get := s.Get
	if ls, ok := s.(ListStore); ok {
		if all, err := ls.All(); err == nil {
			get = func(key string) (string, bool, error) {
				v, ok := all[key]
				return v, ok, nil
			}
		} else {
			log.Warn().Err(err).Msg("settings list failed; reading keys one by one")
		}
	}
	for _, key := range Keys {
		v, ok, err := get(key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("settings read failed; keeping default")
			continue
		}
		if !ok {
			continue
		}
		if !d.set(key, v) {
			log.Warn().Str("key", key).Str("value", v).Msg("stored setting invalid; keeping default")
		}
	}
	return d
}

func (d *Display) set(key, v string) bool {
	switch key {
	case KeyTicker:
		return parseBool(v, &d.ShowSecondTicker)
	case KeyRing:
		return parseBool(v, &d.ShowClockRing)
	case KeySplash:
		return parseBool(v, &d.ShowSplashScreen)
	case KeySplashLogo:
		l, ok := ParseLogo(v)
		if ok {
			d.SplashLogo = l
		}
		return ok
	case KeyGoal:
		n, err := strconv.Atoi(v)
		if err != nil {
			return false
		}
		if n < MinGoal {
			n = DefaultGoal
		}
		if n > MaxGoal {
			n = MaxGoal
		}
		d.ActivityGoal = n
		return true
	case KeyTopFormat:
		f, ok := dateformat.Parse(v)
		if ok {
			d.TopFormat = f
		}
		return ok
	case KeyBottomFormat:
		f, ok := dateformat.Parse(v)
		if ok {
			d.BottomFormat = f
		}
		return ok
	case KeyTrackStyle:
		s, ok := render.ParseTrackStyle(v)
		if ok {
			d.TrackStyle = s
		}
		return ok
	}
	return false
}

// SaveDisplay writes the whole of d to s.
func SaveDisplay(s Store, d Display) error {
	if s == nil {
		return nil
	}
	vals := d.Values()
	if b, ok := s.(BatchStore); ok {
		return b.SetAll(vals)
	}
	for _, key := range Keys {
		if err := s.Set(key, vals[key]); err != nil {
			return err
		}
	}
	return nil
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func parseBool(v string, dst *bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	*dst = b
	return true
}
