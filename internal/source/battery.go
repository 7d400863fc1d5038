package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/constellation/internal/face"
)

const DefaultBatteryPath = "/sys/class/power_supply/BAT0"

// Battery reads a Linux power_supply device.
type Battery struct {
	Path string
	Poll time.Duration
	Log  zerolog.Logger

	last    face.PowerEvent
	hasLast bool
}

func NewBattery(path string, poll time.Duration, log zerolog.Logger) *Battery {
	if path == "" {
		path = DefaultBatteryPath
	}
	if poll <= 0 {
		poll = 30 * time.Second
	}
	return &Battery{Path: path, Poll: poll, Log: log.With().Str("source", "battery").Logger()}
}

// Read returns the charge percentage and whether the supply is charging.
func (b *Battery) Read() (int, bool, error) {
	raw, err := os.ReadFile(filepath.Join(b.Path, "capacity"))
	if err != nil {
		return 0, false, fmt.Errorf("read capacity: %w", err)
	}
	pct, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, false, fmt.Errorf("parse capacity %q: %w", strings.TrimSpace(string(raw)), err)
	}
	pct = max(0, min(100, pct))

	status, err := os.ReadFile(filepath.Join(b.Path, "status"))
	if err != nil {
		return pct, false, nil
	}
	return pct, strings.EqualFold(strings.TrimSpace(string(status)), "charging"), nil
}

// Peek is Read with a full, discharging battery as the fallback.
func (b *Battery) Peek() (int, bool) {
	pct, charging, err := b.Read()
	if err != nil {
		b.Log.Debug().Err(err).Msg("battery unavailable")
		return 100, false
	}
	return pct, charging
}

// Run polls the battery and posts a PowerEvent whenever it changes.
func (b *Battery) Run(ctx context.Context, post Post) error {
	t := time.NewTicker(b.Poll)
	defer t.Stop()
	for {
		if !b.poll(post) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

func (b *Battery) poll(post Post) bool {
	pct, charging, err := b.Read()
	if err != nil {
		b.Log.Warn().Err(err).Msg("battery read failed")
		return true
	}
	ev := face.PowerEvent{Percent: pct, Charging: charging}
	if b.hasLast && ev == b.last {
		return true
	}
	b.last, b.hasLast = ev, true
	return post(ev)
}
