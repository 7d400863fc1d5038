package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalKeepsMostRecent(t *testing.T) {
	j := NewJournal(3)
	for _, code := range []string{"A", "B", "C", "D"} {
		j.Report(Diagnostic{Severity: Info, Code: code})
	}
	got := j.Recent()
	require.Len(t, got, 3)
	assert.Equal(t, "B", got[0].Code)
	assert.Equal(t, "D", got[2].Code)
	assert.False(t, got[0].At.IsZero())
}

func TestJournalNotifiesSubscribers(t *testing.T) {
	j := NewJournal(0)
	var seen []string
	j.Subscribe(func(d Diagnostic) { seen = append(seen, d.Code) })

	j.Report(Diagnostic{Code: AssetMissing})
	j.Report(Diagnostic{Code: AssetMissing})
	j.Report(Diagnostic{Code: ConfigIgnored})

	assert.Equal(t, []string{AssetMissing, AssetMissing, ConfigIgnored}, seen)
	assert.Equal(t, 2, j.Count(AssetMissing))
	assert.Zero(t, j.Count(StoreWriteFailed))
}
