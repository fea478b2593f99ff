package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRun_StartFinish(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	run := NewRun("vcfstats", zap.New(core))

	clock := time.Date(2021, 1, 25, 9, 0, 0, 0, time.UTC)
	run.now = func() time.Time { return clock }

	run.Start()
	clock = clock.Add(1500 * time.Millisecond)
	elapsed := run.Finish()

	assert.Equal(t, 1500*time.Millisecond, elapsed)

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "----- Start", entries[0].Message)
	assert.Equal(t, "# vcfstats #", entries[1].Message)
	assert.Equal(t, "----- Finish", entries[2].Message)
	assert.Equal(t, "Elapsed time: 1.5", entries[3].Message)
}

func TestRun_NilLogger(t *testing.T) {
	run := NewRun("vcfstats", nil)
	assert.NotNil(t, run.Logger())

	var missing *Run
	assert.NotNil(t, missing.Logger())
}
