package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEffectivePriorityIsMaxOfBaseAndDonated(t *testing.T) {
	th := &Thread{priority: 10, donatedPriority: 0}
	require.Equal(t, Priority(10), th.EffectivePriority())

	th.donatedPriority = 20
	require.Equal(t, Priority(20), th.EffectivePriority())

	th.priority = 25
	require.Equal(t, Priority(25), th.EffectivePriority())
}

func TestClampPriority(t *testing.T) {
	require.Equal(t, Priority(PriMin), clampPriority(-5))
	require.Equal(t, Priority(PriMax), clampPriority(PriMax+50))
	require.Equal(t, Priority(30), clampPriority(30))
}

func TestClampNice(t *testing.T) {
	require.Equal(t, NiceMin, clampNice(-100))
	require.Equal(t, NiceMax, clampNice(100))
	require.Equal(t, 3, clampNice(3))
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "RUNNING", StatusRunning.String())
	require.Equal(t, "READY", StatusReady.String())
	require.Equal(t, "BLOCKED", StatusBlocked.String())
	require.Equal(t, "DYING", StatusDying.String())
}
