package swarm

import (
	"time"
)

type Time struct {
	Time  time.Time
	Dt    time.Duration
	Frame uint64
}

type TimeModule struct {
	// Now overrides the clock, mostly for scripted runs and tests.
	Now func() time.Time
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	now := mod.Now
	if now == nil {
		now = time.Now
	}
	cmd.AddResources(&Time{
		Time: now(),
		Dt:   0,
	})
	app.UseSystem(
		System(func(timeResource *Time) {
			timeSystem(timeResource, now())
		}).InStage(Prelude),
	)
}

func timeSystem(timeResource *Time, now time.Time) {
	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
	timeResource.Frame++
}
