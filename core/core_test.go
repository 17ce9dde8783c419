package core

import (
	"errors"
	"testing"
	"time"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/internal/store"
	"github.com/huangsam/peloton/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, time.July, 4, 9, 0, 0, 0, time.UTC)

// at returns a clock time on day.
func at(h, m, s, ms int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, s, ms*int(time.Millisecond), time.UTC)
}

// race is a test portal with one race and a team of riders.
type race struct {
	s      *store.Store
	e      *Engine
	raceID int
	riders []int
}

func newRace(t *testing.T, riders ...string) *race {
	t.Helper()
	s := store.New()
	raceID, err := s.CreateRace("Tour", "")
	require.NoError(t, err)
	teamID, err := s.CreateTeam("Azure", "")
	require.NoError(t, err)
	r := &race{s: s, e: NewEngine(s), raceID: raceID}
	for _, name := range riders {
		id, err := s.CreateRider(teamID, name, 1995)
		require.NoError(t, err)
		r.riders = append(r.riders, id)
	}
	return r
}

// stage adds a stage with the given checkpoints and concludes it.
func (r *race) stage(t *testing.T, name string, kind schema.StageType, checkpoints ...schema.CheckpointType) int {
	t.Helper()
	id, err := r.s.AddStage(r.raceID, name, "", 100, day, kind)
	require.NoError(t, err)
	for i, cp := range checkpoints {
		loc := float64(10 * (i + 1))
		if cp == schema.SprintCheckpoint {
			_, err = r.s.AddSprint(id, loc)
		} else {
			_, err = r.s.AddClimb(id, loc, cp, nil, nil)
		}
		require.NoError(t, err)
	}
	require.NoError(t, r.s.ConcludeStagePreparation(id))
	return id
}

// finish registers a result with evenly spread checkpoint times.
func (r *race) finish(t *testing.T, stageID, riderID int, elapsed time.Duration) {
	t.Helper()
	st, err := r.s.Stage(stageID)
	require.NoError(t, err)
	start := at(9, 0, 0, 0)
	times := []time.Time{start}
	for i := range st.CheckpointIDs {
		times = append(times, start.Add(time.Duration(i+1)*time.Minute))
	}
	times = append(times, start.Add(elapsed))
	require.NoError(t, r.s.RegisterResult(stageID, riderID, times))
}

// TestScenarioBunchedFinish follows two riders crossing the line half a second apart.
func TestScenarioBunchedFinish(t *testing.T) {
	r := newRace(t, "A", "B")
	s1 := r.stage(t, "S1", schema.FlatStage)
	a, b := r.riders[0], r.riders[1]
	require.NoError(t, r.s.RegisterResult(s1, a, []time.Time{at(9, 0, 0, 0), at(10, 0, 0, 0)}))
	require.NoError(t, r.s.RegisterResult(s1, b, []time.Time{at(9, 0, 0, 0), at(10, 0, 0, 500)}))

	ranked, err := r.e.RankRiders(s1)
	require.NoError(t, err)
	assert.Equal(t, []int{a, b}, ranked)

	for _, id := range []int{a, b} {
		d, ok, err := r.e.AdjustedElapsed(s1, id)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, time.Hour, d)
	}
	raw, ok, err := r.e.RawElapsed(s1, b)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Hour+500*time.Millisecond, raw)

	points, err := r.e.SprintPoints(s1)
	require.NoError(t, err)
	assert.Equal(t, []int{50, 30}, points)
}

// TestElapsedAbsent checks a missing result is reported as absent, not zero.
func TestElapsedAbsent(t *testing.T) {
	r := newRace(t, "A", "B")
	s1 := r.stage(t, "S1", schema.FlatStage)
	r.finish(t, s1, r.riders[0], time.Hour)

	_, ok, err := r.e.RawElapsed(s1, r.riders[1])
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = r.e.AdjustedElapsed(s1, r.riders[1])
	require.NoError(t, err)
	assert.False(t, ok)

	times, err := r.e.RiderResults(s1, r.riders[1])
	require.NoError(t, err)
	assert.Empty(t, times)
	assert.NotNil(t, times)

	times, err = r.e.RiderResults(s1, r.riders[0])
	require.NoError(t, err)
	assert.Len(t, times, 2)
}

// TestNotFound checks every query rejects unknown ids.
func TestNotFound(t *testing.T) {
	r := newRace(t, "A")
	s1 := r.stage(t, "S1", schema.FlatStage)

	queries := map[string]func() error{
		"raw stage":      func() error { _, _, err := r.e.RawElapsed(99, r.riders[0]); return err },
		"raw rider":      func() error { _, _, err := r.e.RawElapsed(s1, 99); return err },
		"adjusted":       func() error { _, _, err := r.e.AdjustedElapsed(99, r.riders[0]); return err },
		"results":        func() error { _, err := r.e.RiderResults(s1, 99); return err },
		"rank":           func() error { _, err := r.e.RankRiders(99); return err },
		"sprint":         func() error { _, err := r.e.SprintPoints(99); return err },
		"mountain":       func() error { _, err := r.e.MountainPoints(99); return err },
		"record":         func() error { _, err := r.e.RecordPoints(99); return err },
		"gc":             func() error { _, err := r.e.GeneralClassification(99); return err },
		"gc times":       func() error { _, err := r.e.GeneralClassificationTimes(99); return err },
		"points":         func() error { _, err := r.e.PointsClassification(99); return err },
		"mountain class": func() error { _, err := r.e.MountainPointsClassification(99); return err },
		"standings":      func() error { _, err := r.e.StageStandings(99); return err },
		"race standings": func() error { _, err := r.e.RaceStandings(99, schema.GeneralClassification); return err },
	}
	for name, query := range queries {
		t.Run(name, func(t *testing.T) {
			assert.True(t, errors.Is(query(), contract.ErrNotFound))
		})
	}
}

// TestTimeTrialNotBunched checks adjusted equals raw in a time trial.
func TestTimeTrialNotBunched(t *testing.T) {
	r := newRace(t, "A", "B", "C")
	tt := r.stage(t, "Chrono", schema.TimeTrialStage)
	r.finish(t, tt, r.riders[0], 30*time.Minute)
	r.finish(t, tt, r.riders[1], 30*time.Minute+300*time.Millisecond)
	r.finish(t, tt, r.riders[2], 30*time.Minute+600*time.Millisecond)

	for _, id := range r.riders {
		raw, _, err := r.e.RawElapsed(tt, id)
		require.NoError(t, err)
		adjusted, ok, err := r.e.AdjustedElapsed(tt, id)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, raw, adjusted)
	}
}

// TestBunchingChain checks close finishers chain transitively past one second.
func TestBunchingChain(t *testing.T) {
	r := newRace(t, "A", "B", "C", "D")
	s1 := r.stage(t, "S1", schema.MediumMountainStage)
	r.finish(t, s1, r.riders[2], time.Hour+1800*time.Millisecond)
	r.finish(t, s1, r.riders[0], time.Hour)
	r.finish(t, s1, r.riders[1], time.Hour+900*time.Millisecond)
	r.finish(t, s1, r.riders[3], time.Hour+3*time.Second)

	adjusted, err := r.e.RankedAdjustedElapsed(s1)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Hour, time.Hour, time.Hour, time.Hour + 3*time.Second}, adjusted)

	ranked, err := r.e.RankRiders(s1)
	require.NoError(t, err)
	assert.Equal(t, []int{r.riders[0], r.riders[1], r.riders[2], r.riders[3]}, ranked)
}

// TestBunchingStaggeredStarts checks groups form on the finish line when riders start apart.
func TestBunchingStaggeredStarts(t *testing.T) {
	tests := []struct {
		name      string
		startB    time.Time
		finishB   time.Time
		expectedB time.Duration
	}{
		{
			name:      "close finishes with different starts",
			startB:    at(9, 0, 5, 0),
			finishB:   at(10, 0, 0, 500),
			expectedB: 59*time.Minute + 55*time.Second,
		},
		{
			name:      "close elapsed times with distant finishes",
			startB:    at(9, 10, 0, 0),
			finishB:   at(10, 10, 0, 500),
			expectedB: time.Hour + 500*time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRace(t, "A", "B")
			s1 := r.stage(t, "S1", schema.FlatStage)
			a, b := r.riders[0], r.riders[1]
			require.NoError(t, r.s.RegisterResult(s1, a, []time.Time{at(9, 0, 0, 0), at(10, 0, 0, 0)}))
			require.NoError(t, r.s.RegisterResult(s1, b, []time.Time{tt.startB, tt.finishB}))

			d, ok, err := r.e.AdjustedElapsed(s1, a)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, time.Hour, d)

			d, ok, err = r.e.AdjustedElapsed(s1, b)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.expectedB, d)
		})
	}
}

// TestAdjustedKeepsMilliseconds checks a rider finishing alone keeps the fraction of a second.
func TestAdjustedKeepsMilliseconds(t *testing.T) {
	r := newRace(t, "A")
	s1 := r.stage(t, "S1", schema.HighMountainStage)
	r.finish(t, s1, r.riders[0], time.Hour+700*time.Millisecond)

	d, ok, err := r.e.AdjustedElapsed(s1, r.riders[0])
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Hour+700*time.Millisecond, d)
}

// TestRankStableOnTies checks equal times keep registration order and nobody is dropped.
func TestRankStableOnTies(t *testing.T) {
	r := newRace(t, "A", "B", "C")
	s1 := r.stage(t, "S1", schema.FlatStage)
	r.finish(t, s1, r.riders[2], time.Hour)
	r.finish(t, s1, r.riders[0], time.Hour)
	r.finish(t, s1, r.riders[1], time.Hour)

	ranked, err := r.e.RankRiders(s1)
	require.NoError(t, err)
	assert.Equal(t, []int{r.riders[2], r.riders[0], r.riders[1]}, ranked)
}

// TestPreparingStageIsEmpty checks an open stage ranks and scores nobody.
func TestPreparingStageIsEmpty(t *testing.T) {
	r := newRace(t, "A")
	id, err := r.s.AddStage(r.raceID, "Open", "", 100, day, schema.FlatStage)
	require.NoError(t, err)

	ranked, err := r.e.RankRiders(id)
	require.NoError(t, err)
	assert.Empty(t, ranked)
	points, err := r.e.SprintPoints(id)
	require.NoError(t, err)
	assert.Empty(t, points)
	gc, err := r.e.GeneralClassification(r.raceID)
	require.NoError(t, err)
	assert.Empty(t, gc)
}

// TestSprintPointsTables checks the tables by stage type.
func TestSprintPointsTables(t *testing.T) {
	tests := []struct {
		kind     schema.StageType
		expected []int
	}{
		{schema.FlatStage, []int{50, 30, 20}},
		{schema.MediumMountainStage, []int{30, 25, 22}},
		{schema.HighMountainStage, []int{20, 17, 15}},
		{schema.TimeTrialStage, []int{20, 17, 15}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			r := newRace(t, "A", "B", "C")
			id := r.stage(t, "S", tt.kind)
			for i, rider := range r.riders {
				r.finish(t, id, rider, time.Hour+time.Duration(i)*time.Minute)
			}
			points, err := r.e.SprintPoints(id)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, points)
		})
	}
}

// TestMountainPoints checks climbs add up by finishing rank and sprints award nothing.
func TestMountainPoints(t *testing.T) {
	r := newRace(t, "A", "B", "C")
	id := r.stage(t, "Alpe", schema.HighMountainStage, schema.C3Climb, schema.SprintCheckpoint, schema.HCClimb)
	r.finish(t, id, r.riders[0], time.Hour+2*time.Minute)
	r.finish(t, id, r.riders[1], time.Hour)
	r.finish(t, id, r.riders[2], time.Hour+time.Minute)

	mountain, err := r.e.MountainPoints(id)
	require.NoError(t, err)
	assert.Equal(t, []int{22, 16, 12}, mountain)

	sp, err := r.e.StagePoints(id)
	require.NoError(t, err)
	assert.Equal(t, id, sp.StageID)
	assert.Equal(t, []schema.RiderPoints{
		{RiderID: r.riders[1], Sprint: 20, Mountain: 22},
		{RiderID: r.riders[2], Sprint: 17, Mountain: 16},
		{RiderID: r.riders[0], Sprint: 15, Mountain: 12},
	}, sp.Entries)
}

// TestPointsArePure checks queries never record anything.
func TestPointsArePure(t *testing.T) {
	r := newRace(t, "A")
	id := r.stage(t, "S1", schema.FlatStage)
	r.finish(t, id, r.riders[0], time.Hour)

	for range 3 {
		_, err := r.e.SprintPoints(id)
		require.NoError(t, err)
		_, err = r.e.StagePoints(id)
		require.NoError(t, err)
	}
	assert.Empty(t, r.s.PointsSnapshots(0))
}

// TestRecordPoints checks the explicit command stores one snapshot.
func TestRecordPoints(t *testing.T) {
	r := newRace(t, "A", "B")
	id := r.stage(t, "S1", schema.FlatStage)
	r.finish(t, id, r.riders[0], time.Hour)
	r.finish(t, id, r.riders[1], time.Hour+time.Minute)

	fixed := time.Date(2026, time.July, 5, 8, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	r.e.now = func() time.Time { return fixed }
	r.e.newID = func() string { return "snap-1" }

	snap, err := r.e.RecordPoints(id)
	require.NoError(t, err)
	assert.Equal(t, "snap-1", snap.ID)
	assert.Equal(t, time.UTC, snap.RecordedAt.Location())
	assert.True(t, fixed.Equal(snap.RecordedAt))
	assert.Equal(t, []schema.PointsSnapshot{snap}, r.s.PointsSnapshots(id))
}

// TestRecordPointsUniqueIDs checks the default ids are unique.
func TestRecordPointsUniqueIDs(t *testing.T) {
	r := newRace(t, "A")
	id := r.stage(t, "S1", schema.FlatStage)
	first, err := r.e.RecordPoints(id)
	require.NoError(t, err)
	second, err := r.e.RecordPoints(id)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, first.ID, 36)
}

// TestGeneralClassification checks identity-keyed accumulation across stages.
func TestGeneralClassification(t *testing.T) {
	r := newRace(t, "A", "B", "C", "D")
	a, b, c, d := r.riders[0], r.riders[1], r.riders[2], r.riders[3]
	s1 := r.stage(t, "S1", schema.FlatStage)
	s2 := r.stage(t, "S2", schema.TimeTrialStage)

	// Stage one: A and B bunched, C one minute down. D does not start.
	r.finish(t, s1, a, 4*time.Hour)
	r.finish(t, s1, b, 4*time.Hour+600*time.Millisecond)
	r.finish(t, s1, c, 4*time.Hour+time.Minute)
	// Stage two: equal per-stage times for A and C must not be merged.
	r.finish(t, s2, c, 30*time.Minute)
	r.finish(t, s2, a, 30*time.Minute)
	r.finish(t, s2, b, 31*time.Minute+59*time.Second+999*time.Millisecond)
	r.finish(t, s2, d, 29*time.Minute)

	gc, err := r.e.GeneralClassification(r.raceID)
	require.NoError(t, err)
	assert.Equal(t, []int{d, a, c, b}, gc)

	totals, err := r.e.GeneralClassificationTimes(r.raceID)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{
		29 * time.Minute,
		4*time.Hour + 30*time.Minute,
		4*time.Hour + 31*time.Minute,
		4*time.Hour + 31*time.Minute + 59*time.Second + 999*time.Millisecond,
	}, totals)
}

// TestGeneralClassificationOrdering checks totals ascend.
func TestGeneralClassificationOrdering(t *testing.T) {
	d := demoRace(t)
	totals, err := d.e.GeneralClassificationTimes(d.raceID)
	require.NoError(t, err)
	require.Len(t, totals, len(demoRiders))
	for i := 1; i < len(totals); i++ {
		assert.LessOrEqual(t, totals[i-1], totals[i])
	}
}

// TestPointsClassification checks points follow general classification order.
func TestPointsClassification(t *testing.T) {
	r := newRace(t, "A", "B", "C")
	a, b, c := r.riders[0], r.riders[1], r.riders[2]
	s1 := r.stage(t, "S1", schema.FlatStage)
	s2 := r.stage(t, "S2", schema.HighMountainStage, schema.C1Climb)

	r.finish(t, s1, b, 4*time.Hour)
	r.finish(t, s1, a, 4*time.Hour+time.Minute)
	r.finish(t, s1, c, 4*time.Hour+2*time.Minute)
	r.finish(t, s2, c, 5*time.Hour)
	r.finish(t, s2, a, 5*time.Hour+10*time.Second)

	// B only rode the first stage and still leads on time.
	gc, err := r.e.GeneralClassification(r.raceID)
	require.NoError(t, err)
	assert.Equal(t, []int{b, a, c}, gc)

	points, err := r.e.PointsClassification(r.raceID)
	require.NoError(t, err)
	assert.Equal(t, []int{50, 30 + 17, 20 + 20}, points)

	mountain, err := r.e.MountainPointsClassification(r.raceID)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 8, 10}, mountain)

	byPoints, err := r.e.PointsClassificationRank(r.raceID)
	require.NoError(t, err)
	assert.Equal(t, []int{b, a, c}, byPoints)

	byMountain, err := r.e.MountainClassificationRank(r.raceID)
	require.NoError(t, err)
	assert.Equal(t, []int{c, a, b}, byMountain)
}

// TestRaceStandings checks presentation rows per classification.
func TestRaceStandings(t *testing.T) {
	r := newRace(t, "A", "B")
	a, b := r.riders[0], r.riders[1]
	s1 := r.stage(t, "S1", schema.FlatStage)
	r.finish(t, s1, a, 4*time.Hour)
	r.finish(t, s1, b, 4*time.Hour+5*time.Second)

	rows, err := r.e.RaceStandings(r.raceID, schema.GeneralClassification)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, schema.RaceStanding{Rank: 2, GCRank: 2, RiderID: b, Rider: "B", Team: "Azure",
		Total: 4*time.Hour + 5*time.Second, Gap: 5 * time.Second, Points: 30}, rows[1])

	_, err = r.e.RaceStandings(r.raceID, "yellow")
	assert.ErrorIs(t, err, contract.ErrInvalidArgument)
}

// TestStageStandings checks presentation rows for a stage.
func TestStageStandings(t *testing.T) {
	r := newRace(t, "A", "B")
	s1 := r.stage(t, "S1", schema.MediumMountainStage, schema.C4Climb)
	r.finish(t, s1, r.riders[1], time.Hour)
	r.finish(t, s1, r.riders[0], time.Hour+700*time.Millisecond)

	rows, err := r.e.StageStandings(s1)
	require.NoError(t, err)
	assert.Equal(t, []schema.StageStanding{
		{Rank: 1, RiderID: r.riders[1], Rider: "B", Team: "Azure", Elapsed: time.Hour, Adjusted: time.Hour, Sprint: 30, Mountain: 1},
		{Rank: 2, RiderID: r.riders[0], Rider: "A", Team: "Azure", Elapsed: time.Hour + 700*time.Millisecond, Adjusted: time.Hour, Sprint: 25},
	}, rows)
}

// TestCascadeRemovesFromEngine checks removed entities disappear from every query.
func TestCascadeRemovesFromEngine(t *testing.T) {
	r := newRace(t, "A", "B")
	s1 := r.stage(t, "S1", schema.FlatStage)
	r.finish(t, s1, r.riders[0], time.Hour)
	r.finish(t, s1, r.riders[1], time.Hour+time.Minute)

	require.NoError(t, r.s.RemoveRider(r.riders[0]))
	gc, err := r.e.GeneralClassification(r.raceID)
	require.NoError(t, err)
	assert.Equal(t, []int{r.riders[1]}, gc)

	require.NoError(t, r.s.RemoveRace(r.raceID))
	_, err = r.e.RankRiders(s1)
	assert.ErrorIs(t, err, contract.ErrNotFound)
	_, err = r.e.GeneralClassification(r.raceID)
	assert.ErrorIs(t, err, contract.ErrNotFound)
}

// TestChecklistMismatchLeavesStore checks a rejected result changes nothing.
func TestChecklistMismatchLeavesStore(t *testing.T) {
	r := newRace(t, "A")
	s1 := r.stage(t, "S1", schema.FlatStage, schema.SprintCheckpoint)
	before := r.s.Snapshot()

	err := r.s.RegisterResult(s1, r.riders[0], []time.Time{at(9, 0, 0, 0), at(10, 0, 0, 0)})
	assert.ErrorIs(t, err, contract.ErrChecklistMismatch)
	assert.Equal(t, before, r.s.Snapshot())

	ranked, err := r.e.RankRiders(s1)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}
