package game

import (
	"testing"
	"time"

	"github.com/Bold014/typeio-backend/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinRunsCountdownThenStarts(t *testing.T) {
	f := newFixture(t, quietTuning(), nil)
	s, rec := f.join(t, "alice", 0)

	require.Len(t, rec.of(protocol.MsgJoined), 1)
	countdown := rec.last(protocol.MsgCountdown).(protocol.Countdown)
	assert.Equal(t, 3, countdown.Seconds)
	assert.Equal(t, []Channel{{LobbyID: "test", SessionID: s.ID()}}, rec.joined)

	f.clock.Advance(f.countdown() - time.Millisecond)
	assert.False(t, f.snap(t, s).Started)
	assert.Empty(t, rec.of(protocol.MsgStart))

	f.clock.Advance(time.Millisecond)
	snap := f.snap(t, s)
	assert.True(t, snap.Started)
	assert.Equal(t, testSentence, snap.Sentence)

	start := rec.last(protocol.MsgStart).(protocol.Start)
	assert.Equal(t, epoch.Add(3*time.Second).UnixMilli(), start.StartTime)
	assert.Equal(t, 100, start.HP)
	assert.Equal(t, 1, start.Momentum)
	assert.Equal(t, 1, start.Tier)
}

func TestInputBeforeStartIsIgnored(t *testing.T) {
	f := newFixture(t, quietTuning(), nil)
	s, rec := f.join(t, "alice", 0)

	f.lobby.HandleTyping(s.ID(), protocol.Typing{Position: 30, Errors: 5})
	f.lobby.HandleSentenceComplete(s.ID(), protocol.SentenceComplete{WPM: 100})

	snap := f.snap(t, s)
	assert.Equal(t, 100.0, snap.HP)
	assert.Equal(t, 0.0, snap.Height)
	assert.Equal(t, ComboState{}, snap.Combo)
	assert.Empty(t, rec.of(protocol.MsgHP))
}

func TestIdleSessionLosesHPUntilEliminated(t *testing.T) {
	tuning := quietTuning()
	tuning.FloorGracePeriod = time.Hour
	prog := &fakeProgression{}
	f := newFixture(t, tuning, func(d *Deps) { d.Progression = prog })
	s, rec := f.join(t, "idler", 42)

	f.clock.Advance(3 * time.Second)
	f.clock.Advance(5 * time.Second)
	assert.Equal(t, 100.0, f.snap(t, s).HP, "no decay until the idle threshold passes")

	f.clock.Advance(10 * time.Second)
	assert.InDelta(t, 50.0, f.snap(t, s).HP, 1e-9)

	f.clock.Advance(9800 * time.Millisecond)
	snap := f.snap(t, s)
	assert.InDelta(t, 1.0, snap.HP, 1e-9)
	assert.False(t, snap.Eliminated)

	f.clock.Advance(200 * time.Millisecond)
	_, still := f.lobby.Snapshot(s.ID())
	assert.False(t, still, "eliminated session is released after its run ends")

	elim := rec.last(protocol.MsgEliminated).(protocol.Eliminated)
	assert.Equal(t, "idler", elim.Username)
	assert.Nil(t, elim.KilledBy)

	end := rec.last(protocol.MsgRunEnd).(protocol.RunEnd)
	assert.Equal(t, int64(25000), end.Duration)
	require.NotNil(t, end.XPGain)
	assert.Equal(t, 30, end.XPGain.XPGained)

	require.Len(t, prog.grants, 1)
	assert.Equal(t, grant{userID: 42, mode: ModeAscend, duration: 25 * time.Second}, prog.grants[0])
	assert.Len(t, prog.runs, 1)
	assert.Equal(t, []Channel{{LobbyID: "test", SessionID: s.ID()}}, rec.left)
}

func TestHPNotificationsOnlyWhenRoundedValueChanges(t *testing.T) {
	tuning := quietTuning()
	tuning.FloorGracePeriod = time.Hour
	tuning.IdleHPDecay = 1 // 0.2 hp per tick
	f := newFixture(t, tuning, nil)
	_, rec := f.join(t, "slow", 0)

	f.clock.Advance(3 * time.Second)
	f.clock.Advance(5 * time.Second)
	require.Empty(t, rec.of(protocol.MsgHP))

	// Five decaying ticks move hp from 100 to 99, crossing 99.5 once.
	f.clock.Advance(time.Second)
	hp := rec.of(protocol.MsgHP)
	require.Len(t, hp, 1)
	assert.Equal(t, 99, hp[0].(protocol.HPUpdate).HP)
}

func TestFloorNeverPassesLiveClimber(t *testing.T) {
	f := newFixture(t, quietTuning(), nil)
	s, rec := f.join(t, "sitter", 0)
	f.clock.Advance(3 * time.Second)

	eliminated := false
	for i := 0; i < 300 && !eliminated; i++ {
		f.clock.Advance(200 * time.Millisecond)
		snap, ok := f.lobby.Snapshot(s.ID())
		if !ok || snap.Eliminated {
			eliminated = true
			break
		}
		assert.Less(t, snap.FloorHeight, snap.Height)
		assert.Equal(t, TierForHeight(f.lobby.tuning.TierThresholds, snap.Height), snap.Tier)
	}
	require.True(t, eliminated, "floor should catch an idle climber")

	floors := rec.of(protocol.MsgFloor)
	require.NotEmpty(t, floors)
	last := floors[len(floors)-1].(protocol.FloorUpdate)
	assert.Greater(t, last.FloorHeight, 0.0)
	assert.NotEmpty(t, rec.of(protocol.MsgRunEnd))
}

func TestSentenceCompletionBonus(t *testing.T) {
	f := newFixture(t, quietTuning(), nil)
	s, rec := f.join(t, "alice", 0)
	f.clock.Advance(3 * time.Second)

	f.lobby.HandleTyping(s.ID(), protocol.Typing{Position: 4, Errors: 5})
	before := f.snap(t, s)
	require.InDelta(t, 90.0, before.HP, 1e-9)

	f.lobby.HandleSentenceComplete(s.ID(), protocol.SentenceComplete{Typed: testSentence, WPM: 60})
	after := f.snap(t, s)
	assert.InDelta(t, before.Height+6.0, after.Height, 1e-9)
	assert.Equal(t, 100.0, after.HP, "restore is capped at max hp")
	assert.Equal(t, ComboState{}, after.Combo)
	assert.Empty(t, after.InjectedRanges)
	assert.Len(t, rec.of(protocol.MsgSentence), 1)
}

func TestCompletionCanRaiseTier(t *testing.T) {
	f := newFixture(t, quietTuning(), nil)
	s, rec := f.join(t, "alice", 0)
	f.clock.Advance(3 * time.Second)

	f.withLock(func(l *Lobby) { l.sessions[s.ID()].momentum = 5 })
	f.lobby.HandleSentenceComplete(s.ID(), protocol.SentenceComplete{WPM: 100})

	snap := f.snap(t, s)
	assert.Equal(t, 2, snap.Tier)
	tier := rec.last(protocol.MsgTier).(protocol.TierUp)
	assert.Equal(t, 2, tier.Tier)
	next := rec.last(protocol.MsgSentence).(protocol.SentenceAssigned)
	assert.Equal(t, "tier 2", next.Source)
}

func TestScoreboardOrdersStartedSessions(t *testing.T) {
	f := newFixture(t, quietTuning(), nil)
	f.join(t, "alice", 0)
	b, _ := f.join(t, "bob", 0)
	f.clock.Advance(3 * time.Second)
	_, carolRec := f.join(t, "carol", 0)

	f.lobby.HandleSentenceComplete(b.ID(), protocol.SentenceComplete{WPM: 50})
	board := f.lobby.Scoreboard()
	require.Len(t, board, 2, "carol has not started yet")
	assert.Equal(t, "bob", board[0].Username)
	assert.Equal(t, "alice", board[1].Username)
	assert.Greater(t, board[0].Height, board[1].Height)

	joined := carolRec.last(protocol.MsgJoined).(protocol.Joined)
	assert.Len(t, joined.Scoreboard, 2)

	f.clock.Advance(200 * time.Millisecond)
	update := carolRec.last(protocol.MsgUpdate).(protocol.ScoreboardUpdate)
	assert.Len(t, update.Scoreboard, 2)
}

func TestLeaveBeforeStartRemovesImmediately(t *testing.T) {
	prog := &fakeProgression{}
	f := newFixture(t, quietTuning(), func(d *Deps) { d.Progression = prog })
	s, rec := f.join(t, "alice", 7)

	f.lobby.Leave(s.ID())
	assert.Equal(t, 0, f.lobby.SessionCount())
	assert.Empty(t, rec.of(protocol.MsgRunEnd))
	assert.Empty(t, prog.grants)
	assert.Equal(t, 1, f.empty)

	f.clock.Advance(3 * time.Second)
	assert.Empty(t, rec.of(protocol.MsgStart), "cancelled countdown must not start a run")
}

func TestLeaveAfterStartRecordsRun(t *testing.T) {
	prog := &fakeProgression{}
	f := newFixture(t, quietTuning(), func(d *Deps) { d.Progression = prog })
	s, rec := f.join(t, "alice", 7)
	f.clock.Advance(3 * time.Second)
	f.lobby.HandleTyping(s.ID(), protocol.Typing{Position: 5, WPM: 72})
	f.clock.Advance(2 * time.Second)

	f.lobby.Leave(s.ID())

	require.Len(t, prog.grants, 1)
	assert.Equal(t, uint(7), prog.grants[0].userID)
	assert.False(t, prog.grants[0].won)
	assert.Equal(t, 72.0, prog.grants[0].wpm)
	assert.Equal(t, 2*time.Second, prog.grants[0].duration)

	end := rec.last(protocol.MsgRunEnd).(protocol.RunEnd)
	assert.Equal(t, int64(2000), end.Duration)
	assert.NotNil(t, end.XPGain)
	assert.Equal(t, 0, f.lobby.SessionCount())
}

func TestPersistenceFailureStillEndsRun(t *testing.T) {
	prog := &fakeProgression{failing: true}
	f := newFixture(t, quietTuning(), func(d *Deps) { d.Progression = prog })
	s, rec := f.join(t, "alice", 7)
	f.clock.Advance(3 * time.Second)

	f.lobby.Leave(s.ID())

	end := rec.last(protocol.MsgRunEnd).(protocol.RunEnd)
	assert.Nil(t, end.XPGain)
	assert.Len(t, prog.runs, 1, "record is attempted even when the grant fails")
	assert.Equal(t, 0, f.lobby.SessionCount())
}

func TestGuestRunSkipsPersistence(t *testing.T) {
	prog := &fakeProgression{}
	f := newFixture(t, quietTuning(), func(d *Deps) { d.Progression = prog })
	s, rec := f.join(t, "guest", 0)
	f.clock.Advance(3 * time.Second)

	f.lobby.Leave(s.ID())
	assert.Empty(t, prog.grants)
	assert.Empty(t, prog.runs)
	assert.Len(t, rec.of(protocol.MsgRunEnd), 1)
}

func TestDisconnectDropsWithoutRunEnd(t *testing.T) {
	prog := &fakeProgression{}
	f := newFixture(t, quietTuning(), func(d *Deps) { d.Progression = prog })
	a, aRec := f.join(t, "alice", 1)
	_, bRec := f.join(t, "bob", 2)
	f.clock.Advance(3 * time.Second)

	f.lobby.Disconnect(a.ID())

	_, ok := f.lobby.Snapshot(a.ID())
	assert.False(t, ok)
	assert.Empty(t, aRec.of(protocol.MsgRunEnd))
	assert.Empty(t, prog.grants)

	elim := bRec.last(protocol.MsgEliminated).(protocol.Eliminated)
	assert.Equal(t, "alice", elim.Username)
	assert.True(t, elim.Disconnected)
	assert.Equal(t, 1, f.lobby.SessionCount())
}

func TestEmptyLobbyClosesAfterTimeout(t *testing.T) {
	f := newFixture(t, quietTuning(), nil)
	s, _ := f.join(t, "alice", 0)
	f.lobby.Leave(s.ID())
	require.Equal(t, 1, f.empty)

	f.clock.Advance(29 * time.Second)
	assert.Equal(t, 0, f.closed)

	// A join during the grace period keeps the lobby alive.
	s2, _ := f.join(t, "bob", 0)
	f.clock.Advance(5 * time.Second)
	assert.Equal(t, 0, f.closed)

	f.lobby.Leave(s2.ID())
	f.clock.Advance(30 * time.Second)
	assert.Equal(t, 1, f.closed)
	assert.True(t, f.lobby.Info().Closed)
	assert.Equal(t, 0, f.clock.Pending(), "closing stops every timer")

	_, err := f.lobby.Join(Identity{Username: "late"}, &recorder{})
	assert.ErrorIs(t, err, ErrLobbyClosed)
}

func TestTickSurvivesPanickingNotifier(t *testing.T) {
	f := newFixture(t, quietTuning(), nil)
	bad := &recorder{panicsOn: protocol.MsgFloor}
	_, err := f.lobby.Join(Identity{Username: "broken"}, bad)
	require.NoError(t, err)
	good, goodRec := f.join(t, "fine", 0)

	f.clock.Advance(3 * time.Second)
	f.clock.Advance(time.Second)

	assert.Greater(t, f.snap(t, good).Height, 0.0)
	assert.NotEmpty(t, goodRec.of(protocol.MsgFloor))
	assert.NotEmpty(t, goodRec.of(protocol.MsgUpdate))
}
