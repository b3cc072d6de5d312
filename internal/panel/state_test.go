package panel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOnlyFourLegalEdges(t *testing.T) {
	all := []State{Hidden, Showing, Shown, Hiding}
	legal := map[[2]State]bool{
		{Hidden, Showing}: true,
		{Showing, Shown}:  true,
		{Shown, Hiding}:   true,
		{Hiding, Hidden}:  true,
	}
	for _, from := range all {
		for _, to := range all {
			require.Equal(t, legal[[2]State{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestNextFollowsCycle(t *testing.T) {
	s := Hidden
	var seen []State
	for i := 0; i < 4; i++ {
		s = Next(s)
		seen = append(seen, s)
	}
	require.Equal(t, []State{Showing, Shown, Hiding, Hidden}, seen)
}

func TestStatePredicates(t *testing.T) {
	cases := []struct {
		s       State
		visible bool
		trans   bool
	}{
		{Hidden, false, false},
		{Showing, true, true},
		{Shown, true, false},
		{Hiding, true, true},
	}
	for _, tc := range cases {
		require.Equal(t, tc.visible, tc.s.Visible(), tc.s.String())
		require.Equal(t, tc.trans, tc.s.Transitioning(), tc.s.String())
	}
}

func TestParseState(t *testing.T) {
	s, err := ParseState(" Shown ")
	require.NoError(t, err)
	require.Equal(t, Shown, s)

	s, err = ParseState("")
	require.NoError(t, err)
	require.Equal(t, Hidden, s)

	_, err = ParseState("visible")
	require.Error(t, err)
}

func TestTransitionErrorUnwraps(t *testing.T) {
	var err error = &TransitionError{ID: "pause", From: Hidden, To: Hiding, Forced: true}
	require.True(t, errors.Is(err, ErrIllegalTransition))
	require.Contains(t, err.Error(), "forced transition HIDDEN -> HIDING")

	var te *TransitionError
	require.True(t, errors.As(err, &te))
	require.Equal(t, Hiding, te.To)
}

func TestParseLimitOverrideAndIdentity(t *testing.T) {
	for in, want := range map[string]LimitOverride{"": Replace, "WAIT": Wait, "add": Add, " none ": None} {
		got, err := ParseLimitOverride(in)
		require.NoError(t, err)
		require.Equal(t, want, got, in)
	}
	_, err := ParseLimitOverride("queue")
	require.Error(t, err)

	id, err := ParseIdentity("multiplicity-allowed")
	require.NoError(t, err)
	require.Equal(t, IdentityMultiple, id)
	_, err = ParseIdentity("many")
	require.Error(t, err)
}

func TestPositionResolve(t *testing.T) {
	require.Equal(t, 3, Top.Resolve(3))
	require.Equal(t, 0, Bottom.Resolve(3))
	require.Equal(t, 1, AtIndex(1).Resolve(3))
	require.Equal(t, 3, AtIndex(9).Resolve(3))
	require.Equal(t, 0, AtIndex(-2).Resolve(3))
	require.Equal(t, "INDEX(1)", AtIndex(1).String())
}
