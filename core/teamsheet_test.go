package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamsheetLinks(t *testing.T) {
	ts, err := TeamsheetFromTable(
		[]string{"player", "jID", "xID", "position"},
		[][]string{
			{"Alice", "10", "0", "FW"},
			{"Bea", "4", "1", "DF"},
			{"Cleo", "1", "2", "GK"},
		})
	require.NoError(t, err)

	assert.Equal(t, 3, ts.Len())
	assert.Equal(t, []string{"jID", "xID"}, ts.Protected())
	assert.Equal(t, []string{"position"}, ts.Custom())
	assert.Empty(t, ts.InvalidColumns())

	links, err := ts.GetLinks("jID", "xID")
	require.NoError(t, err)
	assert.Equal(t, 3, links.Len())

	idx, err := links.ResolveIndex(Num(4))
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = links.Resolve(Num(99))
	assert.ErrorIs(t, err, ErrKey)

	names, err := ts.GetLinks("xID", "player")
	require.NoError(t, err)
	name, err := names.Resolve(Num(2))
	require.NoError(t, err)
	assert.Equal(t, "Cleo", name.String())

	_, err = ts.GetLinks("shirt", "xID")
	assert.ErrorIs(t, err, ErrKey)
	_, err = links.ResolveIndex(Num(10))
	require.NoError(t, err)
	_, err = names.ResolveIndex(Num(0))
	assert.ErrorIs(t, err, ErrKey, "player names are not indices")
}

func TestTeamsheetValidation(t *testing.T) {
	_, err := NewTeamsheet([]string{"jID"}, nil)
	assert.ErrorIs(t, err, ErrSchema)

	ts, err := NewTeamsheet([]string{"player", "jID"}, []map[string]Value{
		{"player": Str("A"), "jID": Num(7)},
		{"player": Str("B"), "jID": Num(7)},
	})
	require.NoError(t, err)
	_, err = ts.GetLinks("jID", "player")
	assert.ErrorIs(t, err, ErrSchema)

	bad, err := NewTeamsheet([]string{"player", "jID"}, []map[string]Value{{"player": Str("A"), "jID": Num(-1)}})
	require.NoError(t, err)
	assert.Equal(t, []string{"jID"}, bad.InvalidColumns())

	_, err = NewTeamsheet([]string{"player"}, []map[string]Value{{"player": Str("A"), "age": Num(30)}})
	assert.ErrorIs(t, err, ErrSchema)
}
