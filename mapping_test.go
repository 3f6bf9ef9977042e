package relic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpachlinger/relic"
)

func TestNewMap(t *testing.T) {
	t.Run("sorted by rank", func(t *testing.T) {
		m, err := relic.NewMap("t",
			relic.Mapping{SelectRank: 2, Attr: "c", Column: "c"},
			relic.Mapping{SelectRank: 0, Attr: "a", Column: "a", Key: relic.KeyPrimary},
			relic.Mapping{SelectRank: 1, Attr: "b", Column: "b"},
		)
		require.NoError(t, err)
		got := make([]string, 0, 3)
		for _, am := range m.Mappings() {
			got = append(got, am.Attr)
		}
		assert.Equal(t, []string{"a", "b", "c"}, got)
	})
	t.Run("single auto key enforced", func(t *testing.T) {
		_, err := relic.NewMap("t",
			relic.Mapping{SelectRank: 0, Attr: "a", Column: "a", Key: relic.KeyAuto},
			relic.Mapping{SelectRank: 1, Attr: "b", Column: "b", Key: relic.KeyAuto},
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "more than one auto-increment key")
	})
}

func TestMapViews(t *testing.T) {
	m := productMap
	t.Run("insert excludes auto key", func(t *testing.T) {
		for _, am := range m.ForInsert() {
			assert.False(t, am.IsAuto(), am.Attr)
		}
		assert.Len(t, m.ForInsert(), 3)
	})
	t.Run("update excludes keys", func(t *testing.T) {
		for _, am := range m.ForUpdate() {
			assert.False(t, am.IsKey(), am.Attr)
		}
	})
	t.Run("select includes auto key", func(t *testing.T) {
		assert.Equal(t, "id", m.ForSelect()[0].Attr)
	})
	t.Run("auto key lookup", func(t *testing.T) {
		auto, ok := m.AutoKey()
		require.True(t, ok)
		assert.Equal(t, "id", auto.Attr)

		_, ok = personMap.AutoKey()
		assert.False(t, ok)
	})
	t.Run("negative rank excluded from select", func(t *testing.T) {
		hidden := relic.MustMap("t",
			relic.Mapping{SelectRank: 0, Attr: "a", Column: "a", Key: relic.KeyPrimary},
			relic.Mapping{SelectRank: -1, Attr: "secret", Column: "secret", InInsert: true},
		)
		assert.Len(t, hidden.ForSelect(), 1)
		assert.Len(t, hidden.ForInsert(), 1)
	})
}

func TestMapLookup(t *testing.T) {
	am, ok := personMap.Lookup("eye_color")
	require.True(t, ok)
	assert.Equal(t, "eye_color", am.Column)

	_, ok = personMap.Lookup("shoe_size")
	assert.False(t, ok)
}

func TestExpandRow(t *testing.T) {
	t.Run("dense ranks", func(t *testing.T) {
		row, err := personMap.ExpandRow([]any{"John", int64(35), 84.6, "brown"})
		require.NoError(t, err)
		assert.Equal(t, []any{"John", int64(35), 84.6, "brown"}, row)
	})
	t.Run("sparse ranks leave gaps", func(t *testing.T) {
		m := relic.MustMap("t",
			relic.Mapping{SelectRank: 0, Attr: "a", Column: "a"},
			relic.Mapping{SelectRank: 2, Attr: "c", Column: "c"},
		)
		row, err := m.ExpandRow([]any{"x", "z"})
		require.NoError(t, err)
		assert.Equal(t, []any{"x", nil, "z"}, row)
	})
	t.Run("arity mismatch", func(t *testing.T) {
		_, err := personMap.ExpandRow([]any{"John"})
		assert.Error(t, err)
	})
}

func TestKeyRoleString(t *testing.T) {
	assert.Equal(t, "none", relic.KeyNone.String())
	assert.Equal(t, "primary", relic.KeyPrimary.String())
	assert.Equal(t, "auto", relic.KeyAuto.String())
}
