package apiclient

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fileName string

type upper struct{ s string }

func (u upper) Into() string { return u.s + "!" }

func TestConvert(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		got, err := Convert[string]("cover.png")
		require.NoError(t, err)
		require.Equal(t, "cover.png", got)
	})

	t.Run("named type of same kind", func(t *testing.T) {
		got, err := Convert[string](fileName("cover.png"))
		require.NoError(t, err)
		require.Equal(t, "cover.png", got)
	})

	t.Run("Into method", func(t *testing.T) {
		got, err := Convert[string](upper{s: "hi"})
		require.NoError(t, err)
		require.Equal(t, "hi!", got)
	})

	t.Run("integer passes through", func(t *testing.T) {
		var v Into[uint32] = uint32(7)
		got, err := Convert[uint32](v)
		require.NoError(t, err)
		require.Equal(t, uint32(7), got)
	})

	t.Run("interface target", func(t *testing.T) {
		got, err := Convert[TokenCarrier](AccessToken("a"))
		require.NoError(t, err)
		require.Equal(t, AccessToken("a"), got)
	})

	t.Run("integer is not a string", func(t *testing.T) {
		_, err := Convert[string](65)
		require.ErrorIs(t, err, &BaseError{Kind: KindInvalidArgument})
	})

	t.Run("nil into nilable", func(t *testing.T) {
		ids, err := Convert[[]uint32](nil)
		require.NoError(t, err)
		require.Nil(t, ids)

		carrier, err := Convert[TokenCarrier](nil)
		require.NoError(t, err)
		require.Nil(t, carrier)
	})

	t.Run("nil into value", func(t *testing.T) {
		_, err := Convert[string](nil)
		base, ok := AsBase(err)
		require.True(t, ok)
		require.Equal(t, KindInvalidArgument, base.Kind)
	})
}
