package optional

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	t.Parallel()
	var zero Optional[int]
	require.False(t, zero.IsPresent())
	require.Equal(t, None[int](), zero)

	some := Some(7)
	v, ok := some.Get()
	require.True(t, ok)
	require.Equal(t, 7, v)
	require.Equal(t, 7, some.OrElse(0))
	require.Equal(t, 3, None[int]().OrElse(3))
}

func TestMap(t *testing.T) {
	t.Parallel()
	mapped := Map(Some(42), strconv.Itoa)
	require.True(t, mapped.IsPresent())
	require.Equal(t, "42", mapped.Value())

	absent := Map(None[int](), strconv.Itoa)
	require.False(t, absent.IsPresent())
	require.Equal(t, "void", absent.OrElse("void"))
}
