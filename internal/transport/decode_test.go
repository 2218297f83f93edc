package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollection_BareArray(t *testing.T) {
	t.Parallel()

	var out []struct{ Id FlexString }
	require.NoError(t, Collection([]byte(`[{"Id":1},{"Id":"2"}]`), &out))
	require.Len(t, out, 2)
	require.Equal(t, FlexString("1"), out[0].Id)
	require.Equal(t, FlexString("2"), out[1].Id)
}

func TestCollection_DataWrapper(t *testing.T) {
	t.Parallel()

	var out []struct{ Id FlexString }
	require.NoError(t, Collection([]byte(`{"Data":[{"Id":3}]}`), &out))
	require.Len(t, out, 1)
	require.Equal(t, FlexString("3"), out[0].Id)
}

func TestCollection_EmptyVariants(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"", "null", `{"Data":null}`, `{}`} {
		var out []struct{ Id FlexString }
		require.NoError(t, Collection([]byte(body), &out), "body %q", body)
		require.Empty(t, out)
	}
}

func TestCollection_Malformed(t *testing.T) {
	t.Parallel()

	var out []struct{ Id FlexString }
	require.Error(t, Collection([]byte(`{"Data":`), &out))
}

func TestFlexString(t *testing.T) {
	t.Parallel()

	var v struct {
		A FlexString
		B FlexString
		C FlexString
		D FlexString
	}
	err := json.Unmarshal([]byte(`{"A":"x","B":12,"C":null,"D":12.5}`), &v)
	require.NoError(t, err)
	require.Equal(t, FlexString("x"), v.A)
	require.Equal(t, FlexString("12"), v.B)
	require.Equal(t, FlexString(""), v.C)
	require.Equal(t, FlexString("12.5"), v.D)

	var bad FlexString
	require.Error(t, json.Unmarshal([]byte(`{`), &bad))
}
