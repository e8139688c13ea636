package services

import (
	"storefront/utils"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func newTestCodec(t *testing.T) *utils.IDCodec {
	t.Helper()
	codec, err := utils.NewIDCodec("service-test-salt", 8)
	require.NoError(t, err)
	return codec
}

func mustEncode(t *testing.T, codec *utils.IDCodec, id int64) string {
	t.Helper()
	encoded, err := codec.Encode(id)
	require.NoError(t, err)
	return encoded
}

func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}
