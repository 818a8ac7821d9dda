package cachepkg

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	mr := miniredis.RunT(t)

	testCases := []struct {
		name    string
		address string
		wantErr bool
	}{
		{
			name:    "HostPort",
			address: mr.Addr(),
		},
		{
			name:    "URL",
			address: "redis://" + mr.Addr() + "/0",
		},
		{
			name:    "BadURL",
			address: "redis://" + mr.Addr() + "/notadb",
			wantErr: true,
		},
		{
			name:    "Unreachable",
			address: "127.0.0.1:1",
			wantErr: true,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client, err := Setup(context.Background(), tc.address)
			if tc.wantErr {
				require.Error(t, err)
				require.Nil(t, client)

				return
			}

			require.NoError(t, err)
			t.Cleanup(func() { _ = client.Close() })

			require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
			mr.CheckGet(t, "k", "v")
		})
	}
}
