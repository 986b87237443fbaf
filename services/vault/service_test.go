package vault

import (
	"context"
	"testing"
	"time"

	"github.com/qasralsahl/Eligibility-App/lib/testutil"
	"github.com/qasralsahl/Eligibility-App/services/vault/db"
	"github.com/qasralsahl/Eligibility-App/services/verify"

	"github.com/stretchr/testify/require"
)

func setup(t testing.TB) (Service, func()) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/vault",
		DbSchema: db.Schema,
	})
	return NewService(res.DB), cleanup
}

func TestService(t *testing.T) {
	service, cleanup := setup(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	{
		cred, err := service.Get(ctx, "clinic-17", "nas")
		require.NoError(t, err)
		require.Nil(t, cred)
	}
	{
		err := service.Set(ctx, "clinic-17", "NAS", verify.Credential{
			Username: "desk_user",
			Password: "desk_pass",
		})
		require.NoError(t, err)
	}
	{
		err := service.Set(ctx, "clinic-17", "nextcare", verify.Credential{
			Username: "pulse_user",
			Password: "pulse_pass",
		})
		require.NoError(t, err)
	}
	{
		// insurer casing must not matter on lookup
		cred, err := service.Get(ctx, "clinic-17", "nas")
		require.NoError(t, err)
		require.NotNil(t, cred)
		require.Equal(t, "desk_user", cred.Username)
		require.Equal(t, "desk_pass", cred.Password)
	}
	{
		// rotating a password must invalidate the cached read
		err := service.Set(ctx, "clinic-17", "nas", verify.Credential{
			Username: "desk_user",
			Password: "rotated_pass",
		})
		require.NoError(t, err)

		cred, err := service.Get(ctx, "clinic-17", "NAS")
		require.NoError(t, err)
		require.NotNil(t, cred)
		require.Equal(t, "rotated_pass", cred.Password)
	}
	{
		entries, err := service.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		require.Equal(t, "nas", entries[0].Insurer)
		require.Equal(t, "desk_user", entries[0].Username)
		require.Equal(t, "nextcare", entries[1].Insurer)
	}
	{
		err := service.Delete(ctx, "clinic-17", "nextcare")
		require.NoError(t, err)

		cred, err := service.Get(ctx, "clinic-17", "nextcare")
		require.NoError(t, err)
		require.Nil(t, cred)
	}
}
