package nextcare_test

import (
	"context"
	"testing"
	"time"

	devenv "github.com/qasralsahl/Eligibility-App/dev/env"
	"github.com/qasralsahl/Eligibility-App/lib/telemetry"
	"github.com/qasralsahl/Eligibility-App/services/verify"
	"github.com/qasralsahl/Eligibility-App/services/verify/nextcare"

	"github.com/stretchr/testify/require"
)

// TestRunLive drives the real Pulse portal and needs working
// credentials, so it only runs when dev/.state/nextcare.json5 exists.
func TestRunLive(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/verify/nextcare")
	defer cleanup()

	config, err := devenv.GetStateConfig[devenv.PortalTestConfig]("nextcare.json5")
	if err != nil {
		t.Skip("skipping test because no valid test config was found at dev/.state/nextcare.json5")
	}

	store, err := verify.NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	adapter := nextcare.NewAdapter(nextcare.Options{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute*3)
	defer cancel()

	query := verify.Query{
		Insurer:      "nextcare",
		EmiratesID:   config.EmiratesID,
		MobileNumber: config.MobileNumber,
	}
	require.NoError(t, query.Validate())

	raw, err := adapter.Run(ctx, verify.Credential{
		Username: config.Username,
		Password: config.Password,
	}, query, store)
	require.NoError(t, err)

	result, err := verify.Normalize(query, raw)
	require.NoError(t, err)
	require.Contains(t, []string{
		verify.Eligible,
		verify.NotEligible,
		verify.EligibilityUnknown,
	}, result.IsEligible)
}
