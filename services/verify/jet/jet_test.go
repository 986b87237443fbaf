package jet

import (
	"context"
	"testing"
	"time"

	devenv "github.com/qasralsahl/Eligibility-App/dev/env"
	"github.com/qasralsahl/Eligibility-App/lib/telemetry"
	"github.com/qasralsahl/Eligibility-App/services/verify"

	"github.com/stretchr/testify/require"
)

func TestRunLive(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/verify/jet")
	defer cleanup()

	cfg, err := devenv.GetStateConfig[devenv.PortalTestConfig]("jet.json5")
	if err != nil {
		t.Skip("skipping test because no valid test config was found at dev/.state/jet.json5")
	}

	store, err := verify.NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	adapter := NewAdapter(Options{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute*3)
	defer cancel()

	query := verify.Query{
		Insurer:      cfg.Insurer,
		EmiratesID:   cfg.EmiratesID,
		MobileNumber: cfg.MobileNumber,
	}
	require.NoError(t, query.Validate())

	raw, err := adapter.Run(ctx, verify.Credential{
		Username: cfg.Username,
		Password: cfg.Password,
	}, query, store)
	require.NoError(t, err)

	result, err := verify.Normalize(query, raw)
	require.NoError(t, err)
	require.Contains(
		t,
		[]string{verify.Eligible, verify.NotEligible, verify.EligibilityUnknown},
		result.IsEligible,
	)
}
