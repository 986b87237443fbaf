package results

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/qasralsahl/Eligibility-App/lib/testutil"
	"github.com/qasralsahl/Eligibility-App/services/results/db"
	"github.com/qasralsahl/Eligibility-App/services/verify"

	"github.com/stretchr/testify/require"
)

func setup(t testing.TB) (Service, func()) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/results",
		DbSchema: db.Schema,
	})
	return NewService(res.DB), cleanup
}

func TestService(t *testing.T) {
	service, cleanup := setup(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	query := verify.Query{
		Insurer:      "NAS",
		EmiratesID:   "784198765432109",
		MobileNumber: "501234567",
	}

	{
		result := &verify.Result{
			Status:          verify.StatusSuccess,
			Insurer:         "NAS",
			EmiratesID:      query.EmiratesID,
			IsEligible:      verify.Eligible,
			ReferenceNo:     "JET-552211",
			RequestDate:     "22/08/2026 14:02",
			EffectiveFrom:   "01/01/2026",
			EffectiveTo:     "31/12/2026",
			EffectiveAt:     "Mediclinic Welcare",
			CoverageDetails: "Consultation covered with 20% copay",
			Notes:           "Valid member for Service Provider",
			MemberPolicy: verify.MemberPolicyDetail{
				"TPA_Member_ID": "NAS-00112233",
				"Emirates_ID":   query.EmiratesID,
				"Network":       "GN Plus",
			},
		}
		id, err := service.Save(ctx, "clinic-17", query, result)
		require.NoError(t, err)
		require.Greater(t, id, int64(0))
	}
	{
		_, err := service.RecordFailure(ctx, "clinic-17", verify.Query{
			Insurer:      "nextcare",
			EmiratesID:   "784111122223333",
			MobileNumber: "529998877",
		}, errors.New("wrong result page"))
		require.NoError(t, err)
	}

	{
		records, err := service.List(ctx, 10)
		require.NoError(t, err)
		require.Len(t, records, 2)

		// newest first
		require.Equal(t, verify.StatusError, records[0].Status)
		require.Equal(t, "wrong result page", records[0].Notes)
		require.Equal(t, verify.EligibilityUnknown, records[0].IsEligible)

		saved := records[1]
		require.Equal(t, verify.StatusSuccess, saved.Status)
		require.Equal(t, "clinic-17", saved.ClientID)
		require.Equal(t, "501234567", saved.MobileNumber)
		require.Equal(t, "JET-552211", saved.ReferenceNo)
		require.Equal(t, "NAS-00112233", saved.MemberColumns["TPA_Member_ID"])
		require.Equal(t, query.EmiratesID, saved.MemberColumns["Emirates_ID_Member"])
		require.Equal(t, map[string]string{"Network": "GN Plus"}, saved.ExtraDetails)
	}
	{
		records, err := service.ListByEmiratesID(ctx, query.EmiratesID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, verify.Eligible, records[0].IsEligible)
	}
}
