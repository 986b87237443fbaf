package jet

import (
	"os"
	"testing"

	"github.com/qasralsahl/Eligibility-App/services/verify"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseResultPage(t *testing.T) {
	data, err := os.ReadFile("testdata/result.html")
	require.NoError(t, err)

	raw, err := parseResultPage(string(data))
	require.NoError(t, err)

	expected := verify.RawExtraction{
		StatusText:    "Eligible",
		ReferenceNo:   "Reference No: JET-552211",
		RequestDate:   "Request Date: 22/08/2026 14:02",
		EffectiveFrom: "Effective from : 01/01/2026",
		EffectiveTo:   "to 31/12/2026",
		EffectiveAt:   "Valid at Mediclinic Welcare",
		CoverageText:  "Consultation covered with 20% copay",
	}
	diff := cmp.Diff(expected, raw)
	if diff != "" {
		t.Fatal(diff)
	}

	result, err := verify.Normalize(verify.Query{
		Insurer:      "NAS",
		EmiratesID:   "784198765432109",
		MobileNumber: "501234567",
	}, raw)
	require.NoError(t, err)
	require.Equal(t, verify.Eligible, result.IsEligible)
	require.Equal(t, "JET-552211", result.ReferenceNo)
	require.Equal(t, "31/12/2026", result.EffectiveTo)
	require.Equal(t, "Mediclinic Welcare", result.EffectiveAt)
}

func TestParseResultPageNotEligible(t *testing.T) {
	const page = `<html><body>
		<div id="cphBody_rptResponseFile_dvResult_0"> Not  Eligible </div>
		<div id="cphBody_rptResponseFile_dvEligibilityMessage_0">Policy terminated on 01/07/2026</div>
	</body></html>`

	raw, err := parseResultPage(page)
	require.NoError(t, err)
	require.Equal(t, "Not Eligible", raw.StatusText)
	require.Equal(t, "Policy terminated on 01/07/2026", raw.IneligibleText)
	require.Equal(t, "", raw.ReferenceNo)
}

func TestMemberPolicyText(t *testing.T) {
	const popup = `<div id="cphBody_upMemperDetails">
		<div>TPA Member ID</div><div>NAS-00112233</div>
		<div>Emirates ID Member</div><div>784198765432109</div>
		<div>DOB</div><div>14/03/1990</div>
	</div>`

	text := memberPolicyText(popup)
	require.Equal(
		t,
		"TPA Member ID\nNAS-00112233\nEmirates ID Member\n784198765432109\nDOB\n14/03/1990",
		text,
	)

	detail := verify.ParseMemberPolicy(text)
	require.Equal(t, "NAS-00112233", detail["TPA_Member_ID"])
	require.Equal(t, "14/03/1990", detail["DOB"])
}

func TestMemberPolicyTextUnparseable(t *testing.T) {
	require.Equal(t, "", memberPolicyText(""))
}
