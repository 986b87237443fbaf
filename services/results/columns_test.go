package results

import (
	"testing"

	"github.com/qasralsahl/Eligibility-App/services/verify"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestFlattenMemberPolicyExact(t *testing.T) {
	columns, extra := flattenMemberPolicy(verify.MemberPolicyDetail{
		"TPA_Member_ID":    "NAS-00112233",
		"DOB":              "14/03/1990",
		"Sub_Group":        "Dubai Branch",
		"Policy_Number":    "PN-551",
		"Policy_Authority": "DHA",
	})

	expected := map[string]string{
		"TPA_Member_ID":    "NAS-00112233",
		"DOB":              "14/03/1990",
		"Sub_Group":        "Dubai Branch",
		"Policy_Number":    "PN-551",
		"Policy_Authority": "DHA",
	}
	diff := cmp.Diff(expected, columns)
	if diff != "" {
		t.Fatal(diff)
	}
	require.Empty(t, extra)
}

func TestFlattenMemberPolicyFuzzy(t *testing.T) {
	columns, extra := flattenMemberPolicy(verify.MemberPolicyDetail{
		// some networks label the popup row without the Member suffix
		"Emirates_ID": "784198765432109",
		"Subgroup":    "Dubai Branch",
		"Network":     "GN Plus",
	})

	require.Equal(t, "784198765432109", columns["Emirates_ID_Member"])
	require.Equal(t, "Dubai Branch", columns["Sub_Group"])
	require.Equal(t, map[string]string{"Network": "GN Plus"}, extra)
}

func TestFlattenMemberPolicyDoesNotOverwrite(t *testing.T) {
	columns, extra := flattenMemberPolicy(verify.MemberPolicyDetail{
		"Emirates_ID_Member": "784111111111111",
		"Emirates_ID":        "784222222222222",
	})

	require.Equal(t, "784111111111111", columns["Emirates_ID_Member"])
	require.Equal(t, "784222222222222", extra["Emirates_ID"])
}

func TestFlattenMemberPolicyEmpty(t *testing.T) {
	columns, extra := flattenMemberPolicy(nil)
	require.Empty(t, columns)
	require.Empty(t, extra)
}
