package verify

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEligible(t *testing.T) {
	query := Query{
		Insurer:      "NAS",
		EmiratesID:   "784198765432109",
		MobileNumber: "501234567",
	}
	raw := RawExtraction{
		StatusText:    "Eligible",
		ReferenceNo:   "Reference No: NAS-552211",
		RequestDate:   "Request Date: 22/08/2026 14:02",
		EffectiveFrom: "Effective from : 01/01/2026",
		EffectiveTo:   " to 31/12/2026",
		EffectiveAt:   "Valid at Mediclinic Welcare",
		CoverageText:  "Consultation  covered with 20% copay",
		MemberPolicyText: "TPA Member ID\nNAS-00112233\nEmirates ID Member\n784198765432109\n" +
			"Policy Number\nP-9988\nSub Group\nGold",
	}

	result, err := Normalize(query, raw)
	require.NoError(t, err)

	expected := &Result{
		Status:          StatusSuccess,
		Insurer:         "NAS",
		EmiratesID:      "784198765432109",
		IsEligible:      Eligible,
		ReferenceNo:     "NAS-552211",
		RequestDate:     "22/08/2026 14:02",
		EffectiveFrom:   "01/01/2026",
		EffectiveTo:     "31/12/2026",
		EffectiveAt:     "Mediclinic Welcare",
		CoverageDetails: "Consultation covered with 20% copay",
		Notes:           "Valid member for Service Provider",
		MemberPolicy: MemberPolicyDetail{
			"TPA_Member_ID":      "NAS-00112233",
			"Emirates_ID_Member": "784198765432109",
			"Policy_Number":      "P-9988",
			"Sub_Group":          "Gold",
		},
	}
	diff := cmp.Diff(expected, result)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestNormalizeNotEligible(t *testing.T) {
	query := Query{Insurer: "Neuron", EmiratesID: "784198765432109"}
	raw := RawExtraction{
		StatusText:     "Not Eligible",
		ReferenceNo:    "Reference No: NE-1",
		IneligibleText: "Member policy terminated on 01/07/2026",
		CoverageText:   "should be ignored",
	}

	result, err := Normalize(query, raw)
	require.NoError(t, err)
	require.Equal(t, NotEligible, result.IsEligible)
	require.Equal(t, "Member policy terminated on 01/07/2026", result.Notes)
	require.Equal(t, "", result.CoverageDetails)
}

func TestNormalizeUnknownStatus(t *testing.T) {
	query := Query{Insurer: "Nextcare", EmiratesID: "784198765432109"}
	raw := RawExtraction{
		StatusText: "Not Covered, please call 800-NEXTCARE",
	}

	result, err := Normalize(query, raw)
	require.NoError(t, err)
	require.Equal(t, EligibilityUnknown, result.IsEligible)
	require.Equal(t, "Not Covered, please call 800-NEXTCARE", result.Notes)
}

func TestNormalizeLastLabelWins(t *testing.T) {
	query := Query{Insurer: "NAS", EmiratesID: "784198765432109"}
	raw := RawExtraction{
		StatusText:  "Eligible",
		ReferenceNo: "Reference No: Reference No: 777",
	}
	result, err := Normalize(query, raw)
	require.NoError(t, err)
	require.Equal(t, "777", result.ReferenceNo)
}

func TestNormalizeMissingResult(t *testing.T) {
	query := Query{Insurer: "NAS", EmiratesID: "784198765432109"}

	_, err := Normalize(query, RawExtraction{})
	require.True(t, errors.Is(err, MissingResult))

	_, err = Normalize(query, RawExtraction{MemberPolicyText: "A\nB"})
	require.True(t, errors.Is(err, MissingResult))

	// any one of status, reference or date is enough to count as an answer
	_, err = Normalize(query, RawExtraction{ReferenceNo: "Reference No: 1"})
	require.NoError(t, err)
}

func TestNormalizeAbsentMarkers(t *testing.T) {
	query := Query{Insurer: "NAS", EmiratesID: "784198765432109"}
	raw := RawExtraction{
		StatusText:  "Eligible",
		ReferenceNo: "88421",
		EffectiveAt: "Valid through December",
	}
	result, err := Normalize(query, raw)
	require.NoError(t, err)
	// label absent: the fragment passes through trimmed
	require.Equal(t, "88421", result.ReferenceNo)
	// token absent: the place field is dropped entirely
	require.Equal(t, "", result.EffectiveAt)
}

func TestParseMemberPolicy(t *testing.T) {
	const block = "DHA Member ID\nDHA-1\nGender\nF\ndangling label"
	detail := ParseMemberPolicy(block)
	expected := MemberPolicyDetail{
		"DHA_Member_ID": "DHA-1",
		"Gender":        "F",
	}
	diff := cmp.Diff(expected, detail)
	if diff != "" {
		t.Fatal(diff)
	}
	require.Equal(t, detail, ParseMemberPolicy(block))

	require.Empty(t, ParseMemberPolicy(""))
	require.Empty(t, ParseMemberPolicy("only one line"))
}
