package verify

import (
	"fmt"
	"strings"
)

// Credential is a portal login owned by a clinic for a specific
// insurer network. Which credential applies to a query is the
// caller's problem, usually answered by the vault service.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Query identifies the patient whose coverage should be checked and
// the insurer network to check it against.
type Query struct {
	// Insurer selects the adapter, matched case-insensitively.
	// Values like "NAS" and "Neuron" run on the same portal but
	// change which network radio gets picked.
	Insurer      string `json:"insurer"`
	EmiratesID   string `json:"emirates_id"`
	MobileNumber string `json:"mobile_number"`
}

var InvalidQuery = fmt.Errorf("invalid eligibility query")

// Validate rejects queries the portals would bounce anyway, before a
// browser is spent on them.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Insurer) == "" {
		return fmt.Errorf("%w: insurer is required", InvalidQuery)
	}
	if !allDigits(q.EmiratesID) || len(q.EmiratesID) != 15 || !strings.HasPrefix(q.EmiratesID, "784") {
		return fmt.Errorf("%w: emirates id must be 15 digits starting with 784", InvalidQuery)
	}
	if !allDigits(q.MobileNumber) || len(q.MobileNumber) != 9 || !strings.HasPrefix(q.MobileNumber, "5") {
		return fmt.Errorf("%w: mobile number must be 9 digits starting with 5", InvalidQuery)
	}
	return nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// The closed set of values Result.IsEligible may hold. Portal status
// strings outside this set collapse to EligibilityUnknown with the
// original text preserved in Notes.
const (
	Eligible           = "Eligible"
	NotEligible        = "Not Eligible"
	EligibilityUnknown = "Unknown"
)

// MemberPolicyDetail holds the key/value rows of the portal's member
// and policy table, keyed by the underscored label text.
type MemberPolicyDetail map[string]string

// Result is the normalized outcome of one verification run. Field
// names on the wire match the columns the portals expose so that
// downstream storage does not need its own mapping layer.
type Result struct {
	Status     string `json:"status"`
	Insurer    string `json:"insurer"`
	EmiratesID string `json:"emirates_id"`

	IsEligible      string `json:"Is_Eligible"`
	ReferenceNo     string `json:"Reference_No"`
	RequestDate     string `json:"Request_Date"`
	EffectiveFrom   string `json:"Effective_From"`
	EffectiveTo     string `json:"Effective_To"`
	EffectiveAt     string `json:"Effective_At"`
	CoverageDetails string `json:"Coverage_Details"`
	Notes           string `json:"Notes"`

	MemberPolicy MemberPolicyDetail `json:"Member_Policy_Details"`
}

// SkippedResult is what an unsupported insurer gets instead of an
// error: the query was understood, no portal was contacted.
func SkippedResult(q Query) *Result {
	return &Result{
		Status:       StatusSkipped,
		Insurer:      q.Insurer,
		EmiratesID:   q.EmiratesID,
		IsEligible:   EligibilityUnknown,
		Notes:        fmt.Sprintf("insurer %q is not supported", q.Insurer),
		MemberPolicy: MemberPolicyDetail{},
	}
}
