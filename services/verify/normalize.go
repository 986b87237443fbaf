package verify

import (
	"strings"

	"github.com/qasralsahl/Eligibility-App/lib/textutil"
)

// RawExtraction is what an adapter scraped off the result page, label
// text and all. Fields an insurer's page does not render stay empty.
type RawExtraction struct {
	// StatusText is the portal's eligibility verdict, e.g.
	// "Eligible" or a free-form rejection message.
	StatusText    string
	ReferenceNo   string
	RequestDate   string
	EffectiveFrom string
	EffectiveTo   string
	EffectiveAt   string
	// CoverageText is the coverage table's rendered text, only
	// present for eligible members.
	CoverageText string
	// IneligibleText is the portal's explanation when the member
	// is not eligible.
	IneligibleText string
	// MemberPolicyText is the member/policy table rendered one
	// line per cell, alternating label and value.
	MemberPolicyText string
}

const eligibleNotes = "Valid member for Service Provider"

// Normalize turns a raw scrape into a Result. The input is assumed
// messy and never causes an error by itself; the only failure mode is
// a page that carried none of the fields an answer needs, which gets
// reported as MissingResult so the attempt can be retried.
func Normalize(query Query, raw RawExtraction) (*Result, error) {
	status := textutil.CleanSpace(raw.StatusText)
	if status == "" &&
		textutil.CleanSpace(raw.ReferenceNo) == "" &&
		textutil.CleanSpace(raw.RequestDate) == "" {
		return nil, MissingResult
	}

	result := &Result{
		Status:        StatusSuccess,
		Insurer:       query.Insurer,
		EmiratesID:    query.EmiratesID,
		ReferenceNo:   textutil.AfterLabel(raw.ReferenceNo, "Reference No:"),
		RequestDate:   textutil.AfterLabel(raw.RequestDate, "Request Date:"),
		EffectiveFrom: textutil.AfterLabel(raw.EffectiveFrom, "Effective from :"),
		EffectiveTo:   textutil.StripToken(raw.EffectiveTo, "to"),
		EffectiveAt:   textutil.AfterToken(raw.EffectiveAt, "at"),
		MemberPolicy:  ParseMemberPolicy(raw.MemberPolicyText),
	}

	switch status {
	case Eligible:
		result.IsEligible = Eligible
		result.CoverageDetails = textutil.CleanSpace(raw.CoverageText)
		result.Notes = eligibleNotes
	case NotEligible:
		result.IsEligible = NotEligible
		result.Notes = textutil.CleanSpace(raw.IneligibleText)
	default:
		result.IsEligible = EligibilityUnknown
		result.Notes = status
	}
	return result, nil
}

// ParseMemberPolicy pairs up the alternating label/value lines of the
// member and policy table. A dangling label with no value line is
// dropped rather than guessed at.
func ParseMemberPolicy(block string) MemberPolicyDetail {
	detail := MemberPolicyDetail{}
	lines := strings.Split(block, "\n")
	for i := 0; i+1 < len(lines); i += 2 {
		key := textutil.UnderscoreKey(lines[i])
		if key == "" {
			continue
		}
		detail[key] = strings.TrimSpace(lines[i+1])
	}
	return detail
}
