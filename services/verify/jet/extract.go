package jet

import (
	"strings"

	"github.com/qasralsahl/Eligibility-App/lib/htmlutil"
	"github.com/qasralsahl/Eligibility-App/services/verify"

	"github.com/PuerkitoBio/goquery"
)

// parseResultPage pulls the raw field texts out of a captured result
// page. Absent elements become empty strings; the normalizer decides
// what is required.
func parseResultPage(html string) (verify.RawExtraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return verify.RawExtraction{}, err
	}
	return verify.RawExtraction{
		StatusText:     htmlutil.CleanText(doc.Find(resultSelectors.Status).First()),
		ReferenceNo:    htmlutil.CleanText(doc.Find(resultSelectors.ReferenceNo).First()),
		RequestDate:    htmlutil.CleanText(doc.Find(resultSelectors.RequestDate).First()),
		EffectiveFrom:  htmlutil.CleanText(doc.Find(resultSelectors.EffectiveFrom).First()),
		EffectiveTo:    htmlutil.CleanText(doc.Find(resultSelectors.EffectiveTo).First()),
		EffectiveAt:    htmlutil.CleanText(doc.Find(resultSelectors.EffectiveAt).First()),
		CoverageText:   htmlutil.CleanText(doc.Find(resultSelectors.Coverage).First()),
		IneligibleText: htmlutil.CleanText(doc.Find(resultSelectors.Ineligible).First()),
	}, nil
}

// memberPolicyText renders the member-details popup markup into the
// line-per-cell form the normalizer pairs up. An unparseable fragment
// yields "", which downstream treats as no details.
func memberPolicyText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return htmlutil.BlockText(doc.Find("body"))
}
