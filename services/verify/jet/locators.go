package jet

import "github.com/qasralsahl/Eligibility-App/lib/browser"

// The portal contract: every element the sequence touches, in one
// table. A site redesign means editing locators here, not control
// flow. Several ids carry the portal's own spelling mistakes
// (EligbilityAddNationalID, cpatchaTextBox, upMemperDetails); those
// are what the markup actually serves.
type locatorTable struct {
	Username    browser.Locator
	Password    browser.Locator
	LoginSubmit browser.Locator

	AnnouncementClose  browser.Locator
	EligibilitySection browser.Locator
	NetworkPanel       browser.Locator
	NetworkRadios      map[string]browser.Locator
	NationalIDRadio    browser.Locator
	EmiratesID         browser.Locator
	TreatmentBasis     browser.Locator
	TreatmentBasisItem browser.Locator
	Mobile             browser.Locator
	Captcha            browser.Locator
	Submit             browser.Locator

	Page          browser.Locator
	ResultStatus  browser.Locator
	MemberDetails browser.Locator
}

var loc = locatorTable{
	Username:    browser.CSS("#Username"),
	Password:    browser.CSS("#Password"),
	LoginSubmit: browser.XPath("//button[@type='submit']"),

	AnnouncementClose:  browser.XPath(`//*[@id="UsersModalAnnoucement"]/div/div/div[1]/button`),
	EligibilitySection: browser.CSS("#EligibilityColumn"),
	NetworkPanel:       browser.CSS(".sellogo"),
	NetworkRadios: map[string]browser.Locator{
		"nas":    browser.CSS("#RadioNAS"),
		"neuron": browser.CSS("#RadioNeuron"),
	},
	NationalIDRadio:    browser.CSS("#RadioNationalID"),
	EmiratesID:         browser.CSS("#EligbilityAddNationalID"),
	TreatmentBasis:     browser.XPath(`//*[@id="ddlTreatmentbasis_chosen"]/a/div`),
	TreatmentBasisItem: browser.XPath(`//*[@id="ddlTreatmentbasis_chosen"]/div/ul/li[3]`),
	Mobile:             browser.CSS("#txtAddBenefPhone"),
	Captcha:            browser.CSS("#cpatchaTextBox"),
	Submit:             browser.CSS("#btnSubmitNewEligibility"),

	Page:          browser.CSS("html"),
	ResultStatus:  browser.CSS("#cphBody_rptResponseFile_dvResult_0"),
	MemberDetails: browser.CSS("#cphBody_upMemperDetails"),
}

// captchaExpr reads the answer the portal computes into a page-level
// script variable. There is no image to solve.
const captchaExpr = "String(code)"

// memberDetailsExpr clicks the info button through page script; a
// plain mouse click gets intercepted by the result table's overlay.
const memberDetailsExpr = `document.getElementById("cphBody_rptResponseFile_aEligibilityMemberDetails_0").click()`

// resultSelectors drive extraction from the captured result-page
// html. Paths mirror the portal's nested grid markup.
var resultSelectors = struct {
	Status        string
	ReferenceNo   string
	RequestDate   string
	EffectiveFrom string
	EffectiveTo   string
	EffectiveAt   string
	Coverage      string
	Ineligible    string
}{
	Status:        "#cphBody_rptResponseFile_dvResult_0",
	ReferenceNo:   "#cphBody_rptResponseFile_dvMemDet_0 > div:nth-of-type(2) > div:nth-of-type(4) > div:nth-of-type(1) > div:nth-of-type(1) > div",
	RequestDate:   "#cphBody_rptResponseFile_dvMemDet_0 > div:nth-of-type(2) > div:nth-of-type(4) > div:nth-of-type(1) > div:nth-of-type(2) > div",
	EffectiveFrom: "#cphBody_rptResponseFile_dvMemDet_0 > div:nth-of-type(2) > div:nth-of-type(2) > div:nth-of-type(1)",
	EffectiveTo:   "#cphBody_rptResponseFile_dvMemDet_0 > div:nth-of-type(2) > div:nth-of-type(2) > div:nth-of-type(2)",
	EffectiveAt:   "#cphBody_rptResponseFile_dvMemDet_0 > div:nth-of-type(2) > div:nth-of-type(2) > div:nth-of-type(3)",
	Coverage:      "#cphBody_rptResponseFile_dvMessages_0",
	Ineligible:    "#cphBody_rptResponseFile_dvEligibilityMessage_0",
}
