package nextcare

import "github.com/qasralsahl/Eligibility-App/lib/browser"

// The portal contract for the Nextcare Pulse site. The eligibility
// menu entry carries a bare numeric id, which only xpath can address.
type locatorTable struct {
	Username    browser.Locator
	Password    browser.Locator
	LoginSubmit browser.Locator

	EligibilityMenu browser.Locator
	OtherIDTab      browser.Locator
	IDValue         browser.Locator
	VisitType       browser.Locator
	VisitTypeItem   browser.Locator
	CheckButton     browser.Locator

	ResultMessage browser.Locator
}

var loc = locatorTable{
	Username:    browser.CSS("#txtUserName"),
	Password:    browser.CSS("#txtPassword"),
	LoginSubmit: browser.CSS("#btnLogin"),

	EligibilityMenu: browser.XPath(`//*[@id="441240"]/a`),
	OtherIDTab:      browser.XPath(`//*[@id="ulEligibilityTabs"]/div/label[3]`),
	IDValue:         browser.CSS("#txtIDTypeValue"),
	VisitType:       browser.XPath(`//*[@id="ctl00_ContentPlaceHolderBody_cmbType_chosen"]/a`),
	VisitTypeItem:   browser.XPath(`//*[@id="ctl00_ContentPlaceHolderBody_cmbType_chosen"]/div/ul/li[2]`),
	CheckButton:     browser.CSS("#btnCheckEligibilityorSearchbyPolicy"),

	ResultMessage: browser.XPath(`//*[@id="lblResultMessage1"]/b[1]`),
}
