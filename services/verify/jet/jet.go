// Package jet drives the JET portal (jet.nnhs.ae), which fronts the
// NAS and Neuron provider networks. One Run is one full verification:
// login, eligibility form, captcha, submit, evidence, scrape.
package jet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/qasralsahl/Eligibility-App/lib/browser"
	"github.com/qasralsahl/Eligibility-App/lib/textutil"
	"github.com/qasralsahl/Eligibility-App/services/verify"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/verify/jet")

const DefaultBaseURL = "https://jet.nnhs.ae/JET"

type Options struct {
	// BaseURL is the portal root, no trailing slash. Defaults to
	// DefaultBaseURL.
	BaseURL string
	Browser browser.Options
}

type Adapter struct {
	opts Options
}

func NewAdapter(opts Options) *Adapter {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	return &Adapter{opts: opts}
}

func (a *Adapter) Name() string {
	return "jet"
}

func (a *Adapter) LoginURL() string {
	return a.opts.BaseURL
}

func (a *Adapter) landingURL() string {
	return a.opts.BaseURL + "/Landing.aspx"
}

func (a *Adapter) Run(ctx context.Context, cred verify.Credential, query verify.Query, evidence verify.Evidence) (verify.RawExtraction, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	radio, ok := loc.NetworkRadios[strings.ToLower(query.Insurer)]
	if !ok {
		return verify.RawExtraction{}, fmt.Errorf(
			"%w: jet has no network radio for insurer %q",
			verify.SetupFailed, query.Insurer,
		)
	}

	session, err := browser.NewSession(ctx, a.opts.Browser)
	if err != nil {
		span.SetStatus(codes.Error, "browser launch failed")
		return verify.RawExtraction{}, fmt.Errorf("%w: %v", verify.SetupFailed, err)
	}
	success := false
	defer func() {
		session.Close(ctx, success)
	}()

	err = a.login(ctx, session, cred)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login failed")
		return verify.RawExtraction{}, err
	}
	session.Advance(ctx, browser.StateLoggedIn)

	err = a.fillForm(ctx, session, radio, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "form fill failed")
		return verify.RawExtraction{}, err
	}
	session.Advance(ctx, browser.StateFormFilled)

	err = session.Click(ctx, loc.Submit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submit failed")
		return verify.RawExtraction{}, err
	}
	session.Advance(ctx, browser.StateSubmitted)

	raw, err := a.readResult(ctx, session, query, evidence)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "result read failed")
		return verify.RawExtraction{}, err
	}
	session.Advance(ctx, browser.StateArtifactsSaved)

	// puts the account back on its landing page, where the portal
	// expects the next session to start
	err = session.Navigate(ctx, a.landingURL())
	if err != nil {
		slog.DebugContext(ctx, "landing page redirect failed", "err", err)
	}

	success = true
	return raw, nil
}

func (a *Adapter) login(ctx context.Context, s *browser.Session, cred verify.Credential) error {
	ctx, span := tracer.Start(ctx, "login")
	defer span.End()

	err := s.Navigate(ctx, a.opts.BaseURL)
	if err != nil {
		return err
	}
	err = s.WaitVisible(ctx, loc.Username)
	if err != nil {
		return err
	}
	err = s.SetValue(ctx, loc.Username, cred.Username)
	if err != nil {
		return err
	}
	err = s.SetValue(ctx, loc.Password, cred.Password)
	if err != nil {
		return err
	}
	err = s.Click(ctx, loc.LoginSubmit)
	if err != nil {
		return err
	}

	err = s.WaitNetworkIdle(ctx, time.Millisecond*500, time.Second*15)
	if err != nil {
		// some tenants keep a polling request open after login;
		// the url check below is the real gate
		slog.WarnContext(ctx, "network never settled after login", "err", err)
	}

	url, err := s.Location(ctx)
	if err != nil {
		return err
	}
	if strings.Contains(strings.ToLower(url), "login") {
		span.SetStatus(codes.Error, verify.BadCredentials.Error())
		return verify.BadCredentials
	}
	return nil
}

func (a *Adapter) fillForm(ctx context.Context, s *browser.Session, radio browser.Locator, query verify.Query) error {
	ctx, span := tracer.Start(ctx, "fillForm")
	defer span.End()

	a.dismissAnnouncement(ctx, s)

	err := s.WaitVisible(ctx, loc.NetworkPanel)
	if err != nil {
		return err
	}
	err = s.Click(ctx, radio)
	if err != nil {
		return err
	}
	err = s.Click(ctx, loc.NationalIDRadio)
	if err != nil {
		return err
	}
	err = s.WaitVisible(ctx, loc.EmiratesID)
	if err != nil {
		return err
	}
	err = s.SetValue(ctx, loc.EmiratesID, query.EmiratesID)
	if err != nil {
		return err
	}

	// chosen-style dropdown: open it, then pick the third entry
	err = s.Click(ctx, loc.TreatmentBasis)
	if err != nil {
		return err
	}
	err = s.Settle(ctx, time.Millisecond*500)
	if err != nil {
		return err
	}
	err = s.Click(ctx, loc.TreatmentBasisItem)
	if err != nil {
		return err
	}

	err = s.SetValue(ctx, loc.Mobile, query.MobileNumber)
	if err != nil {
		return err
	}

	captcha, err := a.readCaptcha(ctx, s)
	if err != nil {
		return err
	}
	return s.SetValue(ctx, loc.Captcha, captcha)
}

// dismissAnnouncement closes the announcement modal some accounts get
// after login. When the modal was there, the portal drops back to its
// menu and the eligibility entry must be followed; without a modal
// the account lands in the eligibility view directly.
func (a *Adapter) dismissAnnouncement(ctx context.Context, s *browser.Session) {
	ctx, span := tracer.Start(ctx, "dismissAnnouncement")
	defer span.End()

	if !s.TryClick(ctx, loc.AnnouncementClose, time.Second*3) {
		return
	}
	slog.DebugContext(ctx, "closed announcement modal")
	err := s.Click(ctx, loc.EligibilitySection)
	if err != nil {
		slog.WarnContext(ctx, "eligibility menu entry not clickable", "err", err)
	}
}

func (a *Adapter) readCaptcha(ctx context.Context, s *browser.Session) (string, error) {
	ctx, span := tracer.Start(ctx, "readCaptcha")
	defer span.End()

	var code string
	err := s.Eval(ctx, captchaExpr, &code)
	if err != nil {
		span.SetStatus(codes.Error, verify.CaptchaUnavailable.Error())
		return "", fmt.Errorf("%w: %v", verify.CaptchaUnavailable, err)
	}
	if code == "" || code == "undefined" {
		span.SetStatus(codes.Error, verify.CaptchaUnavailable.Error())
		return "", verify.CaptchaUnavailable
	}
	return code, nil
}

func (a *Adapter) readResult(ctx context.Context, s *browser.Session, query verify.Query, evidence verify.Evidence) (verify.RawExtraction, error) {
	ctx, span := tracer.Start(ctx, "readResult")
	defer span.End()

	err := s.WaitVisible(ctx, loc.ResultStatus)
	if err != nil {
		return verify.RawExtraction{}, fmt.Errorf("%w: %v", verify.WrongResultPage, err)
	}
	url, err := s.Location(ctx)
	if err != nil {
		return verify.RawExtraction{}, err
	}
	if !strings.Contains(url, "EligibilityDetails") {
		span.SetStatus(codes.Error, verify.WrongResultPage.Error())
		return verify.RawExtraction{}, fmt.Errorf("%w: landed on %s", verify.WrongResultPage, url)
	}

	// evidence goes to disk before any scraping, so a broken
	// extraction still leaves proof of what the portal answered
	err = a.saveArtifacts(ctx, s, query.EmiratesID, evidence)
	if err != nil {
		return verify.RawExtraction{}, err
	}

	html, err := s.OuterHTML(ctx, loc.Page)
	if err != nil {
		return verify.RawExtraction{}, err
	}
	raw, err := parseResultPage(html)
	if err != nil {
		return verify.RawExtraction{}, err
	}

	if textutil.CleanSpace(raw.StatusText) == verify.Eligible {
		raw.MemberPolicyText = a.readMemberPolicy(ctx, s)
	}

	s.Advance(ctx, browser.StateResultExtracted)
	return raw, nil
}

func (a *Adapter) saveArtifacts(ctx context.Context, s *browser.Session, eid string, evidence verify.Evidence) error {
	ctx, span := tracer.Start(ctx, "saveArtifacts")
	defer span.End()

	shot, err := s.Screenshot(ctx)
	if err != nil {
		return err
	}
	err = evidence.SaveScreenshot(ctx, eid, shot)
	if err != nil {
		return err
	}
	pdf, err := s.PDF(ctx)
	if err != nil {
		return err
	}
	return evidence.SavePDF(ctx, eid, pdf)
}

// readMemberPolicy opens the info popup that only renders for
// eligible members and returns its text block. The popup is optional
// content; any failure here downgrades to an empty block rather than
// failing the run.
func (a *Adapter) readMemberPolicy(ctx context.Context, s *browser.Session) string {
	ctx, span := tracer.Start(ctx, "readMemberPolicy")
	defer span.End()

	err := s.Eval(ctx, memberDetailsExpr, nil)
	if err != nil {
		slog.WarnContext(ctx, "member details button not clickable", "err", err)
		return ""
	}
	err = s.WaitVisible(ctx, loc.MemberDetails)
	if err != nil {
		slog.WarnContext(ctx, "member details popup never appeared", "err", err)
		return ""
	}
	// the popup body streams in over an update panel
	err = s.Settle(ctx, time.Second)
	if err != nil {
		return ""
	}
	html, err := s.OuterHTML(ctx, loc.MemberDetails)
	if err != nil {
		slog.WarnContext(ctx, "member details popup not readable", "err", err)
		return ""
	}
	return memberPolicyText(html)
}
