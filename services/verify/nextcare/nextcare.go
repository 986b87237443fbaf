// Package nextcare drives the Nextcare Pulse portal. Unlike JET, the
// site answers with a single bolded message instead of a field grid,
// so a run yields only a status string for the normalizer.
package nextcare

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/qasralsahl/Eligibility-App/lib/browser"
	"github.com/qasralsahl/Eligibility-App/services/verify"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/verify/nextcare")

const DefaultLoginURL = "https://pulse-uae.nextcarehealth.com/Login2.aspx?ReturnUrl=%2F"

// artifactPrefix keeps Nextcare evidence apart from JET evidence for
// the same member.
const artifactPrefix = "NextCare_"

const idleQuiet = time.Millisecond * 800

type Options struct {
	// LoginURL defaults to DefaultLoginURL.
	LoginURL string
	Browser  browser.Options
}

type Adapter struct {
	opts Options
}

func NewAdapter(opts Options) *Adapter {
	if opts.LoginURL == "" {
		opts.LoginURL = DefaultLoginURL
	}
	opts.Browser = opts.Browser.WithDefaults()
	return &Adapter{opts: opts}
}

func (a *Adapter) Name() string {
	return "nextcare"
}

func (a *Adapter) LoginURL() string {
	return a.opts.LoginURL
}

func (a *Adapter) Run(ctx context.Context, cred verify.Credential, query verify.Query, evidence verify.Evidence) (verify.RawExtraction, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	page, cleanup, err := a.open(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "browser launch failed")
		return verify.RawExtraction{}, fmt.Errorf("%w: %v", verify.SetupFailed, err)
	}
	state := browser.StateBrowserOpen
	success := false
	defer func() {
		cleanup()
		if success {
			advance(ctx, &state, browser.StateClosedSuccess)
		} else {
			advance(ctx, &state, browser.StateClosedFailure)
		}
	}()

	err = a.login(ctx, page, cred)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login failed")
		return verify.RawExtraction{}, err
	}
	advance(ctx, &state, browser.StateLoggedIn)

	err = a.fillForm(ctx, page, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "form fill failed")
		return verify.RawExtraction{}, err
	}
	advance(ctx, &state, browser.StateFormFilled)

	err = a.submit(ctx, page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submit failed")
		return verify.RawExtraction{}, err
	}
	advance(ctx, &state, browser.StateSubmitted)

	raw, err := a.readResult(ctx, page, &state, query, evidence)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "result read failed")
		return verify.RawExtraction{}, err
	}
	advance(ctx, &state, browser.StateArtifactsSaved)

	success = true
	return raw, nil
}

// advance mirrors the session state logging chromedp runs get, for a
// page rod is driving instead.
func advance(ctx context.Context, state *browser.RunState, next browser.RunState) {
	slog.DebugContext(ctx, "run state",
		"from", state.String(),
		"to", next.String(),
	)
	*state = next
}

func (a *Adapter) open(ctx context.Context) (*rod.Page, func(), error) {
	opts := a.opts.Browser

	l := launcher.New().
		Headless(!opts.Windowed).
		NoSandbox(true).
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("disable-blink-features", "AutomationControlled").
		Set("window-size", fmt.Sprintf("%d,%d", opts.WindowWidth, opts.WindowHeight)).
		Set("user-agent", opts.UserAgent)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	err = b.Connect()
	if err != nil {
		return nil, nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		b.Close()
		return nil, nil, fmt.Errorf("open page: %w", err)
	}

	cleanup := func() {
		err := b.Close()
		if err != nil {
			slog.WarnContext(ctx, "browser close failed", "err", err)
		}
	}
	return page, cleanup, nil
}

func (a *Adapter) login(ctx context.Context, page *rod.Page, cred verify.Credential) error {
	ctx, span := tracer.Start(ctx, "login")
	defer span.End()

	err := page.Timeout(a.opts.Browser.StepTimeout).Navigate(a.opts.LoginURL)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", a.opts.LoginURL, err)
	}
	err = a.input(page, loc.Username, cred.Username)
	if err != nil {
		return err
	}
	err = a.input(page, loc.Password, cred.Password)
	if err != nil {
		return err
	}

	wait := page.Timeout(time.Second*15).WaitRequestIdle(idleQuiet, nil, nil, nil)
	err = a.click(page, loc.LoginSubmit)
	if err != nil {
		return err
	}
	wait()

	info, err := page.Info()
	if err != nil {
		return fmt.Errorf("read location: %w", err)
	}
	if strings.Contains(strings.ToLower(info.URL), "login") {
		span.SetStatus(codes.Error, verify.BadCredentials.Error())
		return verify.BadCredentials
	}
	return nil
}

func (a *Adapter) fillForm(ctx context.Context, page *rod.Page, query verify.Query) error {
	ctx, span := tracer.Start(ctx, "fillForm")
	defer span.End()

	wait := page.Timeout(time.Second*15).WaitRequestIdle(idleQuiet, nil, nil, nil)
	err := a.click(page, loc.EligibilityMenu)
	if err != nil {
		return err
	}
	wait()

	err = a.click(page, loc.OtherIDTab)
	if err != nil {
		return err
	}
	err = a.input(page, loc.IDValue, query.EmiratesID)
	if err != nil {
		return err
	}

	// chosen-style dropdown, the second entry is Out Patient
	err = a.click(page, loc.VisitType)
	if err != nil {
		return err
	}
	return a.click(page, loc.VisitTypeItem)
}

func (a *Adapter) submit(ctx context.Context, page *rod.Page) error {
	ctx, span := tracer.Start(ctx, "submit")
	defer span.End()

	wait := page.Timeout(time.Second*20).WaitRequestIdle(idleQuiet, nil, nil, nil)
	err := a.click(page, loc.CheckButton)
	if err != nil {
		return err
	}
	wait()
	return nil
}

func (a *Adapter) readResult(ctx context.Context, page *rod.Page, state *browser.RunState, query verify.Query, evidence verify.Evidence) (verify.RawExtraction, error) {
	ctx, span := tracer.Start(ctx, "readResult")
	defer span.End()

	el, err := a.element(page, loc.ResultMessage)
	if err != nil {
		span.SetStatus(codes.Error, verify.WrongResultPage.Error())
		return verify.RawExtraction{}, fmt.Errorf("%w: %v", verify.WrongResultPage, err)
	}

	// evidence goes to disk before the message is read
	err = a.saveArtifacts(ctx, page, query.EmiratesID, evidence)
	if err != nil {
		return verify.RawExtraction{}, err
	}

	text, err := el.Text()
	if err != nil {
		return verify.RawExtraction{}, fmt.Errorf("read %s: %w", loc.ResultMessage, err)
	}
	advance(ctx, state, browser.StateResultExtracted)
	return verify.RawExtraction{StatusText: text}, nil
}

func (a *Adapter) saveArtifacts(ctx context.Context, page *rod.Page, eid string, evidence verify.Evidence) error {
	ctx, span := tracer.Start(ctx, "saveArtifacts")
	defer span.End()

	name := artifactPrefix + eid
	shot, err := page.Timeout(a.opts.Browser.StepTimeout).Screenshot(false, nil)
	if err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}
	err = evidence.SaveScreenshot(ctx, name, shot)
	if err != nil {
		return err
	}

	stream, err := page.Timeout(a.opts.Browser.StepTimeout).PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
	})
	if err != nil {
		return fmt.Errorf("print pdf: %w", err)
	}
	pdf, err := io.ReadAll(stream)
	if err != nil {
		return fmt.Errorf("read pdf stream: %w", err)
	}
	return evidence.SavePDF(ctx, name, pdf)
}

func (a *Adapter) element(page *rod.Page, l browser.Locator) (*rod.Element, error) {
	p := page.Timeout(a.opts.Browser.StepTimeout)
	var el *rod.Element
	var err error
	if l.Strategy == browser.ByXPath {
		el, err = p.ElementX(l.Query)
	} else {
		el, err = p.Element(l.Query)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", l, err)
	}
	return el, nil
}

func (a *Adapter) click(page *rod.Page, l browser.Locator) error {
	el, err := a.element(page, l)
	if err != nil {
		return err
	}
	err = el.Click(proto.InputMouseButtonLeft, 1)
	if err != nil {
		return fmt.Errorf("click %s: %w", l, err)
	}
	return nil
}

func (a *Adapter) input(page *rod.Page, l browser.Locator, value string) error {
	el, err := a.element(page, l)
	if err != nil {
		return err
	}
	err = el.Input(value)
	if err != nil {
		return fmt.Errorf("fill %s: %w", l, err)
	}
	return nil
}
