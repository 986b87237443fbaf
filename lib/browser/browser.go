package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/browser")

// Strategy selects how a locator query is interpreted.
type Strategy int

const (
	ByCSS Strategy = iota
	ByXPath
)

// Locator identifies one element on a rendered page. Locator tables
// are the compatibility contract with the insurer sites: a redesign
// on their side means editing table entries, never control flow.
type Locator struct {
	Query    string
	Strategy Strategy
}

func CSS(query string) Locator {
	return Locator{Query: query, Strategy: ByCSS}
}

func XPath(query string) Locator {
	return Locator{Query: query, Strategy: ByXPath}
}

func (l Locator) opt() chromedp.QueryOption {
	if l.Strategy == ByXPath {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

func (l Locator) String() string {
	return l.Query
}

// Session owns one headless Chrome instance for one verification run.
// Close must run on every exit path; the run states in state.go name
// the exact window during which the browser is held.
type Session struct {
	opts          Options
	ctx           context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	state         RunState
}

// NewSession launches the browser. Launch failure means the run cannot
// proceed at all, callers treat it as fatal rather than retryable.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	ctx, span := tracer.Start(ctx, "NewSession")
	defer span.End()

	opts = opts.WithDefaults()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, execAllocatorOptions(opts)...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// run a no-op task so the process spawns here, not on the first
	// navigation of the sequence
	err := chromedp.Run(browserCtx)
	if err != nil {
		cancelBrowser()
		cancelAlloc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to launch browser")
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	s := &Session{
		opts:          opts,
		ctx:           browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		state:         StateBrowserOpen,
	}
	slog.DebugContext(ctx, "browser session open", "windowed", opts.Windowed)
	return s, nil
}

func (s *Session) State() RunState {
	return s.state
}

// Advance moves the run to the next lifecycle state. Transitions are
// logged so a stuck run can be located from logs alone.
func (s *Session) Advance(ctx context.Context, next RunState) {
	slog.DebugContext(ctx, "run state",
		"from", s.state.String(),
		"to", next.String(),
	)
	s.state = next
}

// Close releases the browser. Safe to call more than once; only the
// first call releases and records the terminal state.
func (s *Session) Close(ctx context.Context, success bool) {
	if s.state.Terminal() {
		return
	}
	s.cancelBrowser()
	s.cancelAlloc()
	if success {
		s.state = StateClosedSuccess
	} else {
		s.state = StateClosedFailure
	}
	slog.DebugContext(ctx, "browser session closed", "state", s.state.String())
}

// stepCtx bounds one locator wait or navigation. Chromedp resolves its
// target through the session context, so derived deadlines compose
// with the run deadline the caller set on NewSession.
func (s *Session) stepCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(s.ctx, s.opts.StepTimeout)
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := s.stepCtx()
	defer cancel()
	err := chromedp.Run(runCtx, chromedp.Navigate(url))
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (s *Session) WaitVisible(ctx context.Context, l Locator) error {
	runCtx, cancel := s.stepCtx()
	defer cancel()
	err := chromedp.Run(runCtx, chromedp.WaitVisible(l.Query, l.opt()))
	if err != nil {
		return fmt.Errorf("wait for %s: %w", l, err)
	}
	return nil
}

func (s *Session) Click(ctx context.Context, l Locator) error {
	runCtx, cancel := s.stepCtx()
	defer cancel()
	err := chromedp.Run(runCtx, chromedp.Click(l.Query, l.opt()))
	if err != nil {
		return fmt.Errorf("click %s: %w", l, err)
	}
	return nil
}

// TryClick clicks an element that may legitimately not exist, waiting
// at most wait for it. Reports whether the click happened. Meant for
// optional UI like announcement modals.
func (s *Session) TryClick(ctx context.Context, l Locator, wait time.Duration) bool {
	runCtx, cancel := context.WithTimeout(s.ctx, wait)
	defer cancel()
	err := chromedp.Run(runCtx, chromedp.Click(l.Query, l.opt()))
	if err != nil {
		slog.DebugContext(ctx, "optional element not clicked", "locator", l.String(), "err", err)
		return false
	}
	return true
}

func (s *Session) SetValue(ctx context.Context, l Locator, value string) error {
	runCtx, cancel := s.stepCtx()
	defer cancel()
	err := chromedp.Run(runCtx, chromedp.SetValue(l.Query, value, l.opt()))
	if err != nil {
		return fmt.Errorf("set value on %s: %w", l, err)
	}
	return nil
}

func (s *Session) Text(ctx context.Context, l Locator) (string, error) {
	runCtx, cancel := s.stepCtx()
	defer cancel()
	var out string
	err := chromedp.Run(runCtx, chromedp.Text(l.Query, &out, l.opt()))
	if err != nil {
		return "", fmt.Errorf("read text of %s: %w", l, err)
	}
	return out, nil
}

func (s *Session) OuterHTML(ctx context.Context, l Locator) (string, error) {
	runCtx, cancel := s.stepCtx()
	defer cancel()
	var out string
	err := chromedp.Run(runCtx, chromedp.OuterHTML(l.Query, &out, l.opt()))
	if err != nil {
		return "", fmt.Errorf("read html of %s: %w", l, err)
	}
	return out, nil
}

// Eval evaluates a page-script expression. out follows the chromedp
// unmarshaling rules; pass nil to discard the value.
func (s *Session) Eval(ctx context.Context, expr string, out any) error {
	runCtx, cancel := s.stepCtx()
	defer cancel()
	err := chromedp.Run(runCtx, chromedp.Evaluate(expr, out))
	if err != nil {
		return fmt.Errorf("evaluate %q: %w", expr, err)
	}
	return nil
}

func (s *Session) Location(ctx context.Context) (string, error) {
	runCtx, cancel := s.stepCtx()
	defer cancel()
	var url string
	err := chromedp.Run(runCtx, chromedp.Location(&url))
	if err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return url, nil
}

// Settle waits out known UI jank (widget open animations). Kept short
// and used only where no completion signal exists.
func (s *Session) Settle(ctx context.Context, d time.Duration) error {
	runCtx, cancel := s.stepCtx()
	defer cancel()
	return chromedp.Run(runCtx, chromedp.Sleep(d))
}

func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Screenshot")
	defer span.End()

	runCtx, cancel := s.stepCtx()
	defer cancel()
	var buf []byte
	err := chromedp.Run(runCtx, chromedp.CaptureScreenshot(&buf))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to capture screenshot")
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return buf, nil
}

func (s *Session) PDF(ctx context.Context) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "PDF")
	defer span.End()

	runCtx, cancel := s.stepCtx()
	defer cancel()
	var buf []byte
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, _, err = page.PrintToPDF().
			WithPrintBackground(true).
			Do(ctx)
		return err
	}))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to print pdf")
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	return buf, nil
}
