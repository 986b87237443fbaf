package browser

import (
	"time"

	"github.com/chromedp/chromedp"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type Options struct {
	// Windowed runs a visible browser. Off in deployments, handy
	// when a sequence needs watching.
	Windowed bool
	// bound for individual locator waits and navigations
	StepTimeout  time.Duration
	WindowWidth  int
	WindowHeight int
	UserAgent    string
}

func DefaultOptions() Options {
	return Options{
		StepTimeout:  time.Second * 20,
		WindowWidth:  1920,
		WindowHeight: 1080,
		UserAgent:    DefaultUserAgent,
	}
}

// WithDefaults fills zeroed fields from DefaultOptions. Session setup
// applies it; drivers that bypass Session use it directly.
func (o Options) WithDefaults() Options {
	def := DefaultOptions()
	if o.StepTimeout <= 0 {
		o.StepTimeout = def.StepTimeout
	}
	if o.WindowWidth <= 0 || o.WindowHeight <= 0 {
		o.WindowWidth = def.WindowWidth
		o.WindowHeight = def.WindowHeight
	}
	if o.UserAgent == "" {
		o.UserAgent = def.UserAgent
	}
	return o
}

func execAllocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	chromeOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !opts.Windowed),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
		// the portals serve a degraded page to obvious automation
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.UserAgent(opts.UserAgent),
	)
	return chromeOpts
}
