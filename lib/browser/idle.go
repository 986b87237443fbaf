package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// WaitNetworkIdle blocks until no request has been in flight for quiet,
// or fails once max elapses. The portals finish login and result pages
// with a burst of XHRs, so this is the only reliable completion signal
// they offer.
func (s *Session) WaitNetworkIdle(ctx context.Context, quiet, max time.Duration) error {
	ctx, span := tracer.Start(ctx, "WaitNetworkIdle")
	defer span.End()

	runCtx, cancel := context.WithTimeout(s.ctx, max)
	defer cancel()

	err := chromedp.Run(runCtx, network.Enable())
	if err != nil {
		return fmt.Errorf("enable network events: %w", err)
	}

	var (
		mu       sync.Mutex
		inflight = map[network.RequestID]struct{}{}
		last     = time.Now()
	)
	chromedp.ListenTarget(runCtx, func(ev interface{}) {
		mu.Lock()
		defer mu.Unlock()
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			inflight[e.RequestID] = struct{}{}
			last = time.Now()
		case *network.EventLoadingFinished:
			delete(inflight, e.RequestID)
			last = time.Now()
		case *network.EventLoadingFailed:
			delete(inflight, e.RequestID)
			last = time.Now()
		}
	})

	ticker := time.NewTicker(time.Millisecond * 50)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			mu.Lock()
			quiesced := len(inflight) == 0 && time.Since(last) >= quiet
			mu.Unlock()
			if quiesced {
				return nil
			}
		case <-runCtx.Done():
			return fmt.Errorf("wait for network idle: %w", runCtx.Err())
		}
	}
}
