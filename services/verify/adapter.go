package verify

import "context"

// Evidence receives the result-page artifacts an adapter captures.
// Artifacts are written before extraction so that proof of the
// portal's answer exists even when scraping then falls over.
type Evidence interface {
	SaveScreenshot(ctx context.Context, name string, data []byte) error
	SavePDF(ctx context.Context, name string, data []byte) error
}

type nopEvidence struct{}

func (nopEvidence) SaveScreenshot(ctx context.Context, name string, data []byte) error {
	return nil
}

func (nopEvidence) SavePDF(ctx context.Context, name string, data []byte) error {
	return nil
}

// Adapter drives one insurer portal end to end: open a browser, log
// in, fill and submit the form, capture evidence, scrape the result.
// Each Run owns a fresh browser session and must close it before
// returning. Adapters return what the page said, verbatim, and leave
// normalization to the verifier.
type Adapter interface {
	// Name is the adapter's label in logs and traces.
	Name() string
	// LoginURL is where the portal's session starts, probed for
	// reachability before a browser is launched.
	LoginURL() string
	Run(ctx context.Context, cred Credential, query Query, evidence Evidence) (RawExtraction, error)
}
