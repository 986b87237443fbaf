package verify

import "fmt"

// SetupFailed marks failures that happen before the portal was ever
// reached, like a browser that would not launch or a probe that got
// no response. Retrying these burns attempts for nothing, so the
// verifier surfaces them immediately.
var SetupFailed = fmt.Errorf("verification setup failed")

// BadCredentials means the portal rejected the login. The stored
// credential is wrong, not the network, so this is not retried.
var BadCredentials = fmt.Errorf("portal rejected the credentials")

// CaptchaUnavailable means the page never exposed the captcha answer
// it normally renders into a script variable. Usually a slow or
// partial page load, worth another attempt.
var CaptchaUnavailable = fmt.Errorf("captcha code not present on page")

// WrongResultPage means submission landed somewhere other than the
// result page, which the portals do on transient server errors.
var WrongResultPage = fmt.Errorf("submission did not reach the result page")

// MissingResult means the result page rendered but the fields a
// verification answer needs were all absent.
var MissingResult = fmt.Errorf("result page missing required fields")

// Failure is returned once every attempt for a query has been
// exhausted. It wraps the error from the last attempt.
type Failure struct {
	Query    Query
	Attempts int
	Err      error
}

func (f *Failure) Error() string {
	return fmt.Sprintf(
		"verification failed for %s on %s after %d attempt(s): %v",
		f.Query.EmiratesID, f.Query.Insurer, f.Attempts, f.Err,
	)
}

func (f *Failure) Unwrap() error {
	return f.Err
}
