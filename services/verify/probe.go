package verify

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"time"

	"github.com/qasralsahl/Eligibility-App/lib/browser"
	"github.com/qasralsahl/Eligibility-App/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// PortalProbe answers whether a portal is reachable at all, with a
// plain http request instead of a browser. The verifier runs it
// before launching anything so a dead portal costs milliseconds, not
// a browser lifecycle per attempt.
type PortalProbe struct {
	http *resty.Client
}

func NewPortalProbe() (*PortalProbe, error) {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", browser.DefaultUserAgent)
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "services/verify/probe")

	return &PortalProbe{http: client}, nil
}

func (p *PortalProbe) Check(ctx context.Context, url string) error {
	res, err := p.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", SetupFailed, url, err)
	}
	if res.StatusCode() >= 500 {
		return fmt.Errorf("%w: %s answered %d", SetupFailed, url, res.StatusCode())
	}
	return nil
}
