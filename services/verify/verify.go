package verify

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/verify")

// FailureSink hears about queries that exhausted every attempt.
// Implementations must not block for long; the verifier calls them
// inline before returning the failure to the caller.
type FailureSink interface {
	VerificationFailed(ctx context.Context, query Query, err error)
}

// DefaultMaxConcurrent bounds simultaneous browser runs. Each run
// costs a headless Chrome process, so the ceiling is low.
const DefaultMaxConcurrent = 5

type Options struct {
	Retry RetryPolicy
	// MaxConcurrent caps browser runs in flight at once. Zero or
	// less falls back to DefaultMaxConcurrent.
	MaxConcurrent int
	// Evidence stores result-page artifacts. Nil drops them.
	Evidence Evidence
	// Probe, when set, checks portal reachability before any
	// browser is launched for a query.
	Probe *PortalProbe
	// Failures, when set, is told about exhausted queries.
	Failures FailureSink
}

// Verifier owns the adapter registry and runs queries through it with
// admission control and retries.
type Verifier struct {
	opts     Options
	evidence Evidence
	adapters map[string]Adapter
	slots    chan struct{}
}

func NewVerifier(opts Options) *Verifier {
	max := opts.MaxConcurrent
	if max <= 0 {
		max = DefaultMaxConcurrent
	}
	evidence := opts.Evidence
	if evidence == nil {
		evidence = nopEvidence{}
	}
	return &Verifier{
		opts:     opts,
		evidence: evidence,
		adapters: map[string]Adapter{},
		slots:    make(chan struct{}, max),
	}
}

// Register mounts an adapter under an insurer name, matched
// case-insensitively by Verify. Several names may share one adapter.
// Registration happens at wiring time, before Verify is in use.
func (v *Verifier) Register(insurer string, adapter Adapter) {
	v.adapters[strings.ToLower(insurer)] = adapter
}

func (v *Verifier) Supported() []string {
	names := make([]string, 0, len(v.adapters))
	for name := range v.adapters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Verify drives one eligibility query end to end and returns the
// normalized result. Unsupported insurers come back as a skipped
// result, not an error. When every attempt fails the returned error
// is a *Failure wrapping the last attempt's error.
func (v *Verifier) Verify(ctx context.Context, cred Credential, query Query) (*Result, error) {
	ctx, span := tracer.Start(ctx, "Verify")
	defer span.End()

	err := query.Validate()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query validation failed")
		return nil, err
	}

	adapter, ok := v.adapters[strings.ToLower(query.Insurer)]
	if !ok {
		slog.WarnContext(ctx, "no adapter for insurer, skipping", "insurer", query.Insurer)
		return SkippedResult(query), nil
	}

	runID, err := random.String(8)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("run_id", runID),
		attribute.String("insurer", query.Insurer),
		attribute.String("emirates_id", query.EmiratesID),
	)

	select {
	case v.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() {
		<-v.slots
	}()

	if v.opts.Probe != nil {
		err := v.opts.Probe.Check(ctx, adapter.LoginURL())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "portal unreachable")
			return nil, err
		}
	}

	policy := v.opts.Retry
	var lastErr error
	made := 0

	for attempt := 1; attempt <= policy.attempts(); attempt++ {
		if attempt > 1 {
			if policy.Backoff != nil {
				err := sleepContext(ctx, policy.Backoff(attempt))
				if err != nil {
					return nil, err
				}
			}
			if policy.Reset != nil {
				err := policy.Reset(ctx)
				if err != nil {
					slog.WarnContext(ctx, "retry reset hook failed", "err", err)
				}
			}
		}

		slog.InfoContext(
			ctx, "verification attempt",
			"run_id", runID,
			"insurer", query.Insurer,
			"emirates_id", query.EmiratesID,
			"attempt", attempt,
		)

		made = attempt
		result, err := v.attempt(ctx, adapter, cred, query)
		if err == nil {
			return result, nil
		}
		lastErr = err
		span.RecordError(err)
		slog.WarnContext(
			ctx, "verification attempt failed",
			"run_id", runID,
			"attempt", attempt,
			"err", err,
		)

		if errors.Is(err, SetupFailed) || errors.Is(err, BadCredentials) {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	failure := &Failure{Query: query, Attempts: made, Err: lastErr}
	span.SetStatus(codes.Error, "verification attempts exhausted")
	if v.opts.Failures != nil {
		v.opts.Failures.VerificationFailed(ctx, query, failure)
	}
	return nil, failure
}

func (v *Verifier) attempt(ctx context.Context, adapter Adapter, cred Credential, query Query) (*Result, error) {
	ctx, span := tracer.Start(ctx, "attempt")
	defer span.End()
	span.SetAttributes(attribute.String("adapter", adapter.Name()))

	raw, err := adapter.Run(ctx, cred, query, v.evidence)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "portal run failed")
		return nil, err
	}

	result, err := Normalize(query, raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "result normalization failed")
		return nil, err
	}

	slog.InfoContext(
		ctx, "verification complete",
		"insurer", query.Insurer,
		"emirates_id", query.EmiratesID,
		"is_eligible", result.IsEligible,
		"reference_no", result.ReferenceNo,
	)
	return result, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
