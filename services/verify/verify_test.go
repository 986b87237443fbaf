package verify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/qasralsahl/Eligibility-App/lib/telemetry"
	"github.com/stretchr/testify/require"
)

var testQuery = Query{
	Insurer:      "NAS",
	EmiratesID:   "784198765432109",
	MobileNumber: "501234567",
}

var testRaw = RawExtraction{
	StatusText:  "Eligible",
	ReferenceNo: "Reference No: 12345",
}

// stubAdapter scripts one error per attempt, then succeeds once the
// script runs out. It counts simulated browser opens and releases so
// tests can hold the one-release-per-attempt guarantee against it.
type stubAdapter struct {
	mu       sync.Mutex
	script   []error
	runs     int
	opens    int
	releases int
	lastEv   Evidence
	blockFor time.Duration
	inflight atomic.Int32
	peak     atomic.Int32
}

func (a *stubAdapter) Name() string     { return "stub" }
func (a *stubAdapter) LoginURL() string { return "https://stub.example.com/login" }

func (a *stubAdapter) Run(ctx context.Context, cred Credential, query Query, ev Evidence) (RawExtraction, error) {
	current := a.inflight.Add(1)
	defer a.inflight.Add(-1)
	for {
		peak := a.peak.Load()
		if current <= peak || a.peak.CompareAndSwap(peak, current) {
			break
		}
	}
	if a.blockFor > 0 {
		time.Sleep(a.blockFor)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastEv = ev
	a.runs++
	a.opens++
	defer func() {
		a.releases++
	}()
	if len(a.script) > 0 {
		err := a.script[0]
		a.script = a.script[1:]
		if err != nil {
			return RawExtraction{}, err
		}
	}
	return testRaw, nil
}

type recordingSink struct {
	mu       sync.Mutex
	failures []error
}

func (s *recordingSink) VerificationFailed(ctx context.Context, query Query, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, err)
}

func TestVerifyRetriesTransientError(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/verify")
	defer cleanup()

	adapter := &stubAdapter{script: []error{WrongResultPage}}
	v := NewVerifier(Options{Retry: DefaultRetryPolicy()})
	v.Register("NAS", adapter)

	result, err := v.Verify(context.Background(), Credential{}, testQuery)
	require.NoError(t, err)
	require.Equal(t, 2, adapter.runs)
	require.Equal(t, Eligible, result.IsEligible)
	require.Equal(t, "12345", result.ReferenceNo)
}

func TestVerifyExhaustsAttempts(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/verify")
	defer cleanup()

	sink := &recordingSink{}
	adapter := &stubAdapter{script: []error{CaptchaUnavailable, WrongResultPage}}
	v := NewVerifier(Options{Retry: DefaultRetryPolicy(), Failures: sink})
	v.Register("NAS", adapter)

	_, err := v.Verify(context.Background(), Credential{}, testQuery)
	require.Error(t, err)
	require.Equal(t, 2, adapter.runs)

	var failure *Failure
	require.True(t, errors.As(err, &failure))
	require.Equal(t, 2, failure.Attempts)
	require.Equal(t, testQuery, failure.Query)
	// the last attempt's error is the one that survives
	require.True(t, errors.Is(err, WrongResultPage))

	require.Len(t, sink.failures, 1)
	require.True(t, errors.Is(sink.failures[0], WrongResultPage))
}

func TestVerifyReleasesResourcePerAttempt(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/verify")
	defer cleanup()

	adapter := &stubAdapter{script: []error{WrongResultPage}}
	v := NewVerifier(Options{Retry: DefaultRetryPolicy()})
	v.Register("NAS", adapter)

	_, err := v.Verify(context.Background(), Credential{}, testQuery)
	require.NoError(t, err)
	require.Equal(t, 2, adapter.opens)
	require.Equal(t, 2, adapter.releases)
}

func TestVerifyReleasesResourceOnExtractionError(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/verify")
	defer cleanup()

	extractionErr := fmt.Errorf("read text of #result: node not found")
	adapter := &stubAdapter{script: []error{extractionErr}}
	v := NewVerifier(Options{Retry: RetryPolicy{Attempts: 1}})
	v.Register("NAS", adapter)

	_, err := v.Verify(context.Background(), Credential{}, testQuery)
	require.Error(t, err)
	require.True(t, errors.Is(err, extractionErr))
	require.Equal(t, 1, adapter.opens)
	require.Equal(t, 1, adapter.releases)
}

func TestVerifyDoesNotRetrySetupFailure(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/verify")
	defer cleanup()

	launchErr := fmt.Errorf("%w: chrome would not start", SetupFailed)
	adapter := &stubAdapter{script: []error{launchErr, nil}}
	v := NewVerifier(Options{Retry: RetryPolicy{Attempts: 3}})
	v.Register("NAS", adapter)

	_, err := v.Verify(context.Background(), Credential{}, testQuery)
	require.Error(t, err)
	require.Equal(t, 1, adapter.runs)
	require.True(t, errors.Is(err, SetupFailed))
}

func TestVerifyDoesNotRetryBadCredentials(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/verify")
	defer cleanup()

	adapter := &stubAdapter{script: []error{BadCredentials, nil}}
	v := NewVerifier(Options{Retry: DefaultRetryPolicy()})
	v.Register("NAS", adapter)

	_, err := v.Verify(context.Background(), Credential{}, testQuery)
	require.Error(t, err)
	require.Equal(t, 1, adapter.runs)
	require.True(t, errors.Is(err, BadCredentials))
}

func TestVerifyRejectsInvalidQuery(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/verify")
	defer cleanup()

	adapter := &stubAdapter{}
	v := NewVerifier(Options{})
	v.Register("NAS", adapter)

	_, err := v.Verify(context.Background(), Credential{}, Query{
		Insurer:      "NAS",
		EmiratesID:   "not-an-id",
		MobileNumber: "501234567",
	})
	require.True(t, errors.Is(err, InvalidQuery))
	// validation failures never reach the portal
	require.Equal(t, 0, adapter.runs)
}

func TestVerifySkipsUnknownInsurer(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/verify")
	defer cleanup()

	adapter := &stubAdapter{}
	v := NewVerifier(Options{})
	v.Register("NAS", adapter)

	query := testQuery
	query.Insurer = "Daman"
	result, err := v.Verify(context.Background(), Credential{}, query)
	require.NoError(t, err)
	require.Equal(t, StatusSkipped, result.Status)
	require.Equal(t, 0, adapter.runs)
}

func TestVerifyCaseInsensitiveInsurer(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/verify")
	defer cleanup()

	adapter := &stubAdapter{}
	v := NewVerifier(Options{})
	v.Register("NAS", adapter)
	v.Register("Neuron", adapter)

	require.Equal(t, []string{"nas", "neuron"}, v.Supported())

	query := testQuery
	query.Insurer = "nas"
	result, err := v.Verify(context.Background(), Credential{}, query)
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, result.Status)
}

func TestVerifyPassesEvidenceSink(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/verify")
	defer cleanup()

	adapter := &stubAdapter{}
	v := NewVerifier(Options{})
	v.Register("NAS", adapter)

	_, err := v.Verify(context.Background(), Credential{}, testQuery)
	require.NoError(t, err)
	// adapters never see a nil sink, even with artifacts disabled
	require.NotNil(t, adapter.lastEv)
}

func TestVerifyBoundsConcurrency(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/verify")
	defer cleanup()

	adapter := &stubAdapter{blockFor: time.Millisecond * 50}
	v := NewVerifier(Options{MaxConcurrent: 2})
	v.Register("NAS", adapter)

	errs := make(chan error, 6)
	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := v.Verify(context.Background(), Credential{}, testQuery)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, 6, adapter.runs)
	require.LessOrEqual(t, adapter.peak.Load(), int32(2))
}

func TestVerifyRunsResetBetweenAttempts(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/verify")
	defer cleanup()

	resets := 0
	adapter := &stubAdapter{script: []error{WrongResultPage}}
	v := NewVerifier(Options{
		Retry: RetryPolicy{
			Attempts: 2,
			Reset: func(ctx context.Context) error {
				resets++
				return nil
			},
		},
	})
	v.Register("NAS", adapter)

	_, err := v.Verify(context.Background(), Credential{}, testQuery)
	require.NoError(t, err)
	require.Equal(t, 1, resets)
}

func TestVerifyHonorsContextCancellation(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/verify")
	defer cleanup()

	adapter := &stubAdapter{script: []error{WrongResultPage, WrongResultPage}}
	v := NewVerifier(Options{
		Retry: RetryPolicy{
			Attempts: 3,
			Backoff: func(attempt int) time.Duration {
				return time.Hour
			},
		},
	})
	v.Register("NAS", adapter)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := v.Verify(ctx, Credential{}, testQuery)
		done <- err
	}()

	time.Sleep(time.Millisecond * 20)
	cancel()

	select {
	case err := <-done:
		require.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second * 5):
		t.Fatal("verify did not return after cancellation")
	}
}
