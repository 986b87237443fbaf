package notify

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/qasralsahl/Eligibility-App/lib/testutil"
	"github.com/qasralsahl/Eligibility-App/services/verify"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setup(t testing.TB) (Service, func()) {
	_, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name: "services/notify",
	})

	// suppress logging
	testcontainers.Logger = log.New(io.Discard, "", 0)

	smtp, err := testcontainers.GenericContainer(
		context.Background(),
		testcontainers.GenericContainerRequest{
			Started: true,
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "haravich/fake-smtp-server",
				ExposedPorts: []string{"1025:1025", "1080:1080"},
				WaitingFor:   wait.ForLog("smtp://0.0.0.0:1025"),
			},
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	service := NewService(Options{
		Smtp: SmtpConfig{
			Server:       "localhost",
			Port:         1025,
			EmailAddress: "alerts@clinic.example",
			Password:     "default",
		},
		Recipients: []string{"ops@clinic.example"},
	})

	return service, func() {
		cleanup()
		err := smtp.Terminate(context.Background())
		if err != nil {
			t.Fatal(err)
		}
	}
}

var globalClient = resty.New()

func TestVerificationFailed(t *testing.T) {
	service, cleanup := setup(t)
	defer cleanup()

	query := verify.Query{
		Insurer:      "NAS",
		EmiratesID:   "784198765432109",
		MobileNumber: "501234567",
	}
	err := service.send(context.Background(), query, verify.WrongResultPage)
	require.NoError(t, err)

	res, err := globalClient.R().
		Get("http://127.0.0.1:1080/messages/1.plain")
	require.NoError(t, err)
	require.Contains(t, res.String(), "784198765432109")
	require.Contains(t, res.String(), "submission did not reach the result page")
}

func TestNoRecipientsIsANoop(t *testing.T) {
	service := NewService(Options{})
	err := service.send(context.Background(), verify.Query{
		Insurer:    "NAS",
		EmiratesID: "784198765432109",
	}, verify.WrongResultPage)
	require.NoError(t, err)
}
