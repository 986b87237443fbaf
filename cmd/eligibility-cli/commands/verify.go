package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/qasralsahl/Eligibility-App/lib/browser"
	"github.com/qasralsahl/Eligibility-App/lib/sqliteutil"
	"github.com/qasralsahl/Eligibility-App/lib/util/serviceutil"
	"github.com/qasralsahl/Eligibility-App/services/notify"
	"github.com/qasralsahl/Eligibility-App/services/results"
	resultsdb "github.com/qasralsahl/Eligibility-App/services/results/db"
	"github.com/qasralsahl/Eligibility-App/services/vault"
	vaultdb "github.com/qasralsahl/Eligibility-App/services/vault/db"
	"github.com/qasralsahl/Eligibility-App/services/verify"
	"github.com/qasralsahl/Eligibility-App/services/verify/jet"
	"github.com/qasralsahl/Eligibility-App/services/verify/nextcare"

	"github.com/spf13/cobra"
)

var (
	verifyInsurer  *string
	verifyEid      *string
	verifyMobile   *string
	verifyClient   *string
	verifyUsername *string
	verifyPassword *string
	verifyTimeout  *time.Duration
	verifyNoProbe  *bool
)

func init() {
	verifyInsurer = verifyCmd.Flags().String("insurer", "", "Insurer network: NAS, Neuron or Nextcare.")
	verifyEid = verifyCmd.Flags().String("eid", "", "Emirates ID, 15 digits starting with 784.")
	verifyMobile = verifyCmd.Flags().String("mobile", "", "Beneficiary mobile number, 9 digits starting with 5.")
	verifyClient = verifyCmd.Flags().String("client", "default", "Client id whose stored credential to use.")
	verifyUsername = verifyCmd.Flags().String("username", "", "Portal username, overriding the vault.")
	verifyPassword = verifyCmd.Flags().String("password", "", "Portal password, overriding the vault.")
	verifyTimeout = verifyCmd.Flags().Duration("timeout", time.Minute*5, "End-to-end deadline for the run.")
	verifyNoProbe = verifyCmd.Flags().Bool("no-probe", false, "Skip the portal reachability check before launching the browser.")
	rootCmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify --insurer <NAS|Neuron|Nextcare> --eid <emirates id> --mobile <number>",
	Short: "Run one eligibility verification and store the outcome.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		query := verify.Query{
			Insurer:      *verifyInsurer,
			EmiratesID:   *verifyEid,
			MobileNumber: *verifyMobile,
		}
		err := query.Validate()
		if err != nil {
			serviceutil.Fatal("invalid query", err)
		}

		vaultConn, err := sqliteutil.OpenDB(vaultdb.Schema, resolvePath(cfg.VaultDb))
		if err != nil {
			serviceutil.Fatal("failed to open vault db", err)
		}
		defer vaultConn.Close()

		resultsConn, err := sqliteutil.OpenDB(resultsdb.Schema, resolvePath(cfg.ResultsDb))
		if err != nil {
			serviceutil.Fatal("failed to open results db", err)
		}
		defer resultsConn.Close()

		creds := vault.NewService(vaultConn)
		history := results.NewService(resultsConn)

		ctx, cancel := context.WithTimeout(cmd.Context(), *verifyTimeout)
		defer cancel()

		cred := verify.Credential{
			Username: *verifyUsername,
			Password: *verifyPassword,
		}
		if cred.Username == "" {
			stored, err := creds.Get(ctx, *verifyClient, query.Insurer)
			if err != nil {
				serviceutil.Fatal("failed to read credential from vault", err)
			}
			if stored == nil {
				serviceutil.Fatal(
					"no credential stored for this client and insurer",
					fmt.Errorf("store one with: eligibility-cli vault set %s %s <username> <password>", *verifyClient, query.Insurer),
				)
			}
			cred = *stored
		}

		verifier := buildVerifier(cfg, *verifyNoProbe)

		result, err := verifier.Verify(ctx, cred, query)
		var failure *verify.Failure
		if errors.As(err, &failure) {
			_, recErr := history.RecordFailure(ctx, *verifyClient, query, err)
			if recErr != nil {
				slog.WarnContext(ctx, "failed to record failed verification", "err", recErr)
			}
			serviceutil.Fatal("verification failed", err)
		}
		if err != nil {
			serviceutil.Fatal("verification could not run", err)
		}

		_, err = history.Save(ctx, *verifyClient, query, result)
		if err != nil {
			serviceutil.Fatal("failed to record result", err)
		}

		buff, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			serviceutil.Fatal("failed to render result", err)
		}
		fmt.Println(string(buff))
	},
}

func buildVerifier(cfg Config, noProbe bool) *verify.Verifier {
	store, err := verify.NewArtifactStore(resolvePath(cfg.ArtifactDir))
	if err != nil {
		serviceutil.Fatal("failed to prepare artifact directory", err)
	}

	opts := verify.Options{
		Retry:         verify.DefaultRetryPolicy(),
		MaxConcurrent: cfg.MaxConcurrent,
		Evidence:      store,
	}
	if cfg.Attempts > 0 {
		opts.Retry.Attempts = cfg.Attempts
	}
	if !noProbe {
		probe, err := verify.NewPortalProbe()
		if err != nil {
			serviceutil.Fatal("failed to build portal probe", err)
		}
		opts.Probe = probe
	}
	if len(cfg.NotifyRecipients) > 0 {
		opts.Failures = notify.NewService(notify.Options{
			Smtp:       cfg.Smtp,
			Recipients: cfg.NotifyRecipients,
		})
	}

	verifier := verify.NewVerifier(opts)

	browserOpts := browser.Options{Windowed: cfg.Windowed}
	jetAdapter := jet.NewAdapter(jet.Options{
		BaseURL: cfg.JetBaseUrl,
		Browser: browserOpts,
	})
	verifier.Register("NAS", jetAdapter)
	verifier.Register("Neuron", jetAdapter)
	verifier.Register("Nextcare", nextcare.NewAdapter(nextcare.Options{
		LoginURL: cfg.NextcareLoginUrl,
		Browser:  browserOpts,
	}))
	return verifier
}
