package commands

import (
	"context"
	"fmt"
	"os"

	devenv "github.com/qasralsahl/Eligibility-App/dev/env"
	"github.com/qasralsahl/Eligibility-App/lib/configutil"
	"github.com/qasralsahl/Eligibility-App/lib/util/serviceutil"
	"github.com/qasralsahl/Eligibility-App/services/notify"

	"github.com/spf13/cobra"
)

// Config is read from config.json5, with `.local.json5` overrides
// merged on top. Paths may use the "<dev_state>" prefix to live under
// the workspace's dev/.state directory.
type Config struct {
	// ArtifactDir receives result-page screenshots and PDFs.
	ArtifactDir string `json:"artifact_dir"`
	VaultDb     string `json:"vault_db"`
	ResultsDb   string `json:"results_db"`

	// Windowed shows the browser window instead of running headless.
	Windowed bool `json:"windowed"`
	// Attempts per query. Zero keeps the default of 2.
	Attempts      int `json:"attempts"`
	MaxConcurrent int `json:"max_concurrent"`

	// Portal endpoint overrides, mainly for staging mirrors.
	JetBaseUrl       string `json:"jet_base_url"`
	NextcareLoginUrl string `json:"nextcare_login_url"`

	Smtp notify.SmtpConfig `json:"smtp"`
	// NotifyRecipients get an email when a verification exhausts
	// its attempts. Empty disables failure mail.
	NotifyRecipients []string `json:"notify_recipients"`
}

var rootCmd = &cobra.Command{
	Use:   "eligibility-cli",
	Short: "eligibility-cli verifies insurance eligibility against the JET and Nextcare portals.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() Config {
	cfg, err := configutil.ReadRecursively[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.ArtifactDir == "" {
		cfg.ArtifactDir = "artifacts"
	}
	if cfg.VaultDb == "" {
		cfg.VaultDb = "vault.db"
	}
	if cfg.ResultsDb == "" {
		cfg.ResultsDb = "results.db"
	}
	return cfg
}

func resolvePath(path string) string {
	resolved, err := devenv.ResolvePath(path)
	if err != nil {
		serviceutil.Fatal("failed to resolve path", err)
	}
	return resolved
}
