package commands

import (
	"github.com/qasralsahl/Eligibility-App/lib/sqliteutil"
	"github.com/qasralsahl/Eligibility-App/lib/util/serviceutil"
	"github.com/qasralsahl/Eligibility-App/services/vault"
	vaultdb "github.com/qasralsahl/Eligibility-App/services/vault/db"
	"github.com/qasralsahl/Eligibility-App/services/verify"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	vaultCmd.AddCommand(vaultSetCmd)
	vaultCmd.AddCommand(vaultListCmd)
	vaultCmd.AddCommand(vaultDelCmd)
	rootCmd.AddCommand(vaultCmd)
}

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage stored portal credentials.",
}

func openVault() (vault.Service, func()) {
	cfg := loadConfig()
	conn, err := sqliteutil.OpenDB(vaultdb.Schema, resolvePath(cfg.VaultDb))
	if err != nil {
		serviceutil.Fatal("failed to open vault db", err)
	}
	return vault.NewService(conn), func() { conn.Close() }
}

var vaultSetCmd = &cobra.Command{
	Use:   "set <client> <insurer> <username> <password>",
	Short: "Store or replace the portal credential for a client and insurer.",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		service, done := openVault()
		defer done()

		err := service.Set(cmd.Context(), args[0], args[1], verify.Credential{
			Username: args[2],
			Password: args[3],
		})
		if err != nil {
			serviceutil.Fatal("failed to store credential", err)
		}
	},
}

var vaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored credentials. Passwords are never printed.",
	Run: func(cmd *cobra.Command, args []string) {
		service, done := openVault()
		defer done()

		entries, err := service.List(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list credentials", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Client", "Insurer", "Username", "Updated"})
		for _, e := range entries {
			t.AppendRow(table.Row{e.ClientID, e.Insurer, e.Username, renderTime(e.UpdatedAt)})
		}
		t.Render()
	},
}

var vaultDelCmd = &cobra.Command{
	Use:   "del <client> <insurer>",
	Short: "Delete the stored credential for a client and insurer.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		service, done := openVault()
		defer done()

		err := service.Delete(cmd.Context(), args[0], args[1])
		if err != nil {
			serviceutil.Fatal("failed to delete credential", err)
		}
	},
}
