package commands

import (
	"github.com/qasralsahl/Eligibility-App/lib/sqliteutil"
	"github.com/qasralsahl/Eligibility-App/lib/util/serviceutil"
	"github.com/qasralsahl/Eligibility-App/services/results"
	resultsdb "github.com/qasralsahl/Eligibility-App/services/results/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	resultsEid   *string
	resultsLimit *int64
)

func init() {
	resultsEid = resultsListCmd.Flags().String("eid", "", "only show verifications for this Emirates ID")
	resultsLimit = resultsListCmd.Flags().Int64("limit", 20, "maximum number of rows to show")

	resultsCmd.AddCommand(resultsListCmd)
	rootCmd.AddCommand(resultsCmd)
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect the verification history.",
}

func openResults() (results.Service, func()) {
	cfg := loadConfig()
	conn, err := sqliteutil.OpenDB(resultsdb.Schema, resolvePath(cfg.ResultsDb))
	if err != nil {
		serviceutil.Fatal("failed to open results db", err)
	}
	return results.NewService(conn), func() { conn.Close() }
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded verifications, newest first.",
	Run: func(cmd *cobra.Command, args []string) {
		service, done := openResults()
		defer done()

		var records []results.Record
		var err error
		if *resultsEid != "" {
			records, err = service.ListByEmiratesID(cmd.Context(), *resultsEid)
		} else {
			records, err = service.List(cmd.Context(), *resultsLimit)
		}
		if err != nil {
			serviceutil.Fatal("failed to list verifications", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Created", "Client", "Insurer", "Emirates ID", "Status", "Eligible", "Reference"})
		for _, r := range records {
			t.AppendRow(table.Row{
				r.ID,
				renderTime(r.CreatedAt),
				r.ClientID,
				r.Insurer,
				r.EmiratesID,
				r.Status,
				r.IsEligible,
				r.ReferenceNo,
			})
		}
		t.Render()
	},
}
