package main

import (
	"github.com/qasralsahl/Eligibility-App/cmd/eligibility-cli/commands"
	"github.com/qasralsahl/Eligibility-App/lib/telemetry"
	"github.com/qasralsahl/Eligibility-App/lib/util/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "eligibility-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(ctx)
}
