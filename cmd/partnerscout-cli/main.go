package main

import (
	"partnerscout-backend/cmd/partnerscout-cli/commands"
	"partnerscout-backend/lib/telemetry"
	"partnerscout-backend/lib/util/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "partnerscout-cli")
	telemetry.InitSlog(false)
	commands.ExecuteContext(ctx)
}
