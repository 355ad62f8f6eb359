package main

import (
	"dealforge-backend/cmd/forge-cli/commands"
	"dealforge-backend/lib/serviceutil"
	"dealforge-backend/lib/telemetry"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "forge-cli")
	telemetry.InitSlog(true)
	telemetry.InstrumentPerfStats(ctx)
	commands.ExecuteContext(ctx)
}
