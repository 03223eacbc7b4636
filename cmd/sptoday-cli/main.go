package main

import (
	"context"

	"sptoday-backend/cmd/sptoday-cli/commands"
	"sptoday-backend/lib/telemetry"
)

func main() {
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
