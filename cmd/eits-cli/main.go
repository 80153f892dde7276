package main

import (
	"eitsapi/cmd/eits-cli/commands"
	"eitsapi/internal/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext()
	defer cancel()
	commands.ExecuteContext(ctx)
}
