package main

import (
	"tpsearch/cmd/tp-cli/commands"
	"tpsearch/lib/osutil"
)

func main() {
	ctx, cancel := osutil.SignalContext()
	defer cancel()
	commands.ExecuteContext(ctx)
}
