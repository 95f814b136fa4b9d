package main

import (
	"context"
	"os"

	"github.com/robmorgan/cadence/cli"
	"github.com/robmorgan/cadence/logger"
)

func main() {
	os.Exit(Run(context.Background(), os.Args[1:]))
}

// Run executes the command line and returns the process exit code.
func Run(ctx context.Context, args []string) int {
	cmd := cli.NewRootCommand()
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		code := cli.GetExitCode(err)
		logger.GetProjectLogger().WithError(err).WithField("exitCode", code).Error("cadence failed")
		return code
	}
	return cli.ExitSuccess
}
