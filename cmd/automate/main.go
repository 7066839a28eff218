package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CesiumGS/cesium-native/internal/cli"
	"github.com/CesiumGS/cesium-native/pkg/conan"
	"github.com/CesiumGS/cesium-native/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	c := cli.New(os.Stdout, os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SetArgs(cli.NormalizeArgs(args))

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *conan.ExitError
	switch {
	case stderrors.As(err, &exitErr):
		c.Logger.Error("tool failed", "cmd", exitErr.Error())
		if exitErr.Code > 0 {
			return exitErr.Code
		}
		return 1
	case stderrors.Is(err, context.Canceled):
		return 130 // Standard shell convention for SIGINT
	}
	fmt.Fprintln(os.Stderr, errors.UserMessage(err))
	return 1
}
