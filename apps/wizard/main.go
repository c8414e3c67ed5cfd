package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/trezcool/masomo-setup/core"
	logsvc "github.com/trezcool/masomo-setup/services/logger"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stderr, "WIZARD : ", log.LstdFlags), conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp(conf, logger, os.Stdin, os.Stdout)
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, a.out.Red("Error: "+err.Error()))
		stop()
		os.Exit(1)
	}
}
