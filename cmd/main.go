package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Goutham-Eda/Carlo/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, app.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "carlo: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Start(ctx)
	a.Log.Info("CARLO data layer ready",
		"driver", a.Cfg.Database.Driver,
		"audit_on_user_delete", a.Cfg.Policy.AuditOnUserDelete,
		"metrics_addr", a.Cfg.Metrics.Addr,
	)

	<-ctx.Done()
	a.Log.Info("Shutting down")
}
