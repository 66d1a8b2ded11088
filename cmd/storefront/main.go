// @title        Storefront API
// @version      1.0
// @description  Art storefront: public gallery, customer accounts and admin back-office behind a session and role gate chain.
// @BasePath     /
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/atelier/storefront/docs"
	"github.com/atelier/storefront/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cli.Execute(ctx)
}
