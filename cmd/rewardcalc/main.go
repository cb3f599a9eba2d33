// Package main — офлайн-калькулятор наград (rewardcalc).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"serotonyl.ru/reach-rewards-bot/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		stop()
		os.Exit(1)
	}
}
