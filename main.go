package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"fjacquet/ledger-audit/cmd/audit"
	"fjacquet/ledger-audit/cmd/mail"
	"fjacquet/ledger-audit/cmd/policy"
	"fjacquet/ledger-audit/cmd/root"
	"fjacquet/ledger-audit/cmd/rules"
	"fjacquet/ledger-audit/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load .env before viper reads the environment
	quiet := logrus.New()
	quiet.SetLevel(logrus.WarnLevel)
	config.LoadEnv(quiet)

	// 2. Initialize root command flags
	root.Init()

	// 3. Add all subcommands
	root.Cmd.AddCommand(audit.Cmd)
	root.Cmd.AddCommand(policy.Cmd)
	root.Cmd.AddCommand(mail.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := root.Cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
