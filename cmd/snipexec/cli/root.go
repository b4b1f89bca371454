package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	vaultPath   string
	profilePath string
	debug       bool
)

var rootCmd = &cobra.Command{
	Use:   "snipexec",
	Short: "Run fenced code blocks of a vault in a terminal",

	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&vaultPath, "vault", ".", "vault directory holding documents and scratch artifacts")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profilePath", "", "language profile table (.json, .yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
