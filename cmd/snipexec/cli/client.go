package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/yutopp/snipexec/pkg/server"
)

var (
	clientAddr      string
	clientSelection selectionSource
	clientLanguage  string
	clientClassName string
)

func init() {
	clientCmd.PersistentFlags().StringVar(&clientAddr, "addr", "localhost:50051", "server address")

	clientBuildCmd.Flags().StringVar(&clientSelection.Inline, "selection", "", "selection text")
	clientBuildCmd.Flags().StringVarP(&clientSelection.File, "file", "f", "", "file holding the selection")

	clientRunCmd.Flags().StringVar(&clientLanguage, "lang", "", "language tag")
	clientRunCmd.Flags().StringVar(&clientClassName, "class", "", "class attribute of the code element")

	clientCmd.AddCommand(clientListCmd, clientBuildCmd, clientRunCmd, clientClearCmd, clientOpenTerminalCmd)
	rootCmd.AddCommand(clientCmd)
}

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Talk to a running server",
}

func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *server.Client) (interface{}, error)) error {
	conn, err := grpc.Dial(
		clientAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return err
	}
	defer conn.Close()

	res, err := fn(cmd.Context(), server.NewClient(conn))
	if err != nil {
		return err
	}
	if res == nil {
		return nil
	}
	return printJSON(cmd.OutOrStdout(), res)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the languages the server can run",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *server.Client) (interface{}, error) {
			return c.List(ctx)
		})
	},
}

var clientBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Send a fenced selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		clientSelection.Stdin = cmd.InOrStdin()
		sel, err := clientSelection.Selection()
		if err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *server.Client) (interface{}, error) {
			return c.Build(ctx, &server.BuildRequest{Selection: sel})
		})
	},
}

var clientRunCmd = &cobra.Command{
	Use:   "run <code>",
	Short: "Run code as if its run control was pressed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *server.Client) (interface{}, error) {
			return c.Run(ctx, &server.RunRequest{
				Code:      args[0],
				Language:  clientLanguage,
				ClassName: clientClassName,
			})
		})
	},
}

var clientClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every scratch artifact on the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *server.Client) (interface{}, error) {
			if err := c.Clear(ctx); err != nil {
				return nil, err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cleared")
			return nil, nil
		})
	},
}

var clientOpenTerminalCmd = &cobra.Command{
	Use:   "open-terminal",
	Short: "Re-run the active artifact on the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *server.Client) (interface{}, error) {
			return c.OpenTerminal(ctx)
		})
	},
}
