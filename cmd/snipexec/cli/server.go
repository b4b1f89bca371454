package cli

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yutopp/snipexec/pkg/decoration"
	"github.com/yutopp/snipexec/pkg/server"
	"github.com/yutopp/snipexec/pkg/vault"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:50051", "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve run requests and keep the vault decorated",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		if err := serve(ctx, a, serveAddr, cmd.OutOrStdout()); err != nil {
			return err
		}

		a.finish(ctx)
		return nil
	},
}

// serve runs one session: it clears artifacts left by an earlier session,
// serves until ctx is done and removes every decoration on the way out.
func serve(ctx context.Context, a *app, addr string, out io.Writer) error {
	if err := a.runner.Clear(ctx); err != nil {
		return err
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen: %s", addr)
	}

	grpcServer := server.NewGRPCServer(a.logger)
	server.Register(grpcServer, server.NewServer(&server.Config{
		Runner:   a.runner,
		Profiles: a.registry,
		Logger:   a.logger,
	}))

	binder := a.binder(decoration.NewWriterSink(out))
	defer binder.RemoveAll()
	loadDelay := a.settings.LoadDelay()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		a.logger.Info("start server", zap.String("addr", lis.Addr().String()))
		return grpcServer.Serve(lis)
	})
	eg.Go(func() error {
		<-ctx.Done()
		grpcServer.GracefulStop()
		return nil
	})
	eg.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(loadDelay):
		}
		return binder.Iterate(ctx)
	})
	eg.Go(func() error {
		w := a.vault.Watch(loadDelay, func(doc vault.Document) {
			binder.Decorate(doc)
		})
		return w.Run(ctx)
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
