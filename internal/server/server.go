package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/reflection"

	"github.com/quentinrf/spectrum-reader/internal/adapters/filesystem"
	grpcAdapter "github.com/quentinrf/spectrum-reader/internal/adapters/grpc"
	"github.com/quentinrf/spectrum-reader/internal/adapters/mock"
	"github.com/quentinrf/spectrum-reader/internal/adapters/sqlite"
	"github.com/quentinrf/spectrum-reader/internal/config"
	"github.com/quentinrf/spectrum-reader/internal/ports"
	"github.com/quentinrf/spectrum-reader/internal/query"
	"github.com/quentinrf/spectrum-reader/pkg/pb"
	"github.com/quentinrf/spectrum-reader/pkg/tlsconfig"
)

// Run serves SpectrumService on cfg.Port until ctx is cancelled
func Run(ctx context.Context, cfg config.Config) error {
	lister, err := filesystem.NewLister(cfg.DataDir, cfg.Pattern)
	if err != nil {
		return err
	}
	service := query.NewService(sqlite.NewOpener(), cfg.Workers)
	handler := grpcAdapter.NewSpectrumServiceHandler(lister, service, cfg.StrictSensor)
	log.Info().
		Str("data_dir", cfg.DataDir).
		Str("pattern", cfg.Pattern).
		Int("workers", cfg.Workers).
		Msg("initialized query service")

	// Configure TLS if certificates are provided
	var serverOpts []grpc.ServerOption
	if cfg.TLSCert != "" {
		tlsCfg, err := tlsconfig.LoadServerTLS(cfg.TLSCert, cfg.TLSKey, cfg.TLSCA)
		if err != nil {
			return fmt.Errorf("failed to load TLS config: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(credentials.NewTLS(tlsCfg)))
		log.Info().Msg("mTLS enabled")
	} else {
		log.Warn().Msg("TLS_CERT not set, starting without TLS (dev mode only)")
	}

	grpcServer := grpc.NewServer(serverOpts...)
	pb.RegisterSpectrumServiceServer(grpcServer, handler)

	// Enable gRPC reflection for grpcurl testing
	reflection.Register(grpcServer)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	log.Info().Str("port", cfg.Port).Msg("gRPC server listening")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()

	if cfg.Simulate > 0 {
		store, err := sqlite.NewSessionStore(cfg.DataDir)
		if err != nil {
			grpcServer.Stop()
			return err
		}
		source := mock.NewFakeAcquisition(5, 2, 1024, time.Now().UnixNano())
		sim := ports.NewSimulator(source, store, ports.DefaultSessionPlan(), cfg.Simulate)
		go sim.Start(ctx)
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")
		grpcServer.GracefulStop()
		log.Info().Msg("server stopped")
		return nil
	case err := <-serveErr:
		return fmt.Errorf("failed to serve: %w", err)
	}
}
