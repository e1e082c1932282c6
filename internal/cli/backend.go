package cli

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/quentinrf/spectrum-reader/internal/adapters/filesystem"
	"github.com/quentinrf/spectrum-reader/internal/adapters/sqlite"
	"github.com/quentinrf/spectrum-reader/internal/config"
	"github.com/quentinrf/spectrum-reader/internal/domain"
	"github.com/quentinrf/spectrum-reader/internal/query"
	"github.com/quentinrf/spectrum-reader/pkg/pb"
	"github.com/quentinrf/spectrum-reader/pkg/tlsconfig"
)

// backend answers catalog and extraction queries either from local files
// or from a remote spectrum service
type backend interface {
	ListDetectors(ctx context.Context, family domain.DetectorFamily, strict bool) ([]string, error)
	Extract(ctx context.Context, detector, start, stop string) (*query.Result, error)
	Close() error
}

// backend picks the remote service when --server is set
func (a *app) backend() (backend, error) {
	if a.server == "" {
		b, err := newLocalBackend(a.cfg)
		if err != nil {
			return nil, err
		}
		return b, nil
	}

	b, err := dialRemote(a.server, a.tlsCert, a.tlsKey, a.tlsCA)
	if err != nil {
		return nil, err
	}
	return b, nil
}

type localBackend struct {
	lister  domain.SourceLister
	service *query.Service
}

func newLocalBackend(cfg config.Config) (*localBackend, error) {
	lister, err := filesystem.NewLister(cfg.DataDir, cfg.Pattern)
	if err != nil {
		return nil, err
	}
	return &localBackend{
		lister:  lister,
		service: query.NewService(sqlite.NewOpener(), cfg.Workers),
	}, nil
}

func (b *localBackend) ListDetectors(ctx context.Context, family domain.DetectorFamily, strict bool) ([]string, error) {
	files, err := b.lister.ListSourceFiles(ctx)
	if err != nil {
		return nil, err
	}
	return b.service.ListDetectors(ctx, files, query.CatalogFilter{Family: family, RequireSensor: strict})
}

func (b *localBackend) Extract(ctx context.Context, detector, start, stop string) (*query.Result, error) {
	window, err := domain.ParseWindow(start, stop)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateDetectorID(detector); err != nil {
		return nil, err
	}

	files, err := b.lister.ListSourceFiles(ctx)
	if err != nil {
		return nil, err
	}
	return b.service.Extract(ctx, files, detector, window)
}

func (b *localBackend) Close() error { return nil }

type remoteBackend struct {
	conn   *grpc.ClientConn
	client pb.SpectrumServiceClient
}

// dialRemote connects to a spectrum service, with mTLS when a client
// certificate is given
func dialRemote(addr, cert, key, ca string) (*remoteBackend, error) {
	creds := insecure.NewCredentials()
	if cert != "" {
		tlsCfg, err := tlsconfig.LoadClientTLS(cert, key, ca)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS config: %w", err)
		}
		creds = credentials.NewTLS(tlsCfg)
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return &remoteBackend{conn: conn, client: pb.NewSpectrumServiceClient(conn)}, nil
}

func (b *remoteBackend) ListDetectors(ctx context.Context, family domain.DetectorFamily, strict bool) ([]string, error) {
	resp, err := b.client.ListDetectors(ctx, &pb.ListDetectorsRequest{
		Family:        string(family),
		RequireSensor: strict,
	})
	if err != nil {
		return nil, fromStatus(err, domain.ErrMissingExpectedKey)
	}
	return resp.Detectors, nil
}

func (b *remoteBackend) Extract(ctx context.Context, detector, start, stop string) (*query.Result, error) {
	// parsed locally too so the result carries the window
	window, err := domain.ParseWindow(start, stop)
	if err != nil {
		return nil, err
	}

	resp, err := b.client.ExtractRange(ctx, &pb.ExtractRangeRequest{
		Detector: detector,
		Start:    start,
		Stop:     stop,
	})
	if err != nil {
		return nil, fromStatus(err, domain.ErrInconsistentSchema)
	}
	return resultFromProto(resp, window)
}

func (b *remoteBackend) Close() error {
	return b.conn.Close()
}

// resultFromProto rebuilds a query result from its wire form
func resultFromProto(resp *pb.ExtractRangeResponse, window domain.TimeWindow) (*query.Result, error) {
	rows := len(resp.Spectrum)
	if rows == 0 || resp.Channels < 1 {
		return nil, fmt.Errorf("%w: server returned no rows for %s", domain.ErrEmptyResult, resp.Detector)
	}

	data := make([]float64, 0, rows*resp.Channels)
	for _, row := range resp.Spectrum {
		data = append(data, row...)
	}

	res := &query.Result{
		Detector:   resp.Detector,
		Window:     window,
		Spectrum:   mat.NewDense(rows, resp.Channels, data),
		Timestamps: resp.Timestamps,
	}
	for _, f := range resp.Files {
		c := query.FileContribution{Path: f.Path, Found: f.Found, Samples: f.Samples, Matched: f.Matched}
		if f.Matched > 0 {
			c.Channels = resp.Channels
		}
		res.Files = append(res.Files, c)
	}
	for _, s := range resp.Skipped {
		res.Skipped = append(res.Skipped, domain.SkippedFileWarning{Path: s.Path, Err: errors.New(s.Error)})
	}
	return res, nil
}

// fromStatus maps a gRPC status back onto the domain error kinds.
// FailedPrecondition is ambiguous on the wire, so the caller names the
// kind it stands for.
func fromStatus(err error, precondition error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", domain.ErrInvalidArgument, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", domain.ErrEmptyResult, st.Message())
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", precondition, st.Message())
	case codes.Canceled:
		return context.Canceled
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	}
	return fmt.Errorf("spectrum service: %s", st.Message())
}
