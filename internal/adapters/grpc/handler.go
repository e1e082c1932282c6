package grpc

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/quentinrf/spectrum-reader/internal/domain"
	"github.com/quentinrf/spectrum-reader/internal/query"
	"github.com/quentinrf/spectrum-reader/pkg/pb"
)

// SpectrumServiceHandler implements the gRPC SpectrumService
type SpectrumServiceHandler struct {
	pb.UnimplementedSpectrumServiceServer
	lister  domain.SourceLister
	service *query.Service
	strict  bool
}

// NewSpectrumServiceHandler creates a new gRPC handler. strict makes every
// detector listing require the housekeeping group.
func NewSpectrumServiceHandler(lister domain.SourceLister, service *query.Service, strict bool) *SpectrumServiceHandler {
	return &SpectrumServiceHandler{
		lister:  lister,
		service: service,
		strict:  strict,
	}
}

// ListDetectors returns the detector catalog across current source files
func (h *SpectrumServiceHandler) ListDetectors(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := pb.ListDetectorsRequestFromStruct(in)
	log.Info().Str("family", req.Family).Msg("ListDetectors called")

	family, err := domain.ParseFamily(req.Family)
	if err != nil {
		return nil, toStatus(err)
	}

	files, err := h.lister.ListSourceFiles(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list source files")
		return nil, status.Error(codes.Internal, "failed to list source files")
	}

	detectors, err := h.service.ListDetectors(ctx, files, query.CatalogFilter{
		Family:        family,
		RequireSensor: h.strict || req.RequireSensor,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &pb.ListDetectorsResponse{Detectors: detectors}
	return resp.ToStruct()
}

// ExtractRange returns the merged spectrum rows of one detector
func (h *SpectrumServiceHandler) ExtractRange(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := pb.ExtractRangeRequestFromStruct(in)
	log.Info().
		Str("detector", req.Detector).
		Str("start", req.Start).
		Str("stop", req.Stop).
		Msg("ExtractRange called")

	// validate before touching any file
	window, err := domain.ParseWindow(req.Start, req.Stop)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := domain.ValidateDetectorID(req.Detector); err != nil {
		return nil, toStatus(err)
	}

	files, err := h.lister.ListSourceFiles(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list source files")
		return nil, status.Error(codes.Internal, "failed to list source files")
	}

	res, err := h.service.Extract(ctx, files, req.Detector, window)
	if err != nil {
		return nil, toStatus(err)
	}

	resp, err := convertResultToProto(res).ToStruct()
	if err != nil {
		log.Error().Err(err).Msg("failed to encode result")
		return nil, status.Error(codes.Internal, "failed to encode result")
	}
	return resp, nil
}

// convertResultToProto converts a query result to its wire form
func convertResultToProto(res *query.Result) *pb.ExtractRangeResponse {
	resp := &pb.ExtractRangeResponse{
		Detector:   res.Detector,
		Channels:   res.Channels(),
		Timestamps: res.Timestamps,
		Spectrum:   make([][]float64, res.Rows()),
	}
	for i := range resp.Spectrum {
		resp.Spectrum[i] = res.Row(i)
	}
	for _, f := range res.Files {
		resp.Files = append(resp.Files, pb.FileSummary{
			Path:    f.Path,
			Found:   f.Found,
			Samples: f.Samples,
			Matched: f.Matched,
		})
	}
	for _, s := range res.Skipped {
		resp.Skipped = append(resp.Skipped, pb.SkippedFile{Path: s.Path, Error: s.Err.Error()})
	}
	return resp
}

// toStatus maps query error kinds to gRPC status codes
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidDate):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrEmptyResult):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInconsistentSchema), errors.Is(err, domain.ErrMissingExpectedKey):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	log.Error().Err(err).Msg("query failed")
	return status.Error(codes.Internal, "query failed")
}
