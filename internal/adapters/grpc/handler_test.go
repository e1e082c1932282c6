package grpc

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/quentinrf/spectrum-reader/internal/adapters/memory"
	"github.com/quentinrf/spectrum-reader/internal/domain"
	"github.com/quentinrf/spectrum-reader/internal/query"
	"github.com/quentinrf/spectrum-reader/pkg/pb"
)

func seedArchive(t *testing.T) *memory.Archive {
	t.Helper()
	a := memory.NewArchive()

	add := func(path, detector string, times ...int64) {
		rows := make([][]float64, len(times))
		for i, ts := range times {
			rows[i] = []float64{float64(ts), 1}
		}
		spec, err := domain.NewSpectrum(rows)
		if err != nil {
			t.Fatalf("failed to build spectrum: %v", err)
		}
		a.AddRecord(path, &domain.DetectorRecord{Detector: detector, Timestamps: times, Spectrum: spec})
	}

	a.AddGroup("f1", domain.SensorKey)
	add("f1", "digiBASE_3", 10, 20, 30)
	add("f1", "D3S_1", 10)
	add("f2", "digiBASE_3", 5, 25)
	add("f3", "digiBASE_3", 40)
	return a
}

// startTestServer creates an in-process gRPC server and returns a connected client.
// The server is stopped when the test ends.
func startTestServer(t *testing.T, archive *memory.Archive, strict bool) pb.SpectrumServiceClient {
	t.Helper()

	handler := NewSpectrumServiceHandler(archive, query.NewService(archive, 2), strict)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	srv := grpc.NewServer()
	pb.RegisterSpectrumServiceServer(srv, handler)

	go srv.Serve(lis)
	t.Cleanup(func() {
		srv.GracefulStop()
	})

	conn, err := grpc.NewClient(
		lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return pb.NewSpectrumServiceClient(conn)
}

func TestListDetectors(t *testing.T) {
	client := startTestServer(t, seedArchive(t), false)
	ctx := context.Background()

	resp, err := client.ListDetectors(ctx, &pb.ListDetectorsRequest{})
	if err != nil {
		t.Fatalf("ListDetectors failed: %v", err)
	}
	if len(resp.Detectors) != 2 || resp.Detectors[0] != "D3S_1" || resp.Detectors[1] != "digiBASE_3" {
		t.Errorf("expected [D3S_1 digiBASE_3], got %v", resp.Detectors)
	}

	resp, err = client.ListDetectors(ctx, &pb.ListDetectorsRequest{Family: "nai"})
	if err != nil {
		t.Fatalf("ListDetectors failed: %v", err)
	}
	if len(resp.Detectors) != 1 || resp.Detectors[0] != "digiBASE_3" {
		t.Errorf("expected [digiBASE_3], got %v", resp.Detectors)
	}
}

func TestListDetectors_InvalidFamily(t *testing.T) {
	client := startTestServer(t, seedArchive(t), false)

	_, err := client.ListDetectors(context.Background(), &pb.ListDetectorsRequest{Family: "NsI"})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err)
	}
}

func TestListDetectors_StrictWithoutSensor(t *testing.T) {
	a := memory.NewArchive()
	spec, _ := domain.NewSpectrum([][]float64{{1}})
	a.AddRecord("f1", &domain.DetectorRecord{Detector: "D1", Timestamps: []int64{1}, Spectrum: spec})
	client := startTestServer(t, a, true)

	_, err := client.ListDetectors(context.Background(), &pb.ListDetectorsRequest{})
	if status.Code(err) != codes.FailedPrecondition {
		t.Errorf("expected FailedPrecondition, got %v", err)
	}
}

func TestExtractRange_Unbounded(t *testing.T) {
	client := startTestServer(t, seedArchive(t), false)

	resp, err := client.ExtractRange(context.Background(), &pb.ExtractRangeRequest{Detector: "digiBASE_3"})
	if err != nil {
		t.Fatalf("ExtractRange failed: %v", err)
	}

	want := []int64{10, 20, 30, 5, 25, 40}
	if len(resp.Timestamps) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(resp.Timestamps))
	}
	for i := range want {
		if resp.Timestamps[i] != want[i] {
			t.Errorf("timestamp %d = %d, want %d", i, resp.Timestamps[i], want[i])
		}
		if resp.Spectrum[i][0] != float64(want[i]) {
			t.Errorf("row %d = %v, want first channel %d", i, resp.Spectrum[i], want[i])
		}
	}
	if resp.Channels != 2 {
		t.Errorf("expected 2 channels, got %d", resp.Channels)
	}
	if len(resp.Files) != 3 || resp.Files[0].Matched != 3 {
		t.Errorf("unexpected file summaries %+v", resp.Files)
	}
}

func TestExtractRange_Errors(t *testing.T) {
	client := startTestServer(t, seedArchive(t), false)
	ctx := context.Background()

	cases := []struct {
		name string
		req  *pb.ExtractRangeRequest
		code codes.Code
	}{
		{"missing detector id", &pb.ExtractRangeRequest{}, codes.InvalidArgument},
		{"bad date", &pb.ExtractRangeRequest{Detector: "digiBASE_3", Start: "2018-09-01"}, codes.InvalidArgument},
		{"inverted window", &pb.ExtractRangeRequest{Detector: "digiBASE_3", Start: "02092018", Stop: "01092018"}, codes.InvalidArgument},
		{"unknown detector", &pb.ExtractRangeRequest{Detector: "digiBASE_9"}, codes.NotFound},
		{"window before data", &pb.ExtractRangeRequest{Detector: "digiBASE_3", Start: "01092018"}, codes.NotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.ExtractRange(ctx, tc.req)
			if status.Code(err) != tc.code {
				t.Errorf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestExtractRange_InconsistentSchema(t *testing.T) {
	a := seedArchive(t)
	spec, _ := domain.NewSpectrum([][]float64{{1, 2, 3}})
	a.AddRecord("f4", &domain.DetectorRecord{Detector: "digiBASE_3", Timestamps: []int64{50}, Spectrum: spec})
	client := startTestServer(t, a, false)

	_, err := client.ExtractRange(context.Background(), &pb.ExtractRangeRequest{Detector: "digiBASE_3"})
	if status.Code(err) != codes.FailedPrecondition {
		t.Errorf("expected FailedPrecondition, got %v", err)
	}
}
