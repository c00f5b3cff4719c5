// Package grpcserver implements the JobService gRPC server.
//
// It delegates all business logic to jobs.Service and handles
// only the gRPC transport concerns: error mapping and conversion between
// the domain model and protobuf Struct documents.
package grpcserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"jobmate/jobs-service/internal/jobs"
	"jobmate/jobs-service/internal/sqlgen"
)

// Server implements JobServiceServer.
type Server struct {
	svc *jobs.Service
}

var _ JobServiceServer = (*Server)(nil)

// NewServer constructs a gRPC Server backed by the given jobs.Service.
func NewServer(svc *jobs.Service) *Server {
	return &Server{svc: svc}
}

// ─── RPC implementations ──────────────────────────────────────────────────────

// CreateJob inserts a job. Request fields: title, salary, equity,
// companyHandle.
func (s *Server) CreateJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in jobs.NewJob
	if err := decodeStruct(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid CreateJob request")
	}

	job, err := s.svc.Create(ctx, in)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(job)
}

// ListJobs returns jobs matching the optional minSalary, hasEquity and
// title fields.
func (s *Server) ListJobs(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	q := url.Values{}
	for key, v := range req.GetFields() {
		switch v.GetKind().(type) {
		case *structpb.Value_StringValue:
			q.Set(key, v.GetStringValue())
		case *structpb.Value_NumberValue:
			q.Set(key, strconv.FormatFloat(v.GetNumberValue(), 'f', -1, 64))
		case *structpb.Value_BoolValue:
			q.Set(key, strconv.FormatBool(v.GetBoolValue()))
		default:
			return nil, status.Errorf(codes.InvalidArgument, "filter %q must be a scalar", key)
		}
	}

	f, err := jobs.ParseFilter(q)
	if err != nil {
		return nil, toGRPCError(err)
	}
	list, err := s.svc.FindAll(ctx, f)
	if err != nil {
		return nil, toGRPCError(err)
	}

	items := make([]any, 0, len(list))
	for i := range list {
		m, err := toMap(&list[i])
		if err != nil {
			return nil, toGRPCError(err)
		}
		items = append(items, m)
	}
	out, err := structpb.NewList(items)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return out, nil
}

// GetJob returns one job with its nested company. Request: {"id": n}.
func (s *Server) GetJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idFromReq(req)
	if err != nil {
		return nil, err
	}
	job, err := s.svc.Get(ctx, id)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(job)
}

// UpdateJob applies a partial update. Request: {"id": n, "set": {...}}.
func (s *Server) UpdateJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idFromReq(req)
	if err != nil {
		return nil, err
	}

	var upd jobs.JobUpdate
	if set := req.GetFields()["set"].GetStructValue(); set != nil {
		if err := decodeStruct(set, &upd); err != nil {
			return nil, toGRPCError(err)
		}
	}

	job, err := s.svc.Update(ctx, id, upd)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(job)
}

// RemoveJob deletes a job. Request: {"id": n}.
func (s *Server) RemoveJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idFromReq(req)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Remove(ctx, id); err != nil {
		return nil, toGRPCError(err)
	}
	return structpb.NewStruct(map[string]any{"deleted": id})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// idFromReq reads the integral "id" field. An integer outside the id
// column's int4 range cannot name a row and is reported as NotFound.
func idFromReq(req *structpb.Struct) (int, error) {
	v, ok := req.GetFields()["id"]
	if !ok {
		return 0, status.Error(codes.InvalidArgument, "id is required")
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || math.IsInf(n.NumberValue, 0) || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, status.Error(codes.InvalidArgument, "id must be an integer")
	}
	if n.NumberValue < math.MinInt32 || n.NumberValue > math.MaxInt32 {
		return 0, status.Error(codes.NotFound, jobs.ErrNotFound.Error())
	}
	return int(n.NumberValue), nil
}

// toGRPCError maps domain errors to gRPC status errors.
func toGRPCError(err error) error {
	if errors.Is(err, jobs.ErrNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	var (
		ve *jobs.ValidationError
		uf *sqlgen.UnknownFieldError
	)
	if errors.Is(err, sqlgen.ErrEmptyPayload) || errors.As(err, &ve) || errors.As(err, &uf) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	slog.Error("grpc request failed", "err", err)
	return status.Error(codes.Internal, "internal server error")
}

// decodeStruct re-decodes a Struct through its JSON form so that the same
// decoding rules apply as on the REST surface, unknown keys included.
func decodeStruct(in *structpb.Struct, v any) error {
	b, err := json.Marshal(in.AsMap())
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func toMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return m, nil
}

func toStruct(v any) (*structpb.Struct, error) {
	m, err := toMap(v)
	if err != nil {
		return nil, toGRPCError(err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return out, nil
}
