package server

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yutopp/snipexec/pkg/domain"
	"github.com/yutopp/snipexec/pkg/service/executor"
	"github.com/yutopp/snipexec/pkg/service/runner"
	"github.com/yutopp/snipexec/pkg/snippet"
)

type Runner interface {
	Build(ctx context.Context, selection string) (*runner.Execution, error)
	OnRunRequested(ctx context.Context, code, tag string) (*runner.Execution, error)
	Clear(ctx context.Context) error
	OpenTerminal(ctx context.Context) (string, error)
}

type ProfileLister interface {
	Profiles() []domain.LanguageProfile
}

type Config struct {
	Runner   Runner
	Profiles ProfileLister

	Logger *zap.Logger
}

// Server implements the SnipexecServiceServer interface
type Server struct {
	config *Config
}

var _ SnipexecServiceServer = (*Server)(nil)

func Register(grpcServer *grpc.Server, srv *Server) {
	grpcServer.RegisterService(&serviceDesc, srv)
}

// NewGRPCServer returns a gRPC server with the logging interceptor
// installed.
func NewGRPCServer(logger *zap.Logger, opts ...grpc.ServerOption) *grpc.Server {
	loggingInterceptor := NewLoggingInterceptor(logger)
	opts = append(opts, grpc.ChainUnaryInterceptor(loggingInterceptor.Unary))
	return grpc.NewServer(opts...)
}

func NewServer(c *Config) *Server {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return &Server{
		config: c,
	}
}

func (s *Server) List(context.Context, *Empty) (*ListResponse, error) {
	profiles := s.config.Profiles.Profiles()
	res := &ListResponse{
		Languages: make([]Language, 0, len(profiles)),
	}
	for _, p := range profiles {
		res.Languages = append(res.Languages, Language{
			ID:       p.Tag,
			ShowName: p.ShowName,

			Extension:          p.Extension,
			Command:            p.Command,
			DirectlyExecutable: p.DirectlyExecutable,
		})
	}
	return res, nil
}

func (s *Server) Build(ctx context.Context, req *BuildRequest) (*RunResponse, error) {
	exec, err := s.config.Runner.Build(ctx, req.Selection)
	if err != nil {
		return nil, toStatus(err)
	}
	return toRunResponse(exec), nil
}

func (s *Server) Run(ctx context.Context, req *RunRequest) (*RunResponse, error) {
	lang := req.Language
	code := req.Code
	if req.ClassName != "" {
		if lang == "" {
			lang = snippet.LanguageFromClass(req.ClassName)
		}
		code = snippet.TrimRunLabel(code)
	}

	exec, err := s.config.Runner.OnRunRequested(ctx, code, lang)
	if err != nil {
		return nil, toStatus(err)
	}
	return toRunResponse(exec), nil
}

func (s *Server) Clear(ctx context.Context, _ *Empty) (*Empty, error) {
	if err := s.config.Runner.Clear(ctx); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

func (s *Server) OpenTerminal(ctx context.Context, _ *Empty) (*OpenTerminalResponse, error) {
	command, err := s.config.Runner.OpenTerminal(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &OpenTerminalResponse{Command: command}, nil
}

func toRunResponse(exec *runner.Execution) *RunResponse {
	return &RunResponse{
		ExecutionID: exec.ID.String(),
		Session:     exec.Session,
		Language:    exec.Profile.Tag,
		Artifact:    exec.Artifact.Path,
		Command:     exec.Command,
	}
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, snippet.ErrInvalidSelection):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, runner.ErrNoActiveProfile):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, executor.ErrUnsupportedPlatform):
		return status.Error(codes.Unimplemented, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
