package server

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "snipexec.v1.SnipexecService"

type Empty struct{}

type Language struct {
	ID       string `json:"id"`
	ShowName string `json:"show_name"`

	Extension          string `json:"extension"`
	Command            string `json:"command"`
	DirectlyExecutable bool   `json:"directly_executable"`
}

type ListResponse struct {
	Languages []Language `json:"languages"`
}

type BuildRequest struct {
	Selection string `json:"selection"`
}

// RunRequest is sent by the decoration layer when a run control is pressed.
// Language may be empty when ClassName carries it.
type RunRequest struct {
	Code      string `json:"code"`
	Language  string `json:"language,omitempty"`
	ClassName string `json:"class_name,omitempty"`
}

type RunResponse struct {
	ExecutionID string `json:"execution_id"`
	Session     uint64 `json:"session"`
	Language    string `json:"language"`
	Artifact    string `json:"artifact"`
	Command     string `json:"command"`
}

type OpenTerminalResponse struct {
	Command string `json:"command"`
}

// SnipexecServiceServer is implemented by Server.
type SnipexecServiceServer interface {
	List(context.Context, *Empty) (*ListResponse, error)
	Build(context.Context, *BuildRequest) (*RunResponse, error)
	Run(context.Context, *RunRequest) (*RunResponse, error)
	Clear(context.Context, *Empty) (*Empty, error)
	OpenTerminal(context.Context, *Empty) (*OpenTerminalResponse, error)
}

func unaryHandler[Req any, Res any](
	method string,
	call func(SnipexecServiceServer, context.Context, *Req) (*Res, error),
) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(SnipexecServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + method,
			}
			return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SnipexecServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("List", SnipexecServiceServer.List),
		unaryHandler("Build", SnipexecServiceServer.Build),
		unaryHandler("Run", SnipexecServiceServer.Run),
		unaryHandler("Clear", SnipexecServiceServer.Clear),
		unaryHandler("OpenTerminal", SnipexecServiceServer.OpenTerminal),
	},
	Streams: []grpc.StreamDesc{},
}

// Client calls the bridge over an established connection.
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func invoke[Res any](ctx context.Context, c *Client, method string, in interface{}) (*Res, error) {
	out := new(Res)
	err := c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, grpc.CallContentSubtype(CodecName))
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) List(ctx context.Context) (*ListResponse, error) {
	return invoke[ListResponse](ctx, c, "List", &Empty{})
}

func (c *Client) Build(ctx context.Context, in *BuildRequest) (*RunResponse, error) {
	return invoke[RunResponse](ctx, c, "Build", in)
}

func (c *Client) Run(ctx context.Context, in *RunRequest) (*RunResponse, error) {
	return invoke[RunResponse](ctx, c, "Run", in)
}

func (c *Client) Clear(ctx context.Context) error {
	_, err := invoke[Empty](ctx, c, "Clear", &Empty{})
	return err
}

func (c *Client) OpenTerminal(ctx context.Context) (*OpenTerminalResponse, error) {
	return invoke[OpenTerminalResponse](ctx, c, "OpenTerminal", &Empty{})
}
