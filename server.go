// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package tinymcp lets a host program expose typed Go functions as MCP
// tools over a line-framed JSON-RPC 2.0 stdio transport, without writing
// JSON Schema or wire-decoding code by hand. Register a tool with
// AddTool, passing a function whose parameter and result are plain
// structs; tinymcp derives the tool's schema, decodes incoming
// arguments, and encodes its result, once per type rather than once per
// call.
package tinymcp

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tinymcp/tinymcp/internal/bridge"
	"github.com/tinymcp/tinymcp/internal/dispatch"
	"github.com/tinymcp/tinymcp/internal/registry"
	"github.com/tinymcp/tinymcp/internal/scratch"
	"github.com/tinymcp/tinymcp/internal/transport"
	"github.com/tinymcp/tinymcp/logger"
	"github.com/tinymcp/tinymcp/value"
)

// HandlerFunc is a typed tool handler: P and R are plain structs tinymcp
// reflects over once, at AddTool time, to derive a schema and a
// decode/encode plan.
type HandlerFunc[P, R any] func(ctx context.Context, params P) (R, error)

// Server holds one MCP server's registered tools and lifecycle state. A
// Server has no network or process lifecycle of its own until Serve is
// called; building it never touches the filesystem, the environment, or
// any CLI flags.
type Server struct {
	name, version  string
	reg            *registry.Registry
	log            logger.Logger
	upgradeIsError bool
	maxLine        int
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithLogger overrides the Server's diagnostic logger. The default is a
// silent MCPLogger, so stdout stays free of anything but JSON-RPC lines
// unless a caller opts in to a writer.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithMaxLine overrides the largest single input line Serve will accept.
// The default is transport.DefaultMaxLine.
func WithMaxLine(n int) Option {
	return func(s *Server) { s.maxLine = n }
}

// WithErrorIsError makes every tool added afterward default to the
// isError:true convention on handler failure, instead of the baseline
// isError:false behavior. AddTool's own WithToolErrorIsError overrides
// this per tool.
func WithErrorIsError() Option {
	return func(s *Server) { s.upgradeIsError = true }
}

// New returns a Server with no tools registered. name and version
// populate "initialize"'s serverInfo.
func New(name, version string, opts ...Option) *Server {
	s := &Server{
		name:    name,
		version: version,
		reg:     registry.New(),
		log:     logger.NewMCPLogger(nil, true),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type toolOptions struct {
	errorIsError bool
	validate     bool
}

// AddToolOption configures one AddTool registration.
type AddToolOption func(*toolOptions)

// WithToolErrorIsError upgrades this tool's failures to isError:true,
// overriding the Server-wide default.
func WithToolErrorIsError() AddToolOption {
	return func(o *toolOptions) { o.errorIsError = true }
}

// WithSchemaValidation additionally validates the raw wire arguments
// against the tool's derived schema before decoding them, catching drift
// between the schema and the decode rules that would otherwise be
// invisible.
func WithSchemaValidation() AddToolOption {
	return func(o *toolOptions) { o.validate = true }
}

// AddTool registers a typed tool on s. P and R must be struct types;
// a violation is a build-time error returned here, never a panic, so a
// malformed registration fails server startup with a diagnosable error
// instead of crashing partway through it.
//
// AddTool is a free function, not a method, because Go does not allow a
// generic method to introduce type parameters beyond its receiver's.
func AddTool[P, R any](s *Server, name, description string, handler HandlerFunc[P, R], opts ...AddToolOption) error {
	cfg := toolOptions{errorIsError: s.upgradeIsError}
	for _, opt := range opts {
		opt(&cfg)
	}

	dec, err := bridge.NewDecoder[P]()
	if err != nil {
		return fmt.Errorf("tinymcp: tool %q: %w", name, err)
	}
	enc, err := bridge.NewEncoder[R]()
	if err != nil {
		return fmt.Errorf("tinymcp: tool %q: %w", name, err)
	}

	schema := dec.Schema()

	invoke := func(ctx context.Context, args value.Value) registry.Outcome {
		buf := scratch.Default.Get()
		defer func() {
			buf.Reset()
			scratch.Default.Put(buf)
		}()

		if args.Kind() != value.KindObject {
			return registry.Outcome{Value: value.String("Arguments must be an object"), IsError: cfg.errorIsError}
		}

		if cfg.validate {
			if err := validateAgainstSchema(schema, args); err != nil {
				return registry.Outcome{Value: value.String(invalidParamsText(err)), IsError: cfg.errorIsError}
			}
		}

		params, err := dec.Decode(args)
		if err != nil {
			return registry.Outcome{Value: value.String(invalidParamsText(err)), IsError: cfg.errorIsError}
		}

		result, err := handler(ctx, params)
		if err != nil {
			return registry.Outcome{Value: value.String(fmt.Sprintf("Function call failed: %s", err)), IsError: cfg.errorIsError}
		}

		encoded, err := enc.Encode(result)
		if err != nil {
			return registry.Outcome{Value: value.String(fmt.Sprintf("Function call failed: %s", err)), IsError: cfg.errorIsError}
		}

		return registry.Outcome{Value: encoded, IsError: false}
	}

	return s.reg.Add(registry.ToolDescriptor{
		Name:        name,
		Description: description,
		Schema:      schema,
		Invoke:      invoke,
	})
}

// invalidParamsText renders the "Invalid parameters: <ErrorKind>" wire
// text. When err is the Type Bridge's own *bridge.DecodeError, <ErrorKind>
// is its DecodeErrorKind; any other error (e.g. from schema validation)
// falls back to its own message so the text still identifies the problem.
func invalidParamsText(err error) string {
	var derr *bridge.DecodeError
	if errors.As(err, &derr) {
		return fmt.Sprintf("Invalid parameters: %s", derr.Kind)
	}
	return fmt.Sprintf("Invalid parameters: %s", err)
}

// ToolNames returns the names of every registered tool, in registration
// order.
func (s *Server) ToolNames() []string {
	names := make([]string, 0, s.reg.Len())
	for _, d := range s.reg.List() {
		names = append(names, d.Name)
	}
	return names
}

// ToolDescription returns the description a tool was registered with,
// and whether a tool by that name exists at all.
func (s *Server) ToolDescription(name string) (string, bool) {
	d, ok := s.reg.Get(name)
	if !ok {
		return "", false
	}
	return d.Description, true
}

// Serve runs the strictly sequential read/dispatch/write loop over r and
// w until r is exhausted, ctx is cancelled, or a transport error occurs.
// No two tool invocations ever overlap: Serve does not read the next
// line until the current one has produced its response (and, for
// "tools/call", its progress notifications).
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	d := dispatch.New(s.name, s.version, s.reg, s.log)
	in := transport.NewReader(r, s.maxLine)
	out := transport.NewWriter(w)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := in.ReadMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("tinymcp: serve: %w", err)
		}

		if err := d.Handle(ctx, msg, out); err != nil {
			return fmt.Errorf("tinymcp: serve: %w", err)
		}
	}
}
