package mcpconfig

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pkg/errors"

	"github.com/flutterkit/fluttercheck/pkg/logger"
	"github.com/flutterkit/fluttercheck/pkg/version"
)

// CheckTimeout bounds the handshake with a single server.
const CheckTimeout = 30 * time.Second

// ServerStatus is the result of probing one configured server.
type ServerStatus struct {
	Name      string
	Transport ServerType
	Tools     []string
	Err       error
}

// OK reports whether the server answered the handshake.
func (s ServerStatus) OK() bool {
	return s.Err == nil
}

// Check connects to every configured server, performs the MCP initialize
// handshake, and lists its tools. Results are returned per server, sorted by
// name; a failing server does not abort the remaining probes.
func (c *Config) Check(ctx context.Context) []ServerStatus {
	names := make([]string, 0, len(c.MCPServers))
	for name := range c.MCPServers {
		names = append(names, name)
	}
	sort.Strings(names)

	statuses := make([]ServerStatus, 0, len(names))
	for _, name := range names {
		statuses = append(statuses, c.checkServer(ctx, name, c.MCPServers[name]))
	}
	return statuses
}

func (c *Config) checkServer(ctx context.Context, name string, server ServerConfig) ServerStatus {
	status := ServerStatus{Name: name}

	serverType, err := server.Type()
	if err != nil {
		status.Err = err
		return status
	}
	status.Transport = serverType

	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	cli, err := newClient(server, serverType)
	if err != nil {
		status.Err = err
		return status
	}
	defer cli.Close()

	if err := cli.Start(ctx); err != nil {
		status.Err = errors.Wrap(err, "failed to start MCP client")
		return status
	}

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "fluttercheck",
		Version: version.Version,
	}

	initResult, err := cli.Initialize(ctx, initRequest)
	if err != nil {
		status.Err = errors.Wrap(err, "failed to initialize MCP session")
		return status
	}

	logger.G(ctx).WithField("server", name).
		WithField("server_name", initResult.ServerInfo.Name).
		WithField("server_version", initResult.ServerInfo.Version).
		Debug("MCP handshake completed")

	toolsResult, err := cli.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		status.Err = errors.Wrap(err, "failed to list tools")
		return status
	}

	for _, tool := range toolsResult.Tools {
		status.Tools = append(status.Tools, tool.Name)
	}
	sort.Strings(status.Tools)
	return status
}

func newClient(server ServerConfig, serverType ServerType) (*client.Client, error) {
	switch serverType {
	case ServerTypeStdio:
		env := server.ExpandedEnv()
		envSlice := make([]string, 0, len(env))
		for key, value := range env {
			envSlice = append(envSlice, fmt.Sprintf("%s=%s", key, value))
		}
		tp := transport.NewStdio(server.Command, envSlice, server.Args...)
		return client.NewClient(tp), nil
	case ServerTypeSSE:
		tp, err := transport.NewSSE(server.URL, transport.WithHeaders(server.Headers))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create SSE transport for %s", server.URL)
		}
		return client.NewClient(tp), nil
	default:
		return nil, errors.Errorf("unsupported server type %q", serverType)
	}
}
