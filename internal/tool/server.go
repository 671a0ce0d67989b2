// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

const serverName = "roster-mcp"

// NewServer returns an MCP server with every roster tool registered.
func NewServer(version string) *mcp.Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	mcp.AddTool(server, MetadataExtractDutyRoster, ExtractDutyRoster)
	return server
}

// Serve runs the server over stdio until ctx is done or the client
// disconnects.
func Serve(ctx context.Context, version string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("serving MCP over stdio", zap.String("server", serverName), zap.String("version", version))
	return NewServer(version).Run(ctx, &mcp.StdioTransport{})
}
