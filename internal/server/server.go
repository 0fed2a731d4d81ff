package server

import (
	"sync"

	"github.com/cockroachdb/errors"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ironsheep/frame-recognizer/internal/classifier"
	"github.com/ironsheep/frame-recognizer/internal/config"
	"github.com/ironsheep/frame-recognizer/internal/imaging"
	"github.com/ironsheep/frame-recognizer/internal/logger"
)

// Name is the MCP server name announced to clients.
const Name = "frame-recognizer"

// Server exposes frame recognition over MCP.
type Server struct {
	cfg     *config.Config
	version string
	cache   *imaging.ImageCache

	// models is nil when no classifier backend is configured.
	models *classifier.Session

	loader    classifier.Loader
	loaderSet bool

	// attempts serialises recognition attempts.
	attempts sync.Mutex

	mcp *mcpserver.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithVersion sets the version reported to clients.
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

// WithClassifierLoader overrides the configured classifier backend. A nil
// loader disables the classifier.
func WithClassifierLoader(loader classifier.Loader) Option {
	return func(s *Server) {
		s.loader = loader
		s.loaderSet = true
	}
}

// New creates a server for cfg and starts loading the classifier in the
// background.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	s := &Server{
		cfg:     cfg,
		version: "dev",
		cache:   imaging.NewImageCache(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if !s.loaderSet {
		loader, err := classifier.LoaderFor(cfg.Classifier)
		if err != nil {
			return nil, err
		}
		s.loader = loader
	}
	if s.loader != nil {
		s.models = classifier.NewSession(s.loader)
		s.models.Start()
	}

	s.mcp = mcpserver.NewMCPServer(Name, s.version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)
	s.mcp.AddTools(s.tools()...)
	return s, nil
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer { return s.mcp }

// Classifier returns the classifier session, or nil when none is configured.
func (s *Server) Classifier() *classifier.Session { return s.models }

// Run serves MCP on stdin/stdout until the client disconnects, then
// releases the classifier.
func (s *Server) Run() error {
	defer s.Close()

	logger.Logger.Infow("Starting MCP server",
		"version", s.version,
		"tools", len(s.mcp.ListTools()),
		"classifier", s.classifierStatus(),
		"crop_size", s.cfg.Capture.CropSize,
	)
	if err := mcpserver.ServeStdio(s.mcp); err != nil {
		return errors.Wrap(err, "MCP server stopped")
	}
	return nil
}

// Close releases the classifier and drops cached frames.
func (s *Server) Close() error {
	s.cache.Clear()
	if s.models == nil {
		return nil
	}
	return s.models.Close()
}

func (s *Server) classifierStatus() string {
	if s.models == nil {
		return "none"
	}
	return s.models.Status().String()
}
