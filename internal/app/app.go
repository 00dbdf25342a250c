package app

import (
	"context"
	"fmt"

	"github.com/pmatos/pog/internal/config"
	"github.com/pmatos/pog/internal/logging"
	"github.com/pmatos/pog/internal/prefs"
	"github.com/pmatos/pog/internal/server"
	"github.com/pmatos/pog/internal/source"
	"github.com/pmatos/pog/internal/ui"
	"github.com/pmatos/pog/internal/worker"
)

// Options configure the pog application.
type Options struct {
	// Path is the file to view: a local path or host:/path for ssh.
	Path string

	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/pog/prefs.toml

	// Port overrides the configured control server base port when > 0.
	Port int

	// NoServer disables the control server regardless of configuration.
	NoServer bool
}

// Run boots the pog viewer until the context is cancelled or the user
// quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{Dir: cfg.LogDir, Level: cfg.LogLevel, Format: cfg.LogFormat})
	log := logging.Log(logging.CompApp)

	userPrefs := prefs.Load(opts.PrefsPath)

	src, err := openSource(opts.Path, cfg)
	if err != nil {
		return err
	}
	if closer, ok := src.(interface{ Close() error }); ok {
		defer closer.Close()
	}
	log.Info("opened file", "file", src.DisplayName(), "lines", src.LineCount())

	fileSize, err := src.FileSize()
	if err != nil {
		return fmt.Errorf("read file size: %w", err)
	}

	w := worker.New(src)
	w.Start(ctx)

	var serverReqs chan server.Request
	if !opts.NoServer && !cfg.NoServer {
		port := cfg.Port
		if opts.Port > 0 {
			port = opts.Port
		}
		serverReqs = make(chan server.Request)
		srv, err := server.Start(port, serverReqs)
		if err != nil {
			return fmt.Errorf("start control server: %w", err)
		}
		defer srv.Close()
		log.Info("control server listening", "port", srv.Port())
	}

	uiOpts := ui.Options{
		Context:        ctx,
		Source:         src,
		Worker:         w,
		ServerRequests: serverReqs,
		FileSize:       fileSize,
		ThemeName:      userPrefs.Theme,
		HideGutter:     userPrefs.HideGutter,
		PrefsPath:      opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}

// openSource decides between the mmap-backed local source and the ssh
// remote source from the path syntax.
func openSource(path string, cfg config.Config) (source.Source, error) {
	fp := source.ParsePath(path)
	if !fp.Remote() {
		return source.OpenLocal(fp.Path)
	}
	return source.OpenRemote(fp.Host, fp.Path, source.RemoteOptions{
		MaxChunks: cfg.MaxCachedChunks,
	})
}
