// Command koldun runs the Koldun tile game.
//
// It supports these commands:
//  1. "play" (default) – plays in the terminal
//  2. "window" – plays in a desktop window
//  3. "serve" – runs the HTTP server exposing REST API, WebSocket, metrics and an /mcp endpoint
//  4. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  5. "atlas" – writes or installs the tile atlas
//  6. "levels" – lists and validates levels
//
// Flags control the level directory, the tile source, the tick rate, debug
// logging and optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/exor2008/koldun/api"
	"github.com/exor2008/koldun/assets"
	"github.com/exor2008/koldun/display/term"
	"github.com/exor2008/koldun/display/window"
	"github.com/exor2008/koldun/game/config"
	"github.com/exor2008/koldun/game/engine"
	"github.com/exor2008/koldun/game/levels"
	"github.com/exor2008/koldun/game/runtime"
	"github.com/exor2008/koldun/game/service"
	"github.com/exor2008/koldun/game/session"
	"github.com/exor2008/koldun/transport/mcp"
	"github.com/exor2008/koldun/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Koldun"
)

// gdataApp is the application name of the per-user asset store.
const gdataApp = "koldun"

// localSession is the id of the single game of play and window.
const localSession = "local"

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "koldun",
		Usage:   AppName + " - guide the wizard to the exit",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "levels-dir",
				Usage:   "directory of level YAML files overlaid on the built-in levels",
				Sources: cli.EnvVars("KOLDUN_LEVELS_DIR"),
			},
			&cli.StringFlag{
				Name:    "assets",
				Usage:   "tile atlas file; without it the installed atlas or the built-in tiles are used",
				Sources: cli.EnvVars("KOLDUN_ASSETS"),
			},
			&cli.StringFlag{
				Name:    "level",
				Usage:   "open this level directly instead of the start menu",
				Sources: cli.EnvVars("KOLDUN_LEVEL"),
			},
			&cli.DurationFlag{
				Name:    "tick",
				Value:   runtime.DefaultTick,
				Usage:   "game tick period",
				Sources: cli.EnvVars("KOLDUN_TICK"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "log every dispatched event",
				Sources: cli.EnvVars("KOLDUN_DEBUG"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		DefaultCommand: "play",
		Commands: []*cli.Command{
			playCommand(),
			windowCommand(),
			serveCommand(),
			mcpCommand(),
			atlasCommand(),
			levelsCommand(),
		},
	}
}

// game bundles what every front end needs.
type game struct {
	sessions *session.Manager
	service  service.GameService
}

// newGame wires the level store, the asset store, the session manager and
// the game service from the global flags.
func newGame(cmd *cli.Command, opts session.Options) (*game, error) {
	levelManager, err := config.NewManager(cmd.String("levels-dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to create level manager: %w", err)
	}
	store, err := openAssets(cmd.String("assets"))
	if err != nil {
		return nil, err
	}

	opts.Levels = levels.NewRegistry(levelManager)
	opts.Assets = store
	opts.Runtime.Tick = cmd.Duration("tick")
	opts.Runtime.Debug = cmd.Bool("debug")

	sessions := session.NewManager(opts)
	return &game{
		sessions: sessions,
		service:  service.NewGameService(sessions, levelManager),
	}, nil
}

// openAssets picks the tile source: an atlas file, the installed atlas, or
// tiles rendered in memory.
func openAssets(path string) (assets.Store, error) {
	if path != "" {
		store, err := assets.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open atlas: %w", err)
		}
		return store, nil
	}
	if installed, err := assets.OpenGdata(gdataApp); err == nil && installed.Installed() {
		log.Println("Using installed tile atlas")
		return installed, nil
	}
	store, err := assets.Builtin()
	if err != nil {
		return nil, fmt.Errorf("failed to build tiles: %w", err)
	}
	return store, nil
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-file",
				Value:   "koldun.log",
				Usage:   "where to write the log while the terminal is in use",
				Sources: cli.EnvVars("KOLDUN_LOG_FILE"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logFile, err := os.OpenFile(cmd.String("log-file"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer logFile.Close()
			log.SetOutput(logFile)
			defer log.SetOutput(os.Stderr)

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("failed to create screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("failed to init screen: %w", err)
			}
			defer screen.Fini()

			g, err := newGame(cmd, session.Options{Runtime: runtime.Options{OnPanic: screen.Fini}})
			if err != nil {
				return err
			}
			defer g.sessions.Close()

			sess, err := g.sessions.Create(localSession, cmd.String("level"))
			if err != nil {
				return err
			}
			log.Printf("Starting %s v%s in the terminal", AppName, Version)
			return term.New(screen, sess.Canvas).Run(ctx, sess.Loop)
		},
	}
}

func windowCommand() *cli.Command {
	return &cli.Command{
		Name:  "window",
		Usage: "play in a desktop window",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			g, err := newGame(cmd, session.Options{})
			if err != nil {
				return err
			}
			defer g.sessions.Close()

			sess, err := g.sessions.Create(localSession, cmd.String("level"))
			if err != nil {
				return err
			}
			log.Printf("Starting %s v%s in a window", AppName, Version)
			return window.Run(ctx, AppName, sess.Canvas, sess.Loop)
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP server with REST API, WebSocket, metrics and an /mcp endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("KOLDUN_HOST")},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("KOLDUN_PORT", "PORT")},
			&cli.IntFlag{Name: "max-sessions", Value: 100, Usage: "maximum number of live sessions, 0 for no limit", Sources: cli.EnvVars("KOLDUN_MAX_SESSIONS")},
			&cli.DurationFlag{Name: "session-ttl", Value: 24 * time.Hour, Usage: "remove sessions idle for longer than this", Sources: cli.EnvVars("KOLDUN_SESSION_TTL")},
			&cli.BoolFlag{Name: "ngrok", Usage: "enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
			srv, err := newServer(ctx, cmd, "http://"+addr)
			if err != nil {
				return err
			}
			defer srv.close()
			return srv.serve(ctx, addr, cmd)
		},
	}
}

// httpServer is the composed HTTP surface of serve and of the internal server
// of mcp.
type httpServer struct {
	game    *game
	handler http.Handler
}

// newServer wires sessions, the websocket hub, metrics, the REST API and the
// /mcp endpoint. The hub runs until ctx is done.
func newServer(ctx context.Context, cmd *cli.Command, baseURL string) (*httpServer, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	hub := websocket.NewHub()
	g, err := newGame(cmd, session.Options{
		Runtime: runtime.Options{Metrics: runtime.NewMetrics(registry)},
		Mirror:  hub.Display,
		Limit:   cmd.Int("max-sessions"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	hub.OnInput(func(ctx context.Context, sessionID string, ev engine.Event) error {
		sess, err := g.sessions.Get(sessionID)
		if err != nil {
			return err
		}
		g.sessions.UpdateLastAccessed(sessionID)
		return sess.Loop.Push(ctx, ev)
	})
	hub.OnConnect(g.service.Screen)
	go hub.Run(ctx)

	if ttl := cmd.Duration("session-ttl"); ttl > 0 {
		go g.sessions.RunCleanup(ctx, time.Hour, ttl)
	}

	apiServer := api.NewServer(g.service, hub, registry)
	mcpClient := mcp.NewClient(baseURL)

	// Create main router that combines API and MCP
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return &httpServer{game: g, handler: mainRouter}, nil
}

func (s *httpServer) close() {
	s.game.sessions.Close()
}

// serve listens on addr, and through ngrok when enabled, until ctx is done.
func (s *httpServer) serve(ctx context.Context, addr string, cmd *cli.Command) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("Starting %s v%s", AppName, Version)
		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)
		log.Printf("Metrics: http://%s/metrics", addr)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.serveNgrok(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"))
		}()
	}

	var err error
	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err = <-errCh:
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		log.Printf("HTTP server shutdown error: %v", serr)
	}

	wg.Wait()
	log.Println("Server stopped")
	return err
}

func (s *httpServer) serveNgrok(ctx context.Context, authToken, domain string) {
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, s.handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "run an MCP stdio server against a running API, or an internal one",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Value:   "http://localhost:8080",
				Usage:   "REST API to proxy to when it is reachable",
				Sources: cli.EnvVars("KOLDUN_API_URL"),
			},
			&cli.IntFlag{Name: "max-sessions", Value: 100, Usage: "session limit of the internal server"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// stdout carries the protocol.
			log.SetOutput(os.Stderr)

			baseURL, err := mcpBackend(ctx, cmd)
			if err != nil {
				return err
			}
			log.Printf("MCP stdio server ready (API at %s)", baseURL)
			if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
				return fmt.Errorf("MCP stdio server error: %w", err)
			}
			return nil
		},
	}
}

// mcpBackend returns the API to proxy to. It reuses an external API when one
// answers, otherwise it starts an internal server on a loopback port.
func mcpBackend(ctx context.Context, cmd *cli.Command) (string, error) {
	externalURL := cmd.String("api-url")
	log.Printf("Checking for external API server at %s...", externalURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := testClient.Get(externalURL + "/health"); err == nil {
		resp.Body.Close()
		if resp.StatusCode < 500 {
			log.Printf("External API server found at %s, using it for MCP", externalURL)
			return externalURL, nil
		}
	}

	log.Printf("No external API server found, starting internal HTTP server")
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to get available port: %w", err)
	}
	baseURL := "http://" + listener.Addr().String()

	srv, err := newServer(ctx, cmd, baseURL)
	if err != nil {
		listener.Close()
		return "", err
	}
	httpSrv := &http.Server{Handler: srv.handler}
	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Internal HTTP server error: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		httpSrv.Close()
		srv.close()
	}()
	return baseURL, nil
}

func atlasCommand() *cli.Command {
	return &cli.Command{
		Name:      "atlas",
		Usage:     "write the tile atlas to a file, or install it for this user",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "install", Usage: "install into the per-user data directory"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("install") {
				blob, err := assets.BuildAtlas()
				if err != nil {
					return err
				}
				store, err := assets.OpenGdata(gdataApp)
				if err != nil {
					return err
				}
				if err := store.Install(blob); err != nil {
					return err
				}
				fmt.Printf("Installed tile atlas (%d bytes)\n", len(blob))
				return nil
			}

			path := cmd.Args().First()
			if path == "" {
				return errors.New("atlas: a file name or --install is required")
			}
			if err := assets.WriteAtlas(path); err != nil {
				return err
			}
			fmt.Printf("Wrote tile atlas to %s\n", path)
			return nil
		},
	}
}

func levelsCommand() *cli.Command {
	return &cli.Command{
		Name:  "levels",
		Usage: "list levels, or validate level files",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			manager, err := config.NewManager(cmd.String("levels-dir"))
			if err != nil {
				return err
			}
			return listLevels(os.Stdout, manager)
		},
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "validate level YAML files",
				ArgsUsage: "file...",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return validateFiles(os.Stdout, cmd.Args().Slice())
				},
			},
		},
	}
}

func listLevels(w io.Writer, manager *config.Manager) error {
	infos, err := manager.ListLevels()
	if err != nil {
		return err
	}
	def := manager.GetDefault()
	for _, info := range infos {
		marker := " "
		if def != nil && def.ID == info.ID {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-12s %-8s %s\n", marker, info.ID, info.Source, info.Name)
	}
	return nil
}

// errInvalidLevels is returned by validateFiles when any file fails.
var errInvalidLevels = errors.New("some levels are invalid")

func validateFiles(w io.Writer, paths []string) error {
	if len(paths) == 0 {
		return errors.New("levels validate: no files given")
	}
	failed := false
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err == nil {
			_, err = config.Parse(data)
		}
		if err != nil {
			failed = true
			fmt.Fprintf(w, "INVALID %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(w, "ok      %s\n", path)
	}
	if failed {
		return errInvalidLevels
	}
	return nil
}
