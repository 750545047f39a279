// Command gateway runs the Wayland compositor-facing protocol server:
// it binds a wayland-N socket, compiles the protocol descriptions named
// on the command line into a dispatch table, advertises the built-in
// globals, and serves clients until interrupted.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wlgateway/gateway/internal/gateway"
	"github.com/wlgateway/gateway/internal/protocol"
	"github.com/wlgateway/gateway/internal/protocolxml"
	"github.com/wlgateway/gateway/internal/registry"
	"github.com/wlgateway/gateway/internal/wire"
)

var (
	runtimeDir    string
	logLevel      string
	logFormat     string
	protocolFiles []string
)

var rootCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Wayland compositor gateway",
	Long: `gateway binds a wayland-N socket under XDG_RUNTIME_DIR, advertises the
built-in protocol globals, and dispatches client requests per the
compiled protocol descriptions.`,
	RunE: run,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&runtimeDir, "runtime-dir", "", "override XDG_RUNTIME_DIR for socket placement")
	flags.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "text", "log output format (text, json)")
	flags.StringArrayVar(&protocolFiles, "protocol", []string{"protocols/wayland.xml", "protocols/xdg-shell.xml"},
		"protocol XML file to compile into the dispatch table (repeatable)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := newLogger(logLevel, logFormat)

	protocols := make([]*protocolxml.Protocol, 0, len(protocolFiles))
	for _, path := range protocolFiles {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open protocol file %s: %w", path, err)
		}
		p, err := protocolxml.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parse protocol file %s: %w", path, err)
		}
		protocols = append(protocols, p)
		log.Debug("loaded protocol description", "path", path, "name", p.Name, "interfaces", len(p.Interfaces))
	}

	table, err := protocolxml.Build(protocols)
	if err != nil {
		return fmt.Errorf("compile dispatch table: %w", err)
	}

	gw, err := gateway.New(gateway.Options{RuntimeDir: runtimeDir, Table: table, Log: log})
	if err != nil {
		return fmt.Errorf("start gateway: %w", err)
	}
	defer gw.Close()

	advertiseBuiltinGlobals(gw, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("gateway running")
	if err := gw.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("gateway stopped: %w", err)
	}
	log.Info("gateway shutting down")
	return nil
}

// advertiseBuiltinGlobals inserts and advertises the fixed set of
// process-wide singletons every client expects to find on
// wl_registry: the compositor, shm, subcompositor, output, data device
// manager and xdg_wm_base globals. wl_seat globals are instead created
// by an input.Backend as real seats appear (§4.5).
func advertiseBuiltinGlobals(gw *gateway.Gateway, log *slog.Logger) {
	reg := gw.Registry()
	builtins := []registry.Kind{
		registry.KindWlCompositor,
		registry.KindWlShm,
		registry.KindWlSubcompositor,
		registry.KindWlOutput,
		registry.KindWlDataDeviceManager,
		registry.KindXdgWmBase,
	}
	for _, kind := range builtins {
		ctor, ok := protocol.NewObject[kind.String()]
		if !ok {
			log.Warn("no constructor registered for built-in global", "interface", kind.String())
			continue
		}
		h := reg.Insert(ctor())
		version := protocol.VersionFor(kind)
		if err := reg.MakeGlobal(h, kind.String(), version, noClientsYet{}, protocol.EmitRegistryGlobal); err != nil {
			log.Error("failed to advertise built-in global", "interface", kind.String(), "err", err)
		}
	}
}

// noClientsYet is the registry.Clients used while advertising globals
// before the gateway has accepted any connection: ForEach visits
// nothing, since MakeGlobal's broadcast only matters for clients that
// bind the registry after this point, which will replay every global
// from wl_display.get_registry anyway.
type noClientsYet struct{}

func (noClientsYet) ForEach(func(objects *registry.ClientObjects, send *wire.WriteBuf)) {}
