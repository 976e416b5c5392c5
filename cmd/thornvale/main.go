package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/thornvale/server/internal/config"
	"github.com/thornvale/server/internal/core/event"
	coresys "github.com/thornvale/server/internal/core/system"
	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/handler"
	"github.com/thornvale/server/internal/mobprog"
	gonet "github.com/thornvale/server/internal/net"
	"github.com/thornvale/server/internal/persist"
	"github.com/thornvale/server/internal/scripting"
	"github.com/thornvale/server/internal/system"
	"github.com/thornvale/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("THORNVALE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	fmt.Printf("\n  \033[36;1m%s\033[0m — a world of text\n\n", cfg.Server.Name)

	// 3. Load prototypes from the area list
	printSection("World data")

	reg := data.NewRegistry()
	loader := data.NewLoader(reg, log)
	if err := loader.LoadAreaList(cfg.Data.Dir, cfg.Data.AreaList); err != nil {
		return fmt.Errorf("load areas: %w", err)
	}
	printStat("Areas", len(reg.Areas))
	printStat("Rooms", len(reg.RoomVnums()))
	printStat("Mobiles", len(reg.MobVnums()))
	printStat("Objects", len(reg.ObjVnums()))
	printStat("Helps", reg.Helps.Count())

	lootPath := filepath.Join(cfg.Data.Dir, cfg.Data.LootFile)
	if _, err := os.Stat(lootPath); err == nil {
		if err := loader.LoadLootFile(lootPath); err != nil {
			return fmt.Errorf("load loot: %w", err)
		}
	}
	printStat("Loot groups", reg.Loot.GroupCount())
	printStat("Loot tables", reg.Loot.TableCount())

	socials, err := data.LoadSocialTable(filepath.Join(cfg.Data.Dir, cfg.Data.SocialFile))
	if err != nil {
		return fmt.Errorf("load socials: %w", err)
	}
	printStat("Socials", socials.Count())
	printStat("Interned strings", data.InternedCount())
	data.SealInternArena()

	// 4. Build the world and materialize singleton areas
	seed := time.Now().UnixNano()
	rng := rand.New(rand.NewSource(seed))
	bus := event.NewBus()
	w := world.NewWorld(reg, rng, bus, log)
	w.InstantiateAreas()
	for _, inst := range w.Instances {
		w.ResetInstance(inst)
	}
	printStat("Area instances", len(w.Instances))

	// 5. Script VM and note boards
	luaEngine, err := scripting.NewEngine(filepath.Join(cfg.Data.Dir, cfg.Data.ScriptDir), log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("Lua scripts loaded")

	notes := persist.NewNoteBoards(filepath.Join(cfg.Data.Dir, cfg.Data.NoteDir), log)
	if err := notes.LoadAll(); err != nil {
		return fmt.Errorf("load notes: %w", err)
	}
	players := persist.NewPlayerRepo(filepath.Join(cfg.Data.Dir, cfg.Data.PlayerDir), log)

	// 6. Command layer
	handler.BuildCommandTable()
	progs := &mobprog.Env{World: w, Log: log}
	deps := &handler.Deps{
		Config:    cfg,
		Log:       log,
		World:     w,
		Reg:       reg,
		Loader:    loader,
		Socials:   socials,
		Progs:     progs,
		Scripting: luaEngine,
		Players:   players,
		Notes:     notes,
		Bus:       bus,
	}
	deps.Wire()

	// Admin observability through the event bus.
	event.Subscribe(bus, func(ev event.MobKilled) {
		log.Debug("event: MobKilled",
			zap.Int32("vnum", ev.VictimVnum),
			zap.String("killer", ev.KillerName),
			zap.Int32("room", ev.RoomVnum),
		)
	})
	event.Subscribe(bus, func(ev event.AreaReset) {
		log.Debug("event: AreaReset", zap.String("area", ev.AreaName))
		w.Wiznet(ev.AreaName+" has just been reset.", nil, nil, data.WizResets, 0, 0)
	})
	event.Subscribe(bus, func(ev event.PlayerLogin) {
		log.Info("event: PlayerLogin",
			zap.String("name", ev.Name), zap.String("host", ev.Host))
	})
	event.Subscribe(bus, func(ev event.InstanceDestroyed) {
		log.Debug("event: InstanceDestroyed",
			zap.String("area", ev.AreaName), zap.String("owner", ev.Owner))
	})

	// 7. Network listeners
	printSection("Network")
	netServer := gonet.NewServer(cfg.Network.InQueueSize, cfg.Network.OutQueueSize, log)
	if err := netServer.Listen(cfg.Network.BindAddress); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	if cfg.Network.TLSBindAddress != "" {
		if err := netServer.ListenTLS(cfg.Network.TLSBindAddress,
			cfg.Network.TLSCert, cfg.Network.TLSKey); err != nil {
			return fmt.Errorf("listen tls: %w", err)
		}
		printOK("TLS listener up")
	}
	netServer.AcceptLoops()

	// 8. Register systems with the runner
	runner := coresys.NewRunner()
	runner.Register(system.NewInputSystem(deps, netServer))
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewViolenceSystem(deps))
	runner.Register(system.NewMobileAISystem(deps))
	runner.Register(system.NewTickSystem(deps))
	runner.Register(system.NewResetSystem(deps))
	runner.Register(system.NewOutputSystem(deps))
	runner.Register(system.NewSaveSystem(deps))
	runner.Register(system.NewCleanupSystem(deps))

	// 9. The heartbeat
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	stopCh := make(chan struct{}, 1)
	deps.Shutdown = func() {
		select {
		case stopCh <- struct{}{}:
		default:
		}
	}

	pulse := time.NewTicker(cfg.Game.PulseLength)
	defer pulse.Stop()

	printSection("Server ready")
	printReady("Listening on " + netServer.Addr())
	printReady(fmt.Sprintf("Heartbeat started (pulse: %s)", cfg.Game.PulseLength))
	fmt.Println()

	for {
		select {
		case <-pulse.C:
			runner.Tick(cfg.Game.PulseLength)
			if w.Down {
				netServer.Shutdown()
				log.Info("server stopped")
				return nil
			}
		case <-stopCh:
			netServer.Shutdown()
			log.Info("server stopped")
			return nil
		case sig := <-shutdownCh:
			log.Info("received shutdown signal", zap.String("signal", sig.String()))
			saveAllPlayers(deps)
			netServer.Shutdown()
			log.Info("server stopped")
			return nil
		}
	}
}

// saveAllPlayers writes every logged-in character before exit.
func saveAllPlayers(deps *handler.Deps) {
	for _, desc := range deps.World.Descriptors {
		if desc.State == world.ConPlaying && desc.Char != nil {
			if err := deps.Players.Save(desc.Char); err != nil {
				deps.Log.Warn("shutdown save failed",
					zap.String("name", desc.Char.Name), zap.Error(err))
			}
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{"stderr", cfg.File}
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
