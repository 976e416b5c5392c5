package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Network NetworkConfig `toml:"network"`
	Game    GameConfig    `toml:"game"`
	Logging LoggingConfig `toml:"logging"`
}

type ServerConfig struct {
	Name      string `toml:"name"`
	StartTime int64  // set at boot, not from config
}

type DataConfig struct {
	Dir        string `toml:"dir"`         // base data directory
	AreaList   string `toml:"area_list"`   // area list filename inside Dir
	LootFile   string `toml:"loot_file"`   // global loot file inside Dir
	SocialFile string `toml:"social_file"` // socials table inside Dir
	PlayerDir  string `toml:"player_dir"`  // player save files
	NoteDir    string `toml:"note_dir"`    // note boards
	ScriptDir  string `toml:"script_dir"`  // lua scripts
}

type NetworkConfig struct {
	BindAddress    string        `toml:"bind_address"`
	TLSBindAddress string        `toml:"tls_bind_address"` // empty = no TLS listener
	TLSCert        string        `toml:"tls_cert"`
	TLSKey         string        `toml:"tls_key"`
	InQueueSize    int           `toml:"in_queue_size"`
	OutQueueSize   int           `toml:"out_queue_size"`
	WriteTimeout   time.Duration `toml:"write_timeout"`
}

type GameConfig struct {
	PulseLength   time.Duration `toml:"pulse_length"`   // one scheduler pulse
	ResetInterval int           `toml:"reset_interval"` // default area reset, in minutes
	RecallVnum    int           `toml:"recall_vnum"`
	SchoolVnum    int           `toml:"school_vnum"`
	IdleVoid      int           `toml:"idle_void"`     // ticks before an idle PC is voided
	IdlePurge     int           `toml:"idle_purge"`    // ticks before the descriptor is closed
	AutosaveMins  int           `toml:"autosave_mins"` // minutes between autosaves
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // primary log path ("" = stderr only)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "Thornvale",
		},
		Data: DataConfig{
			Dir:        "data",
			AreaList:   "area.lst",
			LootFile:   "loot.lst",
			SocialFile: "socials.yaml",
			PlayerDir:  "players",
			NoteDir:    "notes",
			ScriptDir:  "scripts",
		},
		Network: NetworkConfig{
			BindAddress:  "0.0.0.0:4000",
			InQueueSize:  32,
			OutQueueSize: 128,
			WriteTimeout: 10 * time.Second,
		},
		Game: GameConfig{
			PulseLength:   250 * time.Millisecond,
			ResetInterval: 15,
			RecallVnum:    3001,
			SchoolVnum:    3700,
			IdleVoid:      12,
			IdlePurge:     28,
			AutosaveMins:  5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
