package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/hoshinonyaruko/torus-snake/session"
	"github.com/hoshinonyaruko/torus-snake/snake"
	"github.com/hoshinonyaruko/torus-snake/structs"
)

// AppConfig holds the structure of the configuration
type AppConfig struct {
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	TickRate         int    `json:"tick_rate"`
	InitialDirection string `json:"initial_direction"`
	Growth           string `json:"growth"`
	Seed             int64  `json:"seed"`
	Port             string `json:"port"`
	Blocksize        int    `json:"blocksize"`
	SkinsDir         string `json:"skins_dir"`
	DBPath           string `json:"db_path"`
	LogPath          string `json:"log_path"`
	LogLevel         string `json:"log_level"`
	Sound            bool   `json:"sound"`
}

var (
	instance *AppConfig
	loadErr  error
	once     sync.Once
	mu       sync.RWMutex
)

// Default returns the built-in settings.
func Default() *AppConfig {
	return &AppConfig{
		Width:            32,
		Height:           24,
		TickRate:         session.DefaultTickRate,
		InitialDirection: "up",
		Growth:           "double",
		Port:             "38870",
		Blocksize:        20,
		SkinsDir:         "./skins",
		DBPath:           "game.db",
		LogPath:          "snake.log",
		LogLevel:         "info",
	}
}

// LoadConfig initializes and returns the instance of AppConfig.
// A missing file is created with the defaults.
func LoadConfig(filePath string) (*AppConfig, error) {
	once.Do(func() {
		cfg := Default()
		// Load the config file if it exists, otherwise create one
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			loadErr = saveConfig(filePath, cfg)
		} else {
			cfg, loadErr = ReadFile(filePath)
		}
		if loadErr == nil {
			set(cfg)
		}
	})
	return Get(), loadErr
}

// ReadFile decodes filePath over the defaults and validates the result.
func ReadFile(filePath string) (*AppConfig, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Default()
	if err := json.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filePath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return cfg, nil
}

// saveConfig saves the current settings to the file
func saveConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}

// Get returns the current configuration. It is nil before LoadConfig.
func Get() *AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

func set(cfg *AppConfig) {
	mu.Lock()
	instance = cfg
	mu.Unlock()
}

// Validate checks ranges and enum values.
func (c *AppConfig) Validate() error {
	if c.Width < snake.MinFieldSize || c.Height < snake.MinFieldSize {
		return fmt.Errorf("field %dx%d is too small", c.Width, c.Height)
	}
	if c.TickRate < 1 || c.TickRate > 120 {
		return fmt.Errorf("tick_rate %d out of range 1..120", c.TickRate)
	}
	if _, err := c.Direction(); err != nil {
		return err
	}
	if c.InitialDirection != "up" && c.InitialDirection != "right" {
		return fmt.Errorf("initial_direction must be up or right, got %q", c.InitialDirection)
	}
	if _, err := snake.ParseGrowthMode(c.Growth); err != nil {
		return err
	}
	if c.Blocksize < 4 {
		return fmt.Errorf("blocksize %d too small", c.Blocksize)
	}
	field := snake.NewField(c.Width, c.Height)
	for _, p := range snake.InitialBody {
		if !field.Contains(p) {
			return fmt.Errorf("initial body %v does not fit a %dx%d field", p, c.Width, c.Height)
		}
	}
	return nil
}

// Direction parses InitialDirection.
func (c *AppConfig) Direction() (structs.Direction, error) {
	return structs.ParseDirection(c.InitialDirection)
}

// Session builds the game settings from the file settings.
func (c *AppConfig) Session() session.Config {
	dir, _ := c.Direction()
	growth, _ := snake.ParseGrowthMode(c.Growth)
	return session.Config{
		Width:            c.Width,
		Height:           c.Height,
		InitialBody:      snake.InitialBody,
		InitialDirection: dir,
		Growth:           growth,
		Seed:             c.Seed,
	}
}
