package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "labs.yaml"

// Config is the settings shared by both labs and labctl.
type Config struct {
	Log  LogConfig  `yaml:"log"`
	Lab1 Lab1Config `yaml:"lab1"`
	Lab2 Lab2Config `yaml:"lab2"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Lab1Config struct {
	Listen string `yaml:"listen"`
	DBPath string `yaml:"db_path"`
}

type Lab2Config struct {
	Listen    string          `yaml:"listen"`
	Neo4j     Neo4jConfig     `yaml:"neo4j"`
	Connect   ConnectConfig   `yaml:"connect"`
	Container ContainerConfig `yaml:"container"`
	Features  FeaturesConfig  `yaml:"features"`
}

type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// ConnectConfig bounds the startup wait for Neo4j.
type ConnectConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Delay       time.Duration `yaml:"delay"`
}

// ContainerConfig describes the Neo4j container labctl manages.
type ContainerConfig struct {
	Name     string `yaml:"name"`
	Image    string `yaml:"image"`
	Platform string `yaml:"platform"`
	Volume   string `yaml:"volume"`
	BoltPort string `yaml:"bolt_port"`
	HTTPPort string `yaml:"http_port"`
}

type FeaturesConfig struct {
	Tags *bool `yaml:"tags"`
}

// TagsEnabled defaults to true when the key is absent.
func (f FeaturesConfig) TagsEnabled() bool {
	return f.Tags == nil || *f.Tags
}

func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Lab1: Lab1Config{
			Listen: ":8101",
			DBPath: "./data/lab1.db",
		},
		Lab2: Lab2Config{
			Listen: ":8102",
			Neo4j: Neo4jConfig{
				URI:      "neo4j://localhost:7687",
				Username: "neo4j",
				Password: "password",
			},
			Connect: ConnectConfig{MaxAttempts: 10, Delay: 5 * time.Second},
			Container: ContainerConfig{
				Name:     "inventory-lab-neo4j",
				Image:    "neo4j:5",
				Platform: "linux/amd64",
				Volume:   "inventory-lab-neo4j-data",
				BoltPort: "7687",
				HTTPPort: "7474",
			},
		},
	}
}

// Load reads path on top of the defaults, then applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// PathFromEnv returns LAB_CONFIG or the default file name.
func PathFromEnv() string {
	return getEnv("LAB_CONFIG", DefaultPath)
}

func (c *Config) applyEnv() error {
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)

	c.Lab1.Listen = getEnv("LAB1_LISTEN", c.Lab1.Listen)
	c.Lab1.DBPath = getEnv("LAB1_DB_PATH", c.Lab1.DBPath)

	c.Lab2.Listen = getEnv("LAB2_LISTEN", c.Lab2.Listen)
	c.Lab2.Neo4j.URI = getEnv("NEO4J_URI", c.Lab2.Neo4j.URI)
	c.Lab2.Neo4j.Username = getEnv("NEO4J_USERNAME", c.Lab2.Neo4j.Username)
	c.Lab2.Neo4j.Password = getEnv("NEO4J_PASSWORD", c.Lab2.Neo4j.Password)

	if v, ok := os.LookupEnv("LAB2_TAGS"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LAB2_TAGS %q: %w", v, err)
		}
		c.Lab2.Features.Tags = &enabled
	}
	return nil
}

// applyDefaults fills in values a partial file left empty.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Lab2.Connect.MaxAttempts <= 0 {
		c.Lab2.Connect.MaxAttempts = d.Lab2.Connect.MaxAttempts
	}
	if c.Lab2.Connect.Delay <= 0 {
		c.Lab2.Connect.Delay = d.Lab2.Connect.Delay
	}
	if c.Lab2.Container.Image == "" {
		c.Lab2.Container.Image = d.Lab2.Container.Image
	}
	if c.Lab2.Container.Name == "" {
		c.Lab2.Container.Name = d.Lab2.Container.Name
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
