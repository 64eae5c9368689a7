package config

import "github.com/caarlos0/env/v11"

// CLIConfig drives the local terminal table.
type CLIConfig struct {
	Channel     string `env:"CLI_CHANNEL" envDefault:"CLI"`
	LeaguesPath string `env:"LEAGUES_PATH"`
	MinPlayers  int    `env:"MIN_PLAYERS" envDefault:"2"`
	MaxPlayers  int    `env:"MAX_PLAYERS" envDefault:"0"`
	Rounds      int    `env:"BETTING_ROUNDS" envDefault:"4"`
}

func LoadCLI() (CLIConfig, error) {
	var cfg CLIConfig
	err := env.Parse(&cfg)
	return cfg, err
}
