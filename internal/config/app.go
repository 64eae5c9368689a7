package config

import "time"

type AppConfig struct {
	Server ServerConfig
	Log    LogConfig
}

// LoadApp loads the log config first so a bad server config can be reported
// through the configured logger.
func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{Log: logCfg}, err
	}
	return AppConfig{Server: serverCfg, Log: logCfg}, nil
}

func (c ServerConfig) StoreRetryBase() time.Duration {
	return time.Duration(c.StoreRetryBaseMS) * time.Millisecond
}

func (c ServerConfig) TurnTimeout() time.Duration {
	return time.Duration(c.TurnTimeoutSeconds) * time.Second
}
