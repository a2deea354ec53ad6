package config

// DefaultPasswordLength is the generated-password length used when no
// explicit length is requested.
const DefaultPasswordLength = 16

// Defaults returns the default configuration. A partial config.yaml is
// unmarshaled on top of this, so every field here must be a sane
// out-of-the-box value.
func Defaults() *Config {
	home := DefaultHome()
	return &Config{
		Version:   1,
		Home:      home,
		WalletDir: home + "/wallet",
		BackupDir: home + "/backups",
		Language:  "en",
		Password: PasswordConfig{
			Length: DefaultPasswordLength,
			Clever: false,
		},
		Retention: RetentionConfig{
			MinKeep:    5,
			MaxAgeDays: 30,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  home + "/nsvault.log",
		},
	}
}
