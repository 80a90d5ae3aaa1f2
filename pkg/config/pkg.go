package config

import (
	"os"
	"path/filepath"

	"github.com/apex/log"
)

var configer Configer = &DotenvConfig{}

func SetConfig(c Configer) {
	configer = c
}

func GetConfig() Configer {
	return configer
}

// MustLoadFromDotenv loads config from the .env file in the current working
// directory, or from the path in MP_DOTENV_PATH if set. The dotenv file is
// optional: when it doesn't exist config falls back to the process environment.
func MustLoadFromDotenv() Configer {
	path := os.Getenv("MP_DOTENV_PATH")
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			log.Fatalf("Unable to determine working directory: %s", err)
		}
		path = filepath.Join(cwd, ".env")
	}

	if _, err := os.Stat(path); err != nil {
		// No dotenv file, use environment as-is.
		return configer
	}

	if err := LoadFromPath(path); err != nil {
		log.Fatalf("Unable to load config from %s: %s", path, err)
	}

	return configer
}

func LoadFromPath(path string) error {
	return configer.LoadFromPath(path)
}

func Load() error {
	return configer.Load()
}

func GetKey(key string) string {
	return configer.GetKey(key)
}

func MustGetKey(key string) string {
	return configer.MustGetKey(key)
}

func GetKeyWithDefault(key, defaultValue string) string {
	return configer.GetKeyWithDefault(key, defaultValue)
}

func GetIntKeyWithDefault(key string, defaultValue int) int {
	return configer.GetIntKeyWithDefault(key, defaultValue)
}
