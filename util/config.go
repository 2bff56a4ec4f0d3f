package util

import (
	_ "embed"
	"fmt"
	"gopkg.in/yaml.v3"
	"log"
	"os"
	"strconv"
)

const Name = "deptadmin"
const ConfigFileName = "config.yaml"

//go:embed config_default.yaml
var embeddedConfig []byte

type AppConfig struct {
	Conf struct {
		ApiBaseUrl    string `yaml:"apiBaseUrl"`
		Host          string
		SshPort       int    `yaml:"sshPort"`
		HttpPort      int    `yaml:"httpPort"`
		TimeoutSec    int    `yaml:"timeoutSec"`
		AdminEmail    string `yaml:"adminEmail"`
		AdminPassword string `yaml:"adminPassword"`
	}
}

func ReadConf() (*AppConfig, error) {

	c := &AppConfig{}

	// Try to resolve config file path (local first, then user dir)
	configPath := ResolveFilePath(ConfigFileName)

	var buf []byte
	var err error

	// Try to read from resolved path
	buf, err = os.ReadFile(configPath)
	if err != nil {
		// If file doesn't exist, use embedded config and create user config file
		log.Printf("Config file not found at %s, using embedded defaults", configPath)
		buf = embeddedConfig

		// Try to write default config to user config directory
		configDir, dirErr := GetConfigDir()
		if dirErr == nil {
			userConfigPath := configDir + "/" + ConfigFileName
			writeErr := os.WriteFile(userConfigPath, embeddedConfig, 0644)
			if writeErr != nil {
				log.Printf("Warning: could not write default config to %s: %v", userConfigPath, writeErr)
			} else {
				log.Printf("Created default config file at %s", userConfigPath)
			}
		}
	}

	err = yaml.Unmarshal(buf, c)
	if err != nil {
		return nil, fmt.Errorf("in config file: %w", err)
	}

	envApiBaseUrl := os.Getenv("DEPTADMIN_APIBASEURL")
	envHost := os.Getenv("DEPTADMIN_HOST")
	envSshPort := os.Getenv("DEPTADMIN_SSHPORT")
	envHttpPort := os.Getenv("DEPTADMIN_HTTPPORT")
	envTimeoutSec := os.Getenv("DEPTADMIN_TIMEOUTSEC")
	envAdminEmail := os.Getenv("DEPTADMIN_ADMINEMAIL")
	envAdminPassword := os.Getenv("DEPTADMIN_ADMINPASSWORD")

	if envApiBaseUrl != "" {
		c.Conf.ApiBaseUrl = envApiBaseUrl
	}

	if envHost != "" {
		c.Conf.Host = envHost
	}

	if envSshPort != "" {
		v, err := strconv.Atoi(envSshPort)
		if err != nil {
			fmt.Println(err)
		}
		c.Conf.SshPort = v
	}

	if envHttpPort != "" {
		v, err := strconv.Atoi(envHttpPort)
		if err != nil {
			fmt.Println(err)
		}
		c.Conf.HttpPort = v
	}

	if envTimeoutSec != "" {
		v, err := strconv.Atoi(envTimeoutSec)
		if err != nil {
			fmt.Println(err)
		}
		c.Conf.TimeoutSec = v
	}

	if envAdminEmail != "" {
		c.Conf.AdminEmail = envAdminEmail
	}

	if envAdminPassword != "" {
		c.Conf.AdminPassword = envAdminPassword
	}

	return c, nil
}
