package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"client_id"`
		Topic    string `yaml:"topic"`
		QoS      byte   `yaml:"qos"`
		Retain   bool   `yaml:"retain"`
	} `yaml:"mqtt"`
	Scene     string `yaml:"scene"`
	PrefabDir string `yaml:"prefab_dir"`
	// Rate is frames published per second.
	Rate int `yaml:"rate"`
}

func defaultConfig() Config {
	var c Config
	c.Mqtt.URL = "tcp://localhost:1883"
	c.Mqtt.ClientID = "animstream"
	c.Mqtt.Topic = "keyframe/frames"
	c.Scene = "demo_scene.yaml"
	c.PrefabDir = "prefabs"
	c.Rate = 30
	return c
}

func readConfig(path string) (Config, error) {
	c := defaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&c); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func (c Config) validate() error {
	if c.Mqtt.URL == "" {
		return fmt.Errorf("mqtt.url is required")
	}
	if c.Mqtt.Topic == "" {
		return fmt.Errorf("mqtt.topic is required")
	}
	if c.Mqtt.QoS > 2 {
		return fmt.Errorf("mqtt.qos %d: want 0, 1 or 2", c.Mqtt.QoS)
	}
	if c.Rate <= 0 {
		return fmt.Errorf("rate %d: want > 0", c.Rate)
	}
	return nil
}

func (c Config) interval() time.Duration {
	return time.Second / time.Duration(c.Rate)
}
