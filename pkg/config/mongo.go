package config

import (
	"fmt"
	"strings"
	"time"
)

type MongoConfig struct {
	URL      string        `koanf:"url"`
	Database string        `koanf:"database"`
	Timeout  time.Duration `koanf:"timeout"`
}

func (c *MongoConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("mongo URL is not configured")
	}
	if !isValidMongoURL(c.URL) {
		return fmt.Errorf("mongo URL must start with 'mongodb://': %s", c.URL)
	}
	if c.Database == "" {
		return fmt.Errorf("mongo database name is not configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("mongo connect timeout is not configured")
	}
	return nil
}

// isValidMongoURL checks if the provided URL is a valid MongoDB connection string
func isValidMongoURL(url string) bool {
	return strings.HasPrefix(url, "mongodb://") ||
		strings.HasPrefix(url, "mongodb+srv://")
}
