// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that call arXiv.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-mcp/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ArxivConfig holds settings for the arXiv client.
type ArxivConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults caps the number of search results returned (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MaxRetries is the number of retry attempts for transient HTTP
	// failures (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// StoreConfig holds settings for the local paper store.
type StoreConfig struct {
	// RootDir is the base directory for downloaded papers. Each paper
	// gets a subdirectory keyed by its identifier.
	RootDir string `json:"root_dir" yaml:"root_dir"`
}

// ServerConfig holds settings for the MCP server surface.
type ServerConfig struct {
	// Transport selects the wire transport: stdio, http, or sse.
	Transport string `json:"transport" yaml:"transport"`

	// Addr is the listen address for the http and sse transports.
	Addr string `json:"addr" yaml:"addr"`
}

// Config groups all component configurations.
type Config struct {
	Arxiv  ArxivConfig  `json:"arxiv" yaml:"arxiv"`
	Store  StoreConfig  `json:"store" yaml:"store"`
	Server ServerConfig `json:"server" yaml:"server"`
}
