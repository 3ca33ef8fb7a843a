// Package config describes how a host brings up a debugger serial transport:
// which registered driver, the port descriptor, how hardware waits are
// bounded, stream buffering and, for the simulator, the modelled engine.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

// Config is loaded from JSON or YAML.
type Config struct {
	Transport string       `json:"transport" yaml:"transport"`
	Port      PortConfig   `json:"port" yaml:"port"`
	Wait      WaitConfig   `json:"wait" yaml:"wait"`
	Stream    StreamConfig `json:"stream" yaml:"stream"`
	Sim       SimConfig    `json:"sim" yaml:"sim"`
}

// PortConfig seeds the port descriptor.
type PortConfig struct {
	Address uint64 `json:"address" yaml:"address"` // 0 selects the simulator default
	Baud    uint32 `json:"baud" yaml:"baud"`
}

// WaitConfig bounds hardware waits. Polls == 0 sets no poll budget.
type WaitConfig struct {
	Polls int `json:"polls" yaml:"polls"`
}

// StreamConfig sizes the host receive ring and idle poll period.
type StreamConfig struct {
	RxSize int `json:"rx_size" yaml:"rx_size"`
	PollUS int `json:"poll_us" yaml:"poll_us"` // 0: one character time
}

// SimConfig sizes the simulated serial engine.
type SimConfig struct {
	TxFifoDepth uint32 `json:"tx_fifo_depth" yaml:"tx_fifo_depth"`
	RxFifoDepth uint32 `json:"rx_fifo_depth" yaml:"rx_fifo_depth"`
	Loopback    bool   `json:"loopback" yaml:"loopback"`
}

var (
	ErrNoTransport    = errors.New("transport must be set")
	ErrBaudZero       = errors.New("port.baud must be non-zero")
	ErrNegativePolls  = errors.New("wait.polls must be >= 0")
	ErrRxFifoTooSmall = errors.New("sim.rx_fifo_depth must be >= 8 words")
	ErrNegativeStream = errors.New("stream sizes must be >= 0")
)

// Default returns a loopback simulator configuration at 115200 baud.
func Default() Config {
	return Config{
		Transport: "qcom-geni-uart",
		Port:      PortConfig{Baud: 115200},
		Stream:    StreamConfig{RxSize: 512},
		Sim:       SimConfig{TxFifoDepth: 16, RxFifoDepth: 16, Loopback: true},
	}
}

// Validate checks fields the host relies on.
func (c Config) Validate() error {
	if c.Transport == "" {
		return ErrNoTransport
	}
	if c.Port.Baud == 0 {
		return ErrBaudZero
	}
	if c.Wait.Polls < 0 {
		return ErrNegativePolls
	}
	if c.Stream.RxSize < 0 || c.Stream.PollUS < 0 {
		return ErrNegativeStream
	}
	// The RX watermarks are programmed as depth-8 and depth-4 words.
	if c.Sim.RxFifoDepth != 0 && c.Sim.RxFifoDepth < 8 {
		return ErrRxFifoTooSmall
	}
	return nil
}

// Parse decodes b over the defaults. isYAML selects the YAML decoder.
func Parse(b []byte, isYAML bool) (Config, error) {
	c := Default()
	var err error
	if isYAML {
		err = yaml.UnmarshalStrict(b, &c)
	} else {
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		err = dec.Decode(&c)
	}
	if err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

// Load reads path; .yaml and .yml files are YAML, anything else JSON.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return Parse(b, true)
	default:
		return Parse(b, false)
	}
}
