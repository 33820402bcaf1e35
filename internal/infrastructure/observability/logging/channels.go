// Package logging provides structured logging channels for the town
// server, grounded on the teacher corpus's ChanneledLogger but cut down
// to this domain's concerns and stripped of multi-tenant/SSE plumbing
// that has no home here.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Channel is a logical logging channel for one system component.
type Channel string

const (
	ChannelSystem       Channel = "system"
	ChannelStartup      Channel = "startup"
	ChannelShutdown     Channel = "shutdown"
	ChannelRegistry     Channel = "registry"
	ChannelTown         Channel = "town"
	ChannelSession      Channel = "session"
	ChannelPlayer       Channel = "player"
	ChannelConversation Channel = "conversation"
	ChannelBroker       Channel = "broker"
	ChannelHTTP         Channel = "http"
	ChannelSocket       Channel = "socket"
)

var allChannels = []Channel{
	ChannelSystem, ChannelStartup, ChannelShutdown,
	ChannelRegistry, ChannelTown, ChannelSession, ChannelPlayer,
	ChannelConversation, ChannelBroker, ChannelHTTP, ChannelSocket,
}

// ChanneledLogger provides structured logging split across channels so a
// single slog.Level can be tuned per concern.
type ChanneledLogger struct {
	channels map[Channel]*slog.Logger
	config   *LoggerConfig
}

// LoggerConfig controls output and formatting for every channel.
type LoggerConfig struct {
	OutputToFile    bool
	OutputToConsole bool
	LogDirectory    string
	JSONFormat      bool
	DefaultLevel    slog.Level
}

// DefaultLoggerConfig returns console-only, human-readable logging at
// Info level, suitable for local development.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: true,
		LogDirectory:    "logs",
		JSONFormat:      false,
		DefaultLevel:    slog.LevelInfo,
	}
}

// NewChanneledLogger builds a logger for every channel under config. A
// nil config falls back to DefaultLoggerConfig.
func NewChanneledLogger(config *LoggerConfig) (*ChanneledLogger, error) {
	if config == nil {
		config = DefaultLoggerConfig()
	}

	if config.OutputToFile {
		if err := os.MkdirAll(config.LogDirectory, 0o755); err != nil {
			return nil, fmt.Errorf("logging: failed to create log directory: %w", err)
		}
	}

	logger := &ChanneledLogger{
		channels: make(map[Channel]*slog.Logger, len(allChannels)),
		config:   config,
	}

	for _, channel := range allChannels {
		channelLogger, err := logger.createChannelLogger(channel)
		if err != nil {
			return nil, fmt.Errorf("logging: failed to create logger for channel %s: %w", channel, err)
		}
		logger.channels[channel] = channelLogger
	}

	return logger, nil
}

func (cl *ChanneledLogger) createChannelLogger(channel Channel) (*slog.Logger, error) {
	var writers []io.Writer
	if cl.config.OutputToConsole {
		writers = append(writers, os.Stdout)
	}
	if cl.config.OutputToFile {
		path := filepath.Join(cl.config.LogDirectory, string(channel)+".log")
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logging: failed to open log file %s: %w", path, err)
		}
		writers = append(writers, file)
	}

	var writer io.Writer = os.Stdout
	switch len(writers) {
	case 0:
	case 1:
		writer = writers[0]
	default:
		writer = io.MultiWriter(writers...)
	}

	handlerOpts := &slog.HandlerOptions{Level: cl.config.DefaultLevel}
	var handler slog.Handler
	if cl.config.JSONFormat {
		handler = slog.NewJSONHandler(writer, handlerOpts)
	} else {
		handler = slog.NewTextHandler(writer, handlerOpts)
	}

	return slog.New(handler).With(slog.String("channel", string(channel))), nil
}

func (cl *ChanneledLogger) System() *slog.Logger       { return cl.channels[ChannelSystem] }
func (cl *ChanneledLogger) Startup() *slog.Logger      { return cl.channels[ChannelStartup] }
func (cl *ChanneledLogger) Shutdown() *slog.Logger     { return cl.channels[ChannelShutdown] }
func (cl *ChanneledLogger) Registry() *slog.Logger     { return cl.channels[ChannelRegistry] }
func (cl *ChanneledLogger) Town() *slog.Logger         { return cl.channels[ChannelTown] }
func (cl *ChanneledLogger) Session() *slog.Logger      { return cl.channels[ChannelSession] }
func (cl *ChanneledLogger) Player() *slog.Logger       { return cl.channels[ChannelPlayer] }
func (cl *ChanneledLogger) Conversation() *slog.Logger { return cl.channels[ChannelConversation] }
func (cl *ChanneledLogger) Broker() *slog.Logger       { return cl.channels[ChannelBroker] }
func (cl *ChanneledLogger) HTTP() *slog.Logger         { return cl.channels[ChannelHTTP] }
func (cl *ChanneledLogger) Socket() *slog.Logger       { return cl.channels[ChannelSocket] }

// GetChannel returns the logger for channel, falling back to System if
// channel is unrecognized.
func (cl *ChanneledLogger) GetChannel(channel Channel) *slog.Logger {
	if logger, exists := cl.channels[channel]; exists {
		return logger
	}
	return cl.channels[ChannelSystem]
}
