// Package core defines the core business logic and interfaces for the aivoice-service.
package core

import (
	"context"
	"time"

	"github.com/book-expert/aivoice-service/aivoice"
)

// ObjectStore defines the interface for interacting with a key-value blob store.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
}

// TTSConfig holds the configuration for a single synthesis job.
// This allows for per-request customization of the rendered voice.
type TTSConfig struct {
	Voice       string
	Style       aivoice.Style
	WaitTimeout time.Duration
}

// TTSProcessor defines the interface for a text-to-speech processing engine.
type TTSProcessor interface {
	Process(ctx context.Context, text []byte, cfg TTSConfig) ([]byte, error)
	VoiceNames() ([]string, error)
	HostStatus() (aivoice.HostStatus, error)
	GetConfig() TTSConfig
}
