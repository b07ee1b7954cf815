// Package tts implements core.TTSProcessor on top of the host program.
package tts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/book-expert/aivoice-service/aivoice"
	"github.com/book-expert/aivoice-service/internal/audio"
	"github.com/book-expert/aivoice-service/internal/core"
	"github.com/book-expert/aivoice-service/internal/fileutil"
	"github.com/book-expert/aivoice-service/internal/tts/text"
	"github.com/book-expert/logger"
)

const (
	tempDirPattern = "aivoice-render-*"
	outputFileName = "voice.wav"
)

// ErrEmptyText is returned when nothing speakable is left after preprocessing.
var ErrEmptyText = errors.New("text is empty after preprocessing")

// Synthesizer is the part of aivoice.Client the processor drives.
type Synthesizer interface {
	Synthesize(req aivoice.SynthesisRequest) error
	Wait(ctx context.Context, timeout time.Duration) error
	VoiceNames() ([]string, error)
	Status() (aivoice.HostStatus, error)
}

// Processor renders text to WAV bytes through a Synthesizer. The host holds one
// text buffer, so renders are serialized.
type Processor struct {
	mu           sync.Mutex
	synthesizer  Synthesizer
	config       core.TTSConfig
	preprocessor *text.Preprocessor
	tempDir      string
	log          *logger.Logger
}

// New creates a Processor. cfg supplies the defaults for requests that leave fields
// empty; tempDir may be empty to use the system temp directory.
func New(synthesizer Synthesizer, cfg core.TTSConfig, tempDir string, log *logger.Logger) *Processor {
	return &Processor{
		synthesizer:  synthesizer,
		config:       cfg,
		preprocessor: text.NewPreprocessor(),
		tempDir:      tempDir,
		log:          log,
	}
}

// GetConfig returns the default synthesis configuration.
func (p *Processor) GetConfig() core.TTSConfig {
	return p.config
}

// VoiceNames returns the voices installed in the host.
func (p *Processor) VoiceNames() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	names, err := p.synthesizer.VoiceNames()
	if err != nil {
		return nil, fmt.Errorf("failed to list host voices: %w", err)
	}

	return names, nil
}

// HostStatus returns the live host status.
func (p *Processor) HostStatus() (aivoice.HostStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.synthesizer.Status()
}

// Process renders input and returns the WAV file the host wrote.
func (p *Processor) Process(ctx context.Context, input []byte, cfg core.TTSConfig) ([]byte, error) {
	cleaned := p.preprocessor.PreprocessText(string(input))
	if strings.TrimSpace(cleaned) == "" {
		return nil, ErrEmptyText
	}

	cfg = p.withDefaults(cfg)

	p.mu.Lock()
	defer p.mu.Unlock()

	workDir, err := os.MkdirTemp(p.tempDir, tempDirPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir for tts output: %w", err)
	}

	defer func() {
		removeErr := os.RemoveAll(workDir)
		if removeErr != nil {
			p.log.Warn("Failed to remove temp dir '%s': %v", workDir, removeErr)
		}
	}()

	outputPath := filepath.Join(workDir, outputFileName)
	started := time.Now()

	err = p.synthesizer.Synthesize(aivoice.SynthesisRequest{
		Text:        cleaned,
		Voice:       cfg.Voice,
		Style:       cfg.Style,
		Destination: outputPath,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesis failed: %w", err)
	}

	err = p.synthesizer.Wait(ctx, cfg.WaitTimeout)
	if err != nil {
		return nil, fmt.Errorf("waiting for the host failed: %w", err)
	}

	info, audioData, err := audio.InspectFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("host produced unusable audio: %w", err)
	}

	p.log.Info("Rendered %d characters with voice %q (%s): %s, %s of audio in %s",
		len([]rune(cleaned)), cfg.Voice, cfg.Style,
		fileutil.FormatFileSize(info.FileSize),
		fileutil.FormatDuration(info.Duration.Seconds()),
		fileutil.FormatDuration(time.Since(started).Seconds()))

	return audioData, nil
}

func (p *Processor) withDefaults(cfg core.TTSConfig) core.TTSConfig {
	if cfg.Voice == "" {
		cfg.Voice = p.config.Voice
	}

	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = p.config.WaitTimeout
	}

	return cfg
}
