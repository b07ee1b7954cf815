// Package audio inspects and validates the audio files written by the host program.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cwbudde/wav"
)

// Constants for supported bit depths.
const (
	BIT_DEPTH_8  = 8
	BIT_DEPTH_16 = 16
	BIT_DEPTH_24 = 24
	BIT_DEPTH_32 = 32
)

// Constants for validation limits.
const (
	MAX_SAMPLE_RATE = 192000
	MAX_CHANNELS    = 8
)

// Constants for error messages and formats.
const (
	ERR_FMT_SAMPLE_RATE_RANGE = "%w: sample rate must be between 1 and %d Hz, got %d"
	ERR_FMT_BIT_DEPTH_VALUES  = "%w: bit depth must be 8, 16, 24, or 32, got %d"
	ERR_FMT_CHANNELS_RANGE    = "%w: channels must be between 1 and %d, got %d"
)

// Common errors for the audio package.
var (
	ErrInvalidAudio = errors.New("invalid audio")
	ErrEmptyAudio   = errors.New("audio file is empty")
)

// Format represents supported audio formats.
type Format string

const (
	FORMAT_WAV Format = "wav"
)

// Info describes a rendered audio file.
type Info struct {
	Format     Format
	SampleRate int
	BitDepth   int
	Channels   int
	FileSize   int64
	Duration   time.Duration
}

// InspectFile reads the WAV file at path and returns its metadata.
func InspectFile(path string) (Info, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, nil, fmt.Errorf("failed to read audio file %s: %w", path, err)
	}

	info, err := Inspect(data)
	if err != nil {
		return Info{}, nil, fmt.Errorf("audio file %s: %w", path, err)
	}

	return info, data, nil
}

// Inspect parses the WAV header in data and validates it.
func Inspect(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, ErrEmptyAudio
	}

	dec := wav.NewDecoder(bytes.NewReader(data))
	dec.ReadInfo()

	if dec.Err() != nil {
		return Info{}, fmt.Errorf("%w: not a readable WAV file: %w", ErrInvalidAudio, dec.Err())
	}

	info := Info{
		Format:     FORMAT_WAV,
		SampleRate: int(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
		Channels:   int(dec.NumChans),
		FileSize:   int64(len(data)),
	}

	err := info.Validate()
	if err != nil {
		return Info{}, err
	}

	info.Duration = estimateDuration(info)

	return info, nil
}

// Validate checks that the header values are within reasonable bounds.
func (i Info) Validate() error {
	sampleRateErr := validateSampleRate(i.SampleRate)
	if sampleRateErr != nil {
		return sampleRateErr
	}

	bitDepthErr := validateBitDepth(i.BitDepth)
	if bitDepthErr != nil {
		return bitDepthErr
	}

	channelsErr := validateChannels(i.Channels)
	if channelsErr != nil {
		return channelsErr
	}

	return nil
}

// wavHeaderSize is the canonical PCM header length.
const wavHeaderSize = 44

// estimateDuration assumes a canonical PCM layout.
func estimateDuration(i Info) time.Duration {
	bytesPerSecond := int64(i.SampleRate * i.Channels * i.BitDepth / 8)
	if bytesPerSecond == 0 || i.FileSize <= wavHeaderSize {
		return 0
	}

	return time.Duration((i.FileSize - wavHeaderSize) * int64(time.Second) / bytesPerSecond)
}

//
// Validation Helpers
//

func validateSampleRate(sampleRate int) error {
	if sampleRate <= 0 || sampleRate > MAX_SAMPLE_RATE {
		return fmt.Errorf(ERR_FMT_SAMPLE_RATE_RANGE, ErrInvalidAudio, MAX_SAMPLE_RATE, sampleRate)
	}

	return nil
}

func validateBitDepth(bitDepth int) error {
	switch bitDepth {
	case BIT_DEPTH_8, BIT_DEPTH_16, BIT_DEPTH_24, BIT_DEPTH_32:
		return nil
	default:
		return fmt.Errorf(ERR_FMT_BIT_DEPTH_VALUES, ErrInvalidAudio, bitDepth)
	}
}

func validateChannels(channels int) error {
	if channels <= 0 || channels > MAX_CHANNELS {
		return fmt.Errorf(ERR_FMT_CHANNELS_RANGE, ErrInvalidAudio, MAX_CHANNELS, channels)
	}

	return nil
}
