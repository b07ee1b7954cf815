package aivoice

import (
	"context"
	"fmt"
	"time"
)

// SynthesisRequest describes one call to Synthesize.
type SynthesisRequest struct {
	// Text is assigned to the host's text box.
	Text string

	// Voice is the voice name for a transient preset. Empty means the voice
	// of the first installed voice's preset.
	Voice string

	// Style raises one emotional style weight on the transient preset.
	Style Style

	// Fusion is attached to the transient preset when set.
	Fusion *FusionContainer

	// Preset replaces the transient preset entirely. Voice, Style and Fusion
	// are ignored when it is set.
	Preset *VoicePreset

	// Destination is where the host writes the audio. Empty means ./voice.wav.
	Destination string

	// Play makes the host play the audio instead of saving it. Synthesize
	// returns as soon as playback starts.
	Play bool
}

// ResolvePreset returns the preset Synthesize would push to the host for req.
func (c *Client) ResolvePreset(req SynthesisRequest) (VoicePreset, error) {
	return guardValue(c, "ResolvePreset", func() (VoicePreset, error) {
		return c.resolvePreset(req)
	})
}

func (c *Client) resolvePreset(req SynthesisRequest) (VoicePreset, error) {
	voice := req.Voice
	if voice == "" && req.Preset == nil {
		presets, err := c.voicePresets()
		if err != nil {
			return VoicePreset{}, err
		}

		if len(presets) == 0 {
			return VoicePreset{}, ErrNoVoices
		}

		voice = presets[0].VoiceName
	}

	if req.Preset != nil {
		return *req.Preset, nil
	}

	preset := NewVoicePreset(voice)
	if req.Fusion != nil {
		preset.MergedVoiceContainer = *req.Fusion
	}

	err := req.Style.apply(preset.Styles)
	if err != nil {
		return VoicePreset{}, err
	}

	return preset, nil
}

// Synthesize renders req.Text with the resolved preset. The preset is
// upserted and made current in the host before the text is assigned. There
// is no rollback: a failure after the upsert leaves the preset in the host.
func (c *Client) Synthesize(req SynthesisRequest) error {
	return c.guard("Synthesize", func() error {
		preset, err := c.resolvePreset(req)
		if err != nil {
			return err
		}

		err = c.setVoicePreset(preset)
		if err != nil {
			return err
		}

		err = c.host.SetCurrentVoicePresetName(preset.PresetName)
		if err != nil {
			return fmt.Errorf("failed to select preset %q: %w", preset.PresetName, err)
		}

		err = c.host.SetText(req.Text)
		if err != nil {
			return fmt.Errorf("failed to assign text: %w", err)
		}

		if req.Play {
			c.log.Info("Playing %d characters with preset %s", len([]rune(req.Text)), preset.PresetName)

			return c.host.Play()
		}

		destination := req.Destination
		if destination == "" {
			destination = defaultDestinationPath
		}

		c.log.Info("Saving %d characters with preset %s to %s", len([]rune(req.Text)), preset.PresetName, destination)

		return c.host.SaveAudioToFile(destination)
	})
}

// Wait blocks until the host is no longer BUSY. A timeout of zero or less
// waits indefinitely; cancelling ctx always stops the wait.
func (c *Client) Wait(ctx context.Context, timeout time.Duration) error {
	return c.guard("Wait", func() error {
		waitCtx := ctx

		if timeout > 0 {
			var cancel context.CancelFunc

			waitCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()

		for {
			status, err := c.Status()
			if err != nil {
				return err
			}

			if status != HostBusy {
				return nil
			}

			select {
			case <-waitCtx.Done():
				// the caller's own cancellation or deadline is reported as is
				if ctx.Err() != nil {
					return ctx.Err()
				}

				return fmt.Errorf("%w after %s", ErrWaitTimeout, timeout)
			case <-ticker.C:
			}
		}
	})
}
