//go:build !windows

package comhost

// Host is unavailable outside Windows.
type Host struct{}

// New always fails with ErrUnsupportedPlatform.
func New() (*Host, error) {
	return nil, ErrUnsupportedPlatform
}

// Close is a no-op.
func (h *Host) Close() error { return nil }

// Status always fails with ErrUnsupportedPlatform.
func (h *Host) Status() (int, error) { return 0, ErrUnsupportedPlatform }

// StartHost always fails with ErrUnsupportedPlatform.
func (h *Host) StartHost() error { return ErrUnsupportedPlatform }

// Connect always fails with ErrUnsupportedPlatform.
func (h *Host) Connect() error { return ErrUnsupportedPlatform }

// TerminateHost always fails with ErrUnsupportedPlatform.
func (h *Host) TerminateHost() error { return ErrUnsupportedPlatform }

// GetAvailableHostNames always fails with ErrUnsupportedPlatform.
func (h *Host) GetAvailableHostNames() ([]string, error) { return nil, ErrUnsupportedPlatform }

// Initialize always fails with ErrUnsupportedPlatform.
func (h *Host) Initialize(string) error { return ErrUnsupportedPlatform }

// Version always fails with ErrUnsupportedPlatform.
func (h *Host) Version() (string, error) { return "", ErrUnsupportedPlatform }

// VoiceNames always fails with ErrUnsupportedPlatform.
func (h *Host) VoiceNames() ([]string, error) { return nil, ErrUnsupportedPlatform }

// GetVoicePreset always fails with ErrUnsupportedPlatform.
func (h *Host) GetVoicePreset(string) (string, error) { return "", ErrUnsupportedPlatform }

// SetVoicePreset always fails with ErrUnsupportedPlatform.
func (h *Host) SetVoicePreset(string) error { return ErrUnsupportedPlatform }

// AddVoicePreset always fails with ErrUnsupportedPlatform.
func (h *Host) AddVoicePreset(string) error { return ErrUnsupportedPlatform }

// MasterControl always fails with ErrUnsupportedPlatform.
func (h *Host) MasterControl() (string, error) { return "", ErrUnsupportedPlatform }

// SetMasterControl always fails with ErrUnsupportedPlatform.
func (h *Host) SetMasterControl(string) error { return ErrUnsupportedPlatform }

// SetCurrentVoicePresetName always fails with ErrUnsupportedPlatform.
func (h *Host) SetCurrentVoicePresetName(string) error { return ErrUnsupportedPlatform }

// SetText always fails with ErrUnsupportedPlatform.
func (h *Host) SetText(string) error { return ErrUnsupportedPlatform }

// Play always fails with ErrUnsupportedPlatform.
func (h *Host) Play() error { return ErrUnsupportedPlatform }

// SaveAudioToFile always fails with ErrUnsupportedPlatform.
func (h *Host) SaveAudioToFile(string) error { return ErrUnsupportedPlatform }
