package aivoice

import (
	"fmt"
	"time"
)

const defaultPollInterval = 10 * time.Millisecond

// Options controls how a Client attaches to the host program.
type Options struct {
	// HostName selects one of the names from GetAvailableHostNames.
	// Empty means the first available host.
	HostName string

	// StartHost launches the host program while the client is created.
	StartHost bool

	// PollInterval is how often Wait queries the host status.
	// Zero means 10ms.
	PollInterval time.Duration

	// Logger receives diagnostics. Nil disables logging.
	Logger Logger
}

// Client is a proxy for one host program. It is not safe for concurrent use.
type Client struct {
	host         Host
	hostName     string
	pollInterval time.Duration
	log          Logger
}

// New initializes host against the selected host program and returns a client for it.
func New(host Host, opts Options) (*Client, error) {
	c := &Client{
		host:         host,
		pollInterval: opts.PollInterval,
		log:          opts.Logger,
	}
	if c.pollInterval <= 0 {
		c.pollInterval = defaultPollInterval
	}

	if c.log == nil {
		c.log = nopLogger{}
	}

	hostName, err := c.selectHostName(opts.HostName)
	if err != nil {
		return nil, err
	}

	err = host.Initialize(hostName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize automation for host %q: %w", hostName, err)
	}

	c.hostName = hostName
	c.log.Info("Initialized automation for host %s", hostName)

	if opts.StartHost {
		err = c.Start()
		if err != nil {
			return nil, fmt.Errorf("failed to start host %q: %w", hostName, err)
		}
	}

	return c, nil
}

func (c *Client) selectHostName(requested string) (string, error) {
	names, err := c.host.GetAvailableHostNames()
	if err != nil {
		return "", fmt.Errorf("failed to list host names: %w", err)
	}

	if len(names) == 0 {
		return "", ErrNoHostNames
	}

	if requested == "" {
		return names[0], nil
	}

	for _, name := range names {
		if name == requested {
			return name, nil
		}
	}

	return "", fmt.Errorf("host %q is not one of %v: %w", requested, names, ErrNoHostNames)
}

// HostName returns the host program the client was initialized with.
func (c *Client) HostName() string {
	return c.hostName
}

// Status queries the host state. It is never cached and never starts the host.
func (c *Client) Status() (HostStatus, error) {
	code, err := c.host.Status()
	if err != nil {
		return HostNotRunning, fmt.Errorf("failed to query host status: %w", err)
	}

	return hostStatusFromCode(code)
}

// Start launches the host program without connecting to it.
func (c *Client) Start() error {
	return c.host.StartHost()
}

// Terminate shuts the host program down.
func (c *Client) Terminate() error {
	return c.host.TerminateHost()
}

// Version returns the host program version.
func (c *Client) Version() (string, error) {
	return guardValue(c, "Version", c.host.Version)
}

// VoiceNames lists the voices installed in the host.
func (c *Client) VoiceNames() ([]string, error) {
	return guardValue(c, "VoiceNames", c.host.VoiceNames)
}

// Voices maps preset name to voice name for every installed voice. A host
// with no voices yields an empty map.
func (c *Client) Voices() (map[string]string, error) {
	return guardValue(c, "Voices", func() (map[string]string, error) {
		presets, err := c.voicePresets()
		if err != nil {
			return nil, err
		}

		voices := make(map[string]string, len(presets))
		for _, preset := range presets {
			voices[preset.PresetName] = preset.VoiceName
		}

		return voices, nil
	})
}

// voicePresets fetches the preset named after each installed voice, in host order.
func (c *Client) voicePresets() ([]VoicePreset, error) {
	names, err := c.host.VoiceNames()
	if err != nil {
		return nil, err
	}

	presets := make([]VoicePreset, 0, len(names))

	for _, name := range names {
		preset, err := c.voicePreset(name)
		if err != nil {
			return nil, err
		}

		presets = append(presets, preset)
	}

	return presets, nil
}

// VoicePreset fetches the preset stored by the host under name.
func (c *Client) VoicePreset(name string) (VoicePreset, error) {
	return guardValue(c, "VoicePreset", func() (VoicePreset, error) {
		return c.voicePreset(name)
	})
}

func (c *Client) voicePreset(name string) (VoicePreset, error) {
	raw, err := c.host.GetVoicePreset(name)
	if err != nil {
		return VoicePreset{}, fmt.Errorf("preset %q: %w", name, err)
	}

	var preset VoicePreset

	err = parseJSON(raw, &preset)
	if err != nil {
		return VoicePreset{}, err
	}

	return preset, nil
}

// SetVoicePreset stores preset in the host. An existing preset with the same
// name is updated, otherwise the preset is added.
func (c *Client) SetVoicePreset(preset VoicePreset) error {
	return c.guard("SetVoicePreset", func() error {
		return c.setVoicePreset(preset)
	})
}

func (c *Client) setVoicePreset(preset VoicePreset) error {
	err := preset.Validate()
	if err != nil {
		return err
	}

	encoded, err := encodeJSON(preset)
	if err != nil {
		return err
	}

	updateErr := c.host.SetVoicePreset(encoded)
	if updateErr == nil {
		return nil
	}

	c.log.Info("Preset %s not updated (%v), adding it", preset.PresetName, updateErr)

	return c.host.AddVoicePreset(encoded)
}

// MasterControl reads the host's master control settings.
func (c *Client) MasterControl() (MasterControl, error) {
	return guardValue(c, "MasterControl", func() (MasterControl, error) {
		raw, err := c.host.MasterControl()
		if err != nil {
			return MasterControl{}, err
		}

		var control MasterControl

		err = parseJSON(raw, &control)
		if err != nil {
			return MasterControl{}, err
		}

		return control, nil
	})
}

// SetMasterControl replaces the host's master control settings.
func (c *Client) SetMasterControl(control MasterControl) error {
	return c.guard("SetMasterControl", func() error {
		encoded, err := encodeJSON(control)
		if err != nil {
			return err
		}

		return c.host.SetMasterControl(encoded)
	})
}
