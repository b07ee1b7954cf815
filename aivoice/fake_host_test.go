package aivoice_test

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/book-expert/aivoice-service/aivoice"
)

var (
	errMockStart   = errors.New("mock start error")
	errMockConnect = errors.New("mock connect error")
	errMockSave    = errors.New("mock save error")
	errNoPreset    = errors.New("mock: preset does not exist")
)

// fakeHost is an in-memory stand-in for the automation object. It records
// every call by name, in order.
type fakeHost struct {
	status        int
	statusQueue   []int
	statusErr     error
	startFails    bool
	connectFails  bool
	saveFails     bool
	hostNames     []string
	voiceNames    []string
	presets       map[string]string
	masterControl string
	version       string

	calls          []string
	initializedAs  string
	currentPreset  string
	text           string
	savedPath      string
	updatedPresets []string
	addedPresets   []string
	pushed         []string
}

func newFakeHost(status aivoice.HostStatus) *fakeHost {
	return &fakeHost{
		status:        int(status),
		hostNames:     []string{"AIVoiceEditor"},
		voiceNames:    []string{},
		presets:       map[string]string{},
		masterControl: `{"Volume":1,"Speed":1,"Pitch":1,"PitchRange":1,"MiddlePause":150,"LongPause":378,"SentencePause":800}`,
		version:       "1.4.0.0",
	}
}

// addVoice installs a voice; its preset is looked up by the voice name.
func (f *fakeHost) addVoice(voiceName, presetName string) {
	preset := aivoice.NewVoicePreset(voiceName)
	preset.PresetName = presetName

	encoded, err := json.Marshal(preset)
	if err != nil {
		panic(err)
	}

	f.voiceNames = append(f.voiceNames, voiceName)
	f.presets[voiceName] = string(encoded)
}

func (f *fakeHost) record(name string) {
	f.calls = append(f.calls, name)
}

func (f *fakeHost) called(name string) int {
	count := 0

	for _, call := range f.calls {
		if call == name {
			count++
		}
	}

	return count
}

func (f *fakeHost) Status() (int, error) {
	f.record("Status")

	if f.statusErr != nil {
		return 0, f.statusErr
	}

	if len(f.statusQueue) > 0 {
		f.status = f.statusQueue[0]
		f.statusQueue = f.statusQueue[1:]
	}

	return f.status, nil
}

func (f *fakeHost) StartHost() error {
	f.record("StartHost")

	if f.startFails {
		return errMockStart
	}

	f.status = int(aivoice.HostNotConnected)

	return nil
}

func (f *fakeHost) Connect() error {
	f.record("Connect")

	if f.connectFails {
		return errMockConnect
	}

	f.status = int(aivoice.HostIdle)

	return nil
}

func (f *fakeHost) TerminateHost() error {
	f.record("TerminateHost")
	f.status = int(aivoice.HostNotRunning)

	return nil
}

func (f *fakeHost) GetAvailableHostNames() ([]string, error) {
	f.record("GetAvailableHostNames")

	return f.hostNames, nil
}

func (f *fakeHost) Initialize(hostName string) error {
	f.record("Initialize")
	f.initializedAs = hostName

	return nil
}

func (f *fakeHost) Version() (string, error) {
	f.record("Version")

	return f.version, nil
}

func (f *fakeHost) VoiceNames() ([]string, error) {
	f.record("VoiceNames")

	return f.voiceNames, nil
}

func (f *fakeHost) GetVoicePreset(name string) (string, error) {
	f.record("GetVoicePreset")

	preset, ok := f.presets[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", errNoPreset, name)
	}

	return preset, nil
}

func presetName(presetJSON string) string {
	var preset struct{ PresetName string }

	_ = json.Unmarshal([]byte(presetJSON), &preset)

	return preset.PresetName
}

func (f *fakeHost) SetVoicePreset(presetJSON string) error {
	f.record("SetVoicePreset")

	name := presetName(presetJSON)
	if _, ok := f.presets[name]; !ok {
		return fmt.Errorf("%w: %s", errNoPreset, name)
	}

	f.presets[name] = presetJSON
	f.updatedPresets = append(f.updatedPresets, presetJSON)
	f.pushed = append(f.pushed, presetJSON)

	return nil
}

func (f *fakeHost) AddVoicePreset(presetJSON string) error {
	f.record("AddVoicePreset")

	f.presets[presetName(presetJSON)] = presetJSON
	f.addedPresets = append(f.addedPresets, presetJSON)
	f.pushed = append(f.pushed, presetJSON)

	return nil
}

func (f *fakeHost) MasterControl() (string, error) {
	f.record("MasterControl")

	return f.masterControl, nil
}

func (f *fakeHost) SetMasterControl(masterControlJSON string) error {
	f.record("SetMasterControl")
	f.masterControl = masterControlJSON

	return nil
}

func (f *fakeHost) SetCurrentVoicePresetName(name string) error {
	f.record("SetCurrentVoicePresetName")
	f.currentPreset = name

	return nil
}

func (f *fakeHost) SetText(text string) error {
	f.record("SetText")
	f.text = text

	return nil
}

func (f *fakeHost) Play() error {
	f.record("Play")

	return nil
}

func (f *fakeHost) SaveAudioToFile(path string) error {
	f.record("SaveAudioToFile")

	if f.saveFails {
		return errMockSave
	}

	f.savedPath = path

	return nil
}

// lastPushedPreset decodes the most recent preset stored by an update or an add.
func (f *fakeHost) lastPushedPreset() (aivoice.VoicePreset, error) {
	var preset aivoice.VoicePreset

	if len(f.pushed) == 0 {
		return preset, errNoPreset
	}

	err := json.Unmarshal([]byte(f.pushed[len(f.pushed)-1]), &preset)

	return preset, err
}
