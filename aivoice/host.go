package aivoice

// Host is the subset of the A.I.VOICE Talk Editor automation object this
// package drives. Property getters and setters are flattened into methods so
// the object can be replaced by a fake in tests.
type Host interface {
	Status() (int, error)
	StartHost() error
	Connect() error
	TerminateHost() error

	GetAvailableHostNames() ([]string, error)
	Initialize(hostName string) error

	Version() (string, error)
	VoiceNames() ([]string, error)

	GetVoicePreset(name string) (string, error)
	SetVoicePreset(presetJSON string) error
	AddVoicePreset(presetJSON string) error

	MasterControl() (string, error)
	SetMasterControl(masterControlJSON string) error

	SetCurrentVoicePresetName(name string) error
	SetText(text string) error

	Play() error
	SaveAudioToFile(path string) error
}

// Logger receives printf-style diagnostics. *logger.Logger from
// github.com/book-expert/logger satisfies it.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
