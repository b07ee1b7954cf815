package aivoice

import (
	"encoding/json"
	"fmt"
)

// Default values applied by DefaultMasterControl and NewVoicePreset.
const (
	DefaultPresetName = "Go"

	defaultLevel             = 1.0
	defaultMiddlePause       = 150
	defaultMasterLongPause   = 378
	defaultPresetLongPause   = 370
	defaultSentencePause     = 800
	defaultDestinationPath   = "./voice.wav"
	styleSlotCount           = 3
	errFmtUnknownStyleName   = "%w: %q"
	errFmtUnknownStyle       = "%w: %d"
	errFmtInvalidStatusValue = "%w: host status %d out of range"
)

// MasterControl holds the global parameters the host applies on top of every preset.
type MasterControl struct {
	Volume        float64 `json:"Volume"`
	Speed         float64 `json:"Speed"`
	Pitch         float64 `json:"Pitch"`
	PitchRange    float64 `json:"PitchRange"`
	MiddlePause   int     `json:"MiddlePause"`
	LongPause     int     `json:"LongPause"`
	SentencePause int     `json:"SentencePause"`
}

// DefaultMasterControl returns the host's factory master control settings.
func DefaultMasterControl() MasterControl {
	return MasterControl{
		Volume:        defaultLevel,
		Speed:         defaultLevel,
		Pitch:         defaultLevel,
		PitchRange:    defaultLevel,
		MiddlePause:   defaultMiddlePause,
		LongPause:     defaultMasterLongPause,
		SentencePause: defaultSentencePause,
	}
}

// UnmarshalJSON decodes on top of the defaults so omitted fields keep them.
func (m *MasterControl) UnmarshalJSON(data []byte) error {
	type plain MasterControl

	decoded := plain(DefaultMasterControl())

	err := json.Unmarshal(data, &decoded)
	if err != nil {
		return err
	}

	*m = MasterControl(decoded)

	return nil
}

// StyleName identifies one of the host's emotional style dimensions.
type StyleName string

// The host knows exactly these three styles, serialized in this order.
const (
	StyleNameJoy   StyleName = "J"
	StyleNameAngry StyleName = "A"
	StyleNameSad   StyleName = "S"
)

// styleOrder is the wire order of the Styles array.
var styleOrder = [styleSlotCount]StyleName{StyleNameJoy, StyleNameAngry, StyleNameSad}

// Valid reports whether n is one of the fixed style names.
func (n StyleName) Valid() bool {
	for _, known := range styleOrder {
		if n == known {
			return true
		}
	}

	return false
}

// StyleWeight is the wire form of a single style slot.
type StyleWeight struct {
	Name  StyleName `json:"Name"`
	Value float64   `json:"Value"`
}

// StyleWeights maps each style to its weight. It always encodes as the
// three-slot J, A, S array the host expects, with missing styles as 0.
type StyleWeights map[StyleName]float64

// NewStyleWeights returns weights with every style present and set to 0.
func NewStyleWeights() StyleWeights {
	weights := make(StyleWeights, styleSlotCount)
	for _, name := range styleOrder {
		weights[name] = 0
	}

	return weights
}

// Slots returns the weights in wire order.
func (w StyleWeights) Slots() []StyleWeight {
	slots := make([]StyleWeight, 0, styleSlotCount)
	for _, name := range styleOrder {
		slots = append(slots, StyleWeight{Name: name, Value: w[name]})
	}

	return slots
}

// MarshalJSON implements json.Marshaler.
func (w StyleWeights) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Slots())
}

// UnmarshalJSON implements json.Unmarshaler. Unknown style names are a schema error.
func (w *StyleWeights) UnmarshalJSON(data []byte) error {
	var slots []StyleWeight

	err := json.Unmarshal(data, &slots)
	if err != nil {
		return err
	}

	weights := NewStyleWeights()

	for _, slot := range slots {
		if !slot.Name.Valid() {
			return fmt.Errorf(errFmtUnknownStyleName, ErrUnknownStyle, slot.Name)
		}

		weights[slot.Name] = slot.Value
	}

	*w = weights

	return nil
}

// MergedVoice names one voice whose timbre is blended into a fusion.
type MergedVoice struct {
	VoiceName string `json:"VoiceName"`
}

// FusionContainer describes a voice fusion. The pitch character comes from
// BasePitchVoiceName and the timbre from MergedVoices.
type FusionContainer struct {
	BasePitchVoiceName string        `json:"BasePitchVoiceName"`
	MergedVoices       []MergedVoice `json:"MergedVoices"`
}

// NewFusionContainer builds a fusion of base pitch and the given timbre voices.
func NewFusionContainer(basePitchVoice string, mergedVoices ...string) FusionContainer {
	container := FusionContainer{
		BasePitchVoiceName: basePitchVoice,
		MergedVoices:       make([]MergedVoice, 0, len(mergedVoices)),
	}
	for _, name := range mergedVoices {
		container.MergedVoices = append(container.MergedVoices, MergedVoice{VoiceName: name})
	}

	return container
}

// Enabled reports whether the container blends any voices.
func (f FusionContainer) Enabled() bool {
	return len(f.MergedVoices) > 0
}

// MarshalJSON encodes an empty fusion as [] rather than null.
func (f FusionContainer) MarshalJSON() ([]byte, error) {
	type plain FusionContainer

	out := plain(f)
	if out.MergedVoices == nil {
		out.MergedVoices = []MergedVoice{}
	}

	return json.Marshal(out)
}

// VoicePreset is a named, fully parameterized voice stored by the host.
type VoicePreset struct {
	VoiceName            string          `json:"VoiceName"`
	PresetName           string          `json:"PresetName"`
	Volume               float64         `json:"Volume"`
	Speed                float64         `json:"Speed"`
	Pitch                float64         `json:"Pitch"`
	PitchRange           float64         `json:"PitchRange"`
	MiddlePause          int             `json:"MiddlePause"`
	LongPause            int             `json:"LongPause"`
	Styles               StyleWeights    `json:"Styles"`
	MergedVoiceContainer FusionContainer `json:"MergedVoiceContainer"`
}

// NewVoicePreset returns a preset for voiceName with every other field at its default.
func NewVoicePreset(voiceName string) VoicePreset {
	return VoicePreset{
		VoiceName:            voiceName,
		PresetName:           DefaultPresetName,
		Volume:               defaultLevel,
		Speed:                defaultLevel,
		Pitch:                defaultLevel,
		PitchRange:           defaultLevel,
		MiddlePause:          defaultMiddlePause,
		LongPause:            defaultPresetLongPause,
		Styles:               NewStyleWeights(),
		MergedVoiceContainer: NewFusionContainer(""),
	}
}

// Validate checks the invariants the host relies on.
func (p VoicePreset) Validate() error {
	if p.VoiceName == "" {
		return ErrVoiceNameRequired
	}

	for name := range p.Styles {
		if !name.Valid() {
			return fmt.Errorf(errFmtUnknownStyleName, ErrUnknownStyle, name)
		}
	}

	return nil
}

// UnmarshalJSON decodes on top of the defaults so omitted fields keep them.
func (p *VoicePreset) UnmarshalJSON(data []byte) error {
	type plain VoicePreset

	decoded := plain(NewVoicePreset(""))

	err := json.Unmarshal(data, &decoded)
	if err != nil {
		return err
	}

	if decoded.MergedVoiceContainer.MergedVoices == nil {
		decoded.MergedVoiceContainer.MergedVoices = []MergedVoice{}
	}

	*p = VoicePreset(decoded)

	return nil
}

// Style selects one emotional delivery for a transient preset.
type Style int

// Supported delivery styles.
const (
	StyleNormal Style = iota
	StyleJoy
	StyleAngry
	StyleSad
)

// styleSlots maps a delivery style to the weight it raises. Normal raises none.
var styleSlots = map[Style]StyleName{
	StyleJoy:   StyleNameJoy,
	StyleAngry: StyleNameAngry,
	StyleSad:   StyleNameSad,
}

var styleLabels = map[Style]string{
	StyleNormal: "normal",
	StyleJoy:    "joy",
	StyleAngry:  "angry",
	StyleSad:    "sad",
}

func (s Style) String() string {
	if label, ok := styleLabels[s]; ok {
		return label
	}

	return fmt.Sprintf("Style(%d)", int(s))
}

// ParseStyle converts a label such as "joy" into a Style.
func ParseStyle(label string) (Style, error) {
	for style, known := range styleLabels {
		if known == label {
			return style, nil
		}
	}

	return StyleNormal, fmt.Errorf(errFmtUnknownStyleName, ErrUnknownStyle, label)
}

// apply raises the weight for s on weights. Normal leaves weights untouched.
func (s Style) apply(weights StyleWeights) error {
	if s == StyleNormal {
		return nil
	}

	name, ok := styleSlots[s]
	if !ok {
		return fmt.Errorf(errFmtUnknownStyle, ErrUnknownStyle, int(s))
	}

	weights[name] = 1.0

	return nil
}

// HostStatus is the live state of the host program.
type HostStatus int

// Host states as reported by the automation object.
const (
	HostNotRunning HostStatus = iota
	HostNotConnected
	HostIdle
	HostBusy
)

var statusLabels = map[HostStatus]string{
	HostNotRunning:   "NOT_RUNNING",
	HostNotConnected: "NOT_CONNECTED",
	HostIdle:         "IDLE",
	HostBusy:         "BUSY",
}

func (s HostStatus) String() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}

	return fmt.Sprintf("HostStatus(%d)", int(s))
}

// hostStatusFromCode validates a raw status code from the host.
func hostStatusFromCode(code int) (HostStatus, error) {
	status := HostStatus(code)
	if _, ok := statusLabels[status]; !ok {
		return HostNotRunning, fmt.Errorf(errFmtInvalidStatusValue, ErrSchema, code)
	}

	return status, nil
}
