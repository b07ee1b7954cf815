package aivoice_test

import (
	"errors"
	"testing"
	"time"

	"github.com/book-expert/aivoice-service/aivoice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, host *fakeHost) *aivoice.Client {
	t.Helper()

	client, err := aivoice.New(host, aivoice.Options{PollInterval: time.Millisecond})
	require.NoError(t, err)

	host.calls = nil

	return client
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNew_InitializesFirstHost(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostIdle)
	host.hostNames = []string{"AIVoiceEditor", "AIVoice2Editor"}

	client, err := aivoice.New(host, aivoice.Options{})
	require.NoError(t, err)

	assert.Equal(t, "AIVoiceEditor", host.initializedAs)
	assert.Equal(t, "AIVoiceEditor", client.HostName())
	assert.Zero(t, host.called("StartHost"))
}

func TestNew_SelectsRequestedHost(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostIdle)
	host.hostNames = []string{"AIVoiceEditor", "AIVoice2Editor"}

	_, err := aivoice.New(host, aivoice.Options{HostName: "AIVoice2Editor"})
	require.NoError(t, err)
	assert.Equal(t, "AIVoice2Editor", host.initializedAs)
}

func TestNew_UnknownRequestedHost(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostIdle)

	_, err := aivoice.New(host, aivoice.Options{HostName: "Missing"})
	require.ErrorIs(t, err, aivoice.ErrNoHostNames)
}

func TestNew_NoHosts(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostIdle)
	host.hostNames = nil

	_, err := aivoice.New(host, aivoice.Options{})
	require.ErrorIs(t, err, aivoice.ErrNoHostNames)
}

func TestNew_StartHost(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostNotRunning)

	_, err := aivoice.New(host, aivoice.Options{StartHost: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"GetAvailableHostNames", "Initialize", "StartHost"}, host.calls)
}

// ---------------------------------------------------------------------------
// Connection guard
// ---------------------------------------------------------------------------

func TestGuard_StartsThenConnectsWhenNotRunning(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostNotRunning)
	client := newTestClient(t, host)

	_, err := client.Version()
	require.NoError(t, err)

	assert.Equal(t, []string{"Status", "StartHost", "Status", "Connect", "Version"}, host.calls)
}

func TestGuard_ConnectsWhenNotConnected(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostNotConnected)
	client := newTestClient(t, host)

	_, err := client.Version()
	require.NoError(t, err)

	assert.Equal(t, []string{"Status", "Connect", "Version"}, host.calls)
}

func TestGuard_IdleIssuesNeitherStartNorConnect(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostIdle)
	client := newTestClient(t, host)

	version, err := client.Version()
	require.NoError(t, err)

	assert.Equal(t, "1.4.0.0", version)
	assert.Zero(t, host.called("StartHost"))
	assert.Zero(t, host.called("Connect"))
}

func TestGuard_StartFailureIsConnectionError(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostNotRunning)
	host.startFails = true
	client := newTestClient(t, host)

	_, err := client.VoiceNames()

	var connErr *aivoice.ConnectionError
	require.ErrorAs(t, err, &connErr)
	require.ErrorIs(t, err, errMockStart)
	assert.Zero(t, host.called("VoiceNames"))
}

func TestGuard_ConnectFailureIsConnectionError(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostNotConnected)
	host.connectFails = true
	client := newTestClient(t, host)

	err := client.SetMasterControl(aivoice.DefaultMasterControl())

	var connErr *aivoice.ConnectionError
	require.ErrorAs(t, err, &connErr)
	require.ErrorIs(t, err, errMockConnect)
	assert.Zero(t, host.called("SetMasterControl"))
}

func TestGuard_OperationFailureCarriesName(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostIdle)
	client := newTestClient(t, host)

	_, err := client.VoicePreset("missing")

	var opErr *aivoice.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "VoicePreset", opErr.Op)
	require.ErrorIs(t, err, errNoPreset)
}

func TestGuard_SchemaErrorsAreNotWrapped(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostIdle)
	client := newTestClient(t, host)

	err := client.SetVoicePreset(aivoice.NewVoicePreset(""))

	require.ErrorIs(t, err, aivoice.ErrVoiceNameRequired)

	var opErr *aivoice.OperationError
	assert.False(t, errors.As(err, &opErr))
	assert.Zero(t, host.called("SetVoicePreset"))
	assert.Zero(t, host.called("AddVoicePreset"))
}

// ---------------------------------------------------------------------------
// Status and lifecycle
// ---------------------------------------------------------------------------

func TestStatus_IsLiveAndUnguarded(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostNotRunning)
	host.statusQueue = []int{int(aivoice.HostNotRunning), int(aivoice.HostBusy)}
	client := newTestClient(t, host)

	first, err := client.Status()
	require.NoError(t, err)
	second, err := client.Status()
	require.NoError(t, err)

	assert.Equal(t, aivoice.HostNotRunning, first)
	assert.Equal(t, aivoice.HostBusy, second)
	assert.Equal(t, []string{"Status", "Status"}, host.calls)
}

func TestStatus_OutOfRange(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostStatus(9))
	client := newTestClient(t, host)

	_, err := client.Status()
	require.ErrorIs(t, err, aivoice.ErrSchema)
}

func TestStartAndTerminate_DoNotConnect(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostNotRunning)
	client := newTestClient(t, host)

	require.NoError(t, client.Start())
	require.NoError(t, client.Terminate())

	assert.Equal(t, []string{"StartHost", "TerminateHost"}, host.calls)
}

// ---------------------------------------------------------------------------
// Presets and master control
// ---------------------------------------------------------------------------

func TestSetVoicePreset_UnknownPresetIsAdded(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostIdle)
	client := newTestClient(t, host)

	preset := aivoice.NewVoicePreset("kotonoha_akane")
	preset.PresetName = "Fresh"

	require.NoError(t, client.SetVoicePreset(preset))

	assert.Equal(t, 1, host.called("SetVoicePreset"))
	assert.Equal(t, 1, host.called("AddVoicePreset"))
	assert.Len(t, host.addedPresets, 1)
	assert.Empty(t, host.updatedPresets)
}

func TestSetVoicePreset_KnownPresetIsUpdated(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostIdle)
	host.presets["Known"] = `{"VoiceName":"kotonoha_akane","PresetName":"Known"}`
	client := newTestClient(t, host)

	preset := aivoice.NewVoicePreset("kotonoha_akane")
	preset.PresetName = "Known"
	preset.Speed = 1.5

	require.NoError(t, client.SetVoicePreset(preset))

	assert.Equal(t, 1, host.called("SetVoicePreset"))
	assert.Zero(t, host.called("AddVoicePreset"))

	stored, err := client.VoicePreset("Known")
	require.NoError(t, err)
	assert.Equal(t, preset, stored)
}

func TestMasterControl_GetAndSet(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostIdle)
	client := newTestClient(t, host)

	original, err := client.MasterControl()
	require.NoError(t, err)
	assert.Equal(t, aivoice.DefaultMasterControl(), original)

	changed := original
	changed.Volume = 0.8
	changed.Speed = 1.2
	require.NoError(t, client.SetMasterControl(changed))

	reread, err := client.MasterControl()
	require.NoError(t, err)
	assert.Equal(t, changed, reread)
}

func TestMasterControl_MalformedJSONIsParseError(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostIdle)
	host.masterControl = `{"Volume":`
	client := newTestClient(t, host)

	_, err := client.MasterControl()
	require.ErrorIs(t, err, aivoice.ErrParse)

	var opErr *aivoice.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "MasterControl", opErr.Op)
}

// ---------------------------------------------------------------------------
// Voices
// ---------------------------------------------------------------------------

func TestVoices_MapsPresetToVoice(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostIdle)
	host.addVoice("kotonoha_akane", "琴葉 茜")
	host.addVoice("kotonoha_aoi", "琴葉 葵")
	client := newTestClient(t, host)

	voices, err := client.Voices()
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"琴葉 茜": "kotonoha_akane",
		"琴葉 葵": "kotonoha_aoi",
	}, voices)
}

func TestVoices_EmptyHostYieldsEmptyMap(t *testing.T) {
	t.Parallel()

	host := newFakeHost(aivoice.HostIdle)
	client := newTestClient(t, host)

	voices, err := client.Voices()
	require.NoError(t, err)
	assert.NotNil(t, voices)
	assert.Empty(t, voices)
}
