//go:build windows

package comhost

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// Host owns one automation object. COM objects are apartment-bound, so every
// call runs on a single goroutine locked to its OS thread.
type Host struct {
	calls     chan func()
	done      chan struct{}
	dispatch  *ole.IDispatch
	closeOnce sync.Once
}

// New initializes COM on a dedicated thread and creates the automation object.
func New() (*Host, error) {
	h := &Host{
		calls: make(chan func()),
		done:  make(chan struct{}),
	}

	ready := make(chan error, 1)

	go h.loop(ready)

	err := <-ready
	if err != nil {
		return nil, err
	}

	return h, nil
}

func (h *Host) loop(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED)
	if err != nil {
		ready <- fmt.Errorf("comhost: initialize COM: %w", err)

		return
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject(ProgID)
	if err != nil {
		ready <- fmt.Errorf("comhost: create %s: %w", ProgID, err)

		return
	}

	dispatch, err := unknown.QueryInterface(ole.IID_IDispatch)
	unknown.Release()

	if err != nil {
		ready <- fmt.Errorf("comhost: query IDispatch: %w", err)

		return
	}

	h.dispatch = dispatch
	defer h.dispatch.Release()

	ready <- nil

	for {
		select {
		case call := <-h.calls:
			call()
		case <-h.done:
			return
		}
	}
}

// Close releases the automation object and stops the COM thread.
func (h *Host) Close() error {
	h.closeOnce.Do(func() { close(h.done) })

	return nil
}

// do runs fn on the COM thread and waits for it.
func (h *Host) do(fn func() error) error {
	result := make(chan error, 1)

	select {
	case h.calls <- func() { result <- fn() }:
	case <-h.done:
		return ErrClosed
	}

	return <-result
}

func (h *Host) get(name string, params ...any) (*ole.VARIANT, error) {
	v, err := oleutil.GetProperty(h.dispatch, name, params...)
	if err != nil {
		return nil, fmt.Errorf("comhost: get %s: %w", name, err)
	}

	return v, nil
}

func (h *Host) put(name string, value any) error {
	v, err := oleutil.PutProperty(h.dispatch, name, value)
	if err != nil {
		return fmt.Errorf("comhost: set %s: %w", name, err)
	}

	_ = v.Clear()

	return nil
}

func (h *Host) call(name string, params ...any) (*ole.VARIANT, error) {
	v, err := oleutil.CallMethod(h.dispatch, name, params...)
	if err != nil {
		return nil, fmt.Errorf("comhost: call %s: %w", name, err)
	}

	return v, nil
}

func (h *Host) invoke(name string, params ...any) error {
	return h.do(func() error {
		v, err := h.call(name, params...)
		if err != nil {
			return err
		}

		_ = v.Clear()

		return nil
	})
}

func (h *Host) getString(name string) (string, error) {
	var out string

	err := h.do(func() error {
		v, err := h.get(name)
		if err != nil {
			return err
		}
		defer v.Clear()

		out = v.ToString()

		return nil
	})

	return out, err
}

func (h *Host) putValue(name string, value any) error {
	return h.do(func() error { return h.put(name, value) })
}

func stringArray(v *ole.VARIANT) []string {
	array := v.ToArray()
	if array == nil {
		return []string{}
	}

	return array.ToStringArray()
}

// Status returns the raw TtsControl.Status code.
func (h *Host) Status() (int, error) {
	var code int

	err := h.do(func() error {
		v, err := h.get("Status")
		if err != nil {
			return err
		}
		defer v.Clear()

		switch value := v.Value().(type) {
		case int32:
			code = int(value)
		case int64:
			code = int(value)
		case int16:
			code = int(value)
		case uint8:
			code = int(value)
		default:
			return fmt.Errorf("comhost: unexpected Status type %T", value)
		}

		return nil
	})

	return code, err
}

func (h *Host) StartHost() error     { return h.invoke("StartHost") }
func (h *Host) Connect() error       { return h.invoke("Connect") }
func (h *Host) TerminateHost() error { return h.invoke("TerminateHost") }

func (h *Host) Initialize(hostName string) error { return h.invoke("Initialize", hostName) }

func (h *Host) GetAvailableHostNames() ([]string, error) {
	var names []string

	err := h.do(func() error {
		v, err := h.call("GetAvailableHostNames")
		if err != nil {
			return err
		}
		defer v.Clear()

		names = stringArray(v)

		return nil
	})

	return names, err
}

func (h *Host) Version() (string, error) { return h.getString("Version") }

func (h *Host) VoiceNames() ([]string, error) {
	var names []string

	err := h.do(func() error {
		v, err := h.get("VoiceNames")
		if err != nil {
			return err
		}
		defer v.Clear()

		names = stringArray(v)

		return nil
	})

	return names, err
}

func (h *Host) GetVoicePreset(name string) (string, error) {
	var out string

	err := h.do(func() error {
		v, err := h.call("GetVoicePreset", name)
		if err != nil {
			return err
		}
		defer v.Clear()

		out = v.ToString()

		return nil
	})

	return out, err
}

func (h *Host) SetVoicePreset(presetJSON string) error { return h.invoke("SetVoicePreset", presetJSON) }
func (h *Host) AddVoicePreset(presetJSON string) error { return h.invoke("AddVoicePreset", presetJSON) }

func (h *Host) MasterControl() (string, error) { return h.getString("MasterControl") }

func (h *Host) SetMasterControl(masterControlJSON string) error {
	return h.putValue("MasterControl", masterControlJSON)
}

func (h *Host) SetCurrentVoicePresetName(name string) error {
	return h.putValue("CurrentVoicePresetName", name)
}

func (h *Host) SetText(text string) error { return h.putValue("Text", text) }

func (h *Host) Play() error { return h.invoke("Play") }

func (h *Host) SaveAudioToFile(path string) error { return h.invoke("SaveAudioToFile", path) }
