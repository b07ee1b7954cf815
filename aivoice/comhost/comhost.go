// Package comhost provides the aivoice.Host implementation backed by the
// A.I.VOICE Talk Editor COM automation object. It is only functional on Windows.
package comhost

import "errors"

// ProgID is the automation class registered by A.I.VOICE Talk Editor.
const ProgID = "AI.Talk.Editor.Api.TtsControl"

// ErrUnsupportedPlatform is returned by New on platforms without COM.
var ErrUnsupportedPlatform = errors.New("comhost: COM automation requires Windows")

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("comhost: host is closed")
