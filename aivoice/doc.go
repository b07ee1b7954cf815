// Package aivoice drives the A.I.VOICE Talk Editor through its automation
// interface.
//
// The host program owns every preset; this package only translates presets,
// master control settings and voice fusions to and from the JSON strings the
// host exposes, and orchestrates a synthesis call.
//
// Basic usage on Windows:
//
//	host, err := comhost.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer host.Close()
//
//	client, err := aivoice.New(host, aivoice.Options{StartHost: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = client.Synthesize(aivoice.SynthesisRequest{
//	    Text:        "こんにちは",
//	    Style:       aivoice.StyleJoy,
//	    Destination: "hello.wav",
//	})
//
// Every operation that talks to the host, except Status, Start and
// Terminate, first starts and connects the host program when needed.
package aivoice
