// Command aivoice drives the A.I.VOICE Talk Editor from the command line.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/book-expert/aivoice-service/aivoice"
	"github.com/book-expert/aivoice-service/aivoice/comhost"
	"github.com/book-expert/aivoice-service/internal/audio"
	"github.com/book-expert/aivoice-service/internal/config"
	"github.com/book-expert/aivoice-service/internal/fileutil"
	"github.com/book-expert/logger"
)

// Flag names.
const (
	flagText       = "text"
	flagFile       = "file"
	flagOutput     = "output"
	flagVoice      = "voice"
	flagStyle      = "style"
	flagPreset     = "preset"
	flagFusion     = "fusion"
	flagPlay       = "play"
	flagWait       = "wait"
	flagTimeout    = "timeout"
	flagHost       = "host"
	flagStatus     = "status"
	flagVoices     = "voices"
	flagVersion    = "version"
	flagTerminate  = "terminate"
	flagShowMaster = "show-master"
	flagVolume     = "volume"
	flagSpeed      = "speed"
	flagPitch      = "pitch"
	flagPitchRange = "pitch-range"
	flagConfig     = "config"
)

// Flag descriptions.
const (
	flagTextDesc       = "Text to speak"
	flagFileDesc       = "Read the text from a .txt or .md file"
	flagOutputDesc     = "Output file path (.wav); defaults to a generated name in the output directory"
	flagVoiceDesc      = "Voice name; defaults to the configured voice, then the first host voice"
	flagStyleDesc      = "Speaking style: normal, joy, angry or sad"
	flagPresetDesc     = "JSON file holding a complete voice preset; overrides -voice, -style and -fusion"
	flagFusionDesc     = "Comma-separated voices to fuse; the first one supplies the pitch"
	flagPlayDesc       = "Play through the host instead of saving"
	flagWaitDesc       = "Wait until the host is no longer busy"
	flagTimeoutDesc    = "Maximum time to wait; 0 waits indefinitely (defaults to wait_timeout_seconds)"
	flagHostDesc       = "Host program name; defaults to the first available host"
	flagStatusDesc     = "Print the host status"
	flagVoicesDesc     = "List the host voices and their presets"
	flagVersionDesc    = "Print the host version"
	flagTerminateDesc  = "Terminate the host program"
	flagShowMasterDesc = "Print the master control settings"
	flagVolumeDesc     = "Set the master volume"
	flagSpeedDesc      = "Set the master speed"
	flagPitchDesc      = "Set the master pitch"
	flagPitchRangeDesc = "Set the master pitch range"
	flagConfigDesc     = "Path to project.toml (defaults to the configurator search)"
)

// Error messages.
const (
	errFmtFailedToLoadConfig = "failed to load configuration: %w"
	errFmtFailedToInitLogger = "failed to initialize logger: %w"
	errFmtFailedToReadText   = "failed to read text file: %w"
	errFmtFailedToReadPreset = "failed to read preset file %s: %w"
	errFmtInvalidArgument    = "%w: %s"
)

const (
	logFileName    = "aivoice-cli.log"
	fusionSep      = ","
	noFlagValue    = -1
	outputIndent   = "  "
	statusTemplate = "%s (%s)\n"
)

var (
	errNothingToDo       = errors.New("nothing to do: pass -text, -file or a query flag")
	errCannotSpecifyBoth = errors.New("cannot specify both -text and -file")
	errPlayWithOutput    = errors.New("-play does not write a file; drop -output")
	errInvalidOutput     = errors.New("output must be a .wav file")
	errInvalidTextFile   = errors.New("text file must be .txt or .md")
)

// appFlags holds the parsed command-line flag values.
type appFlags struct {
	text       string
	file       string
	output     string
	voice      string
	style      string
	preset     string
	fusion     string
	play       bool
	wait       bool
	timeout    time.Duration
	timeoutSet bool
	host       string
	status     bool
	voices     bool
	version    bool
	terminate  bool
	showMaster bool
	volume     float64
	speed      float64
	pitch      float64
	pitchRange float64
	config     string
}

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	flags, err := parseFlags(args)
	if err != nil {
		return err
	}

	err = flags.validate()
	if err != nil {
		return err
	}

	log, err := logger.New(fileutil.GetCacheDir(), logFileName)
	if err != nil {
		return fmt.Errorf(errFmtFailedToInitLogger, err)
	}

	defer func() {
		closeErr := log.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing logger: %v\n", closeErr)
		}
	}()

	cfg, err := loadConfig(flags.config, log)
	if err != nil {
		return err
	}

	host, err := comhost.New()
	if err != nil {
		log.Error("Failed to create automation object: %v", err)

		return fmt.Errorf("failed to create automation object: %w", err)
	}

	defer func() {
		closeErr := host.Close()
		if closeErr != nil {
			log.Warn("Failed to release automation object: %v", closeErr)
		}
	}()

	hostName := flags.host
	if hostName == "" {
		hostName = cfg.AIVoice.HostName
	}

	client, err := aivoice.New(host, aivoice.Options{
		HostName:     hostName,
		StartHost:    cfg.AIVoice.StartHost,
		PollInterval: cfg.AIVoice.PollInterval(),
		Logger:       log,
	})
	if err != nil {
		log.Error("Failed to initialize client: %v", err)

		return fmt.Errorf("failed to initialize client: %w", err)
	}

	app := &cli{client: client, cfg: cfg, log: log, out: stdout}

	return app.execute(flags)
}

// parseFlags defines and parses command-line flags, returning them in a struct.
func parseFlags(args []string) (appFlags, error) {
	var flags appFlags

	flagSet := flag.NewFlagSet("aivoice", flag.ContinueOnError)
	flagSet.StringVar(&flags.text, flagText, "", flagTextDesc)
	flagSet.StringVar(&flags.file, flagFile, "", flagFileDesc)
	flagSet.StringVar(&flags.output, flagOutput, "", flagOutputDesc)
	flagSet.StringVar(&flags.voice, flagVoice, "", flagVoiceDesc)
	flagSet.StringVar(&flags.style, flagStyle, "", flagStyleDesc)
	flagSet.StringVar(&flags.preset, flagPreset, "", flagPresetDesc)
	flagSet.StringVar(&flags.fusion, flagFusion, "", flagFusionDesc)
	flagSet.BoolVar(&flags.play, flagPlay, false, flagPlayDesc)
	flagSet.BoolVar(&flags.wait, flagWait, false, flagWaitDesc)
	flagSet.DurationVar(&flags.timeout, flagTimeout, 0, flagTimeoutDesc)
	flagSet.StringVar(&flags.host, flagHost, "", flagHostDesc)
	flagSet.BoolVar(&flags.status, flagStatus, false, flagStatusDesc)
	flagSet.BoolVar(&flags.voices, flagVoices, false, flagVoicesDesc)
	flagSet.BoolVar(&flags.version, flagVersion, false, flagVersionDesc)
	flagSet.BoolVar(&flags.terminate, flagTerminate, false, flagTerminateDesc)
	flagSet.BoolVar(&flags.showMaster, flagShowMaster, false, flagShowMasterDesc)
	flagSet.Float64Var(&flags.volume, flagVolume, noFlagValue, flagVolumeDesc)
	flagSet.Float64Var(&flags.speed, flagSpeed, noFlagValue, flagSpeedDesc)
	flagSet.Float64Var(&flags.pitch, flagPitch, noFlagValue, flagPitchDesc)
	flagSet.Float64Var(&flags.pitchRange, flagPitchRange, noFlagValue, flagPitchRangeDesc)
	flagSet.StringVar(&flags.config, flagConfig, "", flagConfigDesc)

	err := flagSet.Parse(args)
	if err != nil {
		return appFlags{}, fmt.Errorf("invalid arguments: %w", err)
	}

	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == flagTimeout {
			flags.timeoutSet = true
		}
	})

	return flags, nil
}

// waitTimeout returns the -timeout value when given, else configured.
func (f appFlags) waitTimeout(configured time.Duration) time.Duration {
	if f.timeoutSet {
		return f.timeout
	}

	return configured
}

func (f appFlags) synthesizes() bool {
	return f.text != "" || f.file != ""
}

func (f appFlags) changesMaster() bool {
	return f.volume >= 0 || f.speed >= 0 || f.pitch >= 0 || f.pitchRange >= 0
}

func (f appFlags) queries() bool {
	return f.status || f.voices || f.version || f.terminate || f.showMaster || f.changesMaster()
}

// validate checks argument combinations before anything touches the host.
func (f appFlags) validate() error {
	if !f.synthesizes() && !f.queries() && !f.wait {
		return errNothingToDo
	}

	if f.text != "" && f.file != "" {
		return errCannotSpecifyBoth
	}

	if f.file != "" && !fileutil.IsValidTextFile(f.file) {
		return fmt.Errorf(errFmtInvalidArgument, errInvalidTextFile, f.file)
	}

	if f.play && f.output != "" {
		return errPlayWithOutput
	}

	if f.output != "" && !fileutil.IsWAVFile(f.output) {
		return fmt.Errorf(errFmtInvalidArgument, errInvalidOutput, f.output)
	}

	if f.style != "" {
		_, err := aivoice.ParseStyle(f.style)
		if err != nil {
			return err
		}
	}

	return nil
}

// loadConfig reads path when given. Otherwise it asks the configurator and runs
// on defaults when no project.toml is found.
func loadConfig(path string, log *logger.Logger) (*config.Config, error) {
	if path != "" {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf(errFmtFailedToLoadConfig, err)
		}

		return cfg, nil
	}

	cfg, err := config.Load(log)
	if err != nil {
		log.Warn("No project configuration, using defaults: %v", err)

		return &config.Config{}, nil
	}

	return cfg, nil
}

type cli struct {
	client *aivoice.Client
	cfg    *config.Config
	log    *logger.Logger
	out    io.Writer
}

// execute runs the queries first, then the synthesis, then the optional wait and
// termination.
func (c *cli) execute(flags appFlags) error {
	steps := []struct {
		enabled bool
		run     func() error
	}{
		{flags.status, c.printStatus},
		{flags.version, c.printVersion},
		{flags.voices, c.printVoices},
		{flags.changesMaster(), func() error { return c.updateMaster(flags) }},
		{flags.showMaster, c.printMaster},
		{flags.synthesizes(), func() error { return c.synthesize(flags) }},
		{flags.wait && !flags.synthesizes(), func() error { return c.wait(flags) }},
		{flags.terminate, c.terminate},
	}

	for _, step := range steps {
		if !step.enabled {
			continue
		}

		err := step.run()
		if err != nil {
			c.log.Error("%v", err)

			return err
		}
	}

	return nil
}

func (c *cli) printStatus() error {
	status, err := c.client.Status()
	if err != nil {
		return fmt.Errorf("failed to read host status: %w", err)
	}

	fmt.Fprintf(c.out, statusTemplate, status, c.client.HostName())

	return nil
}

func (c *cli) printVersion() error {
	version, err := c.client.Version()
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, version)

	return nil
}

func (c *cli) printVoices() error {
	voices, err := c.client.Voices()
	if err != nil {
		return err
	}

	fmt.Fprint(c.out, formatVoices(voices))

	return nil
}

// formatVoices lists preset names with their voice, sorted by preset name.
func formatVoices(voices map[string]string) string {
	names := make([]string, 0, len(voices))
	for name := range voices {
		names = append(names, name)
	}

	slices.Sort(names)

	var builder strings.Builder
	for _, name := range names {
		fmt.Fprintf(&builder, "%s%s\t%s\n", outputIndent, name, voices[name])
	}

	return builder.String()
}

func (c *cli) printMaster() error {
	control, err := c.client.MasterControl()
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(control, "", outputIndent)
	if err != nil {
		return fmt.Errorf("failed to encode master control: %w", err)
	}

	fmt.Fprintln(c.out, string(encoded))

	return nil
}

func (c *cli) updateMaster(flags appFlags) error {
	control, err := c.client.MasterControl()
	if err != nil {
		return err
	}

	return c.client.SetMasterControl(applyMasterFlags(control, flags))
}

// applyMasterFlags overrides the fields whose flags were given.
func applyMasterFlags(control aivoice.MasterControl, flags appFlags) aivoice.MasterControl {
	if flags.volume >= 0 {
		control.Volume = flags.volume
	}

	if flags.speed >= 0 {
		control.Speed = flags.speed
	}

	if flags.pitch >= 0 {
		control.Pitch = flags.pitch
	}

	if flags.pitchRange >= 0 {
		control.PitchRange = flags.pitchRange
	}

	return control
}

func (c *cli) synthesize(flags appFlags) error {
	text, err := readText(flags)
	if err != nil {
		return err
	}

	req, err := buildRequest(flags, text, c.cfg.AIVoice.DefaultVoice)
	if err != nil {
		return err
	}

	if !req.Play && req.Destination == "" {
		req.Destination = fileutil.OutputPath(c.cfg.AIVoice.OutputDirectory(), text, time.Now())
	}

	if req.Destination != "" {
		err = fileutil.EnsureDir(filepath.Dir(req.Destination))
		if err != nil {
			return err
		}
	}

	err = c.client.Synthesize(req)
	if err != nil {
		return err
	}

	if flags.wait {
		err = c.wait(flags)
		if err != nil {
			return err
		}
	}

	if req.Play {
		return nil
	}

	c.report(req.Destination)

	return nil
}

// report prints the saved file with its audio details when the file is readable.
func (c *cli) report(path string) {
	info, _, err := audio.InspectFile(path)
	if err != nil {
		c.log.Warn("Saved %s but could not inspect it: %v", path, err)
		fmt.Fprintln(c.out, path)

		return
	}

	fmt.Fprintf(c.out, "%s (%s, %s, %d Hz)\n", path,
		fileutil.FormatDuration(info.Duration.Seconds()),
		fileutil.FormatFileSize(info.FileSize),
		info.SampleRate)
}

func (c *cli) wait(flags appFlags) error {
	return c.client.Wait(context.Background(), flags.waitTimeout(c.cfg.AIVoice.WaitTimeout()))
}

func (c *cli) terminate() error {
	return c.client.Terminate()
}

func readText(flags appFlags) (string, error) {
	if flags.file == "" {
		return flags.text, nil
	}

	data, err := os.ReadFile(flags.file)
	if err != nil {
		return "", fmt.Errorf(errFmtFailedToReadText, err)
	}

	return string(data), nil
}

// buildRequest turns the synthesis flags into a request. defaultVoice applies when
// -voice is empty.
func buildRequest(flags appFlags, text, defaultVoice string) (aivoice.SynthesisRequest, error) {
	req := aivoice.SynthesisRequest{
		Text:        text,
		Voice:       flags.voice,
		Destination: flags.output,
		Play:        flags.play,
	}

	if req.Voice == "" {
		req.Voice = defaultVoice
	}

	if flags.style != "" {
		style, err := aivoice.ParseStyle(flags.style)
		if err != nil {
			return aivoice.SynthesisRequest{}, err
		}

		req.Style = style
	}

	if flags.fusion != "" {
		fusion := parseFusion(flags.fusion)
		req.Fusion = &fusion
	}

	if flags.preset != "" {
		preset, err := readPreset(flags.preset)
		if err != nil {
			return aivoice.SynthesisRequest{}, err
		}

		req.Preset = &preset
	}

	return req, nil
}

// parseFusion reads "base,merged,..." into a fusion container.
func parseFusion(value string) aivoice.FusionContainer {
	var names []string

	for _, name := range strings.Split(value, fusionSep) {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return aivoice.NewFusionContainer("")
	}

	return aivoice.NewFusionContainer(names[0], names[1:]...)
}

func readPreset(path string) (aivoice.VoicePreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return aivoice.VoicePreset{}, fmt.Errorf(errFmtFailedToReadPreset, path, err)
	}

	var preset aivoice.VoicePreset

	err = json.Unmarshal(data, &preset)
	if err != nil {
		return aivoice.VoicePreset{}, fmt.Errorf(errFmtFailedToReadPreset, path, err)
	}

	err = preset.Validate()
	if err != nil {
		return aivoice.VoicePreset{}, fmt.Errorf(errFmtFailedToReadPreset, path, err)
	}

	return preset, nil
}
