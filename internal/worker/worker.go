// Package worker provides a NATS worker that processes synthesis jobs.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/book-expert/aivoice-service/internal/core"
	"github.com/book-expert/aivoice-service/internal/metrics"
	"github.com/book-expert/events"
	"github.com/book-expert/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	audioKeyExtension = ".wav"
	// added to the host wait timeout for download and upload.
	transferAllowance     = 30 * time.Second
	defaultMessageTimeout = 5 * time.Minute
)

var (
	// ErrTextKeyEmpty indicates that the event carries no text object key.
	ErrTextKeyEmpty = errors.New("text key cannot be empty")
	// ErrUnsupportedVoice indicates that the requested voice is not installed in the host.
	ErrUnsupportedVoice = errors.New("unsupported voice")
)

// Subjects names where the worker listens and announces finished audio.
type Subjects struct {
	// Jobs carries TextProcessedEvents.
	Jobs string
	// Queue is the queue group; workers sharing it split the jobs.
	Queue string
	// Completed receives AudioChunkCreatedEvents for jobs published without a reply
	// inbox. Empty disables it.
	Completed string
}

// NatsWorker listens for synthesis jobs on a NATS subject and processes them.
type NatsWorker struct {
	natsConnection *nats.Conn
	subjects       Subjects
	store          core.ObjectStore
	processor      core.TTSProcessor
	metrics        *metrics.Collector
	log            *logger.Logger
}

// NewNatsWorker creates a new instance of a NATS worker.
func NewNatsWorker(
	natsConnection *nats.Conn,
	subjects Subjects,
	store core.ObjectStore,
	processor core.TTSProcessor,
	collector *metrics.Collector,
	log *logger.Logger,
) *NatsWorker {
	return &NatsWorker{
		natsConnection: natsConnection,
		subjects:       subjects,
		store:          store,
		processor:      processor,
		metrics:        collector,
		log:            log,
	}
}

// Run starts the worker and blocks until ctx is done.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.subscribe()
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subjects.Jobs, err)
	}

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) subscribe() (*nats.Subscription, error) {
	if w.subjects.Queue == "" {
		return w.natsConnection.Subscribe(w.subjects.Jobs, w.handleMessage)
	}

	return w.natsConnection.QueueSubscribe(w.subjects.Jobs, w.subjects.Queue, w.handleMessage)
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), w.messageTimeout())
	defer cancel()

	event, err := w.parseAndValidateEvent(msg)
	if err != nil {
		w.log.Error("Failed to parse and validate event: %v", err)
		w.metrics.RecordJob(metrics.StatusInvalid)

		return
	}

	started := time.Now()

	audioKey, audioSize, processErr := w.processTTSJob(ctx, event)

	w.metrics.SetHostStatus(w.processor.HostStatus())

	if processErr != nil {
		w.log.Error("Failed to process TTS job for event %s: %v", event.Header.WorkflowID, processErr)
		w.metrics.RecordJob(jobStatus(processErr))

		return
	}

	w.metrics.RecordSynthesis(w.resolveVoice(event), time.Since(started), audioSize)

	replyEvent := &events.AudioChunkCreatedEvent{
		Header:     event.Header,
		AudioKey:   audioKey,
		PageNumber: event.PageNumber,
		TotalPages: event.TotalPages,
	}

	err = w.publishReplyEvent(msg, replyEvent)
	if err != nil {
		w.log.Error("Failed to publish reply event for workflow %s: %v", event.Header.WorkflowID, err)
		w.metrics.RecordJob(metrics.StatusReplyFailed)

		return
	}

	w.metrics.RecordJob(metrics.StatusSuccess)
	w.log.Info("Workflow %s page %d/%d rendered to %s",
		event.Header.WorkflowID, event.PageNumber, event.TotalPages, audioKey)
}

func (w *NatsWorker) messageTimeout() time.Duration {
	waitTimeout := w.processor.GetConfig().WaitTimeout
	if waitTimeout <= 0 {
		return defaultMessageTimeout
	}

	return waitTimeout + transferAllowance
}

// processTTSJob downloads the text, renders it and uploads the audio.
func (w *NatsWorker) processTTSJob(ctx context.Context, event *events.TextProcessedEvent) (string, int, error) {
	voice := w.resolveVoice(event)

	validationErr := w.validateVoice(voice)
	if validationErr != nil {
		return "", 0, validationErr
	}

	textData, err := w.store.Download(ctx, event.TextKey)
	if err != nil {
		return "", 0, fmt.Errorf("failed to download text data for key '%s': %w", event.TextKey, err)
	}

	defaults := w.processor.GetConfig()
	ttsCfg := core.TTSConfig{
		Voice:       voice,
		Style:       defaults.Style,
		WaitTimeout: defaults.WaitTimeout,
	}

	audioData, err := w.processor.Process(ctx, textData, ttsCfg)
	if err != nil {
		return "", 0, fmt.Errorf("failed to process text to speech: %w", err)
	}

	audioKey := uuid.NewString() + audioKeyExtension

	err = w.store.Upload(ctx, audioKey, audioData)
	if err != nil {
		return "", 0, fmt.Errorf("failed to upload audio data for key '%s': %w", audioKey, err)
	}

	return audioKey, len(audioData), nil
}

// resolveVoice picks the event's voice, then the configured default. An empty
// result lets the host choose its first voice.
func (w *NatsWorker) resolveVoice(event *events.TextProcessedEvent) string {
	if event.Voice != "" {
		return event.Voice
	}

	return w.processor.GetConfig().Voice
}

// validateVoice checks a non-empty voice against the voices installed in the host.
func (w *NatsWorker) validateVoice(voice string) error {
	if voice == "" {
		return nil
	}

	names, err := w.processor.VoiceNames()
	if err != nil {
		return fmt.Errorf("failed to list host voices: %w", err)
	}

	if !slices.Contains(names, voice) {
		return fmt.Errorf("%w: '%s'", ErrUnsupportedVoice, voice)
	}

	return nil
}

// publishReplyEvent responds to the requester, or publishes to the completed
// subject when the job carried no reply inbox.
func (w *NatsWorker) publishReplyEvent(msg *nats.Msg, replyEvent *events.AudioChunkCreatedEvent) error {
	replyData, err := json.Marshal(replyEvent)
	if err != nil {
		return fmt.Errorf("failed to marshal reply event: %w", err)
	}

	if msg.Reply != "" {
		err = msg.Respond(replyData)
		if err != nil {
			return fmt.Errorf("failed to publish reply event: %w", err)
		}

		return nil
	}

	if w.subjects.Completed == "" {
		return nil
	}

	err = w.natsConnection.Publish(w.subjects.Completed, replyData)
	if err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", w.subjects.Completed, err)
	}

	return nil
}

func (w *NatsWorker) parseAndValidateEvent(msg *nats.Msg) (*events.TextProcessedEvent, error) {
	var event events.TextProcessedEvent

	err := json.Unmarshal(msg.Data, &event)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if event.TextKey == "" {
		return nil, ErrTextKeyEmpty
	}

	return &event, nil
}

func jobStatus(err error) string {
	if errors.Is(err, ErrUnsupportedVoice) {
		return metrics.StatusInvalid
	}

	return metrics.StatusFailed
}
