package agent

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Outcome tags how a chat call ended.
type Outcome string

// Chat outcomes.
const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeRejected  Outcome = "rejected"
)

// ChatInput is one chat_with_agent call.
type ChatInput struct {
	Message string
	Context string
}

// Reply is the explicit result of a chat call. Text is what the caller
// sees; the other fields describe how it was produced.
type Reply struct {
	RequestID      string
	Outcome        Outcome
	Text           string
	TopicKey       string
	Attempts       int // failure count for TopicKey after the call
	Decision       Decision
	Failure        *Failure
	SearchFallback bool
}

// Exchange is the record of a finished chat call handed to a Journal.
type Exchange struct {
	RequestID   string
	TopicKey    string
	Reason      Reason
	Augmented   bool
	Message     string
	Context     string
	Response    string
	Outcome     Outcome
	FailureKind FailureKind
	Attempts    int
	Duration    time.Duration
}

// Journal persists finished exchanges. Implementations must tolerate being
// called once per chat call; errors are logged and otherwise ignored.
type Journal interface {
	Record(ctx context.Context, ex Exchange) error
	Count(ctx context.Context) (int, error)
}

// Recorder receives operational measurements.
type Recorder interface {
	ObserveChat(outcome Outcome, kind FailureKind, d time.Duration)
	ObserveAugmentation(reason Reason)
	ObserveSearchFallback()
	ObserveReset()
}

// Config wires an Orchestrator.
type Config struct {
	Model     string
	Provider  string
	Completer Completer
	Searcher  Searcher     // nil: always use FallbackSearchText
	Logger    *slog.Logger // nil: discard
}

// Status is a point-in-time view of the orchestrator state.
type Status struct {
	WindowLen      int
	TrackedTopics  int
	Model          string
	Provider       string
	JournalEnabled bool
	Journaled      int
}

// Orchestrator owns the conversation window and the attempt tracker and
// runs the chat state machine against its collaborators.
//
// All operations are serialised: a chat call holds the lock across both
// collaborator calls so the read-decide-mutate sequence for a topic is never
// interleaved with another request.
type Orchestrator struct {
	mu       sync.Mutex
	window   *Window
	attempts *AttemptTracker

	model     string
	provider  string
	completer Completer
	searcher  Searcher
	log       *slog.Logger

	journal  Journal
	recorder Recorder
	newID    func() string
}

// New creates an Orchestrator with an empty window and tracker.
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Orchestrator{
		window:    NewWindow(),
		attempts:  NewAttemptTracker(),
		model:     cfg.Model,
		provider:  cfg.Provider,
		completer: cfg.Completer,
		searcher:  cfg.Searcher,
		log:       logger,
		newID:     uuid.NewString,
	}
}

// SetJournal enables exchange journaling. A nil journal disables it.
func (o *Orchestrator) SetJournal(j Journal) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.journal = j
}

// SetRecorder enables metrics. A nil recorder disables them.
func (o *Orchestrator) SetRecorder(r Recorder) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.recorder = r
}

// Chat answers one user message.
//
// It never returns an error: rejected input and completion failures are
// reported through Reply.Outcome and Reply.Text.
func (o *Orchestrator) Chat(ctx context.Context, in ChatInput) Reply {
	if strings.TrimSpace(in.Message) == "" {
		return Reply{Outcome: OutcomeRejected, Text: "'message' is required"}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	start := time.Now()
	reply := Reply{RequestID: o.newID(), TopicKey: TopicKey(in.Message)}
	log := o.log.With("request_id", reply.RequestID, "topic", reply.TopicKey)

	// Decided
	attempts := o.attempts.Get(reply.TopicKey)
	reply.Decision = Decide(in.Message, attempts)
	log.Debug("chat decided",
		"attempts", attempts,
		"augment", reply.Decision.Triggered,
		"reason", reply.Decision.Reason,
	)

	// SearchFetching
	var searchText string
	if reply.Decision.Triggered {
		o.observeAugmentation(reply.Decision.Reason)
		searchText, reply.SearchFallback = o.search(ctx, log, in.Message, attempts, reply.Decision.Reason)
	}

	// Composed
	messages := Compose(ComposeInput{
		Message:    in.Message,
		Context:    in.Context,
		History:    o.window.Snapshot(),
		Augmented:  reply.Decision.Triggered,
		SearchText: searchText,
	})

	// Completing
	text, err := o.completer.Complete(ctx, CompletionRequest{
		Model:       o.model,
		Messages:    messages,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	})

	if err != nil {
		// Failed
		failure := ClassifyError(err)
		reply.Outcome = OutcomeFailed
		reply.Failure = &failure
		reply.Attempts = o.attempts.Increment(reply.TopicKey)
		reply.Text = failure.Message()
		if reply.Attempts >= FailedAttemptsThreshold {
			reply.Text += searchActivationNote
		}
		log.Warn("completion failed",
			"kind", failure.Kind,
			"status", failure.StatusCode,
			"attempts", reply.Attempts,
			"error", err,
		)
	} else {
		// Succeeded
		o.window.AppendPair(UserTurn(in.Message), AssistantTurn(text))
		o.attempts.Reset(reply.TopicKey)
		reply.Outcome = OutcomeSucceeded
		reply.Text = text
		log.Info("completion succeeded", "window", o.window.Len())
	}

	elapsed := time.Since(start)
	o.observeChat(reply, elapsed)
	o.record(ctx, log, in, reply, elapsed)
	return reply
}

// search asks the Searcher for supplementary text, falling back to local
// text on any failure. The second result reports whether the fallback was used.
func (o *Orchestrator) search(ctx context.Context, log *slog.Logger, query string, attempts int, reason Reason) (string, bool) {
	if o.searcher != nil {
		text, err := o.searcher.Search(ctx, query, attempts)
		if err == nil {
			return "[" + string(reason) + "] " + text, false
		}
		log.Warn("search failed, using fallback", "error", err)
	}
	if o.recorder != nil {
		o.recorder.ObserveSearchFallback()
	}
	return "[" + string(reason) + "] " + FallbackSearchText(query, attempts), true
}

// purger is implemented by searchers that hold cached results.
type purger interface {
	Purge()
}

// Reset clears the conversation window, every attempt counter and any
// cached search results.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.window.Clear()
	o.attempts.Clear()
	if p, ok := o.searcher.(purger); ok {
		p.Purge()
	}
	if o.recorder != nil {
		o.recorder.ObserveReset()
	}
	o.log.Info("conversation reset")
}

// Status reports the window length, tracked topics and configured model.
func (o *Orchestrator) Status(ctx context.Context) Status {
	o.mu.Lock()
	defer o.mu.Unlock()

	st := Status{
		WindowLen:     o.window.Len(),
		TrackedTopics: o.attempts.Len(),
		Model:         o.model,
		Provider:      o.provider,
	}
	if o.journal != nil {
		st.JournalEnabled = true
		n, err := o.journal.Count(ctx)
		if err != nil {
			o.log.Warn("journal count failed", "error", err)
		}
		st.Journaled = n
	}
	return st
}

func (o *Orchestrator) observeAugmentation(reason Reason) {
	if o.recorder != nil {
		o.recorder.ObserveAugmentation(reason)
	}
}

func (o *Orchestrator) observeChat(r Reply, d time.Duration) {
	if o.recorder == nil {
		return
	}
	var kind FailureKind
	if r.Failure != nil {
		kind = r.Failure.Kind
	}
	o.recorder.ObserveChat(r.Outcome, kind, d)
}

func (o *Orchestrator) record(ctx context.Context, log *slog.Logger, in ChatInput, r Reply, d time.Duration) {
	if o.journal == nil {
		return
	}
	ex := Exchange{
		RequestID: r.RequestID,
		TopicKey:  r.TopicKey,
		Reason:    r.Decision.Reason,
		Augmented: r.Decision.Triggered,
		Message:   in.Message,
		Context:   in.Context,
		Response:  r.Text,
		Outcome:   r.Outcome,
		Attempts:  r.Attempts,
		Duration:  d,
	}
	if r.Failure != nil {
		ex.FailureKind = r.Failure.Kind
	}
	if err := o.journal.Record(ctx, ex); err != nil {
		log.Warn("journal record failed", "error", err)
	}
}
