package chat

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dinosandi/Mobile-Driver/internal/apperr"
	"github.com/dinosandi/Mobile-Driver/internal/domain"
	"github.com/dinosandi/Mobile-Driver/internal/logx"
)

// chatGateway is the slice of the backend gateway the sync engine uses.
type chatGateway interface {
	ChatFeed(ctx context.Context, userID domain.UserID) ([]domain.Message, error)
	SendChat(ctx context.Context, sender, receiver domain.UserID, text string) (domain.Message, error)
}

type counter interface {
	Inc()
}

// Entry is the display form of one transcript message: the raw timestamp
// drives ordering, the formatted time-of-day string is what gets rendered.
type Entry struct {
	ID         domain.MessageID // server id; empty for a not-yet-confirmed entry
	LocalID    string           // set only on locally appended entries
	SenderID   domain.UserID
	ReceiverID domain.UserID
	Text       string
	TimeOfDay  string
	Timestamp  time.Time
	Pending    bool
}

// conversationKey identifies the unordered participant pair.
type conversationKey struct {
	lo, hi string
}

func keyFor(a, b domain.UserID) conversationKey {
	x := strings.TrimSpace(string(a))
	y := strings.TrimSpace(string(b))
	if x > y {
		x, y = y, x
	}
	return conversationKey{lo: x, hi: y}
}

// pendingEntry is an optimistic local append waiting for its server copy.
type pendingEntry struct {
	entry       Entry
	confirmedID domain.MessageID // id the backend returned at send time, if any
}

// Engine reconciles the shared, unfiltered message feed into per-conversation
// transcripts, and merges locally sent messages ahead of server confirmation.
// A pending entry whose server-confirmed id shows up in a later feed is
// retired so a refetch never duplicates the message.
type Engine struct {
	gw      chatGateway
	logger  logx.Logger
	now     func() time.Time
	retired counter

	seq uint64 // last issued fetch, across all conversations

	mu          sync.Mutex
	applied     map[conversationKey]uint64
	pending     map[conversationKey][]pendingEntry
	transcripts map[conversationKey][]Entry
}

// NewEngine creates a message sync engine.
func NewEngine(gw chatGateway, logger logx.Logger) *Engine {
	if gw == nil {
		return nil
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Engine{
		gw:          gw,
		logger:      logger,
		now:         time.Now,
		applied:     map[conversationKey]uint64{},
		pending:     map[conversationKey][]pendingEntry{},
		transcripts: map[conversationKey][]Entry{},
	}
}

// WithRetiredCounter attaches the counter for retired optimistic entries.
func (e *Engine) WithRetiredCounter(c counter) *Engine {
	e.retired = c
	return e
}

// LoadConversation fetches the feed scoped to the local participant, keeps
// only the {local, remote} pair in both directions, sorts ascending by raw
// timestamp (stable: equal timestamps keep feed order) and merges pending
// optimistic entries. Overlapping loads of the same conversation commit only
// the most recently issued fetch; every caller gets the committed transcript.
func (e *Engine) LoadConversation(ctx context.Context, localID, remoteID domain.UserID) ([]Entry, error) {
	if strings.TrimSpace(string(localID)) == "" || strings.TrimSpace(string(remoteID)) == "" {
		return nil, fmt.Errorf("%w: missing participant id", apperr.Validation)
	}

	issue := atomic.AddUint64(&e.seq, 1)

	feed, err := e.gw.ChatFeed(ctx, localID)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(feed))
	feedIDs := make(map[domain.MessageID]struct{}, len(feed))
	for _, m := range feed {
		if !m.InConversation(localID, remoteID) {
			continue
		}
		entries = append(entries, fromMessage(m))
		if m.ID != "" {
			feedIDs[m.ID] = struct{}{}
		}
	}
	sortByTimestamp(entries)

	key := keyFor(localID, remoteID)

	e.mu.Lock()
	defer e.mu.Unlock()

	// Retire pending entries the server now reports itself.
	kept := e.pending[key][:0]
	for _, p := range e.pending[key] {
		if p.confirmedID != "" {
			if _, ok := feedIDs[p.confirmedID]; ok {
				if e.retired != nil {
					e.retired.Inc()
				}
				e.logger.Debug("optimistic entry retired",
					logx.String("message_id", string(p.confirmedID)),
				)
				continue
			}
		}
		kept = append(kept, p)
	}
	e.pending[key] = kept

	merged := entries
	for _, p := range kept {
		merged = append(merged, p.entry)
	}
	sortByTimestamp(merged)

	if issue > e.applied[key] {
		e.applied[key] = issue
		e.transcripts[key] = merged
	}
	return snapshot(e.transcripts[key]), nil
}

// SendMessage submits the message and appends a locally-built entry to the
// in-memory transcript so the sender sees it without waiting for a refetch.
// Text that is empty after trimming is rejected before any network call; a
// failed send leaves the transcript untouched.
func (e *Engine) SendMessage(ctx context.Context, localID, remoteID domain.UserID, text string) (Entry, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Entry{}, fmt.Errorf("%w: message text is empty", apperr.Validation)
	}
	if strings.TrimSpace(string(localID)) == "" || strings.TrimSpace(string(remoteID)) == "" {
		return Entry{}, fmt.Errorf("%w: missing participant id", apperr.Validation)
	}

	confirmed, err := e.gw.SendChat(ctx, localID, remoteID, trimmed)
	if err != nil {
		return Entry{}, err
	}

	now := e.now()
	entry := Entry{
		ID:         confirmed.ID,
		LocalID:    uuid.NewString(),
		SenderID:   localID,
		ReceiverID: remoteID,
		Text:       trimmed,
		TimeOfDay:  timeOfDay(now),
		Timestamp:  now,
		Pending:    true,
	}

	key := keyFor(localID, remoteID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending[key] = append(e.pending[key], pendingEntry{entry: entry, confirmedID: confirmed.ID})
	e.transcripts[key] = append(snapshot(e.transcripts[key]), entry)

	e.logger.Info("message sent",
		logx.String("receiver_id", string(remoteID)),
		logx.String("message_id", string(confirmed.ID)),
	)
	return entry, nil
}

// Transcript returns the committed transcript without fetching.
func (e *Engine) Transcript(localID, remoteID domain.UserID) []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.transcripts[keyFor(localID, remoteID)])
}

func fromMessage(m domain.Message) Entry {
	return Entry{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Text:       m.Text,
		TimeOfDay:  timeOfDay(m.Timestamp),
		Timestamp:  m.Timestamp,
	}
}

// timeOfDay renders the clock shown next to a bubble. A zero timestamp has
// no clock to show.
func timeOfDay(ts time.Time) string {
	if ts.IsZero() {
		return "N/A"
	}
	return ts.Format("15:04")
}

func sortByTimestamp(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
}

func snapshot(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
