package chatbot

import (
	"context"
	"sync"

	"scrapebot/config"
	"scrapebot/services/ai"
	"scrapebot/services/llm"
	"scrapebot/services/scraper"
)

type sessionEntry struct {
	mu       sync.Mutex
	provider string
	engine   *Engine
}

// Store maps session ids to engine instances with an explicit create,
// replace and evict lifecycle. Each session's requests are serialized here,
// so the engine itself stays lock-free.
type Store struct {
	mu       sync.Mutex
	cfg      config.Config
	gateway  PersistenceGateway
	sessions map[string]*sessionEntry
}

func NewStore(cfg config.Config, gateway PersistenceGateway) *Store {
	return &Store{
		cfg:      cfg,
		gateway:  gateway,
		sessions: make(map[string]*sessionEntry),
	}
}

// Process routes one message to the session's engine, creating the engine on
// first use. Asking for a different provider mid-session replaces the engine
// and its state.
func (s *Store) Process(ctx context.Context, sessionID, provider, message string) string {
	entry := s.entryFor(sessionID, provider)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.engine.Handle(ctx, message)
}

// Stats reports a session's counters without touching its history.
func (s *Store) Stats(sessionID string) (Stats, bool) {
	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return Stats{}, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.engine.Stats(), true
}

// History returns a session's conversation so far.
func (s *Store) History(sessionID string) ([]Turn, bool) {
	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.engine.History(), true
}

// Evict drops a session and all its in-memory state.
func (s *Store) Evict(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *Store) entryFor(sessionID, provider string) *sessionEntry {
	if provider == "" {
		provider = s.cfg.AIProvider
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.sessions[sessionID]; ok && entry.provider == provider {
		return entry
	}
	entry := &sessionEntry{
		provider: provider,
		engine:   s.buildEngine(sessionID, provider),
	}
	s.sessions[sessionID] = entry
	return entry
}

func (s *Store) buildEngine(sessionID, provider string) *Engine {
	scr := scraper.New(scraper.Config{
		Delay:         s.cfg.ScrapeDelay,
		Timeout:       s.cfg.FetchTimeout,
		RespectRobots: s.cfg.RespectRobots,
	})
	analyzer := ai.NewAnalyzer(llm.NewClient(provider, s.cfg), s.cfg.MaxSummaryWords)
	return NewEngine(sessionID, scr, analyzer, s.responder(provider), s.gateway)
}

// responder picks the conversational-fallback client: the session's provider
// when its key is configured, otherwise whichever provider has one.
func (s *Store) responder(provider string) llm.Client {
	if client := llm.NewClient(provider, s.cfg); client != nil {
		return client
	}
	if client := llm.NewClient("openai", s.cfg); client != nil {
		return client
	}
	return llm.NewClient("anthropic", s.cfg)
}
