package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	"github.com/poiesic/trawl/ai"
	"github.com/poiesic/trawl/ai/fallback"
	"github.com/poiesic/trawl/core"
	"github.com/poiesic/trawl/eventlog"
	"github.com/poiesic/trawl/index"
)

const (
	// DefaultLimit is the result page size when Options.Limit is zero.
	DefaultLimit = 10

	// DefaultWeight is the lexical share of the fused score the CLI offers
	// by default. Weight 1 is pure BM25; weight 0 is pure cosine.
	DefaultWeight = 0.5

	// embedBatchSize is how many document texts one worker embeds per call.
	embedBatchSize = 32
)

// Options describes one search invocation. The zero value is not runnable:
// Query is required. All other fields are optional; empty strings and zero
// values leave their dimension unconstrained.
type Options struct {
	// Query is the search text. Required.
	Query string

	// Type restricts results to one event type (wire name, e.g. "prompt").
	Type string

	// From and To bound the time range, inclusive. They accept "today",
	// "yesterday", "N days ago", "2006-01-02", "2006-01-02 15:04",
	// "2006-01-02 15:04:05", and RFC 3339. Day-granular values expand to
	// the start (From) or end (To) of the day.
	From string
	To   string

	// Session restricts results to session ids with this prefix.
	Session string

	// Semantic enables embedding-based scoring blended with BM25.
	Semantic bool

	// Weight is the lexical share of the fused score, in [0, 1]. Only
	// consulted when Semantic is set; 0 ranks purely by cosine similarity.
	Weight float64

	// Limit caps returned results; zero means DefaultLimit.
	Limit int

	// Offset skips that many ranked results before the page starts.
	Offset int

	// Full renders complete document text instead of a snippet.
	Full bool

	// Highlight wraps matched terms in ** markers.
	Highlight bool

	// Pairs restricts hits to prompts and attaches the first assistant
	// response that follows each hit within its session.
	Pairs bool
}

// resolved is a validated execution plan. Building it performs no I/O.
type resolved struct {
	terms     []string
	filter    Filter
	weight    float64
	limit     int
	offset    int
	semantic  bool
	full      bool
	highlight bool
	pairs     bool
}

// resolveFilter validates the filter dimensions shared by search, stats,
// and collection.
func (o Options) resolveFilter(now time.Time) (Filter, error) {
	var f Filter

	if o.Type != "" {
		et, err := core.ParseEventType(o.Type)
		if err != nil {
			return f, err
		}
		f.Type = &et
	}
	if o.From != "" {
		t, err := ResolveAnchor(o.From, now, false)
		if err != nil {
			return f, err
		}
		f.From = t
	}
	if o.To != "" {
		t, err := ResolveAnchor(o.To, now, true)
		if err != nil {
			return f, err
		}
		f.To = t
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return f, fmt.Errorf("%w: %q is after %q", ErrBadRange, o.From, o.To)
	}
	f.SessionPrefix = o.Session
	return f, nil
}

// resolve validates the full invocation. Any problem here is a
// configuration error raised before a single file is opened.
func (o Options) resolve(now time.Time) (resolved, error) {
	var r resolved

	if strings.TrimSpace(o.Query) == "" {
		return r, ErrEmptyQuery
	}

	filter, err := o.resolveFilter(now)
	if err != nil {
		return r, err
	}
	r.filter = filter

	if o.Pairs {
		if r.filter.Type != nil && *r.filter.Type != core.EventPrompt {
			return r, fmt.Errorf("%w: conflicting type %q", ErrPairsNeedPrompts, o.Type)
		}
		prompt := core.EventPrompt
		r.filter.Type = &prompt
		r.pairs = true
	}

	r.weight = 1
	if o.Semantic {
		if o.Weight < 0 || o.Weight > 1 {
			return r, fmt.Errorf("%w: %v", ErrBadWeight, o.Weight)
		}
		r.weight = o.Weight
		r.semantic = true
	}

	if o.Limit < 0 {
		return r, fmt.Errorf("%w: limit %d", ErrBadLimit, o.Limit)
	}
	if o.Offset < 0 {
		return r, fmt.Errorf("%w: offset %d", ErrBadLimit, o.Offset)
	}
	r.limit = o.Limit
	if r.limit == 0 {
		r.limit = DefaultLimit
	}
	r.offset = o.Offset

	r.terms = index.Tokenize(o.Query)
	r.full = o.Full
	r.highlight = o.Highlight
	return r, nil
}

// Result is one ranked hit.
type Result struct {
	File            string          `json:"file"`
	Line            int             `json:"line"`
	Type            core.EventType  `json:"type"`
	Timestamp       time.Time       `json:"ts"`
	SessionID       string          `json:"session_id"`
	AgentSessionNum int             `json:"agent_session_num"`
	Score           float64         `json:"score"`
	Text            string          `json:"text"`
	Response        *PairedResponse `json:"response,omitempty"`
}

// PairedResponse is the assistant response attached to a prompt hit in
// pairs mode.
type PairedResponse struct {
	File      string    `json:"file"`
	Line      int       `json:"line"`
	Timestamp time.Time `json:"ts"`
	Text      string    `json:"text"`
}

// Response is the outcome of one search invocation. Total counts all ranked
// hits before pagination.
type Response struct {
	Query        string   `json:"query"`
	Total        int      `json:"total"`
	Results      []Result `json:"results"`
	Warnings     []string `json:"warnings,omitempty"`
	SkippedLines int      `json:"skipped_lines,omitempty"`
}

// Searcher executes queries over a session log directory.
type Searcher struct {
	root     string
	embedder ai.Embedder
	degraded ai.Embedder
	logger   *slog.Logger
	monitor  Monitor
	poolSize int
	now      func() time.Time
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMonitor sets a search monitor receiving stage callbacks.
func WithMonitor(monitor Monitor) Option {
	return func(s *Searcher) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}

// WithPoolSize sets the number of workers embedding document batches.
// Default is half the CPU count, minimum 1.
func WithPoolSize(size int) Option {
	return func(s *Searcher) error {
		if size < 1 {
			return fmt.Errorf("pool size must be at least 1, got %d", size)
		}
		s.poolSize = size
		return nil
	}
}

// WithFallbackEmbedder sets the embedder used when the primary one fails
// mid-query. Default is the local hash embedder.
func WithFallbackEmbedder(embedder ai.Embedder) Option {
	return func(s *Searcher) error {
		if embedder == nil {
			return ErrEmbedderRequired
		}
		s.degraded = embedder
		return nil
	}
}

// WithClock sets the time source used to resolve relative anchors.
// Default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Searcher) error {
		if now == nil {
			now = time.Now
		}
		s.now = now
		return nil
	}
}

// NewSearcher creates a searcher over the log directory at root.
func NewSearcher(root string, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if root == "" {
		return nil, ErrLogRootRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		root:     root,
		embedder: embedder,
		degraded: fallback.NewEmbedder(ai.DefaultConfig()),
		logger:   slog.Default(),
		monitor:  &noopMonitor{},
		poolSize: defaultPoolSize(),
		now:      time.Now,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func defaultPoolSize() int {
	size := runtime.NumCPU() / 2
	if size < 1 {
		size = 1
	}
	return size
}

// Search executes one query. Zero matches is a successful empty response;
// an unreachable log directory is a warning beside empty results, not an
// error. Only invalid options fail the call before I/O.
func (s *Searcher) Search(ctx context.Context, opts Options) (*Response, error) {
	plan, err := opts.resolve(s.now())
	if err != nil {
		return nil, err
	}
	s.monitor.Start(opts.Query)

	resp := &Response{Query: opts.Query, Results: []Result{}}

	if len(plan.terms) == 0 {
		// Nothing left after stopword removal: lexically unmatchable.
		s.logger.Debug("query has no scoreable terms", "query", opts.Query)
		return resp, nil
	}

	corp, err := s.gather(ctx, plan)
	if err != nil {
		if errors.Is(err, eventlog.ErrLogDirUnavailable) {
			resp.Warnings = append(resp.Warnings, err.Error())
			return resp, nil
		}
		return nil, err
	}
	resp.SkippedLines = corp.report.MalformedLines
	resp.Warnings = append(resp.Warnings, corp.report.Warnings()...)
	s.monitor.AfterRead(corp.events, len(corp.docs))

	texts := make([]string, len(corp.docs))
	for i, doc := range corp.docs {
		texts[i] = doc.Text
	}
	idx := index.Build(texts)
	raw := idx.BM25(plan.terms)

	// Candidates are the documents the query lexically touches at all.
	// Semantic scoring reorders them; it never adds or removes any.
	candidates := make([]int, 0, len(raw))
	lexical := make([]float64, 0, len(raw))
	for ord, score := range raw {
		if score > 0 {
			candidates = append(candidates, ord)
			lexical = append(lexical, score)
		}
	}
	s.monitor.AfterLexical(plan.terms, len(candidates))
	if len(candidates) == 0 {
		return resp, nil
	}

	normalized := normalizeScores(lexical)

	semantic := make([]float64, len(candidates))
	if plan.semantic && plan.weight < 1 {
		candidateTexts := make([]string, len(candidates))
		for i, ord := range candidates {
			candidateTexts[i] = corp.docs[ord].Text
		}
		cosines, warning, err := s.semanticScores(ctx, opts.Query, candidateTexts)
		if err != nil {
			return nil, err
		}
		if warning != "" {
			resp.Warnings = append(resp.Warnings, warning)
		}
		semantic = cosines
		s.monitor.AfterSemantic(len(candidateTexts), warning != "")
	}

	fused := fuseScores(normalized, semantic, plan.weight)

	// Rank: fused score descending, ties by timestamp ascending, then by
	// document identity so equal-scored results never shuffle between runs.
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if fused[ia] != fused[ib] {
			return fused[ia] > fused[ib]
		}
		da, db := corp.docs[candidates[ia]], corp.docs[candidates[ib]]
		if !da.Timestamp.Equal(db.Timestamp) {
			return da.Timestamp.Before(db.Timestamp)
		}
		if da.File != db.File {
			return da.File < db.File
		}
		return da.Line < db.Line
	})

	resp.Total = len(order)
	page := paginate(order, plan.offset, plan.limit)

	for _, i := range page {
		doc := corp.docs[candidates[i]]
		text := doc.Text
		if !plan.full {
			text = makeSnippet(text)
		}
		if plan.highlight {
			text = highlightTerms(text, plan.terms)
		}

		result := Result{
			File:            doc.File,
			Line:            doc.Line,
			Type:            doc.Type,
			Timestamp:       doc.Timestamp,
			SessionID:       doc.SessionID,
			AgentSessionNum: doc.AgentSessionNum,
			Score:           fused[i],
			Text:            text,
		}
		if plan.pairs {
			if r := firstResponseAfter(corp.responses[doc.SessionID], doc); r != nil {
				rt := r.Text
				if !plan.full {
					rt = makeSnippet(rt)
				}
				result.Response = &PairedResponse{
					File:      r.File,
					Line:      r.Line,
					Timestamp: r.Timestamp,
					Text:      rt,
				}
			}
		}
		resp.Results = append(resp.Results, result)
	}

	s.monitor.Finish(resp.Results)
	return resp, nil
}

// corpus is everything one query reads from disk.
type corpus struct {
	events    int
	docs      []core.Document
	responses map[string][]core.Document // pairs mode only, log order
	report    eventlog.Report
}

// gather discovers the relevant log files and streams them through the
// filter, projecting text-bearing events into documents.
func (s *Searcher) gather(ctx context.Context, plan resolved) (corpus, error) {
	paths, err := eventlog.DiscoverRange(s.root, plan.filter.From, plan.filter.To)
	if err != nil {
		return corpus{}, err
	}

	reader, err := eventlog.NewReader(paths, eventlog.WithLogger(s.logger))
	if err != nil {
		return corpus{}, err
	}

	c := corpus{}
	if plan.pairs {
		c.responses = make(map[string][]core.Document)
	}

	for ev := range reader.Events(ctx) {
		if plan.pairs && ev.Type == core.EventResponse && sessionMatches(ev.SessionID, plan.filter.SessionPrefix) {
			// Responses are pairing material even when the type filter
			// (necessarily prompt here) excludes them from the hit set.
			if doc, ok := core.BuildDocument(ev); ok {
				c.responses[ev.SessionID] = append(c.responses[ev.SessionID], doc)
			}
		}

		if !plan.filter.Match(ev) {
			continue
		}
		c.events++
		if doc, ok := core.BuildDocument(ev); ok {
			c.docs = append(c.docs, doc)
		}
	}
	if err := ctx.Err(); err != nil {
		return corpus{}, err
	}

	c.report = reader.Report()
	return c, nil
}

func sessionMatches(sessionID, prefix string) bool {
	return prefix == "" || strings.HasPrefix(sessionID, prefix)
}

// firstResponseAfter returns the first response positioned after doc in log
// order, or nil. responses is already in log order.
func firstResponseAfter(responses []core.Document, doc core.Document) *core.Document {
	for i := range responses {
		r := &responses[i]
		if r.File > doc.File || (r.File == doc.File && r.Line > doc.Line) {
			return r
		}
	}
	return nil
}

// paginate slices ranked order indexes by offset and limit.
func paginate(order []int, offset, limit int) []int {
	if offset >= len(order) {
		return nil
	}
	end := offset + limit
	if end > len(order) {
		end = len(order)
	}
	return order[offset:end]
}

// semanticScores computes cosine similarity between the query and each
// text. A primary embedder failure degrades the whole invocation to the
// fallback embedder, recomputing everything so query and document vectors
// always share one space; the query never fails for this reason. The
// returned error is only ever a context cancellation.
func (s *Searcher) semanticScores(ctx context.Context, query string, texts []string) ([]float64, string, error) {
	queryVec, docVecs, err := s.embedAll(ctx, query, texts, s.embedder)
	var warning string
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		s.logger.Warn("embedding failed, degrading to local fallback", "err", err)
		warning = "semantic scoring degraded to local hash embeddings: " + err.Error()

		queryVec, docVecs, err = s.embedAll(ctx, query, texts, s.degraded)
		if err != nil {
			return nil, "", err
		}
	}

	cosines := make([]float64, len(texts))
	for i, vec := range docVecs {
		cosines[i] = ai.Cosine(queryVec, vec)
	}
	return cosines, warning, nil
}

// embedAll embeds the query and all texts with the same embedder. The query
// embedding runs concurrently with the document batches; batch results land
// in preallocated slots so output order never depends on scheduling.
func (s *Searcher) embedAll(ctx context.Context, query string, texts []string, embedder ai.Embedder) ([]float32, [][]float32, error) {
	var queryVec []float32
	docVecs := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vec, err := embedder.EmbedText(gctx, query)
		if err != nil {
			return err
		}
		queryVec = vec
		return nil
	})
	g.Go(func() error {
		return s.embedBatches(gctx, texts, docVecs, embedder)
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return queryVec, docVecs, nil
}

// embedBatches fans texts out across a worker pool in fixed-size batches.
func (s *Searcher) embedBatches(ctx context.Context, texts []string, out [][]float32, embedder ai.Embedder) error {
	if len(texts) == 0 {
		return nil
	}

	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		return err
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		wg.Add(1)
		task := func() {
			defer wg.Done()
			vecs, err := embedder.EmbedTexts(ctx, texts[start:end])
			if err != nil {
				fail(err)
				return
			}
			copy(out[start:end], vecs)
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			fail(err)
			break
		}
	}
	wg.Wait()
	return firstErr
}
