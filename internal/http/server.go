package http

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/calculator"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/receipts"
	"fintrack/internal/services"
)

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the handlers call.
type Deps struct {
	Transactions *services.TransactionService
	Budgets      *services.BudgetService
	Receipts     *services.ReceiptService
	// LocalReceipts enables GET /receipts/{name}.
	LocalReceipts *receipts.LocalStore
	Store         Pinger
}

// Options tune presentation and the request guards.
type Options struct {
	Currency        string
	CalcSessionTTL  time.Duration
	CalcMaxSessions int
	RateLimit       ratelimit.Config
	TrustedProxies  []string // extra CIDRs allowed to set X-Forwarded-For
	Logger          *log.Logger
}

func (o *Options) setDefaults() {
	if o.Currency == "" {
		o.Currency = "LKR"
	}
	if o.CalcSessionTTL <= 0 {
		o.CalcSessionTTL = 12 * time.Hour
	}
	if o.CalcMaxSessions <= 0 {
		o.CalcMaxSessions = 10000
	}
	if o.RateLimit.RequestsPerMinute <= 0 {
		o.RateLimit = ratelimit.DefaultConfig()
	}
	if o.Logger == nil {
		o.Logger = log.New(log.DefaultConfig())
	}
}

type Server struct {
	http.Server
	deps Deps
	opts Options
	now  func() time.Time

	sessions        *cache.LRUCache[calculator.State]
	cacheManager    *cache.Manager
	rateLimiter     *ratelimit.Limiter
	detector        *security.Detector
	traceMiddleware *trace.Middleware
	structured      *log.StructuredLogger

	appMetrics appMetrics

	stopBackground context.CancelFunc
	background     sync.WaitGroup
	shutdownOnce   sync.Once
}

type appMetrics struct {
	started          time.Time
	transactions     atomic.Int64
	receiptsUploaded atomic.Int64
	calcPresses      atomic.Int64
}

// NewServer wires routes and middleware and starts the background sweeps
// of the session cache and the rate limiter. Shutdown stops them.
func NewServer(addr string, deps Deps, opts Options) *Server {
	opts.setDefaults()

	s := &Server{
		deps:         deps,
		opts:         opts,
		now:          time.Now,
		sessions:     cache.NewLRUCache[calculator.State](opts.CalcMaxSessions, opts.CalcSessionTTL),
		cacheManager: cache.NewManager(),
		rateLimiter:  ratelimit.NewLimiter(opts.RateLimit),
		detector:     security.NewDetector(),
		structured:   log.NewStructuredLogger(opts.Logger.WithComponent(log.ComponentHTTP)),
	}
	s.appMetrics.started = time.Now()
	for _, cidr := range opts.TrustedProxies {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			opts.Logger.Warn("Ignoring trusted proxy", log.FieldError, err)
		}
	}
	s.traceMiddleware = trace.NewMiddleware(s.detector.ExtractClientIP, opts.Logger)
	s.cacheManager.Register(s.sessions)

	mux := http.NewServeMux()
	s.routes(mux)

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, retry later").Write(w)
	})(handler)
	handler = s.detector.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = log.RequestIDMiddleware(func(r *http.Request) string { return trace.GetRequestID(r.Context()) })(handler)
	handler = s.traceMiddleware.Middleware(handler)
	handler = log.Middleware(opts.Logger.WithComponent(log.ComponentHTTP))(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stopBackground = cancel
	s.background.Add(2)
	go func() {
		defer s.background.Done()
		s.cacheManager.Run(ctx, time.Minute)
	}()
	go func() {
		defer s.background.Done()
		s.rateLimiter.Run(ctx)
	}()

	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/calculator", s.handleCalculatorState)
	mux.HandleFunc("POST /api/calculator/press", s.handleCalculatorPress)
	mux.HandleFunc("POST /api/calculator/clear", s.handleCalculatorClear)

	mux.HandleFunc("GET /api/categories", s.handleCategories)

	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /api/transactions/summary", s.handleTransactionSummary)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)

	mux.HandleFunc("GET /api/budgets", s.handleListBudgets)
	mux.HandleFunc("POST /api/budgets", s.handleCreateBudget)
	mux.HandleFunc("GET /api/budgets/summary", s.handleBudgetSummary)
	mux.HandleFunc("GET /api/budgets/{id}", s.handleGetBudget)
	mux.HandleFunc("PUT /api/budgets/{id}", s.handleUpdateBudget)
	mux.HandleFunc("DELETE /api/budgets/{id}", s.handleDeleteBudget)

	mux.HandleFunc("POST /api/receipts", s.handleUploadReceipts)
	mux.HandleFunc("GET /api/receipts", s.handleListReceipts)
	mux.HandleFunc("GET /api/receipts/{name}", s.handleDownloadReceipt)
	mux.HandleFunc("GET /api/receipts/{name}/url", s.handleReceiptURL)
	mux.HandleFunc("DELETE /api/receipts/{name}", s.handleDeleteReceipt)

	if s.deps.LocalReceipts != nil {
		mux.Handle("GET /receipts/{name}",
			security.ImmutableAssetMiddleware(31536000)(http.HandlerFunc(s.handleServeLocalReceipt)))
	}
}

// Shutdown stops the background sweeps, then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.stopBackground()
		s.background.Wait()
	})
	return s.Server.Shutdown(ctx)
}
