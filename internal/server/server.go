package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/iwvelando/payoff-chart/internal/chart"
	"github.com/iwvelando/payoff-chart/internal/payoff"
	"github.com/iwvelando/payoff-chart/internal/quotes"
	"github.com/iwvelando/payoff-chart/pkg/constants"
	"go.uber.org/zap"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// Options configures the handler.
type Options struct {
	MaxUploadSize int64
	Version       string
	Analysis      payoff.Options
	Chart         chart.Config
	// Quotes is the dataset rendered at "/". Nil selects the built-in dataset.
	Quotes []quotes.OptionQuote
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	analysis      payoff.Options
	analyzer      *payoff.Analyzer
	presenter     *chart.Presenter
	dataset       []quotes.OptionQuote
	queryDecoder  *schema.Decoder
}

// analysisQuery holds per-request overrides of the configured analysis
// options, e.g. POST /api/analyze?zeroSampleBreakEven=false.
type analysisQuery struct {
	SortByStrike        *bool `schema:"sortByStrike"`
	ZeroSampleBreakEven *bool `schema:"zeroSampleBreakEven"`
}

// NewHandler constructs the HTTP handler that serves the chart page and the
// analysis API.
func NewHandler(logger *zap.Logger, opts Options) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	presenter, err := chart.NewPresenter(logger, opts.Chart)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart presenter: %w", err)
	}

	dataset := opts.Quotes
	if dataset == nil {
		dataset = quotes.Default()
	}

	queryDecoder := schema.NewDecoder()
	queryDecoder.IgnoreUnknownKeys(true)

	h := &handler{
		logger:        logger,
		maxUploadSize: opts.MaxUploadSize,
		version:       trimmedVersion,
		analysis:      opts.Analysis,
		analyzer:      payoff.NewAnalyzer(logger, opts.Analysis),
		presenter:     presenter,
		dataset:       dataset,
		queryDecoder:  queryDecoder,
	}

	router := mux.NewRouter()
	router.Use(h.withRequestID)
	router.NotFoundHandler = h.withRequestID(http.HandlerFunc(h.handleNotFound))
	router.MethodNotAllowedHandler = h.withRequestID(http.HandlerFunc(h.handleMethodNotAllowed))

	// Chart page for the loaded dataset
	router.HandleFunc("/", h.handleIndex).Methods(http.MethodGet)

	// Analysis API for uploaded quotes
	router.HandleFunc("/api/analyze", h.handleAnalyze).Methods(http.MethodPost)

	// Chart rendering for uploaded quotes
	router.HandleFunc("/api/chart", h.handleChart).Methods(http.MethodPost)

	// Version endpoint for UI metadata
	router.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)

	return router, nil
}

type analyzeResponse struct {
	payoff.Result
	Summary  []string `json:"summary"`
	Duration string   `json:"duration"`
}

func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		start := time.Now()
		next.ServeHTTP(w, r)
		h.logger.Debug("request served",
			zap.String("op", "server.withRequestID"),
			zap.String("requestId", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	analyzer, err := h.analyzerFor(r)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), "server.handleIndex")
		return
	}

	result, err := analyzer.Analyze(h.dataset)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to analyze dataset: %v", err), "server.handleIndex")
		return
	}
	h.writeChart(w, r, result, "server.handleIndex")
}

func (h *handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.respondErrorWithOp(w, r, http.StatusNotFound, "not found", "server.handleNotFound")
}

func (h *handler) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.respondErrorWithOp(w, r, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed", r.Method), "server.handleMethodNotAllowed")
}

// analyzerFor returns the shared analyzer, or a fresh one when the query
// string overrides the analysis options.
func (h *handler) analyzerFor(r *http.Request) (*payoff.Analyzer, error) {
	var q analysisQuery
	if err := h.queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	if q.SortByStrike == nil && q.ZeroSampleBreakEven == nil {
		return h.analyzer, nil
	}

	opts := h.analysis
	if q.SortByStrike != nil {
		opts.SortByStrike = *q.SortByStrike
	}
	if q.ZeroSampleBreakEven != nil {
		opts.ZeroSampleBreakEven = *q.ZeroSampleBreakEven
	}
	return payoff.NewAnalyzer(h.logger, opts), nil
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalyze"
	start := time.Now()

	analyzer, err := h.analyzerFor(r)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	list, ok := h.readQuotes(w, r, op)
	if !ok {
		return
	}

	result, err := analyzer.Analyze(list)
	if err != nil {
		h.respondErrorWithOp(w, r, statusFor(err), err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("payoff analyzed",
		zap.String("op", op),
		zap.String("requestId", w.Header().Get(RequestIDHeader)),
		zap.Int("quotes", len(list)),
		zap.Int("breakEvens", len(result.BreakEvenPoints)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, analyzeResponse{
		Result:   result,
		Summary:  chart.Summary(result),
		Duration: elapsed.String(),
	})
}

func (h *handler) handleChart(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleChart"

	analyzer, err := h.analyzerFor(r)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	list, ok := h.readQuotes(w, r, op)
	if !ok {
		return
	}

	result, err := analyzer.Analyze(list)
	if err != nil {
		h.respondErrorWithOp(w, r, statusFor(err), err.Error(), op)
		return
	}
	h.writeChart(w, r, result, op)
}

// readQuotes accepts either a multipart upload in the "file" field or a raw
// JSON/CSV body. It writes the error response itself when it returns false.
func (h *handler) readQuotes(w http.ResponseWriter, r *http.Request, op string) ([]quotes.OptionQuote, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var (
		data     []byte
		filename string
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
			h.respondReadError(w, r, err, op)
			return nil, false
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing quote file", op)
			return nil, false
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil {
				h.logger.Warn("failed to close uploaded file",
					zap.String("op", op),
					zap.Error(closeErr),
				)
			}
		}()

		var buf bytes.Buffer
		if _, err := io.Copy(&buf, file); err != nil {
			h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to read quotes: %v", err), op)
			return nil, false
		}
		data = buf.Bytes()
		filename = header.Filename
	} else {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			h.respondReadError(w, r, err, op)
			return nil, false
		}
		data = body
	}

	if len(bytes.TrimSpace(data)) == 0 {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "empty quote payload", op)
		return nil, false
	}

	format := quotes.Sniff(data)
	if filename != "" {
		if fromName, err := quotes.FormatFromPath(filename); err == nil {
			format = fromName
		}
	}

	list, err := quotes.Load(bytes.NewReader(data), format)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return nil, false
	}
	return list, true
}

func (h *handler) respondReadError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
		return
	}
	h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
}

func (h *handler) writeChart(w http.ResponseWriter, r *http.Request, result payoff.Result, op string) {
	var buf bytes.Buffer
	if err := h.presenter.Render(&buf, chart.DataFromResult(result)); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err), op)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write chart response",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func statusFor(err error) int {
	if errors.Is(err, payoff.ErrInvalidInput) || errors.Is(err, quotes.ErrInvalidQuote) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.String("requestId", w.Header().Get(RequestIDHeader)),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
