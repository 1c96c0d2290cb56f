// Package balance exposes the phase balancer over HTTP.
package balance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	corebalance "github.com/kilianp07/phasebal/core/balance"
	"github.com/kilianp07/phasebal/core/logger"
	"github.com/kilianp07/phasebal/core/model"
	"github.com/kilianp07/phasebal/core/runlog"
)

// Balancer runs a balancing request.
type Balancer interface {
	Balance(ctx context.Context, circuits []model.CircuitLoad) (corebalance.Report, error)
}

// Request is the body accepted by POST /api/balance.
type Request struct {
	Circuits []model.CircuitLoad `json:"circuits"`
}

// ErrorResponse is returned with 4xx and 5xx statuses.
type ErrorResponse struct {
	Error         string `json:"error"`
	CircuitNumber *int   `json:"circuitNumber,omitempty"`
}

// NeutralResponse is returned by GET /api/neutral.
type NeutralResponse struct {
	NeutralCurrent float64 `json:"neutralCurrent"`
}

// Options tune the handlers.
type Options struct {
	// Token enables bearer authentication when non-empty.
	Token string

	// MaxBodyBytes limits request bodies. Zero disables the limit.
	MaxBodyBytes int64

	// History serves GET /api/runs when set.
	History runlog.Store
	Logger  logger.Logger
}

// NewBalanceHandler returns an HTTP handler for POST /api/balance.
func NewBalanceHandler(b Balancer, opts Options) http.Handler {
	log := logger.OrNop(opts.Logger)
	return authorize(opts.Token, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
			return
		}
		body := r.Body
		if opts.MaxBodyBytes > 0 {
			body = http.MaxBytesReader(w, r.Body, opts.MaxBodyBytes)
		}
		var req Request
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}
		rep, err := b.Balance(r.Context(), req.Circuits)
		if err != nil {
			var ce *corebalance.CircuitError
			if errors.As(err, &ce) {
				n := ce.CircuitNumber
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), CircuitNumber: &n})
				return
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				writeError(w, http.StatusServiceUnavailable, err)
				return
			}
			log.Errorf("balance request: %v", err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}))
}

// NewNeutralHandler returns an HTTP handler for GET /api/neutral.
func NewNeutralHandler(opts Options) http.Handler {
	return authorize(opts.Token, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
			return
		}
		var totals [3]float64
		for i, p := range model.Phases {
			key := "l" + strconv.Itoa(i+1)
			v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Errorf("%s: invalid %s current", p, key))
				return
			}
			if err := corebalance.ValidateCurrent(v); err != nil {
				writeError(w, http.StatusBadRequest, fmt.Errorf("%s: %w", key, err))
				return
			}
			totals[i] = v
		}
		n := corebalance.EstimateNeutralCurrent(totals[0], totals[1], totals[2])
		writeJSON(w, http.StatusOK, NeutralResponse{NeutralCurrent: n})
	}))
}

// NewMux registers the balancing routes and a health check. The run history
// route is only registered when opts.History is set.
func NewMux(b Balancer, opts Options) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/balance", NewBalanceHandler(b, opts))
	mux.Handle("/api/neutral", NewNeutralHandler(opts))
	if opts.History != nil {
		mux.Handle("/api/runs", NewRunsHandler(opts.History, opts))
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func authorize(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
