package balance

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/phasebal/core/runlog"
)

// NewRunsHandler returns an HTTP handler exposing recorded runs via
// GET /api/runs. Supported filters are start and end (RFC 3339), compliant
// and limit.
func NewRunsHandler(store runlog.Store, opts Options) http.Handler {
	return authorize(opts.Token, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
			return
		}
		q, err := parseRunQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if records == nil {
			records = []runlog.RunRecord{}
		}
		writeJSON(w, http.StatusOK, records)
	}))
}

func parseRunQuery(r *http.Request) (runlog.RunQuery, error) {
	var q runlog.RunQuery
	params := r.URL.Query()
	for _, p := range []struct {
		key string
		dst *time.Time
	}{{"start", &q.Start}, {"end", &q.End}} {
		if s := params.Get(p.key); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return q, fmt.Errorf("invalid %s: %w", p.key, err)
			}
			*p.dst = t
		}
	}
	if s := params.Get("compliant"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return q, fmt.Errorf("invalid compliant: %w", err)
		}
		q.Compliant = &b
	}
	if s := params.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return q, fmt.Errorf("invalid limit %q", s)
		}
		q.Limit = n
	}
	return q, nil
}
