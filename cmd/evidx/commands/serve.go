package commands

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/labels"

	"github.com/henderiw/evtindex/pkg/eventindex"
	"github.com/henderiw/evtindex/pkg/metrics"
)

const shutdownTimeout = 5 * time.Second

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve FILE",
		Short: "Serve overlap queries over HTTP",
		Long: `Serve the events of FILE.

  GET /events?from=X&to=Y&order=asc|desc&selector=S   matching events as JSON
  GET /span                                           earliest start, latest end, count
  GET /metrics                                        prometheus metrics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())
			m, err := metrics.New(reg)
			if err != nil {
				return err
			}
			tl, err := openTimeline(cfg, args[0], log, eventindex.WithObserver(m))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg.Listen, newHandler(tl, reg, log), log)
		},
	}
	cmd.Flags().String("listen", "", "address to listen on")
	return cmd
}

func serve(ctx context.Context, addr string, handler http.Handler, log logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("serving events")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func newHandler(tl timeline, reg *prometheus.Registry, log logrus.FieldLogger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /span", func(w http.ResponseWriter, _ *http.Request) {
		span, _ := tl.Span()
		writeJSON(w, http.StatusOK, span, log)
	})
	mux.HandleFunc("GET /events", func(w http.ResponseWriter, req *http.Request) {
		params := req.URL.Query()

		q := Query{
			From: params.Get("from"),
			To:   params.Get("to"),
		}
		switch params.Get("order") {
		case "", "asc":
		case "desc":
			q.Reverse = true
		default:
			writeError(w, http.StatusBadRequest, errors.Errorf("unknown order %q", params.Get("order")), log)
			return
		}
		selector, err := labels.Parse(params.Get("selector"))
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.Wrap(err, "invalid selector"), log)
			return
		}
		q.Selector = selector

		rows, err := tl.Query(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err, log)
			return
		}
		writeJSON(w, http.StatusOK, rows, log)
	})
	return mux
}

func writeError(w http.ResponseWriter, status int, err error, log logrus.FieldLogger) {
	log.WithError(err).Debug("rejected request")
	writeJSON(w, status, map[string]string{"error": err.Error()}, log)
}

func writeJSON(w http.ResponseWriter, status int, v any, log logrus.FieldLogger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}
