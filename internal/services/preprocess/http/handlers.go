// Package http provides HTTP transport for the preprocess service
package http

import (
	stdhttp "net/http"

	"csvprep/internal/modkit/httpkit"
	perr "csvprep/internal/platform/errors"
	"csvprep/internal/services/preprocess/domain"
)

// Register mounts preprocess endpoints on the given router
func Register(r httpkit.Router, runner domain.RunnerPort, ledger domain.LedgerPort, maxEventBytes int64) {
	h := &handlers{runner: runner, ledger: ledger}

	httpkit.PostRaw(r, "/events", maxEventBytes, h.event)
	httpkit.PostJSON[domain.Trigger](r, "/preprocess", h.preprocess)
	httpkit.Get(r, "/runs/{id}", h.run)
}

type handlers struct {
	runner domain.RunnerPort
	ledger domain.LedgerPort
}

// swagger:route POST /events Preprocess preprocessEvent
// @Summary Run the pipeline for a bucket notification
// @Description Accepts an S3/MinIO notification (first record only) or a GCS object notification
// @Tags Preprocess
// @Accept json
// @Produce json
// @Param payload body object true "Bucket notification"
// @Success 200 {object} domain.Result "ok"
// @Failure 422 {object} domain.Result "unparseable CSV"
// @Failure 503 {object} domain.Result "storage unavailable, retry"
// @Router /events [post]
func (h *handlers) event(r *stdhttp.Request, body []byte) (any, error) {
	return outcome(h.runner.HandleEvent(r.Context(), body))
}

// swagger:route POST /preprocess Preprocess preprocessObject
// @Summary Run the pipeline for one object
// @Tags Preprocess
// @Accept json
// @Produce json
// @Param payload body domain.Trigger true "Source object"
// @Success 200 {object} domain.Result "ok"
// @Failure 404 {object} domain.Result "source object missing"
// @Router /preprocess [post]
func (h *handlers) preprocess(r *stdhttp.Request, in domain.Trigger) (any, error) {
	return outcome(h.runner.Handle(r.Context(), in))
}

// swagger:route GET /runs/{id} Preprocess preprocessRun
// @Summary Look up a recorded run
// @Tags Preprocess
// @Produce json
// @Param id path string true "Run id"
// @Success 200 {object} domain.Run "ok"
// @Failure 404 {object} swaggerkit.ErrorResponse "unknown run or ledger disabled"
// @Router /runs/{id} [get]
func (h *handlers) run(r *stdhttp.Request) (any, error) {
	run, err := h.ledger.Run(r.Context(), httpkit.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return run, nil
}

// outcome hands the result back as data; a failed run also maps its error to the status
func outcome(res domain.Result) (any, error) {
	if res.OK() {
		return res, nil
	}
	if res.Err == nil {
		return res, perr.New(perr.ErrorCodeUnknown, res.Body)
	}
	return res, res.Err
}
