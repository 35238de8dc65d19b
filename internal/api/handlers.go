package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/leasecheck/verifier/internal/domain"
	"github.com/leasecheck/verifier/internal/ingestion"
	"github.com/leasecheck/verifier/internal/verification"
)

const maxBodyBytes = 32 << 20

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	verifier     *verification.Validator
	ingestionSvc *ingestion.Service
	log          *zap.SugaredLogger
}

type identityRequest struct {
	Document *domain.ExtractedDocument `json:"document" validate:"required"`
	Form     *domain.ApplicationForm   `json:"form" validate:"required"`
}

type incomeRequest struct {
	Paystubs      []domain.ExtractedDocument `json:"paystubs"`
	BankStatement *domain.ExtractedDocument  `json:"bankStatement" validate:"required"`
}

type addressRequest struct {
	Document *domain.ExtractedDocument `json:"document" validate:"required"`
	Form     *domain.ApplicationForm   `json:"form" validate:"required"`
}

type ingestRequest struct {
	Format string `json:"format" validate:"required,oneof=csv psv"`
	Holder string `json:"holder"`
}

// --- helpers ---

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorw("Failed to encode response", "error", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeValidationError maps a validator error onto a status code. Contract
// violations are 422; anything else is unexpected.
func (h *Handlers) writeValidationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingArgument), errors.Is(err, domain.ErrWrongDocumentKind):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.Errorw("Validation failed unexpectedly", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeRequest reads a JSON body into v and runs its validate tags. It
// writes the 400 response itself and reports false when the request is bad.
func (h *Handlers) decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	if verrs := validateRequest(v); len(verrs) > 0 {
		h.writeJSON(w, http.StatusBadRequest, BadRequestErrorResponse{
			Message: "Invalid request data",
			Details: verrs,
		})
		return false
	}
	return true
}

// --- VerifyIdentity ---

func (h *Handlers) VerifyIdentity(w http.ResponseWriter, r *http.Request) {
	var req identityRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	res, err := h.verifier.ValidateIdentity(req.Document, req.Form)
	if err != nil {
		h.writeValidationError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// --- VerifyIncome ---

func (h *Handlers) VerifyIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	res, err := h.verifier.ValidateIncome(req.Paystubs, req.BankStatement)
	if err != nil {
		h.writeValidationError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// --- VerifyAddress ---

func (h *Handlers) VerifyAddress(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	res, err := h.verifier.ValidateAddress(req.Document, req.Form)
	if err != nil {
		h.writeValidationError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// --- VerifyApplication ---

func (h *Handlers) VerifyApplication(w http.ResponseWriter, r *http.Request) {
	var bundle domain.ApplicationBundle
	if !h.decodeRequest(w, r, &bundle) {
		return
	}

	report, err := h.verifier.VerifyApplication(r.Context(), &bundle)
	if err != nil {
		h.writeValidationError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

// --- IngestStatement ---

func (h *Handlers) IngestStatement(w http.ResponseWriter, r *http.Request) {
	// Accept multipart form.
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	req := ingestRequest{
		Format: r.FormValue("format"),
		Holder: r.FormValue("holder"),
	}
	if verrs := validateRequest(&req); len(verrs) > 0 {
		h.writeJSON(w, http.StatusBadRequest, BadRequestErrorResponse{
			Message: "Invalid request data",
			Details: verrs,
		})
		return
	}
	format, err := ingestion.ParseFormat(req.Format)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "file field is required: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "read file: "+err.Error())
		return
	}

	result, err := h.ingestionSvc.IngestStatement(data, format, req.Holder)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// --- Health ---

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
