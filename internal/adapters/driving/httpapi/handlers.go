package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
	"github.com/asdzza/RACG-Defense/internal/logger"
)

// defaultRunsLimit is used by GET /v1/runs without ?limit.
const defaultRunsLimit = 50

type errorBody struct {
	Error string `json:"error"`
}

type codeRequest struct {
	Language string `json:"language" binding:"required"`
	Code     string `json:"code"`
}

type repairRequest struct {
	Language  string `json:"language" binding:"required"`
	Code      string `json:"code"`
	Source    string `json:"source"`
	MaxRounds int    `json:"max_rounds"`
}

type validateResponse struct {
	*domain.ValidationReport
	OK        bool   `json:"ok"`
	Malicious bool   `json:"malicious"`
	Message   string `json:"message"`
}

type compileResponse struct {
	*domain.CompileResult
	HasErrors bool `json:"has_errors"`
}

func (s *Server) handleValidate(c *gin.Context) {
	var req codeRequest
	lang, ok := bindCode(c, &req)
	if !ok {
		return
	}

	report, err := s.services.Validator.Validate(c.Request.Context(), lang, req.Code)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, validateResponse{
		ValidationReport: report,
		OK:               report.OK(),
		Malicious:        report.HasMalicious(),
		Message:          report.Message(),
	})
}

func (s *Server) handleCompile(c *gin.Context) {
	if s.services.Compiler == nil {
		unavailable(c, "compile service")
		return
	}
	var req codeRequest
	lang, ok := bindCode(c, &req)
	if !ok {
		return
	}

	result, err := s.services.Compiler.Check(c.Request.Context(), lang, req.Code)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, compileResponse{CompileResult: result, HasErrors: result.HasErrors()})
}

func (s *Server) handleRepair(c *gin.Context) {
	if s.services.Repair == nil {
		unavailable(c, "repair service")
		return
	}
	var req repairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	lang, err := domain.ParseLanguage(req.Language)
	if err != nil {
		abortWithError(c, fmt.Errorf("%w: %q", err, req.Language))
		return
	}
	source := req.Source
	if source == "" {
		source = "http"
	}

	run, err := s.services.Repair.Repair(c.Request.Context(), driving.RepairRequest{
		Source:    source,
		Language:  lang,
		Code:      req.Code,
		MaxRounds: req.MaxRounds,
	})
	if run == nil {
		if err == nil {
			err = errors.New("repair returned no run")
		}
		abortWithError(c, err)
		return
	}
	// Failed runs are recorded; return them so clients can inspect the rounds.
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleListRuns(c *gin.Context) {
	if s.services.History == nil {
		unavailable(c, "history")
		return
	}
	limit := defaultRunsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, errorBody{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	runs, err := s.services.History.List(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if runs == nil {
		runs = []domain.RepairRun{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

func (s *Server) handleGetRun(c *gin.Context) {
	if s.services.History == nil {
		unavailable(c, "history")
		return
	}
	run, err := s.services.History.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleDeleteRun(c *gin.Context) {
	if s.services.History == nil {
		unavailable(c, "history")
		return
	}
	if err := s.services.History.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindCode decodes a codeRequest and resolves its language.
// On failure the response has been written and ok is false.
func bindCode(c *gin.Context, req *codeRequest) (domain.Language, bool) {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: fmt.Sprintf("invalid request: %v", err)})
		return "", false
	}
	lang, err := domain.ParseLanguage(req.Language)
	if err != nil {
		abortWithError(c, fmt.Errorf("%w: %q", err, req.Language))
		return "", false
	}
	return lang, true
}

func unavailable(c *gin.Context, what string) {
	c.JSON(http.StatusServiceUnavailable, errorBody{Error: what + " not configured"})
}

// abortWithError maps domain errors onto HTTP status codes. Unexpected
// failures are logged since the client only sees the message.
func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, errorBody{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedLanguage), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, domain.ErrCompilerUnavailable),
		errors.Is(err, domain.ErrRegistryUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
