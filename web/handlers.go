package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zalepa/orderdesk/forms"
	"github.com/zalepa/orderdesk/jobs"
	"github.com/zalepa/orderdesk/store"
)

type jobResponse struct {
	OK       bool     `json:"ok"`
	Error    string   `json:"error,omitempty"`
	Log      []string `json:"log"`
	Warnings []string `json:"warnings,omitempty"`
	File     string   `json:"file,omitempty"`
}

type formsRequest struct {
	School string `json:"school" binding:"required"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

func (s *Server) organize(c *gin.Context) {
	s.run(c, "organize", func() (*jobs.Result, error) {
		return s.jobs.Organize(c.Request.Context())
	})
}

func (s *Server) report(c *gin.Context) {
	s.run(c, "report", func() (*jobs.Result, error) {
		return s.jobs.Report(c.Request.Context())
	})
}

func (s *Server) forms(c *gin.Context) {
	var req formsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "school is required"})
		return
	}
	s.run(c, "forms", func() (*jobs.Result, error) {
		return s.jobs.Forms(c.Request.Context(), jobs.FormsRequest{
			School: req.School,
			Offset: req.Offset,
			Limit:  req.Limit,
		})
	})
}

func (s *Server) schools(c *gin.Context) {
	schools, err := s.jobs.Schools(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if schools == nil {
		schools = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"schools": schools})
}

// run executes one job, rejecting the request while another job is running.
func (s *Server) run(c *gin.Context, name string, job func() (*jobs.Result, error)) {
	if !s.busy.TryLock() {
		c.JSON(http.StatusConflict, jobResponse{Error: "another job is running", Log: []string{}})
		return
	}
	defer s.busy.Unlock()

	res, err := job()
	resp := jobResponse{OK: err == nil, Log: []string{}}
	if res != nil {
		resp.Log = append(resp.Log, res.Lines...)
		resp.Warnings = res.Warnings
		resp.File = s.publish(res.File)
	}
	if err != nil {
		s.logger.Sugar().Errorw("job failed", "job", name, "error", err)
		resp.Error = err.Error()
		c.JSON(statusFor(err), resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrSheetNotFound),
		errors.Is(err, store.ErrSpreadsheetNotFound),
		errors.Is(err, forms.ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, jobs.ErrNoPickupOrders),
		errors.Is(err, jobs.ErrNoFormsRendered):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
