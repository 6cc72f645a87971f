package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/apelng/offerintake/internal/assets"
	"github.com/apelng/offerintake/internal/model"
	"github.com/apelng/offerintake/internal/store"
)

// createApplicationRequest mirrors the submission payload of the intake
// frontend. Artifacts arrive as data URIs or pre-hosted URLs.
type createApplicationRequest struct {
	SharesApplied int64  `json:"shares_applied" binding:"required"`
	AccountType   string `json:"account_type" binding:"required"`

	Title       string `json:"title"`
	TitleOthers string `json:"title_others"`
	Surname     string `json:"surname" binding:"required"`
	FirstName   string `json:"first_name"`
	OtherNames  string `json:"other_names"`

	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`

	Phone         string `json:"phone"`
	Email         string `json:"email" binding:"required,email"`
	DOB           string `json:"dob"`
	NextOfKin     string `json:"next_of_kin"`
	ContactPerson string `json:"contact_person"`

	CHN           string `json:"chn"`
	CSCSNo        string `json:"cscs_no"`
	StockbrokerID uint   `json:"stockbrokers_id" binding:"required"`

	Name              string `json:"name"`
	Designation       string `json:"designation"`
	SecondName        string `json:"second_name"`
	SecondDesignation string `json:"second_designation"`
	RCNumber          string `json:"rc_number"`

	IndividualSignature    string `json:"individual_signature"`
	CorporateSignature     string `json:"corporate_signature"`
	JointSignature         string `json:"joint_signature"`
	PaymentReceipt         string `json:"payment_receipt"`
	PaymentReceiptFilename string `json:"payment_receipt_filename"`

	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	BVN           string `json:"bvn"`
	Branch        string `json:"branch"`
	BankCity      string `json:"bank_city"`
}

func (req *createApplicationRequest) validate() []string {
	var errs []string
	if !model.AccountType(req.AccountType).Valid() {
		errs = append(errs, "account_type must be INDIVIDUAL, CORPORATE or JOINT")
	}
	if req.SharesApplied < model.MinimumShares {
		errs = append(errs, fmt.Sprintf("shares_applied must be at least %d", model.MinimumShares))
	}
	if req.DOB != "" {
		if _, err := time.Parse("2006-01-02", req.DOB); err != nil {
			errs = append(errs, "dob must be in YYYY-MM-DD format")
		}
	}
	return errs
}

func (req *createApplicationRequest) toModel() *model.Application {
	country := req.Country
	if country == "" {
		country = "Nigeria"
	}

	app := &model.Application{
		SharesApplied:     req.SharesApplied,
		AmountPayableKobo: model.AmountPayableKobo(req.SharesApplied),
		AccountType:       model.AccountType(req.AccountType),

		Title:       model.Title(req.Title),
		TitleOthers: req.TitleOthers,
		Surname:     req.Surname,
		FirstName:   req.FirstName,
		OtherNames:  req.OtherNames,

		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Country: country,

		Phone:         req.Phone,
		Email:         req.Email,
		NextOfKin:     req.NextOfKin,
		ContactPerson: req.ContactPerson,

		CHN:           req.CHN,
		CSCSNo:        req.CSCSNo,
		StockbrokerID: req.StockbrokerID,

		Name:              req.Name,
		Designation:       req.Designation,
		SecondName:        req.SecondName,
		SecondDesignation: req.SecondDesignation,
		RCNumber:          req.RCNumber,

		IndividualSignature:    req.IndividualSignature,
		CorporateSignature:     req.CorporateSignature,
		JointSignature:         req.JointSignature,
		PaymentReceipt:         req.PaymentReceipt,
		PaymentReceiptFilename: req.PaymentReceiptFilename,

		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		BVN:           req.BVN,
		Branch:        req.Branch,
		BankCity:      req.BankCity,

		Status: model.StatusSubmitted,
	}
	if req.DOB != "" {
		if dob, err := time.Parse("2006-01-02", req.DOB); err == nil {
			app.DateOfBirth = &dob
		}
	}
	return app
}

func (s *Server) createApplication(c *gin.Context) {
	var req createApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": errs})
		return
	}

	app := req.toModel()
	s.hostArtifacts(c, app)

	if err := s.applications.Create(c.Request.Context(), app); err != nil {
		s.logger.Error("creating application failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to submit application")
		return
	}

	// Fill the offer form for the email attachments. A render failure must
	// not fail the submission; the form can still be downloaded later once
	// the template issue is fixed.
	var pdf []byte
	if s.renderer != nil {
		var err error
		pdf, err = s.renderer.Render(app)
		if err != nil {
			s.logger.Error("rendering submission form failed",
				zap.Uint("application_id", app.ID), zap.Error(err))
			pdf = nil
		}
	}
	if s.notifier != nil {
		s.notifier.DispatchSubmissionEmails(app, pdf)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Public offer application submitted successfully",
		"data":    app,
		"pdfUrl":  fmt.Sprintf("/api/public-offers/applications/%d/pdf", app.ID),
	})
}

// hostArtifacts replaces inline data-URI artifacts with hosted URLs when an
// uploader is configured. Upload failures keep the inline artifact; the
// renderer handles both forms.
func (s *Server) hostArtifacts(c *gin.Context, app *model.Application) {
	if s.uploader == nil {
		return
	}

	upload := func(field string, value *string) {
		if !assets.IsDataURL(*value) {
			return
		}
		publicID := fmt.Sprintf("%s-%s", field, uuid.NewString())
		url, err := s.uploader.UploadDataURL(c.Request.Context(), *value, publicID)
		if err != nil {
			s.logger.Warn("artifact upload failed, keeping inline",
				zap.String("field", field), zap.Error(err))
			return
		}
		*value = url
	}

	upload("individual_signature", &app.IndividualSignature)
	upload("corporate_signature", &app.CorporateSignature)
	upload("joint_signature", &app.JointSignature)
	upload("payment_receipt", &app.PaymentReceipt)
}

func (s *Server) listApplications(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	status := model.Status(c.Query("status"))
	if status != "" && !status.Valid() {
		respondError(c, http.StatusBadRequest, "Unknown status filter")
		return
	}

	apps, total, err := s.applications.List(c.Request.Context(), store.ListQuery{
		Page:   page,
		Limit:  limit,
		Status: status,
	})
	if err != nil {
		s.logger.Error("listing applications failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to fetch applications")
		return
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	pages := (total + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    apps,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": pages,
		},
	})
}

func (s *Server) getApplication(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	app, err := s.applications.GetByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Application not found")
		return
	}
	if err != nil {
		s.logger.Error("loading application failed", zap.Uint("id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to fetch application")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": app})
}

func (s *Server) downloadApplicationPDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	app, err := s.applications.GetByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Application not found")
		return
	}
	if err != nil {
		s.logger.Error("loading application failed", zap.Uint("id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to fetch application")
		return
	}

	pdf, err := s.renderer.Render(app)
	if err != nil {
		s.logger.Error("rendering application form failed",
			zap.Uint("id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	filename := fmt.Sprintf("public-offer-application-%d.pdf", id)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) updateApplicationStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	status := model.Status(req.Status)
	if !status.Valid() {
		respondError(c, http.StatusBadRequest, "Unknown status")
		return
	}

	app, err := s.applications.UpdateStatus(c.Request.Context(), id, status)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Application not found")
		return
	}
	if err != nil {
		s.logger.Error("updating application failed", zap.Uint("id", id), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to update application")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Application status updated successfully",
		"data":    app,
	})
}

func (s *Server) getStatistics(c *gin.Context) {
	stats, err := s.applications.Statistics(c.Request.Context())
	if err != nil {
		s.logger.Error("computing statistics failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to fetch statistics")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

func (s *Server) getStockbrokers(c *gin.Context) {
	brokers, err := s.brokers.List(c.Request.Context())
	if err != nil {
		s.logger.Error("listing stockbrokers failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to fetch stockbrokers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": brokers})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid application id")
		return 0, false
	}
	return uint(id), true
}
