package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"civiceye-be/i18n"
	"civiceye-be/middlewares"
	"civiceye-be/models"
	"civiceye-be/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const requestTimeout = 10 * time.Second

// IssueService is what the issue handlers need from the service layer.
type IssueService interface {
	Create(ctx context.Context, input models.IssueInput, files []*multipart.FileHeader) (*models.Issue, error)
	List(ctx context.Context) ([]models.Issue, error)
	GetByID(ctx context.Context, id string) (*models.Issue, error)
	UpdateByID(ctx context.Context, id string, patch models.IssuePatch) (*models.Issue, error)
	Heatmap(ctx context.Context, limit int) ([]models.HeatmapPoint, error)
	Stats(ctx context.Context) (*models.IssueStats, error)
}

type IssueController struct {
	issues IssueService
}

func NewIssueController(issues IssueService) *IssueController {
	return &IssueController{issues: issues}
}

// createIssueForm is bound from multipart/url-encoded forms or JSON. A
// location may arrive flat (lat, lng, address), as location[...] form keys
// or as a nested JSON object; the first non-empty value of each field wins.
type createIssueForm struct {
	Title       string        `form:"title" json:"title"`
	Description string        `form:"description" json:"description"`
	Category    string        `form:"category" json:"category"`
	Priority    string        `form:"priority" json:"priority"`
	Status      string        `form:"status" json:"status"`
	Latitude    coordinate    `form:"lat" json:"lat"`
	Longitude   coordinate    `form:"lng" json:"lng"`
	Address     string        `form:"address" json:"address"`
	LocationLat coordinate    `form:"location[lat]" json:"-"`
	LocationLng coordinate    `form:"location[lng]" json:"-"`
	LocationAdr string        `form:"location[address]" json:"-"`
	Location    *locationForm `form:"-" json:"location"`
}

type locationForm struct {
	Latitude  coordinate `json:"lat"`
	Longitude coordinate `json:"lng"`
	Address   string     `json:"address"`
}

// coordinate is a raw lat/lng value. Forms send text, JSON may send a number
// or a string; blank means absent.
type coordinate string

func (c *coordinate) UnmarshalParam(param string) error {
	*c = coordinate(param)
	return nil
}

func (c *coordinate) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*c = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = coordinate(s)
	default:
		*c = coordinate(raw)
	}
	return nil
}

func (c coordinate) parse(field string) (*float64, error) {
	raw := strings.TrimSpace(string(c))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &services.ValidationError{Field: field, Message: "must be a number"}
	}
	return &v, nil
}

func firstCoordinate(values ...coordinate) coordinate {
	for _, v := range values {
		if strings.TrimSpace(string(v)) != "" {
			return v
		}
	}
	return ""
}

func firstString(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func (f createIssueForm) input() (models.IssueInput, error) {
	in := models.IssueInput{
		Title:       f.Title,
		Description: f.Description,
		Category:    f.Category,
		Priority:    models.IssuePriority(f.Priority),
		Status:      models.IssueStatus(f.Status),
	}

	nested := locationForm{}
	if f.Location != nil {
		nested = *f.Location
	}
	lat, err := firstCoordinate(f.Latitude, f.LocationLat, nested.Latitude).parse("lat")
	if err != nil {
		return in, err
	}
	lng, err := firstCoordinate(f.Longitude, f.LocationLng, nested.Longitude).parse("lng")
	if err != nil {
		return in, err
	}
	address := firstString(f.Address, f.LocationAdr, nested.Address)

	if lat != nil || lng != nil || address != "" {
		in.Location = &models.Location{Latitude: lat, Longitude: lng, Address: address}
	}
	return in, nil
}

// CreateIssue handles the creation of a new issue with up to 5 images
func (ic *IssueController) CreateIssue(c *gin.Context) {
	lang := middlewares.LangFrom(c)

	var form createIssueForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": i18n.T(lang, i18n.MsgTooLarge)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(lang, i18n.MsgInvalidInput), "detail": err.Error()})
		return
	}

	input, err := form.input()
	if err != nil {
		respondError(c, err)
		return
	}

	var files []*multipart.FileHeader
	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		if mf, err := c.MultipartForm(); err == nil {
			files = mf.File["images"]
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	issue, err := ic.issues.Create(ctx, input, files)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// GetAllIssues returns every issue, most recent first. Government only.
func (ic *IssueController) GetAllIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	issues, err := ic.issues.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, issues)
}

// GetIssue retrieves an issue by its ID
func (ic *IssueController) GetIssue(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	issue, err := ic.issues.GetByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

// UpdateIssue applies an officer's partial update. Status and priority are
// open to every officer; other record fields need the admin role.
func (ic *IssueController) UpdateIssue(c *gin.Context) {
	var patch models.IssuePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(middlewares.LangFrom(c), i18n.MsgInvalidInput), "detail": err.Error()})
		return
	}

	if patch.TouchesRecord() && middlewares.RoleFrom(c) != models.RoleAdmin {
		respondError(c, services.ErrForbidden)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	issue, err := ic.issues.UpdateByID(ctx, c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

// IssueHeatmap returns the most recent issues that carry coordinates
func (ic *IssueController) IssueHeatmap(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, &services.ValidationError{Field: "limit", Message: "must be a number"})
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	points, err := ic.issues.Heatmap(ctx, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, points)
}

// GetIssueStats returns analytical data about issues. Government only.
func (ic *IssueController) GetIssueStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	stats, err := ic.issues.Stats(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetLabels returns the status, priority and category labels in the
// request language.
func GetLabels(c *gin.Context) {
	c.JSON(http.StatusOK, i18n.LabelsFor(middlewares.LangFrom(c)))
}

var _ IssueService = (*services.IssueService)(nil)
