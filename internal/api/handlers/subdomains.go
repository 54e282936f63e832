package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aqall/publisher/internal/api/middleware"
	"github.com/aqall/publisher/internal/api/models"
	"github.com/aqall/publisher/internal/directory"
	"github.com/aqall/publisher/internal/publish"
)

// Publish godoc
// @Summary Publish a website
// @Description Claims the subdomain for the caller and points it at the hosting server.
// @Description A subdomain held by another user is rejected with 409 before the registrar is called.
// @Tags subdomains
// @Accept json
// @Produce json
// @Param request body models.PublishRequest true "Website and subdomain"
// @Success 201 {object} models.PublishResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/subdomains [post]
func (h *Handler) Publish(c *gin.Context) {
	var req models.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Subdomain == "" || req.WebsiteID == "" {
		badRequest(c, "websiteId and subdomain are required")
		return
	}

	res, err := h.publisher.Publish(c.Request.Context(), publish.Request{
		OwnerID:   middleware.OwnerID(c),
		WebsiteID: req.WebsiteID,
		Subdomain: req.Subdomain,
		IP:        req.IP,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.PublishResponse{
		Success:   true,
		Subdomain: toSubdomain(res.Record),
		Hostname:  res.Hostname,
		IP:        res.IP,
		Action:    string(res.Action),
	})
}

// ListSubdomains godoc
// @Summary List the caller's subdomains
// @Tags subdomains
// @Produce json
// @Success 200 {object} models.SubdomainListResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/subdomains [get]
func (h *Handler) ListSubdomains(c *gin.Context) {
	recs, err := h.publisher.List(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]models.Subdomain, 0, len(recs))
	for _, r := range recs {
		out = append(out, toSubdomain(r))
	}
	c.JSON(http.StatusOK, models.SubdomainListResponse{Success: true, Subdomains: out})
}

// Unpublish godoc
// @Summary Unpublish a subdomain
// @Description Releases the caller's claim and removes the A record
// @Tags subdomains
// @Produce json
// @Param subdomain path string true "Subdomain label"
// @Success 200 {object} models.SuccessResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/subdomains/{subdomain} [delete]
func (h *Handler) Unpublish(c *gin.Context) {
	if _, err := h.publisher.Unpublish(c.Request.Context(), middleware.OwnerID(c), c.Param("subdomain")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// Verify godoc
// @Summary Check DNS propagation
// @Description Queries a public resolver for the subdomain's A record
// @Tags subdomains
// @Produce json
// @Param subdomain path string true "Subdomain label"
// @Success 200 {object} models.VerifyResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/subdomains/{subdomain}/verify [get]
func (h *Handler) Verify(c *gin.Context) {
	res, err := h.publisher.Verify(c.Request.Context(), middleware.OwnerID(c), c.Param("subdomain"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.VerifyResponse{
		Success:    true,
		Hostname:   res.Hostname,
		Expected:   res.Expected,
		Addresses:  res.Addresses,
		Propagated: res.Propagated,
		Resolver:   res.Resolver,
	})
}

// ResolveSite godoc
// @Summary Resolve a published site
// @Description Maps an active subdomain to the website it serves
// @Tags subdomains
// @Produce json
// @Param subdomain path string true "Subdomain label"
// @Success 200 {object} models.SiteResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/sites/{subdomain} [get]
func (h *Handler) ResolveSite(c *gin.Context) {
	rec, err := h.publisher.Resolve(c.Request.Context(), c.Param("subdomain"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SiteResponse{
		Success:   true,
		Subdomain: rec.Subdomain,
		Hostname:  h.reconciler.Hostname(rec.Subdomain),
		WebsiteID: rec.WebsiteID,
	})
}

func toSubdomain(r directory.Record) models.Subdomain {
	return models.Subdomain{
		ID:        r.ID,
		Subdomain: r.Subdomain,
		OwnerID:   r.OwnerID,
		WebsiteID: r.WebsiteID,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
