package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aqall/publisher/internal/api/models"
	"github.com/aqall/publisher/internal/directory"
	"github.com/aqall/publisher/internal/registrar"
)

// ListRecords godoc
// @Summary List zone records
// @Description Returns every record of the managed zone
// @Tags dns
// @Produce json
// @Success 200 {object} models.DNSRecordsResponse
// @Failure 500 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/dns/records [get]
func (h *Handler) ListRecords(c *gin.Context) {
	records, err := h.registrar.ListRecordsStrict(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]models.DNSRecord, 0, len(records))
	for _, r := range records {
		out = append(out, toDNSRecord(r))
	}
	c.JSON(http.StatusOK, models.DNSRecordsResponse{Success: true, Records: out})
}

// CheckSubdomain godoc
// @Summary Check a subdomain
// @Description Reports whether an A record with exactly this name exists. A failed registrar lookup reads as false.
// @Tags dns
// @Produce json
// @Param subdomain path string true "Subdomain label"
// @Success 200 {object} models.DNSCheckResponse
// @Security ApiKeyAuth
// @Router /api/dns/check/{subdomain} [get]
func (h *Handler) CheckSubdomain(c *gin.Context) {
	exists := h.registrar.HasARecord(c.Request.Context(), c.Param("subdomain"))
	c.JSON(http.StatusOK, models.DNSCheckResponse{Success: true, Exists: exists})
}

// CreateRecord godoc
// @Summary Create or update a subdomain
// @Description Points a subdomain label at an IPv4 address, replacing an existing A record. Names held by a published site are refused.
// @Tags dns
// @Accept json
// @Produce json
// @Param request body models.CreateDNSRequest true "Subdomain and address"
// @Success 200 {object} models.CreateDNSResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/dns/create [post]
func (h *Handler) CreateRecord(c *gin.Context) {
	var req models.CreateDNSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	req.Subdomain = strings.TrimSpace(req.Subdomain)
	req.IP = strings.TrimSpace(req.IP)
	if req.Subdomain == "" || req.IP == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Subdomain and IP are required",
			Code:  models.CodeInvalidRequest,
		})
		return
	}

	name, err := directory.NormalizeName(req.Subdomain)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.publisher.CheckUnclaimed(c.Request.Context(), name); err != nil {
		h.respondError(c, err)
		return
	}

	res, err := h.reconciler.Reconcile(c.Request.Context(), name, req.IP)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CreateDNSResponse{
		Success:   true,
		Subdomain: res.Hostname,
		IP:        req.IP,
		Action:    string(res.Action),
	})
}

// DeleteRecord godoc
// @Summary Delete a subdomain
// @Description Removes the subdomain's A record. A record that is already gone counts as deleted. Names held by a published site are refused.
// @Tags dns
// @Produce json
// @Param subdomain path string true "Subdomain label"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/dns/{subdomain} [delete]
func (h *Handler) DeleteRecord(c *gin.Context) {
	name, err := directory.NormalizeName(c.Param("subdomain"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.publisher.CheckUnclaimed(c.Request.Context(), name); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.reconciler.Remove(c.Request.Context(), name); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

func toDNSRecord(r registrar.Record) models.DNSRecord {
	return models.DNSRecord{Type: r.Type, Name: r.Name, Data: r.Data, TTL: r.TTL}
}
