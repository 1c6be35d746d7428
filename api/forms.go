package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/export"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/reconciler"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/viewer"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type formResponses struct {
	Form      models.Form                 `json:"form"`
	Responses []models.NormalizedResponse `json:"responses"`
}

func (h *HttpEndpoints) listFormsHandle(c *gin.Context) {
	opts, err := viewer.ParseFormListOptions(c.Query("search"), c.Query("sort"), c.Query("order"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	summaries, err := h.viewer.ListForms(c.Request.Context(), opts)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"forms": summaries})
}

func (h *HttpEndpoints) createFormHandle(c *gin.Context) {
	var def models.FormDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.viewer.Source.CreateForm(c.Request.Context(), def)
	if err != nil {
		abortWithError(c, err)
		return
	}
	form, err := models.ParseForm(created)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, form)
}

func (h *HttpEndpoints) deleteFormHandle(c *gin.Context) {
	if err := h.viewer.Source.DeleteForm(c.Request.Context(), c.Param("formId")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HttpEndpoints) getFormHandle(c *gin.Context) {
	form, err := h.viewer.LoadForm(c.Request.Context(), c.Param("formId"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

func (h *HttpEndpoints) listResponsesHandle(c *gin.Context) {
	category, err := reconciler.ParseFilterCategory(c.Query("filter"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	opts := reconciler.FilterOptions{Search: c.Query("search"), Category: category}

	form, responses, err := h.viewer.LoadFiltered(c.Request.Context(), c.Param("formId"), opts)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, formResponses{Form: form, Responses: responses})
}

func (h *HttpEndpoints) exportResponsesHandle(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", export.FormatCSV))
	contentType, ok := exportContentTypes[format]
	if !ok {
		abortWithError(c, errors.Wrapf(export.ErrUnsupportedFormat, "%q", format))
		return
	}

	form, responses, err := h.viewer.Load(c.Request.Context(), c.Param("formId"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	// Render fully first so a failure can still be reported as JSON
	var body bytes.Buffer
	if err := export.Write(&body, format, responses); err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(form.Title, format)))
	c.Data(http.StatusOK, contentType, body.Bytes())
}

var exportContentTypes = map[string]string{
	export.FormatCSV:  "text/csv; charset=utf-8",
	export.FormatJSON: "application/json; charset=utf-8",
}

func (h *HttpEndpoints) dashboardHandle(c *gin.Context) {
	stats, err := h.viewer.Dashboard(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
