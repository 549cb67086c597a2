package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"research-samples/internal/domain"
)

type createSampleRequest struct {
	SampleID        string `json:"sample_id" binding:"omitempty,max=128"`
	SampleType      string `json:"sample_type" binding:"required,oneof=blood saliva tissue"`
	SubjectID       string `json:"subject_id" binding:"required"`
	CollectionDate  string `json:"collection_date" binding:"required,collectiondate"`
	Status          string `json:"status" binding:"required,oneof=collected processing archived"`
	StorageLocation string `json:"storage_location" binding:"required"`
}

type updateSampleRequest struct {
	SampleType      *string `json:"sample_type" binding:"omitempty,oneof=blood saliva tissue"`
	SubjectID       *string `json:"subject_id" binding:"omitempty,min=1"`
	CollectionDate  *string `json:"collection_date" binding:"omitempty,collectiondate"`
	Status          *string `json:"status" binding:"omitempty,oneof=collected processing archived"`
	StorageLocation *string `json:"storage_location" binding:"omitempty,min=1"`
}

type SampleResponse struct {
	SampleID        string `json:"sample_id"`
	SampleType      string `json:"sample_type"`
	SubjectID       string `json:"subject_id"`
	CollectionDate  string `json:"collection_date"`
	Status          string `json:"status"`
	StorageLocation string `json:"storage_location"`
}

func (h *Handler) listSamples(c *gin.Context) {
	filter := domain.SampleFilter{
		SampleType: domain.SampleType(c.Query("sample_type")),
		Status:     domain.SampleStatus(c.Query("status")),
	}
	h.actionLog(c).WithFields(logrus.Fields{
		"sample_type": filter.SampleType,
		"status":      filter.Status,
	}).Info("fetching samples")

	samples, err := h.samples.ListSamples(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]SampleResponse, len(samples))
	for i := range samples {
		resp[i] = sampleToResponse(samples[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getSample(c *gin.Context) {
	id := c.Param("id")
	h.actionLog(c).WithField("sample_id", id).Info("fetching sample")

	sample, err := h.samples.GetSample(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sampleToResponse(*sample))
}

func (h *Handler) createSample(c *gin.Context) {
	var req createSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	collected, err := parseCollectionDate(req.CollectionDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sample, err := h.samples.CreateSample(c.Request.Context(), domain.Sample{
		SampleID:        req.SampleID,
		SampleType:      domain.SampleType(req.SampleType),
		SubjectID:       req.SubjectID,
		CollectionDate:  collected,
		Status:          domain.SampleStatus(req.Status),
		StorageLocation: req.StorageLocation,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.actionLog(c).WithField("sample_id", sample.SampleID).Info("sample created")
	c.JSON(http.StatusCreated, sampleToResponse(*sample))
}

func (h *Handler) updateSample(c *gin.Context) {
	id := c.Param("id")

	var req updateSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	var update domain.SampleUpdate
	if req.SampleType != nil {
		v := domain.SampleType(*req.SampleType)
		update.SampleType = &v
	}
	update.SubjectID = req.SubjectID
	if req.CollectionDate != nil {
		t, err := parseCollectionDate(*req.CollectionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		update.CollectionDate = &t
	}
	if req.Status != nil {
		v := domain.SampleStatus(*req.Status)
		update.Status = &v
	}
	update.StorageLocation = req.StorageLocation

	h.actionLog(c).WithField("sample_id", id).Info("updating sample")
	sample, err := h.samples.UpdateSample(c.Request.Context(), id, update)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sampleToResponse(*sample))
}

func (h *Handler) deleteSample(c *gin.Context) {
	id := c.Param("id")
	h.actionLog(c).WithField("sample_id", id).Info("deleting sample")

	if err := h.samples.DeleteSample(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) actionLog(c *gin.Context) logrus.FieldLogger {
	if user := currentUser(c); user != nil {
		return h.logger.WithField("user", user.Username)
	}
	return h.logger
}

func sampleToResponse(sample domain.Sample) SampleResponse {
	return SampleResponse{
		SampleID:        sample.SampleID,
		SampleType:      string(sample.SampleType),
		SubjectID:       sample.SubjectID,
		CollectionDate:  sample.CollectionDate.Format(time.RFC3339),
		Status:          string(sample.Status),
		StorageLocation: sample.StorageLocation,
	}
}
