package routers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/smilefnb/smile_backend/models"
	"github.com/smilefnb/smile_backend/utils"
)

func RegisterReportRoutes(r *gin.RouterGroup) {
	r.GET("/", getAllReports)
	r.GET("/table/:tableId", getReportsByTable)
	r.POST("/", createReport)
	r.POST("/batch", createReportBatch)
	r.DELETE("/", deleteAllReports)
	r.DELETE("/:reportId", deleteReportById)
}

type newReportBatch struct {
	Reports []*models.NewReport `json:"reports" binding:"required,dive"`
}

func getAllReports(c *gin.Context) {
	reports, err := models.GetAllReports(c.Request.Context())
	if err != nil {
		storageError(c, "getAllReports", nil, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func getReportsByTable(c *gin.Context) {
	tableId, ok := tableIdParam(c)
	if !ok {
		return
	}

	reports, err := models.GetReportsByTable(c.Request.Context(), tableId)
	if err != nil {
		storageError(c, "getReportsByTable", tableId, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func createReport(c *gin.Context) {
	var input models.NewReport
	if err := c.ShouldBindJSON(&input); err != nil {
		validationError(c, err)
		return
	}

	report, err := models.CreateReport(c.Request.Context(), &input)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			validationError(c, verrs)
			return
		}
		storageError(c, "createReport", input, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func createReportBatch(c *gin.Context) {
	var input newReportBatch
	if err := c.ShouldBindJSON(&input); err != nil {
		validationError(c, err)
		return
	}

	reports, err := models.CreateReportBatch(c.Request.Context(), input.Reports)
	if err != nil {
		// In-service validation failures (non-HTTP callers share the check)
		// are still client errors.
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			validationError(c, verrs)
			return
		}
		storageError(c, "createReportBatch", len(input.Reports), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func deleteAllReports(c *gin.Context) {
	if err := models.DeleteAllReports(c.Request.Context()); err != nil {
		storageError(c, "deleteAllReports", nil, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All reports deleted successfully"})
}

func deleteReportById(c *gin.Context) {
	reportId, ok := idParam(c, "reportId")
	if !ok {
		return
	}

	if err := models.DeleteReportById(c.Request.Context(), reportId); err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			notFound(c, "Report not found")
			return
		}
		storageError(c, "deleteReportById", reportId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report deleted successfully"})
}
