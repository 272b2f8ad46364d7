package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/humbertomar/vipo-backend/config"
	"github.com/humbertomar/vipo-backend/models"
)

// reportRange parses ?from=YYYY-MM-DD&to=YYYY-MM-DD; defaults to the last
// 30 days. `to` is exclusive at midnight of the following day.
func reportRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30).Truncate(24 * time.Hour)
	to := now

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date: %s", v)
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date: %s", v)
		}
		to = parsed.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to must be after from")
	}
	return from, to, nil
}

func salesReportHandler(c *gin.Context) {
	from, to, err := reportRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summaries, err := models.GetDailySalesSummary(c.Request.Context(), from, to)
	if err != nil {
		modelErrorResponse(c, "reports.go", "salesReportHandler", err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func salesReportExportHandler(c *gin.Context) {
	from, to, err := reportRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summaries, err := models.GetDailySalesSummary(c.Request.Context(), from, to)
	if err != nil {
		modelErrorResponse(c, "reports.go", "salesReportExportHandler", err)
		return
	}

	file, err := models.BuildSalesReportXlsx(summaries)
	if err != nil {
		modelErrorResponse(c, "reports.go", "salesReportExportHandler", err)
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			config.LogError(config.GetLogger(), "reports.go", "salesReportExportHandler", "close workbook", nil, cerr)
		}
	}()

	filename := fmt.Sprintf("sales-%s-%s.xlsx",
		from.Format("20060102"), to.AddDate(0, 0, -1).Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		config.LogError(config.GetLogger(), "reports.go", "salesReportExportHandler", "write workbook", nil, err)
	}
}
