// Package router registers the HTTP routes.
package router

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"

	"ats-optimizer-go/internal/api/handler"
)

// RegisterRoutes wires the optimize endpoint and the health check.
func RegisterRoutes(h *server.Hertz, resumeHandler *handler.ResumeHandler, maxPDFBytes int64) {
	api := h.Group("/api/v1")

	api.POST("/resume/optimize", func(c context.Context, ctx *app.RequestContext) {
		req := handler.OptimizeRequest{
			ResumeText:     ctx.PostForm("resume_text"),
			JobDescription: ctx.PostForm("job_description"),
		}

		if fileHeader, err := ctx.FormFile("resume_pdf"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "could not open upload"})
				return
			}
			defer file.Close()

			data, err := handler.ReadAll(file, maxPDFBytes)
			if err != nil {
				ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
				return
			}
			req.PDFBytes = data
			req.PDFContentType = fileHeader.Header.Get("Content-Type")
		}

		runID := uuid.NewString()
		resp, err := resumeHandler.HandleOptimize(c, runID, req)
		if err != nil {
			var reqErr *handler.RequestError
			if errors.As(err, &reqErr) {
				ctx.JSON(consts.StatusBadRequest, utils.H{"error": reqErr.Message})
				return
			}
			ctx.JSON(consts.StatusBadGateway, utils.H{"error": "AI processing failed: " + err.Error()})
			return
		}

		ctx.Header("X-Run-ID", runID)
		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}
