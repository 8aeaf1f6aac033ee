package controller

import (
	"errors"
	"net/http"

	"assessment_builder/internal/document"
	"assessment_builder/internal/model"
	"assessment_builder/internal/question"
	"assessment_builder/internal/service"
	"assessment_builder/internal/util"

	"github.com/gin-gonic/gin"
)

type DraftController struct {
	Service *service.AuthoringService
}

func NewDraftController(svc *service.AuthoringService) *DraftController {
	return &DraftController{Service: svc}
}

type BeginEditorRequest struct {
	PageID    string        `json:"pageId" binding:"required"`
	ContentID string        `json:"contentId"`
	Type      question.Type `json:"type"`
}

// @Summary Create a draft
// @Tags Authoring
// @Produce json
// @Security BearerAuth
// @Success 201 {object} util.Response
// @Router /api/teacher/drafts [post]
func (c *DraftController) Create(ctx *gin.Context) {
	author, ok := authorOf(ctx)
	if !ok {
		return
	}
	view, err := c.Service.CreateDraft(ctx.Request.Context(), author)
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Created(ctx, view)
}

// @Summary Get the working copy of a draft with its numbering
// @Tags Authoring
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/drafts/{id} [get]
func (c *DraftController) Get(ctx *gin.Context) {
	author, ok := authorOf(ctx)
	if !ok {
		return
	}
	view, err := c.Service.Document(ctx.Request.Context(), author, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary Save a draft
// @Tags Authoring
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/drafts/{id} [put]
func (c *DraftController) Save(ctx *gin.Context) {
	author, ok := authorOf(ctx)
	if !ok {
		return
	}
	view, err := c.Service.Save(ctx.Request.Context(), author, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary Close the authoring session, discarding unsaved changes
// @Tags Authoring
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/drafts/{id}/session [delete]
func (c *DraftController) Close(ctx *gin.Context) {
	author, ok := authorOf(ctx)
	if !ok {
		return
	}
	if err := c.Service.Close(ctx.Request.Context(), author, ctx.Param("id")); err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Dispatch a document action
// @Tags Authoring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param body body document.Envelope true "Action"
// @Success 200 {object} util.Response
// @Router /api/teacher/drafts/{id}/actions [post]
func (c *DraftController) Dispatch(ctx *gin.Context) {
	author, ok := authorOf(ctx)
	if !ok {
		return
	}
	var env document.Envelope
	if err := ctx.ShouldBindJSON(&env); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	action, err := document.DecodeAction(env)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	view, err := c.Service.Dispatch(ctx.Request.Context(), author, ctx.Param("id"), action)
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary Open the question editor
// @Description With contentId the existing question is edited, otherwise a new question of the given type is started.
// @Tags Authoring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param body body BeginEditorRequest true "Target"
// @Success 200 {object} util.Response
// @Router /api/teacher/drafts/{id}/editor [post]
func (c *DraftController) BeginEditor(ctx *gin.Context) {
	author, ok := authorOf(ctx)
	if !ok {
		return
	}
	var req BeginEditorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var (
		view service.EditorView
		err  error
	)
	if req.ContentID != "" {
		view, err = c.Service.EditQuestion(ctx.Request.Context(), author, ctx.Param("id"), req.PageID, req.ContentID)
	} else {
		if req.Type == "" {
			req.Type = question.TypeSingleChoice
		}
		view, err = c.Service.BeginQuestion(ctx.Request.Context(), author, ctx.Param("id"), req.PageID, req.Type)
	}
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary Get the question being edited with its validation errors
// @Tags Authoring
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/drafts/{id}/editor [get]
func (c *DraftController) GetEditor(ctx *gin.Context) {
	author, ok := authorOf(ctx)
	if !ok {
		return
	}
	view, err := c.Service.Editor(ctx.Request.Context(), author, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary Dispatch a question editor action
// @Tags Authoring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param body body question.Envelope true "Action"
// @Success 200 {object} util.Response
// @Router /api/teacher/drafts/{id}/editor/actions [post]
func (c *DraftController) DispatchEditor(ctx *gin.Context) {
	author, ok := authorOf(ctx)
	if !ok {
		return
	}
	var env question.Envelope
	if err := ctx.ShouldBindJSON(&env); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	action, err := question.DecodeAction(env)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	view, err := c.Service.DispatchQuestion(ctx.Request.Context(), author, ctx.Param("id"), action)
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary Commit the edited question into its page
// @Tags Authoring
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/teacher/drafts/{id}/editor/commit [post]
func (c *DraftController) CommitEditor(ctx *gin.Context) {
	author, ok := authorOf(ctx)
	if !ok {
		return
	}
	view, err := c.Service.CommitQuestion(ctx.Request.Context(), author, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary Discard the question being edited
// @Tags Authoring
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/drafts/{id}/editor [delete]
func (c *DraftController) CancelEditor(ctx *gin.Context) {
	author, ok := authorOf(ctx)
	if !ok {
		return
	}
	view, err := c.Service.CancelQuestion(ctx.Request.Context(), author, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary Upload an image onto a page
// @Tags Authoring
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param pageId path string true "Page ID"
// @Param file formData file true "Image"
// @Success 201 {object} util.Response
// @Router /api/teacher/drafts/{id}/pages/{pageId}/images [post]
func (c *DraftController) UploadImage(ctx *gin.Context) {
	author, ok := authorOf(ctx)
	if !ok {
		return
	}
	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	view, err := c.Service.AddImage(ctx.Request.Context(), author, ctx.Param("id"), ctx.Param("pageId"), header.Filename, file, header.Size)
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Created(ctx, view)
}

// @Summary Replace the image of an image block
// @Tags Authoring
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param pageId path string true "Page ID"
// @Param contentId path string true "Content ID"
// @Param file formData file true "Image"
// @Success 200 {object} util.Response
// @Router /api/teacher/drafts/{id}/pages/{pageId}/images/{contentId} [put]
func (c *DraftController) ReplaceImage(ctx *gin.Context) {
	author, ok := authorOf(ctx)
	if !ok {
		return
	}
	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	view, err := c.Service.ReplaceImage(ctx.Request.Context(), author, ctx.Param("id"), ctx.Param("pageId"), ctx.Param("contentId"), header.Filename, file, header.Size)
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary Remove a content block
// @Tags Authoring
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param pageId path string true "Page ID"
// @Param contentId path string true "Content ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/drafts/{id}/pages/{pageId}/contents/{contentId} [delete]
func (c *DraftController) RemoveContent(ctx *gin.Context) {
	author, ok := authorOf(ctx)
	if !ok {
		return
	}
	view, err := c.Service.RemoveContent(ctx.Request.Context(), author, ctx.Param("id"), ctx.Param("pageId"), ctx.Param("contentId"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

func authorOf(ctx *gin.Context) (service.Author, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return service.Author{}, false
	}
	return service.Author{ID: claims.UserID, Admin: claims.Role == model.Admin}, true
}

func writeError(ctx *gin.Context, err error) {
	if ve, ok := service.IsValidation(err); ok {
		util.Unprocessable(ctx, ve.Error(), ve.Errors)
		return
	}

	switch {
	case errors.Is(err, util.ErrDraftNotFound),
		errors.Is(err, util.ErrPageNotFound),
		errors.Is(err, util.ErrContentNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrNoQuestionInProgress),
		errors.Is(err, util.ErrQuestionInProgress):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrImageTooLarge):
		util.Error(ctx, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, util.ErrUnsupportedImage):
		util.Error(ctx, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, util.ErrActionRejected),
		errors.Is(err, question.ErrUnknownType):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
