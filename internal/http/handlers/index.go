package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/usershub/internal/domain/user"
	"github.com/geocoder89/usershub/internal/http/views"
	"github.com/gin-gonic/gin"
)

// IndexHandler serves the HTML page on "/". The engine must have views.Templates() loaded.
type IndexHandler struct {
	users   UserReader
	creator UserCreator
}

func NewIndexHandler(users UserReader, creator UserCreator) *IndexHandler {
	return &IndexHandler{users: users, creator: creator}
}

func (h *IndexHandler) Index(ctx *gin.Context) {
	h.render(ctx, http.StatusOK, "")
}

// Create adds a user from the form and redirects back to the list.
func (h *IndexHandler) Create(ctx *gin.Context) {
	var req user.CreateUserRequest

	if _, ok := BindForm(ctx, &req); !ok {
		h.render(ctx, http.StatusBadRequest, MsgInvalidPayload)
		return
	}

	cctx, cancel := requestContext(ctx, 3*time.Second)
	defer cancel()

	_, err := h.creator.CreateUser(cctx, req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			h.render(ctx, http.StatusBadRequest, MsgEmailTaken)
			return
		}

		_ = ctx.Error(err)
		h.render(ctx, http.StatusInternalServerError, MsgInternal)
		return
	}

	ctx.Redirect(http.StatusFound, "/")
}

func (h *IndexHandler) render(ctx *gin.Context, status int, errMsg string) {
	cctx, cancel := requestContext(ctx, 2*time.Second)
	defer cancel()

	users, err := h.users.List(cctx)
	if err != nil {
		_ = ctx.Error(err)
		ctx.String(http.StatusInternalServerError, MsgInternal)
		return
	}

	page := views.IndexPage{Error: errMsg, Users: make([]views.IndexUser, 0, len(users))}
	for _, u := range users {
		page.Users = append(page.Users, views.IndexUser{ID: u.ID, Username: u.Username, Email: u.Email})
	}

	ctx.HTML(status, views.Index, page)
}
