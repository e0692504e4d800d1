package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/tabby/internal/library"
)

// ScreenProvider hands out the category screen for a category name.
type ScreenProvider interface {
	Screen(category string) *library.Screen
	Forget(categories ...string)
}

// LibraryController exposes the per-category book screen: search,
// selection, favorites, modals and the bulk operations on selected books.
//
// Every response carries the screen state after the operation together with
// the notifications it raised.
type LibraryController struct {
	screens ScreenProvider
}

func NewLibraryController(screens ScreenProvider) *LibraryController {
	return &LibraryController{screens: screens}
}

// ScreenResponse is the body of every successful screen call.
type ScreenResponse struct {
	Screen        library.Snapshot       `json:"screen"`
	Notifications []library.Notification `json:"notifications"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

type ModalRequest struct {
	Modal string `json:"modal" binding:"required"`
}

type TargetsRequest struct {
	Categories []string `json:"categories"`
}

func (lc *LibraryController) screen(c *gin.Context) (*library.Screen, bool) {
	category, ok := parseStringParam(c, "category")
	if !ok {
		return nil, false
	}
	return lc.screens.Screen(category), true
}

func (lc *LibraryController) respondScreen(c *gin.Context, status int, screen *library.Screen) {
	c.JSON(status, ScreenResponse{
		Screen:        screen.View.Snapshot(),
		Notifications: screen.Notifications.Drain(),
	})
}

// respondScreenError reports a failed screen operation. Notifications raised
// by the operation travel in the error details.
func (lc *LibraryController) respondScreenError(c *gin.Context, screen *library.Screen, err error) {
	status, response := classifyError(err, "book")
	if status >= http.StatusInternalServerError {
		log.Printf("Category screen %q: %v", screen.View.Category(), err)
	}
	response.Details = gin.H{"notifications": screen.Notifications.Drain()}
	c.JSON(status, response)
}

func (lc *LibraryController) forgetOthers(current string, targets []string) {
	for _, target := range targets {
		if target != current {
			lc.screens.Forget(target)
		}
	}
}

// run executes op on the screen and answers with the resulting state.
func (lc *LibraryController) run(c *gin.Context, op func(view *library.CategoryView) error) {
	screen, ok := lc.screen(c)
	if !ok {
		return
	}
	if err := op(screen.View); err != nil {
		lc.respondScreenError(c, screen, err)
		return
	}
	lc.respondScreen(c, http.StatusOK, screen)
}

// Load handles POST /api/library/:category/load
func (lc *LibraryController) Load(c *gin.Context) {
	lc.run(c, func(view *library.CategoryView) error {
		return view.Load()
	})
}

// Get handles GET /api/library/:category
func (lc *LibraryController) Get(c *gin.Context) {
	screen, ok := lc.screen(c)
	if !ok {
		return
	}
	lc.respondScreen(c, http.StatusOK, screen)
}

// Search handles POST /api/library/:category/search
func (lc *LibraryController) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}
	lc.run(c, func(view *library.CategoryView) error {
		return view.Filter(req.Query)
	})
}

// ToggleSelect handles POST /api/library/:category/books/:id/select
func (lc *LibraryController) ToggleSelect(c *gin.Context) {
	id, ok := parseStringParam(c, "id")
	if !ok {
		return
	}
	lc.run(c, func(view *library.CategoryView) error {
		return view.ToggleSelect(id)
	})
}

// SelectAll handles POST /api/library/:category/select-all
func (lc *LibraryController) SelectAll(c *gin.Context) {
	lc.run(c, func(view *library.CategoryView) error {
		return view.SelectAllFiltered()
	})
}

// DeselectAll handles POST /api/library/:category/deselect-all
func (lc *LibraryController) DeselectAll(c *gin.Context) {
	lc.run(c, func(view *library.CategoryView) error {
		return view.DeselectAll()
	})
}

// ToggleFavorite handles POST /api/library/:category/books/:id/favorite
func (lc *LibraryController) ToggleFavorite(c *gin.Context) {
	id, ok := parseStringParam(c, "id")
	if !ok {
		return
	}
	lc.run(c, func(view *library.CategoryView) error {
		_, err := view.ToggleFavorite(id)
		return err
	})
}

// Modal handles POST /api/library/:category/modal
// The modal "none" closes whatever is open.
func (lc *LibraryController) Modal(c *gin.Context) {
	var req ModalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}
	lc.run(c, func(view *library.CategoryView) error {
		modal, err := library.ParseModal(req.Modal)
		if err != nil {
			return err
		}
		if modal == library.ModalNone {
			view.CloseModal()
			return nil
		}
		return view.OpenModal(modal)
	})
}

// DeleteSelected handles DELETE /api/library/:category/selected
func (lc *LibraryController) DeleteSelected(c *gin.Context) {
	lc.run(c, func(view *library.CategoryView) error {
		return view.DeleteSelected()
	})
}

// AddSelected handles POST /api/library/:category/selected/add
func (lc *LibraryController) AddSelected(c *gin.Context) {
	var req TargetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}
	lc.run(c, func(view *library.CategoryView) error {
		err := view.AddSelectedToCategories(req.Categories)
		// targets may have gained rows even when err is a partial failure
		lc.forgetOthers(view.Category(), req.Categories)
		return err
	})
}

// MoveSelected handles POST /api/library/:category/selected/move
func (lc *LibraryController) MoveSelected(c *gin.Context) {
	var req TargetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}
	lc.run(c, func(view *library.CategoryView) error {
		err := view.MoveSelectedToCategories(req.Categories)
		// targets may have gained rows even when err is a partial failure
		lc.forgetOthers(view.Category(), req.Categories)
		return err
	})
}

// AddCustomBook handles POST /api/library/:category/custom-books
func (lc *LibraryController) AddCustomBook(c *gin.Context) {
	var form library.CustomBookForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	screen, ok := lc.screen(c)
	if !ok {
		return
	}
	if _, err := screen.View.AddCustomBook(form); err != nil {
		lc.respondScreenError(c, screen, err)
		return
	}
	lc.respondScreen(c, http.StatusCreated, screen)
}
