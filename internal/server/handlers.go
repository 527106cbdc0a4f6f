package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-lawnquote/internal/logging"
	"github.com/goliatone/go-lawnquote/pkg/preview"
	"github.com/goliatone/go-lawnquote/pkg/quote"
	"github.com/goliatone/go-lawnquote/pkg/render"
	"github.com/goliatone/go-lawnquote/pkg/renderers/html"
)

const (
	fieldLength = "length"
	fieldArea   = "area"
	fieldPhotos = "photos"

	multipartMemory = 8 << 20
)

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// index renders the session. ?format=<renderer> picks another registered
// renderer, e.g. text.
func (s *Server) index(c *gin.Context) {
	session := currentSession(c)

	name := c.DefaultQuery("format", html.Name)
	renderer, err := s.registry.Get(name)
	if err != nil {
		c.String(http.StatusNotFound, "unknown format %q", name)
		return
	}

	view := session.View()
	options := render.RenderOptions{
		Theme:  s.theme(),
		Notice: s.notice,
	}
	if view.Pending {
		options.RefreshSeconds = s.cfg.RefreshSeconds
	}

	body, err := renderer.Render(c.Request.Context(), view, options)
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, renderer.ContentType(), body)
}

// selectPhotos is the file picker change event. The posted files replace the
// current selection; posting none clears it.
func (s *Server) selectPhotos(c *gin.Context) {
	session := currentSession(c)

	form, ok := s.parseForm(c)
	if !ok {
		return
	}
	if err := applyFields(session, form); err != nil {
		s.redirectOnStateError(c, session, err)
		return
	}

	photos, err := readPhotos(form.File[fieldPhotos])
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusBadRequest, "could not read uploaded photos")
		return
	}
	if err := s.applyPhotos(c, session, photos); err != nil {
		s.redirectOnStateError(c, session, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// submit applies the posted fields and runs the submit event. Files posted
// alongside (browsers without script send the file input with the form)
// are applied first as a selection.
func (s *Server) submit(c *gin.Context) {
	session := currentSession(c)

	form, ok := s.parseForm(c)
	if !ok {
		return
	}
	if err := applyFields(session, form); err != nil {
		s.redirectOnStateError(c, session, err)
		return
	}

	photos, err := readPhotos(form.File[fieldPhotos])
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusBadRequest, "could not read uploaded photos")
		return
	}
	if len(photos) > 0 {
		if err := s.applyPhotos(c, session, photos); err != nil {
			s.redirectOnStateError(c, session, err)
			return
		}
	}

	state, err := session.Submit(c.Request.Context())
	if err != nil {
		s.redirectOnStateError(c, session, err)
		return
	}
	s.logger.Debug("submit handled", logging.SessionField(session.ID()), zap.String("state", state.String()))
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) closeSession(c *gin.Context) {
	session := currentSession(c)
	s.manager.Remove(session.ID())

	cookieSession := sessions.Default(c)
	cookieSession.Delete(cookieKeySessionID)
	if err := cookieSession.Save(); err != nil {
		s.logger.Error("clear session cookie", logging.SessionField(session.ID()), zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) servePreview(c *gin.Context) {
	blob, err := s.manager.Store().Open(c.Param("id"))
	if err != nil {
		if errors.Is(err, preview.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}
	contentType := blob.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(blob.Data)
	}
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, contentType, blob.Data)
}

func (s *Server) applyPhotos(c *gin.Context, session *quote.Session, photos []quote.Photo) error {
	selection, err := session.SelectPhotos(c.Request.Context(), photos)
	if err != nil {
		return err
	}
	s.metrics.ObserveSelection(selection)
	s.logger.Info("photos selected",
		logging.SessionField(session.ID()),
		zap.Int("accepted", len(selection.Accepted)),
		zap.Int("rejected", len(selection.Rejected)))
	return nil
}

// parseForm reads a multipart or urlencoded body within the upload limit.
// It writes the error response itself and reports false on failure.
func (s *Server) parseForm(c *gin.Context) (*multipart.Form, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	err := c.Request.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = c.Request.ParseForm()
	}
	if err != nil {
		_ = c.Error(err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "upload exceeds %d bytes", s.cfg.MaxUploadBytes)
			return nil, false
		}
		c.String(http.StatusBadRequest, "invalid form")
		return nil, false
	}

	form := c.Request.MultipartForm
	if form == nil {
		form = &multipart.Form{Value: c.Request.PostForm, File: map[string][]*multipart.FileHeader{}}
	}
	return form, true
}

// redirectOnStateError sends state-machine rejections back to the page,
// which already reflects the state. Anything else is a server error.
func (s *Server) redirectOnStateError(c *gin.Context, session *quote.Session, err error) {
	switch {
	case errors.Is(err, quote.ErrAlreadySubmitted),
		errors.Is(err, quote.ErrSubmitInProgress),
		errors.Is(err, quote.ErrSessionClosed):
		s.logger.Debug("event ignored", logging.SessionField(session.ID()), zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/")
	default:
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "request failed")
	}
}

func applyFields(session *quote.Session, form *multipart.Form) error {
	if values, ok := form.Value[fieldLength]; ok && len(values) > 0 {
		if err := session.SetLength(values[0]); err != nil {
			return err
		}
	}
	if values, ok := form.Value[fieldArea]; ok && len(values) > 0 {
		if err := session.SetArea(quote.ParseArea(values[0])); err != nil {
			return err
		}
	}
	return nil
}

// readPhotos loads uploaded files. Empty parts are what browsers send for a
// file input with nothing chosen and are skipped.
func readPhotos(headers []*multipart.FileHeader) ([]quote.Photo, error) {
	photos := make([]quote.Photo, 0, len(headers))
	for _, header := range headers {
		if header.Filename == "" && header.Size == 0 {
			continue
		}
		data, err := readFile(header)
		if err != nil {
			return nil, fmt.Errorf("server: read upload %q: %w", header.Filename, err)
		}
		photos = append(photos, quote.Photo{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return photos, nil
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
