package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type noteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func noteID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abort(c, http.StatusBadRequest, msgInvalidNoteID)
		return "", false
	}
	return id.String(), true
}

func (s *Server) listNotes(c *gin.Context) {
	notes, err := s.notes.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

func (s *Server) createNote(c *gin.Context) {
	var req noteRequest
	if !s.bind(c, &req) {
		return
	}
	note, err := s.notes.Create(c.Request.Context(), currentUser(c).ID, req.Title, req.Body)
	if err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"note": note})
}

func (s *Server) updateNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	var req noteRequest
	if !s.bind(c, &req) {
		return
	}
	note, err := s.notes.Update(c.Request.Context(), currentUser(c).ID, id, req.Title, req.Body)
	if err != nil {
		s.fail(c, err, msgNoteNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"note": note})
}

func (s *Server) deleteNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	if err := s.notes.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		s.fail(c, err, msgNoteNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Note deleted"})
}
