package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"time"

	"assessment_builder/internal/document"
	"assessment_builder/internal/ident"
	"assessment_builder/internal/question"
	"assessment_builder/internal/util"
	"assessment_builder/pkg/logger"
	"assessment_builder/pkg/monitoring"
	"assessment_builder/pkg/tracing"

	"go.uber.org/zap"
)

// DraftStore persists draft documents.
type DraftStore interface {
	Create(ctx context.Context, teacherID uint, doc document.Assessment) error
	Load(ctx context.Context, id string) (document.Assessment, uint, error)
	Save(ctx context.Context, doc document.Assessment) error
}

// DraftCache holds the unsaved working copy of open drafts.
type DraftCache interface {
	Get(ctx context.Context, id string) (document.Assessment, bool, error)
	Set(ctx context.Context, doc document.Assessment) error
	Delete(ctx context.Context, id string) error
}

// ImageTransport uploads and deletes image content.
type ImageTransport interface {
	Upload(ctx context.Context, name string, r io.Reader, size int64) (document.ImageRef, error)
	Delete(ctx context.Context, publicID string) error
}

// Author is the user acting on a draft. Admins may act on any draft.
type Author struct {
	ID    uint
	Admin bool
}

// ValidationError is returned when a question fails validation on commit or
// when a document action would bring in an invalid question.
type ValidationError struct {
	Errors question.Errors
}

func (e *ValidationError) Error() string {
	return "question is invalid: " + strings.Join(e.Errors.Keys(), ", ")
}

type DraftView struct {
	Assessment      document.Assessment    `json:"assessment"`
	StartingNumbers map[string]int         `json:"startingNumbers"`
	Numbers         []document.PageNumbers `json:"numbers"`
	Editing         *question.Target       `json:"editing,omitempty"`
}

type EditorView struct {
	Target   question.Target   `json:"target"`
	Question question.Question `json:"question"`
	Errors   question.Errors   `json:"errors"`
	Valid    bool              `json:"valid"`
}

// session is one open draft. Its mutex serializes every operation on the
// draft, so actions apply one at a time in arrival order.
type session struct {
	mu       sync.Mutex
	id       string
	owner    uint
	doc      document.Assessment
	editor   *question.Editor
	lastUsed time.Time
	closed   bool
}

type AuthoringService struct {
	Store  DraftStore
	Cache  DraftCache // optional
	Images ImageTransport
	IDs    ident.Generator
	Clock  func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewAuthoringService(store DraftStore, cache DraftCache, images ImageTransport, ids ident.Generator) *AuthoringService {
	return &AuthoringService{
		Store:    store,
		Cache:    cache,
		Images:   images,
		IDs:      ids,
		Clock:    time.Now,
		sessions: make(map[string]*session),
	}
}

func (s *AuthoringService) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

// CreateDraft starts a new draft with one empty page and opens it.
func (s *AuthoringService) CreateDraft(ctx context.Context, author Author) (DraftView, error) {
	doc := document.New(s.IDs.NewID(), s.IDs)
	ctx, span := tracing.StartSpan(ctx, "authoring.CreateDraft", doc.ID)
	defer span.End()

	if err := s.Store.Create(ctx, author.ID, doc); err != nil {
		return DraftView{}, fmt.Errorf("create draft: %w", err)
	}

	sess := &session{id: doc.ID, owner: author.ID, doc: doc, lastUsed: s.now()}
	s.mu.Lock()
	s.sessions[doc.ID] = sess
	monitoring.OpenSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	logger.Log.Info("Draft created", zap.String("draftId", doc.ID), zap.Uint("teacherId", author.ID))
	return viewOf(sess), nil
}

// OpenDraft loads a draft into a session, preferring the cached working copy.
func (s *AuthoringService) OpenDraft(ctx context.Context, author Author, id string) (DraftView, error) {
	ctx, span := tracing.StartSpan(ctx, "authoring.OpenDraft", id)
	defer span.End()
	return s.withSession(ctx, author, id, func(sess *session) (DraftView, error) {
		return viewOf(sess), nil
	})
}

// Document returns the current working copy with its derived numbering.
func (s *AuthoringService) Document(ctx context.Context, author Author, id string) (DraftView, error) {
	return s.OpenDraft(ctx, author, id)
}

// Dispatch applies one document action. Actions that would break the
// document are dropped silently and the unchanged view is returned.
//
// A question the action brings in or changes must pass validation, otherwise
// a *ValidationError is returned. Images the action drops are deleted from
// storage first; if a delete fails the document stays as it was.
func (s *AuthoringService) Dispatch(ctx context.Context, author Author, id string, action document.Action) (DraftView, error) {
	if action == nil {
		return DraftView{}, util.ErrActionRejected
	}
	ctx, span := tracing.StartSpan(ctx, "authoring.Dispatch", id)
	defer span.End()
	return s.withSession(ctx, author, id, func(sess *session) (DraftView, error) {
		prepared := document.Prepare(action, s.IDs)
		next := document.Reduce(sess.doc, prepared)

		if errs, ok := validateIncoming(sess.doc, next); !ok {
			monitoring.DocumentActions.WithLabelValues("document", prepared.ActionType(), "invalid").Inc()
			return viewOf(sess), &ValidationError{Errors: errs}
		}
		for _, publicID := range droppedImages(sess.doc, next) {
			if err := s.Images.Delete(ctx, publicID); err != nil {
				return viewOf(sess), err
			}
		}

		s.apply(ctx, sess, prepared)
		return viewOf(sess), nil
	})
}

// BeginQuestion opens the editor on a new question of type t, to be appended
// to pageID on commit.
func (s *AuthoringService) BeginQuestion(ctx context.Context, author Author, id, pageID string, t question.Type) (EditorView, error) {
	return s.withEditorSession(ctx, author, id, func(sess *session) (EditorView, error) {
		if sess.editor != nil {
			return EditorView{}, util.ErrQuestionInProgress
		}
		if _, ok := sess.doc.Page(pageID); !ok {
			return EditorView{}, util.ErrPageNotFound
		}
		q, ok := question.New(t, s.IDs)
		if !ok {
			return EditorView{}, fmt.Errorf("%w: %q", question.ErrUnknownType, t)
		}
		sess.editor = question.NewEditor(question.Target{PageID: pageID}, q, s.IDs)
		return editorViewOf(sess.editor), nil
	})
}

// EditQuestion opens the editor on a copy of an existing question.
func (s *AuthoringService) EditQuestion(ctx context.Context, author Author, id, pageID, contentID string) (EditorView, error) {
	return s.withEditorSession(ctx, author, id, func(sess *session) (EditorView, error) {
		if sess.editor != nil {
			return EditorView{}, util.ErrQuestionInProgress
		}
		c, err := findContent(sess.doc, pageID, contentID)
		if err != nil {
			return EditorView{}, err
		}
		if c.Type != document.ContentQuestion {
			return EditorView{}, fmt.Errorf("%w: %s is not a question", util.ErrContentNotFound, contentID)
		}
		target := question.Target{PageID: pageID, ContentID: contentID}
		sess.editor = question.NewEditor(target, c.Question, s.IDs)
		return editorViewOf(sess.editor), nil
	})
}

func (s *AuthoringService) Editor(ctx context.Context, author Author, id string) (EditorView, error) {
	return s.withEditorSession(ctx, author, id, func(sess *session) (EditorView, error) {
		if sess.editor == nil {
			return EditorView{}, util.ErrNoQuestionInProgress
		}
		return editorViewOf(sess.editor), nil
	})
}

func (s *AuthoringService) DispatchQuestion(ctx context.Context, author Author, id string, action question.Action) (EditorView, error) {
	if action == nil {
		return EditorView{}, util.ErrActionRejected
	}
	return s.withEditorSession(ctx, author, id, func(sess *session) (EditorView, error) {
		if sess.editor == nil {
			return EditorView{}, util.ErrNoQuestionInProgress
		}
		before := sess.editor.Question()
		after := sess.editor.Dispatch(action)
		monitoring.DocumentActions.WithLabelValues("question", action.ActionType(), outcomeOf(before, after)).Inc()
		return editorViewOf(sess.editor), nil
	})
}

// CommitQuestion merges the edited question into its page. A question that
// fails validation yields a *ValidationError and stays in the editor.
func (s *AuthoringService) CommitQuestion(ctx context.Context, author Author, id string) (DraftView, error) {
	ctx, span := tracing.StartSpan(ctx, "authoring.CommitQuestion", id)
	defer span.End()
	return s.withSession(ctx, author, id, func(sess *session) (DraftView, error) {
		ed := sess.editor
		if ed == nil {
			return viewOf(sess), util.ErrNoQuestionInProgress
		}
		if errs := ed.Errors(); !errs.OK() {
			monitoring.QuestionCommits.WithLabelValues("invalid").Inc()
			return viewOf(sess), &ValidationError{Errors: errs}
		}

		q := ed.Question()
		if !question.WellFormed(q) {
			monitoring.QuestionCommits.WithLabelValues("rejected").Inc()
			return viewOf(sess), fmt.Errorf("%w: malformed question %s", util.ErrActionRejected, q.ID)
		}

		target := ed.Target()
		var action document.Action
		if target.IsUpdate() {
			if _, err := findContent(sess.doc, target.PageID, target.ContentID); err != nil {
				return viewOf(sess), err
			}
			action = document.UpdateContent{
				PageID:  target.PageID,
				Content: document.NewQuestionContent(target.ContentID, q),
			}
		} else {
			if _, ok := sess.doc.Page(target.PageID); !ok {
				return viewOf(sess), util.ErrPageNotFound
			}
			action = document.Prepare(document.AddContent{
				PageID:  target.PageID,
				Content: document.NewQuestionContent("", q),
			}, s.IDs)
		}

		s.apply(ctx, sess, action)
		sess.editor = nil
		monitoring.QuestionCommits.WithLabelValues("ok").Inc()
		return viewOf(sess), nil
	})
}

// CancelQuestion discards the editor. Cancelling with no editor open is fine.
func (s *AuthoringService) CancelQuestion(ctx context.Context, author Author, id string) (DraftView, error) {
	return s.withSession(ctx, author, id, func(sess *session) (DraftView, error) {
		sess.editor = nil
		return viewOf(sess), nil
	})
}

// AddImage uploads an image and appends it to pageID. A failed upload leaves
// the document as it was, and an upload the document refuses is deleted again.
func (s *AuthoringService) AddImage(ctx context.Context, author Author, id, pageID, name string, r io.Reader, size int64) (DraftView, error) {
	ctx, span := tracing.StartSpan(ctx, "authoring.AddImage", id)
	defer span.End()
	return s.withSession(ctx, author, id, func(sess *session) (DraftView, error) {
		if _, ok := sess.doc.Page(pageID); !ok {
			return viewOf(sess), util.ErrPageNotFound
		}
		ref, err := s.Images.Upload(ctx, name, r, size)
		if err != nil {
			return viewOf(sess), err
		}
		added := s.apply(ctx, sess, document.AddContent{
			PageID:  pageID,
			Content: document.NewImageContent(s.IDs.NewID(), ref),
		})
		if !added {
			if err := s.Images.Delete(ctx, ref.PublicID); err != nil {
				logger.Log.Warn("Failed to delete rejected image",
					zap.String("draftId", id),
					zap.String("publicId", ref.PublicID),
					zap.Error(err))
			}
			return viewOf(sess), fmt.Errorf("%w: image %q was not added", util.ErrActionRejected, ref.PublicID)
		}
		return viewOf(sess), nil
	})
}

// ReplaceImage uploads a new image for an existing image block, then deletes
// the old object. Failing to delete the old object is only logged.
func (s *AuthoringService) ReplaceImage(ctx context.Context, author Author, id, pageID, contentID, name string, r io.Reader, size int64) (DraftView, error) {
	ctx, span := tracing.StartSpan(ctx, "authoring.ReplaceImage", id)
	defer span.End()
	return s.withSession(ctx, author, id, func(sess *session) (DraftView, error) {
		old, err := findContent(sess.doc, pageID, contentID)
		if err != nil {
			return viewOf(sess), err
		}
		if old.Type != document.ContentImage {
			return viewOf(sess), fmt.Errorf("%w: %s is not an image", util.ErrContentNotFound, contentID)
		}
		ref, err := s.Images.Upload(ctx, name, r, size)
		if err != nil {
			return viewOf(sess), err
		}
		s.apply(ctx, sess, document.UpdateContent{
			PageID:  pageID,
			Content: document.NewImageContent(contentID, ref),
		})
		if old.Image.PublicID != "" && old.Image.PublicID != ref.PublicID {
			if err := s.Images.Delete(ctx, old.Image.PublicID); err != nil {
				logger.Log.Warn("Failed to delete replaced image",
					zap.String("draftId", id),
					zap.String("publicId", old.Image.PublicID),
					zap.Error(err))
			}
		}
		return viewOf(sess), nil
	})
}

// RemoveContent deletes a content block. Image objects are deleted from
// storage first; if that fails the block stays.
func (s *AuthoringService) RemoveContent(ctx context.Context, author Author, id, pageID, contentID string) (DraftView, error) {
	ctx, span := tracing.StartSpan(ctx, "authoring.RemoveContent", id)
	defer span.End()
	return s.withSession(ctx, author, id, func(sess *session) (DraftView, error) {
		c, err := findContent(sess.doc, pageID, contentID)
		if err != nil {
			return viewOf(sess), err
		}
		if c.Type == document.ContentImage && c.Image.PublicID != "" {
			if err := s.Images.Delete(ctx, c.Image.PublicID); err != nil {
				return viewOf(sess), err
			}
		}
		s.apply(ctx, sess, document.DeleteContent{PageID: pageID, ContentID: contentID})
		return viewOf(sess), nil
	})
}

// Save writes the working copy to the store.
func (s *AuthoringService) Save(ctx context.Context, author Author, id string) (DraftView, error) {
	ctx, span := tracing.StartSpan(ctx, "authoring.Save", id)
	defer span.End()
	return s.withSession(ctx, author, id, func(sess *session) (DraftView, error) {
		if err := s.Store.Save(ctx, sess.doc); err != nil {
			return viewOf(sess), fmt.Errorf("save draft %s: %w", id, err)
		}
		logger.Log.Info("Draft saved", zap.String("draftId", id))
		return viewOf(sess), nil
	})
}

// Close drops the session and its cached working copy. Unsaved changes are
// discarded.
func (s *AuthoringService) Close(ctx context.Context, author Author, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return nil
	}
	if sess.owner != author.ID && !author.Admin {
		return util.ErrPermissionDenied
	}
	sess.closed = true
	s.forget(id)

	if s.Cache != nil {
		if err := s.Cache.Delete(ctx, id); err != nil {
			logger.Log.Warn("Failed to drop cached draft", zap.String("draftId", id), zap.Error(err))
		}
	}
	return nil
}

// EvictIdle drops sessions unused for longer than idle. Their working copies
// stay in the cache. Busy sessions are skipped.
func (s *AuthoringService) EvictIdle(idle time.Duration) int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		if now.Sub(sess.lastUsed) > idle {
			sess.closed = true
			delete(s.sessions, id)
			evicted++
		}
		sess.mu.Unlock()
	}
	monitoring.OpenSessions.Set(float64(len(s.sessions)))
	return evicted
}

// Run evicts idle sessions every interval until ctx is done.
func (s *AuthoringService) Run(ctx context.Context, idle, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictIdle(idle); n > 0 {
				logger.Log.Debug("Evicted idle drafts", zap.Int("count", n))
			}
		}
	}
}

func (s *AuthoringService) withSession(ctx context.Context, author Author, id string, fn func(*session) (DraftView, error)) (DraftView, error) {
	sess, err := s.acquire(ctx, author, id)
	if err != nil {
		return DraftView{}, err
	}
	defer s.release(sess)
	return fn(sess)
}

func (s *AuthoringService) withEditorSession(ctx context.Context, author Author, id string, fn func(*session) (EditorView, error)) (EditorView, error) {
	sess, err := s.acquire(ctx, author, id)
	if err != nil {
		return EditorView{}, err
	}
	defer s.release(sess)
	return fn(sess)
}

// acquire returns the locked session for id, opening it if needed.
func (s *AuthoringService) acquire(ctx context.Context, author Author, id string) (*session, error) {
	for {
		s.mu.Lock()
		sess, ok := s.sessions[id]
		s.mu.Unlock()

		if !ok {
			loaded, err := s.load(ctx, id)
			if err != nil {
				return nil, err
			}
			s.mu.Lock()
			if sess, ok = s.sessions[id]; !ok {
				sess = loaded
				s.sessions[id] = sess
				monitoring.OpenSessions.Set(float64(len(s.sessions)))
			}
			s.mu.Unlock()
		}

		if sess.owner != author.ID && !author.Admin {
			return nil, util.ErrPermissionDenied
		}

		sess.mu.Lock()
		if sess.closed {
			sess.mu.Unlock()
			continue
		}
		return sess, nil
	}
}

func (s *AuthoringService) release(sess *session) {
	sess.lastUsed = s.now()
	sess.mu.Unlock()
}

func (s *AuthoringService) forget(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	monitoring.OpenSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()
}

func (s *AuthoringService) load(ctx context.Context, id string) (*session, error) {
	doc, owner, err := s.Store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		cached, ok, err := s.Cache.Get(ctx, id)
		switch {
		case err != nil:
			logger.Log.Warn("Draft cache read failed", zap.String("draftId", id), zap.Error(err))
		case ok:
			if cerr := document.Check(cached); cerr != nil {
				logger.Log.Warn("Discarding inconsistent cached draft", zap.String("draftId", id), zap.Error(cerr))
			} else {
				doc = cached
			}
		}
	}

	if err := document.Check(doc); err != nil {
		return nil, fmt.Errorf("draft %s is inconsistent: %w", id, err)
	}
	return &session{id: id, owner: owner, doc: doc, lastUsed: s.now()}, nil
}

// apply runs one document transition, writes the result through to the
// cache and reports whether the document changed.
func (s *AuthoringService) apply(ctx context.Context, sess *session, action document.Action) bool {
	next := document.Reduce(sess.doc, action)
	outcome := outcomeOf(sess.doc, next)
	monitoring.DocumentActions.WithLabelValues("document", action.ActionType(), outcome).Inc()
	if outcome == "noop" {
		return false
	}
	sess.doc = next
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, sess.doc); err != nil {
			logger.Log.Warn("Draft cache write failed", zap.String("draftId", sess.id), zap.Error(err))
		}
	}
	return true
}

func outcomeOf(before, after any) string {
	if reflect.DeepEqual(before, after) {
		return "noop"
	}
	return "applied"
}

// validateIncoming validates every question of next that is not already in
// before with the same value. Moved questions are not revalidated.
func validateIncoming(before, next document.Assessment) (question.Errors, bool) {
	known := make(map[string][]question.Question)
	for _, p := range before.Pages {
		for _, c := range p.Contents {
			if c.Type == document.ContentQuestion {
				known[c.Question.ID] = append(known[c.Question.ID], c.Question)
			}
		}
	}

	for _, p := range next.Pages {
		for _, c := range p.Contents {
			if c.Type != document.ContentQuestion || unchanged(known[c.Question.ID], c.Question) {
				continue
			}
			if errs := question.Validate(c.Question); !errs.OK() {
				return errs, false
			}
		}
	}
	return question.Errors{}, true
}

func unchanged(prior []question.Question, q question.Question) bool {
	for _, p := range prior {
		if reflect.DeepEqual(p, q) {
			return true
		}
	}
	return false
}

// droppedImages lists the public ids referenced by before but not by next.
func droppedImages(before, next document.Assessment) []string {
	kept := make(map[string]bool)
	for _, id := range imageIDs(next) {
		kept[id] = true
	}
	var dropped []string
	for _, id := range imageIDs(before) {
		if !kept[id] {
			kept[id] = true
			dropped = append(dropped, id)
		}
	}
	return dropped
}

func imageIDs(doc document.Assessment) []string {
	var ids []string
	for _, p := range doc.Pages {
		for _, c := range p.Contents {
			if c.Type == document.ContentImage && c.Image.PublicID != "" {
				ids = append(ids, c.Image.PublicID)
			}
		}
	}
	return ids
}

func findContent(doc document.Assessment, pageID, contentID string) (document.Content, error) {
	page, ok := doc.Page(pageID)
	if !ok {
		return document.Content{}, util.ErrPageNotFound
	}
	c, ok := page.Content(contentID)
	if !ok {
		return document.Content{}, util.ErrContentNotFound
	}
	return c, nil
}

func viewOf(sess *session) DraftView {
	numbers := document.Number(sess.doc.Pages)
	starts := make(map[string]int, len(numbers))
	for _, n := range numbers {
		starts[n.PageID] = n.Start
	}
	v := DraftView{Assessment: sess.doc, StartingNumbers: starts, Numbers: numbers}
	if sess.editor != nil {
		t := sess.editor.Target()
		v.Editing = &t
	}
	return v
}

func editorViewOf(ed *question.Editor) EditorView {
	errs := ed.Errors()
	return EditorView{
		Target:   ed.Target(),
		Question: ed.Question(),
		Errors:   errs,
		Valid:    errs.OK(),
	}
}

// IsValidation reports whether err is a question validation failure and
// returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
