// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askboard/askboard/internal/auth"
	"github.com/askboard/askboard/internal/qna"
)

// fakeHasher keeps plaintext comparisons for speed; the real argon2id
// hasher has its own tests.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Verify(password, hash string) (bool, error) {
	return hash == "hashed:"+password, nil
}

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*auth.Account
	nextID   auth.AccountID
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*auth.Account), nextID: 1}
}

func (r *fakeAccountRepo) Create(_ context.Context, account *auth.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(account.Email)
	if _, exists := r.accounts[key]; exists {
		return auth.ErrDuplicateEmail
	}
	account.ID = r.nextID
	r.nextID++
	stored := *account
	r.accounts[key] = &stored
	return nil
}

func (r *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*auth.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[strings.ToLower(email)]
	if !ok {
		return nil, auth.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions map[qna.QuestionID]qna.Question
	owners    map[qna.QuestionID]auth.AccountID
	nextID    qna.QuestionID
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{
		questions: make(map[qna.QuestionID]qna.Question),
		owners:    make(map[qna.QuestionID]auth.AccountID),
		nextID:    1,
	}
}

func (r *fakeQuestionRepo) List(_ context.Context, _ qna.Pagination) ([]qna.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]qna.Question, 0, len(r.questions))
	for _, q := range r.questions {
		out = append(out, q)
	}
	return out, nil
}

func (r *fakeQuestionRepo) Create(_ context.Context, nq qna.NewQuestion, owner auth.AccountID) (*qna.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := qna.Question{ID: r.nextID, Title: nq.Title, Content: nq.Content, Tags: nq.Tags}
	r.questions[q.ID] = q
	r.owners[q.ID] = owner
	r.nextID++
	return &q, nil
}

func (r *fakeQuestionRepo) Update(_ context.Context, id qna.QuestionID, nq qna.NewQuestion, owner auth.AccountID) (*qna.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owners[id] != owner {
		return nil, qna.ErrNotFound
	}
	q := qna.Question{ID: id, Title: nq.Title, Content: nq.Content, Tags: nq.Tags}
	r.questions[id] = q
	return &q, nil
}

func (r *fakeQuestionRepo) Delete(_ context.Context, id qna.QuestionID, owner auth.AccountID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owners[id] != owner {
		return qna.ErrNotFound
	}
	delete(r.questions, id)
	delete(r.owners, id)
	return nil
}

func (r *fakeQuestionRepo) ExistsWithOwner(_ context.Context, id qna.QuestionID, owner auth.AccountID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	storedOwner, ok := r.owners[id]
	return ok && storedOwner == owner, nil
}

type fakeAnswerRepo struct {
	mu      sync.Mutex
	answers []qna.Answer
	nextID  qna.AnswerID
}

func (r *fakeAnswerRepo) Create(_ context.Context, na qna.NewAnswer, _ auth.AccountID) (*qna.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a := qna.Answer{ID: r.nextID, Content: na.Content, QuestionID: na.QuestionID}
	r.answers = append(r.answers, a)
	return &a, nil
}

// countingModerator censors by uppercasing and counts calls.
type countingModerator struct {
	mu    sync.Mutex
	calls int
}

func (m *countingModerator) Censor(_ context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return strings.ToUpper(text), nil
}

func (m *countingModerator) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type testEnv struct {
	engine    *gin.Engine
	codec     *auth.TokenCodec
	moderator *countingModerator
	questions *fakeQuestionRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	codec, err := auth.NewTokenCodec(bytes.Repeat([]byte{0x42}, auth.TokenKeyLen))
	require.NoError(t, err)

	authSvc, err := auth.NewService(newFakeAccountRepo(), fakeHasher{}, codec, time.Hour)
	require.NoError(t, err)

	moderator := &countingModerator{}
	questions := newFakeQuestionRepo()
	qnaSvc, err := qna.NewService(questions, &fakeAnswerRepo{}, moderator)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(authSvc, qnaSvc, logger)
	handler.RegisterRoutes(engine, codec)

	return &testEnv{
		engine:    engine,
		codec:     codec,
		moderator: moderator,
		questions: questions,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) token(t *testing.T, accountID auth.AccountID) string {
	t.Helper()
	token, err := e.codec.Issue(accountID, time.Now(), time.Hour)
	require.NoError(t, err)
	return token
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	t.Run("creates account", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/registration", "", credentialsRequest{
			Email: "a@b.com", Password: "pw",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("duplicate email yields 422", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/registration", "", credentialsRequest{
			Email: "a@b.com", Password: "other",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "account already exists")
	})

	t.Run("invalid email yields 400", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/registration", "", credentialsRequest{
			Email: "not-an-email", Password: "pw",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body yields 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/registration", strings.NewReader("{"))
		w := httptest.NewRecorder()
		env.engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/registration", "", credentialsRequest{
		Email: "a@b.com", Password: "pw",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("valid credentials yield a token", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/login", "", credentialsRequest{
			Email: "a@b.com", Password: "pw",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Token)

		session, err := env.codec.Verify(resp.Token, time.Now())
		require.NoError(t, err)
		assert.Equal(t, auth.AccountID(1), session.AccountID)
	})

	t.Run("wrong password yields 401", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/login", "", credentialsRequest{
			Email: "a@b.com", Password: "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown account yields 401", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/login", "", credentialsRequest{
			Email: "missing@b.com", Password: "pw",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestListQuestions(t *testing.T) {
	env := newTestEnv(t)

	t.Run("empty list", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/questions", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("lone limit yields 400", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/questions?limit=5", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-numeric offset yields 400", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/questions?limit=5&offset=x", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateQuestion(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, 1)

	t.Run("missing token yields 401", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/questions", "", qna.NewQuestion{Title: "t", Content: "c"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("tampered token yields 401", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/questions", token+"x", qna.NewQuestion{Title: "t", Content: "c"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token yields 401", func(t *testing.T) {
		expired, err := env.codec.Issue(1, time.Now().Add(-2*time.Hour), time.Hour)
		require.NoError(t, err)
		w := env.do(t, http.MethodPost, "/questions", expired, qna.NewQuestion{Title: "t", Content: "c"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("persists the censored text", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/questions", token, qna.NewQuestion{
			Title: "how do I test", Content: "details here", Tags: []string{"go"},
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var q qna.Question
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
		assert.Equal(t, "HOW DO I TEST", q.Title)
		assert.Equal(t, "DETAILS HERE", q.Content)
		assert.Equal(t, []string{"go"}, q.Tags)
		assert.Equal(t, 2, env.moderator.count(), "title and content moderated once each")
	})
}

func TestUpdateQuestion(t *testing.T) {
	env := newTestEnv(t)
	ownerToken := env.token(t, 1)
	otherToken := env.token(t, 2)

	w := env.do(t, http.MethodPost, "/questions", ownerToken, qna.NewQuestion{Title: "t", Content: "c"})
	require.Equal(t, http.StatusCreated, w.Code)
	callsAfterCreate := env.moderator.count()

	t.Run("foreign account yields 401 without moderation", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/questions/1", otherToken, qna.NewQuestion{Title: "x", Content: "y"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, callsAfterCreate, env.moderator.count(), "moderation must not run for unauthorized update")
	})

	t.Run("missing question yields 401", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/questions/999", ownerToken, qna.NewQuestion{Title: "x", Content: "y"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("owner updates", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/questions/1", ownerToken, qna.NewQuestion{Title: "new title", Content: "new content"})
		require.Equal(t, http.StatusOK, w.Code)

		var q qna.Question
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
		assert.Equal(t, "NEW TITLE", q.Title)
	})

	t.Run("bad id yields 400", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/questions/abc", ownerToken, qna.NewQuestion{Title: "x", Content: "y"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteQuestion(t *testing.T) {
	env := newTestEnv(t)
	ownerToken := env.token(t, 1)
	otherToken := env.token(t, 2)

	w := env.do(t, http.MethodPost, "/questions", ownerToken, qna.NewQuestion{Title: "t", Content: "c"})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("foreign account yields 401", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/questions/1", otherToken, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("owner deletes", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/questions/1", ownerToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("repeated delete yields 401", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/questions/1", ownerToken, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCreateAnswer(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, 1)

	w := env.do(t, http.MethodPost, "/questions", token, qna.NewQuestion{Title: "t", Content: "c"})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("missing token yields 401", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/answers", "", qna.NewAnswer{Content: "a", QuestionID: 1})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("any authenticated account may answer", func(t *testing.T) {
		other := env.token(t, 2)
		w := env.do(t, http.MethodPost, "/answers", other, qna.NewAnswer{Content: "an answer", QuestionID: 1})
		require.Equal(t, http.StatusCreated, w.Code)

		var a qna.Answer
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
		assert.Equal(t, "AN ANSWER", a.Content)
		assert.Equal(t, qna.QuestionID(1), a.QuestionID)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORS())
	engine.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	t.Run("headers on normal request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight answered directly", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
	})
}

func TestServerStartStop(t *testing.T) {
	codec, err := auth.NewTokenCodec(bytes.Repeat([]byte{0x42}, auth.TokenKeyLen))
	require.NoError(t, err)
	authSvc, err := auth.NewService(newFakeAccountRepo(), fakeHasher{}, codec, time.Hour)
	require.NoError(t, err)
	qnaSvc, err := qna.NewService(newFakeQuestionRepo(), &fakeAnswerRepo{}, &countingModerator{})
	require.NoError(t, err)

	srv, err := NewServer(ServerConfig{
		Addr:  "127.0.0.1:0",
		Auth:  authSvc,
		QnA:   qnaSvc,
		Codec: codec,
	})
	require.NoError(t, err)

	errCh, err := srv.Start()
	require.NoError(t, err)

	resp, err := http.Get(fmt.Sprintf("http://%s/questions", srv.Addr()))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			t.Errorf("unexpected server error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("timeout waiting for error channel to close")
	}
}
