package apiserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"jackut/internal/apperrors"
	"jackut/internal/auth"
	"jackut/internal/config"
	"jackut/internal/middleware"
	"jackut/internal/models"
	"jackut/internal/services"
	"jackut/internal/storage"
)

const adminToken = "let-me-in"

type memoryBlacklist struct {
	mu  sync.Mutex
	ids map[string]time.Time
}

func (b *memoryBlacklist) Add(_ context.Context, jti string, exp time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ids == nil {
		b.ids = map[string]time.Time{}
	}
	b.ids[jti] = exp
	return nil
}

func (b *memoryBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.ids[jti]
	return ok, nil
}

type api struct {
	t         *testing.T
	handler   http.Handler
	blacklist *memoryBlacklist
	authCfg   config.AuthConfig
}

func newAPI(t *testing.T) *api {
	t.Helper()
	snapshots, err := storage.NewFileSnapshotStore(filepath.Join(t.TempDir(), "jackut.json"))
	require.NoError(t, err)
	blacklist := &memoryBlacklist{}
	authCfg := config.AuthConfig{BcryptCost: bcrypt.MinCost, JWTSecretKey: "test-secret", JWTExpiry: time.Minute}
	svc := services.NewSet(storage.NewStore(), snapshots, nil, zerolog.Nop(), services.Options{
		Auth:      authCfg,
		Blacklist: blacklist,
	})
	return &api{t: t, handler: NewRouter(svc, adminToken, zerolog.Nop()), blacklist: blacklist, authCfg: authCfg}
}

func (a *api) do(method, path, session string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if session != "" {
		req.Header.Set("Authorization", "Bearer "+session)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *api) admin(op string) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/admin/"+op, nil)
	req.Header.Set(middleware.AdminTokenHeader, adminToken)
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *api) signup(login, name string) OpenSessionResponse {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/users", "", CreateUserRequest{Login: login, Password: "pw", Name: name})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = a.do(http.MethodPost, "/sessions", "", OpenSessionRequest{Login: login, Password: "pw"})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp OpenSessionResponse
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	assert.Equal(t, status, rec.Code)
	assert.Equal(t, message, decode[ErrorResponse](t, rec).Error)
}

func TestFriendshipOverHTTP(t *testing.T) {
	a := newAPI(t)
	alice := a.signup("alice", "Alice")
	bob := a.signup("bob", "Bob")
	assert.NotEmpty(t, alice.StreamToken)

	rec := a.do(http.MethodPost, "/api/v1/friends/bob", alice.Session, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(http.MethodGet, "/users/bob/friend-requests", "", nil)
	assert.Equal(t, []string{"alice"}, decode[ListResponse](t, rec).Items)

	rec = a.do(http.MethodPost, "/api/v1/friends/bob", alice.Session, nil)
	assertError(t, rec, http.StatusConflict, "Usuário já está adicionado como amigo, esperando aceitação do convite.")

	require.Equal(t, http.StatusNoContent, a.do(http.MethodPost, "/api/v1/friends/alice", bob.Session, nil).Code)

	rec = a.do(http.MethodGet, "/users/alice/friends", "", nil)
	assert.Equal(t, []string{"bob"}, decode[ListResponse](t, rec).Items)
	rec = a.do(http.MethodGet, "/users/bob/friends/alice", "", nil)
	assert.True(t, decode[BoolResponse](t, rec).Result)

	rec = a.do(http.MethodGet, "/users/nobody/friends", "", nil)
	assertError(t, rec, http.StatusNotFound, "Usuário não cadastrado.")
}

func TestAccountsOverHTTP(t *testing.T) {
	a := newAPI(t)
	alice := a.signup("alice", "Alice")

	rec := a.do(http.MethodPost, "/users", "", CreateUserRequest{Login: "alice", Password: "x", Name: "Other"})
	assertError(t, rec, http.StatusConflict, "Conta com esse nome já existe.")

	rec = a.do(http.MethodPost, "/users", "", CreateUserRequest{Login: "", Password: "x", Name: "Other"})
	assertError(t, rec, http.StatusBadRequest, "Login inválido.")

	rec = a.do(http.MethodPost, "/sessions", "", OpenSessionRequest{Login: "alice", Password: "wrong"})
	assertError(t, rec, http.StatusUnauthorized, "Login ou senha inválidos.")

	rec = a.do(http.MethodPut, "/api/v1/profile/attributes/cidade", alice.Session, EditProfileRequest{Value: "Maceió"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(http.MethodGet, "/users/alice/attributes/cidade", "", nil)
	assert.Equal(t, "Maceió", decode[ValueResponse](t, rec).Value)

	rec = a.do(http.MethodGet, "/users/alice/attributes/musica", "", nil)
	assertError(t, rec, http.StatusBadRequest, "Atributo não preenchido.")

	rec = a.do(http.MethodPost, "/users", "", map[string]string{"login": "x", "unexpected": "y"})
	assertError(t, rec, http.StatusBadRequest, "invalid request body")
}

func TestLogoutRevokesSessionAndStreamToken(t *testing.T) {
	a := newAPI(t)
	alice := a.signup("alice", "Alice")
	require.NotEmpty(t, alice.StreamToken)

	rec := a.do(http.MethodDelete, "/api/v1/session", alice.Session, CloseSessionRequest{StreamToken: alice.StreamToken})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[BoolResponse](t, rec).Result)

	rec = a.do(http.MethodGet, "/api/v1/idols", alice.Session, nil)
	assertError(t, rec, http.StatusUnauthorized, "Usuário não cadastrado.")

	_, err := auth.ValidateToken(context.Background(), alice.StreamToken, a.authCfg.JWTSecretKey, a.blacklist)
	assert.True(t, errors.Is(err, auth.ErrTokenRevoked), "got %v", err)
}

func TestMessagesAndRelationshipsOverHTTP(t *testing.T) {
	a := newAPI(t)
	carol := a.signup("carol", "Carol")
	dora := a.signup("dora", "Dora")

	rec := a.do(http.MethodPost, "/api/v1/messages/next", dora.Session, nil)
	assertError(t, rec, http.StatusNotFound, "Não há recados.")

	rec = a.do(http.MethodPost, "/api/v1/messages", carol.Session, SendMessageRequest{To: "dora", Body: "oi"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = a.do(http.MethodPost, "/api/v1/messages/next", dora.Session, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	msg := decode[models.Message](t, rec)
	assert.Equal(t, "carol", msg.From)
	assert.Equal(t, "oi", msg.Body)

	require.Equal(t, http.StatusNoContent, a.do(http.MethodPost, "/api/v1/idols/dora", carol.Session, nil).Code)
	rec = a.do(http.MethodGet, "/api/v1/idols/dora", carol.Session, nil)
	assert.True(t, decode[BoolResponse](t, rec).Result)
	rec = a.do(http.MethodGet, "/users/dora/fans", "", nil)
	assert.Equal(t, []string{"carol"}, decode[ListResponse](t, rec).Items)
	rec = a.do(http.MethodGet, "/users/carol/idols/dora", "", nil)
	assert.True(t, decode[BoolResponse](t, rec).Result)

	require.Equal(t, http.StatusNoContent, a.do(http.MethodPost, "/api/v1/enemies/carol", dora.Session, nil).Code)
	rec = a.do(http.MethodPost, "/api/v1/friends/dora", carol.Session, nil)
	assertError(t, rec, http.StatusForbidden, "Função inválida: Dora é seu inimigo.")

	rec = a.do(http.MethodGet, "/api/v1/enemies", dora.Session, nil)
	assert.Equal(t, []string{"carol"}, decode[ListResponse](t, rec).Items)
	require.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/api/v1/enemies/carol", dora.Session, nil).Code)
	rec = a.do(http.MethodDelete, "/api/v1/enemies/carol", dora.Session, nil)
	assertError(t, rec, http.StatusNotFound, "Usuário não é seu inimigo")

	rec = a.do(http.MethodGet, "/api/v1/crushes", dora.Session, nil)
	assert.Equal(t, []string{}, decode[ListResponse](t, rec).Items)
}

func TestCommunitiesOverHTTP(t *testing.T) {
	a := newAPI(t)
	alice := a.signup("alice", "Alice")
	bob := a.signup("bob", "Bob")

	rec := a.do(http.MethodPost, "/api/v1/communities", alice.Session, CreateCommunityRequest{Name: "cats", Description: "about cats"})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, http.StatusNoContent, a.do(http.MethodPost, "/api/v1/communities/cats/members", bob.Session, nil).Code)

	rec = a.do(http.MethodPost, "/api/v1/communities/cats/messages", alice.Session, BroadcastRequest{Body: "meow"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = a.do(http.MethodPost, "/api/v1/community-messages/next", bob.Session, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "meow", decode[models.Message](t, rec).Body)

	rec = a.do(http.MethodPut, "/api/v1/communities/cats", bob.Session, EditCommunityRequest{Description: "dogs"})
	assertError(t, rec, http.StatusForbidden, "Apenas o gerente pode editar a comunidade.")

	rec = a.do(http.MethodPut, "/api/v1/communities/cats/manager", alice.Session, TransferCommunityRequest{Login: "bob"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(http.MethodGet, "/communities/cats", "", nil)
	view := decode[CommunityView](t, rec)
	assert.Equal(t, "bob", view.Manager)
	assert.Equal(t, []string{"alice", "bob"}, view.Members)

	rec = a.do(http.MethodGet, "/communities?q=CAT", "", nil)
	assert.Equal(t, []string{"cats"}, decode[ListResponse](t, rec).Items)
	rec = a.do(http.MethodGet, "/users/alice/communities", "", nil)
	assert.Equal(t, []string{"cats"}, decode[ListResponse](t, rec).Items)

	require.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/api/v1/communities/cats/members", alice.Session, nil).Code)
	require.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/api/v1/communities/cats", bob.Session, nil).Code)
	rec = a.do(http.MethodGet, "/communities/cats", "", nil)
	assertError(t, rec, http.StatusNotFound, "Comunidade não existe.")
}

func TestAdminLifecycle(t *testing.T) {
	a := newAPI(t)
	a.signup("alice", "Alice")

	rec := a.do(http.MethodPost, "/admin/save", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	require.Equal(t, http.StatusNoContent, a.admin("save").Code)
	require.Equal(t, http.StatusNoContent, a.admin("reset").Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/users/alice/attributes/nome", "", nil).Code)

	// reset deleted the snapshot, so load keeps the empty state
	require.Equal(t, http.StatusNoContent, a.admin("load").Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/users/alice/attributes/nome", "", nil).Code)

	a.signup("bob", "Bob")
	require.Equal(t, http.StatusNoContent, a.admin("save").Code)
	rec = a.do(http.MethodGet, "/users/bob/attributes/nome", "", nil)
	assert.Equal(t, "Bob", decode[ValueResponse](t, rec).Value)
}

func TestUnknownRoute(t *testing.T) {
	a := newAPI(t)
	assertError(t, a.do(http.MethodGet, "/nope", "", nil), http.StatusNotFound, "route not found")
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/v1/idols", "", nil).Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.UserNotFound("x"), http.StatusNotFound},
		{apperrors.NoMessages(apperrors.RelationMessage), http.StatusNotFound},
		{apperrors.SessionNotFound(), http.StatusUnauthorized},
		{apperrors.DuplicateCommunity("c"), http.StatusConflict},
		{apperrors.AlreadyAdded(apperrors.RelationCrush, "x"), http.StatusConflict},
		{apperrors.SelfReference(apperrors.RelationIdol, "x"), http.StatusBadRequest},
		{apperrors.ManagerCannotLeave("x", "c"), http.StatusForbidden},
		{apperrors.PersistenceFailure(errors.New("disk")), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
