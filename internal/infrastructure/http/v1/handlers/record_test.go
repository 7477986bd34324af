package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assettrack/internal/core/id"
	"assettrack/internal/domain"
	"assettrack/internal/domain/catalogs/contact"
	"assettrack/internal/domain/domaintest"
	"assettrack/internal/infrastructure/http/v1/handlers"
	"assettrack/internal/infrastructure/http/v1/middleware"
)

func newContactRouter(t *testing.T) (*gin.Engine, *domain.RecordService[*contact.Contact]) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := domaintest.NewMemStore[*contact.Contact]("contact")
	svc := domain.NewRecordService(domain.RecordServiceConfig[*contact.Contact]{
		Store:      store,
		TxManager:  domaintest.TxManager{},
		EntityName: "contact",
	})

	h := handlers.NewRecordHandler(handlers.NewBaseHandler(), svc, func() *contact.Contact { return &contact.Contact{} })

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/contacts/:id", h.Get)
	r.PUT("/contacts/:id", h.Update)
	return r, svc
}

func putJSON(t *testing.T, r *gin.Engine, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecordHandler_PartialUpdateKeepsOtherFields(t *testing.T) {
	r, svc := newContactRouter(t)

	c := contact.New("Ada", "Lovelace", "ada@example.com")
	c.PhoneNumber = "+44 20 0000"
	require.NoError(t, svc.Create(context.Background(), c))

	w := putJSON(t, r, "/contacts/"+c.ID.String(), `{"phoneNumber":"+44 20 7946"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got contact.Contact
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "+44 20 7946", got.PhoneNumber)

	// everything absent from the payload survives the update
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "Lovelace", got.LastName)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, c.ID, got.ID)
	assert.True(t, got.Active)
	assert.Equal(t, 2, got.Version)

	stored, err := svc.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.Name)
	assert.Equal(t, "+44 20 7946", stored.PhoneNumber)
}

func TestRecordHandler_UpdateIgnoresPayloadIdentity(t *testing.T) {
	r, svc := newContactRouter(t)

	c := contact.New("Ada", "Lovelace", "ada@example.com")
	require.NoError(t, svc.Create(context.Background(), c))

	// a foreign id and a stale active flag in the body do not win over
	// the path parameter and the stored record
	body := `{"id":"` + id.New().String() + `","active":false,"email":"ada@newmail.example"}`
	w := putJSON(t, r, "/contacts/"+c.ID.String(), body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got contact.Contact
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, c.ID, got.ID)
	assert.True(t, got.Active)
	assert.Equal(t, "ada@newmail.example", got.Email)
}

func TestRecordHandler_UpdateUnknownID(t *testing.T) {
	r, _ := newContactRouter(t)

	w := putJSON(t, r, "/contacts/"+id.New().String(), `{"phoneNumber":"+1"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
