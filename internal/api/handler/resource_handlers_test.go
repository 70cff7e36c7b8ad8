package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubUsersAPI struct {
	ports.UsersAPI
	listFn   func(ctx context.Context, q domain.UserListQuery) (domain.Page[domain.UserListItem], error)
	deleteFn func(ctx context.Context, id int64) (domain.Confirmation, error)
	created  *domain.UserPayload
}

func (s *stubUsersAPI) Create(_ context.Context, p domain.UserPayload) (domain.Confirmation, error) {
	s.created = &p
	return domain.Confirmation{Message: "Creado"}, nil
}

func (s *stubUsersAPI) List(ctx context.Context, q domain.UserListQuery) (domain.Page[domain.UserListItem], error) {
	return s.listFn(ctx, q)
}

func (s *stubUsersAPI) Delete(ctx context.Context, id int64) (domain.Confirmation, error) {
	return s.deleteFn(ctx, id)
}

type stubKycAPI struct {
	ports.KycAPI
	submitted *domain.KycSubmission
}

func (s *stubKycAPI) Submit(_ context.Context, p domain.KycSubmission) (domain.Confirmation, error) {
	s.submitted = &p
	return domain.Confirmation{Message: "Recibido"}, nil
}

type stubUploader struct {
	files  []ports.UploadInput
	userID int64
}

func (s *stubUploader) UploadEncrypted(_ context.Context, files []ports.UploadInput, userID int64) ([]domain.EncryptedFile, error) {
	s.files, s.userID = files, userID
	out := make([]domain.EncryptedFile, len(files))
	for i := range files {
		out[i] = domain.EncryptedFile{CID: "Qm" + files[i].Name, IV: "00"}
	}
	return out, nil
}

type stubCatalogs struct {
	ports.CatalogsAPI
	calls int
}

func (s *stubCatalogs) CantonesByProvincia(context.Context, int64) ([]domain.Option, error) {
	s.calls++
	return []domain.Option{{ID: 1, Label: "Central"}}, nil
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func TestUsersHandler_List(t *testing.T) {
	e := newEcho()
	stub := &stubUsersAPI{
		listFn: func(_ context.Context, q domain.UserListQuery) (domain.Page[domain.UserListItem], error) {
			if q.Q != "ana" || q.Limit != 5 || q.Offset != 10 {
				t.Fatalf("unexpected query %+v", q)
			}
			return domain.Page[domain.UserListItem]{Items: []domain.UserListItem{{ID: 1, Name: "Ana"}}, Limit: 5, Offset: 10}, nil
		},
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/users?q=ana&limit=5&offset=10", nil), rec)
	if err := NewUsersHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var page domain.Page[domain.UserListItem]
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Name != "Ana" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestUsersHandler_CreateDropsOrphanLocation(t *testing.T) {
	e := newEcho()
	body := `{"name":"Ana","id_pais":1,"id_canton":3,"id_distrito":4}`
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	stub := &stubUsersAPI{}
	if err := NewUsersHandler(stub).Create(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if stub.created == nil || stub.created.IDPais == nil || *stub.created.IDPais != 1 {
		t.Fatalf("country must be forwarded, got %+v", stub.created)
	}
	if stub.created.IDCanton != nil || stub.created.IDDistrito != nil {
		t.Fatalf("levels under a missing province must not be sent")
	}
}

func TestUsersHandler_ListBadPagination(t *testing.T) {
	e := newEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/users?limit=ten", nil), httptest.NewRecorder())

	var he *echo.HTTPError
	if err := NewUsersHandler(&stubUsersAPI{}).List(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUsersHandler_Delete(t *testing.T) {
	e := newEcho()
	stub := &stubUsersAPI{
		deleteFn: func(_ context.Context, id int64) (domain.Confirmation, error) {
			if id != 4 {
				t.Fatalf("unexpected id %d", id)
			}
			return domain.Confirmation{Message: "Eliminado"}, nil
		},
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodDelete, "/users", `{"id":4}`), rec)
	if err := NewUsersHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp confirmationResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if rec.Code != http.StatusOK || resp.Message != "Eliminado" {
		t.Fatalf("unexpected response %d %+v", rec.Code, resp)
	}
}

func TestUsersHandler_GetRejectsBadID(t *testing.T) {
	e := newEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/users/abc", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("abc")

	var he *echo.HTTPError
	if err := NewUsersHandler(&stubUsersAPI{}).Get(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// KYC
// ---------------------------------------------------------------------------

func TestKycHandler_SubmitUploadsPictures(t *testing.T) {
	e := newEcho()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("id_idtype", "2")
	_ = mw.WriteField("identity", "1-1111-1111")
	fw, _ := mw.CreateFormFile("pictures", "front.jpg")
	_, _ = fw.Write([]byte("jpeg bytes"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/users/7/kyc", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")

	kyc := &stubKycAPI{}
	up := &stubUploader{}
	if err := NewKycHandler(kyc, up).Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if up.userID != 7 || len(up.files) != 1 || string(up.files[0].Data) != "jpeg bytes" {
		t.Fatalf("unexpected upload %+v", up)
	}

	sub := kyc.submitted
	if sub == nil || sub.IDUser != 7 || sub.IDIdType != 2 || sub.Identity != "1-1111-1111" {
		t.Fatalf("unexpected submission %+v", sub)
	}
	var pics []domain.EncryptedFile
	if err := json.Unmarshal(sub.Pictures, &pics); err != nil || len(pics) != 1 || pics[0].CID != "Qmfront.jpg" {
		t.Fatalf("unexpected pictures %s", sub.Pictures)
	}
}

// ---------------------------------------------------------------------------
// Catalogs
// ---------------------------------------------------------------------------

func TestCatalogsHandler_CascadeWithoutParent(t *testing.T) {
	e := newEcho()
	stub := &stubCatalogs{}
	h := NewCatalogsHandler(stub, nil, nil)

	rec := httptest.NewRecorder()
	if err := h.Cantones(e.NewContext(httptest.NewRequest(http.MethodGet, "/catalogs/cantones", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.calls != 0 || rec.Body.String() != "[]\n" {
		t.Fatalf("a level without parent must be empty, got %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	if err := h.Cantones(e.NewContext(httptest.NewRequest(http.MethodGet, "/catalogs/cantones?provincia=1", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.calls != 1 {
		t.Fatalf("expected a backend call")
	}
}

func TestCatalogsHandler_UnknownType(t *testing.T) {
	e := newEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/admin/catalogs/planeta", nil), httptest.NewRecorder())
	c.SetParamNames("type")
	c.SetParamValues("planeta")

	if err := NewCatalogsHandler(nil, nil, nil).ListCatalog(c); !errors.Is(err, domain.ErrInvalidCatalogType) {
		t.Fatalf("expected ErrInvalidCatalogType, got %v", err)
	}
}
