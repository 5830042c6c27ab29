package product_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/estoque/internal/apperr"
	"github.com/MrJamesThe3rd/estoque/internal/catalog"
	"github.com/MrJamesThe3rd/estoque/internal/http/product"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type mocks struct {
	products *catalog.MockProductRepository
	images   *catalog.MockImageRepository
}

func newRouter(t *testing.T) (http.Handler, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		products: catalog.NewMockProductRepository(ctrl),
		images:   catalog.NewMockImageRepository(ctrl),
	}

	h := product.NewHandler(catalog.NewService(m.products, m.images), 1<<20)

	r := chi.NewRouter()
	r.Route("/products", h.Routes)

	return r, m
}

type file struct {
	field, name string
	data        []byte
}

func multipartBody(t *testing.T, fields map[string]string, f *file) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if f != nil {
		fw, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)

		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	return body
}

func TestHandler_Create(t *testing.T) {
	english := map[string]string{
		"name": "Caneca", "description": "Caneca de cerâmica", "category": "Cozinha", "price": "29.90",
	}
	portuguese := map[string]string{
		"nome": "Caneca", "descricao": "Caneca de cerâmica", "categoria": "Cozinha", "preco": "29.90",
	}

	tests := []struct {
		name       string
		fields     map[string]string
		file       *file
		setupMock  func(m mocks)
		wantStatus int
		wantKind   string
	}{
		{
			name:   "Success",
			fields: english,
			file:   &file{field: "image", name: "caneca.png", data: pngBytes},
			setupMock: func(m mocks) {
				m.images.EXPECT().CreateImage(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, img *catalog.Image) error {
						assert.Equal(t, "image/png", img.MimeType)
						img.ID = primitive.NewObjectID()
						return nil
					})
				m.products.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *catalog.Product) error {
						p.ID = primitive.NewObjectID()
						return nil
					})
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:   "PortugueseFieldNames",
			fields: portuguese,
			file:   &file{field: "imagem", name: "caneca.png", data: pngBytes},
			setupMock: func(m mocks) {
				m.images.EXPECT().CreateImage(gomock.Any(), gomock.Any()).Return(nil)
				m.products.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *catalog.Product) error {
						assert.Equal(t, "Caneca", p.Name)
						assert.InDelta(t, 29.9, p.Price, 1e-9)
						return nil
					})
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "MissingImage",
			fields:     english,
			setupMock:  func(mocks) {},
			wantStatus: http.StatusBadRequest,
			wantKind:   "missing_image",
		},
		{
			name: "InvalidPrice",
			fields: map[string]string{
				"name": "Caneca", "description": "d", "category": "c", "price": "abc",
			},
			file:       &file{field: "image", name: "caneca.png", data: pngBytes},
			setupMock:  func(mocks) {},
			wantStatus: http.StatusBadRequest,
			wantKind:   "validation",
		},
		{
			name:   "StoreFailure",
			fields: english,
			file:   &file{field: "image", name: "caneca.png", data: pngBytes},
			setupMock: func(m mocks) {
				m.images.EXPECT().CreateImage(gomock.Any(), gomock.Any()).
					Return(apperr.Store("inserting image", assert.AnError))
			},
			wantStatus: http.StatusInternalServerError,
			wantKind:   "store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newRouter(t)
			tt.setupMock(m)

			body, contentType := multipartBody(t, tt.fields, tt.file)
			req := httptest.NewRequest(http.MethodPost, "/products/", body)
			req.Header.Set("Content-Type", contentType)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			got := decode(t, rec)
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, got["error"])
				return
			}

			assert.Equal(t, "product created", got["message"])

			p, ok := got["product"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "Caneca", p["name"])
			assert.NotEmpty(t, p["imageId"])
		})
	}
}

func TestHandler_Create_NotMultipart(t *testing.T) {
	router, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/products/", strings.NewReader(`{"name":"Caneca"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_List(t *testing.T) {
	router, m := newRouter(t)

	imageID := primitive.NewObjectID()
	m.products.EXPECT().ListProducts(gomock.Any()).Return([]*catalog.Product{
		{ID: primitive.NewObjectID(), Name: "Caneca", Price: 29.9, ImageID: &imageID},
		{ID: primitive.NewObjectID(), Name: "Prato", Price: 15},
	}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 2)

	assert.Equal(t, "/api/v1/images/"+imageID.Hex(), got[0]["imageUrl"])
	assert.NotContains(t, got[1], "imageId")
}

func TestHandler_Get(t *testing.T) {
	id := primitive.NewObjectID()

	tests := []struct {
		name       string
		id         string
		setupMock  func(m mocks)
		wantStatus int
	}{
		{
			name: "Found",
			id:   id.Hex(),
			setupMock: func(m mocks) {
				m.products.EXPECT().GetProduct(gomock.Any(), id).Return(&catalog.Product{ID: id, Name: "Caneca"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "NotFound",
			id:   id.Hex(),
			setupMock: func(m mocks) {
				m.products.EXPECT().GetProduct(gomock.Any(), id).Return(nil, apperr.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "InvalidID",
			id:         "abc",
			setupMock:  func(mocks) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newRouter(t)
			tt.setupMock(m)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/"+tt.id, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_Update(t *testing.T) {
	router, m := newRouter(t)

	id := primitive.NewObjectID()
	imageID := primitive.NewObjectID()

	m.products.EXPECT().GetProduct(gomock.Any(), id).
		Return(&catalog.Product{ID: id, Name: "Caneca", ImageID: &imageID}, nil)
	m.products.EXPECT().UpdateProduct(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *catalog.Product) error {
			assert.Equal(t, "Caneca azul", p.Name)
			return nil
		})
	m.images.EXPECT().ReplaceImage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, img *catalog.Image) error {
			assert.Equal(t, imageID, img.ID)
			return nil
		})

	body, contentType := multipartBody(t,
		map[string]string{"name": "Caneca azul", "description": "d", "category": "c", "price": "31"},
		&file{field: "image", name: "azul.png", data: pngBytes},
	)
	req := httptest.NewRequest(http.MethodPut, "/products/"+id.Hex(), body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "product updated", decode(t, rec)["message"])
}

func TestHandler_Delete(t *testing.T) {
	router, m := newRouter(t)

	id := primitive.NewObjectID()

	gomock.InOrder(
		m.products.EXPECT().GetProduct(gomock.Any(), id).Return(&catalog.Product{ID: id}, nil),
		m.products.EXPECT().DeleteProduct(gomock.Any(), id).Return(nil),
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/products/"+id.Hex(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "product deleted", decode(t, rec)["message"])
}
