package invoice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/estoque/internal/apperr"
	"github.com/MrJamesThe3rd/estoque/internal/invoice"
)

func newService(t *testing.T) (*invoice.Service, *invoice.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := invoice.NewMockRepository(ctrl)

	return invoice.NewService(repo), repo
}

func validParams() invoice.CreateParams {
	return invoice.CreateParams{
		Number:        "NF-000001",
		ClientName:    "Maria Silva",
		ClientEmail:   "maria@example.com",
		ClientPhone:   "+55 11 99999-0000",
		ClientTaxID:   "123.456.789-00",
		ClientAddress: "Rua A, 100",
		Items: []invoice.ItemParams{
			{Description: "Caneca", Quantity: "2", UnitPrice: "29.90", Total: "59.80"},
			{Description: "Prato", Quantity: "1", UnitPrice: "15"},
		},
		Subtotal:  "74.80",
		Tax:       "0",
		Total:     "74.80",
		IssueDate: "2024-05-01",
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    func() invoice.CreateParams
		setupMock func(m *invoice.MockRepository)
		wantErr   error
		check     func(t *testing.T, inv *invoice.Invoice)
	}

	tests := []testCase{
		{
			name:   "DefaultsStatusToIssued",
			params: validParams,
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().NumberExists(gomock.Any(), "NF-000001").Return(false, nil)
				m.EXPECT().
					CreateInvoice(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
						inv.ID = primitive.NewObjectID()
						inv.CreatedAt = time.Now()
						inv.UpdatedAt = inv.CreatedAt
						return nil
					})
			},
			check: func(t *testing.T, inv *invoice.Invoice) {
				assert.Equal(t, invoice.StatusIssued, inv.Status)
				assert.False(t, inv.ID.IsZero())
				assert.InDelta(t, 74.8, inv.Total, 1e-9)
				require.Len(t, inv.Items, 2)
				assert.Equal(t, 2, inv.Items[0].Quantity)
				assert.InDelta(t, 15.0, inv.Items[1].Total, 1e-9)
			},
		},
		{
			name: "ExplicitStatus",
			params: func() invoice.CreateParams {
				p := validParams()
				p.Status = "pending"
				return p
			},
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().NumberExists(gomock.Any(), gomock.Any()).Return(false, nil)
				m.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, inv *invoice.Invoice) {
				assert.Equal(t, invoice.StatusPending, inv.Status)
			},
		},
		{
			name: "UnknownStatus",
			params: func() invoice.CreateParams {
				p := validParams()
				p.Status = "archived"
				return p
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "MissingClientEmail",
			params: func() invoice.CreateParams {
				p := validParams()
				p.ClientEmail = ""
				return p
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "NoItems",
			params: func() invoice.CreateParams {
				p := validParams()
				p.Items = nil
				return p
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "ZeroQuantity",
			params: func() invoice.CreateParams {
				p := validParams()
				p.Items[0].Quantity = "0"
				return p
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "FractionalQuantity",
			params: func() invoice.CreateParams {
				p := validParams()
				p.Items[0].Quantity = "1.5"
				return p
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "NonNumericTotal",
			params: func() invoice.CreateParams {
				p := validParams()
				p.Total = "lots"
				return p
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "InfiniteSubtotal",
			params: func() invoice.CreateParams {
				p := validParams()
				p.Subtotal = "1e400"
				return p
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "HugeQuantity",
			params: func() invoice.CreateParams {
				p := validParams()
				p.Items[0].Quantity = "9223372036854775808"
				return p
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name:   "DuplicatePreCheck",
			params: validParams,
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().NumberExists(gomock.Any(), "NF-000001").Return(true, nil)
			},
			wantErr: apperr.ErrDuplicateInvoiceNumber,
		},
		{
			name:   "DuplicateOnInsert",
			params: validParams,
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().NumberExists(gomock.Any(), "NF-000001").Return(false, nil)
				m.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(apperr.ErrDuplicateInvoiceNumber)
			},
			wantErr: apperr.ErrDuplicateInvoiceNumber,
		},
		{
			name:   "StoreError",
			params: validParams,
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().NumberExists(gomock.Any(), gomock.Any()).Return(false, apperr.Store("finding invoice", errors.New("timeout")))
			},
			wantErr: apperr.ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := svc.Create(context.Background(), tt.params())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestService_Create_RoundTrip(t *testing.T) {
	svc, repo := newService(t)

	var stored *invoice.Invoice

	repo.EXPECT().NumberExists(gomock.Any(), gomock.Any()).Return(false, nil)
	repo.EXPECT().
		CreateInvoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
			inv.ID = primitive.NewObjectID()
			stored = inv
			return nil
		})

	created, err := svc.Create(context.Background(), validParams())
	require.NoError(t, err)

	repo.EXPECT().GetInvoice(gomock.Any(), created.ID).Return(stored, nil)

	got, err := svc.Get(context.Background(), created.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, created, got)
	assert.Equal(t, "Maria Silva", got.ClientName)
	assert.Equal(t, "123.456.789-00", got.ClientTaxID)
	assert.Equal(t, "2024-05-01", got.IssueDate)
	assert.Equal(t, invoice.StatusIssued, got.Status)
}

func TestService_Get(t *testing.T) {
	svc, repo := newService(t)

	_, err := svc.Get(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, apperr.ErrInvalidID)

	id := primitive.NewObjectID()
	repo.EXPECT().GetInvoice(gomock.Any(), id).Return(nil, apperr.ErrNotFound)

	_, err = svc.Get(context.Background(), id.Hex())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestService_List(t *testing.T) {
	svc, repo := newService(t)

	status := invoice.StatusCancelled
	filter := invoice.ListFilter{Status: &status}

	repo.EXPECT().ListInvoices(gomock.Any(), filter).Return([]*invoice.Invoice{{Number: "NF-000002"}}, nil)

	got, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	bad := invoice.Status("archived")
	_, err = svc.List(context.Background(), invoice.ListFilter{Status: &bad})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestService_Update(t *testing.T) {
	id := primitive.NewObjectID()

	type testCase struct {
		name      string
		id        string
		patch     invoice.Patch
		setupMock func(m *invoice.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:  "ParsesNumbers",
			id:    id.Hex(),
			patch: invoice.Patch{Subtotal: ptr("100.5"), Total: ptr("110"), ClientPhone: ptr("")},
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().
					ApplyChanges(gomock.Any(), id, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ primitive.ObjectID, c invoice.Changes) (*invoice.Invoice, error) {
						require.NotNil(t, c.Subtotal)
						assert.InDelta(t, 100.5, *c.Subtotal, 1e-9)
						require.NotNil(t, c.Total)
						assert.InDelta(t, 110.0, *c.Total, 1e-9)
						assert.Nil(t, c.Tax)
						require.NotNil(t, c.ClientPhone)
						assert.Empty(t, *c.ClientPhone)
						assert.Nil(t, c.ClientName)

						return &invoice.Invoice{ID: id, Subtotal: *c.Subtotal, Total: *c.Total}, nil
					})
			},
		},
		{
			name:    "InvalidID",
			id:      "zzz",
			wantErr: apperr.ErrInvalidID,
		},
		{
			name:    "BadNumber",
			id:      id.Hex(),
			patch:   invoice.Patch{Tax: ptr("x")},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "BlankRequiredField",
			id:      id.Hex(),
			patch:   invoice.Patch{ClientName: ptr("  ")},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "BadStatus",
			id:      id.Hex(),
			patch:   invoice.Patch{Status: ptr("archived")},
			wantErr: apperr.ErrValidation,
		},
		{
			name:  "NotFound",
			id:    id.Hex(),
			patch: invoice.Patch{ClientName: ptr("Ana")},
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().ApplyChanges(gomock.Any(), id, gomock.Any()).Return(nil, apperr.ErrNotFound)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:  "DuplicateNumber",
			id:    id.Hex(),
			patch: invoice.Patch{Number: ptr(" NF-000009 ")},
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().
					ApplyChanges(gomock.Any(), id, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ primitive.ObjectID, c invoice.Changes) (*invoice.Invoice, error) {
						assert.Equal(t, "NF-000009", *c.Number)
						return nil, apperr.ErrDuplicateInvoiceNumber
					})
			},
			wantErr: apperr.ErrDuplicateInvoiceNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := svc.Update(context.Background(), tt.id, tt.patch)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, id, got.ID)
		})
	}
}

func TestService_UpdateStatus(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("Success", func(t *testing.T) {
		svc, repo := newService(t)
		repo.EXPECT().UpdateStatus(gomock.Any(), id, invoice.StatusCancelled).Return(nil)

		got, err := svc.UpdateStatus(context.Background(), id.Hex(), "cancelled")
		require.NoError(t, err)
		assert.Equal(t, invoice.StatusCancelled, got)
	})

	t.Run("UnknownStatusLeavesStoreUntouched", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.UpdateStatus(context.Background(), id.Hex(), "archived")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, repo := newService(t)
		repo.EXPECT().UpdateStatus(gomock.Any(), id, invoice.StatusPending).Return(apperr.ErrNotFound)

		_, err := svc.UpdateStatus(context.Background(), id.Hex(), "pending")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	svc, repo := newService(t)
	id := primitive.NewObjectID()

	repo.EXPECT().DeleteInvoice(gomock.Any(), id).Return(apperr.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), id.Hex()), apperr.ErrNotFound)

	repo.EXPECT().DeleteInvoice(gomock.Any(), id).Return(nil)
	assert.NoError(t, svc.Delete(context.Background(), id.Hex()))
}

func TestService_Stats(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		svc, repo := newService(t)
		repo.EXPECT().Stats(gomock.Any()).Return(nil, nil)

		got, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, &invoice.Stats{}, got)
	})

	t.Run("PassThrough", func(t *testing.T) {
		svc, repo := newService(t)
		want := &invoice.Stats{Count: 3, TotalValue: 250.5, Issued: 1, Cancelled: 1, Pending: 1}
		repo.EXPECT().Stats(gomock.Any()).Return(want, nil)

		got, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestService_NextNumber(t *testing.T) {
	tests := []struct {
		name   string
		latest *invoice.Invoice
		err    error
		want   string
		wantN  int
	}{
		{name: "NoInvoices", err: apperr.ErrNotFound, want: "NF-000001", wantN: 1},
		{name: "Increments", latest: &invoice.Invoice{Number: "NF-000005"}, want: "NF-000006", wantN: 6},
		{name: "MalformedFallsBack", latest: &invoice.Invoice{Number: "INVALID"}, want: "NF-000001", wantN: 1},
		{name: "NonNumericFragment", latest: &invoice.Invoice{Number: "NF-ABC"}, want: "NF-000001", wantN: 1},
		{name: "TrailingLettersFallBack", latest: &invoice.Invoice{Number: "NF-000005A"}, want: "NF-000001", wantN: 1},
		{name: "BeyondSixDigits", latest: &invoice.Invoice{Number: "NF-999999"}, want: "NF-1000000", wantN: 1000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			repo.EXPECT().LatestInvoice(gomock.Any()).Return(tt.latest, tt.err)

			got, err := svc.NextNumber(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.InvoiceNumber)
			assert.Equal(t, tt.wantN, got.Number)
		})
	}

	t.Run("StoreError", func(t *testing.T) {
		svc, repo := newService(t)
		repo.EXPECT().LatestInvoice(gomock.Any()).Return(nil, apperr.Store("finding latest invoice", errors.New("down")))

		_, err := svc.NextNumber(context.Background())
		assert.ErrorIs(t, err, apperr.ErrStore)
	})
}

func ptr[T any](v T) *T { return &v }
