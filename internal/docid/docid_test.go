package docid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrJamesThe3rd/estoque/internal/apperr"
	"github.com/MrJamesThe3rd/estoque/internal/docid"
)

func TestParse(t *testing.T) {
	want := primitive.NewObjectID()

	got, err := docid.Parse(want.Hex())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz", "65f1c2a9e4b0a1b2c3d4e5f6aa"} {
		_, err := docid.Parse(in)
		assert.ErrorIs(t, err, apperr.ErrInvalidID, in)
	}
}
