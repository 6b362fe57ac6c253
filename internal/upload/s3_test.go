package upload

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, in)
	if out := args.Get(0); out != nil {
		return out.(*s3.DeleteObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, in)
	if out := args.Get(0); out != nil {
		return out.(*s3.HeadObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func keyIs(key string) func(in any) bool {
	return func(in any) bool {
		switch v := in.(type) {
		case *s3.PutObjectInput:
			return aws.ToString(v.Key) == key
		case *s3.DeleteObjectInput:
			return aws.ToString(v.Key) == key
		case *s3.HeadObjectInput:
			return aws.ToString(v.Key) == key
		}
		return false
	}
}

func TestS3StoreUnique(t *testing.T) {
	client := new(mockS3)
	store := NewS3Store(client, "seeek", "uploads")
	h := NewHandler(store, NewExtensionSet("png"), nil).WithClock(func() time.Time { return fixedTime })

	key := "uploads/pictures/Ada_Lovelace_20240309_140507.png"
	client.On("HeadObject", mock.Anything, mock.MatchedBy(keyIs(key))).Return(nil, &types.NotFound{})
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Key) == key &&
			aws.ToString(in.Bucket) == "seeek" &&
			aws.ToString(in.ContentType) == "image/png" &&
			aws.ToInt64(in.ContentLength) == 9
	})).Return(&s3.PutObjectOutput{}, nil)

	name, err := h.StoreUnique(context.Background(), &File{Filename: "me.png", Size: 9, Content: strings.NewReader("png-bytes")}, "Ada", "Lovelace", Pictures)
	require.NoError(t, err)
	assert.Equal(t, "Ada_Lovelace_20240309_140507.png", name)
	assert.Equal(t, "https://seeek.s3.amazonaws.com/"+key, h.URL(Pictures, name))
	client.AssertExpectations(t)
}

func TestS3StoreReplacesExistingObject(t *testing.T) {
	client := new(mockS3)
	store := NewS3Store(client, "seeek", "")

	client.On("HeadObject", mock.Anything, mock.MatchedBy(keyIs("files/a.pdf"))).Return(&s3.HeadObjectOutput{}, nil)
	client.On("DeleteObject", mock.Anything, mock.MatchedBy(keyIs("files/a.pdf"))).Return(&s3.DeleteObjectOutput{}, nil)

	ok, err := store.Exists(context.Background(), "files/a.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, store.Delete(context.Background(), "files/a.pdf"))
	client.AssertExpectations(t)
}

func TestS3StoreErrors(t *testing.T) {
	client := new(mockS3)
	store := NewS3Store(client, "seeek", "")

	client.On("HeadObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	_, err := store.Exists(context.Background(), "files/a.pdf")
	assert.ErrorContains(t, err, "access denied")

	err = store.Save(context.Background(), "files/a.pdf", strings.NewReader("x"), 1)
	assert.ErrorContains(t, err, "throttled")
}
