package settings

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"briefsky.app/internal/mocks"
	"briefsky.app/pkg/errors"
)

func TestStore_Mode(t *testing.T) {
	store := NewStore(mocks.NewParamStore(t))

	assert.Equal(t, ModeLocal, store.Mode(url.Values{"storage": {"local"}}))
	assert.Equal(t, ModeQuery, store.Mode(url.Values{"storage": {"session"}}))
	assert.Equal(t, ModeQuery, store.Mode(url.Values{}))
}

func TestStore_LoadQuery(t *testing.T) {
	store := NewStore(mocks.NewParamStore(t))

	params, err := store.Load(context.Background(), "abc", url.Values{"provider": {"example"}, "storage": {"query"}})

	require.NoError(t, err)
	assert.Equal(t, Params{"provider": "example"}, params)
}

func TestStore_LoadLocal(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		err      error
		expected Params
		wantErr  bool
	}{
		{
			name:     "Record",
			stored:   `{"provider":"pirateweather","api_key":"secret"}`,
			expected: Params{"provider": "pirateweather", "api_key": "secret"},
		},
		{
			name:     "MissingRecord",
			err:      errors.NewNotFoundError("settings not found"),
			expected: Params{},
		},
		{
			name:     "CorruptRecord",
			stored:   `{"provider":`,
			expected: Params{},
		},
		{
			name:    "StoreFailure",
			err:     errors.NewDatabaseError("connection refused", nil),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paramStore := mocks.NewParamStore(t)
			paramStore.On("Get", mock.Anything, "settings:abc").Return(tt.stored, tt.err)
			store := NewStore(paramStore)

			params, err := store.Load(context.Background(), "abc", url.Values{"storage": {"local"}, "provider": {"ignored"}})

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestStore_SaveLocal(t *testing.T) {
	paramStore := mocks.NewParamStore(t)
	paramStore.On("Put", mock.Anything, "settings:abc", `{"provider":"example","title":"Home"}`).Return(nil)
	store := NewStore(paramStore)

	query, err := store.Save(context.Background(), "abc", ModeLocal, Params{"provider": "example", "title": "Home"})

	require.NoError(t, err)
	assert.Equal(t, "storage=local", query.Encode())
}

func TestStore_SaveLocalWithoutSession(t *testing.T) {
	store := NewStore(mocks.NewParamStore(t))

	_, err := store.Save(context.Background(), "", ModeLocal, Params{"provider": "example"})

	assert.True(t, errors.IsValidationError(err))
}

func TestStore_SaveQuery(t *testing.T) {
	store := NewStore(mocks.NewParamStore(t))

	query, err := store.Save(context.Background(), "abc", ModeQuery, Params{"provider": "example", "units": "metric"})

	require.NoError(t, err)
	assert.Equal(t, "provider=example&units=metric", query.Encode())
}
