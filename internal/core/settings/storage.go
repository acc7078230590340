package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"briefsky.app/internal/ports"
	"briefsky.app/pkg/errors"
)

// KeyStorage selects where the parameter bag lives
const KeyStorage = "storage"

// Mode is the persistence mode of the parameter bag
type Mode string

const (
	// ModeQuery keeps the bag in the query string
	ModeQuery Mode = "query"
	// ModeLocal keeps the bag in a per-session record
	ModeLocal Mode = "local"
)

// ParseMode maps anything but "local" to ModeQuery
func ParseMode(s string) Mode {
	if Mode(s) == ModeLocal {
		return ModeLocal
	}
	return ModeQuery
}

// Store applies the persistence policy on top of a ParamStore
type Store struct {
	params ports.ParamStore
}

// NewStore creates a settings store
func NewStore(params ports.ParamStore) *Store {
	return &Store{params: params}
}

// Mode reads the storage indicator from the query
func (s *Store) Mode(query url.Values) Mode {
	return ParseMode(query.Get(KeyStorage))
}

func recordKey(session string) string {
	return fmt.Sprintf("settings:%s", session)
}

// Load returns the active parameter bag. In local mode a missing or
// unreadable record yields an empty bag.
func (s *Store) Load(ctx context.Context, session string, query url.Values) (Params, error) {
	if s.Mode(query) != ModeLocal {
		params := ParamsFromValues(query)
		delete(params, KeyStorage)
		return params, nil
	}

	if session == "" {
		return Params{}, nil
	}

	raw, err := s.params.Get(ctx, recordKey(session))
	if err != nil {
		if errors.IsNotFoundError(err) {
			return Params{}, nil
		}
		return nil, fmt.Errorf("load settings for session %s: %w", session, err)
	}

	params := Params{}
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return Params{}, nil
	}
	delete(params, KeyStorage)
	return params, nil
}

// Save persists params and returns the query to redirect to.
// Local mode always leaves storage=local in the returned query.
func (s *Store) Save(ctx context.Context, session string, mode Mode, params Params) (url.Values, error) {
	if mode != ModeLocal {
		values := params.Values()
		values.Del(KeyStorage)
		return values, nil
	}

	if session == "" {
		return nil, errors.NewValidationError("session is required for local storage")
	}

	data, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	if err := s.params.Put(ctx, recordKey(session), string(data)); err != nil {
		return nil, fmt.Errorf("save settings for session %s: %w", session, err)
	}

	return url.Values{KeyStorage: []string{string(ModeLocal)}}, nil
}
