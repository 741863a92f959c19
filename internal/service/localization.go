package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/storage"
)

// LanguagePreferenceKey is the only key the localization store persists.
const LanguagePreferenceKey = "language"

// LocalizationOption configures a LocalizationStore.
type LocalizationOption func(*LocalizationStore)

// WithStorageErrorRecorder counts storage failures.
func WithStorageErrorRecorder(r StorageErrorRecorder) LocalizationOption {
	return func(s *LocalizationStore) { s.recorder = r }
}

// WithStorageErrorHook is called once for every absorbed storage failure.
func WithStorageErrorHook(fn func(error)) LocalizationOption {
	return func(s *LocalizationStore) { s.onStorageError = fn }
}

// LocalizationStore owns the active language and its persisted preference.
// Storage failures never reach the caller: they are logged and the store
// falls back to (or keeps) an in-memory value.
type LocalizationStore struct {
	store          PreferenceStore
	logger         *zap.Logger
	recorder       StorageErrorRecorder
	onStorageError func(error)

	mu            sync.RWMutex
	state         entities.LocalizationState
	hasPreference bool // a language was restored from storage or chosen
}

// NewLocalizationStore creates a store holding the default language until Initialize is called.
func NewLocalizationStore(store PreferenceStore, logger *zap.Logger, opts ...LocalizationOption) *LocalizationStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &LocalizationStore{
		store:    store,
		logger:   logger,
		recorder: nopRecorder{},
		state:    entities.DefaultLocalizationState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize restores the persisted language. An absent, unreadable or
// unsupported value yields the default language.
func (s *LocalizationStore) Initialize(ctx context.Context) entities.LocalizationState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = entities.DefaultLocalizationState()
	s.hasPreference = false

	value, err := s.store.Get(ctx, LanguagePreferenceKey)
	if err != nil {
		if !errors.Is(err, entities.ErrPreferenceNotFound) {
			s.reportStorageError("get", err)
		}
		return s.state
	}

	code, err := entities.ParseLanguageCode(value)
	if err != nil {
		s.logger.Warn("ignoring persisted language",
			zap.String("value", value),
			zap.Error(err),
		)
		return s.state
	}

	s.state = entities.NewLocalizationState(code)
	s.hasPreference = true
	return s.state
}

// SetLanguage switches the active language and persists it. A failed write
// still switches the in-memory language. The only error is ErrUnsupportedLanguage.
func (s *LocalizationStore) SetLanguage(ctx context.Context, code entities.LanguageCode) (entities.LocalizationState, error) {
	if !code.Valid() {
		return s.State(), fmt.Errorf("%w: %q", entities.ErrUnsupportedLanguage, code)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.hasPreference = true
	if s.state.ActiveLanguage == code {
		return s.state, nil
	}

	next := entities.NewLocalizationState(code)
	if err := s.store.Set(ctx, LanguagePreferenceKey, code.String()); err != nil {
		s.reportStorageError("set", err)
	}

	s.state = next
	return s.state, nil
}

// State returns the active localization state.
func (s *LocalizationStore) State() entities.LocalizationState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// HasPreference reports whether the language came from storage or SetLanguage
// rather than the default.
func (s *LocalizationStore) HasPreference() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasPreference
}

// Layout returns the layout directives for the active language.
func (s *LocalizationStore) Layout() entities.LayoutDirectives {
	return entities.DeriveLayoutDirectives(s.State())
}

func (s *LocalizationStore) reportStorageError(op string, err error) {
	var storageErr *entities.StorageError
	if !errors.As(err, &storageErr) {
		storageErr = &entities.StorageError{Op: op, Key: LanguagePreferenceKey, Err: err}
	}

	s.logger.Warn("language preference storage failed",
		zap.String("op", op),
		zap.Error(storageErr),
	)
	s.recorder.PreferenceStorageError(op)
	if s.onStorageError != nil {
		s.onStorageError(storageErr)
	}
}

// LocalizationRegistry hands out one initialized LocalizationStore per chat,
// each persisting into its own scope of a shared preference store.
type LocalizationRegistry struct {
	store  PreferenceStore
	logger *zap.Logger
	opts   []LocalizationOption

	mu     sync.Mutex
	stores map[int64]*LocalizationStore
}

// NewLocalizationRegistry creates a registry over a shared preference store.
func NewLocalizationRegistry(store PreferenceStore, logger *zap.Logger, opts ...LocalizationOption) *LocalizationRegistry {
	return &LocalizationRegistry{
		store:  store,
		logger: logger,
		opts:   opts,
		stores: make(map[int64]*LocalizationStore),
	}
}

// For returns the chat's store, initializing it from storage on first use.
func (r *LocalizationRegistry) For(ctx context.Context, chatID int64) *LocalizationStore {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[chatID]; ok {
		return s
	}

	logger := r.logger
	if logger != nil {
		logger = logger.With(zap.Int64("chat_id", chatID))
	}

	scope := "chat:" + strconv.FormatInt(chatID, 10)
	s := NewLocalizationStore(storage.Scoped(r.store, scope), logger, r.opts...)
	s.Initialize(ctx)

	r.stores[chatID] = s
	return s
}
