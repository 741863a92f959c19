package service

import (
	"context"
	"errors"
	"testing"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/storage"
)

var errDiskFull = errors.New("disk full")

// failingStore fails every read and/or write.
type failingStore struct {
	storage.PreferenceStore
	failGet bool
	failSet bool
	sets    int
}

func (f *failingStore) Get(ctx context.Context, key string) (string, error) {
	if f.failGet {
		return "", errDiskFull
	}
	return f.PreferenceStore.Get(ctx, key)
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	f.sets++
	if f.failSet {
		return errDiskFull
	}
	return f.PreferenceStore.Set(ctx, key, value)
}

type countingRecorder struct {
	nopRecorder
	storageErrors map[string]int
}

func (c *countingRecorder) PreferenceStorageError(op string) {
	if c.storageErrors == nil {
		c.storageErrors = make(map[string]int)
	}
	c.storageErrors[op]++
}

func TestLocalizationInitialize(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		failGet  bool
		expected entities.LocalizationState
	}{
		{name: "absent", expected: entities.LocalizationState{ActiveLanguage: entities.LanguageEnglish}},
		{name: "arabic", stored: "ar", expected: entities.LocalizationState{ActiveLanguage: entities.LanguageArabic, IsRTL: true}},
		{name: "swedish", stored: "sv", expected: entities.LocalizationState{ActiveLanguage: entities.LanguageSwedish}},
		{name: "unknown value", stored: "fr", expected: entities.LocalizationState{ActiveLanguage: entities.LanguageEnglish}},
		{name: "read failure", stored: "ar", failGet: true, expected: entities.LocalizationState{ActiveLanguage: entities.LanguageEnglish}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mem := storage.NewMemoryPreferences()
			if tt.stored != "" {
				_ = mem.Set(ctx, LanguagePreferenceKey, tt.stored)
			}

			s := NewLocalizationStore(&failingStore{PreferenceStore: mem, failGet: tt.failGet}, nil)
			if got := s.Initialize(ctx); got != tt.expected {
				t.Errorf("Initialize() = %+v, want %+v", got, tt.expected)
			}
			if got := s.State(); got != tt.expected {
				t.Errorf("State() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestLocalizationReadFailureIsReported(t *testing.T) {
	rec := &countingRecorder{}
	var hooked error

	s := NewLocalizationStore(
		&failingStore{PreferenceStore: storage.NewMemoryPreferences(), failGet: true},
		nil,
		WithStorageErrorRecorder(rec),
		WithStorageErrorHook(func(err error) { hooked = err }),
	)
	s.Initialize(context.Background())

	if rec.storageErrors["get"] != 1 {
		t.Errorf("get errors = %d, want 1", rec.storageErrors["get"])
	}

	var storageErr *entities.StorageError
	if !errors.As(hooked, &storageErr) || !errors.Is(hooked, errDiskFull) {
		t.Errorf("hook error = %v, want *StorageError wrapping errDiskFull", hooked)
	}
}

func TestLocalizationSetLanguagePersists(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryPreferences()

	s := NewLocalizationStore(mem, nil)
	s.Initialize(ctx)

	state, err := s.SetLanguage(ctx, entities.LanguageArabic)
	if err != nil {
		t.Fatalf("SetLanguage() error = %v", err)
	}
	if !state.IsRTL || state.ActiveLanguage != entities.LanguageArabic {
		t.Errorf("SetLanguage() = %+v", state)
	}
	if !s.Layout().Mirrored() {
		t.Error("Layout() not mirrored after switching to Arabic")
	}

	if v, _ := mem.Get(ctx, LanguagePreferenceKey); v != "ar" {
		t.Errorf("persisted value = %q, want ar", v)
	}

	// A fresh store over the same storage restores the preference.
	restored := NewLocalizationStore(mem, nil).Initialize(ctx)
	if restored != state {
		t.Errorf("restored state = %+v, want %+v", restored, state)
	}
}

func TestLocalizationSetLanguageWriteFailure(t *testing.T) {
	ctx := context.Background()
	rec := &countingRecorder{}
	hooks := 0
	store := &failingStore{PreferenceStore: storage.NewMemoryPreferences(), failSet: true}

	s := NewLocalizationStore(store, nil,
		WithStorageErrorRecorder(rec),
		WithStorageErrorHook(func(error) { hooks++ }),
	)
	s.Initialize(ctx)

	state, err := s.SetLanguage(ctx, entities.LanguageSwedish)
	if err != nil {
		t.Fatalf("SetLanguage() error = %v, want nil on write failure", err)
	}
	if state.ActiveLanguage != entities.LanguageSwedish || s.State().ActiveLanguage != entities.LanguageSwedish {
		t.Errorf("language not switched in memory: %+v", s.State())
	}
	if rec.storageErrors["set"] != 1 || hooks != 1 {
		t.Errorf("set errors = %d, hooks = %d, want 1 and 1", rec.storageErrors["set"], hooks)
	}
}

func TestLocalizationSetLanguageUnchangedSkipsWrite(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{PreferenceStore: storage.NewMemoryPreferences()}

	s := NewLocalizationStore(store, nil)
	s.Initialize(ctx)

	if _, err := s.SetLanguage(ctx, entities.LanguageEnglish); err != nil {
		t.Fatalf("SetLanguage() error = %v", err)
	}
	if store.sets != 0 {
		t.Errorf("sets = %d, want 0 for unchanged language", store.sets)
	}
	if !s.HasPreference() {
		t.Error("HasPreference() = false after an explicit choice")
	}
}

func TestLocalizationHasPreference(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryPreferences()

	s := NewLocalizationStore(mem, nil)
	s.Initialize(ctx)
	if s.HasPreference() {
		t.Fatal("HasPreference() = true on empty storage")
	}

	_ = mem.Set(ctx, LanguagePreferenceKey, "sv")
	s.Initialize(ctx)
	if !s.HasPreference() {
		t.Error("HasPreference() = false after restoring a stored language")
	}
}

func TestLocalizationSetLanguageUnsupported(t *testing.T) {
	ctx := context.Background()
	s := NewLocalizationStore(storage.NewMemoryPreferences(), nil)
	s.Initialize(ctx)

	_, err := s.SetLanguage(ctx, entities.LanguageCode("fr"))
	if !errors.Is(err, entities.ErrUnsupportedLanguage) {
		t.Fatalf("SetLanguage(fr) error = %v, want ErrUnsupportedLanguage", err)
	}
	if s.State().ActiveLanguage != entities.LanguageEnglish {
		t.Errorf("state changed after rejected code: %+v", s.State())
	}
}

func TestLocalizationRegistry(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryPreferences()
	reg := NewLocalizationRegistry(mem, nil)

	first := reg.For(ctx, 1)
	if first != reg.For(ctx, 1) {
		t.Fatal("For() returned a different store for the same chat")
	}
	if _, err := first.SetLanguage(ctx, entities.LanguageArabic); err != nil {
		t.Fatalf("SetLanguage() error = %v", err)
	}

	if got := reg.For(ctx, 2).State().ActiveLanguage; got != entities.LanguageEnglish {
		t.Errorf("chat 2 language = %s, want en", got)
	}

	// A new registry over the same storage restores chat 1.
	if got := NewLocalizationRegistry(mem, nil).For(ctx, 1).State().ActiveLanguage; got != entities.LanguageArabic {
		t.Errorf("restored chat 1 language = %s, want ar", got)
	}
}
