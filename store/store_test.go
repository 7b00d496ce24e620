package store

import (
	"testing"

	"github.com/promptloom/promptloom/composer"
	"github.com/promptloom/promptloom/errors"
	qtesting "github.com/promptloom/promptloom/internal/testing"
	"github.com/promptloom/promptloom/stack"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	return NewConfigStore(qtesting.CreateTestDB(t))
}

func sampleConfig() composer.Config {
	return composer.Config{
		Mode:         composer.ModeTokens,
		CustomPrompt: "draft",
		Tokens: []*stack.Item{
			stack.NewCustomItem("role", "You are the planner."),
			stack.NewLiteralMacroItem("task", "action"),
		},
	}
}

func TestSaveAndGetByName(t *testing.T) {
	s := newTestStore(t)

	saved, err := s.SaveConfig("planner", sampleConfig())
	if err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	if saved.Version != 1 {
		t.Errorf("first save version = %d, want 1", saved.Version)
	}

	got, err := s.GetByName("planner")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if got.ID != saved.ID || got.Mode != composer.ModeTokens {
		t.Errorf("loaded config = %+v", got)
	}
	if len(got.Tokens) != 2 || got.Tokens[1].Content != "{{action}}" {
		t.Errorf("tokens did not round trip: %+v", got.Tokens)
	}
}

func TestSaveIncrementsVersionPerName(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.SaveConfig("planner", sampleConfig()); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	second, err := s.SaveConfig("planner", sampleConfig())
	if err != nil {
		t.Fatalf("second SaveConfig failed: %v", err)
	}
	if second.Version != 2 {
		t.Errorf("second save version = %d, want 2", second.Version)
	}

	other, err := s.SaveConfig("reviewer", sampleConfig())
	if err != nil {
		t.Fatalf("SaveConfig other name failed: %v", err)
	}
	if other.Version != 1 {
		t.Errorf("unrelated name version = %d, want 1", other.Version)
	}

	latest, err := s.GetByName("planner")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if latest.Version != 2 {
		t.Errorf("GetByName version = %d, want latest", latest.Version)
	}
}

func TestSaveRequiresName(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SaveConfig("", sampleConfig())
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	s := newTestStore(t)

	first, _ := s.SaveConfig("planner", sampleConfig())
	if _, err := s.SaveConfig("planner", sampleConfig()); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	got, err := s.GetByID(first.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Version != 1 {
		t.Errorf("GetByID returned version %d, want the pinned version 1", got.Version)
	}
}

func TestGetMissingIsNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetByName("ghost"); !errors.IsNotFoundError(err) {
		t.Errorf("expected not-found, got %v", err)
	}
	if _, err := s.GetByID("no-such-id"); !errors.IsNotFoundError(err) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestListReturnsLatestPerName(t *testing.T) {
	s := newTestStore(t)

	s.SaveConfig("alpha", sampleConfig())
	s.SaveConfig("alpha", sampleConfig())
	s.SaveConfig("beta", sampleConfig())

	list, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("listed %d configs, want 2", len(list))
	}
	if list[0].Name != "alpha" || list[0].Version != 2 {
		t.Errorf("list[0] = %s v%d", list[0].Name, list[0].Version)
	}
	if list[1].Name != "beta" || list[1].Version != 1 {
		t.Errorf("list[1] = %s v%d", list[1].Name, list[1].Version)
	}
}

func TestVersionsNewestFirst(t *testing.T) {
	s := newTestStore(t)

	s.SaveConfig("planner", sampleConfig())
	s.SaveConfig("planner", sampleConfig())
	s.SaveConfig("planner", sampleConfig())

	versions, err := s.Versions("planner")
	if err != nil {
		t.Fatalf("Versions failed: %v", err)
	}
	if len(versions) != 3 {
		t.Fatalf("got %d versions, want 3", len(versions))
	}
	for i, v := range versions {
		if want := 3 - i; v.Version != want {
			t.Errorf("versions[%d] = %d, want %d", i, v.Version, want)
		}
	}
}

func TestDeleteConfigRemovesAllVersions(t *testing.T) {
	s := newTestStore(t)

	s.SaveConfig("planner", sampleConfig())
	s.SaveConfig("planner", sampleConfig())

	if err := s.DeleteConfig("planner"); err != nil {
		t.Fatalf("DeleteConfig failed: %v", err)
	}
	if _, err := s.GetByName("planner"); !errors.IsNotFoundError(err) {
		t.Errorf("expected not-found after delete, got %v", err)
	}
	if err := s.DeleteConfig("planner"); !errors.IsNotFoundError(err) {
		t.Errorf("deleting missing config must be not-found, got %v", err)
	}
}

func TestEmptyTokensRoundTrip(t *testing.T) {
	s := newTestStore(t)

	saved, err := s.SaveConfig("bare", composer.Config{Mode: composer.ModeCustom, CustomPrompt: "hi"})
	if err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	got, err := s.GetByID(saved.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Tokens) != 0 {
		t.Errorf("tokens = %+v, want empty", got.Tokens)
	}
	if got.Config().CustomPrompt != "hi" {
		t.Errorf("Config() round trip lost fields")
	}
}
