package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/battlesim/internal/core"
)

type stubGame struct{ id string }

func (g stubGame) ID() string { return g.id }
func (g stubGame) Title() string { return "Stub" }
func (g stubGame) Reset(core.RuntimeConfig) {}
func (g stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g stubGame) Render(*core.Screen) {}
func (g stubGame) State() core.GameState { return core.GameState{} }

func TestRegisterAndCreate(t *testing.T) {
	Register("stub-a", "Stub A", func() (Game, error) { return stubGame{id: "stub-a"}, nil })

	if !Exists("stub-a") {
		t.Fatal("Exists(stub-a) = false, expected true")
	}

	g, err := Create("stub-a")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if g.ID() != "stub-a" {
		t.Errorf("Create().ID() = %q, expected stub-a", g.ID())
	}

	found := false
	for _, info := range List() {
		if info.ID == "stub-a" {
			found = info.Title == "Stub A"
		}
	}
	if !found {
		t.Error("List() should include stub-a with its title")
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("stub-missing"); err == nil {
		t.Error("Create() of unknown scenario should fail")
	}
}

func TestCreateFactoryError(t *testing.T) {
	boom := errors.New("boom")
	Register("stub-err", "Broken", func() (Game, error) { return nil, boom })

	if _, err := Create("stub-err"); !errors.Is(err, boom) {
		t.Errorf("Create() error = %v, expected to wrap factory error", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("stub-dup", "Dup", func() (Game, error) { return stubGame{}, nil })

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("stub-dup", "Dup", func() (Game, error) { return stubGame{}, nil })
}
