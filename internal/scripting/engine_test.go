package scripting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestEngineLoadsScriptsAndInvokes(t *testing.T) {
	dir := t.TempDir()
	script := "function greet()\n  echo('hello from lua')\nend\n"
	if err := os.WriteFile(filepath.Join(dir, "greet.lua"), []byte(script), 0644); err != nil {
		t.Fatal(err)
	}

	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer e.Close()

	var echoed []string
	e.Echo = func(self any, text string) {
		echoed = append(echoed, text)
	}

	fn := e.Global("greet")
	if fn == nil {
		t.Fatal("greet not loaded")
	}
	if err := e.Invoke(fn, ExecContext{Self: "tester"}); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if len(echoed) != 1 || echoed[0] != "hello from lua" {
		t.Errorf("echo callback: %v", echoed)
	}
}

func TestEngineMissingDirIsFine(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "absent"), zap.NewNop())
	if err != nil {
		t.Fatalf("missing script dir should not fail boot: %v", err)
	}
	e.Close()
}

func TestEvalReentersCommandLayer(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "absent"), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	var commands []string
	e.Command = func(self any, line string) {
		commands = append(commands, self.(string)+":"+line)
	}
	if err := e.Eval(`command("say testing")`, "admin"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if len(commands) != 1 || commands[0] != "admin:say testing" {
		t.Errorf("command re-entry: %v", commands)
	}
}

func TestEvalErrorsAreContained(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "absent"), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	if err := e.Eval("this is not lua", "admin"); err == nil {
		t.Error("syntax error not reported")
	}
	if err := e.Eval(`error("boom")`, "admin"); err == nil {
		t.Error("runtime error not reported")
	}
	if !strings.Contains(e.Eval(`nosuchfn()`, "admin").Error(), "script error") {
		t.Error("error not wrapped as a script error")
	}
	// The VM survives for the next request.
	if err := e.Eval(`x = 1`, "admin"); err != nil {
		t.Errorf("vm unusable after script error: %v", err)
	}
}
