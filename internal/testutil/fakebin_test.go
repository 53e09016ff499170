package testutil

import (
	"os/exec"
	"strings"
	"testing"
)

func TestFakeBinIsResolvedFromPath(t *testing.T) {
	bin := NewFakeBin(t)
	want := bin.Add("update-control-fake", `echo hello`)
	got, err := exec.LookPath("update-control-fake")
	if err != nil {
		t.Fatalf("expected fake to resolve, got %v", err)
	}
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	out, err := exec.Command("update-control-fake").Output()
	if err != nil {
		t.Fatalf("expected fake to run, got %v", err)
	}
	if strings.TrimSpace(string(out)) != "hello" {
		t.Fatalf("expected hello, got %q", out)
	}
}

func TestFakeBinReadFileMissing(t *testing.T) {
	bin := NewFakeBin(t)
	if got := bin.ReadFile("absent"); got != "" {
		t.Fatalf("expected empty contents, got %q", got)
	}
}
