package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/matzehuels/floorplan/pkg/plan"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestValidateJSON(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, filepath.Join(dir, "house.plan"), compactPlan)
	out := captureStdout(t)

	err := newTestCLI().runValidate(context.Background(), input, validateOpts{json: true, strict: true})
	if err != nil {
		t.Fatalf("runValidate: %v", err)
	}
	var v plan.Verdict
	if err := json.Unmarshal(out.Bytes(), &v); err != nil {
		t.Fatalf("decode verdict: %v\n%s", err, out)
	}
	if !v.IsValid {
		t.Errorf("10x8 floor with four rooms should fit, shortage %.1f", v.Shortage)
	}
	if len(v.Breakdown) == 0 {
		t.Error("verdict has no breakdown")
	}
}

func TestValidateStrictRejectsShortage(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, filepath.Join(dir, "tiny.plan"), `
floor 4 x 3
entry S offset 1 width 1
room living
room kitchen
room bed
room bed
room wc
`)
	captureStdout(t)

	c := newTestCLI()
	if err := c.runValidate(context.Background(), input, validateOpts{}); err != nil {
		t.Errorf("advisory validate should not fail: %v", err)
	}
	if err := c.runValidate(context.Background(), input, validateOpts{strict: true}); err == nil {
		t.Error("expected --strict to fail for a shortage")
	}
}

func TestValidateCommandRuns(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, filepath.Join(dir, "house.plan"), compactPlan)
	out := captureStdout(t)

	root := newTestCLI().RootCommand()
	root.SetArgs([]string{"validate", "--json", input})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte(`"is_valid": true`)) {
		t.Errorf("unexpected output:\n%s", out)
	}
}
