package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func useTempStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("STORE_DSN", filepath.Join(dir, "drill.db"))
	return dir
}

func runCmd(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestAddAndList(t *testing.T) {
	useTempStore(t)

	if code, _, errOut := runCmd(t, "", "add", "Capital of France?", "Paris"); code != 0 {
		t.Fatalf("add failed with %d: %s", code, errOut)
	}

	code, out, _ := runCmd(t, "", "list")
	if code != 0 {
		t.Fatalf("list failed with %d", code)
	}
	if !strings.Contains(out, "New quiz") || !strings.Contains(out, "Capital of France? -> paris") {
		t.Errorf("unexpected list output:\n%s", out)
	}
}

func TestAdd_EmptyFieldFails(t *testing.T) {
	useTempStore(t)

	if code, _, _ := runCmd(t, "", "add", "Q", ""); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
}

func TestRun_RequeuesMissedQuestions(t *testing.T) {
	useTempStore(t)
	runCmd(t, "", "add", "Q1", "a1")
	runCmd(t, "", "add", "Q2", "a2")

	code, out, errOut := runCmd(t, "wrong\na2\n A1 \n", "run")
	if code != 0 {
		t.Fatalf("run failed with %d: %s", code, errOut)
	}

	if strings.Count(out, "Q1") != 2 {
		t.Errorf("expected Q1 to be asked twice:\n%s", out)
	}
	if !strings.Contains(out, "Finished. Score: 67%") {
		t.Errorf("expected final score of 67%%:\n%s", out)
	}
}

func TestRun_EmptyQuiz(t *testing.T) {
	useTempStore(t)

	code, out, _ := runCmd(t, "", "run")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out, "No questions to drill.") || !strings.Contains(out, "Score: 0%") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRun_AbandonedOnEOF(t *testing.T) {
	useTempStore(t)
	runCmd(t, "", "add", "Q1", "a1")

	code, out, _ := runCmd(t, "", "run")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out, "Session abandoned.") {
		t.Errorf("expected abandoned session:\n%s", out)
	}
}

func TestExportImport(t *testing.T) {
	dir := useTempStore(t)
	runCmd(t, "", "add", "kot", "cat")

	exported := filepath.Join(dir, "quiz.json")
	if code, _, errOut := runCmd(t, "", "export", exported); code != 0 {
		t.Fatalf("export failed with %d: %s", code, errOut)
	}

	raw, err := os.ReadFile(exported)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Title     string `json:"title"`
		Questions []struct {
			Question string `json:"question"`
			Answer   string `json:"answer"`
		} `json:"questions"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if len(doc.Questions) != 1 || doc.Questions[0].Answer != "cat" {
		t.Errorf("unexpected export: %+v", doc)
	}

	doc2 := filepath.Join(dir, "other.json")
	os.WriteFile(doc2, []byte(`{"title":"Colors","questions":[{"question":"red","answer":"CZERWONY"},{"question":"blue","answer":"niebieski"}]}`), 0o644)

	code, out, errOut := runCmd(t, "", "import", doc2)
	if code != 0 {
		t.Fatalf("import failed with %d: %s", code, errOut)
	}
	if !strings.Contains(out, `Imported "Colors" with 2 questions.`) {
		t.Errorf("unexpected import output: %s", out)
	}

	_, out, _ = runCmd(t, "", "export", "-")
	if !strings.Contains(out, `"answer": "czerwony"`) || strings.Contains(out, "kot") {
		t.Errorf("expected imported quiz to replace the old one:\n%s", out)
	}
}

func TestImport_MalformedKeepsQuiz(t *testing.T) {
	dir := useTempStore(t)
	runCmd(t, "", "add", "Q1", "a1")

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"title":"x"}`), 0o644)

	code, _, errOut := runCmd(t, "", "import", bad)
	if code != 1 || !strings.Contains(errOut, "malformed document") {
		t.Errorf("expected malformed document failure, got %d: %s", code, errOut)
	}

	_, out, _ := runCmd(t, "", "list")
	if !strings.Contains(out, "Q1 -> a1") {
		t.Errorf("expected quiz unchanged:\n%s", out)
	}
}

func TestUsage(t *testing.T) {
	useTempStore(t)

	if code, _, errOut := runCmd(t, ""); code != 2 || !strings.Contains(errOut, "usage: drill") {
		t.Errorf("expected usage with exit 2, got %d: %s", code, errOut)
	}
	if code, _, _ := runCmd(t, "", "frobnicate"); code != 2 {
		t.Errorf("expected exit 2 for unknown command, got %d", code)
	}
}
