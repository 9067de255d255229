package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LEDGER_BACKEND", "LEDGER_FILE", "SQLITE_DB_PATH", "LOG_LEVEL", "AMQP_URL"} {
		t.Setenv(k, "")
	}
}

func runCLI(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(input), &out)
	return out.String(), err
}

func TestAddListBalance(t *testing.T) {
	isolateEnv(t)
	file := filepath.Join(t.TempDir(), "records.json")

	if _, err := runCLI(t, "", "--file", file, "add",
		"--date", "2024-01-01", "--category", "income", "--amount", "100", "--description", "salary"); err != nil {
		t.Fatalf("add salary: %v", err)
	}
	if _, err := runCLI(t, "", "--file", file, "add",
		"--date", "2024-01-02", "--category", "2", "--amount", "40", "--description", "food"); err != nil {
		t.Fatalf("add food: %v", err)
	}

	out, err := runCLI(t, "", "--file", file, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := "1. Date: 2024-01-01 Category: Income Amount: 100 Description: salary\n" +
		"2. Date: 2024-01-02 Category: Expense Amount: 40 Description: food\n"
	if out != want {
		t.Fatalf("list output:\n%s\nwant:\n%s", out, want)
	}

	out, err = runCLI(t, "", "--file", file, "balance")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if out != "Current balance: 60\nTotal income: 100\nTotal expenses: 40\n" {
		t.Fatalf("balance output: %q", out)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if !strings.Contains(string(data), `"category": "Expense"`) {
		t.Fatalf("ledger file not in expected format:\n%s", data)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	isolateEnv(t)
	file := filepath.Join(t.TempDir(), "records.json")

	cases := [][]string{
		{"--date", "2024-13-01", "--category", "income", "--amount", "1"},
		{"--date", "2024-01-01", "--category", "gift", "--amount", "1"},
		{"--date", "2024-01-01", "--category", "income", "--amount", "-1"},
		{"--date", "2024-01-01", "--category", "income"},
	}
	for _, flags := range cases {
		args := append([]string{"--file", file, "add"}, flags...)
		if _, err := runCLI(t, "", args...); err == nil {
			t.Errorf("add %v: expected error", flags)
		}
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Fatalf("rejected adds must not create the ledger file, stat err = %v", err)
	}
}

func TestEditKeepsUnsetFields(t *testing.T) {
	isolateEnv(t)
	file := filepath.Join(t.TempDir(), "records.json")
	if _, err := runCLI(t, "", "--file", file, "add",
		"--date", "2024-01-02", "--category", "expense", "--amount", "40", "--description", "food"); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := runCLI(t, "", "--file", file, "edit", "1", "--amount", "42.50"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	out, err := runCLI(t, "", "--file", file, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out != "1. Date: 2024-01-02 Category: Expense Amount: 42.5 Description: food\n" {
		t.Fatalf("unexpected list after edit: %q", out)
	}

	for _, n := range []string{"0", "2", "x"} {
		if _, err := runCLI(t, "", "--file", file, "edit", n, "--amount", "1"); err == nil {
			t.Errorf("edit %s: expected error", n)
		}
	}
}

func TestSearch(t *testing.T) {
	isolateEnv(t)
	file := filepath.Join(t.TempDir(), "records.json")
	for _, args := range [][]string{
		{"--date", "2024-01-01", "--category", "income", "--amount", "100", "--description", "salary"},
		{"--date", "2024-01-02", "--category", "expense", "--amount", "40", "--description", "food"},
	} {
		if _, err := runCLI(t, "", append([]string{"--file", file, "add"}, args...)...); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	out, err := runCLI(t, "", "--file", file, "search", "--date", "2024-01-02", "--category", "Expense")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if out != "1. Date: 2024-01-02 Category: Expense Amount: 40 Description: food\n" {
		t.Fatalf("unexpected search output %q", out)
	}

	out, err = runCLI(t, "", "--file", file, "search", "--amount", "40.00")
	if err != nil || !strings.Contains(out, "food") {
		t.Fatalf("amount search: %q, %v", out, err)
	}

	out, err = runCLI(t, "", "--file", file, "search", "--field", "description=salary")
	if err != nil || !strings.Contains(out, "salary") || strings.Contains(out, "food") {
		t.Fatalf("field search: %q, %v", out, err)
	}
	if _, err := runCLI(t, "", "--file", file, "search", "--field", "payee=bob"); err == nil {
		t.Fatal("expected error for unknown field")
	}
	if _, err := runCLI(t, "", "--file", file, "search", "--field", "description"); err == nil {
		t.Fatal("expected error for missing value")
	}

	out, err = runCLI(t, "", "--file", file, "search", "--date", "2024-01-02", "--category", "income")
	if err != nil || out != "Nothing found for your query.\n" {
		t.Fatalf("empty search: %q, %v", out, err)
	}
}

func TestRootRunsMenu(t *testing.T) {
	isolateEnv(t)
	file := filepath.Join(t.TempDir(), "records.json")

	out, err := runCLI(t, "2\n2024-03-01\n1\n10\ngift\n1\n0\n", "--file", file)
	if err != nil {
		t.Fatalf("menu: %v", err)
	}
	if !strings.Contains(out, "Record added.") || !strings.Contains(out, "Current balance: 10") {
		t.Fatalf("unexpected menu output:\n%s", out)
	}
}

func TestMemoryBackendAndBadBackend(t *testing.T) {
	isolateEnv(t)

	out, err := runCLI(t, "", "--backend", "memory", "list")
	if err != nil || out != "No records.\n" {
		t.Fatalf("memory list: %q, %v", out, err)
	}

	if _, err := runCLI(t, "", "--backend", "paper", "list"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestMalformedLedgerIsReported(t *testing.T) {
	isolateEnv(t)
	file := filepath.Join(t.TempDir(), "records.json")
	if err := os.WriteFile(file, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "", "--file", file, "balance"); err == nil {
		t.Fatal("expected error for malformed ledger")
	}
}
