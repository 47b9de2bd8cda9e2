// ABOUTME: Tests for categories command
// ABOUTME: Verifies listing of trained categories in table and JSON form

package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewCategoriesCmd(t *testing.T) {
	cmd := NewCategoriesCmd()

	if cmd.Use != "categories" {
		t.Errorf("Use = %q, want %q", cmd.Use, "categories")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if cmd.Long == "" {
		t.Error("Long description should not be empty")
	}

	if cmd.RunE == nil {
		t.Error("RunE should be set")
	}
}

func TestCategoriesCmd_EmptyModel(t *testing.T) {
	testConfig(t)

	cmd := NewCategoriesCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !strings.Contains(output.String(), "No trained categories") {
		t.Errorf("Output should report empty model, got:\n%s", output.String())
	}
}

func TestCategoriesCmd_ListsTrained(t *testing.T) {
	cfg := testConfig(t)
	persistTestModel(t, cfg, "cafe_ambience")

	cmd := NewCategoriesCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	outputStr := output.String()
	expectedParts := []string{
		"CATEGORY",
		"SAMPLES",
		"TRAINED",
		"cafe_ambience",
		"Total: 1 categories",
	}
	for _, expected := range expectedParts {
		if !strings.Contains(outputStr, expected) {
			t.Errorf("Output should contain %q, got:\n%s", expected, outputStr)
		}
	}
}

func TestCategoriesCmd_JSONFormat(t *testing.T) {
	defer resetGlobalFlags()

	cfg := testConfig(t)
	persistTestModel(t, cfg, "thunder_distant")
	outputFormat = "json"

	cmd := NewCategoriesCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	outputStr := output.String()
	if !strings.Contains(outputStr, `"category": "thunder_distant"`) {
		t.Errorf("JSON output should contain the category, got:\n%s", outputStr)
	}
	if !strings.Contains(outputStr, `"sample_count": 3`) {
		t.Errorf("JSON output should contain the sample count, got:\n%s", outputStr)
	}
}
