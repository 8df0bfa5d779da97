package repository

import (
	"strings"
	"testing"
)

func TestBuildLikeConditionByDialectSQLite(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("sqlite", []string{"item_name", " ", "unit"})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	want := `item_name LIKE ? ESCAPE '\' OR unit LIKE ? ESCAPE '\'`
	if condition != want {
		t.Fatalf("condition mismatch, want %s got %s", want, condition)
	}
}

func TestBuildLikeConditionByDialectPostgres(t *testing.T) {
	condition, _ := buildLikeConditionByDialect("postgres", []string{"item_name"})
	if !strings.Contains(condition, "item_name ILIKE ?") {
		t.Fatalf("postgres condition should use ILIKE, got %s", condition)
	}
}

func TestEscapeLike(t *testing.T) {
	got := escapeLike(`50%_off\`)
	want := `50\%\_off\\`
	if got != want {
		t.Fatalf("escape mismatch, want %s got %s", want, got)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%test%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%test%" {
			t.Fatalf("args[%d] want %%test%% got %v", idx, arg)
		}
	}
}

func TestMonthDateRange(t *testing.T) {
	start, end, err := monthDateRange("2024-12")
	if err != nil {
		t.Fatalf("month range failed: %v", err)
	}
	if start != "2024-12-01" || end != "2025-01-01" {
		t.Fatalf("range want [2024-12-01, 2025-01-01) got [%s, %s)", start, end)
	}
	if _, _, err := monthDateRange("2024-13"); err == nil {
		t.Fatalf("expected invalid month error")
	}
	if got := MonthKey(2024, 3); got != "2024-03" {
		t.Fatalf("month key want 2024-03 got %s", got)
	}
}
