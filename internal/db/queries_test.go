package db

import (
	"context"
	"testing"
	"time"

	"github.com/j-veylop/cc-economics/internal/models"
)

func TestInsertCommand(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	cmd := &models.TrackedCommand{
		OriginalCmd:  "git log",
		FilteredCmd:  "rtk git log",
		InputTokens:  1000,
		OutputTokens: 250,
		ExecTimeMs:   42,
	}

	if err := db.InsertCommand(context.Background(), cmd); err != nil {
		t.Fatalf("InsertCommand() failed: %v", err)
	}

	if cmd.ID == 0 {
		t.Error("InsertCommand() should set ID")
	}
	if cmd.SavedTokens != 750 {
		t.Errorf("Expected derived saved tokens 750, got %d", cmd.SavedTokens)
	}
	if cmd.SavingsPct != 75 {
		t.Errorf("Expected derived savings pct 75, got %f", cmd.SavingsPct)
	}
}

func TestInsertCommand_NoNegativeSavings(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	cmd := &models.TrackedCommand{OriginalCmd: "ls", FilteredCmd: "rtk ls", InputTokens: 10, OutputTokens: 20}
	if err := db.InsertCommand(context.Background(), cmd); err != nil {
		t.Fatalf("InsertCommand() failed: %v", err)
	}
	if cmd.SavedTokens != 0 || cmd.SavingsPct != 0 {
		t.Errorf("Expected no savings, got %d tokens / %f%%", cmd.SavedTokens, cmd.SavingsPct)
	}
}

func TestGetRecentCommands(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	ctx := context.Background()
	base := time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		cmd := &models.TrackedCommand{
			Timestamp:    base.Add(time.Duration(i) * time.Hour),
			OriginalCmd:  "cargo test",
			FilteredCmd:  "rtk cargo test",
			InputTokens:  int64(100 * (i + 1)),
			OutputTokens: 10,
		}
		if err := db.InsertCommand(ctx, cmd); err != nil {
			t.Fatalf("InsertCommand() failed: %v", err)
		}
	}

	cmds, err := db.GetRecentCommands(ctx, 3)
	if err != nil {
		t.Fatalf("GetRecentCommands() failed: %v", err)
	}
	if len(cmds) != 3 {
		t.Fatalf("Expected 3 commands, got %d", len(cmds))
	}
	if !cmds[0].Timestamp.Equal(base.Add(4 * time.Hour)) {
		t.Errorf("Expected newest first, got %v", cmds[0].Timestamp)
	}
	if cmds[0].InputTokens != 500 {
		t.Errorf("Expected 500 input tokens, got %d", cmds[0].InputTokens)
	}
}

func TestCleanupOlderThan(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	ctx := context.Background()
	old := &models.TrackedCommand{
		Timestamp: time.Now().AddDate(0, 0, -120), OriginalCmd: "a", FilteredCmd: "a", InputTokens: 1,
	}
	recent := &models.TrackedCommand{
		Timestamp: time.Now().Add(-time.Hour), OriginalCmd: "b", FilteredCmd: "b", InputTokens: 1,
	}
	for _, c := range []*models.TrackedCommand{old, recent} {
		if err := db.InsertCommand(ctx, c); err != nil {
			t.Fatalf("InsertCommand() failed: %v", err)
		}
	}

	removed, err := db.CleanupOlderThan(ctx, 90)
	if err != nil {
		t.Fatalf("CleanupOlderThan() failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 row removed, got %d", removed)
	}

	n, err := db.CountCommands(ctx)
	if err != nil {
		t.Fatalf("CountCommands() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 remaining row, got %d", n)
	}
}

func TestInsertCommand_AppliesRetention(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	ctx := context.Background()
	old := &models.TrackedCommand{
		Timestamp: time.Now().AddDate(0, 0, -200), OriginalCmd: "a", FilteredCmd: "a", InputTokens: 1,
	}
	if err := db.InsertCommand(ctx, old); err != nil {
		t.Fatalf("InsertCommand() failed: %v", err)
	}

	db.SetRetentionDays(DefaultRetentionDays)
	fresh := &models.TrackedCommand{OriginalCmd: "b", FilteredCmd: "b", InputTokens: 1}
	if err := db.InsertCommand(ctx, fresh); err != nil {
		t.Fatalf("InsertCommand() failed: %v", err)
	}

	n, err := db.CountCommands(ctx)
	if err != nil {
		t.Fatalf("CountCommands() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected retention to leave 1 row, got %d", n)
	}
}

func TestSavingsPct(t *testing.T) {
	tests := []struct {
		name         string
		saved, input int64
		want         float64
	}{
		{"Half", 50, 100, 50},
		{"NoInput", 50, 0, 0},
		{"Nothing", 0, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := savingsPct(tt.saved, tt.input); got != tt.want {
				t.Errorf("savingsPct() = %v, want %v", got, tt.want)
			}
		})
	}
}
