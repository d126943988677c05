package app

import (
	"errors"
	"testing"
	"time"

	"github.com/j-veylop/cc-economics/internal/models"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if !s.Loading.Initial {
		t.Error("Initial loading should be true")
	}
	if s.GetPeriods(models.Daily) != nil {
		t.Error("Periods should be nil before the first report")
	}
	if s.GetTotals() != nil {
		t.Error("Totals should be nil before the first report")
	}
	if s.TimeSinceUpdate() != 0 {
		t.Error("TimeSinceUpdate should be 0 before the first report")
	}
}

func TestState_SetLoading(t *testing.T) {
	s := NewState()

	s.SetLoading("report", true)
	if !s.Loading.Report {
		t.Error("Report loading should be true")
	}

	s.SetLoading("report", false)
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true (Initial is true)")
	}

	s.SetLoading("initial", false)
	if s.AnyLoading() {
		t.Error("AnyLoading should be false")
	}
	if s.IsInitialLoading() {
		t.Error("IsInitialLoading should be false")
	}

	s.SetLoading("unknown", true)
	if s.AnyLoading() {
		t.Error("Unknown resources should be ignored")
	}
}

func TestState_Report(t *testing.T) {
	s := NewState()
	s.SetError(errors.New("stale"))

	total := 12.5
	r := &models.Report{
		Monthly: []models.PeriodEconomics{{Label: "2026-01", SpendCost: &total}},
		Totals:  &models.Totals{SpendCost: total},
	}
	s.SetReport(r)

	if s.GetError() != nil {
		t.Error("SetReport should clear the last error")
	}
	if s.LastUpdated.IsZero() {
		t.Error("LastUpdated should be set")
	}

	periods := s.GetPeriods(models.Monthly)
	if len(periods) != 1 || periods[0].Label != "2026-01" {
		t.Fatalf("GetPeriods = %+v", periods)
	}
	periods[0].Label = "changed"
	if r.Monthly[0].Label != "2026-01" {
		t.Error("GetPeriods should return a copy")
	}

	if got := s.GetPeriods(models.Daily); len(got) != 0 {
		t.Errorf("GetPeriods(Daily) = %v, want empty", got)
	}

	totals := s.GetTotals()
	if totals == nil || totals.SpendCost != 12.5 {
		t.Fatalf("GetTotals = %+v", totals)
	}
	totals.SpendCost = 0
	if r.Totals.SpendCost != 12.5 {
		t.Error("GetTotals should return a copy")
	}
}

func TestState_SetErrorKeepsReport(t *testing.T) {
	s := NewState()
	s.SetReport(&models.Report{Daily: []models.PeriodEconomics{{Label: "2026-01-05"}}})
	s.SetError(errors.New("ccusage failed"))

	if s.GetError() == nil {
		t.Error("GetError should return the recorded error")
	}
	if len(s.GetPeriods(models.Daily)) != 1 {
		t.Error("SetError should keep the previous report")
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "hello", time.Minute)
	if id == "" {
		t.Fatal("AddNotification returned empty ID")
	}
	if n := s.GetNotifications(); len(n) != 1 || n[0].Message != "hello" {
		t.Fatalf("GetNotifications = %+v", n)
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("Notification should be removed")
	}

	for i := 0; i < maxNotifications+5; i++ {
		s.AddNotification(NotificationSuccess, "spam", 0)
	}
	if got := len(s.GetNotifications()); got != maxNotifications {
		t.Errorf("Notifications = %d, want %d", got, maxNotifications)
	}
}

func TestState_ExpiredNotifications(t *testing.T) {
	s := NewState()
	s.AddNotification(NotificationError, "old", time.Nanosecond)
	s.AddNotification(NotificationError, "sticky", 0)
	time.Sleep(time.Millisecond)

	if n := s.GetNotifications(); len(n) != 1 || n[0].Message != "sticky" {
		t.Errorf("GetNotifications = %+v, want only sticky", n)
	}

	s.ClearExpiredNotifications()
	if len(s.notifications) != 1 {
		t.Errorf("ClearExpiredNotifications left %d notifications", len(s.notifications))
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("Loading...")
	s.SetLoadingNotification("Refreshing...")

	n := s.GetNotifications()
	if len(n) != 1 {
		t.Fatalf("Expected a single loading notification, got %d", len(n))
	}
	if n[0].Type != NotificationLoading || n[0].Message != "Refreshing..." {
		t.Errorf("Loading notification = %+v", n[0])
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("Loading notification should be cleared")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := map[NotificationType]string{
		NotificationSuccess:  "success",
		NotificationError:    "error",
		NotificationWarning:  "warning",
		NotificationInfo:     "info",
		NotificationLoading:  "loading",
		NotificationType(99): "unknown",
	}
	for n, want := range tests {
		if got := n.String(); got != want {
			t.Errorf("%d.String() = %s, want %s", n, got, want)
		}
	}
}
