package jobs

import (
	"testing"

	"voicecut/internal/domain"
)

// TestManagerNarrationLifecycle verifies normal progression to done state.
func TestManagerNarrationLifecycle(t *testing.T) {
	m := NewManager()
	if m.IsRunning() {
		t.Fatal("new manager should be idle")
	}

	if err := m.Start("job-1", domain.JobStatusSynthesizing); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !m.IsRunning() {
		t.Fatal("expected running after start")
	}

	for _, status := range []domain.JobStatus{
		domain.JobStatusSlicing,
		domain.JobStatusDone,
	} {
		if err := m.Transition(status); err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
	}

	current := m.Current()
	if current.Status != domain.JobStatusDone {
		t.Fatalf("current status = %s, want done", current.Status)
	}
}

// TestManagerExportLifecycle verifies the single-stage render job.
func TestManagerExportLifecycle(t *testing.T) {
	m := NewManager()
	if err := m.Start("job-1", domain.JobStatusRendering); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Transition(domain.JobStatusDone); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if m.IsRunning() {
		t.Fatal("done job should not count as running")
	}
}

// TestManagerRejectsInvalidTransition checks state machine constraints.
func TestManagerRejectsInvalidTransition(t *testing.T) {
	m := NewManager()
	if err := m.Start("job-1", domain.JobStatusSynthesizing); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := m.Transition(domain.JobStatusDone); err == nil {
		t.Fatal("expected invalid transition error")
	}
	if err := m.Transition(domain.JobStatusRendering); err == nil {
		t.Fatal("narration job must not jump to rendering")
	}
}

// TestManagerRejectsConcurrentJobs checks the single-job constraint.
func TestManagerRejectsConcurrentJobs(t *testing.T) {
	m := NewManager()
	if err := m.Start("job-1", domain.JobStatusRendering); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Start("job-2", domain.JobStatusSynthesizing); err != ErrJobAlreadyRunning {
		t.Fatalf("second start error = %v, want %v", err, ErrJobAlreadyRunning)
	}
}

// TestManagerRejectsInvalidOpeningStage checks jobs open in a work stage.
func TestManagerRejectsInvalidOpeningStage(t *testing.T) {
	m := NewManager()
	if err := m.Start("job-1", domain.JobStatusDone); err == nil {
		t.Fatal("expected opening stage error")
	}
}

// TestManagerCancel verifies cancel behavior and repeated cancel handling.
func TestManagerCancel(t *testing.T) {
	m := NewManager()
	if err := m.Start("job-1", domain.JobStatusSynthesizing); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := m.Cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if m.Current().Status != domain.JobStatusCancelled {
		t.Fatalf("status = %s, want cancelled", m.Current().Status)
	}

	if err := m.Cancel(); err != ErrNoRunningJob {
		t.Fatalf("second cancel error = %v, want %v", err, ErrNoRunningJob)
	}
}
