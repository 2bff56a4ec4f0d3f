package submissions

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iatek/deptadmin/api"
	"github.com/iatek/deptadmin/domain"
)

const listPayload = `[{"_id":"a","nom":"Dupont","email":"x@y.com","service":"consulting","message":"hi"}]`

func newTestModel(t *testing.T, handler http.HandlerFunc) Model {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return InitialModel(api.NewClient(server.URL, time.Second), 80, 24)
}

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{}
}

func TestNotFoundIsTerminalAfterOneRequest(t *testing.T) {
	requests := 0
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
	})

	m, cmd := m.Refresh()
	if !m.Loading() {
		t.Error("Expected loading phase after Refresh")
	}

	m, retryCmd := m.Update(cmd())
	if m.phase != phaseFailed {
		t.Errorf("Expected terminal failure for 404, got phase %d", m.phase)
	}

	if retryCmd != nil {
		t.Error("Expected no retry command for 404")
	}

	if requests != 1 {
		t.Errorf("Expected exactly one request, got %d", requests)
	}

	if m.StatusText() == "" {
		t.Error("Expected a terminal error message")
	}
}

func TestServerErrorSchedulesBoundedRetries(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	m, cmd := m.Refresh()

	// First failure: retry 1 of 2 scheduled, loading already over
	m, _ = m.Update(cmd())
	if m.phase != phaseRetryScheduled {
		t.Fatalf("Expected retry scheduled after first 500, got phase %d", m.phase)
	}
	if m.Loading() {
		t.Error("Expected the loading flag to be cleared while a retry is pending")
	}
	if !strings.Contains(m.StatusText(), "attempt 1 of 2") {
		t.Errorf("Expected pending-retry message, got '%s'", m.StatusText())
	}

	// Second failure: retry 2 of 2 scheduled
	m, cmd2 := m.Update(retryTickMsg{generation: m.generation, attempt: 1})
	m, _ = m.Update(cmd2())
	if m.phase != phaseRetryScheduled {
		t.Fatalf("Expected second retry scheduled, got phase %d", m.phase)
	}

	// Third failure: budget exhausted, terminal
	m, cmd3 := m.Update(retryTickMsg{generation: m.generation, attempt: 2})
	m, retryCmd := m.Update(cmd3())
	if m.phase != phaseFailed {
		t.Errorf("Expected terminal failure after exhausting retries, got phase %d", m.phase)
	}
	if retryCmd != nil {
		t.Error("Expected no further retry command")
	}
}

func TestTimeoutRetriesAtMostOnce(t *testing.T) {
	m := InitialModel(nil, 80, 24)
	m.generation = 1
	m.phase = phaseLoading

	timeoutErr := &api.RequestError{Op: "list submissions", Timeout: true}

	m, _ = m.Update(fetchFailedMsg{generation: 1, err: timeoutErr})
	if m.phase != phaseRetryScheduled {
		t.Fatalf("Expected one retry for timeout, got phase %d", m.phase)
	}

	m, _ = m.Update(retryTickMsg{generation: 1, attempt: 1})
	m, _ = m.Update(fetchFailedMsg{generation: 1, err: timeoutErr})
	if m.phase != phaseFailed {
		t.Errorf("Expected terminal failure after second timeout, got phase %d", m.phase)
	}
}

func TestRecoveryAfterTwoServerErrors(t *testing.T) {
	calls := 0
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(listPayload))
	})

	m, cmd := m.Refresh()
	m, _ = m.Update(cmd())

	m, cmd = m.Update(retryTickMsg{generation: m.generation, attempt: 1})
	m, _ = m.Update(cmd())

	m, cmd = m.Update(retryTickMsg{generation: m.generation, attempt: 2})
	m, _ = m.Update(cmd())

	if m.phase != phaseSuccess {
		t.Fatalf("Expected success after two retries, got phase %d", m.phase)
	}

	if len(m.Submissions) != 1 {
		t.Fatalf("Expected 1 submission, got %d", len(m.Submissions))
	}

	if m.StatusText() != "" {
		t.Errorf("Expected no error after recovery, got '%s'", m.StatusText())
	}
}

func TestStaleResultsAreDiscarded(t *testing.T) {
	m := InitialModel(nil, 80, 24)
	m.generation = 2
	m.phase = phaseLoading

	stale := submissionsLoadedMsg{
		generation:  1,
		submissions: []domain.Submission{{Id: "old"}},
	}

	m, _ = m.Update(stale)
	if m.phase != phaseLoading || len(m.Submissions) != 0 {
		t.Error("Expected a stale result to be dropped")
	}

	m, _ = m.Update(fetchFailedMsg{generation: 1, err: &api.RequestError{StatusCode: 500}})
	if m.phase != phaseLoading {
		t.Error("Expected a stale failure to be dropped")
	}

	m, cmd := m.Update(retryTickMsg{generation: 1, attempt: 1})
	if cmd != nil {
		t.Error("Expected a stale retry tick to be dropped")
	}
}

func TestDeleteWithoutConfirmationMakesNoRequest(t *testing.T) {
	requests := 0
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})
	m.Submissions = []domain.Submission{{Id: "a", Nom: "Dupont"}}

	m, _ = m.Update(keyMsg("d"))
	if !m.Confirming {
		t.Fatal("Expected confirmation gate after 'd'")
	}

	m, cmd := m.Update(keyMsg("n"))
	if m.Confirming {
		t.Error("Expected confirmation to be dismissed")
	}
	if cmd != nil {
		t.Error("Expected no command after declining")
	}
	if requests != 0 {
		t.Errorf("Expected no network calls, got %d", requests)
	}
}

func TestDeleteWithConfirmationTriggersSingleRefetch(t *testing.T) {
	var deletes, lists int
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deletes++
			return
		}
		lists++
		w.Write([]byte(listPayload))
	})
	m.Submissions = []domain.Submission{{Id: "a", Nom: "Dupont"}}
	m.generation = 1
	m.phase = phaseSuccess

	m, _ = m.Update(keyMsg("d"))
	m, cmd := m.Update(keyMsg("y"))
	if cmd == nil {
		t.Fatal("Expected a delete command after confirmation")
	}

	result := cmd()
	m, cmd = m.Update(result)
	if deletes != 1 {
		t.Fatalf("Expected exactly one DELETE, got %d", deletes)
	}

	if !m.Loading() {
		t.Error("Expected a follow-up fetch after a successful delete")
	}

	cmd()
	if lists != 1 {
		t.Errorf("Expected exactly one follow-up fetch, got %d", lists)
	}
}

func TestDeleteFailureLeavesListUnchanged(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"nope"}`))
	})
	m.Submissions = []domain.Submission{{Id: "a", Nom: "Dupont"}}
	m.phase = phaseSuccess

	m, _ = m.Update(keyMsg("d"))
	m, cmd := m.Update(keyMsg("y"))
	m, _ = m.Update(cmd())

	if len(m.Submissions) != 1 {
		t.Error("Expected the list to stay unchanged after a failed delete")
	}

	if !strings.Contains(m.notice, "Delete failed") {
		t.Errorf("Expected a delete failure alert, got '%s'", m.notice)
	}

	if m.Loading() {
		t.Error("Expected no refetch after a failed delete")
	}
}

func TestDetailToggle(t *testing.T) {
	m := InitialModel(nil, 80, 24)
	m.Submissions = []domain.Submission{{Id: "a", Nom: "Dupont", Message: "hello"}}
	m.phase = phaseSuccess

	m, _ = m.Update(keyMsg("enter"))
	if !m.ShowDetail {
		t.Fatal("Expected detail view after enter")
	}

	if !strings.Contains(m.View(), "hello") {
		t.Error("Expected detail view to show the message")
	}

	m, _ = m.Update(keyMsg("esc"))
	if m.ShowDetail {
		t.Error("Expected detail view to close on esc")
	}
}

func TestRefreshAdvancesGeneration(t *testing.T) {
	m := InitialModel(nil, 80, 24)

	first := m.generation
	m, _ = m.Refresh()
	m, _ = m.Refresh()

	if m.generation != first+2 {
		t.Errorf("Expected generation to advance per refresh, got %d", m.generation)
	}
}

func TestViewShowsTotalCount(t *testing.T) {
	m := InitialModel(nil, 80, 24)
	m.Submissions = []domain.Submission{{Id: "a", Nom: "Dupont"}, {Id: "b", Nom: "Martin"}}
	m.phase = phaseSuccess

	if !strings.Contains(m.View(), "Total: 2 departement(s)") {
		t.Error("Expected the total-count footer")
	}
}
