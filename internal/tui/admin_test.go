package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/powerfolio/powerfolio/pkg/client"
	"github.com/powerfolio/powerfolio/pkg/domain"
)

func newTestAdminModel() adminModel {
	m := newAdminModel(client.New("http://localhost", "token"))
	m.width = 80
	m.height = 30
	m.loading = false
	m.me = &domain.User{ID: "a1", Name: "Root", Role: domain.RoleAdmin}
	return m
}

func TestAdminDeniedForRegularUser(t *testing.T) {
	m := newTestAdminModel()
	m, _ = m.Update(meLoadedMsg{me: &domain.User{ID: "u1", Role: domain.RoleUser}})

	if !m.denied {
		t.Fatal("expected denied for a non-admin")
	}
	if !strings.Contains(m.View(), "Access Denied") {
		t.Errorf("expected access denied view, got:\n%s", m.View())
	}

	// Keys are inert while denied.
	_, cmd := m.Update(keyRunes("a"))
	if cmd != nil {
		t.Error("expected keys ignored while denied")
	}
}

func TestAdminDeniedOnForbiddenResponse(t *testing.T) {
	m := newTestAdminModel()
	m, _ = m.Update(adminProjectsMsg{err: &client.HTTPError{StatusCode: 403, Message: "Admin access required"}})

	if !m.denied {
		t.Error("expected denied after a 403")
	}
}

func TestAdminStatsStrip(t *testing.T) {
	m := newTestAdminModel()
	m, _ = m.Update(adminStatsMsg{stats: &domain.AdminStats{TotalUsers: 12, TotalProjects: 30, PendingProjects: 4}})
	m, _ = m.Update(adminProjectsMsg{projects: nil})

	view := m.View()
	if !strings.Contains(view, "12 users") || !strings.Contains(view, "4 pending") {
		t.Errorf("expected stats strip, got:\n%s", view)
	}
}

func TestAdminApproveSendsStatus(t *testing.T) {
	m := newTestAdminModel()
	m, _ = m.Update(adminProjectsMsg{projects: []domain.Project{
		{ID: "p1", Title: "Pending Thing", Status: domain.StatusPending},
	}})

	_, cmd := m.Update(keyRunes("a"))
	if cmd == nil {
		t.Fatal("expected a review command from 'a'")
	}

	// No optimistic update: the row stays as the server last sent it
	// and the result triggers a queue reload.
	m, cmd = m.Update(statusChangedMsg{id: "p1", status: domain.StatusApproved})
	if m.projects[0].Status != domain.StatusPending {
		t.Errorf("expected row untouched until reload, got %q", m.projects[0].Status)
	}
	if cmd == nil {
		t.Fatal("expected a reload command after the status change")
	}
	if !strings.Contains(m.statusMsg, "approved") {
		t.Errorf("expected status note, got %q", m.statusMsg)
	}

	// The reload carries the new status.
	m, _ = m.Update(adminProjectsMsg{projects: []domain.Project{
		{ID: "p1", Title: "Pending Thing", Status: domain.StatusApproved},
	}})
	if m.projects[0].Status != domain.StatusApproved {
		t.Errorf("expected approved after reload, got %q", m.projects[0].Status)
	}
}

func TestAdminRejectSendsStatus(t *testing.T) {
	m := newTestAdminModel()
	m, _ = m.Update(adminProjectsMsg{projects: []domain.Project{
		{ID: "p1", Title: "Pending Thing", Status: domain.StatusPending},
	}})

	_, cmd := m.Update(keyRunes("x"))
	if cmd == nil {
		t.Fatal("expected a review command from 'x'")
	}
	m, cmd = m.Update(statusChangedMsg{id: "p1", status: domain.StatusRejected})
	if cmd == nil {
		t.Fatal("expected a reload command after the status change")
	}
	m, _ = m.Update(adminProjectsMsg{projects: []domain.Project{
		{ID: "p1", Title: "Pending Thing", Status: domain.StatusRejected},
	}})
	if m.projects[0].Status != domain.StatusRejected {
		t.Errorf("expected rejected after reload, got %q", m.projects[0].Status)
	}
}

func TestAdminReloadClampsFilteredCursor(t *testing.T) {
	m := newTestAdminModel()
	m, _ = m.Update(adminProjectsMsg{projects: []domain.Project{
		{ID: "p1", Title: "One", Status: domain.StatusPending},
		{ID: "p2", Title: "Two", Status: domain.StatusPending},
	}})
	m, _ = m.Update(keyRunes("f")) // filter: pending
	m, _ = m.Update(keyRunes("j"))
	if m.pCursor != 1 {
		t.Fatalf("expected cursor on second row, got %d", m.pCursor)
	}

	// Approving shrinks the filtered view on reload; the cursor must
	// not point past it.
	m, _ = m.Update(adminProjectsMsg{projects: []domain.Project{
		{ID: "p1", Title: "One", Status: domain.StatusPending},
		{ID: "p2", Title: "Two", Status: domain.StatusApproved},
	}})
	if m.pCursor != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", m.pCursor)
	}
}

func TestAdminStatusFilterCycles(t *testing.T) {
	m := newTestAdminModel()
	m, _ = m.Update(adminProjectsMsg{projects: []domain.Project{
		{ID: "p1", Title: "Waiting", Status: domain.StatusPending},
		{ID: "p2", Title: "Shipped", Status: domain.StatusApproved},
	}})

	m, _ = m.Update(keyRunes("f")) // all -> pending
	if m.filter != domain.StatusPending {
		t.Fatalf("expected pending filter, got %q", m.filter)
	}
	if got := m.visibleProjects(); len(got) != 1 || got[0].ID != "p1" {
		t.Errorf("expected only the pending project, got %+v", got)
	}

	// Approve acts on the visible row, not the raw index.
	m, _ = m.Update(keyRunes("f")) // pending -> approved
	if got := m.visibleProjects(); len(got) != 1 || got[0].ID != "p2" {
		t.Errorf("expected only the approved project, got %+v", got)
	}

	m, _ = m.Update(keyRunes("f")) // approved -> rejected
	m, _ = m.Update(keyRunes("f")) // rejected -> all
	if m.filter != "" {
		t.Errorf("expected filter cleared, got %q", m.filter)
	}
	if len(m.visibleProjects()) != 2 {
		t.Error("expected full queue with no filter")
	}
}

func TestAdminTabSwitchesSection(t *testing.T) {
	m := newTestAdminModel()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.section != adminSectionUsers {
		t.Error("expected users section after tab")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.section != adminSectionProjects {
		t.Error("expected projects section after second tab")
	}
}

func TestAdminUserDeleteFlow(t *testing.T) {
	m := newTestAdminModel()
	m, _ = m.Update(adminProjectsMsg{projects: nil})
	m, _ = m.Update(adminUsersMsg{users: []domain.User{
		{ID: "u1", Name: "Alice", Email: "alice@example.com"},
		{ID: "u2", Name: "Bob", Email: "bob@example.com"},
	}})
	m.section = adminSectionUsers
	m.uCursor = 1

	// 'd' only arms deletion in the users section.
	m, _ = m.Update(keyRunes("d"))
	if !m.deleting {
		t.Fatal("expected delete confirmation armed")
	}
	if !strings.Contains(m.View(), "delete this user?") {
		t.Errorf("expected confirm prompt, got:\n%s", m.View())
	}

	_, cmd := m.Update(keyRunes("y"))
	if cmd == nil {
		t.Fatal("expected a delete command from 'y'")
	}

	m, _ = m.Update(userDeletedMsg{id: "u2"})
	if len(m.users) != 1 || m.users[0].ID != "u1" {
		t.Errorf("expected only Alice to remain, got %+v", m.users)
	}
	if m.statusMsg != "user removed" {
		t.Errorf("expected removal note, got %q", m.statusMsg)
	}
}

func TestAdminDeleteIgnoredInProjectsSection(t *testing.T) {
	m := newTestAdminModel()
	m, _ = m.Update(adminProjectsMsg{projects: []domain.Project{{ID: "p1", Title: "X"}}})
	m, _ = m.Update(adminUsersMsg{users: []domain.User{{ID: "u1", Name: "Alice"}}})

	m, _ = m.Update(keyRunes("d"))
	if m.deleting {
		t.Error("expected 'd' to do nothing in the projects section")
	}
}
