package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/repositories"
	"github.com/iAmmar7/api-audit-rail/internal/storage"
)

// testEnv wires the service layer against the in-memory repositories.
type testEnv struct {
	users  *repositories.MemoryUserRepository
	issues *repositories.MemoryIssueRepository
	inis   *repositories.MemoryInitiativeRepository
	blobs  *storage.MemoryStore

	auditor dtos.Actor
	sm      dtos.Actor
	admin   dtos.Actor
	viewer  dtos.Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := repositories.NewMemoryUserRepository()
	env := &testEnv{
		users:  users,
		issues: repositories.NewMemoryIssueRepository(users),
		inis:   repositories.NewMemoryInitiativeRepository(users),
		blobs:  storage.NewMemoryStore(),
	}

	env.auditor = env.addUser(t, "Asha Auditor", "asha@example.com", models.RoleAuditor)
	env.sm = env.addUser(t, "Sami Manager", "sami@example.com", models.RoleStationManager)
	env.admin = env.addUser(t, "Adil Admin", "adil@example.com", models.RoleAdmin)
	env.viewer = env.addUser(t, "Vera Viewer", "vera@example.com", models.RoleViewer)
	return env
}

func (e *testEnv) addUser(t *testing.T, name, email string, role models.RoleType) dtos.Actor {
	t.Helper()
	u := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return dtos.Actor{ID: u.ID, Name: u.Name, Role: u.Role}
}

// addIssue stores an issue owned by the env's auditor/sm pair with
// sensible defaults, applying any overrides first.
func (e *testEnv) addIssue(t *testing.T, mutate func(*models.Issue)) *models.Issue {
	t.Helper()
	now := time.Now()
	iss := &models.Issue{
		ID:               uuid.New(),
		Code:             "code" + uuid.NewString()[:4],
		AuditorID:        e.auditor.ID,
		StationManagerID: e.sm.ID,
		Date:             now.AddDate(0, 0, -1),
		DateIdentified:   now.AddDate(0, 0, -2),
		Region:           models.RegionWRNorth,
		Type:             models.TypeHousekeeping,
		Station:          "Station A",
		Details:          "dusty platform",
		EvidencesBefore:  []string{},
		EvidencesAfter:   []string{},
		Status:           models.StatusPending,
		UpdatedBy:        []models.TrailEntry{},
	}
	if mutate != nil {
		mutate(iss)
	}
	require.NoError(t, e.issues.Create(context.Background(), iss))
	return iss
}

func bytesReader(s string) io.Reader {
	return strings.NewReader(s)
}
