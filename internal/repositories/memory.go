package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

// In-memory repository implementations backing unit tests and local
// experimentation. Semantics mirror the Postgres implementations,
// including the exactly-one evidence detach and the idempotent
// escalation sweep.

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]models.User

	Now func() time.Time
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[uuid.UUID]models.User),
		Now:   time.Now,
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return utils.ErrEmailExists
		}
	}
	now := r.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r *MemoryUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return utils.ErrNotFound
	}
	for id, u := range r.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return utils.ErrEmailExists
		}
	}
	user.UpdatedAt = r.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return utils.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *MemoryUserRepository) TouchActivity(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	now := r.Now()
	u.RecentActivity = &now
	r.users[id] = u
	return nil
}

func (r *MemoryUserRepository) Search(_ context.Context, c dtos.UserCriteria) ([]models.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []models.User{}
	for _, u := range r.users {
		if c.Name != "" && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(c.Name)) {
			continue
		}
		if len(c.RoleIn) > 0 && !containsString(c.RoleIn, string(u.Role)) {
			continue
		}
		matched = append(matched, u)
	}

	if c.NameDesc != nil {
		desc := *c.NameDesc
		sort.SliceStable(matched, func(i, j int) bool {
			if desc {
				return matched[i].Name > matched[j].Name
			}
			return matched[i].Name < matched[j].Name
		})
	} else {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	}

	total := len(matched)
	return paginate(matched, c.Page, c.PageSize), total, nil
}

func (r *MemoryUserRepository) nameOf(id uuid.UUID) (string, bool) {
	u, ok := r.users[id]
	return u.Name, ok
}

// ----------------------------------------------------------------

type MemoryIssueRepository struct {
	mu     sync.RWMutex
	issues map[uuid.UUID]models.Issue
	users  *MemoryUserRepository

	Now func() time.Time
}

func NewMemoryIssueRepository(users *MemoryUserRepository) *MemoryIssueRepository {
	return &MemoryIssueRepository{
		issues: make(map[uuid.UUID]models.Issue),
		users:  users,
		Now:    time.Now,
	}
}

func (r *MemoryIssueRepository) Create(_ context.Context, issue *models.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.Now()
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = now
	}
	issue.UpdatedAt = now
	r.issues[issue.ID] = *issue
	return nil
}

func (r *MemoryIssueRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	iss, ok := r.issues[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &iss, nil
}

func (r *MemoryIssueRepository) Update(_ context.Context, issue *models.Issue, trail *models.TrailEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.issues[issue.ID]
	if !ok {
		return utils.ErrNotFound
	}
	next := *issue
	next.CreatedAt = stored.CreatedAt
	next.UpdatedBy = append(append([]models.TrailEntry{}, stored.UpdatedBy...), issueTrail(trail)...)
	next.UpdatedAt = r.Now()
	r.issues[issue.ID] = next
	return nil
}

func issueTrail(trail *models.TrailEntry) []models.TrailEntry {
	if trail == nil {
		return nil
	}
	return []models.TrailEntry{*trail}
}

func (r *MemoryIssueRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.issues[id]; !ok {
		return utils.ErrNotFound
	}
	delete(r.issues, id)
	return nil
}

func (r *MemoryIssueRepository) AttachEvidence(_ context.Context, id uuid.UUID, phase models.EvidencePhase, urls []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	iss, ok := r.issues[id]
	if !ok {
		return utils.ErrNotFound
	}
	list, err := evidenceList(&iss, phase)
	if err != nil {
		return err
	}
	for _, u := range urls {
		if !containsString(*list, u) {
			*list = append(*list, u)
		}
	}
	iss.UpdatedAt = r.Now()
	r.issues[id] = iss
	return nil
}

func (r *MemoryIssueRepository) DetachEvidence(_ context.Context, id uuid.UUID, phase models.EvidencePhase, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	iss, ok := r.issues[id]
	if !ok {
		return utils.ErrNotFound
	}
	list, err := evidenceList(&iss, phase)
	if err != nil {
		return err
	}
	idx := -1
	for i, u := range *list {
		if u == url {
			idx = i
			break
		}
	}
	if idx < 0 {
		return utils.ErrConflict
	}
	*list = append((*list)[:idx], (*list)[idx+1:]...)
	iss.UpdatedAt = r.Now()
	r.issues[id] = iss
	return nil
}

func evidenceList(iss *models.Issue, phase models.EvidencePhase) (*[]string, error) {
	switch phase {
	case models.EvidenceBefore:
		return &iss.EvidencesBefore, nil
	case models.EvidenceAfter:
		return &iss.EvidencesAfter, nil
	default:
		return nil, utils.NewFieldError("phase", "unknown evidence phase")
	}
}

func (r *MemoryIssueRepository) EscalateAged(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, iss := range r.issues {
		if iss.IsPrioritized || iss.Status == models.StatusResolved {
			continue
		}
		if !iss.CreatedAt.Before(cutoff) {
			continue
		}
		iss.IsPrioritized = true
		iss.UpdatedAt = r.Now()
		r.issues[id] = iss
		n++
	}
	return n, nil
}

func (r *MemoryIssueRepository) matchRows(c dtos.IssueCriteria) []dtos.IssueRow {
	now := r.Now()
	rows := []dtos.IssueRow{}
	for _, iss := range r.issues {
		auditorName, ok := r.users.nameOf(iss.AuditorID)
		if !ok {
			continue
		}
		smName, ok := r.users.nameOf(iss.StationManagerID)
		if !ok {
			continue
		}
		row := dtos.IssueRow{
			Issue:              iss,
			AuditorName:        auditorName,
			StationManagerName: smName,
			ResolvedBy:         iss.ResolvedByID,
			DaysOpen:           daysOpen(iss, now),
		}
		if iss.ResolvedByID != nil {
			if name, ok := r.users.nameOf(*iss.ResolvedByID); ok {
				row.ResolvedByName = &name
			}
		}
		if !issueMatches(row, c) {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func daysOpen(iss models.Issue, now time.Time) int {
	end := now
	if iss.DateOfClosure != nil {
		end = *iss.DateOfClosure
	}
	return int(end.Sub(iss.DateIdentified).Hours() / 24)
}

func issueMatches(row dtos.IssueRow, c dtos.IssueCriteria) bool {
	if c.Code != "" && row.Code != c.Code {
		return false
	}
	if c.Date != nil && (row.Date.Before(c.Date.From) || row.Date.After(c.Date.To)) {
		return false
	}
	if c.DateIdentified != nil && (row.DateIdentified.Before(c.DateIdentified.From) || row.DateIdentified.After(c.DateIdentified.To)) {
		return false
	}
	if !containsFold(row.AuditorName, c.Auditor) {
		return false
	}
	if !containsFold(row.StationManagerName, c.StationManager) {
		return false
	}
	if !containsFold(row.Station, c.Station) {
		return false
	}
	if !containsFold(string(row.Status), c.Status) {
		return false
	}
	if !containsFold(string(row.Type), c.Type) {
		return false
	}
	if !containsFold(string(row.Region), c.Region) {
		return false
	}
	if len(c.StatusIn) > 0 && !containsString(c.StatusIn, string(row.Status)) {
		return false
	}
	if len(c.TypeIn) > 0 && !containsString(c.TypeIn, string(row.Type)) {
		return false
	}
	if len(c.RegionIn) > 0 && !containsString(c.RegionIn, string(row.Region)) {
		return false
	}
	return true
}

func sortIssueRows(rows []dtos.IssueRow, c dtos.IssueCriteria) {
	less := func(i, j dtos.IssueRow) bool { return i.CreatedAt.After(j.CreatedAt) }
	switch c.Sort {
	case dtos.SortByDate:
		less = func(i, j dtos.IssueRow) bool { return i.Date.Before(j.Date) }
	case dtos.SortByDateIdentified:
		less = func(i, j dtos.IssueRow) bool { return i.DateIdentified.Before(j.DateIdentified) }
	case dtos.SortByDaysOpen:
		less = func(i, j dtos.IssueRow) bool { return i.DaysOpen < j.DaysOpen }
	default:
		sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
		return
	}
	if c.Desc {
		sort.SliceStable(rows, func(i, j int) bool { return less(rows[j], rows[i]) })
	} else {
		sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	}
}

func (r *MemoryIssueRepository) Search(_ context.Context, c dtos.IssueCriteria) ([]dtos.IssueRow, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows := r.matchRows(c)
	sortIssueRows(rows, c)
	total := len(rows)
	return paginate(rows, c.Page, c.PageSize), total, nil
}

func (r *MemoryIssueRepository) Export(_ context.Context, c dtos.IssueCriteria) ([]dtos.IssueRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows := r.matchRows(c)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })
	return rows, nil
}

func (r *MemoryIssueRepository) Stats(_ context.Context, month *dtos.TimeRange) ([]dtos.RegionStatusStat, []dtos.RegionStatusTypeStat, []dtos.StatusStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	regionCounts := map[[2]string]int{}
	typeCounts := map[[3]string]int{}
	statusCounts := map[string]int{}
	for _, iss := range r.issues {
		if month != nil && (iss.Date.Before(month.From) || iss.Date.After(month.To)) {
			continue
		}
		regionCounts[[2]string{string(iss.Region), string(iss.Status)}]++
		typeCounts[[3]string{string(iss.Region), string(iss.Status), string(iss.Type)}]++
		statusCounts[string(iss.Status)]++
	}

	regionStats := []dtos.RegionStatusStat{}
	for k, n := range regionCounts {
		regionStats = append(regionStats, dtos.RegionStatusStat{Region: k[0], Status: k[1], Count: n})
	}
	sort.Slice(regionStats, func(i, j int) bool {
		if regionStats[i].Region != regionStats[j].Region {
			return regionStats[i].Region < regionStats[j].Region
		}
		return regionStats[i].Status < regionStats[j].Status
	})

	typeStats := []dtos.RegionStatusTypeStat{}
	for k, n := range typeCounts {
		typeStats = append(typeStats, dtos.RegionStatusTypeStat{Region: k[0], Status: k[1], Type: k[2], Count: n})
	}
	overall := []dtos.StatusStat{}
	for s, n := range statusCounts {
		overall = append(overall, dtos.StatusStat{Status: s, Count: n})
	}
	sort.Slice(overall, func(i, j int) bool { return overall[i].Status < overall[j].Status })

	return regionStats, typeStats, overall, nil
}

// ----------------------------------------------------------------

type MemoryInitiativeRepository struct {
	mu          sync.RWMutex
	initiatives map[uuid.UUID]models.Initiative
	users       *MemoryUserRepository

	Now func() time.Time
}

func NewMemoryInitiativeRepository(users *MemoryUserRepository) *MemoryInitiativeRepository {
	return &MemoryInitiativeRepository{
		initiatives: make(map[uuid.UUID]models.Initiative),
		users:       users,
		Now:         time.Now,
	}
}

func (r *MemoryInitiativeRepository) Create(_ context.Context, ini *models.Initiative) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.Now()
	if ini.CreatedAt.IsZero() {
		ini.CreatedAt = now
	}
	ini.UpdatedAt = now
	r.initiatives[ini.ID] = *ini
	return nil
}

func (r *MemoryInitiativeRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Initiative, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ini, ok := r.initiatives[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &ini, nil
}

func (r *MemoryInitiativeRepository) Update(_ context.Context, ini *models.Initiative) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.initiatives[ini.ID]
	if !ok {
		return utils.ErrNotFound
	}
	next := *ini
	next.CreatedAt = stored.CreatedAt
	next.UpdatedAt = r.Now()
	r.initiatives[ini.ID] = next
	return nil
}

func (r *MemoryInitiativeRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.initiatives[id]; !ok {
		return utils.ErrNotFound
	}
	delete(r.initiatives, id)
	return nil
}

func (r *MemoryInitiativeRepository) matchRows(c dtos.InitiativeCriteria) []dtos.InitiativeRow {
	rows := []dtos.InitiativeRow{}
	for _, ini := range r.initiatives {
		name, ok := r.users.nameOf(ini.AuditorID)
		if !ok {
			continue
		}
		if c.Code != "" && ini.Code != c.Code {
			continue
		}
		if c.Date != nil && (ini.Date.Before(c.Date.From) || ini.Date.After(c.Date.To)) {
			continue
		}
		if !containsFold(name, c.Auditor) ||
			!containsFold(ini.Station, c.Station) ||
			!containsFold(string(ini.Type), c.Type) ||
			!containsFold(string(ini.Region), c.Region) {
			continue
		}
		if len(c.TypeIn) > 0 && !containsString(c.TypeIn, string(ini.Type)) {
			continue
		}
		if len(c.RegionIn) > 0 && !containsString(c.RegionIn, string(ini.Region)) {
			continue
		}
		rows = append(rows, dtos.InitiativeRow{Initiative: ini, AuditorName: name})
	}
	return rows
}

func (r *MemoryInitiativeRepository) Search(_ context.Context, c dtos.InitiativeCriteria) ([]dtos.InitiativeRow, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.matchRows(c)

	if c.Sort == dtos.SortByDate {
		desc := c.Desc
		sort.SliceStable(rows, func(i, j int) bool {
			if desc {
				return rows[i].Date.After(rows[j].Date)
			}
			return rows[i].Date.Before(rows[j].Date)
		})
	} else {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	}

	total := len(rows)
	return paginate(rows, c.Page, c.PageSize), total, nil
}

func (r *MemoryInitiativeRepository) Export(_ context.Context, c dtos.InitiativeCriteria) ([]dtos.InitiativeRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows := r.matchRows(c)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })
	return rows, nil
}

// ----------------------------------------------------------------

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func paginate[T any](rows []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return rows
	}
	if page < 1 {
		page = 1
	}
	start := pageSize * (page - 1)
	if start >= len(rows) {
		return []T{}
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
