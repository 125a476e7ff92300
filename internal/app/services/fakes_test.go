package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/repositories"
	"github.com/yigit/campusfeedback/internal/pkg/academic"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
	"github.com/yigit/campusfeedback/internal/pkg/feedbackstats"
)

// In-memory stores used by the service tests.

func testDurations() *academic.DurationResolver {
	return academic.NewDurationResolver(nil, map[string]int{"BTECH": 4, "MBA": 2}, 4, zerolog.Nop())
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type fakeStudents struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Student
}

func newFakeStudents(students ...*models.Student) *fakeStudents {
	f := &fakeStudents{byID: map[int64]*models.Student{}}
	for _, s := range students {
		f.nextID++
		if s.ID == 0 {
			s.ID = f.nextID
		}
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeStudents) List(_ context.Context, p repositories.StudentListParams) ([]*models.Student, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Student{}
	for _, s := range f.byID {
		if p.Program != "" && s.Program != p.Program {
			continue
		}
		if p.ActiveOnly && !s.IsActive {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RollNo < out[j].RollNo })
	return out, int64(len(out)), nil
}

func (f *fakeStudents) GetByID(_ context.Context, id int64) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStudents) GetByRollNo(_ context.Context, rollNo string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.byID {
		if strings.EqualFold(s.RollNo, strings.TrimSpace(rollNo)) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudents) Create(_ context.Context, s *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s.ID = f.nextID
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeStudents) Update(_ context.Context, s *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[s.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeStudents) Upsert(ctx context.Context, s *models.Student) (bool, error) {
	if existing, err := f.GetByRollNo(ctx, s.RollNo); err == nil {
		s.ID = existing.ID
		return false, f.Update(ctx, s)
	}
	return true, f.Create(ctx, s)
}

func (f *fakeStudents) Deactivate(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	s.IsActive = false
	return nil
}

func (f *fakeStudents) SetPassword(_ context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	s.PasswordHash = &hash
	return nil
}

func (f *fakeStudents) CountActive(_ context.Context, program, branch string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.byID {
		if s.IsActive && s.Program == program && s.Branch == branch {
			n++
		}
	}
	return n, nil
}

type fakeStaff struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.StaffAccount
}

func newFakeStaff(accounts ...*models.StaffAccount) *fakeStaff {
	f := &fakeStaff{byID: map[int64]*models.StaffAccount{}}
	for _, a := range accounts {
		f.nextID++
		a.ID = f.nextID
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeStaff) GetByID(_ context.Context, id int64) (*models.StaffAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrStaffNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStaff) GetByLogin(_ context.Context, login string) (*models.StaffAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	login = strings.ToLower(strings.TrimSpace(login))
	for _, a := range f.byID {
		if a.Username == login || strings.ToLower(a.Email) == login {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperrors.ErrStaffNotFound
}

func (f *fakeStaff) ListByRole(_ context.Context, role models.Role, activeOnly bool) ([]*models.StaffAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.StaffAccount{}
	for _, a := range f.byID {
		if a.Role == role && (!activeOnly || a.IsActive) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStaff) Create(_ context.Context, a *models.StaffAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Username == a.Username || existing.Email == a.Email {
			return apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, "Staff account already exists")
		}
	}
	f.nextID++
	a.ID = f.nextID
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeStaff) Update(_ context.Context, a *models.StaffAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.byID[a.ID]
	if !ok {
		return apperrors.ErrStaffNotFound
	}
	a.PasswordHash = existing.PasswordHash
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeStaff) UpsertHOD(ctx context.Context, a *models.StaffAccount) (bool, error) {
	if existing, err := f.GetByLogin(ctx, a.Email); err == nil {
		a.ID = existing.ID
		return false, f.Update(ctx, a)
	}
	return true, f.Create(ctx, a)
}

func (f *fakeStaff) UpdatePassword(_ context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return apperrors.ErrStaffNotFound
	}
	a.PasswordHash = hash
	return nil
}

func (f *fakeStaff) Deactivate(_ context.Context, id int64, role models.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok || a.Role != role {
		return apperrors.ErrStaffNotFound
	}
	a.IsActive = false
	return nil
}

type fakeTokens struct {
	mu     sync.Mutex
	tokens map[string]*repositories.RefreshToken
	revoke map[string]bool
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{tokens: map[string]*repositories.RefreshToken{}, revoke: map[string]bool{}}
}

func (f *fakeTokens) CreateToken(_ context.Context, token string, subjectID int64, role models.Role, expiry time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = &repositories.RefreshToken{SubjectID: subjectID, Role: role, ExpiryDate: expiry}
	return nil
}

func (f *fakeTokens) GetToken(_ context.Context, token string, now time.Time) (*repositories.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	switch {
	case !ok:
		return nil, apperrors.ErrTokenNotFound
	case f.revoke[token]:
		return nil, apperrors.ErrTokenRevoked
	case now.After(t.ExpiryDate):
		return nil, apperrors.ErrTokenExpired
	}
	return t, nil
}

func (f *fakeTokens) RevokeToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tokens[token]; !ok {
		return apperrors.ErrTokenNotFound
	}
	f.revoke[token] = true
	return nil
}

func (f *fakeTokens) RevokeAll(_ context.Context, subjectID int64, role models.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for tok, t := range f.tokens {
		if t.SubjectID == subjectID && t.Role == role {
			f.revoke[tok] = true
		}
	}
	return nil
}

type resetToken struct {
	staffID int64
	expiry  time.Time
	used    bool
}

type fakeResetTokens struct {
	mu     sync.Mutex
	tokens map[string]*resetToken
	last   string
}

func newFakeResetTokens() *fakeResetTokens {
	return &fakeResetTokens{tokens: map[string]*resetToken{}}
}

func (f *fakeResetTokens) CreateToken(_ context.Context, staffID int64, token string, expiry time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = &resetToken{staffID: staffID, expiry: expiry}
	f.last = token
	return nil
}

func (f *fakeResetTokens) ConsumeToken(_ context.Context, token string, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	switch {
	case !ok:
		return 0, apperrors.ErrTokenNotFound
	case t.used:
		return 0, apperrors.ErrPasswordResetTokenUsed
	case now.After(t.expiry):
		return 0, apperrors.ErrTokenExpired
	}
	t.used = true
	return t.staffID, nil
}

func (f *fakeResetTokens) DeleteTokensByStaffID(_ context.Context, staffID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for tok, t := range f.tokens {
		if t.staffID == staffID {
			delete(f.tokens, tok)
		}
	}
	return nil
}

type fakeWindows struct {
	mu     sync.Mutex
	nextID int64
	rows   []*models.FeedbackWindow
}

func (f *fakeWindows) add(w *models.FeedbackWindow) *models.FeedbackWindow {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	w.ID = f.nextID
	f.rows = append(f.rows, w)
	return w
}

func (f *fakeWindows) matches(w *models.FeedbackWindow, filter repositories.WindowFilter) bool {
	if filter.Program != "" && w.Program != filter.Program {
		return false
	}
	if filter.Branch != "" && w.Branch != filter.Branch {
		return false
	}
	if filter.Year > 0 && w.Year != filter.Year {
		return false
	}
	if len(filter.Semesters) > 0 {
		found := false
		for _, s := range filter.Semesters {
			found = found || s == w.Semester
		}
		if !found {
			return false
		}
	}
	if filter.AcademicYear != "" && w.AcademicYear != filter.AcademicYear {
		return false
	}
	return filter.Status == "" || w.Status == filter.Status
}

func (f *fakeWindows) List(_ context.Context, filter repositories.WindowFilter) ([]*models.FeedbackWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.FeedbackWindow{}
	for _, w := range f.rows {
		if f.matches(w, filter) {
			cp := *w
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeWindows) GetByID(_ context.Context, id int64) (*models.FeedbackWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.rows {
		if w.ID == id {
			cp := *w
			return &cp, nil
		}
	}
	return nil, apperrors.ErrWindowNotFound
}

func (f *fakeWindows) Latest(_ context.Context, filter repositories.WindowFilter, excludeDrafts bool) (*models.FeedbackWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *models.FeedbackWindow
	for _, w := range f.rows {
		if !f.matches(w, filter) || (excludeDrafts && w.Status == models.WindowDraft) {
			continue
		}
		if best == nil || w.StartDate.After(best.StartDate) || (w.StartDate.Equal(best.StartDate) && w.ID > best.ID) {
			best = w
		}
	}
	if best == nil {
		return nil, apperrors.ErrWindowNotFound
	}
	cp := *best
	return &cp, nil
}

func (f *fakeWindows) Save(_ context.Context, w *models.FeedbackWindow, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var live *models.FeedbackWindow
	for _, row := range f.rows {
		if row.Program != w.Program || row.Branch != w.Branch || row.Year != w.Year || row.Semester != w.Semester {
			continue
		}
		if row.Status == models.WindowOpen && row.EndDate.Before(now) {
			row.Status = models.WindowClosed
			end := row.EndDate
			row.ClosedAt = &end
		}
		if row.Status != models.WindowClosed {
			live = row
		}
	}

	if live != nil {
		if w.Status == models.WindowDraft && live.Status == models.WindowOpen {
			return false, apperrors.NewConflictError("a published feedback window already exists for this semester")
		}
		w.ID = live.ID
		*live = *w
		return true, nil
	}
	f.nextID++
	w.ID = f.nextID
	cp := *w
	f.rows = append(f.rows, &cp)
	return false, nil
}

func (f *fakeWindows) Close(_ context.Context, id int64, now time.Time) (*models.FeedbackWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.rows {
		if w.ID != id {
			continue
		}
		if w.Status == models.WindowClosed {
			return nil, apperrors.ErrWindowAlreadyClosed
		}
		w.Status = models.WindowClosed
		w.ClosedAt = &now
		if w.EndDate.After(now) {
			w.EndDate = now
		}
		if w.EndDate.Before(w.StartDate) {
			w.EndDate = w.StartDate
		}
		cp := *w
		return &cp, nil
	}
	return nil, apperrors.ErrWindowNotFound
}

func (f *fakeWindows) CountLive(_ context.Context, program, branch string, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, w := range f.rows {
		if w.Program == program && w.Branch == branch && w.State(now).AcceptingResponses() {
			n++
		}
	}
	return n, nil
}

type fakeMaps struct {
	mu   sync.Mutex
	rows []*models.SubjectMap
}

func (f *fakeMaps) List(_ context.Context, filter repositories.SubjectMapFilter) ([]*models.SubjectMap, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.SubjectMap{}
	for _, m := range f.rows {
		if !m.IsActive ||
			(filter.Program != "" && m.Program != filter.Program) ||
			(filter.Branch != "" && m.Branch != filter.Branch) ||
			(filter.AdmittedYear > 0 && m.AdmittedYear != filter.AdmittedYear) ||
			(filter.Year > 0 && m.Year != filter.Year) ||
			(filter.Semester > 0 && m.Semester != filter.Semester) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeMaps) GetByID(_ context.Context, id int64) (*models.SubjectMap, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.rows {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, apperrors.ErrSubjectMapNotFound
}

func (f *fakeMaps) Upsert(_ context.Context, m *models.SubjectMap) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Program == m.Program && row.Branch == m.Branch && row.AdmittedYear == m.AdmittedYear &&
			row.Semester == m.Semester && row.SubjectID == m.SubjectID {
			m.ID = row.ID
			*row = *m
			return false, nil
		}
	}
	m.ID = int64(len(f.rows) + 1)
	cp := *m
	f.rows = append(f.rows, &cp)
	return true, nil
}

func (f *fakeMaps) Update(_ context.Context, m *models.SubjectMap) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == m.ID {
			*row = *m
			return nil
		}
	}
	return apperrors.ErrSubjectMapNotFound
}

func (f *fakeMaps) Deactivate(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id {
			row.IsActive = false
			return nil
		}
	}
	return apperrors.ErrSubjectMapNotFound
}

type fakeQuestions struct {
	rows []*models.FeedbackQuestion
}

func (f *fakeQuestions) ListActive(context.Context) ([]*models.FeedbackQuestion, error) {
	out := []*models.FeedbackQuestion{}
	for _, q := range f.rows {
		if q.IsActive {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestions) ReplaceAll(_ context.Context, questions []*models.FeedbackQuestion) error {
	keep := map[int64]bool{}
	for _, q := range questions {
		if q.ID == 0 {
			continue
		}
		found := false
		for _, row := range f.rows {
			if row.ID == q.ID {
				found = true
			}
		}
		if !found {
			return apperrors.NewCustomError(apperrors.ErrQuestionNotFound, "feedback question not found")
		}
		keep[q.ID] = true
	}
	for _, row := range f.rows {
		if !keep[row.ID] {
			row.IsActive = false
		}
	}
	for _, q := range questions {
		if q.ID == 0 {
			q.ID = int64(len(f.rows) + 1)
			f.rows = append(f.rows, q)
			continue
		}
		for i, row := range f.rows {
			if row.ID == q.ID {
				f.rows[i] = q
			}
		}
	}
	return nil
}

type fakeFeedback struct {
	mu   sync.Mutex
	rows []*models.Feedback
}

func (f *fakeFeedback) Create(_ context.Context, fb *models.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.StudentID == fb.StudentID && row.SubjectMapID == fb.SubjectMapID && row.WindowID == fb.WindowID {
			return apperrors.ErrFeedbackAlreadyExists
		}
	}
	fb.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, fb)
	return nil
}

func (f *fakeFeedback) Exists(_ context.Context, studentID, subjectMapID, windowID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.StudentID == studentID && row.SubjectMapID == subjectMapID && row.WindowID == windowID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFeedback) SubmittedMapIDs(_ context.Context, studentID, windowID int64) (map[int64]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[int64]bool{}
	for _, row := range f.rows {
		if row.StudentID == studentID && row.WindowID == windowID {
			out[row.SubjectMapID] = true
		}
	}
	return out, nil
}

func (f *fakeFeedback) Submissions(_ context.Context, subjectMapID, windowID int64) ([]feedbackstats.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []feedbackstats.Submission{}
	for _, row := range f.rows {
		if row.SubjectMapID != subjectMapID || row.WindowID != windowID {
			continue
		}
		sub := feedbackstats.Submission{}
		for _, r := range row.Responses {
			sub.Responses = append(sub.Responses, feedbackstats.Response{QuestionID: r.QuestionID, Criteria: r.Criteria, Rating: r.Rating})
		}
		out = append(out, sub)
	}
	return out, nil
}

type sentMail struct {
	to, token string
	welcome   bool
}

type fakeMailer struct {
	sent []sentMail
}

func (m *fakeMailer) SendAccountCreatedEmail(toEmail, _, _, token string) error {
	m.sent = append(m.sent, sentMail{to: toEmail, token: token, welcome: true})
	return nil
}

func (m *fakeMailer) SendPasswordResetEmail(toEmail, _, token string) error {
	m.sent = append(m.sent, sentMail{to: toEmail, token: token})
	return nil
}

type fakeRecorder struct {
	entity            string
	succeeded, failed int
}

func (r *fakeRecorder) BulkItems(entity string, succeeded, failed int) {
	r.entity, r.succeeded, r.failed = entity, succeeded, failed
}

type countingSubmissions struct {
	n int
}

func (c *countingSubmissions) FeedbackSubmitted() { c.n++ }
