package videoaccess

import (
	"context"
	"testing"
	"time"

	sessionRepo "holistic/database/repository/session"
	userRepo "holistic/database/repository/user"
	"holistic/models"
	"holistic/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// ---- in-memory fakes -------------------------------------------------------

type fakeSessionStore struct {
	sessions map[string]*models.Session
}

func (f *fakeSessionStore) Create(ctx context.Context, s *models.Session) (string, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	f.sessions[s.ID] = s
	return s.ID, nil
}

func (f *fakeSessionStore) GetByID(ctx context.Context, id string) (*models.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, sessionRepo.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessionStore) Update(ctx context.Context, s *models.Session) error {
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionStore) UpdateStatus(ctx context.Context, id string, from []string, to string) (bool, error) {
	s, ok := f.sessions[id]
	if !ok {
		return false, nil
	}
	for _, st := range from {
		if s.Status == st {
			s.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSessionStore) AddParticipant(ctx context.Context, id string, p models.Participant) error {
	f.sessions[id].Participants = append(f.sessions[id].Participants, p)
	return nil
}

func (f *fakeSessionStore) RemoveParticipant(ctx context.Context, id, userID string) error {
	return nil
}

func (f *fakeSessionStore) GetByProfessional(ctx context.Context, professionalID, status string) ([]models.Session, error) {
	return nil, nil
}

func (f *fakeSessionStore) GetByParticipant(ctx context.Context, userID, status string) ([]models.Session, error) {
	return nil, nil
}

type fakeUserStore struct {
	users map[string]*models.User
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByIDWithProjection(ctx context.Context, id string, projection bson.M) (*models.User, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, userRepo.ErrNotFound
}

func (f *fakeUserStore) UpdateFCMToken(ctx context.Context, id, token string) error {
	return nil
}

type fakeLogStore struct {
	entries []models.VideoCallAccessLog
}

func (f *fakeLogStore) Append(ctx context.Context, e *models.VideoCallAccessLog) (string, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.CreatedAt = time.Now()
	f.entries = append(f.entries, *e)
	return e.ID, nil
}

func (f *fakeLogStore) GetBySession(ctx context.Context, sessionID string, limit, offset int64) ([]models.VideoCallAccessLog, error) {
	var out []models.VideoCallAccessLog
	for _, e := range f.entries {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLogStore) GetByUser(ctx context.Context, userID string, limit, offset int64) ([]models.VideoCallAccessLog, error) {
	return nil, nil
}

func (f *fakeLogStore) CountByType(ctx context.Context, sessionID, accessType string) (int64, error) {
	var n int64
	for _, e := range f.entries {
		if e.SessionID == sessionID && e.AccessType == accessType {
			n++
		}
	}
	return n, nil
}

func (f *fakeLogStore) last(t *testing.T) models.VideoCallAccessLog {
	t.Helper()
	if len(f.entries) == 0 {
		t.Fatal("expected at least one access log entry")
	}
	return f.entries[len(f.entries)-1]
}

// ---- fixtures --------------------------------------------------------------

const testSecret = "test-video-secret"

func newTestService() (*DefaultAccessService, *fakeSessionStore, *fakeLogStore) {
	sessions := &fakeSessionStore{sessions: map[string]*models.Session{}}
	users := &fakeUserStore{users: map[string]*models.User{
		"pro-1":    {ID: "pro-1", FullName: "Dr. Amal", Role: models.RoleProfessional},
		"client-1": {ID: "client-1", FullName: "Yasmine", Role: models.RoleClient},
		"client-2": {ID: "client-2", FullName: "Karim", Role: models.RoleClient},
	}}
	logs := &fakeLogStore{}

	svc := &DefaultAccessService{
		Sessions: sessions,
		Users:    users,
		Logs:     logs,
		Secret:   []byte(testSecret),
		TokenTTL: 2 * time.Hour,
	}
	return svc, sessions, logs
}

func liveSession() *models.Session {
	now := time.Now()
	return &models.Session{
		ID:              "sess-1",
		Title:           "Méditation guidée",
		ProfessionalID:  "pro-1",
		StartTime:       now.Add(-10 * time.Minute),
		EndTime:         now.Add(50 * time.Minute),
		Duration:        60,
		Status:          models.SessionInProgress,
		MaxParticipants: 5,
		Participants: []models.Participant{
			{UserID: "client-1", Name: "Yasmine", Role: models.RoleClient, JoinedAt: now},
		},
	}
}

// ---- tests -----------------------------------------------------------------

func TestIssueTokenUnlistedUserDenied(t *testing.T) {
	svc, sessions, logs := newTestService()
	sessions.sessions["sess-1"] = liveSession()

	grant, err := svc.IssueToken(context.Background(), "client-2", "sess-1", RequestMeta{IP: "10.0.0.2"})
	if err != ErrAccessDenied {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if grant != nil {
		t.Fatal("denied request must not carry a token")
	}

	entry := logs.last(t)
	if entry.AccessType != models.AccessDenied {
		t.Errorf("expected denied log entry, got %q", entry.AccessType)
	}
	if entry.Flags.UserAuthorized {
		t.Error("userAuthorized flag should be false for an unlisted user")
	}
	if entry.Flags.TokenValid {
		t.Error("tokenValid flag should be false when no token was minted")
	}
}

func TestIssueThenVerifySucceeds(t *testing.T) {
	svc, sessions, logs := newTestService()
	sessions.sessions["sess-1"] = liveSession()

	grant, err := svc.IssueToken(context.Background(), "client-1", "sess-1", RequestMeta{})
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	if grant.Token == "" {
		t.Fatal("expected a signed token")
	}
	if grant.Session.ID != "sess-1" || grant.User.ID != "client-1" {
		t.Errorf("grant carries wrong identities: %+v", grant)
	}
	if entry := logs.last(t); entry.AccessType != models.AccessJoin || !entry.Flags.AllGranted() {
		t.Errorf("expected fully granted join entry, got %+v", entry)
	}

	result, err := svc.VerifyToken(context.Background(), grant.Token, RequestMeta{})
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("fresh token must verify, got message %q", result.Message)
	}
	if entry := logs.last(t); entry.AccessType != models.AccessVerify {
		t.Errorf("expected verify entry, got %q", entry.AccessType)
	}
}

func TestVerifyFailsAfterCancellation(t *testing.T) {
	svc, sessions, logs := newTestService()
	sessions.sessions["sess-1"] = liveSession()

	grant, err := svc.IssueToken(context.Background(), "client-1", "sess-1", RequestMeta{})
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	// Out-of-band cancellation: the token itself is still cryptographically valid.
	sessions.sessions["sess-1"].Status = models.SessionCancelled

	result, err := svc.VerifyToken(context.Background(), grant.Token, RequestMeta{})
	if err != nil {
		t.Fatalf("VerifyToken errored: %v", err)
	}
	if result.Success {
		t.Fatal("token for a cancelled session must fail verification")
	}

	entry := logs.last(t)
	if entry.AccessType != models.AccessSecurityViolation {
		t.Errorf("expected security_violation entry, got %q", entry.AccessType)
	}
	if entry.Flags.SessionActive {
		t.Error("sessionActive flag should be false after cancellation")
	}
	if !entry.Flags.TokenValid {
		t.Error("tokenValid flag should remain true: the signature still holds")
	}
}

func TestIssueTokenOutsideWindowDenied(t *testing.T) {
	svc, sessions, logs := newTestService()
	sess := liveSession()
	sess.StartTime = time.Now().Add(2 * time.Hour)
	sess.EndTime = time.Now().Add(3 * time.Hour)
	sess.Status = models.SessionScheduled
	sessions.sessions["sess-1"] = sess

	_, err := svc.IssueToken(context.Background(), "client-1", "sess-1", RequestMeta{})
	if err != ErrAccessDenied {
		t.Fatalf("expected ErrAccessDenied outside the access window, got %v", err)
	}
	if entry := logs.last(t); entry.Flags.TimeWithinWindow {
		t.Error("timeWithinWindow flag should be false two hours before start")
	}
}

func TestIssueTokenUnknownSession(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.IssueToken(context.Background(), "client-1", "missing", RequestMeta{})
	if err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestVerifyGarbageTokenLogsViolation(t *testing.T) {
	svc, sessions, logs := newTestService()
	sessions.sessions["sess-1"] = liveSession()

	result, err := svc.VerifyToken(context.Background(), "not-a-jwt", RequestMeta{})
	if err != nil {
		t.Fatalf("VerifyToken errored: %v", err)
	}
	if result.Success {
		t.Fatal("garbage token must not verify")
	}

	entry := logs.last(t)
	if entry.AccessType != models.AccessSecurityViolation {
		t.Errorf("expected security_violation entry, got %q", entry.AccessType)
	}
	if entry.Flags.TokenValid {
		t.Error("tokenValid flag should be false for an unparsable token")
	}
}

func TestVerifyTokenSignedWithWrongSecret(t *testing.T) {
	svc, sessions, _ := newTestService()
	sess := liveSession()
	sessions.sessions["sess-1"] = sess

	forged, _, err := MintToken(sess, "client-1", models.RoleClient, time.Hour, []byte("other-secret"))
	if err != nil {
		t.Fatalf("MintToken failed: %v", err)
	}

	result, err := svc.VerifyToken(context.Background(), forged, RequestMeta{})
	if err != nil {
		t.Fatalf("VerifyToken errored: %v", err)
	}
	if result.Success {
		t.Fatal("token signed with a foreign secret must not verify")
	}
}

func TestTokenExpiryCappedAtWindowEnd(t *testing.T) {
	sess := liveSession()
	_, exp, err := MintToken(sess, "client-1", models.RoleClient, 24*time.Hour, []byte(testSecret))
	if err != nil {
		t.Fatalf("MintToken failed: %v", err)
	}

	windowEnd := sess.EndTime.Add(utils.AccessWindowGrace)
	if exp.After(windowEnd.Add(time.Second)) {
		t.Errorf("token expiry %v exceeds access window end %v", exp, windowEnd)
	}
}

func TestReportLeaveAppendsLeaveEntry(t *testing.T) {
	svc, sessions, logs := newTestService()
	sessions.sessions["sess-1"] = liveSession()

	if err := svc.ReportLeave(context.Background(), "client-1", "sess-1", RequestMeta{IP: "10.0.0.9"}); err != nil {
		t.Fatalf("ReportLeave failed: %v", err)
	}

	entry := logs.last(t)
	if entry.AccessType != models.AccessLeave {
		t.Errorf("expected leave entry, got %q", entry.AccessType)
	}
	if entry.Role != models.RoleClient {
		t.Errorf("expected participant role on leave entry, got %q", entry.Role)
	}
}

func TestGetSessionLogsAuthorization(t *testing.T) {
	svc, sessions, logs := newTestService()
	sessions.sessions["sess-1"] = liveSession()
	logs.Append(context.Background(), &models.VideoCallAccessLog{SessionID: "sess-1", AccessType: models.AccessJoin})

	if _, err := svc.GetSessionLogs(context.Background(), "client-1", models.RoleClient, "sess-1", 50, 0); err != ErrAccessDenied {
		t.Fatalf("expected ErrAccessDenied for non-owner, got %v", err)
	}

	entries, err := svc.GetSessionLogs(context.Background(), "pro-1", models.RoleProfessional, "sess-1", 50, 0)
	if err != nil {
		t.Fatalf("GetSessionLogs failed for owner: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}
