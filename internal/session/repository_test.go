package session

import (
	"errors"
	"testing"
	"time"

	"peerprep/interview/internal/models"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*Repository, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	return NewRepository(clock), clock
}

func TestCreatePrependsAndActivates(t *testing.T) {
	repo, _ := newRepo(t)

	first := repo.Create(models.CandidateProfile{Name: "Ada Lovelace"})
	second := repo.Create(models.CandidateProfile{Name: "Alan Turing"})

	assert.NotEmpty(t, first.ID)
	assert.Equal(t, first.ID, first.Profile.ID)
	assert.Equal(t, models.StatusCollecting, first.Interview.Status)

	list := repo.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	active, ok := repo.Active()
	require.True(t, ok)
	assert.Equal(t, second.ID, active.ID)
}

func TestUnknownIDReturnsNotFound(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.Get("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.ErrorIs(t, repo.SetActive("missing"), ErrNotFound)
	assert.ErrorIs(t, repo.SetStatus("missing", models.StatusPaused), ErrNotFound)
	assert.ErrorIs(t, repo.Advance("missing"), ErrNotFound)
	_, err = repo.AppendMessage("missing", models.SenderSystem, models.KindSystem, "x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Reset("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatusTransitions(t *testing.T) {
	repo, clock := newRepo(t)
	rec := repo.Create(models.CandidateProfile{})

	err := repo.SetStatus(rec.ID, models.StatusInProgress)
	require.ErrorIs(t, err, ErrInvalidTransition)
	got, _ := repo.Get(rec.ID)
	assert.Equal(t, models.StatusCollecting, got.Interview.Status)

	require.NoError(t, repo.SetStatus(rec.ID, models.StatusAwaitingStart))
	require.NoError(t, repo.SetStatus(rec.ID, models.StatusInProgress))
	got, _ = repo.Get(rec.ID)
	require.NotNil(t, got.Interview.StartedAt)
	startedAt := *got.Interview.StartedAt

	clock.Advance(time.Minute)
	require.NoError(t, repo.SetStatus(rec.ID, models.StatusPaused))
	require.NoError(t, repo.SetStatus(rec.ID, models.StatusPaused))
	require.NoError(t, repo.SetStatus(rec.ID, models.StatusInProgress))
	got, _ = repo.Get(rec.ID)
	assert.Equal(t, startedAt, *got.Interview.StartedAt, "startedAt is only stamped once")

	require.NoError(t, repo.SetStatus(rec.ID, models.StatusCompleted))
	got, _ = repo.Get(rec.ID)
	require.NotNil(t, got.Interview.CompletedAt)

	assert.ErrorIs(t, repo.SetStatus(rec.ID, models.StatusInProgress), ErrInvalidTransition)
}

func TestMutationsRefreshUpdatedAtAndRevision(t *testing.T) {
	repo, clock := newRepo(t)
	rec := repo.Create(models.CandidateProfile{})
	rev := repo.Revision()

	clock.Advance(5 * time.Second)
	require.NoError(t, repo.SetProfileField(rec.ID, models.FieldEmail, "ada@example.com"))

	got, _ := repo.Get(rec.ID)
	assert.Equal(t, "ada@example.com", got.Profile.Email)
	assert.True(t, got.UpdatedAt.After(rec.UpdatedAt))
	assert.Greater(t, repo.Revision(), rev)
}

func TestQuestionsAnswersAndAdvance(t *testing.T) {
	repo, clock := newRepo(t)
	rec := repo.Create(models.CandidateProfile{})

	qs := []models.InterviewQuestion{{ID: "q1", Difficulty: models.Easy}, {ID: "q2", Difficulty: models.Easy}}
	require.NoError(t, repo.SetQuestions(rec.ID, qs))

	start := clock.Now()
	require.NoError(t, repo.SetTimer(rec.ID, &models.ActiveTimerState{QuestionID: "q1", StartedAt: &start, Duration: 20 * time.Second}))
	require.NoError(t, repo.RecordAnswer(rec.ID, models.AnswerRecord{QuestionID: "q1", Score: 7}))
	require.NoError(t, repo.Advance(rec.ID))

	got, _ := repo.Get(rec.ID)
	assert.Equal(t, 1, got.Interview.CurrentQuestionIndex)
	assert.Len(t, got.Interview.Answers, got.Interview.CurrentQuestionIndex)
	assert.Nil(t, got.Interview.ActiveTimer)

	require.NoError(t, repo.SetQuestions(rec.ID, qs))
	got, _ = repo.Get(rec.ID)
	assert.Equal(t, 0, got.Interview.CurrentQuestionIndex)
	assert.Empty(t, got.Interview.Answers)
}

func TestReadsAreCopies(t *testing.T) {
	repo, _ := newRepo(t)
	rec := repo.Create(models.CandidateProfile{})
	_, err := repo.AppendMessage(rec.ID, models.SenderAssistant, models.KindInfo, "hello")
	require.NoError(t, err)

	got, _ := repo.Get(rec.ID)
	got.ChatHistory[0].Content = "tampered"
	got.Profile.Name = "tampered"

	again, _ := repo.Get(rec.ID)
	assert.Equal(t, "hello", again.ChatHistory[0].Content)
	assert.Empty(t, again.Profile.Name)
}

func TestResetKeepsIdentity(t *testing.T) {
	repo, _ := newRepo(t)
	rec := repo.Create(models.CandidateProfile{Name: "Ada Lovelace", Email: "ada@example.com"})
	_, _ = repo.AppendMessage(rec.ID, models.SenderAssistant, models.KindInfo, "hi")
	require.NoError(t, repo.SetSummary(rec.ID, models.CandidateSummary{OverallScore: 80}))
	require.NoError(t, repo.SetWelcomeBack(rec.ID))

	got, err := repo.Reset(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "Ada Lovelace", got.Profile.Name)
	assert.Empty(t, got.ChatHistory)
	assert.Nil(t, got.Summary)
	assert.Equal(t, models.StatusCollecting, got.Interview.Status)
	assert.Empty(t, repo.WelcomeBack())
}

func TestSetActiveClear(t *testing.T) {
	repo, _ := newRepo(t)
	repo.Create(models.CandidateProfile{})

	require.NoError(t, repo.SetActive(""))
	_, ok := repo.Active()
	assert.False(t, ok)
}

func TestSnapshotRestore(t *testing.T) {
	repo, clock := newRepo(t)
	a := repo.Create(models.CandidateProfile{Name: "Ada Lovelace"})
	b := repo.Create(models.CandidateProfile{Name: "Alan Turing"})
	require.NoError(t, repo.SetWelcomeBack(a.ID))

	snap := repo.Snapshot()
	assert.Equal(t, SchemaVersion, snap.SchemaVersion)

	restored := NewRepository(clock)
	require.NoError(t, restored.Restore(snap))

	list := restored.List()
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, restored.WelcomeBack())
	active, ok := restored.Active()
	require.True(t, ok)
	assert.Equal(t, b.ID, active.ID)
	assert.Equal(t, repo.Revision(), restored.Revision())

	snap.SchemaVersion = "interview.v0"
	assert.ErrorIs(t, restored.Restore(snap), ErrSchemaMismatch)
}

func TestRestoreDropsDanglingIDs(t *testing.T) {
	repo, _ := newRepo(t)
	err := repo.Restore(&Snapshot{
		SchemaVersion: SchemaVersion,
		Order:         []string{"gone", "c1"},
		ActiveID:      "gone",
		Records: map[string]*models.CandidateRecord{
			"c1": {ID: "c1", Interview: models.NewInterview()},
			"c2": {ID: "c2", Interview: models.NewInterview()},
		},
	})
	require.NoError(t, err)

	list := repo.List()
	require.Len(t, list, 2)
	assert.Equal(t, "c1", list[0].ID)
	assert.Equal(t, "c2", list[1].ID)
	assert.Empty(t, repo.ActiveID())
}
