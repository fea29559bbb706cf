package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/timbersport/ranking-system/models"
	"github.com/timbersport/ranking-system/repositories"
)

// fakeStore is shared in-memory state backing the fake repositories, so
// one test can wire several repositories over the same data set.
type fakeStore struct {
	competitors []models.Competitor
	tournaments []models.Tournament
	results     []models.TournamentResult

	nextCompetitorID int
	nextTournamentID int
	nextResultID     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextCompetitorID: 1,
		nextTournamentID: 1,
		nextResultID:     1,
	}
}

func (s *fakeStore) snapshot() fakeStore {
	copied := *s
	copied.competitors = append([]models.Competitor(nil), s.competitors...)
	copied.tournaments = append([]models.Tournament(nil), s.tournaments...)
	copied.results = append([]models.TournamentResult(nil), s.results...)
	return copied
}

func (s *fakeStore) restore(snap fakeStore) {
	*s = snap
}

// fakeTxManager restores the store when the batch fails, mimicking a
// rolled-back transaction. onRollback lets a test replay writes that a
// concurrent, already-committed transaction would have survived with.
type fakeTxManager struct {
	store      *fakeStore
	onRollback func()
}

func (m *fakeTxManager) Do(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	snap := m.store.snapshot()
	if err := fn(nil); err != nil {
		m.store.restore(snap)
		if m.onRollback != nil {
			m.onRollback()
		}
		return err
	}
	return nil
}

type fakeCompetitorRepo struct {
	store *fakeStore
}

func (r *fakeCompetitorRepo) Create(_ context.Context, _ repositories.SQLExecutor, c *models.Competitor) error {
	for _, existing := range r.store.competitors {
		if strings.EqualFold(existing.Name, c.Name) {
			return repositories.ErrCompetitorNameConflict
		}
		if existing.Email != nil && c.Email != nil && strings.EqualFold(*existing.Email, *c.Email) {
			return repositories.ErrCompetitorEmailConflict
		}
	}
	c.ID = r.store.nextCompetitorID
	r.store.nextCompetitorID++
	c.CreatedAt = time.Now()
	r.store.competitors = append(r.store.competitors, *c)
	return nil
}

func (r *fakeCompetitorRepo) GetByID(_ context.Context, id int) (*models.Competitor, error) {
	for _, c := range r.store.competitors {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, repositories.ErrCompetitorNotFound
}

func (r *fakeCompetitorRepo) FindByEmail(_ context.Context, _ repositories.SQLExecutor, email string) (*models.Competitor, error) {
	for _, c := range r.store.competitors {
		if c.Email != nil && strings.EqualFold(*c.Email, email) {
			found := c
			return &found, nil
		}
	}
	return nil, repositories.ErrCompetitorNotFound
}

func (r *fakeCompetitorRepo) FindByName(_ context.Context, _ repositories.SQLExecutor, name string) (*models.Competitor, error) {
	for _, c := range r.store.competitors {
		if strings.EqualFold(c.Name, name) {
			found := c
			return &found, nil
		}
	}
	return nil, repositories.ErrCompetitorNotFound
}

func (r *fakeCompetitorRepo) List(_ context.Context) ([]models.Competitor, error) {
	out := append([]models.Competitor(nil), r.store.competitors...)
	sort.SliceStable(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if ni != nj {
			return ni < nj
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeCompetitorRepo) Count(_ context.Context) (int, error) {
	return len(r.store.competitors), nil
}

func (r *fakeCompetitorRepo) UpdateName(_ context.Context, _ repositories.SQLExecutor, id int, name string) error {
	for i := range r.store.competitors {
		if r.store.competitors[i].ID == id {
			r.store.competitors[i].Name = name
			return nil
		}
	}
	return repositories.ErrCompetitorNotFound
}

func (r *fakeCompetitorRepo) Update(_ context.Context, c *models.Competitor) error {
	for i := range r.store.competitors {
		if r.store.competitors[i].ID == c.ID {
			r.store.competitors[i] = *c
			return nil
		}
	}
	return repositories.ErrCompetitorNotFound
}

func (r *fakeCompetitorRepo) Delete(_ context.Context, id int) error {
	for i := range r.store.competitors {
		if r.store.competitors[i].ID == id {
			r.store.competitors = append(r.store.competitors[:i], r.store.competitors[i+1:]...)
			return nil
		}
	}
	return repositories.ErrCompetitorNotFound
}

type fakeTournamentRepo struct {
	store *fakeStore

	// onCreate runs before the duplicate check on Create, letting a test
	// slip a competing insert in between pre-check and insert.
	onCreate func()
}

func nameOrEmpty(name *string) string {
	if name == nil {
		return ""
	}
	return *name
}

func (r *fakeTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	if r.onCreate != nil {
		r.onCreate()
	}
	for _, existing := range r.store.tournaments {
		if existing.Date.Equal(t.Date) && nameOrEmpty(existing.Name) == nameOrEmpty(t.Name) {
			return repositories.ErrTournamentDuplicate
		}
	}
	t.ID = r.store.nextTournamentID
	r.store.nextTournamentID++
	t.CreatedAt = time.Now()
	r.store.tournaments = append(r.store.tournaments, *t)
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	for _, t := range r.store.tournaments {
		if t.ID == id {
			found := t
			return &found, nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}

func (r *fakeTournamentRepo) FindByNameAndDate(_ context.Context, _ repositories.SQLExecutor, name *string, date time.Time) (*models.Tournament, error) {
	for _, t := range r.store.tournaments {
		if t.Date.Equal(date) && nameOrEmpty(t.Name) == nameOrEmpty(name) {
			found := t
			return &found, nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}

func (r *fakeTournamentRepo) List(_ context.Context, _, _ int) ([]models.Tournament, error) {
	return append([]models.Tournament(nil), r.store.tournaments...), nil
}

func (r *fakeTournamentRepo) Count(_ context.Context) (int, error) {
	return len(r.store.tournaments), nil
}

func (r *fakeTournamentRepo) Delete(_ context.Context, id int) error {
	for i := range r.store.tournaments {
		if r.store.tournaments[i].ID == id {
			r.store.tournaments = append(r.store.tournaments[:i], r.store.tournaments[i+1:]...)
			return nil
		}
	}
	return repositories.ErrTournamentNotFound
}

type fakeResultRepo struct {
	store *fakeStore

	// failAfter, when positive, makes Create fail once that many rows
	// have been stored.
	failAfter int
	createErr error
	created   int
}

func (r *fakeResultRepo) Create(_ context.Context, _ repositories.SQLExecutor, res *models.TournamentResult) error {
	if r.failAfter > 0 && r.created >= r.failAfter {
		return r.createErr
	}
	for _, existing := range r.store.results {
		if existing.CompetitorID == res.CompetitorID && existing.TournamentID == res.TournamentID {
			return repositories.ErrResultDuplicate
		}
	}
	res.ID = r.store.nextResultID
	r.store.nextResultID++
	r.store.results = append(r.store.results, *res)
	r.created++
	return nil
}

func (r *fakeResultRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, res *models.TournamentResult) error {
	for i := range r.store.results {
		if r.store.results[i].CompetitorID == res.CompetitorID && r.store.results[i].TournamentID == res.TournamentID {
			res.ID = r.store.results[i].ID
			r.store.results[i] = *res
			return nil
		}
	}
	return r.Create(ctx, exec, res)
}

func (r *fakeResultRepo) ListByCompetitor(ctx context.Context, competitorID int) ([]models.ResultWithTournament, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.ResultWithTournament{}
	for _, rt := range all {
		if rt.Result.CompetitorID == competitorID {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (r *fakeResultRepo) ListAll(_ context.Context) ([]models.ResultWithTournament, error) {
	byID := make(map[int]models.Tournament, len(r.store.tournaments))
	for _, t := range r.store.tournaments {
		byID[t.ID] = t
	}
	out := []models.ResultWithTournament{}
	for _, res := range r.store.results {
		out = append(out, models.ResultWithTournament{
			Result:     res,
			Tournament: byID[res.TournamentID],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Tournament.Date.Equal(out[j].Tournament.Date) {
			return out[i].Tournament.Date.Before(out[j].Tournament.Date)
		}
		if out[i].Tournament.ID != out[j].Tournament.ID {
			return out[i].Tournament.ID < out[j].Tournament.ID
		}
		return out[i].Result.CompetitorID < out[j].Result.CompetitorID
	})
	return out, nil
}

func (r *fakeResultRepo) Count(_ context.Context) (int, error) {
	return len(r.store.results), nil
}

type fakeBroadcaster struct {
	calls [][]models.RankedCompetitor
}

func (b *fakeBroadcaster) BroadcastRankings(rows []models.RankedCompetitor) {
	b.calls = append(b.calls, rows)
}

var (
	_ repositories.CompetitorRepository = (*fakeCompetitorRepo)(nil)
	_ repositories.TournamentRepository = (*fakeTournamentRepo)(nil)
	_ repositories.ResultRepository     = (*fakeResultRepo)(nil)
	_ TxManager                         = (*fakeTxManager)(nil)
	_ RankingBroadcaster                = (*fakeBroadcaster)(nil)
)
