package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/timbersport/ranking-system/models"
	"github.com/timbersport/ranking-system/repositories"
	"github.com/timbersport/ranking-system/sheets"
	"github.com/timbersport/ranking-system/storage"
)

// RankingBroadcaster pushes a freshly computed ranking table to live
// subscribers. Satisfied by live.Hub.
type RankingBroadcaster interface {
	BroadcastRankings(rows []models.RankedCompetitor)
}

// TournamentMeta identifies the tournament a sheet is committed as.
type TournamentMeta struct {
	Name *string   `json:"name,omitempty"`
	Date time.Time `json:"date"`
}

// CommitInput carries everything the commit step needs: the tournament
// settings, the previewed competitor rows the caller confirmed, and
// optionally the original sheet for archival.
type CommitInput struct {
	Meta        TournamentMeta
	Settings    sheets.Settings
	Competitors []sheets.ParsedCompetitor

	RawSheet []byte
	Filename string
}

// CommitResult reports what a successful commit created.
type CommitResult struct {
	TournamentID       int      `json:"tournament_id"`
	NewCompetitors     []string `json:"new_competitors"`
	UpdatedCompetitors []string `json:"updated_competitors"`
}

// UploadService is the commit coordinator: it previews sheets and
// atomically persists a confirmed preview as a tournament with results.
type UploadService interface {
	Preview(raw string, settings sheets.Settings) sheets.ParseResult
	PreviewWorkbook(data []byte, settings sheets.Settings) (sheets.ParseResult, error)
	Commit(ctx context.Context, input CommitInput) (*CommitResult, error)
}

type uploadService struct {
	tx             TxManager
	tournamentRepo repositories.TournamentRepository
	competitorRepo repositories.CompetitorRepository
	resultRepo     repositories.ResultRepository
	ranking        RankingService

	uploader    storage.FileUploader // optional
	broadcaster RankingBroadcaster   // optional
	logger      *slog.Logger
}

func NewUploadService(
	tx TxManager,
	tournamentRepo repositories.TournamentRepository,
	competitorRepo repositories.CompetitorRepository,
	resultRepo repositories.ResultRepository,
	ranking RankingService,
	uploader storage.FileUploader,
	broadcaster RankingBroadcaster,
	logger *slog.Logger,
) UploadService {
	return &uploadService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		competitorRepo: competitorRepo,
		resultRepo:     resultRepo,
		ranking:        ranking,
		uploader:       uploader,
		broadcaster:    broadcaster,
		logger:         logger,
	}
}

func (s *uploadService) Preview(raw string, settings sheets.Settings) sheets.ParseResult {
	return sheets.Parse(raw, settings)
}

func (s *uploadService) PreviewWorkbook(data []byte, settings sheets.Settings) (sheets.ParseResult, error) {
	return sheets.ParseWorkbook(data, settings)
}

// Commit persists one parsed tournament in a single transaction:
// duplicate check, tournament insert, competitor upsert (email match
// first, then case-insensitive name), one result row per competitor.
// Inactive events are forced to null at this point regardless of what
// the parser produced.
func (s *uploadService) Commit(ctx context.Context, input CommitInput) (*CommitResult, error) {
	if input.Meta.Date.IsZero() {
		return nil, ErrTournamentDateRequired
	}
	for _, event := range input.Settings.ActiveEvents {
		if !models.ValidEvent(event) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidEvent, event)
		}
	}
	if len(input.Competitors) == 0 {
		return nil, ErrNothingToCommit
	}

	tournament := &models.Tournament{
		Name: input.Meta.Name,
		Date: input.Meta.Date,
	}
	for _, event := range models.AllEvents {
		tournament.SetEvent(event, input.Settings.Active(event), input.Settings.TotalFor(event))
	}

	result := &CommitResult{
		NewCompetitors:     []string{},
		UpdatedCompetitors: []string{},
	}

	txErr := s.tx.Do(ctx, func(exec repositories.SQLExecutor) error {
		// Pre-check inside the transaction boundary; the unique index on
		// (date, name) remains the final authority against races.
		existing, err := s.tournamentRepo.FindByNameAndDate(ctx, exec, input.Meta.Name, input.Meta.Date)
		if err == nil {
			return &TournamentConflictError{ExistingID: existing.ID}
		}
		if !errors.Is(err, repositories.ErrTournamentNotFound) {
			return fmt.Errorf("failed to check for duplicate tournament: %w", err)
		}

		if err := s.tournamentRepo.Create(ctx, exec, tournament); err != nil {
			return err
		}
		result.TournamentID = tournament.ID

		for _, parsed := range input.Competitors {
			competitor, created, err := s.matchOrCreateCompetitor(ctx, exec, parsed)
			if err != nil {
				return err
			}
			if created {
				result.NewCompetitors = append(result.NewCompetitors, competitor.Name)
			} else if competitor.Name != parsed.Name {
				if err := s.competitorRepo.UpdateName(ctx, exec, competitor.ID, parsed.Name); err != nil {
					return fmt.Errorf("failed to rename competitor %d: %w", competitor.ID, err)
				}
				result.UpdatedCompetitors = append(result.UpdatedCompetitors, parsed.Name)
			}

			row := &models.TournamentResult{
				CompetitorID: competitor.ID,
				TournamentID: tournament.ID,
			}
			for _, event := range models.AllEvents {
				if !tournament.HasEvent(event) {
					row.SetEarned(event, nil)
					continue
				}
				earned := parsed.Earned[event]
				if earned == nil {
					zero := 0.0
					earned = &zero
				}
				row.SetEarned(event, earned)
			}
			if err := s.resultRepo.Create(ctx, exec, row); err != nil {
				return fmt.Errorf("failed to store result for %q: %w", parsed.Name, err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, s.translateCommitError(ctx, txErr, input.Meta)
	}

	s.archiveSheet(ctx, input, result.TournamentID)
	s.broadcastRankings(ctx)

	return result, nil
}

// matchOrCreateCompetitor resolves a parsed row to a competitor id:
// email match first when the row carries one, then case-insensitive
// name, then insert.
func (s *uploadService) matchOrCreateCompetitor(ctx context.Context, exec repositories.SQLExecutor, parsed sheets.ParsedCompetitor) (*models.Competitor, bool, error) {
	if parsed.Email != nil {
		competitor, err := s.competitorRepo.FindByEmail(ctx, exec, *parsed.Email)
		if err == nil {
			return competitor, false, nil
		}
		if !errors.Is(err, repositories.ErrCompetitorNotFound) {
			return nil, false, fmt.Errorf("failed to match competitor by email: %w", err)
		}
	}

	competitor, err := s.competitorRepo.FindByName(ctx, exec, parsed.Name)
	if err == nil {
		return competitor, false, nil
	}
	if !errors.Is(err, repositories.ErrCompetitorNotFound) {
		return nil, false, fmt.Errorf("failed to match competitor by name: %w", err)
	}

	competitor = &models.Competitor{Name: parsed.Name, Email: parsed.Email}
	if err := s.competitorRepo.Create(ctx, exec, competitor); err != nil {
		return nil, false, fmt.Errorf("failed to create competitor %q: %w", parsed.Name, err)
	}
	return competitor, true, nil
}

// translateCommitError turns a mid-transaction unique violation into the
// same conflict the pre-check produces, looking the winner up after the
// rollback so the caller still gets its id.
func (s *uploadService) translateCommitError(ctx context.Context, err error, meta TournamentMeta) error {
	if !errors.Is(err, repositories.ErrTournamentDuplicate) {
		return err
	}
	existing, findErr := s.tournamentRepo.FindByNameAndDate(ctx, nil, meta.Name, meta.Date)
	if findErr != nil {
		return &TournamentConflictError{}
	}
	return &TournamentConflictError{ExistingID: existing.ID}
}

func (s *uploadService) archiveSheet(ctx context.Context, input CommitInput, tournamentID int) {
	if s.uploader == nil || len(input.RawSheet) == 0 {
		return
	}
	filename := input.Filename
	if filename == "" {
		filename = "sheet.csv"
	}
	key := fmt.Sprintf("sheets/%d/%s", tournamentID, filename)
	if _, err := s.uploader.Upload(ctx, key, "application/octet-stream", bytes.NewReader(input.RawSheet)); err != nil {
		s.logger.Warn("failed to archive uploaded sheet",
			slog.Int("tournament_id", tournamentID), slog.Any("error", err))
	}
}

func (s *uploadService) broadcastRankings(ctx context.Context) {
	if s.broadcaster == nil {
		return
	}
	rows, err := s.ranking.RankAll(ctx)
	if err != nil {
		s.logger.Warn("failed to recompute rankings for broadcast", slog.Any("error", err))
		return
	}
	s.broadcaster.BroadcastRankings(rows)
}
