package handler

import (
	"errors"
	"strings"

	"talentmatch/internal/delivery/http/dto"
	"talentmatch/internal/delivery/http/middleware"
	"talentmatch/internal/domain/candidate"
	"talentmatch/internal/domain/scoring"
	"talentmatch/internal/pkg/response"
	"talentmatch/internal/repository"
	"talentmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// maxRankBatch bounds a single rank request. Larger lists should be paged
// by the caller.
const maxRankBatch = 200

type MatchHandler struct {
	uc         usecase.MatchUsecase
	candidates repository.CandidateRepository
	jobs       repository.JobRepository
}

func NewMatchHandler(uc usecase.MatchUsecase, candidates repository.CandidateRepository, jobs repository.JobRepository) *MatchHandler {
	return &MatchHandler{uc: uc, candidates: candidates, jobs: jobs}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/match")
	grp.Post("/jobs/:job_id/candidates/:candidate_id", h.ScoreJob)
	grp.Post("/jobs/:job_id/rank", h.RankJob)
	grp.Post("/criteria/candidates/:candidate_id", h.ScoreCriteria)
	grp.Post("/criteria/rank", h.RankCriteria)
}

func (h *MatchHandler) ScoreJob(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}
	candidateID, err := uuid.Parse(c.Params("candidate_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid candidate id", nil, err)
	}

	posting, err := h.jobs.FindByID(c.Context(), jobID)
	if err != nil {
		return mapMatchError(err)
	}
	cand, err := h.candidates.FindByID(c.Context(), candidateID)
	if err != nil {
		return mapMatchError(err)
	}

	if wantsRefresh(c) {
		if err := h.uc.Invalidate(c.Context(), candidateID, scoring.NewJobTarget(posting)); err != nil {
			return mapMatchError(err)
		}
	}

	res, err := h.uc.ScoreAgainstJob(c.Context(), cand, posting)
	if err != nil {
		return mapMatchError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResultResponse(res))
}

func (h *MatchHandler) ScoreCriteria(c fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("candidate_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid candidate id", nil, err)
	}

	var req dto.CriteriaRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}
	criteria := toCriteriaTarget(req)
	if err := criteria.Validate(); err != nil {
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Criteria must constrain at least one field", nil, err)
	}

	cand, err := h.candidates.FindByID(c.Context(), candidateID)
	if err != nil {
		return mapMatchError(err)
	}

	if wantsRefresh(c) {
		if err := h.uc.Invalidate(c.Context(), candidateID, criteria); err != nil {
			return mapMatchError(err)
		}
	}

	res, err := h.uc.ScoreAgainstCriteria(c.Context(), cand, criteria)
	if err != nil {
		return mapMatchError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResultResponse(res))
}

func (h *MatchHandler) RankJob(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	var req dto.RankJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}

	ids, appErr := parseCandidateIDs(req.CandidateIDs)
	if appErr != nil {
		return appErr
	}

	posting, err := h.jobs.FindByID(c.Context(), jobID)
	if err != nil {
		return mapMatchError(err)
	}

	cands, notFound, err := h.loadCandidates(c, ids)
	if err != nil {
		return mapMatchError(err)
	}

	results, err := h.uc.RankCandidatesForJob(c.Context(), cands, posting)
	if err != nil {
		return mapMatchError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRankResponse(results, notFound))
}

func (h *MatchHandler) RankCriteria(c fiber.Ctx) error {
	var req dto.RankCriteriaRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}

	criteria := toCriteriaTarget(req.Criteria)
	if err := criteria.Validate(); err != nil {
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Criteria must constrain at least one field", nil, err)
	}

	ids, appErr := parseCandidateIDs(req.CandidateIDs)
	if appErr != nil {
		return appErr
	}

	cands, notFound, err := h.loadCandidates(c, ids)
	if err != nil {
		return mapMatchError(err)
	}

	results, err := h.uc.RankCandidatesForCriteria(c.Context(), cands, criteria)
	if err != nil {
		return mapMatchError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRankResponse(results, notFound))
}

func (h *MatchHandler) loadCandidates(c fiber.Ctx, ids []uuid.UUID) ([]candidate.Record, []uuid.UUID, error) {
	cands, err := h.candidates.FindByIDs(c.Context(), ids)
	if err != nil {
		return nil, nil, err
	}

	found := make(map[uuid.UUID]bool, len(cands))
	for _, cand := range cands {
		found[cand.ID] = true
	}
	var notFound []uuid.UUID
	for _, id := range ids {
		if !found[id] {
			notFound = append(notFound, id)
		}
	}
	return cands, notFound, nil
}

func parseCandidateIDs(raw []string) ([]uuid.UUID, *middleware.AppError) {
	if len(raw) == 0 {
		return nil, middleware.NewAppError(fiber.StatusBadRequest, "candidate_ids must not be empty", nil, nil)
	}
	if len(raw) > maxRankBatch {
		return nil, middleware.NewAppError(fiber.StatusBadRequest, "Too many candidate ids", nil, nil)
	}

	seen := make(map[uuid.UUID]bool, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			return nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid candidate id: "+s, nil, err)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

func toCriteriaTarget(req dto.CriteriaRequest) scoring.CriteriaTarget {
	return scoring.CriteriaTarget{
		Skills:        req.Skills,
		SearchTerm:    req.SearchTerm,
		Location:      req.Location,
		MinExperience: req.MinExperience,
		JobTitle:      req.JobTitle,
		Industry:      req.Industry,
	}
}

func wantsRefresh(c fiber.Ctx) bool {
	v := c.Query("refresh")
	return v == "1" || v == "true"
}

func mapMatchError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, repository.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, repository.ErrCandidateNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Candidate not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidTarget):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Invalid scoring target", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid input", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
