package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jmylchreest/episodarr/internal/models"
	"github.com/jmylchreest/episodarr/internal/repository"
	"github.com/jmylchreest/episodarr/internal/series"
)

// SeriesHandler exposes the read-only catalog queries.
type SeriesHandler struct {
	svc *series.Service
}

// NewSeriesHandler creates a new series handler.
func NewSeriesHandler(svc *series.Service) *SeriesHandler {
	return &SeriesHandler{svc: svc}
}

// ShowSummaryEntry is one row of the series summary listing.
type ShowSummaryEntry struct {
	ID              string     `json:"id" doc:"Show id"`
	Name            string     `json:"name" doc:"Display name"`
	IdentifiedBy    string     `json:"identified_by" doc:"Locked numbering scheme, auto when undecided"`
	EpisodeCount    int64      `json:"episode_count" doc:"Number of tracked episodes"`
	DownloadedCount int64      `json:"downloaded_count" doc:"Number of downloaded releases"`
	LatestFirstSeen *time.Time `json:"latest_first_seen,omitempty" doc:"Most recent release sighting"`
}

// ListSeriesInput selects and pages the series summary.
type ListSeriesInput struct {
	Configured string `query:"configured" enum:"all,configured,unconfigured" default:"all" doc:"Filter by task association"`
	Premieres  bool   `query:"premieres" doc:"Only shows that appear to have just started"`
	SortBy     string `query:"sort_by" enum:"name,latest" default:"name" doc:"Sort key"`
	Order      string `query:"order" enum:"asc,desc" default:"asc" doc:"Sort direction"`
	Offset     int    `query:"offset" minimum:"0" default:"0" doc:"Rows to skip"`
	Limit      int    `query:"limit" minimum:"1" maximum:"500" default:"100" doc:"Maximum rows"`
}

// ListSeriesOutput is the series summary response.
type ListSeriesOutput struct {
	Body struct {
		Series []ShowSummaryEntry `json:"series"`
	}
}

// EpisodeEntry is one episode in a listing.
type EpisodeEntry struct {
	ID           string `json:"id"`
	Identifier   string `json:"identifier"`
	IdentifiedBy string `json:"identified_by"`
	Season       int    `json:"season"`
	Number       int    `json:"number"`
	Releases     int    `json:"releases" doc:"Number of tracked releases"`
	Downloaded   bool   `json:"downloaded" doc:"Whether any release is downloaded"`
}

// GetShowInput addresses one show by id.
type GetShowInput struct {
	ID string `path:"id" doc:"Show id"`
}

// GetShowOutput is a single show with its episodes.
type GetShowOutput struct {
	Body struct {
		ID           string         `json:"id"`
		Name         string         `json:"name"`
		IdentifiedBy string         `json:"identified_by"`
		Begin        string         `json:"begin,omitempty" doc:"Begin episode identifier"`
		Episodes     []EpisodeEntry `json:"episodes"`
	}
}

// Register registers the series routes with the API.
func (h *SeriesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listSeries",
		Method:      "GET",
		Path:        "/api/v1/series",
		Summary:     "List tracked series",
		Tags:        []string{"Series"},
	}, h.ListSeries)

	huma.Register(api, huma.Operation{
		OperationID: "getSeries",
		Method:      "GET",
		Path:        "/api/v1/series/{id}",
		Summary:     "Get one series with its episodes",
		Tags:        []string{"Series"},
	}, h.GetShow)
}

// ListSeries returns the filtered, paginated series summary.
func (h *SeriesHandler) ListSeries(ctx context.Context, input *ListSeriesInput) (*ListSeriesOutput, error) {
	opts := repository.SummaryOptions{
		Premieres:  input.Premieres,
		SortByName: input.SortBy != "latest",
		Descending: input.Order == "desc",
		Offset:     input.Offset,
		Limit:      input.Limit,
	}
	switch input.Configured {
	case "configured":
		opts.Configured = repository.ConfiguredOnly
	case "unconfigured":
		opts.Configured = repository.Unconfigured
	default:
		opts.Configured = repository.ConfiguredAll
	}

	rows, err := h.svc.GetSeriesSummary(ctx, opts)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing series", err)
	}

	out := &ListSeriesOutput{}
	out.Body.Series = make([]ShowSummaryEntry, 0, len(rows))
	for _, row := range rows {
		out.Body.Series = append(out.Body.Series, ShowSummaryEntry{
			ID:              row.Show.ID.String(),
			Name:            row.Show.Name,
			IdentifiedBy:    string(row.Show.IdentifiedBy),
			EpisodeCount:    row.EpisodeCount,
			DownloadedCount: row.DownloadedCount,
			LatestFirstSeen: row.LatestFirstSeen,
		})
	}
	return out, nil
}

// GetShow returns one show and its ordered episodes.
func (h *SeriesHandler) GetShow(ctx context.Context, input *GetShowInput) (*GetShowOutput, error) {
	id, err := models.ParseULID(input.ID)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("invalid show id")
	}

	show, err := h.svc.ShowByID(ctx, id)
	if err != nil {
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			return nil, huma.Error404NotFound("show not found")
		}
		return nil, huma.Error500InternalServerError("getting show", err)
	}

	episodes, err := h.svc.ShowEpisodes(ctx, id, 0, 0)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing episodes", err)
	}

	out := &GetShowOutput{}
	out.Body.ID = show.ID.String()
	out.Body.Name = show.Name
	out.Body.IdentifiedBy = string(show.IdentifiedBy)
	out.Body.Episodes = make([]EpisodeEntry, 0, len(episodes))
	for _, episode := range episodes {
		if show.BeginEpisodeID != nil && *show.BeginEpisodeID == episode.ID {
			out.Body.Begin = episode.Identifier
		}
		out.Body.Episodes = append(out.Body.Episodes, EpisodeEntry{
			ID:           episode.ID.String(),
			Identifier:   episode.Identifier,
			IdentifiedBy: string(episode.IdentifiedBy),
			Season:       episode.Season,
			Number:       episode.Number,
			Releases:     len(episode.Releases),
			Downloaded:   episode.Downloaded(),
		})
	}
	return out, nil
}
