package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/papyrus-lab/papyrus/pkg/domain/model"
	"github.com/papyrus-lab/papyrus/pkg/service/search"
)

// SearchMode selects lexical or semantic ranking
type SearchMode string

const (
	SearchModeLexical  SearchMode = "lexical"
	SearchModeSemantic SearchMode = "semantic"
)

// SearchUseCase serves search over the requester's reconciled note
// collection. It reads through the persistence gateway independently
// of the write path.
type SearchUseCase struct {
	notes  *NoteUseCase
	engine *search.Engine
}

func NewSearchUseCase(notes *NoteUseCase, engine *search.Engine) *SearchUseCase {
	return &SearchUseCase{
		notes:  notes,
		engine: engine,
	}
}

// Search ranks the requester's notes for the query. An empty query
// returns the unfiltered corpus.
func (uc *SearchUseCase) Search(ctx context.Context, requesterID model.UserID, query string, mode SearchMode, limit int) ([]search.Result, error) {
	corpus, err := uc.notes.List(ctx, requesterID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load note corpus")
	}

	switch mode {
	case SearchModeSemantic:
		if query == "" {
			return uc.engine.Lexical(corpus, ""), nil
		}
		return uc.engine.Semantic(ctx, corpus, query, limit)
	default:
		return uc.engine.Lexical(corpus, query), nil
	}
}

// NewLive creates a debounced live query session. Each settled query
// (or a cleared query) runs a lexical search and hands the results to
// deliver.
func (uc *SearchUseCase) NewLive(requesterID model.UserID, deliver func(ctx context.Context, results []search.Result), opts ...search.LiveOption) *search.Live {
	return search.NewLive(func(ctx context.Context, query string) {
		results, err := uc.Search(ctx, requesterID, query, SearchModeLexical, 0)
		if err != nil {
			return
		}
		deliver(ctx, results)
	}, opts...)
}
