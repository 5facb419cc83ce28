package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/stonebridge-motors/towguide/internal/guide"
	"github.com/stonebridge-motors/towguide/internal/observability"
)

// TokenSource yields positioned text tokens per page. The exact-table path
// needs raw glyph-run coordinates; a plain text dump loses column alignment.
type TokenSource interface {
	PageCount() int
	PageTokens(page int) ([]Token, error)
}

// TextSource yields flattened text per page for the lossy and pattern paths.
type TextSource interface {
	PageText(page int) (string, error)
}

// Extractor turns one guide document into a GuideDocument per the edition
// profile's page map. One extraction run is a single synchronous pass.
type Extractor struct {
	profile *guide.EditionProfile
	tokens  TokenSource
	text    TextSource
	log     *observability.Logger

	// PageHook, when set, is invoked after each processed page (CLI progress).
	PageHook func(page int)
}

// NewExtractor wires an extractor over its page sources.
func NewExtractor(profile *guide.EditionProfile, tokens TokenSource, text TextSource, log *observability.Logger) *Extractor {
	if log == nil {
		log = observability.NewNopLogger()
	}
	return &Extractor{profile: profile, tokens: tokens, text: text, log: log}
}

// Run extracts the full document. A failed page or section degrades (logged,
// section skipped or replaced by the lossy path); only a completely unusable
// source is an error.
func (e *Extractor) Run(ctx context.Context, sourceName string) (*guide.GuideDocument, error) {
	pageCount := e.tokens.PageCount()
	if pageCount == 0 {
		return nil, fmt.Errorf("source %q has no pages", sourceName)
	}

	pagesText := make(map[int]string, pageCount)
	for pi := 0; pi < pageCount; pi++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := e.text.PageText(pi)
		if err != nil {
			e.log.Warn().Int("page", pi).Err(err).Msg("page text extraction failed, skipping page")
			continue
		}
		pagesText[pi] = text
		if e.PageHook != nil {
			e.PageHook(pi)
		}
	}

	doc := &guide.GuideDocument{
		Year:        e.profile.Year,
		SourcePDF:   sourceName,
		ExtractedAt: time.Now().UTC(),
		Models:      make(map[string]*guide.ModelCapacity),
	}

	for model, page := range e.profile.PerformancePages {
		perf := ExtractPerformanceTable(pagesText[page])
		if len(perf) == 0 {
			e.log.Warn().Str("model", model).Int("page", page).Msg("no performance rows extracted")
		}
		e.modelEntry(doc, model).PerformanceByEngine = perf
	}

	for model, page := range e.profile.TrailerPages {
		// Which pattern set applies is edition knowledge, keyed by model.
		var rows []guide.EngineTrailerRow
		switch model {
		case "Ranger":
			rows = ExtractRanger(pagesText[page])
		case "Maverick":
			rows = ExtractMaverick(pagesText[page])
		default:
			e.log.Warn().Str("model", model).Msg("no pattern extractor for model")
			continue
		}
		if len(rows) == 0 {
			e.log.Warn().Str("model", model).Int("page", page).Msg("no trailer rows extracted")
		}
		e.modelEntry(doc, model).TrailerRows = rows
	}

	for _, spec := range e.profile.SelectorSections {
		section := ExtractSelectorSection(pagesText, spec, e.profile)
		entry := e.modelEntry(doc, spec.Model)
		if entry.Selectors == nil {
			entry.Selectors = make(map[string]*guide.SelectorSection)
		}
		entry.Selectors[spec.Name] = section
		e.log.Debug().Str("model", spec.Model).Str("section", spec.Name).
			Int("engines", len(section.ByEngine)).Msg("selector section extracted")
	}

	for _, spec := range e.profile.ExactSections {
		pages, err := e.collectPageLines(ctx, spec.Pages)
		if err != nil {
			return nil, err
		}
		table := ExtractExactTable(pages, e.profile)
		if table == nil || len(table.Rows) == 0 {
			// Layout reconstruction failed; the lossy section extracted
			// above still covers these pages with ranges.
			e.log.Warn().Str("model", spec.Model).Str("section", spec.Name).
				Msg("exact table reconstruction failed, lossy section only")
			continue
		}
		entry := e.modelEntry(doc, spec.Model)
		if entry.SelectorsExact == nil {
			entry.SelectorsExact = make(map[string]*guide.ExactTable)
		}
		entry.SelectorsExact[spec.Name] = table
		e.log.Info().Str("model", spec.Model).Str("section", spec.Name).
			Int("columns", len(table.Columns)).Int("rows", len(table.Rows)).
			Msg("exact table extracted")
	}

	return doc, nil
}

func (e *Extractor) collectPageLines(ctx context.Context, pages []int) ([]PageLines, error) {
	out := make([]PageLines, 0, len(pages))
	for _, pi := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tokens, err := e.tokens.PageTokens(pi)
		if err != nil {
			e.log.Warn().Int("page", pi).Err(err).Msg("page token extraction failed, skipping page")
			continue
		}
		out = append(out, PageLines{Index: pi, Lines: GroupLines(tokens)})
	}
	return out, nil
}

func (e *Extractor) modelEntry(doc *guide.GuideDocument, model string) *guide.ModelCapacity {
	entry := doc.Models[model]
	if entry == nil {
		entry = &guide.ModelCapacity{}
		doc.Models[model] = entry
	}
	return entry
}
